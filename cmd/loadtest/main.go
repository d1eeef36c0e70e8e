package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Result 记录单次请求的 HTTP 结果，便于聚合统计。
type Result struct {
	Status int
	Body   string
	Err    error
}

func main() {
	baseURL := flag.String("base", "http://localhost:8080", "server base url")
	seed := flag.Bool("seed", true, "create a demo catalog and order before the test")
	orderID := flag.Uint("order", 0, "order id to process (0 = use seeded order)")
	total := flag.Int("n", 50, "total processOrder requests")
	concurrency := flag.Int("c", 10, "max concurrency")
	flag.Parse()

	client := &http.Client{Timeout: 5 * time.Second}

	id := *orderID
	if *seed {
		seeded, err := seedOrder(client, *baseURL)
		if err != nil {
			panic(fmt.Sprintf("seed failed: %v", err))
		}
		fmt.Printf("seeded order %d\n", seeded)
		if id == 0 {
			id = seeded
		}
	}
	if id == 0 {
		panic("no order to process: pass -order or keep -seed enabled")
	}

	fmt.Printf("start processOrder test: order=%d n=%d concurrency=%d\n", id, *total, *concurrency)
	results := runProcess(client, *baseURL, id, *total, *concurrency)
	printSummary("process_order", results)
}

// seedOrder 建一批覆盖全部商品类型的演示商品，挂到一张新订单上。
func seedOrder(client *http.Client, baseURL string) (uint, error) {
	now := time.Now()
	day := 24 * time.Hour
	rfc := func(t time.Time) string { return t.Format(time.RFC3339) }

	catalog := []map[string]any{
		{"name": "USB Cable", "type": "NORMAL", "available": 30, "lead_time": 15},
		{"name": "USB Dongle", "type": "NORMAL", "available": 0, "lead_time": 10},
		{"name": "Butter", "type": "EXPIRABLE", "available": 30, "lead_time": 15,
			"expiry_date": rfc(now.Add(26 * day))},
		{"name": "Milk", "type": "EXPIRABLE", "available": 6, "lead_time": 90,
			"expiry_date": rfc(now.Add(-2 * day))},
		{"name": "Watermelon", "type": "SEASONAL", "available": 30, "lead_time": 15,
			"season_start_date": rfc(now.Add(-2 * day)), "season_end_date": rfc(now.Add(58 * day))},
		{"name": "Grapes", "type": "SEASONAL", "available": 30, "lead_time": 15,
			"season_start_date": rfc(now.Add(180 * day)), "season_end_date": rfc(now.Add(240 * day))},
		{"name": "PS5", "type": "FLASHSALE", "available": 30, "max_quantity": 10,
			"flash_sale_start_date": rfc(now.Add(-1 * day)), "flash_sale_end_date": rfc(now.Add(1 * day))},
	}

	productIDs := make([]uint, 0, len(catalog))
	for _, p := range catalog {
		var out struct {
			Data struct {
				ID uint `json:"id"`
			} `json:"data"`
		}
		if err := doPOST(client, baseURL+"/api/products", p, &out); err != nil {
			return 0, fmt.Errorf("create product %v: %w", p["name"], err)
		}
		productIDs = append(productIDs, out.Data.ID)
	}

	var created struct {
		ID uint `json:"id"`
	}
	if err := doPOST(client, baseURL+"/api/orders", nil, &created); err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}

	attach := map[string]any{"product_ids": productIDs}
	url := fmt.Sprintf("%s/api/orders/%d/products", baseURL, created.ID)
	if err := doPOST(client, url, attach, nil); err != nil {
		return 0, fmt.Errorf("attach products: %w", err)
	}
	return created.ID, nil
}

func runProcess(client *http.Client, baseURL string, orderID uint, total, concurrency int) []Result {
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	results := make([]Result, total)

	url := fmt.Sprintf("%s/orders/%d/processOrder", baseURL, orderID)
	for i := 0; i < total; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			results[idx] = processOnce(client, url)
		}(i)
	}

	wg.Wait()
	return results
}

func processOnce(client *http.Client, url string) Result {
	resp, err := client.Post(url, "application/json", nil)
	if err != nil {
		return Result{Err: err}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return Result{Status: resp.StatusCode, Body: string(body)}
}

// printSummary 聚合输出不同状态码分布。
func printSummary(name string, results []Result) {
	count := map[int]int{}
	errCount := 0
	for _, r := range results {
		if r.Err != nil {
			errCount++
			continue
		}
		count[r.Status]++
	}
	fmt.Printf("[%s] http status summary:\n", name)
	for _, code := range []int{200, 400, 404, 429, 500} {
		if count[code] > 0 {
			fmt.Printf("  %d -> %d\n", code, count[code])
		}
	}
	if errCount > 0 {
		fmt.Printf("  errors -> %d\n", errCount)
	}
}

// doPOST 发送 POST 请求并在需要时解析响应体。
func doPOST(client *http.Client, url string, body any, out any) error {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(http.MethodPost, url, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(b))
	}
	if out != nil {
		return json.Unmarshal(b, out)
	}
	return nil
}
