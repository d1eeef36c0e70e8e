package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig 聚合运行时配置，尽量通过环境变量注入，避免硬编码。
type AppConfig struct {
	ServiceName string
	Env         string

	HTTPAddr string
	DBPath   string

	RedisAddr string
	RedisDB   int

	// Kafka 集群地址（逗号分隔）与通知 Topic。
	// Brokers 为空时通知降级为结构化日志输出。
	KafkaBrokers      []string
	NotificationTopic string

	// processOrder 接口限流
	ProcessRateLimit  int
	ProcessRateWindow time.Duration
}

// Load 读取并校验配置，缺失时使用默认值。
func Load() (AppConfig, error) {
	cfg := AppConfig{
		ServiceName:       getEnv("SERVICE_NAME", "order-fulfillment"),
		Env:               getEnv("ENV", "dev"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		DBPath:            getEnv("DB_PATH", "order_fulfillment.db"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:           0,
		KafkaBrokers:      splitCSV(getEnv("KAFKA_BROKERS", "")),
		NotificationTopic: getEnv("NOTIFICATION_TOPIC", "fulfillment-notifications"),
		ProcessRateLimit:  100,
		ProcessRateWindow: time.Second,
	}

	redisDB, err := getEnvInt("REDIS_DB", cfg.RedisDB)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	rateLimit, err := getEnvInt("PROCESS_RATE_LIMIT", cfg.ProcessRateLimit)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid PROCESS_RATE_LIMIT: %w", err)
	}
	if rateLimit <= 0 {
		return AppConfig{}, fmt.Errorf("PROCESS_RATE_LIMIT must be > 0")
	}
	cfg.ProcessRateLimit = rateLimit

	rateWindowSec, err := getEnvInt("PROCESS_RATE_WINDOW_SEC", int(cfg.ProcessRateWindow.Seconds()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid PROCESS_RATE_WINDOW_SEC: %w", err)
	}
	if rateWindowSec <= 0 {
		return AppConfig{}, fmt.Errorf("PROCESS_RATE_WINDOW_SEC must be > 0")
	}
	cfg.ProcessRateWindow = time.Duration(rateWindowSec) * time.Second

	if len(cfg.KafkaBrokers) > 0 && cfg.NotificationTopic == "" {
		return AppConfig{}, fmt.Errorf("NOTIFICATION_TOPIC must not be empty when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// getEnv 读取字符串环境变量，若为空则返回默认值。
func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// getEnvInt 读取整数环境变量，若为空则返回默认值。
func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

// splitCSV 将逗号分隔字符串解析为字符串切片。
func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
