package router

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"order_fulfillment/internal/config"
	"order_fulfillment/internal/middleware"
	"order_fulfillment/internal/model"
	"order_fulfillment/internal/repository"
	"order_fulfillment/internal/service"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// OrderService 订单编排入口。
type OrderService interface {
	ProcessOrder(ctx context.Context, orderID uint) (service.OrderResult, error)
	Create(ctx context.Context, order *model.Order) error
	AddProducts(ctx context.Context, orderID uint, products []model.Product) error
}

// ProductService 商品维护入口。
type ProductService interface {
	Create(ctx context.Context, p *model.Product) error
	List(ctx context.Context) ([]model.Product, error)
}

// Setup 注册全部 HTTP 路由。rdb 为 nil 时跳过限流（测试与无 Redis 部署）。
func Setup(r *gin.Engine, orders OrderService, products ProductService, rdb *rd.Client, cfg config.AppConfig, logger *zap.Logger) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "pong"})
	})

	// Orders
	process := []gin.HandlerFunc{}
	if rdb != nil {
		process = append(process, middleware.RedisRateLimit(rdb, cfg.ProcessRateLimit, cfg.ProcessRateWindow, logger))
	}
	process = append(process, processOrder(orders, logger))
	r.POST("/orders/:order_id/processOrder", process...)
	r.POST("/api/orders", createOrder(orders))
	r.POST("/api/orders/:order_id/products", addProducts(orders))

	// Products
	r.GET("/api/products", listProducts(products))
	r.POST("/api/products", createProduct(products))
}

// processOrder 处理订单下所有商品行。
// 两个“正常缺席”情形映射为 404，其余错误统一视为服务端失败。
func processOrder(orders OrderService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseOrderID(c)
		if !ok {
			return
		}

		result, err := orders.ProcessOrder(c.Request.Context(), id)
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
		case errors.Is(err, service.ErrOrderEmpty):
			c.JSON(http.StatusNotFound, gin.H{"message": "Order is empty"})
		case err != nil:
			logger.Error("process_order_failed",
				zap.Uint("order_id", id),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		default:
			c.JSON(http.StatusOK, result)
		}
	}
}

// createOrder 先建空单，商品随后通过 addProducts 挂载。
func createOrder(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order := &model.Order{}
		if err := orders.Create(c.Request.Context(), order); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": order.ID})
	}
}

// addProducts 将已存在的商品按 id 挂到订单上。
func addProducts(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseOrderID(c)
		if !ok {
			return
		}

		var req struct {
			ProductIDs []uint `json:"product_ids" binding:"required,min=1,dive,min=1"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		products := make([]model.Product, 0, len(req.ProductIDs))
		for _, pid := range req.ProductIDs {
			products = append(products, model.Product{ID: pid})
		}
		if err := orders.AddProducts(c.Request.Context(), id, products); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Order or product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orderId": id, "added": len(products)})
	}
}

// listProducts 查询商品列表。
func listProducts(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := products.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": list})
	}
}

// createProduct 新建商品（含按类型的时间窗校验）。
func createProduct(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name               string `json:"name" binding:"required"`
			Type               string `json:"type" binding:"required"`
			Available          int    `json:"available" binding:"min=0"`
			LeadTime           int    `json:"lead_time" binding:"min=0"`
			ExpiryDate         string `json:"expiry_date"`
			SeasonStartDate    string `json:"season_start_date"`
			SeasonEndDate      string `json:"season_end_date"`
			FlashSaleStartDate string `json:"flash_sale_start_date"`
			FlashSaleEndDate   string `json:"flash_sale_end_date"`
			MaxQuantity        int    `json:"max_quantity" binding:"min=0"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		productType := model.ProductType(req.Type)
		if !model.ValidType(productType) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "unknown product type"})
			return
		}

		p := &model.Product{
			Name:        req.Name,
			Type:        productType,
			Available:   req.Available,
			LeadTime:    req.LeadTime,
			MaxQuantity: req.MaxQuantity,
		}
		var err error
		if p.ExpiryDate, err = parseOptionalDate(req.ExpiryDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "expiry_date 格式错误，请用 RFC3339"})
			return
		}
		if p.SeasonStartDate, err = parseOptionalDate(req.SeasonStartDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "season_start_date 格式错误，请用 RFC3339"})
			return
		}
		if p.SeasonEndDate, err = parseOptionalDate(req.SeasonEndDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "season_end_date 格式错误，请用 RFC3339"})
			return
		}
		if p.FlashSaleStartDate, err = parseOptionalDate(req.FlashSaleStartDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "flash_sale_start_date 格式错误，请用 RFC3339"})
			return
		}
		if p.FlashSaleEndDate, err = parseOptionalDate(req.FlashSaleEndDate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "flash_sale_end_date 格式错误，请用 RFC3339"})
			return
		}

		if msg := validateDates(p); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": msg})
			return
		}

		if err := products.Create(c.Request.Context(), p); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": p})
	}
}

// parseOrderID 解析路径参数中的订单号，非法时直接写 400。
func parseOrderID(c *gin.Context) (uint, bool) {
	idStr := c.Param("order_id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order id"})
		return 0, false
	}
	return uint(id), true
}

func parseOptionalDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// validateDates 按商品类型检查必需的时间窗。
func validateDates(p *model.Product) string {
	switch p.Type {
	case model.ProductTypeSeasonal:
		if p.SeasonStartDate == nil || p.SeasonEndDate == nil {
			return "SEASONAL 商品必须提供 season_start_date 和 season_end_date"
		}
		if !p.SeasonEndDate.After(*p.SeasonStartDate) {
			return "season_end_date 必须晚于 season_start_date"
		}
	case model.ProductTypeExpirable:
		if p.ExpiryDate == nil {
			return "EXPIRABLE 商品必须提供 expiry_date"
		}
	case model.ProductTypeFlashSale:
		if p.FlashSaleStartDate == nil || p.FlashSaleEndDate == nil {
			return "FLASHSALE 商品必须提供 flash_sale_start_date 和 flash_sale_end_date"
		}
		if !p.FlashSaleEndDate.After(*p.FlashSaleStartDate) {
			return "flash_sale_end_date 必须晚于 flash_sale_start_date"
		}
	}
	return ""
}
