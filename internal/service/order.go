package service

import (
	"context"
	"errors"
	"fmt"

	"order_fulfillment/internal/model"
	"order_fulfillment/internal/repository"
)

var (
	// ErrOrderNotFound 订单号未命中任何订单。
	ErrOrderNotFound = errors.New("order: not found")
	// ErrOrderEmpty 订单存在但没有任何商品，无法处理。
	ErrOrderEmpty = errors.New("order: no products to process")
)

// OrderResult 处理成功后的摘要。
type OrderResult struct {
	OrderID uint `json:"orderId"`
}

// OrderService 编排一次订单处理：加载订单及商品，逐个走履约规则。
type OrderService struct {
	orders    OrderStore
	processor ProductProcessor
}

func NewOrderService(orders OrderStore, processor ProductProcessor) *OrderService {
	return &OrderService{orders: orders, processor: processor}
}

// ProcessOrder loads the order with its line items and runs each product
// through the fulfillment rules. The loop is strictly sequential: each step
// reads then writes shared stock state and must not race with the next.
// The first failure aborts the whole call; there is no partial-success
// reporting.
func (s *OrderService) ProcessOrder(ctx context.Context, orderID uint) (OrderResult, error) {
	order, err := s.orders.FindWithProducts(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return OrderResult{}, ErrOrderNotFound
		}
		return OrderResult{}, err
	}
	if len(order.Products) == 0 {
		return OrderResult{}, ErrOrderEmpty
	}

	for _, p := range order.Products {
		if _, err := s.processor.ProcessOrderProduct(ctx, p); err != nil {
			return OrderResult{}, fmt.Errorf("process product %d: %w", p.ID, err)
		}
	}

	return OrderResult{OrderID: order.ID}, nil
}

// Create 新建订单。
func (s *OrderService) Create(ctx context.Context, order *model.Order) error {
	return s.orders.Create(ctx, order)
}

// AddProducts 将商品挂到订单上。
func (s *OrderService) AddProducts(ctx context.Context, orderID uint, products []model.Product) error {
	return s.orders.AddProducts(ctx, orderID, products)
}
