package service

import (
	"context"
	"fmt"
	"time"

	"order_fulfillment/internal/model"
	"order_fulfillment/internal/notification"
)

const day = 24 * time.Hour

// ProductService 是商品履约规则引擎：按商品类型决定扣减库存、延迟还是拒绝，
// 并触发对应的通知。
type ProductService struct {
	products ProductStore
	notifier notification.Notifier
}

func NewProductService(products ProductStore, notifier notification.Notifier) *ProductService {
	return &ProductService{products: products, notifier: notifier}
}

// ProcessOrderProduct applies the fulfillment rule matching the product's
// type and returns the updated record. At most one repository write happens
// per call: exactly when a branch mutates stock or commits unavailability.
func (s *ProductService) ProcessOrderProduct(ctx context.Context, p model.Product) (model.Product, error) {
	switch p.Type {
	case model.ProductTypeNormal:
		return s.processNormal(ctx, p)
	case model.ProductTypeSeasonal:
		return s.processSeasonal(ctx, p)
	case model.ProductTypeExpirable:
		return s.processExpirable(ctx, p)
	case model.ProductTypeFlashSale:
		return s.processFlashSale(ctx, p)
	default:
		return model.Product{}, fmt.Errorf("unknown product type: %q", p.Type)
	}
}

// Create 新建商品。
func (s *ProductService) Create(ctx context.Context, p *model.Product) error {
	return s.products.Create(ctx, p)
}

// List 查询商品列表。
func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	return s.products.List(ctx)
}

func (s *ProductService) processNormal(ctx context.Context, p model.Product) (model.Product, error) {
	if p.Available > 0 {
		p.Available--
		return s.products.Update(ctx, p)
	}
	if p.LeadTime > 0 {
		return s.notifyDelay(ctx, p.LeadTime, p)
	}
	// 无库存也无补货周期：该行静默落空，不落库也不通知。
	return p, nil
}

func (s *ProductService) processSeasonal(ctx context.Context, p model.Product) (model.Product, error) {
	now := time.Now()
	restockAt := now.Add(time.Duration(p.LeadTime) * day)

	if restockAt.After(timeOrZero(p.SeasonEndDate)) {
		// 补货落在季末之后，本季已无法履约。
		s.notifier.SendOutOfStockNotification(ctx, p.Name)
		p.Available = 0
		return s.products.Update(ctx, p)
	}
	if timeOrZero(p.SeasonStartDate).After(now) {
		// 季节未开始：通知缺货，库存不动。
		s.notifier.SendOutOfStockNotification(ctx, p.Name)
		return s.products.Update(ctx, p)
	}
	// In season: always the delay path, regardless of available stock.
	return s.notifyDelay(ctx, p.LeadTime, p)
}

func (s *ProductService) processExpirable(ctx context.Context, p model.Product) (model.Product, error) {
	if p.Available > 0 && timeOrZero(p.ExpiryDate).After(time.Now()) {
		p.Available--
		return s.products.Update(ctx, p)
	}
	// 已过期或无库存：清零并通知，通知携带原始过期时间。
	s.notifier.SendExpirationNotification(ctx, p.Name, p.ExpiryDate)
	p.Available = 0
	return s.products.Update(ctx, p)
}

func (s *ProductService) processFlashSale(ctx context.Context, p model.Product) (model.Product, error) {
	now := time.Now()
	if p.FlashSaleStartDate == nil || p.FlashSaleEndDate == nil {
		return p, nil
	}
	if now.Before(*p.FlashSaleStartDate) || now.After(*p.FlashSaleEndDate) {
		return p, nil
	}
	if p.Available <= 0 || p.MaxQuantity <= 0 {
		return p, nil
	}
	p.Available--
	p.MaxQuantity--
	return s.products.Update(ctx, p)
}

// notifyDelay 落库补货周期并发送延迟通知；通知在写成功之后发出。
func (s *ProductService) notifyDelay(ctx context.Context, leadTime int, p model.Product) (model.Product, error) {
	p.LeadTime = leadTime
	updated, err := s.products.Update(ctx, p)
	if err != nil {
		return model.Product{}, err
	}
	s.notifier.SendDelayNotification(ctx, leadTime, p.Name)
	return updated, nil
}

// timeOrZero 将缺失的时间字段按零值参与比较。
func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
