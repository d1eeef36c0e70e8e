package service

import (
	"context"

	"order_fulfillment/internal/model"
)

// OrderStore 订单侧需要的持久化能力。
type OrderStore interface {
	FindWithProducts(ctx context.Context, id uint) (*model.Order, error)
	Create(ctx context.Context, order *model.Order) error
	AddProducts(ctx context.Context, orderID uint, products []model.Product) error
}

// ProductStore 商品侧需要的持久化能力。
type ProductStore interface {
	Create(ctx context.Context, p *model.Product) error
	Update(ctx context.Context, p model.Product) (model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
}

// ProductProcessor runs the fulfillment rules for one line item and returns
// the updated record.
type ProductProcessor interface {
	ProcessOrderProduct(ctx context.Context, p model.Product) (model.Product, error)
}
