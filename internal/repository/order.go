package repository

import (
	"context"
	"errors"

	"order_fulfillment/internal/model"

	"gorm.io/gorm"
)

// ErrNotFound 表示按主键未命中任何记录。
var ErrNotFound = errors.New("repository: record not found")

// OrderRepository persists orders and the order/product join.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// FindWithProducts 查询订单并预加载其关联商品。
// Product order follows whatever the store returns; callers must not re-sort.
func (r *OrderRepository) FindWithProducts(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Preload("Products").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Create 新建订单（允许先建空单，再挂商品）。
func (r *OrderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// AddProducts 将已存在的商品挂到订单上。
// Any missing order or product id resolves to ErrNotFound before the join is
// touched.
func (r *OrderRepository) AddProducts(ctx context.Context, orderID uint, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	var order model.Order
	if err := r.db.WithContext(ctx).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	ids := make([]uint, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	var found []model.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return err
	}
	if len(found) != len(ids) {
		return ErrNotFound
	}

	return r.db.WithContext(ctx).Model(&order).Association("Products").Append(&found)
}
