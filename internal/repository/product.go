package repository

import (
	"context"
	"errors"

	"order_fulfillment/internal/model"

	"gorm.io/gorm"
)

// ProductRepository 商品的持久化读写。
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Update 整行落库并返回更新后的记录，未命中返回 ErrNotFound。
// 先查再写：Save 对不存在的主键会退化为 INSERT，必须提前拦截。
func (r *ProductRepository) Update(ctx context.Context, p model.Product) (model.Product, error) {
	if p.ID == 0 {
		return model.Product{}, ErrNotFound
	}
	var existing model.Product
	if err := r.db.WithContext(ctx).First(&existing, p.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Product{}, ErrNotFound
		}
		return model.Product{}, err
	}
	p.CreatedAt = existing.CreatedAt
	if err := r.db.WithContext(ctx).Save(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context) ([]model.Product, error) {
	var list []model.Product
	if err := r.db.WithContext(ctx).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
