package model

import (
	"time"
)

// Order 一次待处理的订单。Products 经 order_products 关联表挂载，
// 同一商品可以出现在多个订单上。
type Order struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Products []Product `gorm:"many2many:order_products" json:"products"`
}

// 显式实现结构，确定表名
func (Order) TableName() string { return "orders" }
