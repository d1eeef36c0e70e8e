package model

import (
	"time"
)

// ProductType classifies how a line item gets fulfilled.
type ProductType string

const (
	ProductTypeNormal    ProductType = "NORMAL"
	ProductTypeSeasonal  ProductType = "SEASONAL"
	ProductTypeExpirable ProductType = "EXPIRABLE"
	ProductTypeFlashSale ProductType = "FLASHSALE"
)

// Product 可售商品：库存、补货周期与各类销售时间窗。
// Stock fields are only mutated by the fulfillment rules, and every mutation
// is followed by a single repository write.
type Product struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name      string      `gorm:"size:128;not null" json:"name"`
	Type      ProductType `gorm:"size:16;not null" json:"type"`
	Available int         `gorm:"not null;default:0" json:"available"`
	// LeadTime 补货周期（天）
	LeadTime int `gorm:"not null;default:0" json:"lead_time"`

	// Date windows are optional at the schema level; each product type reads
	// only the fields that concern it.
	ExpiryDate         *time.Time `json:"expiry_date,omitempty"`
	SeasonStartDate    *time.Time `json:"season_start_date,omitempty"`
	SeasonEndDate      *time.Time `json:"season_end_date,omitempty"`
	FlashSaleStartDate *time.Time `json:"flash_sale_start_date,omitempty"`
	FlashSaleEndDate   *time.Time `json:"flash_sale_end_date,omitempty"`

	// MaxQuantity 秒杀限购余量，仅 FLASHSALE 使用。
	MaxQuantity int `gorm:"not null;default:0" json:"max_quantity"`
}

func (Product) TableName() string { return "products" }

// ValidType reports whether t is one of the recognized product types.
func ValidType(t ProductType) bool {
	switch t {
	case ProductTypeNormal, ProductTypeSeasonal, ProductTypeExpirable, ProductTypeFlashSale:
		return true
	}
	return false
}
