package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          string   `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string   `gorm:"type:varchar(255);not null" json:"name"`
	Description string   `gorm:"type:text;not null" json:"description"`
	Images      []string `gorm:"type:text;serializer:json;not null" json:"images"`
	Brand       string   `gorm:"type:varchar(255);not null;default:''" json:"brand"`

	RegularPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"regularPrice"`
	// 未設定はnull
	DiscountPrice decimal.NullDecimal `gorm:"type:numeric(12,2)" json:"discountPrice"`

	CategoryID string    `gorm:"type:varchar(36);not null;index" json:"-"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	CountInStock int64   `gorm:"not null;default:0" json:"countInStock"`
	Rating       float64 `gorm:"not null;default:0" json:"rating"`
	InStock      bool    `gorm:"not null;default:true" json:"inStock"`
	IsFeatured   bool    `gorm:"not null;default:false;index" json:"isFeatured"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"dateCreated"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// 割引があれば割引価格、無ければ通常価格
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice.Valid && p.DiscountPrice.Decimal.IsPositive() {
		return p.DiscountPrice.Decimal
	}
	return p.RegularPrice
}
