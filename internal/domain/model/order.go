package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusShipped  OrderStatus = "SHIPPED"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped, OrderStatusCanceled:
		return true
	}
	return false
}

// 配送先（注文に埋め込み）
type ShippingAddress struct {
	Address    string `gorm:"type:varchar(255);not null" json:"address"`
	City       string `gorm:"type:varchar(255);not null" json:"city"`
	PostalCode string `gorm:"type:varchar(20);not null" json:"postalCode"`
	Country    string `gorm:"type:varchar(100);not null" json:"country"`
}

type Order struct {
	ID              string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID          string          `gorm:"type:varchar(36);not null;index" json:"user"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shippingAddress"`
	PaymentMethod   string          `gorm:"type:varchar(50);not null" json:"paymentMethod"`
	ItemsPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"itemsPrice"`
	ShippingPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"shippingPrice"`
	TaxPrice        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"taxPrice"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"totalPrice"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime;index" json:"createdAt"`
	UpdatedAt       time.Time       `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
