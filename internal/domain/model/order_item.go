package model

import "github.com/shopspring/decimal"

// 注文時点の名前と価格を保存
type OrderItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID   string          `gorm:"type:varchar(36);not null;index" json:"-"`
	ProductID string          `gorm:"type:varchar(36);not null;index" json:"product"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Quantity  int64           `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
}
