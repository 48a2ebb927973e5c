package model

import "time"

// カートの明細
// (cart_id, product_id) は一意。数量は加算のみ。
type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	CartID    string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_cart_items_cart_product,priority:1" json:"-"`
	ProductID string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_cart_items_cart_product,priority:2" json:"productId"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"-"`
}
