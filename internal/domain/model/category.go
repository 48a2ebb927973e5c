package model

import "time"

// 商品カテゴリ（画像と表示色つき）
type Category struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Images    []string  `gorm:"type:text;serializer:json;not null" json:"images"`
	Color     string    `gorm:"type:varchar(50);not null" json:"color"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
