package repository

import (
	"context"
)

type CartItemRepository interface {
	// 同一商品は数量をプラス（上書きしない）
	UpsertByCartAndProduct(ctx context.Context, cartID string, productID string, addQty int64) error
}
