package repository

import "context"

// 商品の在庫数（count_in_stock / in_stock）を動かす
type InventoryRepository interface {
	// 足りなければ ok=false で何も変えない
	TakeStock(ctx context.Context, productID string, qty int64) (ok bool, err error)
	// 論理削除済みの商品にも戻す
	ReturnStock(ctx context.Context, productID string, qty int64) error
}
