package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type CartRepository interface {
	// 無ければ空のカートを作る（同時実行でも1ユーザー1件）
	GetOrCreateByUserID(ctx context.Context, userID string) (model.Cart, error)
	// 明細と商品をpopulateして返す。無ければErrNotFound
	FindByUserID(ctx context.Context, userID string) (model.Cart, error)
}
