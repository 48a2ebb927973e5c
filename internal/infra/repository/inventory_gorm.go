package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

// 在庫はproductsテーブルの列をそのまま使う
type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

func stockColumns(delta int64) map[string]any {
	return map[string]any{
		"count_in_stock": gorm.Expr("count_in_stock + ?", delta),
		"in_stock":       gorm.Expr("count_in_stock + ? > 0", delta),
	}
}

// 条件付きUPDATE1本で減らすので同時注文でもマイナスにならない
func (r *InventoryGormRepository) TakeStock(ctx context.Context, productID string, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND count_in_stock >= ?", productID, qty).
		Updates(stockColumns(-qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *InventoryGormRepository) ReturnStock(ctx context.Context, productID string, qty int64) error {
	res := r.db.WithContext(ctx).
		Unscoped().
		Model(&model.Product{}).
		Where("id = ?", productID).
		Updates(stockColumns(qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
