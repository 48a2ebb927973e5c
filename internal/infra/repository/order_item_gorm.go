package repository

import (
	"context"

	"storefront/internal/domain/model"

	"gorm.io/gorm"
)

const orderItemBatchSize = 100

type OrderItemGormRepository struct {
	db *gorm.DB
}

func NewOrderItemGormRepository(db *gorm.DB) *OrderItemGormRepository {
	return &OrderItemGormRepository{db: db}
}

// 明細のスナップショット（名前・画像・単価）をまとめて保存
func (r *OrderItemGormRepository) CreateBulk(ctx context.Context, orderID string, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := append([]model.OrderItem(nil), items...)
	for i := range rows {
		rows[i].OrderID = orderID
	}
	return r.db.WithContext(ctx).CreateInBatches(&rows, orderItemBatchSize).Error
}

func (r *OrderItemGormRepository) ListByOrderID(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	items := []model.OrderItem{}
	if err := r.db.WithContext(ctx).
		Where(&model.OrderItem{OrderID: orderID}).
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
