package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

const (
	defaultAdminOrderLimit = 50
	maxAdminOrderLimit     = 100
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

// 明細は挿入順
func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("order_items.id asc")
	})
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Scopes(withItems).First(&o, "id = ?", orderID).Error
	if isNotFound(err) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID string, page int, limit int) ([]model.Order, int64, error) {
	return r.list(ctx, page, limit, whereIf("user_id", userID))
}

// 明細はOrderItems().CreateBulkで別に入れる
func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Create(&order).Error
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{ID: orderID}).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	return r.list(ctx, f.Page, clamp(f.Limit, defaultAdminOrderLimit, maxAdminOrderLimit),
		whereIf("status", f.Status),
		whereIf("user_id", f.UserID),
		createdBetween(f.From, f.To),
	)
}

// 件数と1ページ分（新しい順）
func (r *OrderGormRepository) list(ctx context.Context, page, limit int, filters ...func(*gorm.DB) *gorm.DB) ([]model.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Order{})
	for _, f := range filters {
		q = f(q)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orders := []model.Order{}
	if err := q.Scopes(withItems, newestFirst, paginate(page, limit)).Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
