package repository

import (
	"context"

	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

// tx付きの*gorm.DBからその場でrepoを作る
type gormRepos struct {
	tx *gorm.DB
}

func (r gormRepos) Orders() repo.OrderRepository         { return NewOrderGormRepository(r.tx) }
func (r gormRepos) OrderItems() repo.OrderItemRepository { return NewOrderItemGormRepository(r.tx) }
func (r gormRepos) Carts() repo.CartRepository           { return NewCartGormRepository(r.tx) }
func (r gormRepos) CartItems() repo.CartItemRepository   { return NewCartGormRepository(r.tx) }
func (r gormRepos) Inventory() repo.InventoryRepository  { return NewInventoryGormRepository(r.tx) }
func (r gormRepos) Products() repo.ProductRepository     { return NewProductGormRepository(r.tx) }
func (r gormRepos) Categories() repo.CategoryRepository  { return NewCategoryGormRepository(r.tx) }
func (r gormRepos) AuditLogs() repo.AuditLogRepository   { return NewAuditLogGormRepository(r.tx) }

var _ repo.TxRepos = gormRepos{}

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// fnがerrorを返したらrollback
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(gormRepos{tx: tx})
	})
}
