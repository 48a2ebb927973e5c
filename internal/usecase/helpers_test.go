package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Connect(config.DBConfig{
		Driver:       "sqlite",
		SQLitePath:   fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

type testEnv struct {
	db         *gorm.DB
	tx         *infraRepo.TxManagerGorm
	carts      *infraRepo.CartGormRepository
	products   *infraRepo.ProductGormRepository
	categories *infraRepo.CategoryGormRepository
	orders     *infraRepo.OrderGormRepository
}

func newTestEnv(t *testing.T) testEnv {
	gdb := newTestDB(t)
	return testEnv{
		db:         gdb,
		tx:         infraRepo.NewTxManagerGorm(gdb),
		carts:      infraRepo.NewCartGormRepository(gdb),
		products:   infraRepo.NewProductGormRepository(gdb),
		categories: infraRepo.NewCategoryGormRepository(gdb),
		orders:     infraRepo.NewOrderGormRepository(gdb),
	}
}

func (e testEnv) seedCategory(t *testing.T) model.Category {
	t.Helper()
	c, err := e.categories.Create(context.Background(), model.Category{
		ID:     uuid.NewString(),
		Name:   "shoes",
		Images: []string{"https://img.example.com/c.png"},
		Color:  "#000",
	})
	require.NoError(t, err)
	return c
}

func (e testEnv) seedProduct(t *testing.T, categoryID string, price string, discount string, stock int64) model.Product {
	t.Helper()
	p := model.Product{
		ID:           uuid.NewString(),
		Name:         "product",
		Description:  "desc",
		Images:       []string{"https://img.example.com/p.png"},
		RegularPrice: decimal.RequireFromString(price),
		CategoryID:   categoryID,
		CountInStock: stock,
		InStock:      stock > 0,
	}
	if discount != "" {
		p.DiscountPrice = decimal.NewNullDecimal(decimal.RequireFromString(discount))
	}
	created, err := e.products.Create(context.Background(), p)
	require.NoError(t, err)
	return created
}

func requireHTTPError(t *testing.T, err error, status int) *HTTPError {
	t.Helper()
	require.Error(t, err)
	he, ok := AsHTTPError(err)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, status, he.Status, he.Message)
	return he
}

func auditFilterFor(resourceID string) repo.AuditLogFilter {
	return repo.AuditLogFilter{ResourceID: resourceID, Limit: 10}
}
