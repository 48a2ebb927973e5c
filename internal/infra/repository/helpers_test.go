package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/infra/db"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// テストごとに別のin-memory DB
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

func seedCategory(t *testing.T, gdb *gorm.DB) model.Category {
	t.Helper()
	c := model.Category{
		ID:     uuid.NewString(),
		Name:   "shoes",
		Images: []string{"https://img.example.com/c.png"},
		Color:  "#ff0000",
	}
	require.NoError(t, gdb.Create(&c).Error)
	return c
}

func seedProduct(t *testing.T, gdb *gorm.DB, categoryID, name string, stock int64) model.Product {
	t.Helper()
	p := model.Product{
		ID:           uuid.NewString(),
		Name:         name,
		Description:  "desc",
		Images:       []string{"https://img.example.com/p.png"},
		RegularPrice: decimal.RequireFromString("12.50"),
		CategoryID:   categoryID,
		CountInStock: stock,
		InStock:      stock > 0,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, gdb.Omit("Category").Create(&p).Error)
	return p
}

func ctx() context.Context {
	return context.Background()
}
