package repository

import (
	"testing"

	repo "storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_ListFilters(t *testing.T) {
	gdb := newTestDB(t)
	r := NewProductGormRepository(gdb)
	cat := seedCategory(t, gdb)
	other := seedCategory(t, gdb)
	seedProduct(t, gdb, cat.ID, "Red Shoe", 1)
	seedProduct(t, gdb, cat.ID, "Blue Shoe", 1)
	seedProduct(t, gdb, other.ID, "Hat", 1)

	items, total, err := r.List(ctx(), repo.ProductListQuery{Page: 1, Limit: 10, Q: "shoe"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	items, total, err = r.List(ctx(), repo.ProductListQuery{Page: 1, Limit: 10, CategoryID: other.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Category)
	assert.Equal(t, other.ID, items[0].Category.ID)

	//ページング
	items, total, err = r.List(ctx(), repo.ProductListQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 1)
}

func TestProduct_SoftDeleteHidesFromFind(t *testing.T) {
	gdb := newTestDB(t)
	r := NewProductGormRepository(gdb)
	p := seedProduct(t, gdb, seedCategory(t, gdb).ID, "x", 1)

	require.NoError(t, r.SoftDelete(ctx(), p.ID))
	_, err := r.FindByID(ctx(), p.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestProduct_FindByIDs(t *testing.T) {
	gdb := newTestDB(t)
	r := NewProductGormRepository(gdb)
	cat := seedCategory(t, gdb)
	a := seedProduct(t, gdb, cat.ID, "a", 1)
	b := seedProduct(t, gdb, cat.ID, "b", 1)
	require.NoError(t, r.SoftDelete(ctx(), b.ID))

	got, err := r.FindByIDs(ctx(), []string{a.ID, b.ID, "missing"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)
	require.NotNil(t, got[0].Category)

	got, err = r.FindByIDs(ctx(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestInventory_TakeAndReturnStock(t *testing.T) {
	gdb := newTestDB(t)
	inv := NewInventoryGormRepository(gdb)
	products := NewProductGormRepository(gdb)
	p := seedProduct(t, gdb, seedCategory(t, gdb).ID, "x", 3)

	ok, err := inv.TakeStock(ctx(), p.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = inv.TakeStock(ctx(), p.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := products.FindByID(ctx(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.CountInStock)

	require.NoError(t, inv.ReturnStock(ctx(), p.ID, 4))
	got, err = products.FindByID(ctx(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.CountInStock)
	assert.True(t, got.InStock)
}
