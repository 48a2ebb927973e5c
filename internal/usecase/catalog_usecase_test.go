package usecase

import (
	"context"
	"net/http"
	"testing"

	"storefront/internal/domain/model"
	infraRepo "storefront/internal/infra/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_ListEmptyIs404(t *testing.T) {
	env := newTestEnv(t)
	uc := NewCategoryUsecase(env.categories, env.tx, UUIDGenerator{}, SystemClock{}, nil)

	_, err := uc.List(context.Background())
	requireHTTPError(t, err, http.StatusNotFound)
}

func TestCategory_CRUD(t *testing.T) {
	env := newTestEnv(t)
	uc := NewCategoryUsecase(env.categories, env.tx, UUIDGenerator{}, SystemClock{}, nil)
	admin := uuid.NewString()

	_, err := uc.AdminCreate(context.Background(), admin, CategoryInput{Name: "x", Color: "red"})
	requireHTTPError(t, err, http.StatusBadRequest)

	c, err := uc.AdminCreate(context.Background(), admin, CategoryInput{
		Name:   "  Shoes ",
		Images: []string{"https://img.example.com/a.png"},
		Color:  "red",
	})
	require.NoError(t, err)
	assert.Equal(t, "Shoes", c.Name)

	list, err := uc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	updated, err := uc.AdminUpdate(context.Background(), admin, c.ID, CategoryInput{
		Name:   "Boots",
		Images: []string{"https://img.example.com/b.png"},
		Color:  "blue",
	})
	require.NoError(t, err)
	assert.Equal(t, "Boots", updated.Name)

	_, err = uc.AdminUpdate(context.Background(), admin, uuid.NewString(), CategoryInput{
		Name: "n", Images: []string{"https://img.example.com/b.png"}, Color: "c",
	})
	requireHTTPError(t, err, http.StatusNotFound)

	//商品があると消せない
	env.seedProduct(t, c.ID, "1", "", 1)
	requireHTTPError(t, uc.AdminDelete(context.Background(), admin, c.ID), http.StatusConflict)

	logs, err := infraRepo.NewAuditLogGormRepository(env.db).List(context.Background(), auditFilterFor(c.ID))
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestCategory_Delete(t *testing.T) {
	env := newTestEnv(t)
	uc := NewCategoryUsecase(env.categories, env.tx, UUIDGenerator{}, SystemClock{}, nil)
	c := env.seedCategory(t)

	require.NoError(t, uc.AdminDelete(context.Background(), "admin", c.ID))
	_, err := uc.Get(context.Background(), c.ID)
	requireHTTPError(t, err, http.StatusNotFound)
	requireHTTPError(t, uc.AdminDelete(context.Background(), "admin", c.ID), http.StatusNotFound)
}

func productInput(categoryID string) ProductInput {
	return ProductInput{
		Name:         "Runner",
		Description:  "fast shoe",
		Images:       []string{"https://img.example.com/p.png"},
		Brand:        "acme",
		RegularPrice: decimal.RequireFromString("100"),
		CategoryID:   categoryID,
		CountInStock: 3,
	}
}

func TestProduct_AdminCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	uc := NewProductUsecase(env.products, env.categories, env.tx, UUIDGenerator{}, SystemClock{}, nil)
	cat := env.seedCategory(t)

	in := productInput(cat.ID)
	in.Images = nil
	_, err := uc.AdminCreate(context.Background(), "admin", in)
	requireHTTPError(t, err, http.StatusBadRequest)

	in = productInput(cat.ID)
	in.DiscountPrice = decimal.NewNullDecimal(decimal.RequireFromString("150"))
	_, err = uc.AdminCreate(context.Background(), "admin", in)
	requireHTTPError(t, err, http.StatusBadRequest)

	_, err = uc.AdminCreate(context.Background(), "admin", productInput(uuid.NewString()))
	requireHTTPError(t, err, http.StatusNotFound)
}

func TestProduct_CreateGetUpdateDelete(t *testing.T) {
	env := newTestEnv(t)
	uc := NewProductUsecase(env.products, env.categories, env.tx, UUIDGenerator{}, SystemClock{}, nil)
	cat := env.seedCategory(t)

	p, err := uc.AdminCreate(context.Background(), "admin", productInput(cat.ID))
	require.NoError(t, err)
	require.NotNil(t, p.Category)
	assert.True(t, p.InStock)

	_, err = uc.Get(context.Background(), "not-a-uuid")
	requireHTTPError(t, err, http.StatusBadRequest)
	_, err = uc.Get(context.Background(), uuid.NewString())
	requireHTTPError(t, err, http.StatusNotFound)

	in := productInput(cat.ID)
	in.CountInStock = 0
	in.IsFeatured = true
	updated, err := uc.AdminUpdate(context.Background(), "admin", p.ID, in)
	require.NoError(t, err)
	assert.False(t, updated.InStock)
	assert.True(t, updated.IsFeatured)

	featured := true
	out, err := uc.List(context.Background(), ListProductsInput{Page: 1, Limit: 10, Featured: &featured})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)

	require.NoError(t, uc.AdminDelete(context.Background(), "admin", p.ID))
	_, err = uc.Get(context.Background(), p.ID)
	requireHTTPError(t, err, http.StatusNotFound)

	logs, err := infraRepo.NewAuditLogGormRepository(env.db).List(context.Background(), auditFilterFor(p.ID))
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, model.AuditActionDelete, logs[0].Action)
}

func TestProduct_ListValidation(t *testing.T) {
	env := newTestEnv(t)
	uc := NewProductUsecase(env.products, env.categories, env.tx, UUIDGenerator{}, SystemClock{}, nil)

	_, err := uc.List(context.Background(), ListProductsInput{Page: 0, Limit: 10})
	requireHTTPError(t, err, http.StatusBadRequest)
	_, err = uc.List(context.Background(), ListProductsInput{Page: 1, Limit: 101})
	requireHTTPError(t, err, http.StatusBadRequest)
	_, err = uc.List(context.Background(), ListProductsInput{Page: 1, Limit: 10, CategoryID: "bad"})
	requireHTTPError(t, err, http.StatusBadRequest)
}
