package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"storefront/internal/domain/model"
	infraRepo "storefront/internal/infra/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	orders []model.Order
	err    error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, o model.Order) error {
	p.orders = append(p.orders, o)
	return p.err
}

func shipping() model.ShippingAddress {
	return model.ShippingAddress{Address: "1-2-3", City: "Tokyo", PostalCode: "100-0001", Country: "JP"}
}

func TestPlaceOrder_PricesFromProducts(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t)
	regular := env.seedProduct(t, cat.ID, "10.00", "", 5)
	discounted := env.seedProduct(t, cat.ID, "20.00", "15.00", 5)
	pub := &recordingPublisher{}
	uc := NewOrderUsecase(env.tx, env.orders, pub, UUIDGenerator{}, fixedClock{time.Now()}, nil)
	userID := uuid.NewString()

	o, err := uc.PlaceOrder(context.Background(), userID, PlaceOrderInput{
		Items: []PlaceOrderItem{
			{ProductID: regular.ID, Quantity: 1},
			{ProductID: discounted.ID, Quantity: 2},
			{ProductID: regular.ID, Quantity: 1},
		},
		ShippingAddress: shipping(),
		PaymentMethod:   "PayPal",
		ShippingPrice:   decimal.RequireFromString("5"),
		TaxPrice:        decimal.RequireFromString("1.5"),
	})
	require.NoError(t, err)

	require.Len(t, o.Items, 2)
	assert.True(t, o.ItemsPrice.Equal(decimal.RequireFromString("50")), o.ItemsPrice.String())
	assert.True(t, o.TotalPrice.Equal(decimal.RequireFromString("56.5")), o.TotalPrice.String())
	assert.Equal(t, model.OrderStatusPending, o.Status)
	require.Len(t, pub.orders, 1)

	//在庫が減っている
	p, err := env.products.FindByID(context.Background(), regular.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.CountInStock)

	//自分の注文は見える、他人は404
	got, err := uc.GetMyOrder(context.Background(), userID, o.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	_, err = uc.GetMyOrder(context.Background(), uuid.NewString(), o.ID)
	requireHTTPError(t, err, http.StatusNotFound)
}

func TestPlaceOrder_OutOfStockRollsBack(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t)
	a := env.seedProduct(t, cat.ID, "10", "", 5)
	b := env.seedProduct(t, cat.ID, "10", "", 1)
	uc := NewOrderUsecase(env.tx, env.orders, nil, UUIDGenerator{}, SystemClock{}, nil)

	_, err := uc.PlaceOrder(context.Background(), uuid.NewString(), PlaceOrderInput{
		Items:           []PlaceOrderItem{{ProductID: a.ID, Quantity: 2}, {ProductID: b.ID, Quantity: 2}},
		ShippingAddress: shipping(),
		PaymentMethod:   "PayPal",
	})
	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Equal(t, "out of stock", he.Message)

	//aの減算も戻る
	p, err := env.products.FindByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.CountInStock)
}

func TestPlaceOrder_Validation(t *testing.T) {
	env := newTestEnv(t)
	uc := NewOrderUsecase(env.tx, env.orders, nil, UUIDGenerator{}, SystemClock{}, nil)

	_, err := uc.PlaceOrder(context.Background(), uuid.NewString(), PlaceOrderInput{ShippingAddress: shipping(), PaymentMethod: "x"})
	he := requireHTTPError(t, err, http.StatusBadRequest)
	assert.Equal(t, "No order items", he.Message)

	_, err = uc.PlaceOrder(context.Background(), uuid.NewString(), PlaceOrderInput{
		Items:           []PlaceOrderItem{{ProductID: uuid.NewString(), Quantity: 1}},
		ShippingAddress: shipping(),
		PaymentMethod:   "x",
	})
	he = requireHTTPError(t, err, http.StatusBadRequest)
	assert.Equal(t, "invalid product", he.Message)
}

func TestPlaceOrder_PublishFailureStillSucceeds(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, env.seedCategory(t).ID, "10", "", 5)
	pub := &recordingPublisher{err: errors.New("broker down")}
	uc := NewOrderUsecase(env.tx, env.orders, pub, UUIDGenerator{}, SystemClock{}, nil)

	_, err := uc.PlaceOrder(context.Background(), uuid.NewString(), PlaceOrderInput{
		Items:           []PlaceOrderItem{{ProductID: p.ID, Quantity: 1}},
		ShippingAddress: shipping(),
		PaymentMethod:   "PayPal",
	})
	require.NoError(t, err)
}

func TestAdminUpdateStatus_CancelRestoresStock(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, env.seedCategory(t).ID, "10", "", 5)
	orderUC := NewOrderUsecase(env.tx, env.orders, nil, UUIDGenerator{}, SystemClock{}, nil)
	adminUC := NewAdminOrderUsecase(env.tx, SystemClock{}, nil)
	adminID := uuid.NewString()

	o, err := orderUC.PlaceOrder(context.Background(), uuid.NewString(), PlaceOrderInput{
		Items:           []PlaceOrderItem{{ProductID: p.ID, Quantity: 3}},
		ShippingAddress: shipping(),
		PaymentMethod:   "PayPal",
	})
	require.NoError(t, err)

	require.NoError(t, adminUC.UpdateStatus(context.Background(), adminID, o.ID, "CANCELED"))

	got, err := env.products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.CountInStock)

	//終端からは変えられない
	err = adminUC.UpdateStatus(context.Background(), adminID, o.ID, "PAID")
	requireHTTPError(t, err, http.StatusBadRequest)

	//監査ログ
	logs, err := infraRepo.NewAuditLogGormRepository(env.db).List(context.Background(), auditFilterFor(o.ID))
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, model.AuditActionUpdateOrderStatus, logs[0].Action)
	assert.Equal(t, adminID, logs[0].ActorUserID)
}

func TestAdminUpdateStatus_InvalidInput(t *testing.T) {
	adminUC := NewAdminOrderUsecase(newTestEnv(t).tx, SystemClock{}, nil)

	requireHTTPError(t, adminUC.UpdateStatus(context.Background(), "a", "not-uuid", "PAID"), http.StatusBadRequest)
	requireHTTPError(t, adminUC.UpdateStatus(context.Background(), "a", uuid.NewString(), "LOST"), http.StatusBadRequest)
	requireHTTPError(t, adminUC.UpdateStatus(context.Background(), "a", uuid.NewString(), "PAID"), http.StatusNotFound)
}
