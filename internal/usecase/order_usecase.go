package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	tx        repo.TransactionManager
	orders    repo.OrderRepository
	publisher OrderEventPublisher
	idGen     IDGenerator
	clock     Clock
	log       *logger.Logger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	publisher OrderEventPublisher,
	idGen IDGenerator,
	clock Clock,
	log *logger.Logger,
) *OrderUsecase {
	if log == nil {
		log = logger.Nop()
	}
	return &OrderUsecase{tx: tx, orders: orders, publisher: publisher, idGen: idGen, clock: clock, log: log}
}

type PlaceOrderItem struct {
	ProductID string
	Quantity  int64
}

type PlaceOrderInput struct {
	Items           []PlaceOrderItem
	ShippingAddress model.ShippingAddress
	PaymentMethod   string
	ShippingPrice   decimal.Decimal
	TaxPrice        decimal.Decimal
}

func (in PlaceOrderInput) validate() error {
	if len(in.Items) == 0 {
		return NewHTTPError(http.StatusBadRequest, "No order items")
	}
	for _, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" || it.Quantity <= 0 {
			return NewHTTPError(http.StatusBadRequest, "invalid order item")
		}
	}
	a := in.ShippingAddress
	if strings.TrimSpace(a.Address) == "" || strings.TrimSpace(a.City) == "" ||
		strings.TrimSpace(a.PostalCode) == "" || strings.TrimSpace(a.Country) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid shipping address")
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		return NewHTTPError(http.StatusBadRequest, "paymentMethod required")
	}
	if in.ShippingPrice.IsNegative() || in.TaxPrice.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "prices must be >= 0")
	}
	return nil
}

// 同じ商品の行はまとめる（最初に出てきた順）
func mergeOrderItems(items []PlaceOrderItem) []PlaceOrderItem {
	out := make([]PlaceOrderItem, 0, len(items))
	idx := make(map[string]int, len(items))
	for _, it := range items {
		id := strings.TrimSpace(it.ProductID)
		if i, ok := idx[id]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		idx[id] = len(out)
		out = append(out, PlaceOrderItem{ProductID: id, Quantity: it.Quantity})
	}
	return out
}

// PlaceOrder は価格をサーバー側で計算し、在庫を減らして注文を作る。
// カートはクリアしない。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, userID string, in PlaceOrderInput) (model.Order, error) {
	if userID == "" {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return model.Order{}, err
	}

	lines := mergeOrderItems(in.Items)
	now := u.clock.Now()
	order := model.Order{
		ID:     u.idGen.NewID(),
		UserID: userID,
		ShippingAddress: model.ShippingAddress{
			Address:    strings.TrimSpace(in.ShippingAddress.Address),
			City:       strings.TrimSpace(in.ShippingAddress.City),
			PostalCode: strings.TrimSpace(in.ShippingAddress.PostalCode),
			Country:    strings.TrimSpace(in.ShippingAddress.Country),
		},
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		ShippingPrice: in.ShippingPrice,
		TaxPrice:      in.TaxPrice,
		Status:        model.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	//注文処理はトランザクション
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items := make([]model.OrderItem, 0, len(lines))
		itemsPrice := decimal.Zero

		for _, l := range lines {
			p, err := r.Products().FindByID(ctx, l.ProductID)
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusBadRequest, "invalid product")
			}
			if err != nil {
				u.log.Error(ctx, "order: find product", err)
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			//在庫減算（足りないなら false）
			ok, err := r.Inventory().TakeStock(ctx, l.ProductID, l.Quantity)
			if err != nil {
				u.log.Error(ctx, "order: decrease stock", err)
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				return NewHTTPError(http.StatusBadRequest, "out of stock")
			}

			//スナップショット
			price := p.EffectivePrice()
			items = append(items, model.OrderItem{
				ProductID: p.ID,
				Name:      p.Name,
				Quantity:  l.Quantity,
				Price:     price,
			})
			itemsPrice = itemsPrice.Add(price.Mul(decimal.NewFromInt(l.Quantity)))
		}

		order.ItemsPrice = itemsPrice
		order.TotalPrice = itemsPrice.Add(order.ShippingPrice).Add(order.TaxPrice)

		if err := r.Orders().Create(ctx, order); err != nil {
			u.log.Error(ctx, "order: create", err)
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.OrderItems().CreateBulk(ctx, order.ID, items); err != nil {
			u.log.Error(ctx, "order: create items", err)
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		order.Items = items
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	// イベントは失敗しても注文は成功扱い
	if u.publisher != nil {
		if err := u.publisher.PublishOrderPlaced(ctx, order); err != nil {
			u.log.Warn(ctx, "order: publish order.placed", err)
		}
	}

	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	return order, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID string, page, limit int) ([]model.Order, int64, error) {
	if userID == "" {
		return nil, 0, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if page < 1 {
		return nil, 0, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return nil, 0, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	orders, total, err := u.orders.ListByUserID(ctx, userID, page, limit)
	if err != nil {
		u.log.Error(ctx, "order: list mine", err)
		return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return orders, total, nil
}

func (u *OrderUsecase) GetMyOrder(ctx context.Context, userID string, orderID string) (model.Order, error) {
	if userID == "" {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !isUUID(orderID) {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		u.log.Error(ctx, "order: get", err)
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//他人の注文は「存在しない扱い」にする
	if o.UserID != userID {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "Order not found")
	}
	return o, nil
}
