package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	repo "storefront/internal/repository"
)

// CartUsecase は /api/cart の業務ロジックです。
// 数量は加算のみ（上書きしない）。
type CartUsecase struct {
	tx       repo.TransactionManager
	carts    repo.CartRepository
	products repo.ProductRepository
	cache    CartCache
	metrics  *metrics.CartMetrics
	log      *logger.Logger
}

func NewCartUsecase(
	tx repo.TransactionManager,
	carts repo.CartRepository,
	products repo.ProductRepository,
	cache CartCache,
	m *metrics.CartMetrics,
	log *logger.Logger,
) *CartUsecase {
	if cache == nil {
		cache = NopCartCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CartUsecase{
		tx:       tx,
		carts:    carts,
		products: products,
		cache:    cache,
		metrics:  m,
		log:      log,
	}
}

type AddToCartInput struct {
	UserID    string
	ProductID string
	Quantity  int64
}

// AddToCart はカートに追加（同一商品は数量加算）。
// 入力が不正なら何も作らない。
func (u *CartUsecase) AddToCart(ctx context.Context, in AddToCartInput) (model.Cart, error) {
	userID := strings.TrimSpace(in.UserID)
	productID := strings.TrimSpace(in.ProductID)
	if userID == "" || productID == "" || in.Quantity <= 0 {
		u.metrics.IncMerge("invalid", 0)
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "Invalid input data.")
	}

	// 商品チェック
	if _, err := u.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			u.metrics.IncMerge("invalid", 0)
			return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid product")
		}
		u.metrics.IncMerge("error", 0)
		u.log.Error(ctx, "cart: find product", err)
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// カート作成と数量加算は同じTxで
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().GetOrCreateByUserID(ctx, userID)
		if err != nil {
			return err
		}
		return r.CartItems().UpsertByCartAndProduct(ctx, cart.ID, productID, in.Quantity)
	})
	if err != nil {
		u.metrics.IncMerge("error", 0)
		u.log.Error(ctx, "cart: merge item", err)
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// 書き込み側ではキャッシュを消すだけ（作り直しはGetCartに任せる）
	if err := u.cache.Delete(ctx, userID); err != nil {
		u.log.Warn(ctx, "cart: cache invalidate", err)
	}

	cart, err := u.carts.FindByUserID(ctx, userID)
	if err != nil {
		u.metrics.IncMerge("error", 0)
		u.log.Error(ctx, "cart: reload", err)
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.metrics.IncMerge("ok", in.Quantity)
	return cart, nil
}

// GetCart は商品をpopulateしたカートを返す（無ければ404）。
// キャッシュには明細の行だけを置き、商品は毎回DBから引く。
func (u *CartUsecase) GetCart(ctx context.Context, userID string) (model.Cart, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return model.Cart{}, NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	if cached, ok, err := u.cache.Get(ctx, userID); err != nil {
		u.log.Warn(ctx, "cart: cache get", err)
	} else if ok {
		cart, err := u.populate(ctx, cached)
		if err != nil {
			u.log.Error(ctx, "cart: populate products", err)
			return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return cart, nil
	}

	cart, err := u.carts.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Cart{}, NewHTTPError(http.StatusNotFound, "Cart not found")
	}
	if err != nil {
		u.log.Error(ctx, "cart: find by user", err)
		return model.Cart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cache.Set(ctx, userID, cartRows(cart)); err != nil {
		u.log.Warn(ctx, "cart: cache set", err)
	}
	return cart, nil
}

// 商品を外した行だけのコピー
func cartRows(c model.Cart) model.Cart {
	rows := c
	rows.Items = make([]model.CartItem, len(c.Items))
	for i, it := range c.Items {
		it.Product = nil
		rows.Items[i] = it
	}
	return rows
}

// 論理削除された商品はnilのまま
func (u *CartUsecase) populate(ctx context.Context, rows model.Cart) (model.Cart, error) {
	ids := make([]string, 0, len(rows.Items))
	for _, it := range rows.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := u.products.FindByIDs(ctx, ids)
	if err != nil {
		return model.Cart{}, err
	}
	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	cart := rows
	cart.Items = make([]model.CartItem, len(rows.Items))
	for i, it := range rows.Items {
		it.Product = nil
		if p, ok := byID[it.ProductID]; ok {
			it.Product = &p
		}
		cart.Items[i] = it
	}
	return cart, nil
}
