package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"storefront/internal/client/api"
	"storefront/internal/client/cart"
	"storefront/internal/client/storage"
	"storefront/internal/domain/model"
	"storefront/internal/logger"
)

var (
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// サーバーAPIのうちセッションが使う分
type Backend interface {
	SetToken(token string)
	Login(ctx context.Context, email, password string) (api.LoginResponse, error)
	Logout(ctx context.Context) error
	GetCart(ctx context.Context, userID string) (model.Cart, error)
	AddToCart(ctx context.Context, userID, productID string, quantity int64) (model.Cart, error)
}

// ログイン状態とカートの同期
type Session struct {
	mu      sync.Mutex
	backend Backend
	kv      cart.KV
	store   *cart.Store
	log     *logger.Logger

	user    *model.User
	token   string
	lastErr string
}

func New(backend Backend, kv cart.KV, store *cart.Store, log *logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	return &Session{backend: backend, kv: kv, store: store, log: log}
}

// 保存済みのtoken/userから復元する
func (s *Session) Restore(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.kv.Get(storage.KeyToken)
	if err != nil || tok == "" {
		return false
	}
	raw, err := s.kv.Get(storage.KeyUser)
	if err != nil {
		return false
	}
	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID == "" {
		s.log.Debug(ctx, "session: malformed user ignored")
		return false
	}

	s.user = &u
	s.token = tok
	s.backend.SetToken(tok)
	return true
}

// ログインしてサーバーのカートでローカルを置き換える
func (s *Session) Login(ctx context.Context, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return s.fail(err)
	}

	userJSON, err := json.Marshal(out.User)
	if err != nil {
		return s.fail(fmt.Errorf("encode user: %w", err))
	}
	if err := s.kv.Set(storage.KeyToken, out.Token); err != nil {
		return s.fail(err)
	}
	if err := s.kv.Set(storage.KeyUser, string(userJSON)); err != nil {
		return s.fail(err)
	}
	user := out.User
	s.user = &user
	s.token = out.Token
	s.backend.SetToken(out.Token)

	return s.syncFromServer(ctx)
}

// サーバーのカートで丸ごと置き換える（ログイン前のゲストカートは捨てる）
func (s *Session) syncFromServer(ctx context.Context) error {
	serverCart, err := s.backend.GetCart(ctx, s.user.ID)
	if api.IsNotFound(err) {
		if _, err := s.store.Dispatch(cart.ReplaceItems{Items: []cart.LineItem{}}); err != nil {
			return s.fail(err)
		}
		s.lastErr = ""
		return nil
	}
	if err != nil {
		return s.fail(err)
	}

	if _, err := s.store.Dispatch(cart.ReplaceItems{Items: FromServerCart(serverCart)}); err != nil {
		return s.fail(err)
	}
	s.lastErr = ""
	return nil
}

func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var remoteErr error
	if s.token != "" {
		remoteErr = s.backend.Logout(ctx)
	}

	_ = s.kv.Remove(storage.KeyToken)
	_ = s.kv.Remove(storage.KeyUser)
	s.user = nil
	s.token = ""
	s.backend.SetToken("")

	if remoteErr != nil {
		return s.fail(remoteErr)
	}
	return nil
}

// 先にローカルへ入れてから、ログイン中ならサーバーへ送る
func (s *Session) AddToCart(ctx context.Context, item cart.LineItem) ([]cart.LineItem, error) {
	// ローカルにもサーバーにも入れない
	if item.Quantity <= 0 {
		return s.store.Items(), ErrInvalidQuantity
	}
	items, err := s.store.Dispatch(cart.AddItem{Item: item})
	if err != nil {
		return items, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return items, nil
	}
	if _, err := s.backend.AddToCart(ctx, s.user.ID, item.ProductID, item.Quantity); err != nil {
		return items, s.fail(err)
	}
	return items, nil
}

func (s *Session) User() (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) fail(err error) error {
	s.lastErr = err.Error()
	s.log.Warn(context.Background(), "session: sync failed", err)
	return err
}

// サーバーのカートをローカルの行に変換する（削除済み商品は落とす）
func FromServerCart(c model.Cart) []cart.LineItem {
	out := make([]cart.LineItem, 0, len(c.Items))
	for _, it := range c.Items {
		if it.Product == nil {
			continue
		}
		out = append(out, cart.LineItem{
			ProductID:     it.ProductID,
			Name:          it.Product.Name,
			Images:        it.Product.Images,
			RegularPrice:  it.Product.RegularPrice,
			DiscountPrice: it.Product.DiscountPrice,
			Quantity:      it.Quantity,
		})
	}
	return out
}
