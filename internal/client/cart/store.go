package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"storefront/internal/client/storage"
	"storefront/internal/logger"

	"github.com/rs/zerolog"
)

// 永続化先（storage.FileStoreなど）
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// Storeに渡す操作
type Action interface {
	apply(items []LineItem) []LineItem
}

type AddItem struct{ Item LineItem }

type RemoveItem struct{ ProductID string }

type ChangeQuantityBy struct {
	ProductID string
	Delta     int64
}

type ReplaceItems struct{ Items []LineItem }

func (a AddItem) apply(items []LineItem) []LineItem { return AddToCart(items, a.Item) }

func (a RemoveItem) apply(items []LineItem) []LineItem { return RemoveFromCart(items, a.ProductID) }

func (a ChangeQuantityBy) apply(items []LineItem) []LineItem {
	return ChangeQuantity(items, a.ProductID, a.Delta)
}

func (a ReplaceItems) apply([]LineItem) []LineItem { return Replace(a.Items) }

// カートの状態（Dispatchのたびに保存する）
type Store struct {
	mu    sync.Mutex
	items []LineItem
	kv    KV
	log   *logger.Logger
}

func NewStore(kv KV, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{items: []LineItem{}, kv: kv, log: log}
}

// 保存済みのカートを読む。壊れていたら空のまま
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []LineItem{}
	raw, err := s.kv.Get(storage.KeyCart)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Debug(ctx, "cart: read storage failed")
		}
		return
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Event(ctx, zerolog.DebugLevel).Err(err).Msg("cart: malformed storage ignored")
		return
	}
	if items != nil {
		s.items = items
	}
}

func (s *Store) Dispatch(action Action) ([]LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = action.apply(s.items)
	if err := s.persist(); err != nil {
		return Replace(s.items), err
	}
	return Replace(s.items), nil
}

func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Replace(s.items)
}

func (s *Store) persist() error {
	b, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.kv.Set(storage.KeyCart, string(b)); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
