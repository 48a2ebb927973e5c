package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace = "sf"
	cartPrefix   = "cart"
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// CartCache はカートの明細行（商品なし）をRedisに置く
type CartCache struct {
	store cmdable
	raw   *redis.Client
	ttl   time.Duration
}

// New は接続して疎通確認まで行う
func New(ctx context.Context, cfg config.RedisConfig) (*CartCache, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &CartCache{store: raw, raw: raw, ttl: cfg.CartTTL}, nil
}

func newWithStore(store cmdable, ttl time.Duration) *CartCache {
	return &CartCache{store: store, ttl: ttl}
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}

func cartKey(userID string) string {
	return fmt.Sprintf("%s:%s:%s", keyNamespace, cartPrefix, userID)
}

// 無ければ ok=false
func (c *CartCache) Get(ctx context.Context, userID string) (model.Cart, bool, error) {
	raw, err := c.store.Get(ctx, cartKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return model.Cart{}, false, nil
	}
	if err != nil {
		return model.Cart{}, false, err
	}

	var cart model.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		// 壊れていたら消してDBから読み直させる
		_ = c.store.Del(ctx, cartKey(userID)).Err()
		return model.Cart{}, false, nil
	}
	return cart, true, nil
}

func (c *CartCache) Set(ctx context.Context, userID string, cart model.Cart) error {
	b, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, cartKey(userID), b, c.ttl).Err()
}

func (c *CartCache) Delete(ctx context.Context, userID string) error {
	return c.store.Del(ctx, cartKey(userID)).Err()
}

func (c *CartCache) Ping(ctx context.Context) error {
	return c.store.Ping(ctx).Err()
}

func (c *CartCache) Close() error {
	if c.raw == nil {
		return nil
	}
	return c.raw.Close()
}
