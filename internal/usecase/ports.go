package usecase

import (
	"context"
	"io"
	"time"

	"storefront/internal/domain/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// 平文パスワードとハッシュ
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain string, hashed string) bool
}

type BcryptPasswordHasher struct {
	cost int
}

func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *BcryptPasswordHasher) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(userID string, role model.Role, tokenVersion int, now time.Time) (token string, expiresAt time.Time, err error)
}

// populate済みカートのキャッシュ（Redis）
type CartCache interface {
	Get(ctx context.Context, userID string) (model.Cart, bool, error)
	Set(ctx context.Context, userID string, cart model.Cart) error
	Delete(ctx context.Context, userID string) error
}

// 注文確定イベント（RabbitMQ）
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, o model.Order) error
}

// 画像の保存先（MinIO）
type ImageStore interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error)
}

// キャッシュ無し
type NopCartCache struct{}

func (NopCartCache) Get(context.Context, string) (model.Cart, bool, error) {
	return model.Cart{}, false, nil
}
func (NopCartCache) Set(context.Context, string, model.Cart) error { return nil }
func (NopCartCache) Delete(context.Context, string) error          { return nil }
