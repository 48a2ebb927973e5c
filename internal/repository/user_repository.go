package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 見つからなければErrNotFound、email重複はErrConflict
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// name / phone / role / is_active / last_login_at
	Update(ctx context.Context, user *model.User) error
	// logoutとforce-logout
	IncrementTokenVersion(ctx context.Context, userID string) error
}
