package repository

import (
	"testing"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(email string) *model.User {
	return &model.User{
		ID:           uuid.NewString(),
		Name:         "alice",
		Email:        email,
		PasswordHash: "hash",
		Role:         model.RoleUser,
		IsActive:     true,
	}
}

func TestUser_CreateDuplicateEmail(t *testing.T) {
	r := NewUserGormRepository(newTestDB(t))

	require.NoError(t, r.Create(ctx(), newUser("a@example.com")))
	err := r.Create(ctx(), newUser("a@example.com"))
	assert.ErrorIs(t, err, repo.ErrConflict)
}

func TestUser_IncrementTokenVersion(t *testing.T) {
	r := NewUserGormRepository(newTestDB(t))
	u := newUser("b@example.com")
	require.NoError(t, r.Create(ctx(), u))

	require.NoError(t, r.IncrementTokenVersion(ctx(), u.ID))
	got, err := r.FindByID(ctx(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TokenVersion)

	assert.ErrorIs(t, r.IncrementTokenVersion(ctx(), uuid.NewString()), repo.ErrNotFound)

	_, err = r.FindByEmail(ctx(), "missing@example.com")
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestAuditLog_ListFilters(t *testing.T) {
	r := NewAuditLogGormRepository(newTestDB(t))
	now := time.Now()

	require.NoError(t, r.Create(ctx(), model.AuditLog{
		ActorUserID: "admin-1", Action: model.AuditActionCreate,
		ResourceType: model.AuditResourceProduct, ResourceID: "p-1", CreatedAt: now,
	}))
	require.NoError(t, r.Create(ctx(), model.AuditLog{
		ActorUserID: "admin-1", Action: model.AuditActionForceLogout,
		ResourceType: model.AuditResourceUser, ResourceID: "u-1", CreatedAt: now,
	}))

	logs, err := r.List(ctx(), repo.AuditLogFilter{ResourceType: model.AuditResourceUser, Limit: 10})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, model.AuditActionForceLogout, logs[0].Action)

	logs, err = r.List(ctx(), repo.AuditLogFilter{ActorUserID: "admin-1", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}
