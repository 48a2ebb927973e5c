package repository

import (
	"context"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

type AuditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) *AuditLogGormRepository {
	return &AuditLogGormRepository{db: db}
}

func (r *AuditLogGormRepository) Create(ctx context.Context, entry model.AuditLog) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

// 新しい順（id降順）
func (r *AuditLogGormRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	logs := []model.AuditLog{}
	err := r.db.WithContext(ctx).
		Scopes(
			whereIf("actor_user_id", f.ActorUserID),
			whereIf("action", string(f.Action)),
			whereIf("resource_type", string(f.ResourceType)),
			whereIf("resource_id", f.ResourceID),
			createdBetween(f.CreatedFrom, f.CreatedTo),
		).
		Order("id desc").
		Limit(clamp(f.Limit, defaultAuditLimit, maxAuditLimit)).
		Offset(max(f.Offset, 0)).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
