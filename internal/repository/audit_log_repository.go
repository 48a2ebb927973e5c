package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

// 空のフィールドは絞り込まない。Limitは0なら既定値
type AuditLogFilter struct {
	ActorUserID  string
	Action       model.AuditAction
	ResourceType model.AuditResourceType
	ResourceID   string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	Limit        int
	Offset       int
}

// 管理者操作の記録。追記のみ
type AuditLogRepository interface {
	Create(ctx context.Context, entry model.AuditLog) error
	List(ctx context.Context, f AuditLogFilter) ([]model.AuditLog, error)
}
