package usecase

import (
	"context"
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	repo "storefront/internal/repository"
)

type AuditUsecase struct {
	audit repo.AuditLogRepository
	log   *logger.Logger
}

func NewAuditUsecase(audit repo.AuditLogRepository, log *logger.Logger) *AuditUsecase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuditUsecase{audit: audit, log: log}
}

func (u *AuditUsecase) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	if f.Limit < 0 || f.Limit > 200 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Offset < 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid offset")
	}
	logs, err := u.audit.List(ctx, f)
	if err != nil {
		u.log.Error(ctx, "audit: list", err)
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}
