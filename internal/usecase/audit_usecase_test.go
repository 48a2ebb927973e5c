package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuditList_EmptyIsNotNil(t *testing.T) {
	audit := new(MockAuditRepo)
	audit.On("List", mock.Anything, mock.Anything).Return(nil, nil)

	logs, err := NewAuditUsecase(audit, nil).List(context.Background(), repository.AuditLogFilter{Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)
}

func TestAuditList_PassesFilter(t *testing.T) {
	f := repository.AuditLogFilter{Action: model.AuditActionForceLogout, Limit: 5, Offset: 5}
	audit := new(MockAuditRepo)
	audit.On("List", mock.Anything, f).Return([]model.AuditLog{{ID: 1, Action: model.AuditActionForceLogout}}, nil)

	logs, err := NewAuditUsecase(audit, nil).List(context.Background(), f)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
	audit.AssertExpectations(t)
}

func TestAuditList_Invalid(t *testing.T) {
	uc := NewAuditUsecase(new(MockAuditRepo), nil)

	_, err := uc.List(context.Background(), repository.AuditLogFilter{Limit: 500})
	requireHTTPError(t, err, http.StatusBadRequest)
	_, err = uc.List(context.Background(), repository.AuditLogFilter{Offset: -1})
	requireHTTPError(t, err, http.StatusBadRequest)
}

func TestAuditList_DBError(t *testing.T) {
	audit := new(MockAuditRepo)
	audit.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	_, err := NewAuditUsecase(audit, nil).List(context.Background(), repository.AuditLogFilter{})
	requireHTTPError(t, err, http.StatusInternalServerError)
}
