package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	repo "storefront/internal/repository"
)

type CategoryUsecase struct {
	categories repo.CategoryRepository
	tx         repo.TransactionManager
	idGen      IDGenerator
	clock      Clock
	log        *logger.Logger
}

// DI
func NewCategoryUsecase(
	categories repo.CategoryRepository,
	tx repo.TransactionManager,
	idGen IDGenerator,
	clock Clock,
	log *logger.Logger,
) *CategoryUsecase {
	if log == nil {
		log = logger.Nop()
	}
	return &CategoryUsecase{categories: categories, tx: tx, idGen: idGen, clock: clock, log: log}
}

type CategoryInput struct {
	Name   string
	Images []string
	Color  string
}

func (in CategoryInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if strings.TrimSpace(in.Color) == "" {
		return NewHTTPError(http.StatusBadRequest, "color required")
	}
	if len(in.Images) == 0 {
		return NewHTTPError(http.StatusBadRequest, "images required")
	}
	for _, img := range in.Images {
		if strings.TrimSpace(img) == "" {
			return NewHTTPError(http.StatusBadRequest, "invalid image url")
		}
	}
	return nil
}

// 1件も無ければ404
func (u *CategoryUsecase) List(ctx context.Context) ([]model.Category, error) {
	items, err := u.categories.List(ctx)
	if err != nil {
		u.log.Error(ctx, "category: list", err)
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(items) == 0 {
		return nil, NewHTTPError(http.StatusNotFound, "no categories found")
	}
	return items, nil
}

func (u *CategoryUsecase) Get(ctx context.Context, id string) (model.Category, error) {
	c, err := u.categories.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "category not found")
	}
	if err != nil {
		u.log.Error(ctx, "category: get", err)
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

func (u *CategoryUsecase) AdminCreate(ctx context.Context, adminUserID string, in CategoryInput) (model.Category, error) {
	if adminUserID == "" {
		return model.Category{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return model.Category{}, err
	}

	now := u.clock.Now()
	var created model.Category
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		c, err := r.Categories().Create(ctx, model.Category{
			ID:        u.idGen.NewID(),
			Name:      strings.TrimSpace(in.Name),
			Images:    in.Images,
			Color:     strings.TrimSpace(in.Color),
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		created = c
		return writeAudit(ctx, r, adminUserID, model.AuditActionCreate, model.AuditResourceCategory, c.ID, nil, c, now)
	})
	if err != nil {
		u.log.Error(ctx, "category: create", err)
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *CategoryUsecase) AdminUpdate(ctx context.Context, adminUserID string, id string, in CategoryInput) (model.Category, error) {
	if adminUserID == "" {
		return model.Category{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return model.Category{}, err
	}

	now := u.clock.Now()
	var updated model.Category
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Categories().FindByID(ctx, id)
		if err != nil {
			return err
		}
		after := before
		after.Name = strings.TrimSpace(in.Name)
		after.Images = in.Images
		after.Color = strings.TrimSpace(in.Color)
		after.UpdatedAt = now
		if err := r.Categories().Update(ctx, after); err != nil {
			return err
		}
		updated = after
		return writeAudit(ctx, r, adminUserID, model.AuditActionUpdate, model.AuditResourceCategory, id, before, after, now)
	})
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "category not found")
	}
	if err != nil {
		u.log.Error(ctx, "category: update", err)
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return updated, nil
}

var errCategoryInUse = errors.New("category in use")

// 商品が残っているカテゴリは消せない
func (u *CategoryUsecase) AdminDelete(ctx context.Context, adminUserID string, id string) error {
	if adminUserID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	now := u.clock.Now()
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Categories().FindByID(ctx, id)
		if err != nil {
			return err
		}
		n, err := r.Categories().CountProducts(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return errCategoryInUse
		}
		if err := r.Categories().Delete(ctx, id); err != nil {
			return err
		}
		return writeAudit(ctx, r, adminUserID, model.AuditActionDelete, model.AuditResourceCategory, id, before, nil, now)
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound):
		return NewHTTPError(http.StatusNotFound, "category not found")
	case errors.Is(err, errCategoryInUse):
		return NewHTTPError(http.StatusConflict, "category has products")
	default:
		u.log.Error(ctx, "category: delete", err)
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
}

// 監査ログ（before/afterはJSONで残す、nilなら空）
func writeAudit(
	ctx context.Context,
	r repo.TxRepos,
	actor string,
	action model.AuditAction,
	resource model.AuditResourceType,
	resourceID string,
	before, after any,
	now time.Time,
) error {
	return r.AuditLogs().Create(ctx, model.AuditLog{
		ActorUserID:  actor,
		Action:       action,
		ResourceType: resource,
		ResourceID:   resourceID,
		BeforeJSON:   toAuditJSON(before),
		AfterJSON:    toAuditJSON(after),
		CreatedAt:    now,
	})
}

func toAuditJSON(v any) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
