package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	repo "storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
	tx           repo.TransactionManager
	idGen        IDGenerator
	clock        Clock
	log          *logger.Logger
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	tx repo.TransactionManager,
	idGen IDGenerator,
	clock Clock,
	log *logger.Logger,
) *ProductUsecase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		tx:           tx,
		idGen:        idGen,
		clock:        clock,
		log:          log,
	}
}

// GET /api/products の入力DTO
type ListProductsInput struct {
	Page       int
	Limit      int
	Q          string
	CategoryID string
	Featured   *bool
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	if in.CategoryID != "" && !isUUID(in.CategoryID) {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:       in.Page,
		Limit:      in.Limit,
		Q:          strings.TrimSpace(in.Q),
		CategoryID: in.CategoryID,
		Featured:   in.Featured,
	})
	if err != nil {
		u.log.Error(ctx, "product: list", err)
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

// IDの形式が違えば400、無ければ404
func (u *ProductUsecase) Get(ctx context.Context, productID string) (model.Product, error) {
	if !isUUID(productID) {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		u.log.Error(ctx, "product: get", err)
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

type ProductInput struct {
	Name          string
	Description   string
	Images        []string
	Brand         string
	RegularPrice  decimal.Decimal
	DiscountPrice decimal.NullDecimal
	CategoryID    string
	CountInStock  int64
	IsFeatured    bool
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return NewHTTPError(http.StatusBadRequest, "description required")
	}
	if len(in.Images) == 0 {
		return NewHTTPError(http.StatusBadRequest, "images must be a non-empty array")
	}
	if in.RegularPrice.IsNegative() {
		return NewHTTPError(http.StatusBadRequest, "regularPrice must be >= 0")
	}
	if in.DiscountPrice.Valid {
		if in.DiscountPrice.Decimal.IsNegative() {
			return NewHTTPError(http.StatusBadRequest, "discountPrice must be >= 0")
		}
		if in.DiscountPrice.Decimal.GreaterThan(in.RegularPrice) {
			return NewHTTPError(http.StatusBadRequest, "discountPrice must be <= regularPrice")
		}
	}
	if in.CountInStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "countInStock must be >= 0")
	}
	if !isUUID(in.CategoryID) {
		return NewHTTPError(http.StatusBadRequest, "invalid category id")
	}
	return nil
}

func (u *ProductUsecase) AdminCreate(ctx context.Context, adminUserID string, in ProductInput) (model.Product, error) {
	if adminUserID == "" {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}

	// カテゴリの存在確認
	cat, err := u.categoryRepo.FindByID(ctx, in.CategoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "category not found")
	}
	if err != nil {
		u.log.Error(ctx, "product: find category", err)
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.clock.Now()
	p := model.Product{
		ID:            u.idGen.NewID(),
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Images:        in.Images,
		Brand:         strings.TrimSpace(in.Brand),
		RegularPrice:  in.RegularPrice,
		DiscountPrice: in.DiscountPrice,
		CategoryID:    cat.ID,
		CountInStock:  in.CountInStock,
		InStock:       in.CountInStock > 0,
		IsFeatured:    in.IsFeatured,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		created, err := r.Products().Create(ctx, p)
		if err != nil {
			return err
		}
		p = created
		return writeAudit(ctx, r, adminUserID, model.AuditActionCreate, model.AuditResourceProduct, p.ID, nil, p, now)
	})
	if err != nil {
		u.log.Error(ctx, "product: create", err)
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p.Category = &cat
	return p, nil
}

func (u *ProductUsecase) AdminUpdate(ctx context.Context, adminUserID string, productID string, in ProductInput) (model.Product, error) {
	if adminUserID == "" {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !isUUID(productID) {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := in.validate(); err != nil {
		return model.Product{}, err
	}

	if _, err := u.categoryRepo.FindByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "category not found")
		}
		u.log.Error(ctx, "product: find category", err)
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.clock.Now()
	var updated model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		after := before
		after.Name = strings.TrimSpace(in.Name)
		after.Description = in.Description
		after.Images = in.Images
		after.Brand = strings.TrimSpace(in.Brand)
		after.RegularPrice = in.RegularPrice
		after.DiscountPrice = in.DiscountPrice
		after.CategoryID = in.CategoryID
		after.CountInStock = in.CountInStock
		after.InStock = in.CountInStock > 0
		after.IsFeatured = in.IsFeatured
		if err := r.Products().Update(ctx, after); err != nil {
			return err
		}
		if err := writeAudit(ctx, r, adminUserID, model.AuditActionUpdate, model.AuditResourceProduct, productID, before, after, now); err != nil {
			return err
		}
		// categoryを取り直す
		updated, err = r.Products().FindByID(ctx, productID)
		return err
	})
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		u.log.Error(ctx, "product: update", err)
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return updated, nil
}

func (u *ProductUsecase) AdminDelete(ctx context.Context, adminUserID string, productID string) error {
	if adminUserID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !isUUID(productID) {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	now := u.clock.Now()
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if err := r.Products().SoftDelete(ctx, productID); err != nil {
			return err
		}
		return writeAudit(ctx, r, adminUserID, model.AuditActionDelete, model.AuditResourceProduct, productID, before, nil, now)
	})
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		u.log.Error(ctx, "product: delete", err)
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
