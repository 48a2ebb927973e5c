package handler

import (
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CategoryHandler struct {
	uc *usecase.CategoryUsecase
}

func NewCategoryHandler(uc *usecase.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

type CategoryRequest struct {
	Name   string   `json:"name" validate:"required,max=100"`
	Images []string `json:"images" validate:"required,min=1,dive,required,url"`
	Color  string   `json:"color" validate:"required,max=50"`
}

type CategoryListResponse struct {
	Success bool             `json:"success"`
	Data    []model.Category `json:"data"`
}

// /api/category（更新系はadmin）
func (h *CategoryHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	g := api.Group("/category")
	g.GET("", h.list)
	g.GET("/", h.list)
	g.GET("/:id", h.detail)
	g.POST("/create", h.create, guards.Admin...)
	g.PUT("/:id", h.update, guards.Admin...)
	g.DELETE("/:id", h.delete, guards.Admin...)
}

func (h *CategoryHandler) list(c echo.Context) error {
	items, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, CategoryListResponse{Success: true, Data: items})
}

func (h *CategoryHandler) detail(c echo.Context) error {
	cat, err := h.uc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) create(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CategoryRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	cat, err := h.uc.AdminCreate(c.Request().Context(), adminID, usecase.CategoryInput{
		Name:   req.Name,
		Images: req.Images,
		Color:  req.Color,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHandler) update(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req CategoryRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	cat, err := h.uc.AdminUpdate(c.Request().Context(), adminID, c.Param("id"), usecase.CategoryInput{
		Name:   req.Name,
		Images: req.Images,
		Color:  req.Color,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) delete(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.AdminDelete(c.Request().Context(), adminID, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true, Message: "Category deleted"})
}
