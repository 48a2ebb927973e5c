package handler

import (
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

type AddCartResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Cart    model.Cart `json:"cart"`
}

func (h *CartHandler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/cart")
	g.POST("", h.addToCart)
	g.GET("/:userId", h.getCart)
}

func (h *CartHandler) addToCart(c echo.Context) error {
	var req AddCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid input data."})
	}

	cart, err := h.uc.AddToCart(c.Request().Context(), usecase.AddToCartInput{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, AddCartResponse{
		Success: true,
		Message: "Product added to cart",
		Cart:    cart,
	})
}

func (h *CartHandler) getCart(c echo.Context) error {
	cart, err := h.uc.GetCart(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}
