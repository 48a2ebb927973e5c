package handler

import (
	"net/http"
	"slices"
	"strconv"

	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// {success, message}
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// Bind → Validate。失敗したらそのまま400を書く
func bindAndValidate(c echo.Context, dst any) (bool, error) {
	if err := c.Bind(dst); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(dst); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: validator.Message(err)})
	}
	return true, nil
}

func getUserIDFromContext(c echo.Context) (string, bool) {
	return middleware.UserID(c)
}

// 空ならdefを返す
func queryInt(c echo.Context, name string, def int) (int, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// 認証付きルート用のミドルウェアのセット
type Guards struct {
	User  []echo.MiddlewareFunc
	Admin []echo.MiddlewareFunc
}

func NewGuards(parser middleware.TokenParser, users repository.UserRepository) Guards {
	user := []echo.MiddlewareFunc{
		middleware.Authenticate(parser),
		middleware.ActiveSession(users),
	}
	admin := append(slices.Clone(user), middleware.RequireRole(model.RoleAdmin))
	return Guards{User: user, Admin: admin}
}
