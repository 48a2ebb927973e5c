package middleware

import (
	"net/http"
	"slices"

	"storefront/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// ロールはDBの値を優先（ActiveSessionの後に置く）
func RequireRole(allowed ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return deny(c, http.StatusUnauthorized, "unauthorized")
			}
			role := p.Role
			if u, ok := CurrentUser(c); ok {
				role = u.Role
			}
			if !slices.Contains(allowed, role) {
				return deny(c, http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
