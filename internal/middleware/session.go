package middleware

import (
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/repository"

	"github.com/labstack/echo/v4"
)

const currentUserKey = "current_user"

// ActiveSession はDBのtoken_versionと照合する。
// logout / force-logout 後の古いtokenは401、停止ユーザーは403。
func ActiveSession(users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return deny(c, http.StatusUnauthorized, "unauthorized")
			}

			user, err := users.FindByID(c.Request().Context(), p.UserID)
			if err != nil || user == nil || user.TokenVersion != p.TokenVersion {
				return deny(c, http.StatusUnauthorized, "unauthorized")
			}
			if !user.IsActive {
				return deny(c, http.StatusForbidden, "user is inactive")
			}

			c.Set(currentUserKey, user)
			return next(c)
		}
	}
}

// ActiveSessionが読んだユーザー
func CurrentUser(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(currentUserKey).(*model.User)
	return u, ok && u != nil
}
