package middleware

import (
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/infra/token"

	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

// JWTから取り出したログイン情報
type Principal struct {
	UserID       string
	Role         model.Role
	TokenVersion int
}

type TokenParser interface {
	Parse(raw string) (*token.Claims, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

func deny(c echo.Context, status int, msg string) error {
	return c.JSON(status, errorResponse{Error: msg})
}

// "Bearer xxx" 以外は空
func bearerToken(r *http.Request) string {
	scheme, raw, ok := strings.Cut(r.Header.Get(echo.HeaderAuthorization), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(raw)
}

// Authenticate はBearerのJWTを検証してPrincipalをcontextに置く
func Authenticate(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearerToken(c.Request())
			if raw == "" {
				return deny(c, http.StatusUnauthorized, "unauthorized")
			}
			claims, err := parser.Parse(raw)
			if err != nil {
				return deny(c, http.StatusUnauthorized, "unauthorized")
			}

			c.Set(principalKey, Principal{
				UserID:       claims.Subject,
				Role:         claims.Role,
				TokenVersion: claims.TokenVersion,
			})
			return next(c)
		}
	}
}

func PrincipalFrom(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalKey).(Principal)
	if !ok || p.UserID == "" {
		return Principal{}, false
	}
	return p, true
}

func UserID(c echo.Context) (string, bool) {
	p, ok := PrincipalFrom(c)
	return p.UserID, ok
}
