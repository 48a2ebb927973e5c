package middleware

import (
	"time"

	"storefront/internal/logger"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// request_idをログのcontextに入れて、1リクエスト1行を出す
func RequestLogger(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = req.Header.Get(echo.HeaderXRequestID)
			}
			ctx := log.WithRequestID(req.Context(), rid)
			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			//認証済みならuser_idも出す
			if uid, ok := UserID(c); ok {
				ctx = log.WithUserID(ctx, uid)
			}

			status := c.Response().Status
			level := zerolog.InfoLevel
			switch {
			case status >= 500:
				level = zerolog.ErrorLevel
			case status >= 400:
				level = zerolog.WarnLevel
			}

			log.Event(ctx, level).
				Str("method", req.Method).
				Str("path", c.Path()).
				Str("uri", req.RequestURI).
				Int("status", status).
				Int64("bytes", c.Response().Size).
				Dur("latency", time.Since(start)).
				Msg("http request")
			return nil
		}
	}
}
