package middleware

import (
	"time"

	"loan-origination/internal/infrastructure/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestID reuses an inbound X-Request-ID or mints one, echoes it back and
// puts it on the request context for the logger.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" || len(id) > 64 {
				id = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			c.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), id)))
			return next(c)
		}
	}
}

// AccessLog writes one structured line per request.
func AccessLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			res := c.Response()
			fields := []zap.Field{
				zap.String("request_id", logger.RequestID(req.Context())),
				zap.String("method", req.Method),
				zap.String("route", c.Path()),
				zap.String("uri", req.RequestURI),
				zap.Int("status", res.Status),
				zap.Int64("bytes_out", res.Size),
				zap.Duration("latency", time.Since(start)),
			}
			if p, ok := PrincipalFrom(c); ok {
				fields = append(fields, zap.String("user_id", p.UserID))
			}
			switch {
			case res.Status >= 500:
				logger.L().Error("http request", fields...)
			case res.Status >= 400:
				logger.L().Warn("http request", fields...)
			default:
				logger.L().Info("http request", fields...)
			}
			return nil
		}
	}
}
