package middleware

import (
	"time"

	applogger "MatchCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging emits one structured line per request.
func RequestLogging(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if l == nil {
				return err
			}

			req := c.Request()
			l.Info("http request",
				applogger.String("method", req.Method),
				applogger.String("uri", req.RequestURI),
				applogger.String("remote", req.RemoteAddr),
				applogger.Int("status", c.Response().Status),
				applogger.Duration("duration", time.Since(start)),
			)
			return err
		}
	}
}
