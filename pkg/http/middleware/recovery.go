package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	applogger "MatchCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Recover converts handler panics into a 500 response. The stack is logged,
// never written to the client.
func Recover(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}
					if l != nil {
						l.Error("handler panic",
							applogger.String("path", c.Request().URL.Path),
							applogger.String("stack", string(debug.Stack())),
							applogger.Error(err),
						)
					}
					_ = c.JSON(http.StatusInternalServerError, map[string]interface{}{
						"status":  http.StatusInternalServerError,
						"message": "Internal Server Error",
					})
				}
			}()
			return next(c)
		}
	}
}
