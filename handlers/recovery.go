package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/x-mitsui/router"
)

// RecoveryConfig configures the Recovery middleware behaviour.
type RecoveryConfig struct {
	// Logger, when non-nil, logs each recovered panic with the request
	// method and path.
	Logger *zap.Logger
}

// Recovery returns a middleware that recovers from panics in downstream
// middleware. When a panic occurs it replaces the buffered response with
// 500 Internal Server Error and optionally logs the recovered value.
func Recovery(cfg RecoveryConfig) router.Middleware {
	return func(c *router.Context, next router.Next) (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				if cfg.Logger != nil {
					cfg.Logger.Error("panic recovered",
						zap.Any("panic", rec),
						zap.String("method", c.Method),
						zap.String("path", c.Path),
					)
				}

				c.Response.SetStatus(http.StatusInternalServerError)
				c.Response.SetBody([]byte(http.StatusText(http.StatusInternalServerError)))
				err = nil
			}
		}()

		return next()
	}
}
