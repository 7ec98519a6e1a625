package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/x-mitsui/router"
)

// RequestLogConfig configures the Request Log middleware behaviour.
type RequestLogConfig struct {
	// Logger receives one entry per request. Defaults to zap.NewNop when
	// nil, making the middleware a timing-only pass-through.
	Logger *zap.Logger
}

// RequestLog returns a middleware that writes one structured log line
// per request after the downstream chain finishes: method, path, matched
// pattern and name (when any), buffered status, duration and the request
// ID when the RequestID middleware ran earlier in the chain.
//
// A downstream error is logged at error level and returned unchanged.
func RequestLog(cfg RequestLogConfig) router.Middleware {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *router.Context, next router.Next) error {
		start := time.Now()
		err := next()

		status := c.Response.Status()
		if status == 0 {
			status = http.StatusNotFound
		}

		fields := []zap.Field{
			zap.String("method", c.Method),
			zap.String("path", c.Path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
		}
		if pattern := c.MatchedPattern(); pattern != "" {
			fields = append(fields, zap.String("route", pattern))
		}
		if name := c.MatchedName(); name != "" {
			fields = append(fields, zap.String("route_name", name))
		}
		if id := RequestIDFromContext(c.Request.Context()); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}

		if err != nil {
			logger.Error("request failed", append(fields, zap.Error(err))...)
			return err
		}

		logger.Info("request served", fields...)
		return nil
	}
}
