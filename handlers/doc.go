// Package handlers provides companion middleware for the router.
//
// # Request ID Middleware
//
// RequestID generates or propagates a request ID header and stores the
// ID on the request context for downstream handlers.
//
//	r.Use(handlers.RequestID(handlers.RequestIDConfig{
//	    TrustIncoming: true,
//	}))
//
// # Recovery Middleware
//
// Recovery converts panics in downstream middleware into a 500 response
// and optionally logs the recovered value.
//
//	r.Use(handlers.Recovery(handlers.RecoveryConfig{Logger: logger}))
//
// # Request Log Middleware
//
// RequestLog writes one structured log line per request with the method,
// path, matched pattern, status and duration.
//
//	r.Use(handlers.RequestLog(handlers.RequestLogConfig{Logger: logger}))
//
// # Security Headers Middleware
//
// SecurityHeaders sets common security response headers before the rest
// of the chain runs.
//
//	mw, err := handlers.SecurityHeaders(handlers.SecurityHeadersConfig{
//	    HSTSMaxAge: 31536000,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r.Use(mw)
package handlers
