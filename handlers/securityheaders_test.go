package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecurityHeaders(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		mw, err := SecurityHeaders(SecurityHeadersConfig{})
		require.NoError(t, err)

		c := newTestContext("GET", "/")
		require.NoError(t, mw(c, noopNext))

		h := c.Response.Header()
		assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
		assert.Equal(t, "strict-origin-when-cross-origin", h.Get("Referrer-Policy"))
		assert.Empty(t, h.Get("Strict-Transport-Security"))
	})

	t.Run("invalid frame option", func(t *testing.T) {
		_, err := SecurityHeaders(SecurityHeadersConfig{FrameOption: "ALLOWALL"})
		assert.ErrorIs(t, err, ErrInvalidFrameOption)
	})

	t.Run("nosniff can be disabled", func(t *testing.T) {
		mw, err := SecurityHeaders(SecurityHeadersConfig{DisableContentTypeNosniff: true})
		require.NoError(t, err)

		c := newTestContext("GET", "/")
		require.NoError(t, mw(c, noopNext))
		assert.Empty(t, c.Response.Header().Get("X-Content-Type-Options"))
	})

	t.Run("HSTS directives assemble in order", func(t *testing.T) {
		mw, err := SecurityHeaders(SecurityHeadersConfig{
			HSTSMaxAge:            31536000,
			HSTSIncludeSubDomains: true,
			HSTSPreload:           true,
		})
		require.NoError(t, err)

		c := newTestContext("GET", "/")
		require.NoError(t, mw(c, noopNext))
		assert.Equal(t, "max-age=31536000; includeSubDomains; preload",
			c.Response.Header().Get("Strict-Transport-Security"))
	})

	t.Run("optional policies set only when configured", func(t *testing.T) {
		mw, err := SecurityHeaders(SecurityHeadersConfig{
			FrameOption:           "SAMEORIGIN",
			ContentSecurityPolicy: "default-src 'self'",
			PermissionsPolicy:     "geolocation=()",
		})
		require.NoError(t, err)

		c := newTestContext("GET", "/")
		require.NoError(t, mw(c, noopNext))

		h := c.Response.Header()
		assert.Equal(t, "SAMEORIGIN", h.Get("X-Frame-Options"))
		assert.Equal(t, "default-src 'self'", h.Get("Content-Security-Policy"))
		assert.Equal(t, "geolocation=()", h.Get("Permissions-Policy"))
	})
}
