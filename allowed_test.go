package router

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// guarded composes the allowed-methods guard ahead of the dispatcher, the
// way a serving pipeline would.
func guarded(r *Router, opts AllowedMethodsOptions) Middleware {
	return compose([]Middleware{r.AllowedMethods(opts), r.Routes()})
}

func TestAllowedMethods(t *testing.T) {
	middleware := func(_ *Context, next Next) error { return next() }

	newAPI := func() *Router {
		r := NewRouter()
		r.Get("/things", middleware)
		r.Post("/things", middleware)
		return r
	}

	t.Run("routable path with wrong method gets 405 and Allow", func(t *testing.T) {
		r := newAPI()
		c := newTestContext("PUT", "/things")

		require.NoError(t, guarded(r, AllowedMethodsOptions{})(c, nil))
		assert.Equal(t, http.StatusMethodNotAllowed, c.Response.Status())
		assert.Equal(t, "HEAD, GET, POST", c.Response.Header().Get("Allow"))
	})

	t.Run("unimplemented method gets 501", func(t *testing.T) {
		r := newAPI()
		c := newTestContext("PURGE", "/things")

		require.NoError(t, guarded(r, AllowedMethodsOptions{})(c, nil))
		assert.Equal(t, http.StatusNotImplemented, c.Response.Status())
		assert.Equal(t, "HEAD, GET, POST", c.Response.Header().Get("Allow"))
	})

	t.Run("unimplemented method gets 501 even on unroutable paths", func(t *testing.T) {
		r := newAPI()
		c := newTestContext("PURGE", "/nowhere")

		require.NoError(t, guarded(r, AllowedMethodsOptions{})(c, nil))
		assert.Equal(t, http.StatusNotImplemented, c.Response.Status())
	})

	t.Run("OPTIONS gets 200 with Allow and an empty body", func(t *testing.T) {
		r := newAPI()
		c := newTestContext("OPTIONS", "/things")

		require.NoError(t, guarded(r, AllowedMethodsOptions{})(c, nil))
		assert.Equal(t, http.StatusOK, c.Response.Status())
		assert.Equal(t, "HEAD, GET, POST", c.Response.Header().Get("Allow"))
		assert.Empty(t, c.Response.Body())
	})

	t.Run("successful requests are left untouched", func(t *testing.T) {
		r := NewRouter()
		r.Get("/things", func(c *Context, _ Next) error {
			c.Response.SetStatus(http.StatusCreated)
			return nil
		})
		c := newTestContext("GET", "/things")

		require.NoError(t, guarded(r, AllowedMethodsOptions{})(c, nil))
		assert.Equal(t, http.StatusCreated, c.Response.Status())
		assert.Empty(t, c.Response.Header().Get("Allow"))
	})

	t.Run("unroutable paths stay 404", func(t *testing.T) {
		r := newAPI()
		c := newTestContext("GET", "/nowhere")

		require.NoError(t, guarded(r, AllowedMethodsOptions{})(c, nil))
		assert.Equal(t, 0, c.Response.Status())
		assert.Empty(t, c.Response.Header().Get("Allow"))
	})

	t.Run("a downstream 404 is still eligible for the guard", func(t *testing.T) {
		r := newAPI()
		notFound := func(c *Context, _ Next) error {
			c.Response.SetStatus(http.StatusNotFound)
			return nil
		}

		pipeline := compose([]Middleware{
			r.AllowedMethods(AllowedMethodsOptions{}),
			r.Routes(),
			notFound,
		})

		c := newTestContext("PUT", "/things")
		require.NoError(t, pipeline(c, nil))
		assert.Equal(t, http.StatusMethodNotAllowed, c.Response.Status())
	})

	t.Run("Allow keeps first discovery order without duplicates", func(t *testing.T) {
		r := NewRouter()
		r.Post("/things", middleware)
		r.Get("/things", middleware)
		r.Get("/things", middleware)

		c := newTestContext("PUT", "/things")
		require.NoError(t, guarded(r, AllowedMethodsOptions{})(c, nil))
		assert.Equal(t, "POST, HEAD, GET", c.Response.Header().Get("Allow"))
	})

	t.Run("the union spans nested dispatchers", func(t *testing.T) {
		sub := NewRouter()
		sub.Delete("/things", middleware)

		parent := NewRouter()
		parent.Post("/things", middleware)

		pipeline := compose([]Middleware{
			parent.AllowedMethods(AllowedMethodsOptions{}),
			parent.Routes(),
			sub.Routes(),
		})

		c := newTestContext("GET", "/things")
		require.NoError(t, pipeline(c, nil))
		assert.Equal(t, http.StatusMethodNotAllowed, c.Response.Status())
		assert.Equal(t, "POST, DELETE", c.Response.Header().Get("Allow"))
	})
}

func TestAllowedMethodsThrow(t *testing.T) {
	middleware := func(_ *Context, next Next) error { return next() }

	newAPI := func() *Router {
		r := NewRouter()
		r.Get("/things", middleware)
		return r
	}

	t.Run("405 becomes ErrMethodNotAllowed", func(t *testing.T) {
		r := newAPI()
		c := newTestContext("POST", "/things")

		err := guarded(r, AllowedMethodsOptions{Throw: true})(c, nil)
		assert.ErrorIs(t, err, ErrMethodNotAllowed)
	})

	t.Run("501 becomes ErrNotImplemented", func(t *testing.T) {
		r := newAPI()
		c := newTestContext("PURGE", "/things")

		err := guarded(r, AllowedMethodsOptions{Throw: true})(c, nil)
		assert.ErrorIs(t, err, ErrNotImplemented)
	})

	t.Run("custom error factories win", func(t *testing.T) {
		boom := errors.New("no such method here")
		r := newAPI()
		c := newTestContext("POST", "/things")

		err := guarded(r, AllowedMethodsOptions{
			Throw:            true,
			MethodNotAllowed: func() error { return boom },
		})(c, nil)
		assert.Equal(t, boom, err)

		c = newTestContext("PURGE", "/things")
		err = guarded(r, AllowedMethodsOptions{
			Throw:          true,
			NotImplemented: func() error { return boom },
		})(c, nil)
		assert.Equal(t, boom, err)
	})

	t.Run("downstream errors pass through untouched", func(t *testing.T) {
		boom := errors.New("downstream broke")
		r := NewRouter()
		r.Get("/things", func(_ *Context, _ Next) error { return boom })

		c := newTestContext("GET", "/things")
		err := guarded(r, AllowedMethodsOptions{Throw: true})(c, nil)
		assert.Equal(t, boom, err)
	})
}
