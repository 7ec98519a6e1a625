// Package router implements an HTTP request-routing engine: path
// patterns compile to matchers, routes carry method sets and ordered
// middleware stacks, and a dispatcher executes the chains of every entry
// matching a request.
//
// The package implements routing semantics based on:
//   - RFC 9110 (HTTP Semantics)
//   - RFC 3986 (URIs)
//
// # Routing
//
// Create a router, register routes, and serve it (the Router implements
// http.Handler):
//
//	r := router.NewRouter()
//	r.Get("/users/:id", showUser).Name("user")
//	r.Post("/users", createUser)
//	http.ListenAndServe(":8080", r)
//
// Middleware receives the per-request Context and a continuation:
//
//	func showUser(c *router.Context, next router.Next) error {
//		c.Response.WriteString("user " + c.Param("id"))
//		return next()
//	}
//
// Registering GET also accepts HEAD on the same entry. Registration
// order matters: when several entries match one request, all of them
// execute in registration order, and the last one is treated as the
// most specific.
//
// # Path Parameters
//
// Path specs use ":name" tokens, optionally constrained by a
// sub-pattern in parentheses and modified by "?" (optional), "+"
// (repeated) or "*" (both):
//
//	r.Get("/articles/:category/:id([0-9]+)", handler)
//	r.Get("/files/:path+", handler)
//
// Captured values are percent-decoded and merged into Context.Params; a
// malformed escape keeps the raw text instead of failing the request.
//
// # Pattern Macros
//
// A sub-pattern may name a macro instead of spelling out a regexp:
//
//	r.Get("/users/:id(int)", handler)
//	r.Get("/keys/:key(uuid)", handler)
//	r.Get("/posts/:slug(slug)", handler)
//
// Available macros: uuid, int, float, slug, alpha, alphanum, date, hex
// and domain. An unknown name is treated as a raw regexp.
//
// # Parameter Validators
//
// Param binds middleware to a named parameter. Validators run before the
// owning route's own middleware, in left-to-right parameter order
// regardless of the order they were added, and apply retroactively to
// routes that already exist:
//
//	r.Param("user", func(value string, c *router.Context, next router.Next) error {
//		u, err := load(value)
//		if err != nil {
//			c.Response.SetStatus(http.StatusNotFound)
//			return nil
//		}
//		c.Params["user"] = u.Name
//		return next()
//	})
//
// # Mounting and Nesting
//
// Use and Mount register method-agnostic middleware entries; Mount
// limits them to a path prefix. MountRouter merges another router's
// entries under a prefix by deep copy, so the mounted router can keep
// evolving independently:
//
//	posts := router.NewRouter()
//	posts.Get("/posts/:pid", showPost)
//	app.MountRouter(posts, "/forums/:fid")
//
// # URL Generation
//
// Named routes build URLs from positional or named values, optionally
// with a query suffix:
//
//	r.Get("/users/:id", showUser).Name("user")
//	u, err := r.URL("user", "42")
//	u, err = r.URL("user", map[string]string{"id": "42"},
//		router.URLOptions{Query: url.Values{"page": {"2"}}})
//
// URLFor builds from a raw spec without registering anything. Unknown
// route names return an error wrapping ErrRouteNotFound.
//
// # Allowed Methods
//
// AllowedMethods returns companion middleware that answers with 405 (and
// an Allow header), 501 for unimplemented methods, and handles OPTIONS,
// based on what the dispatcher matched:
//
//	h := router.Handler(r.AllowedMethods(router.AllowedMethodsOptions{}), r.Routes())
//
// # Concurrency
//
// Registration is a configuration phase: once a router serves traffic,
// its route table must not be mutated concurrently with in-flight
// requests. The Context is owned by a single request and never shared.
package router
