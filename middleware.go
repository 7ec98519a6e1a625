package router

// Next continues the composed pipeline with the steps that follow the
// current one. A middleware that never calls next short-circuits the
// remaining chain, including any post-processing of outer middleware
// that has not yet resumed.
type Next func() error

// Middleware is one step of a route's middleware stack. It receives the
// per-request Context and the continuation for the rest of the pipeline.
// Returning an error halts the chain and propagates to the dispatcher's
// caller unchanged.
type Middleware func(*Context, Next) error

// compose builds a single middleware that executes stack depth-first,
// strictly left to right: step i+1 begins only once step i has invoked
// its continuation. The outer next runs after the last step continues.
func compose(stack []Middleware) Middleware {
	return func(c *Context, next Next) error {
		index := -1

		var dispatch func(int) error
		dispatch = func(i int) error {
			if i <= index {
				return ErrNextCalledTwice
			}
			index = i

			if i == len(stack) {
				if next == nil {
					return nil
				}
				return next()
			}

			return stack[i](c, func() error {
				return dispatch(i + 1)
			})
		}

		return dispatch(0)
	}
}
