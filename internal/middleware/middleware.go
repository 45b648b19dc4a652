package middleware

import "net/http"

// Middleware is an alias so rs/cors and gorilla/mux middlewares mix freely.
type Middleware = func(http.Handler) http.Handler

// Wrap applies mws in order: the last one sees the request first.
func Wrap(h http.Handler, mws ...Middleware) http.Handler {
	for _, mw := range mws {
		if mw != nil {
			h = mw(h)
		}
	}
	return h
}
