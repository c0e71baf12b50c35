// package server contains the router, middleware & handlers for the tvx web UI
package server

import (
	"net/http"
)

// Middleware decorates every route registered after it is added, e.g. [Logging] or [Recover].
type Middleware func(http.Handler) http.Handler

// Handler is a handler that serves a fixed group of ServeMux patterns, such as the JSON API.
//
// It is responsible for its own method checks.
type Handler interface {
	http.Handler
	Routes() []string // Routes lists the patterns registered for this handler
}

// Router registers method-scoped routes and grouped [Handler]s behind a shared middleware stack.
type Router interface {
	Use(middleware ...Middleware)                     // Use appends to the middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers handler for method on path
	Handler(handler Handler)                          // Handler registers handler on each of its routes
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP dispatches to the matching route
}
