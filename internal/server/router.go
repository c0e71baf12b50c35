package server

import (
	"net/http"
	"strings"
)

var _ Router = (*BasicRouter)(nil)

// BasicRouter is a simple HTTP router implementing the [Router] interface.
//
// Uses [http.ServeMux] internally for routing.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
	methods     map[string][]string     // path -> registered methods
	handlers    map[string]http.Handler // "METHOD path" -> wrapped handler
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:         http.NewServeMux(),
		middlewares: []Middleware{},
		methods:     map[string][]string{},
		handlers:    map[string]http.Handler{},
	}
}

// Use adds [Middleware] to the [Router] instance's middleware stack, applied in the order it's added.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers a handler for the specified HTTP method and path.
//
// Several methods may share a path; requests with any other method get 405 with an Allow header.
// Middleware is applied when the route is registered, so call [BasicRouter.Use] first.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	method = strings.ToUpper(method)
	wrapped := r.Apply(handler)

	if _, ok := r.methods[path]; !ok {
		r.mux.Handle(path, r.dispatch(path))
	}
	r.methods[path] = append(r.methods[path], method)
	r.handlers[routeKey(method, path)] = wrapped
}

// Handler registers a custom Handler implementation.
//
// All routes returned by [Handler.Routes] are registered with this handler.
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.Apply(handler)

	for _, route := range handler.Routes() {
		r.mux.Handle(route, wrapped)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware.
//
// Middleware is applied in reverse order (last added wraps first).
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	return wrapped
}

func (r *BasicRouter) dispatch(path string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		method := strings.ToUpper(req.Method)
		if method == http.MethodHead {
			method = http.MethodGet
		}
		if h, ok := r.handlers[routeKey(method, path)]; ok {
			h.ServeHTTP(w, req)
			return
		}
		w.Header().Set("Allow", strings.Join(r.methods[path], ", "))
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
}

func routeKey(method, path string) string {
	return method + " " + path
}
