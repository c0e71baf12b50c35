// Package server provides HTTP routing, middleware and the web presentation layer for tvx.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering, so route patterns may use
// ServeMux wildcards such as /favourites/{id}.
//
// # Web UI
//
// [Server] renders the same two views as the TUI from an injected [store.Container]:
//
//	GET  /                 → Home: every episode with a favourite button
//	GET  /faves            → Favourites only
//	POST /favourites/{id}  → Toggle, then 303 back to the page named by the "next" form value
//	POST /retry            → Re-run a failed episode load
//	GET  /api/episodes     → JSON episode list with favourite flags
//	GET  /api/favourites   → JSON favourites list
//	GET  /healthz          → Liveness and load status
//
// The episode load starts once when [Server.ListenAndServe] is called; pages render a loading or error state until it
// completes. State is shared by every visitor and lives only as long as the process.
package server
