// Package server exposes a small read-only HTTP endpoint for monitoring a display.
//
// # Routes
//
//	GET /healthz → {"status": "ok"}
//	GET /state   → current playlist, playlist names and item counts, cursor and sync flags
//	GET /metrics → Prometheus metrics from internal/metrics
//
// The server only starts when metrics.addr is set in the config.
//
// # Router
//
// [BasicRouter] wraps [http.ServeMux] with a middleware stack. [Middleware] added first runs
// outermost. Custom handlers implement [Handler], which adds Routes to the stdlib interface
// so a handler can own several paths.
package server
