// Package kernel assembles the HTTP handler: the global middleware
// stack, the metrics endpoint, and the application routes.
package kernel

import (
	"net/http"
	"time"

	"github.com/hendryprasetyo/storefront/pkg/metrics"
	"github.com/hendryprasetyo/storefront/pkg/middleware"
	"github.com/hendryprasetyo/storefront/pkg/reqid"
	"github.com/hendryprasetyo/storefront/pkg/router"
)

// Build constructs the HTTP handler. Route registration is injected so
// this package never imports application code.
//
// Middleware stack (outermost → innermost):
//  1. Prometheus metrics — outermost for accurate total latency
//  2. Recovery           — catches panics before they kill the goroutine
//  3. Request ID         — inject unique ID before anything logs
//  4. Logger             — logs request_id from context
//  5. CORS               — set CORS headers
//  6. Rate limiter       — reject abusers early
func Build(register func(*router.Router)) http.Handler {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(200, time.Minute))

	// Prometheus scrape endpoint, outside /api.
	r.HandleFunc("/metrics", metrics.Handler())

	register(r)

	return r.Handler()
}

// Routes builds the router without the middleware stack, for commands
// that only need the route table.
func Routes(register func(*router.Router)) *router.Router {
	r := router.New()
	register(r)
	return r
}
