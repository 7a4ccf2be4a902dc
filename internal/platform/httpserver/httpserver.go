// Package httpserver builds the process HTTP server from configuration.
package httpserver

import (
	"net/http"
	"time"

	"pulseboard/internal/platform/config"
)

// New builds the dashboard API server. Write and idle timeouts sit above the
// per-request timeout middleware so the middleware deadline fires first.
func New(cfg config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       time.Minute,
	}
}
