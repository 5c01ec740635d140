// Package middleware provides reusable HTTP middleware for the farm logbook API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// ResolvedByHeader names the cascade stage that resolved a record lookup.
// It is exposed to browser clients.
const ResolvedByHeader = "X-Resolved-By"

// NewCORSHandler returns a middleware that applies CORS headers based on allowedOrigins.
// Each entry in allowedOrigins must be a full origin (scheme + host, no trailing slash).
// The API is read-only, so only GET and preflight OPTIONS are allowed.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{ResolvedByHeader},
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
