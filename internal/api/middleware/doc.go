// Package middleware holds the gin middleware shared by every HTTP route:
// CORS, per-client rate limiting, request IDs and request logging.
package middleware
