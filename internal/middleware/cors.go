package middleware

import (
	"net/http"
	"slices"

	"github.com/rs/cors"
)

// Cors allows the listed origins, or any origin when none are given.
func Cors(origins []string) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return len(origins) == 0 || slices.Contains(origins, origin)
		},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
	}
	return cors.New(options).Handler
}
