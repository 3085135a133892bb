package api

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/coreybb/quill/webutil"
)

// SetHeader is a middleware to set a response header.
func SetHeader(key, value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(key, value)
			next.ServeHTTP(w, r)
		})
	}
}

// limitByIP allows perMinute requests per client IP and answers the rest with a JSON 429.
func limitByIP(perMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(
		perMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			webutil.RespondWithError(w, http.StatusTooManyRequests, "Too many requests, slow down")
		}),
	)
}
