// Package httpx holds the small HTTP helpers shared by the API handlers.
package httpx

import (
	"encoding/json"
	"net/http"

	"golang.org/x/time/rate"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, msg string, fields ...string) {
	WriteJSON(w, status, ErrorBody{Error: msg, Fields: fields})
}

// DecodeJSON reads at most 1MB of JSON body into v.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v)
}

// RateLimit answers 429 once the shared token bucket is empty.
func RateLimit(limit rate.Limit, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(limit, burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				WriteError(w, http.StatusTooManyRequests, "too many reports, try again shortly")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
