package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/contactrelay/contact-api/internal/logger"
	"github.com/contactrelay/contact-api/internal/middleware/ratelimit"
)

const limitedResponse = "Too many requests from this IP, please try again later"

// RateLimit guards a route with the given counter store, keyed by
// getIdentity. Beyond the cap the request never reaches the handler.
func RateLimit(store ratelimit.Store, getIdentity func(r *http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := store.Allow(r.Context(), getIdentity(r))
			if err != nil {
				// A broken counter store must not take the endpoint
				// down with it: let the request through and log.
				logger.Log.Error("rate limit store failure", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				http.Error(w, limitedResponse, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP extracts the client address best-effort: proxy headers first,
// then the transport peer. Behind no proxy the headers are absent and
// RemoteAddr wins.
func ClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); net.ParseIP(ip) != nil {
		return ip
	}

	for _, ip := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		ip = strings.TrimSpace(ip)
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) != nil {
		return ip
	}
	return "unknown"
}

// MaxBodySize caps request body reads before parsing completes; an
// over-size body surfaces as *http.MaxBytesError from the handler's
// decode.
func MaxBodySize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

// Recover is the outermost boundary: a panic anywhere below becomes a
// generic 500 envelope, with the detail kept server-side.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Log.Error("panic recovered", "panic", rec, "path", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"success":false,"message":"Something went wrong. Please try again later."}`))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

const RequestIDHeader = "X-Request-Id"

// RequestID tags each request with a UUID for diagnostic correlation and
// echoes it back to the client.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}
