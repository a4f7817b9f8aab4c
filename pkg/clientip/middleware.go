package clientip

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/landing/pkg/logger"
)

// Middleware resolves the client address once per request and stores it in
// the request context.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), res.IP(r))))
	})
}

// Middleware stores the peer address of each request, trusting no proxy.
func Middleware(next http.Handler) http.Handler {
	return untrusted.Middleware(next)
}

// LoggerExtractor adds the client address to log records written with a
// request context.
func LoggerExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if ip := FromContext(ctx); ip != "" {
			return logger.ClientIP(ip), true
		}
		return slog.Attr{}, false
	}
}
