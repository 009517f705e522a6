package transport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// SessionHeader carries the board client session on /rpc and /mcp requests.
const SessionHeader = "Mcp-Session-Id"

type sessionKey struct{}

// SessionIDFromContext returns the client session, if the request named one.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionKey{}).(string)
	return sessionID, ok
}

// clientRef identifies the caller in request logs: the session when present,
// otherwise the chi request ID.
func clientRef(ctx context.Context) string {
	if sid, ok := SessionIDFromContext(ctx); ok {
		return sid
	}
	return middleware.GetReqID(ctx)
}

// SessionMiddleware stores the Mcp-Session-Id header in the request context.
// JSON-RPC responses echo it so stateless clients can correlate board calls;
// /mcp is left to the SDK, which manages the header itself.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(SessionHeader)
		if sessionID == "" {
			next.ServeHTTP(w, r)
			return
		}
		if r.URL.Path == "/rpc" {
			w.Header().Set(SessionHeader, sessionID)
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sessionID)))
	})
}
