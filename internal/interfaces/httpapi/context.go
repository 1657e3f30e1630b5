package httpapi

import (
	"context"
	"net/http"
	"strings"
)

// userIDHeader carries the caller identity set by the upstream gateway.
const userIDHeader = "X-User-ID"

type contextKey string

const callerContextKey contextKey = "caller_user_id"

func withCaller(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, callerContextKey, userID)
}

func callerFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(callerContextKey).(string)
	return userID
}

// IdentifyCaller copies X-User-ID into the request context. Credential
// checks happen before requests reach this service.
func IdentifyCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(userIDHeader))
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(withCaller(r.Context(), userID)))
	})
}
