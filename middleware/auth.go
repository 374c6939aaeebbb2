package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const UserIDKey contextKey = "userID"

// UserContextMiddleware extracts the authenticated user ID injected by the
// upstream gateway. Credential verification happens there; by the time a
// request reaches this service, X-User-ID is trusted.
func UserContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("X-User-ID")
		if header == "" {
			respondWithError(w, http.StatusUnauthorized, "X-User-ID header required")
			return
		}

		userID, err := uuid.Parse(header)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Invalid user ID")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserID extracts the authenticated user ID from context
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write([]byte(fmt.Sprintf(`{"error": "%s"}`, message)))
}
