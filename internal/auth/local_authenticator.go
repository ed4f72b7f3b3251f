package auth

import (
	"net/http"

	"github.com/google/uuid"
)

// LocalAuthenticator trusts X-User-Id / X-User-Role headers. Used in dev and
// in the test suites, where the session layer in front of the service is
// absent.
type LocalAuthenticator struct{}

func NewLocalAuthenticator() (*LocalAuthenticator, error) {
	return &LocalAuthenticator{}, nil
}

func (l *LocalAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(r.Header.Get("X-User-Id"))
		if err != nil {
			http.Error(w, "missing or invalid user id", http.StatusUnauthorized)
			return
		}

		role := r.Header.Get("X-User-Role")
		if role != RoleCompany && role != RoleJobSeeker {
			http.Error(w, "missing or invalid role", http.StatusUnauthorized)
			return
		}

		user := User{
			ID:       userID,
			Username: r.Header.Get("X-User-Name"),
			Role:     role,
		}

		ctx := NewUserContext(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
