package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type JwtAuthenticator struct {
	signingKey []byte
}

func NewJwtAuthenticator(signingKey string) (*JwtAuthenticator, error) {
	if signingKey == "" {
		return nil, errors.New("jwt authentication requires a signing key")
	}
	return &JwtAuthenticator{signingKey: []byte(signingKey)}, nil
}

func (j *JwtAuthenticator) Authenticate(token string) (User, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithIssuedAt(), jwt.WithExpirationRequired())
	t, err := parser.Parse(token, func(t *jwt.Token) (any, error) {
		return j.signingKey, nil
	})
	if err != nil {
		zap.S().Named("auth").Errorw("failed to parse or the token is invalid", "error", err)
		return User{}, fmt.Errorf("failed to authenticate token: %w", err)
	}

	if !t.Valid {
		return User{}, errors.New("failed to parse or validate token")
	}

	return j.parseToken(t)
}

func (j *JwtAuthenticator) parseToken(userToken *jwt.Token) (User, error) {
	claims, ok := userToken.Claims.(jwt.MapClaims)
	if !ok {
		return User{}, errors.New("failed to parse jwt token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return User{}, errors.New("token has no subject")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return User{}, fmt.Errorf("token subject is not a valid user id: %w", err)
	}

	role, ok := claims["role"].(string)
	if !ok || (role != RoleCompany && role != RoleJobSeeker) {
		return User{}, errors.New("token has no valid role claim")
	}

	username, _ := claims["preferred_username"].(string)

	return User{
		ID:       userID,
		Username: username,
		Role:     role,
		Token:    userToken,
	}, nil
}

func (j *JwtAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken := r.Header.Get("Authorization")
		if accessToken == "" || len(accessToken) < len("Bearer ") {
			http.Error(w, "No token provided", http.StatusUnauthorized)
			return
		}

		accessToken = accessToken[len("Bearer "):]
		user, err := j.Authenticate(accessToken)
		if err != nil {
			http.Error(w, "authentication failed", http.StatusUnauthorized)
			return
		}

		ctx := NewUserContext(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
