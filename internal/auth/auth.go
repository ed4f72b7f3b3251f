package auth

import (
	"net/http"

	"github.com/hiredeck/hiredeck/internal/config"
	"go.uber.org/zap"
)

type Authenticator interface {
	Authenticator(next http.Handler) http.Handler
}

const (
	JwtAuthentication   string = "jwt"
	LocalAuthentication string = "local"
)

func NewAuthenticator(authConfig config.Auth) (Authenticator, error) {
	zap.S().Named("auth").Infof("authentication: '%s'", authConfig.AuthenticationType)

	switch authConfig.AuthenticationType {
	case JwtAuthentication:
		return NewJwtAuthenticator(authConfig.JwtSigningKey)
	default:
		return NewLocalAuthenticator()
	}
}
