package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Roles a principal can act under.
const (
	RoleCompany   string = "COMPANY"
	RoleJobSeeker string = "JOB_SEEKER"
)

type userKeyType struct{}

var (
	userKey userKeyType
)

// User is the resolved acting principal. ID refers to the users table; the
// owning company or job seeker profile is re-derived from the store when a
// guard check runs.
type User struct {
	ID       uuid.UUID
	Username string
	Role     string
	Token    *jwt.Token
}

func UserFromContext(ctx context.Context) (User, bool) {
	val := ctx.Value(userKey)
	if val == nil {
		return User{}, false
	}
	return val.(User), true
}

func MustHaveUser(ctx context.Context) User {
	user, found := UserFromContext(ctx)
	if !found {
		zap.S().Named("auth").Panic("failed to find user in context")
	}
	return user
}

func NewUserContext(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userKey, u)
}
