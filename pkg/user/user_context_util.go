package user

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type contextKey string

// UserKey carries the authenticated User resolved from the request's JWT.
// The auth middleware stores it after verifying the bearer token.
const UserKey contextKey = "user"

var ErrNoUser = errors.New("user not found")

// CurrentId returns the authenticated user's ID. Returns ErrNoUser when the
// request did not pass through the auth middleware.
func CurrentId(ctx context.Context) (int, error) {
	user, ok := ctx.Value(UserKey).(User)
	if !ok {
		log.Trace("user not found in context")
		return 0, ErrNoUser
	}
	return user.Id, nil
}

// CurrentUser returns the full authenticated User from the context.
func CurrentUser(ctx context.Context) (User, error) {
	user, ok := ctx.Value(UserKey).(User)
	if !ok {
		log.Trace("user not found in context")
		return User{}, ErrNoUser
	}
	return user, nil
}

// WithUser attaches the authenticated user to the context.
func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}
