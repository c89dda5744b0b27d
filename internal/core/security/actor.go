// Package security provides the request-scoped actor identity.
// The HTTP auth middleware resolves the actor from the access token and
// stores it in the request context; domain services read it from there.
package security

import (
	"context"

	"warestock/internal/core/id"
)

// Role is the authorization role of an actor.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Actor is the authenticated caller of a request.
// An inactive user never becomes an Actor: the auth middleware rejects
// it before any domain code runs.
type Actor struct {
	ID   id.ID
	Name string
	Role Role
}

// IsAdmin reports whether the actor holds the privileged role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

type actorKey struct{}

// WithActor stores the actor in the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor returns the actor from the context.
// The second return value is false when no actor has been resolved.
func GetActor(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}
