package entity

import (
	"context"

	"github.com/google/uuid"
)

// Actor is the authenticated back-office user behind an operation.
type Actor struct {
	UserID uuid.UUID
	Email  string
}

// IsZero reports whether no user was authenticated.
func (a Actor) IsZero() bool {
	return a.UserID == uuid.Nil && a.Email == ""
}

// Label returns the identifier used in log lines.
func (a Actor) Label() string {
	switch {
	case a.Email != "":
		return a.Email
	case a.UserID != uuid.Nil:
		return a.UserID.String()
	default:
		return "anonymous"
	}
}

type actorKey struct{}

// ContextWithActor returns a copy of ctx carrying actor.
func ContextWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor stored in ctx, or the zero Actor.
func ActorFromContext(ctx context.Context) Actor {
	actor, _ := ctx.Value(actorKey{}).(Actor)
	return actor
}
