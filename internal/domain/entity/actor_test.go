package entity

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestActorContext(t *testing.T) {
	if actor := ActorFromContext(context.Background()); !actor.IsZero() {
		t.Errorf("expected zero actor, got %+v", actor)
	}

	id := uuid.New()
	ctx := ContextWithActor(context.Background(), Actor{UserID: id})
	actor := ActorFromContext(ctx)
	if actor.UserID != id {
		t.Errorf("expected user %s, got %s", id, actor.UserID)
	}
	if actor.Label() != id.String() {
		t.Errorf("expected label %s, got %s", id, actor.Label())
	}
}

func TestActorLabel(t *testing.T) {
	tests := []struct {
		name     string
		actor    Actor
		expected string
	}{
		{name: "email wins", actor: Actor{UserID: uuid.New(), Email: "contador@example.com"}, expected: "contador@example.com"},
		{name: "anonymous", actor: Actor{}, expected: "anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.actor.Label(); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}
