package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type contextKey string

const actorIDKey contextKey = "actorID"

// ContextWithActorID returns a new context that carries the authenticated user identity.
func ContextWithActorID(ctx context.Context, id uuid.UUID) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, actorIDKey, id)
}

// ActorIDFromContext retrieves the authenticated user identity from the context, if any.
func ActorIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	value := ctx.Value(actorIDKey)
	if value == nil {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}
	if id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// RequireActor returns the authenticated user identity or an error when the
// request carries none. Proposer and reviewer identity always comes from
// here, never from the request body.
func RequireActor(ctx context.Context) (uuid.UUID, error) {
	id, ok := ActorIDFromContext(ctx)
	if !ok {
		return uuid.Nil, fmt.Errorf("authenticated user identity is required")
	}
	return id, nil
}
