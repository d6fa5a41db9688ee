package entity

import (
	"context"

	"github.com/gofrs/uuid/v5"
)

type ctxKey int

const (
	ctxKeyActor ctxKey = iota
)

// Actor is the authenticated user owning records created in its session.
type Actor struct {
	ID    uuid.UUID
	Email string
}

func CtxWithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, ctxKeyActor, actor)
}

// ActorFromCtx returns the actor from context or ErrUnauthenticated.
func ActorFromCtx(ctx context.Context) (Actor, error) {
	actor, ok := ctx.Value(ctxKeyActor).(Actor)
	if !ok {
		return Actor{}, ErrUnauthenticated
	}

	return actor, nil
}
