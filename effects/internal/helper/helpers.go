package helper

import (
	"context"
	"fmt"

	effectmodel "github.com/on-the-ground/effect_ive_connect/effects/internal/model"
	sharedHelper "github.com/on-the-ground/effect_ive_connect/shared/helper"
)

// Registered reports whether ctx carries a handler for enum.
func Registered(ctx context.Context, enum effectmodel.EffectEnum) bool {
	return ctx.Value(enum) != nil
}

// Handler returns the handler registered for enum as H.
func Handler[H any](ctx context.Context, enum effectmodel.EffectEnum) (H, error) {
	return sharedHelper.GetTypedValueOf[H](func() (any, error) {
		raw := ctx.Value(enum)
		if raw == nil {
			return nil, fmt.Errorf("%w: %v", effectmodel.ErrNoEffectHandler, enum)
		}
		return raw, nil
	})
}

// MustHandler panics when no handler of type H is registered for enum.
func MustHandler[H any](ctx context.Context, enum effectmodel.EffectEnum) H {
	h, err := Handler[H](ctx, enum)
	if err != nil {
		panic(err)
	}
	return h
}
