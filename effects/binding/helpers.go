package binding

import (
	"context"

	"github.com/on-the-ground/effect_ive_connect/effects"
	effectmodel "github.com/on-the-ground/effect_ive_connect/effects/internal/model"
	"github.com/on-the-ground/effect_ive_connect/shared/helper"
)

// GetFromBindingEffect fetches a typed value from the Binding effect using the provided key.
// Returns a zero value and error if the key is not found or the type is mismatched.
func GetFromBindingEffect[T any](ctx context.Context, key string) (T, error) {
	return helper.GetTypedValueOf[T](func() (any, error) {
		return Effect(ctx, key)
	})
}

// MustGetFromBindingEffect is the panic-on-failure variant of GetFromBindingEffect.
func MustGetFromBindingEffect[T any](ctx context.Context, key string) T {
	return helper.MustGetTypedValue[T](func() (any, error) {
		return Effect(ctx, key)
	})
}

// GetOrDefault reads key through the Binding effect, returning def when no
// binding handler is in scope or no scope provides a value of type T.
func GetOrDefault[T any](ctx context.Context, key string, def T) T {
	if !effects.HasEffectHandler(ctx, effectmodel.EffectBinding) {
		return def
	}
	v, err := GetFromBindingEffect[T](ctx, key)
	if err != nil {
		return def
	}
	return v
}
