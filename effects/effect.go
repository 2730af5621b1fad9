package effects

import (
	"context"
	"sync/atomic"

	"github.com/on-the-ground/effect_ive_connect/effects/internal/handlers"
	"github.com/on-the-ground/effect_ive_connect/effects/internal/helper"
	"go.uber.org/zap"

	effectmodel "github.com/on-the-ground/effect_ive_connect/effects/internal/model"
)

// EffectScopeConfig sizes the buffers and workers of a handler scope.
type EffectScopeConfig = effectmodel.EffectScopeConfig

// NewEffectScopeConfig clamps both values to at least 1.
func NewEffectScopeConfig(bufferSize, numWorkers int) EffectScopeConfig {
	return effectmodel.NewEffectScopeConfig(bufferSize, numWorkers)
}

var ErrNoEffectHandler = effectmodel.ErrNoEffectHandler

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// SetLogger replaces the logger used for handler lifecycle messages.
// A nil logger restores the no-op default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// HasEffectHandler reports whether a handler for enum is registered in ctx.
func HasEffectHandler(ctx context.Context, enum effectmodel.EffectEnum) bool {
	return helper.Registered(ctx, enum)
}

// WithResumablePartitionableEffectHandler registers a resumable effect handler for a given effect enum.
//
// This handler supports hash-based partitioning via PartitionKey(), and is suitable for effects
// like dispatching or lookups where per-key ordering matters.
//
// Usage:
//
//	ctx, end := WithResumablePartitionableEffectHandler(ctx, config, MyEffectEnum, handleFn)
//	defer end()
func WithResumablePartitionableEffectHandler[P effectmodel.Partitionable, R any](
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	enum effectmodel.EffectEnum,
	handleFn func(context.Context, P) (R, error),
	teardown ...func(),
) (context.Context, func() context.Context) {
	td := normalizeTeardown(teardown)
	handler := handlers.NewPartitionableResumableHandler(ctx, config, handleFn, td)
	ctxWith := context.WithValue(ctx, enum, handler)
	logger.Load().Debug("created resumable effect handler",
		zap.String("effectId", handler.EffectId),
		zap.String("enum", string(enum)),
		zap.Int("numWorkers", config.NumWorkers),
	)

	return ctxWith, func() context.Context {
		handler.Close()
		logger.Load().Debug("closed resumable effect handler",
			zap.String("effectId", handler.EffectId),
			zap.String("enum", string(enum)),
		)
		return ctx
	}
}

// WithResumableEffectHandler registers a resumable effect handler for a given effect enum.
//
// Payloads are handled one at a time in submission order.
func WithResumableEffectHandler[P any, R any](
	ctx context.Context,
	bufferSize int,
	enum effectmodel.EffectEnum,
	handleFn func(context.Context, P) (R, error),
	teardown ...func(),
) (context.Context, func() context.Context) {
	td := normalizeTeardown(teardown)
	handler := handlers.NewResumableHandler(ctx, bufferSize, handleFn, td)
	ctxWith := context.WithValue(ctx, enum, handler)
	logger.Load().Debug("created resumable effect handler",
		zap.String("effectId", handler.EffectId),
		zap.String("enum", string(enum)),
	)

	return ctxWith, func() context.Context {
		handler.Close()
		logger.Load().Debug("closed resumable effect handler",
			zap.String("effectId", handler.EffectId),
			zap.String("enum", string(enum)),
		)
		return ctx
	}
}

// PerformResumableEffect sends a payload to the resumable effect handler.
//
// The returned channel receives exactly one result and is then closed.
// Panics if no handler is registered for the given effect enum.
func PerformResumableEffect[P any, R any](
	ctx context.Context,
	enum effectmodel.EffectEnum,
	payload P,
) <-chan handlers.ResumableResult[R] {
	handler := helper.MustHandler[handlers.ResumableHandler[P, R]](ctx, enum)
	return handler.PerformEffect(ctx, payload)
}

// WithFireAndForgetEffectHandler registers a fire-and-forget effect handler for a given effect enum.
//
// Suitable for one-shot effects like logging.
// This handler executes without returning a result.
func WithFireAndForgetEffectHandler[P any](
	ctx context.Context,
	bufferSize int,
	enum effectmodel.EffectEnum,
	handleFn func(context.Context, P),
	teardown ...func(),
) (context.Context, func() context.Context) {
	td := normalizeTeardown(teardown)
	handler := handlers.NewFireAndForgetHandler(ctx, bufferSize, handleFn, td)
	ctxWith := context.WithValue(ctx, enum, handler)
	logger.Load().Debug("created fire/forget effect handler",
		zap.String("effectId", handler.EffectId),
		zap.String("enum", string(enum)),
	)

	return ctxWith, func() context.Context {
		handler.Close()
		logger.Load().Debug("closed fire/forget effect handler",
			zap.String("effectId", handler.EffectId),
			zap.String("enum", string(enum)),
		)
		return ctx
	}
}

// FireAndForgetEffect triggers a fire-and-forget effect for the given enum and payload.
//
// The handler will process the payload asynchronously.
// Panics if no handler is registered for the given enum.
func FireAndForgetEffect[P any](
	ctx context.Context,
	enum effectmodel.EffectEnum,
	payload P,
) {
	handler := helper.MustHandler[handlers.FireAndForgetHandler[P]](ctx, enum)
	if !handler.FireAndForgetEffect(ctx, payload) {
		logger.Load().Debug("dropped fire/forget effect",
			zap.String("effectId", handler.EffectId),
			zap.String("enum", string(enum)),
		)
	}
}

// normalizeTeardown flattens optional teardown functions into a single callable.
//
// Accepts either 0 or 1 teardown functions. Panics if more than one is passed.
func normalizeTeardown(teardown []func()) func() {
	switch len(teardown) {
	case 1:
		return teardown[0]
	case 0:
		return func() {}
	default:
		panic("normalizeTeardown: only one or zero teardown functions allowed")
	}
}
