package handlers

import (
	"context"

	effectmodel "github.com/on-the-ground/effect_ive_connect/effects/internal/model"
)

// NewResumableHandler answers each payload on its own result channel,
// handling payloads one at a time.
func NewResumableHandler[P any, R any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, P) (R, error),
	teardown func(),
) ResumableHandler[P, R] {
	ctx, cancelFn := context.WithCancel(ctx)
	return ResumableHandler[P, R]{
		effectScope: newEffectScope(
			cancelFn,
			NewSingleQueue(ctx, bufferSize, resume(handleFn), rejectClosed[P, R]),
			teardown,
		),
	}
}

// NewPartitionableResumableHandler is NewResumableHandler with payloads
// spread over config.NumWorkers workers by partition key.
func NewPartitionableResumableHandler[P effectmodel.Partitionable, R any](
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	handleFn func(context.Context, P) (R, error),
	teardown func(),
) ResumableHandler[P, R] {
	ctx, cancelFn := context.WithCancel(ctx)
	return ResumableHandler[P, R]{
		effectScope: newEffectScope(
			cancelFn,
			NewPartitionedQueue(
				ctx,
				config.NumWorkers,
				config.BufferSize,
				resume(handleFn),
				rejectClosed[P, R],
			),
			teardown,
		),
	}
}

type ResumableHandler[P any, R any] struct {
	*effectScope[ResumableEffectMessage[P, R]]
}

// PerformEffect queues payload and returns the channel the result will be
// sent on. The channel always receives exactly one result and is then closed.
func (rh ResumableHandler[P, R]) PerformEffect(ctx context.Context, payload P) <-chan ResumableResult[R] {
	// buffered so the worker never blocks on a caller that stopped listening
	resumeCh := make(chan ResumableResult[R], 1)

	msg := ResumableEffectMessage[P, R]{
		Payload:  payload,
		ResumeCh: resumeCh,
	}
	if err := rh.dispatcher.Submit(ctx, msg); err != nil {
		var zero R
		resumeCh <- ResumableResultFrom(zero, err)
		close(resumeCh)
	}

	return resumeCh
}

func resume[P, R any](
	handleFn func(context.Context, P) (R, error),
) func(context.Context, ResumableEffectMessage[P, R]) {
	return func(ctx context.Context, msg ResumableEffectMessage[P, R]) {
		msg.ResumeCh <- ResumableResultFrom(handleFn(ctx, msg.Payload))
		close(msg.ResumeCh)
	}
}

func rejectClosed[P, R any](msg ResumableEffectMessage[P, R]) {
	var zero R
	msg.ResumeCh <- ResumableResultFrom(zero, ErrScopeClosed)
	close(msg.ResumeCh)
}

// ResumableResult represents the result of handled effects.
type ResumableResult[T any] struct {
	Value T
	Err   error
}

func ResumableResultFrom[R any](res R, err error) ResumableResult[R] {
	return ResumableResult[R]{Value: res, Err: err}
}

var _ effectmodel.Partitionable = ResumableEffectMessage[any, any]{}

type ResumableEffectMessage[P any, R any] struct {
	Payload  P
	ResumeCh chan ResumableResult[R]
}

func (rem ResumableEffectMessage[P, R]) PartitionKey() string {
	if p, ok := any(rem.Payload).(effectmodel.Partitionable); ok {
		return p.PartitionKey()
	}
	return ""
}
