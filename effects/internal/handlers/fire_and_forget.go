package handlers

import (
	"context"
)

// NewFireAndForgetHandler runs handleFn for each payload without reporting
// back. Payloads still queued when the scope closes are dropped.
func NewFireAndForgetHandler[P any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, P),
	teardown func(),
) FireAndForgetHandler[P] {
	ctx, cancelFn := context.WithCancel(ctx)
	return FireAndForgetHandler[P]{
		effectScope: newEffectScope(
			cancelFn,
			NewSingleQueue(ctx, bufferSize, handleFn, nil),
			teardown,
		),
	}
}

type FireAndForgetHandler[P any] struct {
	*effectScope[P]
}

// FireAndForgetEffect queues payload. It reports whether the payload was accepted.
func (ffh FireAndForgetHandler[P]) FireAndForgetEffect(ctx context.Context, payload P) bool {
	return ffh.dispatcher.Submit(ctx, payload) == nil
}
