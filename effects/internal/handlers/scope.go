package handlers

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// effectScope owns the workers of one registered handler.
// Close cancels the workers, seals the dispatcher and runs the teardown once.
type effectScope[T any] struct {
	EffectId   string
	dispatcher WorkerDispatcher[T]
	cancel     context.CancelFunc
	teardown   func()
	once       sync.Once
}

func (es *effectScope[T]) Close() {
	es.once.Do(func() {
		es.cancel()
		es.dispatcher.seal()
		es.teardown()
	})
}

func newEffectScope[T any](
	cancel context.CancelFunc,
	dispatcher WorkerDispatcher[T],
	teardown func(),
) *effectScope[T] {
	if teardown == nil {
		teardown = func() {}
	}
	return &effectScope[T]{
		EffectId:   uuid.New().String(),
		dispatcher: dispatcher,
		cancel:     cancel,
		teardown:   teardown,
	}
}
