package handlers

import (
	"context"
	"errors"
	"sync"

	effectmodel "github.com/on-the-ground/effect_ive_connect/effects/internal/model"
)

var ErrScopeClosed = errors.New("effect scope closed")

// --- common interface ---

// WorkerDispatcher hands messages to the worker goroutines of a scope.
type WorkerDispatcher[T any] interface {
	// Submit blocks until msg is queued, ctx is done, or the scope is closed.
	Submit(ctx context.Context, msg T) error
	// seal stops accepting messages; queued ones are drained by the workers.
	seal()
}

// gate guards the queues against sends racing with shutdown.
// Submitters hold the read lock while sending, so once seal returns
// nothing can land in a channel the workers have stopped reading.
type gate struct {
	scopeCtx context.Context
	mu       sync.RWMutex
	closed   bool
	once     sync.Once
	sealed   chan struct{}
}

func newGate(scopeCtx context.Context) *gate {
	return &gate{scopeCtx: scopeCtx, sealed: make(chan struct{})}
}

func (g *gate) seal() {
	g.once.Do(func() {
		g.mu.Lock()
		g.closed = true
		g.mu.Unlock()
		close(g.sealed)
	})
}

func submit[T any](ctx context.Context, g *gate, ch chan T, msg T) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.closed || g.scopeCtx.Err() != nil {
		return ErrScopeClosed
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-g.scopeCtx.Done():
		return ErrScopeClosed
	case ch <- msg:
		return nil
	}
}

// runWorker consumes ch until the scope is done, then seals the gate and
// passes every message still buffered to drainFn.
func runWorker[T any](
	g *gate,
	ch chan T,
	handleFn func(context.Context, T),
	drainFn func(T),
	ready *sync.WaitGroup,
) {
	ready.Done()
	drain := func() {
		g.seal()
		for {
			select {
			case msg := <-ch:
				drainFn(msg)
			default:
				return
			}
		}
	}
	for {
		// a closed scope wins over buffered messages
		if g.scopeCtx.Err() != nil {
			drain()
			return
		}
		select {
		case msg := <-ch:
			handleFn(g.scopeCtx, msg)
		case <-g.scopeCtx.Done():
			drain()
			return
		}
	}
}

// --- single queue ---

type singleQueue[T any] struct {
	*gate
	effectCh chan T
}

func (q singleQueue[T]) Submit(ctx context.Context, msg T) error {
	return submit(ctx, q.gate, q.effectCh, msg)
}

// NewSingleQueue starts one worker reading a buffered channel.
// The worker stops when ctx is done.
func NewSingleQueue[T any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, T),
	drainFn func(T),
) WorkerDispatcher[T] {
	g := newGate(ctx)
	effCh := make(chan T, bufferSize)

	ready := sync.WaitGroup{}
	ready.Add(1)
	go runWorker(g, effCh, handleFn, normalizeDrain(drainFn), &ready)
	ready.Wait()

	return singleQueue[T]{gate: g, effectCh: effCh}
}

// --- partitioned queue ---

type partitionedQueue[T effectmodel.Partitionable] struct {
	*gate
	effectChs []chan T
}

func (pq partitionedQueue[T]) Submit(ctx context.Context, msg T) error {
	return submit(ctx, pq.gate, pq.effectChs[partitionIndex(msg.PartitionKey(), len(pq.effectChs))], msg)
}

// NewPartitionedQueue starts numWorkers workers, each with its own buffered
// channel. Messages are routed by the hash of their PartitionKey.
func NewPartitionedQueue[T effectmodel.Partitionable](
	ctx context.Context,
	numWorkers, bufferSize int,
	handleFn func(context.Context, T),
	drainFn func(T),
) WorkerDispatcher[T] {
	g := newGate(ctx)
	drainFn = normalizeDrain(drainFn)
	channels := make([]chan T, numWorkers)
	ready := sync.WaitGroup{}
	for i := 0; i < numWorkers; i++ {
		ready.Add(1)
		ch := make(chan T, bufferSize)
		go runWorker(g, ch, handleFn, drainFn, &ready)
		channels[i] = ch
	}
	ready.Wait()
	return partitionedQueue[T]{gate: g, effectChs: channels}
}

func normalizeDrain[T any](drainFn func(T)) func(T) {
	if drainFn == nil {
		return func(T) {}
	}
	return drainFn
}
