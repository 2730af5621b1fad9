package handlers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/on-the-ground/effect_ive_connect/effects/internal/handlers"
	effectmodel "github.com/on-the-ground/effect_ive_connect/effects/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[R any](t *testing.T, ch <-chan handlers.ResumableResult[R]) handlers.ResumableResult[R] {
	t.Helper()
	select {
	case res, ok := <-ch:
		require.True(t, ok, "result channel closed without a result")
		return res
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for result")
	}
	return handlers.ResumableResult[R]{}
}

func TestResumableHandler_ReturnsResult(t *testing.T) {
	handler := handlers.NewResumableHandler(
		context.Background(),
		1,
		func(ctx context.Context, n int) (string, error) {
			if n < 0 {
				return "", errors.New("negative")
			}
			return "ok", nil
		},
		nil,
	)
	defer handler.Close()

	res := receive(t, handler.PerformEffect(context.Background(), 1))
	assert.NoError(t, res.Err)
	assert.Equal(t, "ok", res.Value)

	res = receive(t, handler.PerformEffect(context.Background(), -1))
	assert.EqualError(t, res.Err, "negative")
}

func TestPartitionableResumableHandler_ReturnsResult(t *testing.T) {
	handler := handlers.NewPartitionableResumableHandler(
		context.Background(),
		effectmodel.NewEffectScopeConfig(2, 3),
		func(ctx context.Context, msg dummyMessage) (int, error) {
			return msg.id * 2, nil
		},
		nil,
	)
	defer handler.Close()

	for i := 0; i < 5; i++ {
		res := receive(t, handler.PerformEffect(context.Background(), dummyMessage{id: i, group: "g"}))
		assert.NoError(t, res.Err)
		assert.Equal(t, i*2, res.Value)
	}
}

func TestResumableHandler_ClosedScopeRejects(t *testing.T) {
	handler := handlers.NewResumableHandler(
		context.Background(),
		1,
		func(ctx context.Context, n int) (int, error) { return n, nil },
		nil,
	)
	handler.Close()

	res := receive(t, handler.PerformEffect(context.Background(), 1))
	assert.ErrorIs(t, res.Err, handlers.ErrScopeClosed)
}

func TestResumableHandler_QueuedPayloadsRejectedOnClose(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	handler := handlers.NewResumableHandler(
		context.Background(),
		4,
		func(ctx context.Context, n int) (int, error) {
			if n == 0 {
				close(entered)
				<-release
			}
			return n, nil
		},
		nil,
	)

	first := handler.PerformEffect(context.Background(), 0)
	<-entered
	queued := handler.PerformEffect(context.Background(), 1)

	handler.Close()
	close(release)

	assert.NoError(t, receive(t, first).Err)
	assert.ErrorIs(t, receive(t, queued).Err, handlers.ErrScopeClosed)
}
