package connect_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/on-the-ground/effect_ive_connect/effects/action"
	"github.com/on-the-ground/effect_ive_connect/effects/binding"
	"github.com/on-the-ground/effect_ive_connect/effects/configkeys"
	"github.com/on-the-ground/effect_ive_connect/effects/connect"
	effectmodel "github.com/on-the-ground/effect_ive_connect/effects/internal/model"
	"github.com/on-the-ground/effect_ive_connect/effects/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func withDispatch(t *testing.T, codec action.Codec) (context.Context, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	ctx, endOfLog := log.WithZapLogEffectHandler(context.Background(), 8, zap.New(core))
	t.Cleanup(func() { endOfLog() })

	c, err := connect.Connect[connectedModule](&effectModule{})
	require.NoError(t, err)
	table, err := connect.TableOf(c)
	require.NoError(t, err)

	ctx, endOfDispatch := connect.WithDispatchEffectHandler(ctx, table, codec)
	t.Cleanup(func() { endOfDispatch() })
	return ctx, logs
}

func TestDispatchEffect_JSON(t *testing.T) {
	ctx, logs := withDispatch(t, action.JSON)

	out, err := connect.DispatchEffect(ctx, []byte(`{"type":"delay","payload":5}`)).Await(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"delay","payload":"hello 5!"}`, string(out))

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("dispatching effect").Len() == 1
	}, time.Second, 10*time.Millisecond)
	entry := logs.FilterMessage("dispatching effect").All()[0]
	assert.Equal(t, "delay", entry.ContextMap()["key"])
	assert.Equal(t, "async", entry.ContextMap()["kind"])
}

func TestDispatchEffect_YAML(t *testing.T) {
	ctx, _ := withDispatch(t, action.YAML)

	out, err := connect.DispatchEffect(ctx, []byte("type: delay\npayload: 7\n")).Await(ctx)
	require.NoError(t, err)

	got, err := action.Decode[string](action.YAML, out)
	require.NoError(t, err)
	assert.Equal(t, action.Of("delay", "hello 7!"), got)
}

func TestDispatch_Typed(t *testing.T) {
	ctx, _ := withDispatch(t, action.JSON)

	got, err := connect.Dispatch[time.Time, int](ctx, action.Of("setMessage", stamp))
	require.NoError(t, err)
	assert.Equal(t, action.Of("set-message", 678), got)
}

func TestDispatchEffect_Failures(t *testing.T) {
	ctx, logs := withDispatch(t, action.JSON)

	tests := []struct {
		name string
		data string
		want error
	}{
		{name: "unknown effect", data: `{"type":"reset","payload":1}`, want: connect.ErrUnknownEffect},
		{name: "missing payload", data: `{"type":"delay"}`, want: action.ErrMissingPayload},
		{name: "missing type", data: `{"payload":1}`, want: action.ErrMissingType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := connect.DispatchEffect(ctx, []byte(tt.data)).Await(ctx)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("unknown effect").Len() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestDispatchEffect_NoHandler(t *testing.T) {
	_, err := connect.DispatchEffect(context.Background(), []byte(`{"type":"delay","payload":5}`)).Await(context.Background())
	assert.ErrorIs(t, err, effectmodel.ErrNoEffectHandler)

	_, err = connect.Dispatch[int, string](context.Background(), action.Of("delay", 5))
	assert.ErrorIs(t, err, effectmodel.ErrNoEffectHandler)
}

type panickyModule struct{}

func (panickyModule) Explode(action.Action[int]) action.Action[int] {
	panic("kaboom")
}

func TestDispatchEffect_RecoversPanics(t *testing.T) {
	c, err := connect.Connect[struct {
		Explode connect.Adapted[int, int]
	}](panickyModule{})
	require.NoError(t, err)
	table, err := connect.TableOf(c)
	require.NoError(t, err)

	ctx, end := connect.WithDispatchEffectHandler(context.Background(), table, action.JSON)
	defer end()

	_, err = connect.DispatchEffect(ctx, []byte(`{"type":"explode","payload":1}`)).Await(ctx)
	assert.ErrorIs(t, err, connect.ErrEffectPanicked)

	// the worker survives
	_, err = connect.DispatchEffect(ctx, []byte(`{"type":"explode","payload":2}`)).Await(ctx)
	assert.ErrorIs(t, err, connect.ErrEffectPanicked)
}

func TestWithDispatchEffectHandler_ReadsBinding(t *testing.T) {
	ctx, endOfBinding := binding.WithEffectHandler(
		context.Background(),
		effectmodel.NewEffectScopeConfig(1, 1),
		map[string]any{
			configkeys.ConfigEffectDispatchHandlerBufferSize: 4,
			configkeys.ConfigEffectDispatchHandlerNumWorkers: 3,
		},
	)
	defer endOfBinding()

	c := connect.MustConnect[connectedModule](&effectModule{})
	table, err := connect.TableOf(c)
	require.NoError(t, err)
	ctx, end := connect.WithDispatchEffectHandler(ctx, table, action.JSON)
	defer end()

	replies := make([]<-chan struct{}, 0, 10)
	for i := range 10 {
		f := connect.DispatchEffect(ctx, fmt.Appendf(nil, `{"type":"delay","payload":%d}`, i))
		replies = append(replies, f.Done())
	}
	for _, done := range replies {
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("dispatch did not settle")
		}
	}
}

func TestTable(t *testing.T) {
	c := connect.MustConnect[connectedModule](&effectModule{})
	table, err := connect.TableOf(c)
	require.NoError(t, err)
	assert.Equal(t, []string{"delay", "setMessage"}, table.Keys())
	assert.Equal(t, 2, table.Len())

	_, err = connect.NewTable(c.Delay, c.Delay)
	assert.ErrorIs(t, err, connect.ErrDuplicateMember)

	_, err = connect.NewTable(connect.Adapted[int, int]{})
	assert.ErrorIs(t, err, connect.ErrUnbound)

	_, err = connect.TableOf("nope")
	assert.ErrorIs(t, err, connect.ErrNotAStruct)
}
