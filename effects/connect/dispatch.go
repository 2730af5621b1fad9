package connect

import (
	"context"
	"fmt"

	"github.com/on-the-ground/effect_ive_connect/effects"
	"github.com/on-the-ground/effect_ive_connect/effects/action"
	"github.com/on-the-ground/effect_ive_connect/effects/binding"
	"github.com/on-the-ground/effect_ive_connect/effects/configkeys"
	"github.com/on-the-ground/effect_ive_connect/effects/future"
	effectmodel "github.com/on-the-ground/effect_ive_connect/effects/internal/model"
	"github.com/on-the-ground/effect_ive_connect/effects/log"
)

// Request is an encoded action routed to the connected member named by Key.
type Request struct {
	Key  string
	Data []byte
}

// PartitionKey keeps requests for one member in order.
func (r Request) PartitionKey() string {
	return r.Key
}

type codecKey struct{}

// WithDispatchEffectHandler registers a resumable, partitionable dispatch
// effect handler serving the members of table.
//
//   - Encoded actions are routed by their type to the member with that key.
//   - Buffer size and worker count are read through the binding effect
//     (configkeys.ConfigEffectDispatchHandler*), defaulting to 1.
//   - Requests for the same key are served in order.
//   - Each request is logged through the log effect when one is in scope.
func WithDispatchEffectHandler(
	ctx context.Context,
	table Table,
	codec action.Codec,
) (context.Context, func() context.Context) {
	config := effectmodel.NewEffectScopeConfig(
		binding.GetOrDefault(ctx, configkeys.ConfigEffectDispatchHandlerBufferSize, 1),
		binding.GetOrDefault(ctx, configkeys.ConfigEffectDispatchHandlerNumWorkers, 1),
	)
	d := &dispatcher{table: table, codec: codec}
	ctx = context.WithValue(ctx, codecKey{}, codec)
	return effects.WithResumablePartitionableEffectHandler(
		ctx,
		config,
		effectmodel.EffectDispatch,
		d.handle,
	)
}

// DispatchEffect routes one encoded action and answers with the encoded
// resulting action.
func DispatchEffect(ctx context.Context, data []byte) future.Future[[]byte] {
	codec, ok := ctx.Value(codecKey{}).(action.Codec)
	if !ok || !effects.HasEffectHandler(ctx, effectmodel.EffectDispatch) {
		return future.Reject[[]byte](fmt.Errorf("%w: %v", effectmodel.ErrNoEffectHandler, effectmodel.EffectDispatch))
	}
	key, err := action.Peek(codec, data)
	if err != nil {
		return future.Reject[[]byte](err)
	}
	return future.From(effects.PerformResumableEffect[Request, []byte](
		ctx,
		effectmodel.EffectDispatch,
		Request{Key: key, Data: data},
	))
}

// Dispatch encodes in, routes it through the dispatch effect and decodes the reply.
func Dispatch[T, U any](ctx context.Context, in action.Action[T]) (action.Action[U], error) {
	codec, ok := ctx.Value(codecKey{}).(action.Codec)
	if !ok {
		return action.Action[U]{}, fmt.Errorf("%w: %v", effectmodel.ErrNoEffectHandler, effectmodel.EffectDispatch)
	}
	data, err := action.Encode(codec, in)
	if err != nil {
		return action.Action[U]{}, err
	}
	out, err := DispatchEffect(ctx, data).Await(ctx)
	if err != nil {
		return action.Action[U]{}, err
	}
	return action.Decode[U](codec, out)
}

type dispatcher struct {
	table Table
	codec action.Codec
}

func (d *dispatcher) handle(ctx context.Context, req Request) (out []byte, err error) {
	entry, ok := d.table.Lookup(req.Key)
	if !ok {
		log.LogEff(ctx, log.LogWarn, "unknown effect", map[string]interface{}{
			"key": req.Key,
		})
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, req.Key)
	}

	// a panicking effect must not take the worker down with it
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: %q: %v", ErrEffectPanicked, req.Key, r)
			log.LogEff(ctx, log.LogError, "effect panicked", map[string]interface{}{
				"key":   req.Key,
				"panic": r,
			})
		}
	}()

	log.LogEff(ctx, log.LogDebug, "dispatching effect", map[string]interface{}{
		"key":   req.Key,
		"kind":  entry.Signature().Kind.String(),
		"codec": d.codec.Name(),
	})
	out, err = entry.serve(ctx, d.codec, req.Data)
	if err != nil {
		log.LogEff(ctx, log.LogError, "effect failed", map[string]interface{}{
			"key":   req.Key,
			"error": err.Error(),
		})
	}
	return out, err
}
