package connect

import (
	"context"
	"fmt"
	"reflect"

	"github.com/on-the-ground/effect_ive_connect/effects/action"
	"github.com/on-the-ground/effect_ive_connect/effects/future"
)

// AsyncMethod takes a deferred T and produces a deferred action of U.
type AsyncMethod[T, U any] func(future.Future[T]) future.Future[action.Action[U]]

// SyncMethod takes an action of T and returns an action of U.
type SyncMethod[T, U any] func(action.Action[T]) action.Action[U]

// Adapted is the connected shape of an effect method: a bare T in, an
// action of U out. Which convention backs it is not visible to callers.
//
// Call answers with a plain value for either convention. Defer keeps the
// deferred return of async methods; for sync methods it is already settled.
//
// The zero Adapted is unbound; calling it fails with ErrUnbound.
type Adapted[T, U any] struct {
	key  string
	kind MethodKind
	call func(context.Context, T) future.Future[action.Action[U]]
}

// Async adapts an async effect method. The input is handed over as an
// already resolved future.
func Async[T, U any](key string, m func(future.Future[T]) future.Future[action.Action[U]]) Adapted[T, U] {
	return Adapted[T, U]{
		key:  key,
		kind: AsyncEffect,
		call: func(_ context.Context, in T) future.Future[action.Action[U]] {
			return m(future.Resolve(in))
		},
	}
}

// Sync adapts a sync effect method. The input is tagged with key.
// The method runs on the caller's goroutine.
func Sync[T, U any](key string, m func(action.Action[T]) action.Action[U]) Adapted[T, U] {
	return Adapted[T, U]{
		key:  key,
		kind: SyncEffect,
		call: func(_ context.Context, in T) future.Future[action.Action[U]] {
			return future.Resolve(m(action.Of(key, in)))
		},
	}
}

// Func binds caller-supplied logic that already has the connected shape.
func Func[T, U any](key string, fn func(T) action.Action[U]) Adapted[T, U] {
	return Adapted[T, U]{
		key:  key,
		kind: SyncEffect,
		call: func(_ context.Context, in T) future.Future[action.Action[U]] {
			return future.Resolve(fn(in))
		},
	}
}

// Deferred binds caller-supplied logic that answers later.
func Deferred[T, U any](key string, fn func(T) future.Future[action.Action[U]]) Adapted[T, U] {
	return Adapted[T, U]{
		key:  key,
		kind: AsyncEffect,
		call: func(_ context.Context, in T) future.Future[action.Action[U]] {
			return fn(in)
		},
	}
}

// Call invokes the effect and waits for its action.
// Errors of a rejected result are returned as they are; panics are not recovered.
func (a Adapted[T, U]) Call(ctx context.Context, in T) (action.Action[U], error) {
	return a.Defer(ctx, in).Await(ctx)
}

// Defer invokes the effect without waiting. Results of sync effects are
// already settled.
func (a Adapted[T, U]) Defer(ctx context.Context, in T) future.Future[action.Action[U]] {
	if a.call == nil {
		return future.Reject[action.Action[U]](fmt.Errorf("%w: %q", ErrUnbound, a.key))
	}
	return a.call(ctx, in)
}

func (a Adapted[T, U]) Key() string {
	return a.key
}

func (a Adapted[T, U]) Bound() bool {
	return a.call != nil
}

// Signature reports the payload types, and the convention the adapter was built from.
func (a Adapted[T, U]) Signature() Signature {
	return Signature{
		Kind: a.kind,
		In:   reflect.TypeFor[T](),
		Out:  reflect.TypeFor[U](),
	}
}

func (a Adapted[T, U]) String() string {
	return fmt.Sprintf("%s: %s -> action[%s]", a.key, reflect.TypeFor[T](), reflect.TypeFor[U]())
}

// binder is implemented by *Adapted; Connect uses it to fill connected structs.
type binder interface {
	bind(m Member, fn reflect.Value) error
}

var binderType = reflect.TypeFor[binder]()

func (a *Adapted[T, U]) bind(m Member, fn reflect.Value) error {
	want := Signature{Kind: m.Signature.Kind, In: reflect.TypeFor[T](), Out: reflect.TypeFor[U]()}
	if !m.Signature.SameShape(want) {
		return fmt.Errorf("%w: %q is %s, connected member is %s -> action[%s]",
			ErrSignatureMismatch, m.Key, m.Signature, want.In, want.Out)
	}
	if fn.Kind() == reflect.Func && fn.IsNil() {
		return fmt.Errorf("%w: %q", ErrNilEffect, m.Key)
	}

	// Classify only matches exact Future and Action instantiations, so the
	// member's func type always converts to the method type.
	switch m.Signature.Kind {
	case AsyncEffect:
		*a = Async[T, U](m.Key, convertFunc[AsyncMethod[T, U]](fn))
	case SyncEffect:
		*a = Sync[T, U](m.Key, convertFunc[SyncMethod[T, U]](fn))
	}
	return nil
}

// convertFunc converts fn to F, whose func type is identical up to naming.
func convertFunc[F any](fn reflect.Value) F {
	return fn.Convert(reflect.TypeFor[F]()).Interface().(F)
}
