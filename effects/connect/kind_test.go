package connect_test

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/on-the-ground/effect_ive_connect/effects/action"
	"github.com/on-the-ground/effect_ive_connect/effects/connect"
	"github.com/on-the-ground/effect_ive_connect/effects/future"
	"github.com/stretchr/testify/assert"
)

var typeComparer = cmp.Comparer(func(a, b reflect.Type) bool { return a == b })

// both embeds a future and an action without being either.
type both struct {
	future.Future[int]
	action.Action[int]
}

type bothOut struct {
	future.Future[action.Action[string]]
	action.Action[string]
}

type namedSync func(action.Action[int]) action.Action[bool]

// event carries an action but is a type of its own.
type event struct {
	action.Action[int]
}

type definedAction action.Action[int]

func TestClassify(t *testing.T) {
	intT := reflect.TypeFor[int]()
	strT := reflect.TypeFor[string]()

	tests := []struct {
		name string
		typ  reflect.Type
		want connect.Signature
	}{
		{
			name: "async",
			typ:  reflect.TypeFor[func(future.Future[int]) future.Future[action.Action[string]]](),
			want: connect.Signature{Kind: connect.AsyncEffect, In: intT, Out: strT},
		},
		{
			name: "sync",
			typ:  reflect.TypeFor[func(action.Action[string]) action.Action[int]](),
			want: connect.Signature{Kind: connect.SyncEffect, In: strT, Out: intT},
		},
		{
			name: "named sync func type",
			typ:  reflect.TypeFor[namedSync](),
			want: connect.Signature{Kind: connect.SyncEffect, In: intT, Out: reflect.TypeFor[bool]()},
		},
		{
			name: "pointer actions",
			typ:  reflect.TypeFor[func(*action.Action[int]) *action.Action[int]](),
		},
		{
			name: "embedded future and action",
			typ:  reflect.TypeFor[func(both) bothOut](),
		},
		{
			name: "struct embedding an action",
			typ:  reflect.TypeFor[func(event) event](),
		},
		{
			name: "type defined from an action",
			typ:  reflect.TypeFor[func(definedAction) definedAction](),
		},
		{
			name: "async with an embedded action result",
			typ:  reflect.TypeFor[func(future.Future[int]) future.Future[event]](),
		},
		{
			name: "two arguments",
			typ:  reflect.TypeFor[func(action.Action[int], action.Action[int]) action.Action[int]](),
		},
		{
			name: "bare return",
			typ:  reflect.TypeFor[func(action.Action[int]) int](),
		},
		{
			name: "async input with sync output",
			typ:  reflect.TypeFor[func(future.Future[int]) action.Action[string]](),
		},
		{
			name: "deferred output without action",
			typ:  reflect.TypeFor[func(future.Future[int]) future.Future[string]](),
		},
		{
			name: "variadic",
			typ:  reflect.TypeFor[func(...action.Action[int]) action.Action[int]](),
		},
		{
			name: "two results",
			typ:  reflect.TypeFor[func(action.Action[int]) (action.Action[int], error)](),
		},
		{
			name: "interface input",
			typ:  reflect.TypeFor[func(interface{ PayloadType() reflect.Type }) action.Action[int]](),
		},
		{
			name: "data",
			typ:  reflect.TypeFor[int](),
		},
		{
			name: "nil",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := connect.Classify(tt.typ)
			if diff := cmp.Diff(tt.want, got, typeComparer); diff != "" {
				t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSignature_SameShapeIgnoresConvention(t *testing.T) {
	async := connect.Classify(reflect.TypeFor[func(future.Future[int]) future.Future[action.Action[string]]]())
	sync := connect.Classify(reflect.TypeFor[func(action.Action[int]) action.Action[string]]())

	assert.NotEqual(t, async.Kind, sync.Kind)
	assert.True(t, async.SameShape(sync))
	assert.False(t, async.SameShape(connect.Signature{}))
	assert.Equal(t, "async(int -> string)", async.String())
	assert.Equal(t, "not-an-effect", connect.Signature{}.String())
}
