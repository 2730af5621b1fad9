package connect

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/on-the-ground/effect_ive_connect/effects/action"
	"github.com/on-the-ground/effect_ive_connect/effects/future"
)

// MethodKind is the calling convention of a module member.
type MethodKind int

const (
	NotAnEffect MethodKind = iota
	AsyncEffect
	SyncEffect
)

func (k MethodKind) String() string {
	switch k {
	case AsyncEffect:
		return "async"
	case SyncEffect:
		return "sync"
	default:
		return "not-an-effect"
	}
}

// Signature is the classification of one member type. In and Out are the
// payload types carried by the convention's wrappers; both are nil for
// NotAnEffect.
type Signature struct {
	Kind MethodKind
	In   reflect.Type
	Out  reflect.Type
}

func (s Signature) IsEffect() bool {
	return s.Kind != NotAnEffect
}

// SameShape reports whether s and o adapt to the same connected shape,
// whatever convention each came from.
func (s Signature) SameShape(o Signature) bool {
	return s.IsEffect() && o.IsEffect() && s.In == o.In && s.Out == o.Out
}

func (s Signature) String() string {
	if !s.IsEffect() {
		return s.Kind.String()
	}
	return fmt.Sprintf("%s(%s -> %s)", s.Kind, s.In, s.Out)
}

// deferredValue is implemented by every future.Future instantiation.
type deferredValue interface {
	ElemType() reflect.Type
}

// taggedValue is implemented by every action.Action instantiation.
type taggedValue interface {
	PayloadType() reflect.Type
}

var (
	futurePkg = reflect.TypeFor[future.Future[struct{}]]().PkgPath()
	actionPkg = reflect.TypeFor[action.Action[struct{}]]().PkgPath()
)

// Classify decides the calling convention of a member type.
//
// A member is an effect when it is a non-variadic func of one argument and
// one result, and
//   - async: the argument is a deferred T and the result a deferred action of U, or
//   - sync: the argument is an action of T and the result an action of U.
//
// Only instantiations of future.Future and action.Action count. Types that
// embed them, pointers to them and types defined from them are not effects.
// Async is tested first.
func Classify(t reflect.Type) Signature {
	if t == nil || t.Kind() != reflect.Func || t.IsVariadic() || t.NumIn() != 1 || t.NumOut() != 1 {
		return Signature{}
	}
	in, out := t.In(0), t.Out(0)

	if inElem, ok := elemOf(in); ok {
		if outElem, ok := elemOf(out); ok {
			if outPayload, ok := payloadOf(outElem); ok {
				return Signature{Kind: AsyncEffect, In: inElem, Out: outPayload}
			}
		}
	}

	if inPayload, ok := payloadOf(in); ok {
		if outPayload, ok := payloadOf(out); ok {
			return Signature{Kind: SyncEffect, In: inPayload, Out: outPayload}
		}
	}

	return Signature{}
}

func elemOf(t reflect.Type) (reflect.Type, bool) {
	if !instanceOf(t, futurePkg, "Future") {
		return nil, false
	}
	return reflect.Zero(t).Interface().(deferredValue).ElemType(), true
}

func payloadOf(t reflect.Type) (reflect.Type, bool) {
	if !instanceOf(t, actionPkg, "Action") {
		return nil, false
	}
	return reflect.Zero(t).Interface().(taggedValue).PayloadType(), true
}

// instanceOf reports whether t instantiates the generic type name of pkg.
func instanceOf(t reflect.Type, pkg, name string) bool {
	return t.PkgPath() == pkg && strings.HasPrefix(t.Name(), name+"[")
}
