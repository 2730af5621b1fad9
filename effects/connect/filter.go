package connect

import (
	"fmt"
	"reflect"
	"slices"
	"unicode"
	"unicode/utf8"

	"github.com/on-the-ground/effect_ive_connect/pure"
)

// Origin tells where a member lives on the module.
type Origin int

const (
	OriginMethod Origin = iota
	OriginField
)

func (o Origin) String() string {
	if o == OriginField {
		return "field"
	}
	return "method"
}

// Member is one exported method or field of a module.
type Member struct {
	// Key is the connected name: Name with its first rune lowered.
	Key       string
	Name      string
	Origin    Origin
	Index     int
	Type      reflect.Type
	Signature Signature
}

// valueOf returns the member's callable on module value v.
func (m Member) valueOf(v reflect.Value) reflect.Value {
	if m.Origin == OriginMethod {
		return v.Method(m.Index)
	}
	return reflect.Indirect(v).Field(m.Index)
}

// Descriptor is the effect surface of a module type.
type Descriptor struct {
	Module   reflect.Type
	Effects  []Member
	Excluded []Member
}

// Keys lists the effect keys in member order.
func (d Descriptor) Keys() []string {
	keys := make([]string, len(d.Effects))
	for i, m := range d.Effects {
		keys[i] = m.Key
	}
	return keys
}

func (d Descriptor) Lookup(key string) (Member, bool) {
	for _, m := range d.Effects {
		if m.Key == key {
			return m, true
		}
	}
	return Member{}, false
}

// Describe narrows the members of module down to its effect methods.
//
// Members are the exported methods in module's method set, followed by the
// exported fields when module is a struct or a pointer to one. A member is
// kept when Classify recognises its type; names play no part. Data fields
// and other callables are listed in Excluded.
//
// Pass a pointer when effect methods have pointer receivers.
func Describe(module any) (Descriptor, error) {
	if module == nil {
		return Descriptor{}, ErrNilModule
	}
	v := reflect.ValueOf(module)
	if v.Kind() == reflect.Pointer && v.IsNil() {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrNilModule, v.Type())
	}
	res := describeType(typeKey{v.Type()})
	if res.err != nil {
		return Descriptor{}, res.err
	}
	return Descriptor{
		Module:   res.d.Module,
		Effects:  slices.Clone(res.d.Effects),
		Excluded: slices.Clone(res.d.Excluded),
	}, nil
}

// typeKey keeps reflect.Type from being keyed by its String form.
type typeKey struct {
	t reflect.Type
}

type described struct {
	d   Descriptor
	err error
}

var describeType = pure.TableizeI1O1(func(k typeKey) described {
	d, err := deriveDescriptor(k.t)
	return described{d: d, err: err}
}, 256)

func deriveDescriptor(t reflect.Type) (Descriptor, error) {
	d := Descriptor{Module: t}
	seen := make(map[string]Origin)
	add := func(m Member) error {
		if prev, dup := seen[m.Key]; dup {
			return fmt.Errorf("%w: %q on %s (%s and %s)", ErrDuplicateMember, m.Key, t, prev, m.Origin)
		}
		seen[m.Key] = m.Origin
		if m.Signature.IsEffect() {
			d.Effects = append(d.Effects, m)
		} else {
			d.Excluded = append(d.Excluded, m)
		}
		return nil
	}

	for i := 0; i < t.NumMethod(); i++ {
		method := t.Method(i)
		ft := methodFuncType(t, method)
		if err := add(Member{
			Key:       MemberKey(method.Name),
			Name:      method.Name,
			Origin:    OriginMethod,
			Index:     i,
			Type:      ft,
			Signature: Classify(ft),
		}); err != nil {
			return Descriptor{}, err
		}
	}

	st := t
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() == reflect.Struct {
		for i := 0; i < st.NumField(); i++ {
			field := st.Field(i)
			if !field.IsExported() || field.Anonymous {
				continue
			}
			if err := add(Member{
				Key:       MemberKey(field.Name),
				Name:      field.Name,
				Origin:    OriginField,
				Index:     i,
				Type:      field.Type,
				Signature: Classify(field.Type),
			}); err != nil {
				return Descriptor{}, err
			}
		}
	}
	return d, nil
}

// methodFuncType strips the receiver from the method type of a concrete type.
func methodFuncType(t reflect.Type, m reflect.Method) reflect.Type {
	if t.Kind() == reflect.Interface {
		return m.Type
	}
	ins := make([]reflect.Type, 0, m.Type.NumIn()-1)
	for i := 1; i < m.Type.NumIn(); i++ {
		ins = append(ins, m.Type.In(i))
	}
	outs := make([]reflect.Type, 0, m.Type.NumOut())
	for i := 0; i < m.Type.NumOut(); i++ {
		outs = append(outs, m.Type.Out(i))
	}
	return reflect.FuncOf(ins, outs, m.Type.IsVariadic())
}

// MemberKey lowers the first rune of a Go identifier: SetMessage -> setMessage.
func MemberKey(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToLower(r)) + name[size:]
}
