package connect

import (
	"context"
	"fmt"
	"reflect"

	"github.com/on-the-ground/effect_ive_connect/effects/action"
)

// Entry is a bound connected member. It is implemented by Adapted only.
type Entry interface {
	Key() string
	Bound() bool
	Signature() Signature
	serve(ctx context.Context, codec action.Codec, data []byte) ([]byte, error)
}

var entryType = reflect.TypeFor[Entry]()

// serve decodes an encoded action of T, calls the effect with its payload
// and encodes the resulting action.
func (a Adapted[T, U]) serve(ctx context.Context, codec action.Codec, data []byte) ([]byte, error) {
	in, err := action.Decode[T](codec, data)
	if err != nil {
		return nil, err
	}
	payload, ok := in.Get()
	if !ok {
		return nil, fmt.Errorf("%w: %q", action.ErrMissingPayload, a.key)
	}
	out, err := a.Call(ctx, payload)
	if err != nil {
		return nil, err
	}
	return action.Encode(codec, out)
}

// Table maps effect keys to bound connected members.
type Table struct {
	entries map[string]Entry
	keys    []string
}

// NewTable registers entries under their keys. Every entry must be bound
// and keys must be unique.
func NewTable(entries ...Entry) (Table, error) {
	t := Table{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if !e.Bound() {
			return Table{}, fmt.Errorf("%w: %q", ErrUnbound, e.Key())
		}
		if _, dup := t.entries[e.Key()]; dup {
			return Table{}, fmt.Errorf("%w: %q", ErrDuplicateMember, e.Key())
		}
		t.entries[e.Key()] = e
		t.keys = append(t.keys, e.Key())
	}
	return t, nil
}

// TableOf registers the connected members of a struct built by Connect or Build.
func TableOf(connected any) (Table, error) {
	v := reflect.Indirect(reflect.ValueOf(connected))
	if v.Kind() != reflect.Struct {
		return Table{}, fmt.Errorf("%w: %T", ErrNotAStruct, connected)
	}
	fields, err := connectedFields(v.Type())
	if err != nil {
		return Table{}, err
	}
	entries := make([]Entry, 0, len(fields))
	for _, f := range fields {
		entries = append(entries, v.Field(f.index).Interface().(Entry))
	}
	return NewTable(entries...)
}

func (t Table) Lookup(key string) (Entry, bool) {
	e, ok := t.entries[key]
	return e, ok
}

// Keys lists the registered keys in registration order.
func (t Table) Keys() []string {
	return append([]string(nil), t.keys...)
}

func (t Table) Len() int {
	return len(t.keys)
}

type connectedField struct {
	key   string
	index int
}

// connectedFields lists the exported Adapted fields of a connected struct.
// The key comes from the `connect` tag, else from the field name; `connect:"-"` skips a field.
func connectedFields(t reflect.Type) ([]connectedField, error) {
	var fields []connectedField
	seen := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || !f.Type.Implements(entryType) || !reflect.PointerTo(f.Type).Implements(binderType) {
			continue
		}
		key := f.Tag.Get("connect")
		if key == "-" {
			continue
		}
		if key == "" {
			key = MemberKey(f.Name)
		}
		if seen[key] {
			return nil, fmt.Errorf("%w: %q on %s", ErrDuplicateMember, key, t)
		}
		seen[key] = true
		fields = append(fields, connectedField{key: key, index: i})
	}
	return fields, nil
}
