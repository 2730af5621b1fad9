package connect

import (
	"fmt"
	"reflect"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type options struct {
	logger *zap.Logger
}

type Option func(*options)

// WithLogger logs derivations at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Connect derives the connected form of module into a new C.
//
// C must be a struct whose exported Adapted fields name the effect methods
// of module, one field per method. Each field is bound to the method with
// the same key; the methods are not invoked. Connect fails, listing every
// problem, when a method has no field, a field has no method, or payload
// types disagree.
//
//	type Connected struct {
//		Delay      connect.Adapted[int, string]
//		SetMessage connect.Adapted[time.Time, int]
//	}
//
//	connected, err := connect.Connect[Connected](&EffectModule{})
func Connect[C any](module any, opts ...Option) (C, error) {
	var zero C
	o := newOptions(opts)

	d, err := Describe(module)
	if err != nil {
		return zero, err
	}
	target := reflect.New(reflect.TypeFor[C]()).Elem()
	if target.Kind() != reflect.Struct {
		return zero, fmt.Errorf("%w: %s", ErrNotAStruct, target.Type())
	}
	fields, err := connectedFields(target.Type())
	if err != nil {
		return zero, err
	}

	mv := reflect.ValueOf(module)
	var errs error
	bound := make(map[string]bool, len(fields))
	for _, f := range fields {
		m, ok := d.Lookup(f.key)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q on %s", ErrUnexpectedMember, f.key, target.Type()))
			continue
		}
		bound[f.key] = true
		b := target.Field(f.index).Addr().Interface().(binder)
		errs = multierr.Append(errs, b.bind(m, m.valueOf(mv)))
	}
	errs = multierr.Append(errs, missingMembers(d, bound))
	if errs != nil {
		o.logger.Debug("connect failed", zap.Stringer("module", d.Module), zap.Error(errs))
		return zero, errs
	}

	o.logger.Debug("connected module",
		zap.Stringer("module", d.Module),
		zap.Strings("effects", d.Keys()),
	)
	return target.Interface().(C), nil
}

// MustConnect is the panic-on-failure variant of Connect.
func MustConnect[C any](module any, opts ...Option) C {
	c, err := Connect[C](module, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Build runs caller-supplied adapter logic and verifies the result against
// the shape derived from module.
func Build[M, C any](module M, adapt func(M) C, opts ...Option) (C, error) {
	var zero C
	o := newOptions(opts)

	connected := adapt(module)
	if err := Verify(module, connected); err != nil {
		o.logger.Debug("build failed", zap.Error(err))
		return zero, err
	}
	o.logger.Debug("built connected module", zap.Stringer("connected", reflect.TypeFor[C]()))
	return connected, nil
}

// Verify checks that connected exposes exactly the effect methods of
// module, each bound under its key with the derived payload types.
// connected is a struct or a pointer to one.
func Verify(module any, connected any) error {
	d, err := Describe(module)
	if err != nil {
		return err
	}
	cv := reflect.Indirect(reflect.ValueOf(connected))
	if cv.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T", ErrNotAStruct, connected)
	}
	fields, err := connectedFields(cv.Type())
	if err != nil {
		return err
	}

	var errs error
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		m, ok := d.Lookup(f.key)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q on %s", ErrUnexpectedMember, f.key, cv.Type()))
			continue
		}
		seen[f.key] = true
		e := cv.Field(f.index).Interface().(Entry)
		switch sig := e.Signature(); {
		case !e.Bound():
			errs = multierr.Append(errs, fmt.Errorf("%w: %q", ErrUnbound, f.key))
		case e.Key() != f.key:
			errs = multierr.Append(errs, fmt.Errorf("%w: %q bound as %q", ErrKeyMismatch, f.key, e.Key()))
		case !m.Signature.SameShape(sig):
			errs = multierr.Append(errs, fmt.Errorf("%w: %q is %s, connected member is %s -> action[%s]",
				ErrSignatureMismatch, f.key, m.Signature, sig.In, sig.Out))
		}
	}
	return multierr.Append(errs, missingMembers(d, seen))
}

func missingMembers(d Descriptor, seen map[string]bool) error {
	var errs error
	for _, m := range d.Effects {
		if !seen[m.Key] {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q (%s)", ErrMissingMember, m.Key, m.Signature))
		}
	}
	return errs
}
