// Package action defines the tagged result every effect method produces.
//
// An Action carries a mandatory discriminant and an optional payload:
//
//	{ "type": "delay", "payload": "hello 5!" }
//
// Actions are plain values. Each effect call builds its own and nobody
// mutates it afterwards.
package action

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrMissingPayload = errors.New("action has no payload")
	ErrMissingType    = errors.New("action has no type")
)

// Action is the tagged result envelope. Payload is nil when absent.
type Action[P any] struct {
	Type    string `json:"type" yaml:"type"`
	Payload *P     `json:"payload,omitempty" yaml:"payload,omitempty"`
}

// New returns an action without payload.
func New[P any](typ string) Action[P] {
	return Action[P]{Type: typ}
}

// Of returns an action carrying payload.
func Of[P any](typ string, payload P) Action[P] {
	return Action[P]{Type: typ, Payload: &payload}
}

func (a Action[P]) HasPayload() bool {
	return a.Payload != nil
}

// Get returns the payload and whether it is present.
func (a Action[P]) Get() (P, bool) {
	if a.Payload == nil {
		var zero P
		return zero, false
	}
	return *a.Payload, true
}

// Must returns the payload, panicking when it is absent.
func (a Action[P]) Must() P {
	p, ok := a.Get()
	if !ok {
		panic(fmt.Errorf("%w: %q", ErrMissingPayload, a.Type))
	}
	return p
}

// PayloadType describes P. It lets shape classification recognise any
// Action instantiation without knowing P statically.
func (Action[P]) PayloadType() reflect.Type {
	return reflect.TypeFor[P]()
}

func (a Action[P]) String() string {
	if p, ok := a.Get(); ok {
		return fmt.Sprintf("%s(%v)", a.Type, p)
	}
	return a.Type
}
