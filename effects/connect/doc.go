// Package connect derives the connected form of an effect module.
//
// A module is any value whose exported methods (or func fields) include
// effect methods in one of two calling conventions:
//
//	async: func(future.Future[T]) future.Future[action.Action[U]]
//	sync:  func(action.Action[T]) action.Action[U]
//
// Everything else on the module, data fields and other callables alike,
// is ignored. The connected form of both conventions is the same:
//
//	Adapted[T, U]   // Call(ctx, T) (action.Action[U], error)
//
// so callers never see whether the effect behind a member is sync or async.
//
// # Deriving
//
// Classify decides the convention of one member type, Describe filters a
// module down to its effect members. Both are pure functions of the type.
//
// # Connecting
//
// The connected interface is a struct of Adapted fields written by the
// caller. Generics check it at compile time when members are bound by hand:
//
//	connected := Connected{
//		Delay:      connect.Async("delay", m.Delay),
//		SetMessage: connect.Sync("setMessage", m.SetMessage),
//	}
//
// Connect binds such a struct from a module in one step, and Build/Verify
// check caller-supplied adapters. All three refuse a struct whose members
// disagree with the module before any effect runs.
//
// # Dispatching
//
// WithDispatchEffectHandler serves a Table of connected members as an
// effect: encoded actions are routed by their type to the member with the
// same key, and the resulting action is encoded back.
package connect
