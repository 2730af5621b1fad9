// Package effects provides the scoped effect handlers the connect packages run on.
//
// Handlers are registered via `WithXxxEffectHandler(ctx)` and performed
// through `PerformResumableEffect` or `FireAndForgetEffect`. A handler lives
// in the context it was registered in, owns its worker goroutines and is
// closed by the end function returned on registration.
//
// Resumable handlers answer every payload on its own result channel;
// partitionable ones keep payloads with the same PartitionKey in order.
// Fire-and-forget handlers report nothing back and suit logging.
//
// Subpackages:
//   - action: the tagged result every effect produces
//   - future: the deferred value of async effects
//   - connect: deriving and dispatching the connected form of a module
//   - log, binding: logging and configuration lookups as effects
//
// Example:
//
//	ctx, end := log.WithZapLogEffectHandler(ctx, 1, logger)
//	defer end()
//
//	log.LogEff(ctx, log.LogInfo, "connected", nil)
package effects
