package configkeys

const (
	delimiter = "."

	ConfigPrefix = "config"

	ConfigEffectPrefix = ConfigPrefix + delimiter + "effect"

	ConfigEffectDispatchPrefix = ConfigEffectPrefix + delimiter + "dispatch"

	ConfigEffectDispatchHandlerPrefix     = ConfigEffectDispatchPrefix + delimiter + "handler"
	ConfigEffectDispatchHandlerBufferSize = ConfigEffectDispatchHandlerPrefix + delimiter + "buffer_size"
	ConfigEffectDispatchHandlerNumWorkers = ConfigEffectDispatchHandlerPrefix + delimiter + "num_workers"

	ConfigEffectLogPrefix = ConfigEffectPrefix + delimiter + "log"

	ConfigEffectLogHandlerPrefix     = ConfigEffectLogPrefix + delimiter + "handler"
	ConfigEffectLogHandlerBufferSize = ConfigEffectLogHandlerPrefix + delimiter + "buffer_size"
)
