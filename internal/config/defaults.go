package config

import "skellylogs/internal/severity"

const (
	defaultLogLevel      = "INFO"
	defaultConsoleColor  = "auto"
	defaultLogDir        = "~/skellylogs_data/logs"
	defaultQueueCapacity = 1000
	defaultConfigPath    = "~/.config/skellylogs/config.toml"
	projectConfigName    = "skellylogs.toml"

	// EnvLevel overrides logging.level.
	EnvLevel = "SKELLYLOGS_LEVEL"
	// EnvLogFile overrides file.path.
	EnvLogFile = "SKELLYLOGS_LOG_FILE"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Logging: Logging{
			Level:             defaultLogLevel,
			ConsoleColor:      defaultConsoleColor,
			QuietNoisySources: true,
		},
		File: File{
			Dir: defaultLogDir,
		},
		Queue: Queue{
			Enabled:  true,
			Capacity: defaultQueueCapacity,
		},
	}
}

// DefaultSourceFloors returns the floors applied to chatty subsystems unless
// logging.quiet_noisy_sources is disabled.
func DefaultSourceFloors() map[string]severity.Level {
	return map[string]severity.Level{
		"http":       severity.Warning,
		"grpc":       severity.Warning,
		"sql":        severity.Warning,
		"fsnotify":   severity.Warning,
		"tzdata":     severity.Warning,
		"websocket":  severity.Info,
		"websockets": severity.Info,
	}
}
