package config

const (
	defaultDataDir              = "~/.local/share/atelier"
	defaultLogDir               = "~/.local/share/atelier/logs"
	defaultSocketPath           = "~/.local/share/atelier/atelierd.sock"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultNtfyRequestTimeout   = 10
	defaultNotifyAssignments    = true
	defaultNotifyQueueing       = true
	defaultNotifyCompletion     = true
	defaultNotifyErrors         = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			SocketPath: defaultSocketPath,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
			Assignments:    defaultNotifyAssignments,
			Queueing:       defaultNotifyQueueing,
			Completion:     defaultNotifyCompletion,
			Errors:         defaultNotifyErrors,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
