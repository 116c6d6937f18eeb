package config

const (
	defaultBaseURL         = "http://127.0.0.1:8080/api"
	defaultStateDir        = "~/.local/share/relief"
	defaultDownloadDir     = "~/Downloads"
	defaultLogDir          = "~/.local/share/relief/logs"
	defaultJobFilename     = "extruded"
	defaultJobZ            = 6.35
	defaultIDLength        = 8
	defaultPollInterval    = 5
	defaultRequestTimeout  = 0
	defaultNtfyTimeout     = 10
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	serverURLEnv           = "RELIEF_SERVER_URL"
	minIDLength            = 4
	maxPollIntervalSeconds = 3600
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			BaseURL:        defaultBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Paths: Paths{
			StateDir:    defaultStateDir,
			DownloadDir: defaultDownloadDir,
			LogDir:      defaultLogDir,
		},
		Job: Job{
			DefaultFilename: defaultJobFilename,
			DefaultZ:        defaultJobZ,
			IDLength:        defaultIDLength,
		},
		Poll: Poll{
			IntervalSeconds: defaultPollInterval,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
