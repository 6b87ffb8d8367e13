package config

const (
	defaultInvokeAIRoot       = "~/invokeai"
	defaultReviewDir          = "~/invokeai/review"
	defaultImportDir          = "~/invokeai/import"
	defaultLogDir             = "~/.local/share/modeltidy/logs"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultScanWorkers        = 4
	defaultSweepWorkers       = 2
	defaultLockTimeoutSeconds = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InvokeAIRoot: defaultInvokeAIRoot,
			ReviewDir:    defaultReviewDir,
			ImportDir:    defaultImportDir,
			LogDir:       defaultLogDir,
		},
		Scan: Scan{
			Workers: defaultScanWorkers,
		},
		Sweep: Sweep{
			Workers:            defaultSweepWorkers,
			LockTimeoutSeconds: defaultLockTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
