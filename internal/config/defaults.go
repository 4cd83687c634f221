package config

const (
	defaultConfigPath       = "~/.config/dirprint/config.toml"
	defaultAlgorithm        = "md5"
	defaultReportDir        = "."
	defaultHistoryFallback  = "~/.local/share/dirprint/history.db"
	defaultHistoryKeep      = 50
	defaultLogFormat        = "console"
	defaultLogLevel         = "warn"
	defaultIncludeFilenames = true
	defaultSortFiles        = true
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Fingerprint: Fingerprint{
			Algorithm:        defaultAlgorithm,
			IncludeFilenames: defaultIncludeFilenames,
			SortFiles:        defaultSortFiles,
		},
		Report: Report{
			Dir: defaultReportDir,
		},
		History: History{
			Enabled: true,
			Path:    defaultHistoryPath(),
			Keep:    defaultHistoryKeep,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
