package config

// Defaults returns a Config with sensible default values.
func Defaults() *Config {
	return &Config{
		LogLevel: "info",
		Watchdog: WatchdogConfig{
			MaxStepDurationSecs:        120,
			ActionHistorySize:          5,
			SimilarityThreshold:        0.7,
			StuckActionThreshold:       3,
			MaxTimeWithoutProgressSecs: 300,
			MinHelpRequestIntervalSecs: 60,
		},
		Bus: BusConfig{
			HandlerTimeoutSecs: 30,
			DebounceWindowMS:   0,
		},
		Archive: ArchiveConfig{
			Enabled: true,
		},
	}
}
