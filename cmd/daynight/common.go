package main

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/camdaynight/daynight/internal/config"
	"github.com/camdaynight/daynight/internal/logging"
)

// loadConfig reads the configuration selected by --config.
func loadConfig() (*config.Config, error) {
	return config.Load(config.ResolvePath(configFlag))
}

// initLogging starts the logger for a command. The automation loop logs at
// the configured level; interactive commands stay at warn unless asked, so
// log lines do not break up their output.
func initLogging(cfg *config.Config, interactive bool) error {
	level := logLevelFlag
	if level == "" {
		if interactive {
			level = os.Getenv(logging.LogLevelEnvVar)
			if level == "" {
				level = "warn"
			}
		} else if cfg != nil {
			// log.level already includes DAYNIGHT_LOG_LEVEL through the env binding
			level = cfg.Log.Level
		}
	}

	return logging.Initialize(logging.Options{
		Level: level,
		File:  logFilePath(cfg),
		Quiet: dropStdout(interactive, isInteractiveSession(), runtime.GOOS),
	})
}

// dropStdout reports whether stdout logging is pointless: only under the
// Windows service manager is stdout discarded. systemd and launchd capture it.
func dropStdout(interactive, session bool, goos string) bool {
	return !interactive && !session && goos == "windows"
}

// logFilePath resolves the log file. A relative path is taken relative to
// the configuration file so the service writes where the user expects.
func logFilePath(cfg *config.Config) string {
	file := logFileFlag
	if file == "" && cfg != nil {
		file = cfg.Log.File
	}
	if file == "" || filepath.IsAbs(file) || cfg == nil || cfg.Path() == "" {
		return file
	}
	return filepath.Join(filepath.Dir(cfg.Path()), file)
}
