// Package logging provides structured logging for daynight.
//
// This package wraps a zap logger with package-level helpers so every
// component logs the same way. Output goes to stdout and to a persistent log
// file, in zap's console encoding.
//
// # Log Levels
//
//   - Debug: request URLs, schedule internals
//   - Info: mode decisions, switch outcomes, schedule builds
//   - Warn: best-effort failures (infrared filter command)
//   - Error: failed switches, sun computation fallbacks
//
// # Domain Helpers
//
// The run loop records every decision, switch and recomputation through:
//
//	logging.LogModeDecision("night", now, sunrise, sunset)
//	logging.LogSwitch("day", true, nil)
//	logging.LogSunTimes(date, sunrise, sunset, false, nil)
//	logging.LogSchedule(date, []string{"day@06:42", "night@19:13", "recompute@00:01"})
//
// # Configuration
//
//	if err := logging.Initialize(logging.Options{Level: "info", File: "daynight.log"}); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// The DAYNIGHT_LOG_LEVEL environment variable overrides an empty level.
package logging
