// Package ui renders the terminal output of the daynight commands.
//
// Components follow a "render once and exit" pattern: they produce styled
// strings with Lipgloss and are printed through a Printer (or RenderOnce for
// the status screen). Nothing here is interactive except Prompter, which the
// setup wizard uses to read answers.
//
// # Components
//
//   - Header: command banner with title and ordered parameters
//   - Steps: numbered step list with a progress bar (setup, status)
//   - Result: success, failure and warning boxes with details and hints
//   - Prompter: line, password and yes/no questions
//
// # Logging
//
// The run command logs to stdout; the interactive commands keep zap at warn
// unless DAYNIGHT_LOG_LEVEL asks for more, so the boxes are not interleaved
// with log lines.
package ui
