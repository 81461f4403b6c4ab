// Daynight switches a network camera between its day and night profiles at
// local sunrise and sunset.
//
// The schedule is recomputed every day just after midnight, with optional
// offsets. Configuration is created by an interactive setup wizard.
//
// Usage:
//
//	daynight [command] [flags]
//
// Running without arguments starts the automation loop.
// See 'daynight --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/camdaynight/daynight/internal/config"
	"github.com/camdaynight/daynight/internal/logging"
	"github.com/camdaynight/daynight/internal/version"
)

// envFile is loaded from the working directory before the configuration
const envFile = ".env"

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if config.IsConfigError(err) {
			fmt.Fprintln(os.Stderr, config.SetupHint)
		}
		os.Exit(1)
	}
}

// Global flags
var (
	configFlag   string
	logLevelFlag string
	logFileFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "daynight",
	Short: "Camera day/night profile automation",
	Long: `Switches a network camera between its day and night profiles at local
sunrise and sunset, recalculated every day, with configurable offsets.

Run 'daynight setup' first to create the configuration file.
If no command is specified, the automation loop starts.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnvFile(envFile)
	},
	RunE: runAutomation,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file (default: $DAYNIGHT_CONFIG or ./camera_config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Log file (default: log.file from the configuration)")

	rootCmd.AddCommand(versionCmd)
}

// loadEnvFile loads KEY=value pairs from path into the environment. A
// missing file is not an error; variables already set win.
func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("daynight %s (%s)\n", version.Full(), version.Platform())
	},
}
