package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/camdaynight/daynight/internal/camera"
	"github.com/camdaynight/daynight/internal/config"
	"github.com/camdaynight/daynight/internal/setup"
	"github.com/camdaynight/daynight/internal/ui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the configuration interactively",
	Long: `Walk through the camera address, credentials and location, test the
connection and write the configuration file.

The location is looked up by name (OpenStreetMap Nominatim, needs internet)
and the timezone is derived from its coordinates.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	if err := initLogging(nil, true); err != nil {
		return err
	}

	printer := ui.NewPrinter(nil)
	path := config.ResolvePath(configFlag)
	printer.PrintHeader("Camera Day/Night Setup", "setup", ui.Field{Key: "Config", Value: path})

	prompt := ui.NewPrompter(os.Stdin, os.Stdout)
	wizard := &setup.Wizard{
		Prompt: prompt,
		Places: setup.NewGeocoder(""),
		Timezone: setup.FallbackResolver{
			setup.NewFinderResolver(),
			setup.NewManualResolver(prompt),
		},
		Test: testCamera,
		Path: path,
	}

	cfg, err := wizard.Run(cmd.Context())
	if errors.Is(err, setup.ErrCancelled) || errors.Is(err, ui.ErrNoInput) {
		printer.Newline()
		printer.Println("Setup cancelled.")
		return nil
	}
	if err != nil {
		return err
	}

	printer.PrintSuccess("Configuration saved",
		ui.Field{Key: "File", Value: cfg.Path()},
		ui.Field{Key: "Camera", Value: cfg.Camera.Address()},
		ui.Field{Key: "Location", Value: cfg.Location.Name},
		ui.Field{Key: "Timezone", Value: cfg.Location.Timezone},
		ui.Field{Key: "Offsets", Value: fmt.Sprintf("sunrise %+d min, sunset %+d min", cfg.Offsets.Sunrise, cfg.Offsets.Sunset)},
	)
	printer.Println("Run 'daynight status' to check, then 'daynight run' or 'daynight service install'.")
	return nil
}

// testCamera is the wizard's connection test.
func testCamera(ctx context.Context, cam config.Camera) bool {
	client, err := camera.NewClient(cam, config.DefaultProfiles())
	if err != nil {
		return false
	}
	return client.TestConnection(ctx)
}
