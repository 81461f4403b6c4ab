package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/camdaynight/daynight/internal/camera"
	"github.com/camdaynight/daynight/internal/schedule"
	"github.com/camdaynight/daynight/internal/ui"
)

var switchCmd = &cobra.Command{
	Use:   "switch <day|night>",
	Short: "Switch the camera to day or night mode now",
	Long: `Switch the camera immediately, ignoring the schedule. The automation loop,
if running, switches it back at the next sunrise or sunset.`,
	Example: `  daynight switch night
  daynight switch day --config /etc/daynight/camera_config.json`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"day", "night"},
	RunE:      runSwitch,
}

func init() {
	rootCmd.AddCommand(switchCmd)
}

func runSwitch(cmd *cobra.Command, args []string) error {
	mode, ok := schedule.ParseMode(args[0])
	if !ok {
		return fmt.Errorf("unknown mode %q (want day or night)", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := initLogging(cfg, true); err != nil {
		return err
	}

	client, err := camera.NewClient(cfg.Camera, cfg.Profiles)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var switched bool
	if mode == schedule.Day {
		switched = client.SwitchToDay(ctx)
	} else {
		switched = client.SwitchToNight(ctx)
	}

	if !switched {
		// Ping again to get a classified error for the troubleshooting box
		pingErr := client.Ping(ctx)
		if pingErr == nil {
			pingErr = fmt.Errorf("camera rejected the %s profile command", mode)
		}
		_ = ui.RenderOnce(ui.NewFailureResult("Switch failed", pingErr, camera.TroubleshootingHints(pingErr)).Render())
		return fmt.Errorf("failed to switch camera to %s mode", mode)
	}

	profile := cfg.Profiles.Night
	if mode == schedule.Day {
		profile = cfg.Profiles.Day
	}
	return ui.RenderOnce(ui.NewSuccessResult("Camera switched",
		ui.Field{Key: "Camera", Value: cfg.Camera.Address()},
		ui.Field{Key: "Mode", Value: ui.ModeBadge(mode.String())},
		ui.Field{Key: "Profile", Value: fmt.Sprint(profile)},
	).Render())
}
