package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/camdaynight/daynight/internal/camera"
	"github.com/camdaynight/daynight/internal/config"
	"github.com/camdaynight/daynight/internal/schedule"
	"github.com/camdaynight/daynight/internal/suntimes"
	"github.com/camdaynight/daynight/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show camera state and today's schedule",
	Long: `Check the camera connection, show today's sunrise and sunset for the
configured location, the mode the camera should be in right now and the
switches still due today. Nothing on the camera is changed.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

const (
	stepConnect = iota
	stepSystemInfo
	stepSunTimes
	stepSchedule
)

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := initLogging(cfg, true); err != nil {
		return err
	}

	printer := ui.NewPrinter(nil)
	printer.PrintHeader("Camera Status", "status",
		ui.Field{Key: "Camera", Value: cfg.Camera.Address()},
		ui.Field{Key: "Location", Value: cfg.Location.Name},
		ui.Field{Key: "Timezone", Value: cfg.Location.Timezone},
	)

	steps := ui.NewSteps("Status", "Connect to camera", "Read system info", "Compute sun times", "Build schedule")
	result, err := collectStatus(cmd.Context(), cfg, steps)

	var out strings.Builder
	out.WriteString(steps.Render())
	out.WriteString("\n\n")
	out.WriteString(result.Render())
	if renderErr := ui.RenderOnce(out.String()); renderErr != nil {
		return renderErr
	}
	return err
}

// collectStatus fills steps as it goes and returns the summary box. The
// error is non-nil only when the camera could not be reached.
func collectStatus(ctx context.Context, cfg *config.Config, steps *ui.Steps) (*ui.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := camera.NewClient(cfg.Camera, cfg.Profiles)
	if err != nil {
		steps.Fail(stepConnect, err.Error())
		return ui.NewFailureResult("Invalid camera configuration", err, []string{config.SetupHint}), err
	}

	steps.Start(stepConnect)
	connectErr := client.Ping(ctx)
	if connectErr != nil {
		steps.Fail(stepConnect, errorSummary(connectErr))
		steps.Skip(stepSystemInfo, "camera unreachable")
	} else {
		steps.Complete(stepConnect, client.Dialect().Name)
	}

	var info map[string]string
	if connectErr == nil {
		steps.Start(stepSystemInfo)
		info, err = client.SystemInfo(ctx)
		if err != nil {
			steps.Fail(stepSystemInfo, errorSummary(err))
		} else {
			steps.Complete(stepSystemInfo, info["deviceType"])
		}
	}

	steps.Start(stepSunTimes)
	sched, err := schedule.New(suntimes.NewProvider(nil), cfg.Location, cfg.Offsets)
	if err != nil {
		steps.Fail(stepSunTimes, err.Error())
		return ui.NewFailureResult("Invalid location", err, []string{config.SetupHint}), err
	}
	now := time.Now().In(sched.Location())
	today := sched.Preview(now)
	if today.Sun.Fallback {
		steps.Complete(stepSunTimes, "fallback times")
	} else {
		steps.Complete(stepSunTimes, "")
	}

	steps.Start(stepSchedule)
	steps.Complete(stepSchedule, fmt.Sprintf("%d actions", len(today.Actions)))

	if connectErr != nil {
		return ui.NewFailureResult("Camera not reachable", connectErr, camera.TroubleshootingHints(connectErr)), connectErr
	}

	mode := schedule.Decide(now, today.Sun.Sunrise, today.Sun.Sunset)
	result := ui.NewSuccessResult("Camera is reachable",
		ui.Field{Key: "Sunrise", Value: today.Sun.Sunrise.Format("15:04 MST")},
		ui.Field{Key: "Sunset", Value: today.Sun.Sunset.Format("15:04 MST")},
		ui.Field{Key: "Fallback", Value: strconv.FormatBool(today.Sun.Fallback)},
		ui.Field{Key: "Desired mode", Value: ui.ModeBadge(mode.String())},
	)
	if model := info["deviceType"]; model != "" {
		result.AddDetail("Model", model)
	}
	if profile, err := client.CurrentProfile(ctx); err == nil {
		result.AddDetail("Current profile", profile)
	}
	result.AddDetail("Schedule", strings.Join(today.Names(), ", "))
	return result, nil
}

// errorSummary shortens a camera error for a step line.
func errorSummary(err error) string {
	var camErr *camera.Error
	if errors.As(err, &camErr) {
		if camErr.StatusCode != 0 {
			return fmt.Sprintf("HTTP %d", camErr.StatusCode)
		}
		return camErr.Type.String()
	}
	return err.Error()
}
