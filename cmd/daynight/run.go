package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/camdaynight/daynight/internal/camera"
	"github.com/camdaynight/daynight/internal/config"
	"github.com/camdaynight/daynight/internal/logging"
	"github.com/camdaynight/daynight/internal/metrics"
	"github.com/camdaynight/daynight/internal/mqtt"
	"github.com/camdaynight/daynight/internal/runner"
	"github.com/camdaynight/daynight/internal/schedule"
	"github.com/camdaynight/daynight/internal/suntimes"
	"github.com/camdaynight/daynight/internal/version"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the day/night automation loop",
	Long: `Start the automation loop.

At startup the camera is checked and switched to the mode the current time
calls for. Afterwards the camera is switched at sunrise and sunset (plus the
configured offsets) and the times are recalculated every day at 00:01.

The loop runs until interrupted (Ctrl+C) or stopped by the service manager.`,
	Example: `  # Run with ./camera_config.json
  daynight run

  # Run with another configuration and debug logging
  daynight run --config /etc/daynight/camera_config.json --log-level debug`,
	RunE: runAutomation,
}

func runAutomation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := initLogging(cfg, false); err != nil {
		return err
	}

	if !isInteractiveSession() {
		return runAsService(cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return automate(ctx, cfg)
}

// automate wires the components from cfg and runs the loop until ctx ends.
func automate(ctx context.Context, cfg *config.Config) error {
	logging.Info("Starting day/night automation",
		zap.String("version", version.Version),
		zap.String("config", cfg.Path()),
		zap.String("camera", cfg.Camera.Address()),
		zap.String("location", cfg.Location.Name),
		zap.String("timezone", cfg.Location.Timezone),
		zap.Int("sunrise_offset", cfg.Offsets.Sunrise),
		zap.Int("sunset_offset", cfg.Offsets.Sunset),
	)

	client, err := camera.NewClient(cfg.Camera, cfg.Profiles)
	if err != nil {
		return &config.Error{Path: cfg.Path(), Field: "camera.dialect", Err: err}
	}

	sched, err := schedule.New(suntimes.NewProvider(nil), cfg.Location, cfg.Offsets)
	if err != nil {
		return &config.Error{Path: cfg.Path(), Field: "location.timezone", Err: err}
	}

	var opts []runner.Option

	if cfg.Metrics.Enabled() {
		m := metrics.NewObserver()
		opts = append(opts, runner.WithObserver(m))
		go func() {
			if err := m.Serve(ctx, cfg.Metrics.Listen); err != nil {
				logging.Error("Metrics listener failed", zap.String("addr", cfg.Metrics.Listen), zap.Error(err))
			}
		}()
	}

	if cfg.MQTT.Enabled() {
		pub, err := mqtt.NewPublisher(cfg.MQTT)
		if err != nil {
			logging.Warn("MQTT publishing disabled", zap.Error(err))
		} else {
			defer pub.Close()
			opts = append(opts, runner.WithObserver(pub))
		}
	}

	err = runner.New(sched, client, opts...).Run(ctx)
	if errors.Is(err, runner.ErrConnectivity) {
		for _, hint := range connectivityHints {
			logging.Error(hint)
		}
		return fmt.Errorf("%w at %s; check the address and credentials or run 'daynight setup'", err, cfg.Camera.Address())
	}
	if err != nil {
		logging.Error("Automation stopped", zap.Error(err))
		return err
	}

	logging.Info("Automation stopped")
	return nil
}

var connectivityHints = []string{
	"Cannot connect to camera. Please check:",
	"  - The IP address is correct",
	"  - The camera is turned on",
	"  - This computer is on the same network as the camera",
	"  - The username and password are correct",
}
