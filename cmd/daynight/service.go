package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/camdaynight/daynight/internal/config"
	"github.com/camdaynight/daynight/internal/logging"
)

const (
	serviceName = "daynight"

	// stopTimeout bounds how long Stop waits for the loop to return
	stopTimeout = 10 * time.Second
)

// program runs the automation loop under the service manager.
type program struct {
	cfg    *config.Config
	cancel context.CancelFunc
	done   chan struct{}
}

func (p *program) Start(s service.Service) error {
	// Start must not block
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.run(ctx)
	return nil
}

func (p *program) run(ctx context.Context) {
	defer close(p.done)
	if err := automate(ctx, p.cfg); err != nil {
		logging.Error("Service stopping after fatal error", zap.Error(err))
		logging.Sync()
		// Exit non-zero so the service manager restarts us
		os.Exit(1)
	}
}

func (p *program) Stop(s service.Service) error {
	logging.Info("Stopping service")
	if p.cancel == nil {
		return nil
	}
	p.cancel()
	select {
	case <-p.done:
	case <-time.After(stopTimeout):
		logging.Warn("Automation loop did not stop in time", zap.Duration("timeout", stopTimeout))
	}
	return nil
}

// isInteractiveSession reports whether we were started from a terminal rather
// than by a service manager.
func isInteractiveSession() bool {
	return service.Interactive()
}

// newService builds the service definition. The installed service runs
// "daynight run" against the absolute configuration path.
func newService(cfg *config.Config, configPath string) (service.Service, error) {
	svcConfig := &service.Config{
		Name:        serviceName,
		DisplayName: "Camera Day/Night Automation",
		Description: "Switches the camera between day and night profiles at sunrise and sunset",
		Arguments:   []string{"run", "--config", configPath},
	}
	if logFileFlag != "" {
		svcConfig.Arguments = append(svcConfig.Arguments, "--log-file", logFileFlag)
	}
	if logLevelFlag != "" {
		svcConfig.Arguments = append(svcConfig.Arguments, "--log-level", logLevelFlag)
	}
	return service.New(&program{cfg: cfg}, svcConfig)
}

// runAsService hands control to the service manager until it stops us.
func runAsService(cfg *config.Config) error {
	s, err := newService(cfg, cfg.Path())
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return s.Run()
}

var serviceCmd = &cobra.Command{
	Use:   "service <install|uninstall|start|stop|restart>",
	Short: "Manage the background service",
	Long: `Install or control daynight as a system service (systemd, launchd or the
Windows service manager).

The installed service runs 'daynight run' with the configuration file that was
selected when it was installed, so run 'daynight setup' first.`,
	Example: `  # Install and start the service (may need root or Administrator)
  daynight service install
  daynight service start

  # Remove it again
  daynight service stop
  daynight service uninstall`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: service.ControlAction[:],
	RunE:      controlService,
}

func init() {
	rootCmd.AddCommand(serviceCmd)
}

func controlService(cmd *cobra.Command, args []string) error {
	action := args[0]

	path := config.ResolvePath(configFlag)
	var cfg *config.Config
	if action == "install" {
		// Refuse to install a service that would fail on its first start
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	s, err := newService(cfg, path)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	if err := service.Control(s, action); err != nil {
		return fmt.Errorf("failed to %s service: %w", action, err)
	}

	fmt.Printf("Service action '%s' completed successfully.\n", action)
	return nil
}
