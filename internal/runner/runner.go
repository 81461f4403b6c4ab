// Package runner drives the camera from the day schedule.
//
// A Runner makes one mode decision at startup, then polls the scheduler once
// a minute and executes whatever actions have come due. Camera operations are
// strictly sequential: the poll loop is the only caller.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/camdaynight/daynight/internal/logging"
	"github.com/camdaynight/daynight/internal/schedule"
	"github.com/camdaynight/daynight/internal/suntimes"
)

const (
	// PollInterval is how often due actions are checked
	PollInterval = time.Minute

	// MaxConsecutiveFailures is the number of failing ticks in a row that stops Run
	MaxConsecutiveFailures = 5
)

var (
	// ErrConnectivity means the camera failed the startup connection test
	ErrConnectivity = errors.New("camera is not reachable")

	// ErrFatal marks an error the loop cannot continue after
	ErrFatal = errors.New("unrecoverable runner error")
)

// Switcher performs camera mode switches. *camera.Client implements it.
type Switcher interface {
	TestConnection(ctx context.Context) bool
	SwitchToDay(ctx context.Context) bool
	SwitchToNight(ctx context.Context) bool
}

// Observer is notified of runner events. Calls happen on the runner's
// goroutine; implementations must not block.
type Observer interface {
	// ModeDecided reports the startup decision and the one after each recompute.
	ModeDecided(mode schedule.Mode, now time.Time, sun suntimes.Result)

	// SwitchAttempted reports every switch, scheduled or initial.
	SwitchAttempted(mode schedule.Mode, ok bool, at time.Time)

	// ScheduleBuilt reports a newly activated schedule.
	ScheduleBuilt(s *schedule.Schedule)

	// NextAction reports the earliest pending action after each change.
	NextAction(next schedule.ScheduledAction, ok bool)
}

// Option configures a Runner
type Option func(*Runner)

// WithObserver registers an observer. May be given more than once.
func WithObserver(o Observer) Option {
	return func(r *Runner) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// WithPollInterval changes the tick period
func WithPollInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.interval = d
		}
	}
}

// Runner owns the scheduler and the camera for the lifetime of the process.
type Runner struct {
	scheduler *schedule.Scheduler
	camera    Switcher
	observers []Observer
	now       func() time.Time
	interval  time.Duration

	failures int

	// mode is the last mode switched to, applied whether that switch succeeded
	mode    schedule.Mode
	applied bool
}

// New creates a Runner.
func New(scheduler *schedule.Scheduler, camera Switcher, opts ...Option) *Runner {
	r := &Runner{
		scheduler: scheduler,
		camera:    camera,
		now:       time.Now,
		interval:  PollInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start verifies the camera is reachable, activates today's schedule and
// applies the mode the current time calls for. The decision and the schedule
// share one clock reading, so a trigger the decision did not cover is never
// left out of the schedule.
func (r *Runner) Start(ctx context.Context) error {
	if !r.camera.TestConnection(ctx) {
		return ErrConnectivity
	}

	now := r.now()
	active := r.scheduler.Activate(now)
	r.switchTo(ctx, r.decide(active, now))
	r.notifyBuilt(active)
	return nil
}

// Tick executes every action that has come due, in trigger order. It returns
// an error only when the loop must stop.
func (r *Runner) Tick(ctx context.Context) error {
	if r.scheduler.Active() == nil {
		return fmt.Errorf("%w: tick before start", ErrFatal)
	}

	now := r.now()
	due := r.scheduler.Due(now)
	if len(due) == 0 && len(r.scheduler.Active().Actions) == 0 {
		// The recompute action was consumed without producing a new schedule.
		due = []schedule.ScheduledAction{{At: now, Action: schedule.Recompute}}
	}
	if len(due) == 0 {
		return nil
	}
	due = dropSuperseded(due)

	var tickErr error
	for _, action := range due {
		if err := r.execute(ctx, action); err != nil {
			if errors.Is(err, ErrFatal) {
				return err
			}
			logging.Error("Scheduled action failed", zap.Stringer("action", action), zap.Error(err))
			tickErr = err
		}
	}

	if tickErr != nil {
		r.failures++
		if r.failures >= MaxConsecutiveFailures {
			return fmt.Errorf("%w: %d consecutive failing ticks, last: %v", ErrFatal, r.failures, tickErr)
		}
	} else {
		r.failures = 0
	}

	r.notifyNext()
	return nil
}

// Run starts the runner and ticks until ctx is cancelled. Cancellation
// returns nil.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	logging.Info("Scheduler running", zap.Duration("poll_interval", r.interval))
	for {
		select {
		case <-ctx.Done():
			logging.Info("Scheduler stopped")
			return nil
		case <-ticker.C:
			if err := r.Tick(ctx); err != nil {
				return err
			}
		}
	}
}

// execute runs one action. A panic is recovered and returned as an error.
func (r *Runner) execute(ctx context.Context, action schedule.ScheduledAction) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic in %s: %v", action, p)
		}
	}()

	logging.Info("Executing scheduled action", zap.Stringer("action", action))

	switch action.Action {
	case schedule.SwitchDay:
		r.switchTo(ctx, schedule.Day)
	case schedule.SwitchNight:
		r.switchTo(ctx, schedule.Night)
	case schedule.Recompute:
		now := r.now()
		next := r.scheduler.Advance(now)
		r.notifyBuilt(next)
		r.reconcile(ctx, next, now)
	default:
		return fmt.Errorf("unknown action %d", action.Action)
	}
	return nil
}

// decide runs the mode decision against s's sun times. now must be the
// reading s was built with.
func (r *Runner) decide(s *schedule.Schedule, now time.Time) schedule.Mode {
	now = now.In(r.scheduler.Location())
	mode := schedule.Decide(now, s.Sun.Sunrise, s.Sun.Sunset)
	logging.LogModeDecision(mode.String(), now, s.Sun.Sunrise, s.Sun.Sunset)
	for _, o := range r.observers {
		o.ModeDecided(mode, now, s.Sun)
	}
	return mode
}

// reconcile switches after a recompute if the camera is not in the mode the
// new schedule calls for: after a suspend across midnight, or when the
// previous sunset fell after the recompute trigger.
func (r *Runner) reconcile(ctx context.Context, s *schedule.Schedule, now time.Time) {
	mode := r.decide(s, now)
	if r.applied && mode == r.mode {
		return
	}
	logging.Info("Camera mode out of step after recompute",
		zap.Stringer("want", mode),
		zap.Stringer("last", r.mode),
		zap.Bool("last_ok", r.applied),
	)
	r.switchTo(ctx, mode)
}

// dropSuperseded removes switch actions that precede a recompute in the same
// batch. They are stale, and the recompute decides the mode afresh.
func dropSuperseded(due []schedule.ScheduledAction) []schedule.ScheduledAction {
	last := -1
	for i, a := range due {
		if a.Action == schedule.Recompute {
			last = i
		}
	}
	if last <= 0 {
		return due
	}
	skipped := make([]string, last)
	for i, a := range due[:last] {
		skipped[i] = a.String()
	}
	logging.Warn("Skipping stale actions", zap.Strings("actions", skipped))
	return due[last:]
}

// switchTo calls the camera once. A failed switch is logged by the camera
// client and does not count as a tick failure.
func (r *Runner) switchTo(ctx context.Context, mode schedule.Mode) bool {
	var ok bool
	if mode == schedule.Day {
		ok = r.camera.SwitchToDay(ctx)
	} else {
		ok = r.camera.SwitchToNight(ctx)
	}
	r.mode, r.applied = mode, ok

	at := r.now()
	for _, o := range r.observers {
		o.SwitchAttempted(mode, ok, at)
	}
	return ok
}

func (r *Runner) notifyBuilt(s *schedule.Schedule) {
	for _, o := range r.observers {
		o.ScheduleBuilt(s)
	}
	r.notifyNext()
}

func (r *Runner) notifyNext() {
	active := r.scheduler.Active()
	if active == nil {
		return
	}
	next, ok := active.Next()
	for _, o := range r.observers {
		o.NextAction(next, ok)
	}
}
