package schedule

import (
	"fmt"
	"time"

	"github.com/camdaynight/daynight/internal/config"
	"github.com/camdaynight/daynight/internal/logging"
	"github.com/camdaynight/daynight/internal/suntimes"
)

// SunSource computes a day's sun times. *suntimes.Provider implements it.
type SunSource interface {
	Compute(date time.Time, loc config.Location, offsets config.Offsets) suntimes.Result
}

// Scheduler owns the active Schedule and moves it from one day to the next.
// It is not safe for concurrent use; the run loop is its only caller.
type Scheduler struct {
	sun      SunSource
	location config.Location
	offsets  config.Offsets
	tz       *time.Location
	active   *Schedule
}

// New creates a Scheduler for a location. It fails only if the location's
// timezone cannot be loaded.
func New(sun SunSource, location config.Location, offsets config.Offsets) (*Scheduler, error) {
	tz, err := location.LoadTZ()
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	return &Scheduler{
		sun:      sun,
		location: location,
		offsets:  offsets,
		tz:       tz,
	}, nil
}

// Location returns the timezone schedules are built in.
func (s *Scheduler) Location() *time.Location {
	return s.tz
}

// Active returns the current schedule, or nil before Activate.
func (s *Scheduler) Active() *Schedule {
	return s.active
}

// Preview builds the schedule for now's date without activating it.
func (s *Scheduler) Preview(now time.Time) *Schedule {
	local := now.In(s.tz)
	return Build(local, local, s.sun.Compute(local, s.location, s.offsets))
}

// Activate builds and activates the schedule for now's calendar date.
func (s *Scheduler) Activate(now time.Time) *Schedule {
	return s.replace(StartOfDay(now.In(s.tz)), now)
}

// Advance performs the recompute transition: the schedule for the day after
// the active one replaces it. If now is already past that day (the host was
// suspended across midnight) the schedule for now's date is built instead.
func (s *Scheduler) Advance(now time.Time) *Schedule {
	if s.active == nil {
		return s.Activate(now)
	}

	target := s.active.Date.AddDate(0, 0, 1)
	if today := StartOfDay(now.In(s.tz)); today.After(target) {
		logging.Warn("Recompute ran late, building schedule for the current date")
		target = today
	}
	return s.replace(target, now)
}

// Due removes and returns the actions whose trigger time is at or before now,
// in trigger order. Each action is returned exactly once.
func (s *Scheduler) Due(now time.Time) []ScheduledAction {
	if s.active == nil {
		return nil
	}

	n := 0
	for n < len(s.active.Actions) && !s.active.Actions[n].At.After(now) {
		n++
	}
	if n == 0 {
		return nil
	}

	due := make([]ScheduledAction, n)
	copy(due, s.active.Actions[:n])
	s.active.Actions = s.active.Actions[n:]
	return due
}

func (s *Scheduler) replace(date, now time.Time) *Schedule {
	sun := s.sun.Compute(date, s.location, s.offsets)
	next := Build(date, now.In(s.tz), sun)
	s.active = next
	logging.LogSchedule(next.Date, next.Names())
	return next
}
