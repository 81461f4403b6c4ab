// Package schedule holds the per-day set of camera transitions.
//
// A Schedule is built for one calendar date from that date's sun times and
// contains at most three actions: switch to day at sunrise, switch to night at
// sunset and recompute at 00:01 the next day. Triggers already in the past at
// build time are left out. The Scheduler replaces the whole Schedule on every
// recomputation; it never edits one in place.
package schedule

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/camdaynight/daynight/internal/logging"
	"github.com/camdaynight/daynight/internal/suntimes"
)

// RecomputeHour and RecomputeMinute give the time of day the next schedule is built.
const (
	RecomputeHour   = 0
	RecomputeMinute = 1
)

// Action is what a ScheduledAction does when it fires.
type Action int

const (
	SwitchDay Action = iota
	SwitchNight
	Recompute
)

// String returns a short name for the action.
func (a Action) String() string {
	switch a {
	case SwitchDay:
		return "day"
	case SwitchNight:
		return "night"
	case Recompute:
		return "recompute"
	default:
		return "unknown"
	}
}

// ScheduledAction is an action bound to a trigger minute.
type ScheduledAction struct {
	At     time.Time
	Action Action
}

// TimeOfDay returns the trigger as HH:MM.
func (a ScheduledAction) TimeOfDay() string {
	return a.At.Format("15:04")
}

// String returns "action@HH:MM".
func (a ScheduledAction) String() string {
	return a.Action.String() + "@" + a.TimeOfDay()
}

// Schedule is one calendar day's set of actions.
type Schedule struct {
	// Date is local midnight of the day this schedule covers
	Date time.Time

	// Sun holds the sun times the actions were derived from
	Sun suntimes.Result

	// Actions are sorted by trigger time
	Actions []ScheduledAction
}

// Build derives the actions for date from sun. now decides which triggers
// are already in the past and therefore omitted; the recompute trigger is
// always present. date's location is the schedule's timezone.
func Build(date, now time.Time, sun suntimes.Result) *Schedule {
	day := StartOfDay(date)

	actions := make([]ScheduledAction, 0, 3)
	if now.Before(sun.Sunrise) {
		actions = append(actions, ScheduledAction{At: sun.Sunrise.Truncate(time.Minute), Action: SwitchDay})
	}
	if now.Before(sun.Sunset) {
		actions = append(actions, ScheduledAction{At: sun.Sunset.Truncate(time.Minute), Action: SwitchNight})
	}
	next := day.AddDate(0, 0, 1)
	actions = append(actions, ScheduledAction{
		At:     time.Date(next.Year(), next.Month(), next.Day(), RecomputeHour, RecomputeMinute, 0, 0, day.Location()),
		Action: Recompute,
	})

	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].At.Before(actions[j].At)
	})

	if last := actions[len(actions)-1]; last.Action == SwitchNight {
		// The recompute replaces this schedule before sunset fires; the run
		// loop switches to night from the recompute instead.
		logging.Warn("Sunset falls after the daily recompute",
			zap.Time("sunset", last.At),
			zap.Time("recompute", actions[len(actions)-2].At),
		)
	}

	return &Schedule{Date: day, Sun: sun, Actions: actions}
}

// StartOfDay returns midnight of t's calendar date in t's location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Names returns the actions as "action@HH:MM" strings, for logging.
func (s *Schedule) Names() []string {
	names := make([]string, len(s.Actions))
	for i, a := range s.Actions {
		names[i] = a.String()
	}
	return names
}

// Next returns the earliest pending action, if any.
func (s *Schedule) Next() (ScheduledAction, bool) {
	if len(s.Actions) == 0 {
		return ScheduledAction{}, false
	}
	return s.Actions[0], true
}
