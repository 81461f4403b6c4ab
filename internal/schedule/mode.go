package schedule

import "time"

// Mode is the camera imaging mode.
type Mode int

const (
	Night Mode = iota
	Day
)

// String returns "day" or "night".
func (m Mode) String() string {
	if m == Day {
		return "day"
	}
	return "night"
}

// ParseMode accepts "day" or "night".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "day":
		return Day, true
	case "night":
		return Night, true
	}
	return Night, false
}

// Decide returns Day iff sunrise <= now < sunset. The sunrise instant counts
// as day and the sunset instant as night, so the hours after midnight and
// before sunrise are night.
func Decide(now, sunrise, sunset time.Time) Mode {
	if !now.Before(sunrise) && now.Before(sunset) {
		return Day
	}
	return Night
}
