// Package suntimes computes the daily sunrise and sunset a schedule is built from.
//
// Compute never fails: when the astronomical calculation has no answer (polar
// day or night) it returns a fixed 06:00/18:00 pair marked as a fallback.
package suntimes

import (
	"errors"
	"fmt"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/camdaynight/daynight/internal/config"
	"github.com/camdaynight/daynight/internal/logging"
)

const (
	// FallbackSunriseHour is the local hour used when sunrise cannot be computed
	FallbackSunriseHour = 6

	// FallbackSunsetHour is the local hour used when sunset cannot be computed
	FallbackSunsetHour = 18
)

// ErrNoSunEvent is returned by the default calculator when the sun does not
// rise or does not set on the requested date.
var ErrNoSunEvent = errors.New("sun does not rise or set on this date")

// Calculator returns the UTC sunrise and sunset for a calendar date.
type Calculator func(latitude, longitude float64, year int, month time.Month, day int) (rise, set time.Time, err error)

// Astronomical is the default Calculator, backed by go-sunrise.
func Astronomical(latitude, longitude float64, year int, month time.Month, day int) (time.Time, time.Time, error) {
	rise, set := sunrise.SunriseSunset(latitude, longitude, year, month, day)
	if rise.IsZero() || set.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("%04d-%02d-%02d at (%.4f, %.4f): %w",
			year, month, day, latitude, longitude, ErrNoSunEvent)
	}
	return rise, set, nil
}

// Result is one day's sun times.
//
// Sunrise and Sunset are in the location's timezone. When Fallback is false
// they include the configured offsets; when it is true they are the fixed
// fallback pair and Reason holds the calculation error.
type Result struct {
	Sunrise  time.Time
	Sunset   time.Time
	Fallback bool
	Reason   error
}

// Provider computes Results for a location.
type Provider struct {
	calc Calculator
}

// NewProvider returns a Provider using calc, or Astronomical when calc is nil.
func NewProvider(calc Calculator) *Provider {
	if calc == nil {
		calc = Astronomical
	}
	return &Provider{calc: calc}
}

// Compute returns the sun times for the calendar date of date as seen in the
// location's timezone, shifted by offsets.
func (p *Provider) Compute(date time.Time, loc config.Location, offsets config.Offsets) Result {
	tz, err := loc.LoadTZ()
	if err != nil {
		// Validated at load time; a failure here means the value changed underneath us.
		tz = time.UTC
		logging.Error("Timezone unavailable, computing in UTC")
	}

	local := date.In(tz)
	year, month, day := local.Date()

	rise, set, err := p.calc(loc.Latitude, loc.Longitude, year, month, day)
	if err != nil {
		res := Fallback(local, err)
		logging.LogSunTimes(local, res.Sunrise, res.Sunset, true, err)
		return res
	}

	res := Result{
		Sunrise: rise.In(tz).Add(time.Duration(offsets.Sunrise) * time.Minute),
		Sunset:  set.In(tz).Add(time.Duration(offsets.Sunset) * time.Minute),
	}
	logging.LogSunTimes(local, res.Sunrise, res.Sunset, false, nil)
	if !res.Sunrise.Before(res.Sunset) {
		logging.Warn("Adjusted sunrise is not before sunset, the camera will stay in night mode today")
	}
	return res
}

// Fallback returns the fixed 06:00/18:00 pair on the calendar date of date,
// in date's location.
func Fallback(date time.Time, reason error) Result {
	year, month, day := date.Date()
	tz := date.Location()
	return Result{
		Sunrise:  time.Date(year, month, day, FallbackSunriseHour, 0, 0, 0, tz),
		Sunset:   time.Date(year, month, day, FallbackSunsetHour, 0, 0, 0, tz),
		Fallback: true,
		Reason:   reason,
	}
}
