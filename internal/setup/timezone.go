package setup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ringsaturn/tzf"
	"go.uber.org/zap"

	"github.com/camdaynight/daynight/internal/logging"
)

// ErrNoTimezone means a resolver had no answer for the coordinates
var ErrNoTimezone = errors.New("timezone not determined")

// TimezoneResolver names the IANA timezone for a coordinate.
type TimezoneResolver interface {
	Resolve(ctx context.Context, latitude, longitude float64) (string, error)
}

// FinderResolver looks the timezone up in tzf's embedded boundary data.
// The data is loaded on first use.
type FinderResolver struct {
	once   sync.Once
	finder tzf.F
	err    error
}

// NewFinderResolver creates a FinderResolver.
func NewFinderResolver() *FinderResolver {
	return &FinderResolver{}
}

// Resolve implements TimezoneResolver
func (r *FinderResolver) Resolve(_ context.Context, latitude, longitude float64) (string, error) {
	r.once.Do(func() {
		r.finder, r.err = tzf.NewDefaultFinder()
	})
	if r.err != nil {
		return "", fmt.Errorf("timezone finder: %w", r.err)
	}

	name := r.finder.GetTimezoneName(longitude, latitude)
	if name == "" {
		return "", ErrNoTimezone
	}
	if _, err := time.LoadLocation(name); err != nil {
		return "", fmt.Errorf("timezone finder returned %q: %w", name, err)
	}
	return name, nil
}

// CommonTimezones are offered when the user has to type a timezone.
var CommonTimezones = []string{
	"America/New_York (Eastern Time)",
	"America/Chicago (Central Time)",
	"America/Denver (Mountain Time)",
	"America/Los_Angeles (Pacific Time)",
	"Europe/London",
	"Europe/Paris",
	"Asia/Tokyo",
	"Australia/Sydney",
}

// ManualResolver asks the user. An empty answer means UTC.
type ManualResolver struct {
	prompt Prompter
}

// NewManualResolver creates a ManualResolver.
func NewManualResolver(prompt Prompter) *ManualResolver {
	return &ManualResolver{prompt: prompt}
}

// Resolve implements TimezoneResolver
func (r *ManualResolver) Resolve(ctx context.Context, _, _ float64) (string, error) {
	r.prompt.Say("I need to know your timezone for accurate sunrise/sunset times.")
	r.prompt.Say("Common timezones:")
	for _, tz := range CommonTimezones {
		r.prompt.Say("  - %s", tz)
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		answer, err := r.prompt.Ask("Enter your timezone (or press Enter to use UTC):")
		if err != nil {
			return "", err
		}
		if answer == "" {
			return "UTC", nil
		}
		if _, err := time.LoadLocation(answer); err != nil {
			r.prompt.Say("'%s' is not a valid timezone. Please try again.", answer)
			continue
		}
		return answer, nil
	}
}

// FallbackResolver tries each resolver in turn and returns the first answer.
type FallbackResolver []TimezoneResolver

// Resolve implements TimezoneResolver
func (f FallbackResolver) Resolve(ctx context.Context, latitude, longitude float64) (string, error) {
	var lastErr error = ErrNoTimezone
	for _, r := range f {
		name, err := r.Resolve(ctx, latitude, longitude)
		if err == nil && name != "" {
			return name, nil
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return "", err
			}
			logging.Debug("Timezone resolver had no answer", zap.Error(err))
			lastErr = err
		}
	}
	return "", lastErr
}
