package setup

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/camdaynight/daynight/internal/ui"
)

func TestManualResolver(t *testing.T) {
	var out bytes.Buffer
	r := NewManualResolver(ui.NewPrompter(strings.NewReader("Mars/Olympus\nEurope/Paris\n"), &out))

	tz, err := r.Resolve(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if tz != "Europe/Paris" {
		t.Errorf("Resolve() = %s, want Europe/Paris", tz)
	}
	if !strings.Contains(out.String(), "'Mars/Olympus' is not a valid timezone") {
		t.Errorf("output should reject the invalid zone:\n%s", out.String())
	}
}

func TestManualResolverDefaultsToUTC(t *testing.T) {
	r := NewManualResolver(ui.NewPrompter(strings.NewReader("\n"), &bytes.Buffer{}))

	tz, err := r.Resolve(context.Background(), 0, 0)
	if err != nil || tz != "UTC" {
		t.Errorf("Resolve() = %q, %v, want UTC", tz, err)
	}
}

func TestFallbackResolver(t *testing.T) {
	f := FallbackResolver{staticResolver(""), staticResolver("Asia/Tokyo"), staticResolver("Europe/London")}

	tz, err := f.Resolve(context.Background(), 35.68, 139.69)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if tz != "Asia/Tokyo" {
		t.Errorf("Resolve() = %s, want Asia/Tokyo", tz)
	}

	_, err = FallbackResolver{staticResolver("")}.Resolve(context.Background(), 0, 0)
	if !errors.Is(err, ErrNoTimezone) {
		t.Errorf("empty chain error = %v, want ErrNoTimezone", err)
	}
}

func TestFinderResolver(t *testing.T) {
	if testing.Short() {
		t.Skip("loads timezone boundary data")
	}

	r := NewFinderResolver()
	tests := []struct {
		lat, lon float64
		want     string
	}{
		{39.7392, -104.9903, "America/Denver"},
		{51.5072, -0.1276, "Europe/London"},
		{-33.8688, 151.2093, "Australia/Sydney"},
	}
	for _, tt := range tests {
		got, err := r.Resolve(context.Background(), tt.lat, tt.lon)
		if err != nil {
			t.Errorf("Resolve(%v, %v) error = %v", tt.lat, tt.lon, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%v, %v) = %s, want %s", tt.lat, tt.lon, got, tt.want)
		}
	}
}
