package setup

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/camdaynight/daynight/internal/config"
	"github.com/camdaynight/daynight/internal/ui"
)

// fakePlaces answers from a fixed table.
type fakePlaces map[string]*Place

func (f fakePlaces) Search(_ context.Context, query string) (*Place, error) {
	if p, ok := f[query]; ok {
		return p, nil
	}
	return nil, ErrNoMatch
}

// staticResolver always answers with the same timezone.
type staticResolver string

func (s staticResolver) Resolve(context.Context, float64, float64) (string, error) {
	if s == "" {
		return "", ErrNoTimezone
	}
	return string(s), nil
}

var denver = &Place{Address: "Denver, Colorado, United States", Latitude: 39.7392, Longitude: -104.9903}

func newWizard(t *testing.T, input string, test ConnectionTester) (*Wizard, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &Wizard{
		Prompt:   ui.NewPrompter(strings.NewReader(input), &out),
		Places:   fakePlaces{"Denver, USA": denver},
		Timezone: staticResolver("America/Denver"),
		Test:     test,
		Path:     filepath.Join(t.TempDir(), config.DefaultFile),
	}, &out
}

func TestWizardRun(t *testing.T) {
	input := strings.Join([]string{
		"not-an-ip",
		"192.168.1.108:8080",
		"",
		"pw",
		"yes", // retry after the failed connection test
		"192.168.1.109",
		"operator",
		"pw2",
		"",
		"Atlantis",
		"Denver, USA",
		"no",
		"Denver, USA",
		"yes",
		"",    // port
		"30",  // sunrise offset
		"abc", // sunset offset
	}, "\n") + "\n"

	var tested []config.Camera
	w, out := newWizard(t, input, func(_ context.Context, cam config.Camera) bool {
		tested = append(tested, cam)
		return len(tested) > 1
	})

	cfg, err := w.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v\noutput:\n%s", err, out.String())
	}

	if len(tested) != 2 {
		t.Fatalf("connection tests = %d, want 2", len(tested))
	}
	if tested[0].Port != 8080 || tested[0].Username != "admin" {
		t.Errorf("first test camera = %+v, want port 8080 user admin", tested[0])
	}

	want := config.Camera{IP: "192.168.1.109", Port: 80, Username: "operator", Password: "pw2", Dialect: "dahua"}
	if cfg.Camera != want {
		t.Errorf("Camera = %+v, want %+v", cfg.Camera, want)
	}
	if cfg.Location.Name != "Denver, USA" || cfg.Location.Timezone != "America/Denver" {
		t.Errorf("Location = %+v", cfg.Location)
	}
	if cfg.Location.Address != denver.Address {
		t.Errorf("Address = %s, want %s", cfg.Location.Address, denver.Address)
	}
	if cfg.Offsets != (config.Offsets{Sunrise: 30, Sunset: 0}) {
		t.Errorf("Offsets = %+v, want {30 0}", cfg.Offsets)
	}
	if cfg.Profiles != config.DefaultProfiles() {
		t.Errorf("Profiles = %+v, want defaults", cfg.Profiles)
	}

	loaded, err := config.Load(w.Path)
	if err != nil {
		t.Fatalf("saved configuration does not load: %v", err)
	}
	if loaded.Camera != want {
		t.Errorf("loaded Camera = %+v, want %+v", loaded.Camera, want)
	}

	for _, msg := range []string{"doesn't look like a valid IP", "couldn't find 'Atlantis'", "Invalid number"} {
		if !strings.Contains(out.String(), msg) {
			t.Errorf("output missing %q", msg)
		}
	}
}

func TestWizardKeepsExistingConfig(t *testing.T) {
	w, _ := newWizard(t, "no\n", func(context.Context, config.Camera) bool { return true })
	if err := os.WriteFile(w.Path, []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := w.Run(context.Background())
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("Run() error = %v, want ErrCancelled", err)
	}
	data, _ := os.ReadFile(w.Path)
	if string(data) != "{}" {
		t.Error("existing configuration was modified")
	}
}

func TestWizardGivesUpAfterFailedTest(t *testing.T) {
	w, _ := newWizard(t, "192.168.1.108\nadmin\npw\nno\n", func(context.Context, config.Camera) bool { return false })

	_, err := w.Run(context.Background())
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("Run() error = %v, want ErrCancelled", err)
	}
	if config.Exists(w.Path) {
		t.Error("no configuration should be written")
	}
}

func TestWizardInputEnds(t *testing.T) {
	w, _ := newWizard(t, "192.168.1.108\n", func(context.Context, config.Camera) bool { return true })

	if _, err := w.Run(context.Background()); !errors.Is(err, ui.ErrNoInput) {
		t.Errorf("Run() error = %v, want ErrNoInput", err)
	}
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in   string
		ip   string
		port int
		ok   bool
	}{
		{"192.168.1.108", "192.168.1.108", 80, true},
		{" 10.0.0.5 ", "10.0.0.5", 80, true},
		{"10.0.0.5:8080", "10.0.0.5", 8080, true},
		{"10.0.0.5:0", "", 0, false},
		{"10.0.0.5:http", "", 0, false},
		{"256.1.1.1", "", 0, false},
		{"1.2.3", "", 0, false},
		{"1.2.3.4.5", "", 0, false},
		{"a.b.c.d", "", 0, false},
		{"-1.2.3.4", "", 0, false},
		{"camera.local", "", 0, false},
		{"", "", 0, false},
	}

	for _, tt := range tests {
		ip, port, ok := ParseAddress(tt.in)
		if ok != tt.ok || ip != tt.ip || port != tt.port {
			t.Errorf("ParseAddress(%q) = %q, %d, %v, want %q, %d, %v", tt.in, ip, port, ok, tt.ip, tt.port, tt.ok)
		}
	}
}
