package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fullConfig = `{
    "camera": {"ip": "192.168.1.108", "port": 8080, "username": "admin", "password": "secret"},
    "location": {"name": "Denver, USA", "timezone": "America/Denver", "latitude": 39.7392, "longitude": -104.9903},
    "offsets": {"sunrise": 30, "sunset": -15},
    "profiles": {"day": 2, "night": 3}
}`

const minimalConfig = `{
    "camera": {"ip": "10.0.0.5", "username": "admin", "password": "pw"},
    "location": {"name": "London, UK", "timezone": "Europe/London", "latitude": 51.5, "longitude": -0.12}
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "camera_config.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_Full(t *testing.T) {
	cfg, err := Load(writeConfig(t, fullConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Camera.IP != "192.168.1.108" {
		t.Errorf("Camera.IP = %s, want 192.168.1.108", cfg.Camera.IP)
	}
	if cfg.Camera.Port != 8080 {
		t.Errorf("Camera.Port = %d, want 8080", cfg.Camera.Port)
	}
	if cfg.Location.Timezone != "America/Denver" {
		t.Errorf("Location.Timezone = %s, want America/Denver", cfg.Location.Timezone)
	}
	if cfg.Location.Latitude != 39.7392 {
		t.Errorf("Location.Latitude = %v, want 39.7392", cfg.Location.Latitude)
	}
	if cfg.Offsets != (Offsets{Sunrise: 30, Sunset: -15}) {
		t.Errorf("Offsets = %+v, want {30 -15}", cfg.Offsets)
	}
	if cfg.Profiles != (Profiles{Day: 2, Night: 3}) {
		t.Errorf("Profiles = %+v, want {2 3}", cfg.Profiles)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Camera.Port != DefaultPort {
		t.Errorf("Camera.Port = %d, want %d", cfg.Camera.Port, DefaultPort)
	}
	if cfg.Camera.Dialect != DefaultDialect {
		t.Errorf("Camera.Dialect = %s, want %s", cfg.Camera.Dialect, DefaultDialect)
	}
	if cfg.Offsets != DefaultOffsets() {
		t.Errorf("Offsets = %+v, want %+v", cfg.Offsets, DefaultOffsets())
	}
	if cfg.Profiles != DefaultProfiles() {
		t.Errorf("Profiles = %+v, want %+v", cfg.Profiles, DefaultProfiles())
	}
	if cfg.Log.File != DefaultLogFile {
		t.Errorf("Log.File = %s, want %s", cfg.Log.File, DefaultLogFile)
	}
	if cfg.MQTT.Enabled() {
		t.Error("MQTT should be disabled by default")
	}
	if cfg.Metrics.Enabled() {
		t.Error("Metrics should be disabled by default")
	}
}

func TestLoad_EnvOverridesPassword(t *testing.T) {
	t.Setenv("DAYNIGHT_CAMERA_PASSWORD", "from-env")

	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Camera.Password != "from-env" {
		t.Errorf("Camera.Password = %s, want from-env", cfg.Camera.Password)
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("Load() should fail for a missing file")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if !IsConfigError(err) {
		t.Errorf("error should be a configuration error, got %T", err)
	}
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(writeConfig(t, `{"camera": {`))
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("error = %v, want ErrMalformed", err)
	}
}

func TestLoad_MissingRequiredField(t *testing.T) {
	content := strings.Replace(minimalConfig, `"username": "admin", `, "", 1)

	_, err := Load(writeConfig(t, content))
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("error = %v, want ErrMissingField", err)
	}

	var cfgErr *Error
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error should be *Error, got %T", err)
	}
	if cfgErr.Field != "camera.username" {
		t.Errorf("Field = %s, want camera.username", cfgErr.Field)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		from  string
		to    string
		field string
	}{
		{"bad timezone", `"Europe/London"`, `"Mars/Olympus"`, "location.timezone"},
		{"latitude out of range", `"latitude": 51.5`, `"latitude": 95`, "location.latitude"},
		{"longitude out of range", `"longitude": -0.12`, `"longitude": -200`, "location.longitude"},
		{"bad port", `"ip": "10.0.0.5"`, `"ip": "10.0.0.5", "port": 70000`, "camera.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := strings.Replace(minimalConfig, tt.from, tt.to, 1)
			_, err := Load(writeConfig(t, content))
			if !errors.Is(err, ErrInvalidField) {
				t.Fatalf("error = %v, want ErrInvalidField", err)
			}
			var cfgErr *Error
			if errors.As(err, &cfgErr) && cfgErr.Field != tt.field {
				t.Errorf("Field = %s, want %s", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv(PathEnvVar, "")
	if got := ResolvePath(""); filepath.Base(got) != DefaultFile || !filepath.IsAbs(got) {
		t.Errorf("ResolvePath(\"\") = %s, want absolute path ending in %s", got, DefaultFile)
	}

	t.Setenv(PathEnvVar, "/etc/daynight/env.json")
	if got := ResolvePath(""); got != "/etc/daynight/env.json" {
		t.Errorf("ResolvePath with env = %s, want /etc/daynight/env.json", got)
	}

	if got := ResolvePath("/tmp/flag.json"); got != "/tmp/flag.json" {
		t.Errorf("ResolvePath with flag = %s, want /tmp/flag.json", got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := New(
		Camera{IP: "192.168.1.108", Username: "admin", Password: "secret"},
		Location{Name: "Sydney, Australia", Timezone: "Australia/Sydney", Latitude: -33.87, Longitude: 151.21},
		Offsets{Sunrise: 10, Sunset: 20},
	)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "nested", "camera_config.json")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should not remain after Save()")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Camera != cfg.Camera {
		t.Errorf("Camera = %+v, want %+v", loaded.Camera, cfg.Camera)
	}
	if loaded.Profiles != DefaultProfiles() {
		t.Errorf("Profiles = %+v, want %+v", loaded.Profiles, DefaultProfiles())
	}
	if loaded.Path() != path {
		t.Errorf("Path() = %s, want %s", loaded.Path(), path)
	}
}
