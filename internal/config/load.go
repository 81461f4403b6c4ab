package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// PathEnvVar overrides the configuration file location
	PathEnvVar = "DAYNIGHT_CONFIG"

	envPrefix = "DAYNIGHT"
)

// requiredKeys must be present in the file (or the environment).
var requiredKeys = []string{
	"camera.ip",
	"camera.username",
	"camera.password",
	"location.name",
	"location.timezone",
	"location.latitude",
	"location.longitude",
}

// ResolvePath picks the configuration file: explicit flag, then the
// DAYNIGHT_CONFIG environment variable, then DefaultFile. The result is absolute
// so that it stays valid when running as a service.
func ResolvePath(flagValue string) string {
	path := flagValue
	if path == "" {
		path = os.Getenv(PathEnvVar)
	}
	if path == "" {
		path = DefaultFile
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// Load reads and validates the configuration file at path.
// Every failure is returned as *Error.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Path: path, Err: ErrNotFound}
		}
		return nil, &Error{Path: path, Err: err}
	}

	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, &Error{Path: path, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}

	for _, key := range requiredKeys {
		if !v.IsSet(key) {
			return nil, missingField(path, key)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &Error{Path: path, Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetDefault("camera.port", DefaultPort)
	v.SetDefault("camera.dialect", DefaultDialect)
	v.SetDefault("offsets.sunrise", DefaultOffsets().Sunrise)
	v.SetDefault("offsets.sunset", DefaultOffsets().Sunset)
	v.SetDefault("profiles.day", DefaultProfiles().Day)
	v.SetDefault("profiles.night", DefaultProfiles().Night)
	v.SetDefault("log.file", DefaultLogFile)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("mqtt.topic_prefix", DefaultTopicPrefix)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Secrets may live only in the environment (.env), so they must be known
	// keys even when the file omits them.
	_ = v.BindEnv("camera.password")
	_ = v.BindEnv("mqtt.password")

	return v
}

// Validate checks field values. Load calls it; callers that build a Config in
// memory (the setup wizard) call it before saving.
func (c *Config) Validate() error {
	path := c.path

	if strings.TrimSpace(c.Camera.IP) == "" {
		return missingField(path, "camera.ip")
	}
	if c.Camera.Port < 1 || c.Camera.Port > 65535 {
		return invalidField(path, "camera.port", "%d is not a TCP port", c.Camera.Port)
	}
	if c.Camera.Username == "" {
		return missingField(path, "camera.username")
	}

	if c.Location.Name == "" {
		return missingField(path, "location.name")
	}
	if _, err := c.Location.LoadTZ(); err != nil {
		return invalidField(path, "location.timezone", "%v", err)
	}
	if c.Location.Latitude < -90 || c.Location.Latitude > 90 {
		return invalidField(path, "location.latitude", "%g is outside [-90, 90]", c.Location.Latitude)
	}
	if c.Location.Longitude < -180 || c.Location.Longitude > 180 {
		return invalidField(path, "location.longitude", "%g is outside [-180, 180]", c.Location.Longitude)
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return invalidField(path, "log.level", "%q is not one of debug, info, warn, error", c.Log.Level)
	}

	return nil
}
