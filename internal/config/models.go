package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // timezones must resolve on hosts without zoneinfo
)

const (
	// DefaultFile is the configuration file name used when no path is given
	DefaultFile = "camera_config.json"

	// DefaultPort is the camera HTTP port
	DefaultPort = 80

	// DefaultDialect is the camera API layout used when none is configured
	DefaultDialect = "dahua"

	// DefaultLogFile is the persistent log sink
	DefaultLogFile = "daynight.log"

	// DefaultLogLevel is the log level when neither flag, config nor env set one
	DefaultLogLevel = "info"

	// DefaultTopicPrefix is the MQTT topic prefix
	DefaultTopicPrefix = "daynight"
)

// Config is the complete daynight configuration.
// It is constructed once by Load and never modified afterwards.
type Config struct {
	Camera   Camera   `json:"camera" mapstructure:"camera"`
	Location Location `json:"location" mapstructure:"location"`
	Offsets  Offsets  `json:"offsets" mapstructure:"offsets"`
	Profiles Profiles `json:"profiles" mapstructure:"profiles"`
	Log      Log      `json:"log,omitempty" mapstructure:"log"`
	Metrics  Metrics  `json:"metrics,omitempty" mapstructure:"metrics"`
	MQTT     MQTT     `json:"mqtt,omitempty" mapstructure:"mqtt"`

	// path is the file this configuration was read from
	path string
}

// Camera holds the connection parameters for the camera.
type Camera struct {
	IP       string `json:"ip" mapstructure:"ip"`
	Port     int    `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Dialect  string `json:"dialect,omitempty" mapstructure:"dialect"`
}

// Location identifies where the camera is, for sun computations.
type Location struct {
	Name      string  `json:"name" mapstructure:"name"`
	Address   string  `json:"address,omitempty" mapstructure:"address"`
	Timezone  string  `json:"timezone" mapstructure:"timezone"`
	Latitude  float64 `json:"latitude" mapstructure:"latitude"`
	Longitude float64 `json:"longitude" mapstructure:"longitude"`
}

// Offsets shift the astronomical sunrise and sunset, in minutes.
// Positive values switch later, negative values switch earlier.
type Offsets struct {
	Sunrise int `json:"sunrise" mapstructure:"sunrise"`
	Sunset  int `json:"sunset" mapstructure:"sunset"`
}

// Profiles maps modes to the camera's profile identifiers.
type Profiles struct {
	Day   int `json:"day" mapstructure:"day"`
	Night int `json:"night" mapstructure:"night"`
}

// Log configures the log stream.
type Log struct {
	File  string `json:"file,omitempty" mapstructure:"file"`
	Level string `json:"level,omitempty" mapstructure:"level"`
}

// Metrics configures the optional Prometheus listener. Empty Listen disables it.
type Metrics struct {
	Listen string `json:"listen,omitempty" mapstructure:"listen"`
}

// MQTT configures the optional state publisher. Empty Broker disables it.
type MQTT struct {
	Broker      string `json:"broker,omitempty" mapstructure:"broker"`
	Username    string `json:"username,omitempty" mapstructure:"username"`
	Password    string `json:"password,omitempty" mapstructure:"password"`
	TopicPrefix string `json:"topic_prefix,omitempty" mapstructure:"topic_prefix"`
}

// DefaultOffsets returns the offsets used when the file has none.
func DefaultOffsets() Offsets {
	return Offsets{Sunrise: 0, Sunset: 0}
}

// DefaultProfiles returns the profile mapping used when the file has none.
func DefaultProfiles() Profiles {
	return Profiles{Day: 0, Night: 1}
}

// Path returns the file the configuration was loaded from (empty if built in memory).
func (c *Config) Path() string {
	return c.path
}

// Address returns "ip:port" for the camera.
func (c Camera) Address() string {
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("%s:%d", c.IP, port)
}

// LoadTZ resolves the location's IANA timezone.
func (l Location) LoadTZ() (*time.Location, error) {
	if l.Timezone == "" {
		return nil, fmt.Errorf("timezone is empty")
	}
	tz, err := time.LoadLocation(l.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", l.Timezone, err)
	}
	return tz, nil
}

// Enabled reports whether the metrics listener should run.
func (m Metrics) Enabled() bool {
	return m.Listen != ""
}

// Enabled reports whether MQTT publishing should run.
func (m MQTT) Enabled() bool {
	return m.Broker != ""
}
