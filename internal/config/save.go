package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// fileMutex serialises writes from this process.
var fileMutex sync.Mutex

// New builds a Config in memory with defaults applied to the optional blocks.
// The result still needs Validate before it is saved.
func New(camera Camera, location Location, offsets Offsets) *Config {
	if camera.Port == 0 {
		camera.Port = DefaultPort
	}
	if camera.Dialect == "" {
		camera.Dialect = DefaultDialect
	}
	return &Config{
		Camera:   camera,
		Location: location,
		Offsets:  offsets,
		Profiles: DefaultProfiles(),
	}
}

// Exists reports whether a configuration file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Save writes the configuration to path as indented JSON.
// The write is atomic: a temporary file is renamed over the target.
func (c *Config) Save(path string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary config file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save config file: %w", err)
	}

	c.path = path
	return nil
}
