// Package config loads the daynight configuration file.
//
// The configuration is a JSON document produced by `daynight setup`. It is
// read once at startup into an immutable *Config which is handed to each
// component's constructor; nothing in the program looks configuration up
// through a global.
//
// # File Location
//
// The file is resolved in this order:
//   - the --config flag
//   - the DAYNIGHT_CONFIG environment variable
//   - camera_config.json in the working directory
//
// # Environment Overrides
//
// Every key can be overridden with a DAYNIGHT_ prefixed variable, dots
// replaced by underscores (e.g. DAYNIGHT_CAMERA_PASSWORD). A .env file in the
// working directory is loaded by the CLI before the configuration is read.
//
// # Example
//
//	{
//	    "camera":   {"ip": "192.168.1.108", "port": 80, "username": "admin", "password": "secret"},
//	    "location": {"name": "Denver, USA", "timezone": "America/Denver", "latitude": 39.74, "longitude": -104.99},
//	    "offsets":  {"sunrise": 15, "sunset": -10},
//	    "profiles": {"day": 0, "night": 1}
//	}
//
// Security: the file holds the camera password and is written with 0600
// permissions.
package config
