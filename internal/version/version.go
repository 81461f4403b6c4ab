// Package version reports the build's version for the CLI, the log header
// and the User-Agent sent to cameras and the geocoder.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/camdaynight/daynight/internal/version.Version=v0.3.0 \
//	                   -X github.com/camdaynight/daynight/internal/version.Commit=abc1234"
//
// Unset values are filled from the VCS stamp in the build info, then "dev" and
// "unknown".
var (
	// Version is the release version of the binary
	Version = ""
	// Commit is the short git revision
	Commit = ""
)

// Name is the program name used in output and the User-Agent
const Name = "daynight"

func init() {
	if Version == "" || Commit == "" {
		fromBuildInfo(readBuildSettings())
	}
	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

func readBuildSettings() map[string]string {
	settings := make(map[string]string)
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return settings
	}
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		settings["main.version"] = info.Main.Version
	}
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}
	return settings
}

// fromBuildInfo fills Version and Commit from build settings.
func fromBuildInfo(settings map[string]string) {
	if Version == "" {
		Version = settings["main.version"]
	}
	if Commit == "" {
		if rev := settings["vcs.revision"]; rev != "" {
			if len(rev) > 7 {
				rev = rev[:7]
			}
			if settings["vcs.modified"] == "true" {
				rev += "-dirty"
			}
			Commit = rev
		}
	}
}

// Full returns the version string including the commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// UserAgent returns "daynight/<version>".
func UserAgent() string {
	return Name + "/" + Version
}

// Platform returns GOOS/GOARCH, shown by the version command
func Platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}
