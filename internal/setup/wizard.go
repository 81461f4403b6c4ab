package setup

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/camdaynight/daynight/internal/config"
)

// ErrCancelled is returned when the user declines to continue
var ErrCancelled = errors.New("setup cancelled")

// Prompter asks the user questions. *ui.Prompter implements it.
type Prompter interface {
	Ask(question string) (string, error)
	AskDefault(question, def string) (string, error)
	Password(question string) (string, error)
	Confirm(question string) (bool, error)
	Say(format string, args ...any)
}

// ConnectionTester checks that a camera answers with the given credentials.
type ConnectionTester func(ctx context.Context, cam config.Camera) bool

// Wizard collects a configuration from the user.
type Wizard struct {
	Prompt   Prompter
	Places   PlaceFinder
	Timezone TimezoneResolver
	Test     ConnectionTester

	// Path is where the configuration is written
	Path string
}

// Run asks all questions and saves the result to w.Path.
func (w *Wizard) Run(ctx context.Context) (*config.Config, error) {
	if config.Exists(w.Path) {
		w.Prompt.Say("An existing configuration was found at %s.", w.Path)
		ok, err := w.Prompt.Confirm("Do you want to create a new configuration?")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrCancelled
		}
	}

	cam, err := w.askCamera(ctx)
	if err != nil {
		return nil, err
	}

	loc, err := w.askLocation(ctx)
	if err != nil {
		return nil, err
	}

	offsets, err := w.askAdvanced(&cam)
	if err != nil {
		return nil, err
	}

	cfg := config.New(cam, loc, offsets)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(w.Path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// askCamera repeats address, credentials and the connection test until the
// camera answers or the user gives up.
func (w *Wizard) askCamera(ctx context.Context) (config.Camera, error) {
	for {
		ip, port, err := w.askAddress()
		if err != nil {
			return config.Camera{}, err
		}

		w.Prompt.Say("")
		w.Prompt.Say("You need the username and password you use to log into your camera.")
		username, err := w.Prompt.AskDefault("Camera username", "admin")
		if err != nil {
			return config.Camera{}, err
		}
		password, err := w.Prompt.Password("Camera password (not shown as you type):")
		if err != nil {
			return config.Camera{}, err
		}

		cam := config.Camera{IP: ip, Port: port, Username: username, Password: password, Dialect: config.DefaultDialect}

		w.Prompt.Say("Testing connection to %s...", cam.Address())
		if w.Test(ctx, cam) {
			w.Prompt.Say("Success! Connected to your camera.")
			return cam, nil
		}

		retry, err := w.Prompt.Confirm("Would you like to try again?")
		if err != nil {
			return config.Camera{}, err
		}
		if !retry {
			return config.Camera{}, ErrCancelled
		}
	}
}

func (w *Wizard) askAddress() (string, int, error) {
	w.Prompt.Say("Your camera's IP address looks like 192.168.1.108.")
	w.Prompt.Say("You can find it in your router's connected devices list or with 'daynight scan'.")
	for {
		answer, err := w.Prompt.Ask("Enter your camera's IP address:")
		if err != nil {
			return "", 0, err
		}
		if ip, port, ok := ParseAddress(answer); ok {
			return ip, port, nil
		}
		w.Prompt.Say("That doesn't look like a valid IP address. Please enter something like: 192.168.1.108")
	}
}

func (w *Wizard) askLocation(ctx context.Context) (config.Location, error) {
	w.Prompt.Say("")
	w.Prompt.Say("Your location is needed to calculate sunrise and sunset.")
	w.Prompt.Say("Enter it as City, Country (e.g. Denver, USA or Sydney, Australia).")

	for {
		query, err := w.Prompt.Ask("Enter your location:")
		if err != nil {
			return config.Location{}, err
		}
		if query == "" {
			w.Prompt.Say("Please enter a location.")
			continue
		}

		w.Prompt.Say("Searching for '%s'...", query)
		place, err := w.Places.Search(ctx, query)
		if errors.Is(err, ErrNoMatch) {
			w.Prompt.Say("Sorry, I couldn't find '%s'. Try adding the state or country.", query)
			continue
		}
		if err != nil {
			w.Prompt.Say("Error finding location: %v. Please try again.", err)
			continue
		}

		w.Prompt.Say("Found: %s", place.Address)
		ok, err := w.Prompt.Confirm("Is this correct?")
		if err != nil {
			return config.Location{}, err
		}
		if !ok {
			w.Prompt.Say("Let's try again with a different location.")
			continue
		}

		tz, err := w.Timezone.Resolve(ctx, place.Latitude, place.Longitude)
		if err != nil {
			return config.Location{}, fmt.Errorf("timezone: %w", err)
		}
		w.Prompt.Say("Timezone: %s", tz)

		return config.Location{
			Name:      query,
			Address:   place.Address,
			Timezone:  tz,
			Latitude:  place.Latitude,
			Longitude: place.Longitude,
		}, nil
	}
}

// askAdvanced asks for the port and the offsets. Invalid answers fall back to
// the defaults.
func (w *Wizard) askAdvanced(cam *config.Camera) (config.Offsets, error) {
	w.Prompt.Say("")
	w.Prompt.Say("Advanced settings (optional). Press Enter to keep the defaults.")

	port, err := w.askInt("Camera port", cam.Port)
	if err != nil {
		return config.Offsets{}, err
	}
	if port < 1 || port > 65535 {
		w.Prompt.Say("Invalid port number. Using %d.", cam.Port)
	} else {
		cam.Port = port
	}

	w.Prompt.Say("Offsets move the switch relative to sunrise and sunset, in minutes.")
	w.Prompt.Say("Positive numbers switch later, negative numbers switch earlier.")
	sunrise, err := w.askInt("Minutes after sunrise to switch to day mode", 0)
	if err != nil {
		return config.Offsets{}, err
	}
	sunset, err := w.askInt("Minutes after sunset to switch to night mode", 0)
	if err != nil {
		return config.Offsets{}, err
	}
	return config.Offsets{Sunrise: sunrise, Sunset: sunset}, nil
}

func (w *Wizard) askInt(question string, def int) (int, error) {
	answer, err := w.Prompt.AskDefault(question, strconv.Itoa(def))
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		w.Prompt.Say("Invalid number. Using default (%d).", def)
		return def, nil
	}
	return n, nil
}

// ParseAddress accepts a dotted IPv4 address with an optional ":port".
// The port defaults to config.DefaultPort.
func ParseAddress(s string) (string, int, bool) {
	s = strings.TrimSpace(s)
	host, port := s, config.DefaultPort

	if h, p, err := net.SplitHostPort(s); err == nil {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > 65535 {
			return "", 0, false
		}
		host, port = h, n
	}

	if !IsIPv4(host) {
		return "", 0, false
	}
	return host, port, true
}

// IsIPv4 reports whether s is four dot-separated numbers in 0..255.
func IsIPv4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, part := range parts {
		if part == "" || len(part) > 3 {
			return false
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 255 || strings.HasPrefix(part, "+") || strings.HasPrefix(part, "-") {
			return false
		}
	}
	return net.ParseIP(s) != nil
}
