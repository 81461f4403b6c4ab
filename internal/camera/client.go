package camera

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/camdaynight/daynight/internal/config"
	"github.com/camdaynight/daynight/internal/logging"
	"github.com/camdaynight/daynight/internal/version"
)

// DefaultTimeout bounds every request to the camera
const DefaultTimeout = 10 * time.Second

// Client talks to one camera. It holds no switch state, so repeated calls
// are independent.
type Client struct {
	host     string
	baseURL  string
	dialect  *Dialect
	profiles config.Profiles
	http     *resty.Client
}

// NewClient creates a client for the camera described by cam.
func NewClient(cam config.Camera, profiles config.Profiles) (*Client, error) {
	return NewClientWithURL("http://"+cam.Address(), cam, profiles)
}

// NewClientWithURL creates a client against an explicit base URL
// (e.g. "http://192.168.1.108:80"). cam supplies credentials and dialect.
func NewClientWithURL(baseURL string, cam config.Camera, profiles config.Profiles) (*Client, error) {
	dialectName := cam.Dialect
	if dialectName == "" {
		dialectName = config.DefaultDialect
	}
	dialect, err := LookupDialect(dialectName)
	if err != nil {
		return nil, err
	}

	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(DefaultTimeout).
		SetHeader("User-Agent", version.UserAgent()).
		SetDigestAuth(cam.Username, cam.Password)

	return &Client{
		host:     cam.Address(),
		baseURL:  baseURL,
		dialect:  dialect,
		profiles: profiles,
		http:     r,
	}, nil
}

// BaseURL returns the camera's base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Dialect returns the API layout in use
func (c *Client) Dialect() *Dialect {
	return c.dialect
}

// SetTimeout changes the per-request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.http.SetTimeout(timeout)
}

// get issues one GET and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, path string) (string, error) {
	logging.Debug("Camera request", zap.String("host", c.host), zap.String("path", path))

	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return "", newNetworkError("request to "+c.host+" failed", err, c.host)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", newHTTPError(resp.StatusCode(), c.host, path)
	}
	return resp.String(), nil
}

// Ping runs the status query and returns nil if the camera answered 200.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, c.dialect.Status)
	return err
}

// TestConnection reports whether the camera is reachable with the configured
// credentials. It does not change camera state.
func (c *Client) TestConnection(ctx context.Context) bool {
	if err := c.Ping(ctx); err != nil {
		logging.Error("Camera connection test failed", zap.String("host", c.host), zap.Error(err))
		return false
	}
	logging.Info("Successfully connected to camera", zap.String("host", c.host))
	return true
}

// SystemInfo returns the key=value pairs of the status query
// (deviceType, serialNumber, ...).
func (c *Client) SystemInfo(ctx context.Context) (map[string]string, error) {
	body, err := c.get(ctx, c.dialect.Status)
	if err != nil {
		return nil, err
	}
	return parseKeyValues(body), nil
}

// CurrentProfile returns the active video input profile as the camera reports it.
func (c *Client) CurrentProfile(ctx context.Context) (string, error) {
	if c.dialect.GetProfile == "" {
		return "", fmt.Errorf("dialect %s cannot read the active profile", c.dialect.Name)
	}
	body, err := c.get(ctx, c.dialect.GetProfile)
	if err != nil {
		return "", err
	}
	for key, value := range parseKeyValues(body) {
		if strings.HasSuffix(key, "Config[0]") {
			return value, nil
		}
	}
	return strings.TrimSpace(body), nil
}

// SetProfile selects a video input profile.
func (c *Client) SetProfile(ctx context.Context, profile int) error {
	_, err := c.get(ctx, c.dialect.SetProfilePath(profile))
	return err
}

// SetInfrared sets the IR-cut filter switch mode.
func (c *Client) SetInfrared(ctx context.Context, mode int) error {
	_, err := c.get(ctx, c.dialect.SetInfraredPath(mode))
	return err
}

// SwitchToDay selects the day profile and opens the IR-cut filter.
// It returns false if the profile command failed.
func (c *Client) SwitchToDay(ctx context.Context) bool {
	return c.apply(ctx, "day", c.profiles.Day, c.dialect.InfraredDay)
}

// SwitchToNight selects the night profile and closes the IR-cut filter.
// It returns false if the profile command failed.
func (c *Client) SwitchToNight(ctx context.Context) bool {
	return c.apply(ctx, "night", c.profiles.Night, c.dialect.InfraredNight)
}

func (c *Client) apply(ctx context.Context, mode string, profile, infrared int) bool {
	profileErr := c.SetProfile(ctx, profile)

	// The filter command is best-effort: not every model supports it.
	if err := c.SetInfrared(ctx, infrared); err != nil {
		logging.Warn("Infrared filter command failed",
			zap.String("mode", mode),
			zap.Int("value", infrared),
			zap.Error(err),
		)
	}

	logging.LogSwitch(mode, profileErr == nil, profileErr)
	return profileErr == nil
}

// parseKeyValues reads "key=value" lines, ignoring anything else.
func parseKeyValues(body string) map[string]string {
	values := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, ok := strings.Cut(line, "=")
		if !ok || key == "" {
			continue
		}
		values[key] = value
	}
	return values
}
