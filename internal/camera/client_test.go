package camera

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/camdaynight/daynight/internal/config"
)

const mockSystemInfo = "deviceType=IPC-HDW2431T-AS-S2\r\nhardwareVersion=1.00\r\nserialNumber=7H0123PAZ00042\r\nupdateSerial=IPC-HDW2431T\r\n"

var testCamera = config.Camera{IP: "192.168.1.108", Port: 80, Username: "admin", Password: "secret", Dialect: "dahua"}

// cameraRecorder is a fake camera that records the query of every request.
type cameraRecorder struct {
	mu       sync.Mutex
	queries  []map[string]string
	status   int
	irStatus int
}

func (c *cameraRecorder) handler(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()

	query := make(map[string]string)
	for key, values := range r.URL.Query() {
		query[key] = values[0]
	}
	query["path"] = r.URL.Path
	c.queries = append(c.queries, query)

	status := c.status
	if _, ok := query["VideoInOptions[0].NightOptions.SwitchMode"]; ok && c.irStatus != 0 {
		status = c.irStatus
	}
	if status == 0 {
		status = http.StatusOK
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Digest realm="Login to 7H0123PAZ00042", qop="auth", nonce="1234567890", opaque="abcdef"`)
	}
	w.WriteHeader(status)

	if query["action"] == "getSystemInfo" {
		_, _ = w.Write([]byte(mockSystemInfo))
		return
	}
	if query["action"] == "getConfig" {
		_, _ = w.Write([]byte("table.VideoInMode[0].Config[0]=1\r\ntable.VideoInMode[0].Mode=0\r\n"))
		return
	}
	_, _ = w.Write([]byte("OK"))
}

func (c *cameraRecorder) requests() []map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]map[string]string(nil), c.queries...)
}

func newTestClient(t *testing.T, rec *cameraRecorder, profiles config.Profiles) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(rec.handler))
	t.Cleanup(server.Close)

	client, err := NewClientWithURL(server.URL, testCamera, profiles)
	if err != nil {
		t.Fatalf("NewClientWithURL() error = %v", err)
	}
	return client
}

func TestNewClient(t *testing.T) {
	client, err := NewClient(testCamera, config.DefaultProfiles())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if client.BaseURL() != "http://192.168.1.108:80" {
		t.Errorf("BaseURL = %s, want http://192.168.1.108:80", client.BaseURL())
	}
	if client.Dialect().Name != "dahua" {
		t.Errorf("Dialect = %s, want dahua", client.Dialect().Name)
	}
}

func TestNewClientDefaultsDialect(t *testing.T) {
	cam := testCamera
	cam.Dialect = ""

	client, err := NewClient(cam, config.DefaultProfiles())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if client.Dialect().Name != config.DefaultDialect {
		t.Errorf("Dialect = %s, want %s", client.Dialect().Name, config.DefaultDialect)
	}
}

func TestNewClientUnknownDialect(t *testing.T) {
	cam := testCamera
	cam.Dialect = "hikvision-isapi"

	if _, err := NewClient(cam, config.DefaultProfiles()); err == nil {
		t.Error("NewClient() should fail for an unknown dialect")
	}
}

func TestSwitchToDay(t *testing.T) {
	rec := &cameraRecorder{}
	client := newTestClient(t, rec, config.Profiles{Day: 0, Night: 1})

	if !client.SwitchToDay(context.Background()) {
		t.Fatal("SwitchToDay() = false, want true")
	}

	reqs := rec.requests()
	if len(reqs) != 2 {
		t.Fatalf("request count = %d, want 2", len(reqs))
	}
	if reqs[0]["path"] != "/cgi-bin/configManager.cgi" || reqs[0]["action"] != "setConfig" {
		t.Errorf("first request = %v, want setConfig on configManager.cgi", reqs[0])
	}
	if got := reqs[0]["VideoInMode[0].Config[0]"]; got != "0" {
		t.Errorf("profile = %q, want 0", got)
	}
	if got := reqs[1]["VideoInOptions[0].NightOptions.SwitchMode"]; got != "0" {
		t.Errorf("infrared = %q, want 0", got)
	}
}

func TestSwitchToNight(t *testing.T) {
	rec := &cameraRecorder{}
	client := newTestClient(t, rec, config.Profiles{Day: 0, Night: 1})

	if !client.SwitchToNight(context.Background()) {
		t.Fatal("SwitchToNight() = false, want true")
	}

	reqs := rec.requests()
	if len(reqs) != 2 {
		t.Fatalf("request count = %d, want 2", len(reqs))
	}
	if got := reqs[0]["VideoInMode[0].Config[0]"]; got != "1" {
		t.Errorf("profile = %q, want 1", got)
	}
	if got := reqs[1]["VideoInOptions[0].NightOptions.SwitchMode"]; got != "1" {
		t.Errorf("infrared = %q, want 1", got)
	}
}

func TestSwitchUsesConfiguredProfiles(t *testing.T) {
	rec := &cameraRecorder{}
	client := newTestClient(t, rec, config.Profiles{Day: 2, Night: 3})

	client.SwitchToDay(context.Background())
	client.SwitchToNight(context.Background())

	reqs := rec.requests()
	if len(reqs) != 4 {
		t.Fatalf("request count = %d, want 4", len(reqs))
	}
	if got := reqs[0]["VideoInMode[0].Config[0]"]; got != "2" {
		t.Errorf("day profile = %q, want 2", got)
	}
	if got := reqs[2]["VideoInMode[0].Config[0]"]; got != "3" {
		t.Errorf("night profile = %q, want 3", got)
	}
}

func TestSwitchNon200(t *testing.T) {
	rec := &cameraRecorder{status: http.StatusInternalServerError}
	client := newTestClient(t, rec, config.DefaultProfiles())

	if client.SwitchToNight(context.Background()) {
		t.Error("SwitchToNight() = true, want false for HTTP 500")
	}
	// The filter command is still attempted.
	if n := len(rec.requests()); n != 2 {
		t.Errorf("request count = %d, want 2", n)
	}
}

func TestSwitchInfraredFailureIgnored(t *testing.T) {
	rec := &cameraRecorder{irStatus: http.StatusBadRequest}
	client := newTestClient(t, rec, config.DefaultProfiles())

	if !client.SwitchToDay(context.Background()) {
		t.Error("SwitchToDay() = false, want true when only the filter command fails")
	}
}

func TestSwitchIsStateless(t *testing.T) {
	rec := &cameraRecorder{}
	client := newTestClient(t, rec, config.DefaultProfiles())

	first := client.SwitchToDay(context.Background())
	second := client.SwitchToDay(context.Background())

	if !first || !second {
		t.Errorf("SwitchToDay() = %v, %v, want true, true", first, second)
	}
	if n := len(rec.requests()); n != 4 {
		t.Errorf("request count = %d, want 4 (no call skipped)", n)
	}
}

func TestSwitchNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClientWithURL(url, testCamera, config.DefaultProfiles())
	if err != nil {
		t.Fatalf("NewClientWithURL() error = %v", err)
	}
	client.SetTimeout(2 * time.Second)

	if client.SwitchToDay(context.Background()) {
		t.Error("SwitchToDay() = true, want false for an unreachable camera")
	}

	err = client.Ping(context.Background())
	if !IsNetworkError(err) {
		t.Errorf("Ping() error = %v, want network error", err)
	}
}

func TestTestConnection(t *testing.T) {
	rec := &cameraRecorder{}
	client := newTestClient(t, rec, config.DefaultProfiles())

	if !client.TestConnection(context.Background()) {
		t.Fatal("TestConnection() = false, want true")
	}

	reqs := rec.requests()
	if len(reqs) != 1 {
		t.Fatalf("request count = %d, want 1", len(reqs))
	}
	if reqs[0]["path"] != "/cgi-bin/magicBox.cgi" || reqs[0]["action"] != "getSystemInfo" {
		t.Errorf("request = %v, want getSystemInfo", reqs[0])
	}
}

func TestTestConnectionUnauthorized(t *testing.T) {
	rec := &cameraRecorder{status: http.StatusUnauthorized}
	client := newTestClient(t, rec, config.DefaultProfiles())

	if client.TestConnection(context.Background()) {
		t.Error("TestConnection() = true, want false")
	}

	err := client.Ping(context.Background())
	if !IsAuthError(err) {
		t.Errorf("Ping() error = %v, want auth error", err)
	}
}

func TestDigestChallenge(t *testing.T) {
	var mu sync.Mutex
	var authorized int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Digest ") {
			w.Header().Set("WWW-Authenticate", `Digest realm="Login to 7H0123PAZ00042", qop="auth", nonce="1234567890", opaque="abcdef"`)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if !strings.Contains(auth, `username="admin"`) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		mu.Lock()
		authorized++
		mu.Unlock()
		_, _ = w.Write([]byte(mockSystemInfo))
	}))
	defer server.Close()

	client, err := NewClientWithURL(server.URL, testCamera, config.DefaultProfiles())
	if err != nil {
		t.Fatalf("NewClientWithURL() error = %v", err)
	}

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if authorized != 1 {
		t.Errorf("authorized requests = %d, want 1", authorized)
	}
}

func TestSystemInfo(t *testing.T) {
	client := newTestClient(t, &cameraRecorder{}, config.DefaultProfiles())

	info, err := client.SystemInfo(context.Background())
	if err != nil {
		t.Fatalf("SystemInfo() error = %v", err)
	}
	if info["deviceType"] != "IPC-HDW2431T-AS-S2" {
		t.Errorf("deviceType = %s, want IPC-HDW2431T-AS-S2", info["deviceType"])
	}
	if info["serialNumber"] != "7H0123PAZ00042" {
		t.Errorf("serialNumber = %s, want 7H0123PAZ00042", info["serialNumber"])
	}
}

func TestCurrentProfile(t *testing.T) {
	client := newTestClient(t, &cameraRecorder{}, config.DefaultProfiles())

	profile, err := client.CurrentProfile(context.Background())
	if err != nil {
		t.Fatalf("CurrentProfile() error = %v", err)
	}
	if profile != "1" {
		t.Errorf("CurrentProfile() = %s, want 1", profile)
	}
}

func TestParseKeyValues(t *testing.T) {
	values := parseKeyValues("a=1\r\n\r\nnot a pair\r\nb=x=y\r\n=empty\r\n")

	if len(values) != 2 {
		t.Fatalf("len = %d, want 2 (%v)", len(values), values)
	}
	if values["a"] != "1" {
		t.Errorf("a = %s, want 1", values["a"])
	}
	if values["b"] != "x=y" {
		t.Errorf("b = %s, want x=y", values["b"])
	}
}

func TestErrorClassification(t *testing.T) {
	err := newHTTPError(http.StatusUnauthorized, "10.0.0.5:80", "/cgi-bin/magicBox.cgi")
	if !IsAuthError(err) {
		t.Errorf("401 should classify as auth error, got %v", err)
	}

	err = newHTTPError(http.StatusNotFound, "10.0.0.5:80", "/cgi-bin/magicBox.cgi")
	if !IsHTTPError(err) {
		t.Errorf("404 should classify as HTTP error, got %v", err)
	}

	var camErr *Error
	if !errors.As(err, &camErr) || camErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode should be 404, got %v", err)
	}

	if hints := TroubleshootingHints(err); len(hints) == 0 {
		t.Error("TroubleshootingHints() should not be empty for an HTTP error")
	}
}
