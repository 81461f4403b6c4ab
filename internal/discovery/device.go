package discovery

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// cameraPattern matches instance and host names typical of Dahua and OEM cameras
var cameraPattern = regexp.MustCompile(`(?i)(^IPC|^DH-|dahua|amcrest|camera|\bcam\b|^NVR)`)

// Device is one host found on the network
type Device struct {
	// Instance is the advertised service instance name (e.g., "IPC-HDW2431T")
	Instance string

	// Hostname is the mDNS hostname (e.g., "IPC-HDW2431T.local.")
	Hostname string

	// IP is the device address, IPv4 when one was advertised
	IP string

	// Port is the HTTP port (80 unless the HTTP service says otherwise)
	Port int

	// Services lists the service types the device answered for
	Services []string

	// Metadata contains the TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the device first answered
	DiscoveredAt time.Time
}

// String returns a human-readable description
func (d *Device) String() string {
	name := d.Instance
	if name == "" {
		name = strings.TrimSuffix(d.Hostname, ".")
	}
	return fmt.Sprintf("%s at %s:%d", name, d.IP, d.Port)
}

// Address returns "ip:port"
func (d *Device) Address() string {
	return fmt.Sprintf("%s:%d", d.IP, d.Port)
}

// BaseURL returns the HTTP base URL for the device
func (d *Device) BaseURL() string {
	return "http://" + d.Address()
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}

// HasService reports whether the device answered for the service type.
func (d *Device) HasService(service string) bool {
	for _, s := range d.Services {
		if s == service {
			return true
		}
	}
	return false
}

// LikelyCamera reports whether the device streams RTSP or carries a camera
// vendor name.
func (d *Device) LikelyCamera() bool {
	if d.HasService(RTSPService) {
		return true
	}
	return cameraPattern.MatchString(d.Instance) || cameraPattern.MatchString(d.Hostname)
}

// SortDevices orders likely cameras first, then by IP.
func SortDevices(devices []*Device) {
	sort.SliceStable(devices, func(i, j int) bool {
		ci, cj := devices[i].LikelyCamera(), devices[j].LikelyCamera()
		if ci != cj {
			return ci
		}
		return devices[i].IP < devices[j].IP
	})
}
