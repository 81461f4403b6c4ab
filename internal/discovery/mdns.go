package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/camdaynight/daynight/internal/logging"
)

const (
	// HTTPService is the service type cameras advertise their web interface as
	HTTPService = "_http._tcp"

	// RTSPService is the service type of the video stream
	RTSPService = "_rtsp._tcp"

	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	// DefaultScanTimeout is how long a scan listens for answers
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is assumed when only the RTSP service answered
	DefaultPort = 80
)

// Scanner browses mDNS for devices
type Scanner struct {
	// Timeout is how long to listen
	Timeout time.Duration

	// Services are the service types to browse
	Services []string
}

// NewScanner creates a scanner for HTTP and RTSP services
func NewScanner() *Scanner {
	return &Scanner{
		Timeout:  DefaultScanTimeout,
		Services: []string{HTTPService, RTSPService},
	}
}

// Scan listens for the scanner's timeout and returns every device found,
// likely cameras first.
func (s *Scanner) Scan(ctx context.Context) ([]*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	found := newDeviceSet()
	var wg sync.WaitGroup

	for _, service := range s.Services {
		resolver, err := zeroconf.NewResolver(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
		}

		entries := make(chan *zeroconf.ServiceEntry)
		wg.Add(1)
		go func(service string) {
			defer wg.Done()
			for entry := range entries {
				found.add(service, entry)
			}
		}(service)

		if err := resolver.Browse(ctx, service, ServiceDomain, entries); err != nil {
			return nil, fmt.Errorf("failed to browse for %s: %w", service, err)
		}
	}

	<-ctx.Done()
	waitDrained(&wg, time.Second)

	devices := found.list()
	SortDevices(devices)
	logging.Debug("mDNS scan complete", zap.Int("devices", len(devices)))
	return devices, nil
}

// waitDrained waits for the entry readers. zeroconf closes each entries
// channel once its browse has stopped; the limit guards against one that does not.
func waitDrained(wg *sync.WaitGroup, limit time.Duration) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(limit):
	}
}

// deviceSet merges answers for different services by address.
type deviceSet struct {
	mu      sync.Mutex
	devices map[string]*Device
}

func newDeviceSet() *deviceSet {
	return &deviceSet{devices: make(map[string]*Device)}
}

func (ds *deviceSet) add(service string, entry *zeroconf.ServiceEntry) {
	d := parseServiceEntry(service, entry)
	if d == nil {
		return
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	existing, ok := ds.devices[d.IP]
	if !ok {
		ds.devices[d.IP] = d
		return
	}
	if !existing.HasService(service) {
		existing.Services = append(existing.Services, service)
	}
	if service == HTTPService {
		existing.Port = d.Port
		if d.Instance != "" {
			existing.Instance = d.Instance
		}
	}
	for k, v := range d.Metadata {
		if _, ok := existing.Metadata[k]; !ok {
			existing.Metadata[k] = v
		}
	}
}

func (ds *deviceSet) list() []*Device {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	out := make([]*Device, 0, len(ds.devices))
	for _, d := range ds.devices {
		out = append(out, d)
	}
	return out
}

// parseServiceEntry converts a zeroconf entry to a Device. It returns nil if
// the entry carries no address.
func parseServiceEntry(service string, entry *zeroconf.ServiceEntry) *Device {
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := DefaultPort
	if service == HTTPService && entry.Port != 0 {
		port = entry.Port
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		if key != "" {
			metadata[key] = value
		}
	}

	return &Device{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Services:     []string{service},
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}
