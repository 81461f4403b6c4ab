// Package discovery finds network cameras on the local network with mDNS.
//
// Many IP cameras announce their web interface as an "_http._tcp" service and
// their video stream as "_rtsp._tcp". The scanner browses both, merges the
// answers by address and flags the devices that look like cameras, so
// `daynight scan` can suggest an address for `daynight setup`.
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
//
// Cameras with mDNS disabled (the factory default on some firmware) will not
// be found; their address has to come from the router.
package discovery
