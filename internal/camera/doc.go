// Package camera provides the HTTP client that switches a network camera
// between its day and night imaging profiles.
//
// The client speaks the camera's CGI control API over HTTP GET with digest
// authentication. Endpoint paths come from a dialect in the embedded catalog
// (dialects.yaml); Dahua is the default and Amcrest shares its layout.
//
// # Usage Example
//
//	client, err := camera.NewClient(cfg.Camera, cfg.Profiles)
//	if err != nil {
//	    return err
//	}
//
//	if !client.TestConnection(ctx) {
//	    return errors.New("camera unreachable")
//	}
//
//	client.SwitchToNight(ctx)
//
// # Switch Semantics
//
// A switch sends two commands: the profile change, carrying the configured
// profile id, and the infrared-cut-filter change (0 for day, 1 for night).
// Both are always sent. Only the profile command decides the reported result;
// a failed infrared command is logged and otherwise ignored.
//
// Every request is bounded by DefaultTimeout and attempted once. Failures
// are returned as *Error and reported as false by the switch methods; the
// client keeps no state between calls.
package camera
