package camera

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"syscall"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates the request exceeded its deadline
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates the camera refused the connection
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a hostname could not be resolved
	ErrTypeDNS
	// ErrTypeAuth indicates the camera rejected the credentials
	ErrTypeAuth
	// ErrTypeHTTP indicates a non-200 response
	ErrTypeHTTP
	// ErrTypeParse indicates an unreadable response body
	ErrTypeParse
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error is a failed camera request.
type Error struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Host       string    // Camera address, for context
	Err        error     // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError maps a transport error to an *Error.
func ClassifyNetworkError(err error, host string) *Error {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &Error{Type: ErrTypeTimeout, Message: "request timed out", Host: host, Err: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{Type: ErrTypeDNS, Message: fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name), Host: host, Err: err}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch {
		case errors.Is(opErr.Err, syscall.ECONNREFUSED):
			return &Error{Type: ErrTypeConnectionRefused, Message: "camera refused connection", Host: host, Err: err}
		case errors.Is(opErr.Err, syscall.EHOSTUNREACH):
			return &Error{Type: ErrTypeNetwork, Message: "host unreachable", Host: host, Err: err}
		case errors.Is(opErr.Err, syscall.ENETUNREACH):
			return &Error{Type: ErrTypeNetwork, Message: "network unreachable", Host: host, Err: err}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return ClassifyNetworkError(urlErr.Err, host)
	}

	return &Error{Type: ErrTypeNetwork, Message: "network error occurred", Host: host, Err: err}
}

// newNetworkError classifies err and replaces its message.
func newNetworkError(message string, err error, host string) *Error {
	classified := ClassifyNetworkError(err, host)
	classified.Message = message + ": " + classified.Message
	return classified
}

// newHTTPError creates an error for a non-200 response
func newHTTPError(statusCode int, host, path string) *Error {
	if statusCode == http.StatusUnauthorized {
		return &Error{Type: ErrTypeAuth, Message: "authentication failed (check username and password)", StatusCode: statusCode, Host: host}
	}
	return &Error{Type: ErrTypeHTTP, Message: fmt.Sprintf("%s returned HTTP %d", path, statusCode), StatusCode: statusCode, Host: host}
}

func errorType(err error) (ErrorType, bool) {
	var camErr *Error
	if errors.As(err, &camErr) {
		return camErr.Type, true
	}
	return 0, false
}

// IsNetworkError checks if an error is a network error (including timeout, connection refused, DNS)
func IsNetworkError(err error) bool {
	t, ok := errorType(err)
	return ok && (t == ErrTypeNetwork || t == ErrTypeTimeout || t == ErrTypeConnectionRefused || t == ErrTypeDNS)
}

// IsTimeoutError checks if an error is a timeout
func IsTimeoutError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeTimeout
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeAuth
}

// IsHTTPError checks if an error is an HTTP status error
func IsHTTPError(err error) bool {
	t, ok := errorType(err)
	return ok && t == ErrTypeHTTP
}

// TroubleshootingHints returns user-facing advice for a camera error.
func TroubleshootingHints(err error) []string {
	var camErr *Error
	if !errors.As(err, &camErr) {
		return []string{"Check the log file for details"}
	}

	switch camErr.Type {
	case ErrTypeTimeout:
		return []string{
			"Check that the camera is powered on",
			"Verify the IP address in the configuration",
			"Make sure this computer is on the same network as the camera",
		}
	case ErrTypeConnectionRefused:
		return []string{
			"Verify the HTTP port (default is 80)",
			"Check that the camera's HTTP service is enabled",
		}
	case ErrTypeDNS:
		return []string{
			"Use the camera's IP address instead of a hostname",
		}
	case ErrTypeAuth:
		return []string{
			"Check the username and password",
			"The default username is often 'admin'",
			"Too many failed logins can lock the account for a while",
		}
	case ErrTypeHTTP:
		if camErr.StatusCode == http.StatusNotFound || camErr.StatusCode == http.StatusBadRequest {
			return []string{
				"The camera does not recognise the command",
				"Check the 'dialect' setting matches your camera",
			}
		}
		return []string{
			"The camera reported an error; try rebooting it",
		}
	default:
		return []string{
			"Check your network connection",
			"Try pinging the camera: ping " + camErr.Host,
		}
	}
}
