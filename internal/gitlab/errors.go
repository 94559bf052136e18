package gitlab

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a fetch did not return file contents
type ErrorKind int

const (
	// KindUnknown is never produced by the fetcher; it is the zero value
	KindUnknown ErrorKind = iota
	// UnmappedComponent means the component has no path for the artifact kind
	UnmappedComponent
	// MissingCredential means no token could be resolved
	MissingCredential
	// AuthFailed means the host answered 401 or 403
	AuthFailed
	// NotFound means the host answered 404
	NotFound
	// HTTPError is any other non-success status
	HTTPError
	// NetworkError means no response was received
	NetworkError
)

// String implements fmt.Stringer
func (k ErrorKind) String() string {
	switch k {
	case UnmappedComponent:
		return "unmapped component"
	case MissingCredential:
		return "missing credential"
	case AuthFailed:
		return "authentication failed"
	case NotFound:
		return "file not found"
	case HTTPError:
		return "http error"
	case NetworkError:
		return "network error"
	default:
		return "unknown"
	}
}

// Error is the failure outcome of a fetch. Status and URL are set when known.
type Error struct {
	Kind      ErrorKind
	Component string
	Status    int
	URL       string
	Err       error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch e.Kind {
	case UnmappedComponent:
		return fmt.Sprintf("component %s has no mapped path", e.Component)
	case MissingCredential:
		return fmt.Sprintf("missing GitLab personal access token for %s", e.Component)
	case AuthFailed:
		return fmt.Sprintf("authentication failed for %s (HTTP %d): token invalid or insufficient scope", e.Component, e.Status)
	case NotFound:
		return fmt.Sprintf("file for %s not found (HTTP %d): check mapping, branch, or path", e.Component, e.Status)
	case HTTPError:
		return fmt.Sprintf("fetching %s failed: HTTP %d", e.Component, e.Status)
	case NetworkError:
		return fmt.Sprintf("network error fetching %s: %v", e.Component, e.Err)
	default:
		return fmt.Sprintf("fetching %s failed", e.Component)
	}
}

// Unwrap returns the underlying transport error, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the ErrorKind carried by err, or KindUnknown when err is not
// a fetch error
func KindOf(err error) ErrorKind {
	var fetchErr *Error
	if errors.As(err, &fetchErr) {
		return fetchErr.Kind
	}
	return KindUnknown
}

// AsError extracts the fetch error from err
func AsError(err error) (*Error, bool) {
	var fetchErr *Error
	if errors.As(err, &fetchErr) {
		return fetchErr, true
	}
	return nil, false
}
