package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an API failure for the UI layer.
type Kind string

const (
	// KindAuthExpired means the bearer token is missing, invalid or expired.
	// The caller must clear credentials and return to the login flow.
	KindAuthExpired Kind = "auth_expired"

	// KindForbidden means the server refused the operation for this role.
	KindForbidden Kind = "forbidden"

	// KindNotFound means the target does not exist. For delete-type
	// mutations callers may treat this as "already gone".
	KindNotFound Kind = "not_found"

	// KindConflict means the server rejected the change as conflicting.
	KindConflict Kind = "conflict"

	// KindServerError covers 5xx responses.
	KindServerError Kind = "server_error"

	// KindNetworkFailure means the request never produced a response.
	KindNetworkFailure Kind = "network_failure"

	// KindUnexpected covers any other non-2xx status.
	KindUnexpected Kind = "unexpected"
)

// Error is the single normalized shape every remote failure collapses to.
// Local state is never touched when one of these is returned.
type Error struct {
	Kind    Kind
	Status  int // HTTP status, 0 for transport failures
	Message string
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api: %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("api: %s: %s", e.Kind, e.Message)
}

// ErrNotImplemented marks a UI capability with no backing endpoint.
// The pending-news bulk delete is the known case.
var ErrNotImplemented = errors.New("api: not implemented by the server")

// KindOf extracts the Kind from err, or KindUnexpected if err is not an
// *Error. Returns "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnexpected
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// kindForStatus maps an HTTP status to an error kind.
func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuthExpired
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status >= 500:
		return KindServerError
	default:
		return KindUnexpected
	}
}
