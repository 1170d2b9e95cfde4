package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors returned by the provider and setting-service clients.
// Every outbound fault is converted to one of these kinds at the client
// boundary; the orchestrator never sees a raw transport error.
var (
	// ErrTimeout marks a bounded outbound call that did not complete in time.
	ErrTimeout = errors.New("provider request timed out")
	// ErrSettingsUnavailable marks a machine-setting service transport fault.
	ErrSettingsUnavailable = errors.New("machine-setting service unavailable")
	// ErrCredentialsMissing marks a structurally valid setting response that
	// lacks the required credential fields.
	ErrCredentialsMissing = errors.New("missing payment credentials")
)

// RejectedError is returned when a provider answers with a non-2xx status.
type RejectedError struct {
	StatusCode int
	Body       string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("provider rejected request: status %d: %s", e.StatusCode, e.Body)
}

// MalformedError is returned when a provider response body cannot be decoded.
// Raw keeps the original body for diagnosis.
type MalformedError struct {
	Raw string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed provider response: %s", e.Raw)
}

// isTimeout reports whether err is a deadline or network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
