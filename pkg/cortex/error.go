package cortex

import (
	"errors"
	"fmt"
)

// Error is the structured fault Cortex returns in place of a result:
// a numeric code plus a human-readable message. Every API method
// returns it as the error value when the service rejects the call, so
// callers branch on the response shape exactly once:
//
//	list, err := client.QuerySubjects(ctx, token, query)
//	if apiErr, ok := cortex.AsError(err); ok {
//		// service fault: apiErr.Code, apiErr.Message
//	}
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("cortex: %s (code=%d)", e.Message, e.Code)
}

// AsError reports whether err is (or wraps) a Cortex service fault.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

var (
	// ErrNotConnected is returned for calls issued before Dial.
	ErrNotConnected = errors.New("not connected")

	// ErrClosed is returned when the connection was closed while a
	// call or warning wait was in flight.
	ErrClosed = errors.New("connection closed")

	// ErrCallTimeout is returned when no response arrived for a call
	// within the client timeout.
	ErrCallTimeout = errors.New("timed out waiting for response")

	// ErrWarningTimeout is returned when no matching warning arrived
	// within the client timeout.
	ErrWarningTimeout = errors.New("timed out waiting for warning")
)
