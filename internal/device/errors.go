package device

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks on the two environmental failure classes.
var (
	ErrTransport = errors.New("device transport error")
	ErrCodec     = errors.New("device status document error")
)

// TransportError reports a failed exchange with the fireplace: connection
// failure, timeout or a non-2xx response. It carries no appliance semantics.
type TransportError struct {
	Op         string // "fetch status" or "send ButtonPlus", ...
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// CodecError reports a malformed or incomplete status document.
type CodecError struct {
	Param  string // offending param name, empty for document-level failures
	Reason string
	Err    error
}

func (e *CodecError) Error() string {
	msg := "decode state.xml"
	if e.Param != "" {
		msg += fmt.Sprintf(": param %q", e.Param)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CodecError) Unwrap() error { return e.Err }

func (e *CodecError) Is(target error) bool { return target == ErrCodec }
