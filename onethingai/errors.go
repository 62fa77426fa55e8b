package onethingai

import (
	"errors"
	"fmt"
	"net/http"
)

// ConfigurationError reports an invalid client construction, such as a
// missing API key. It is returned by NewClient before any request is made.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid client configuration: " + e.Reason
}

// ValidationError reports malformed request input caught locally.
// No network call is issued when a ValidationError occurs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ProtocolError reports a well-formed HTTP response that violates the
// platform contract: undecodable body, or a success envelope missing a
// required field.
type ProtocolError struct {
	Op     string
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: protocol violation: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: protocol violation: %s", e.Op, e.Reason)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// RemoteError carries a failure reported by the platform verbatim: the
// HTTP status, the envelope code and the server message. Business
// rejections (unknown appId, insufficient balance, conflicts) arrive as
// RemoteError and are never retried.
type RemoteError struct {
	Op         string
	StatusCode int
	Code       int
	Msg        string
}

func (e *RemoteError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: API error (status %d, code %d): %s", e.Op, e.StatusCode, e.Code, e.Msg)
	}
	return fmt.Sprintf("%s: API error (status %d, code %d)", e.Op, e.StatusCode, e.Code)
}

// TransientError wraps the last failure of an exhausted retry sequence.
// Attempts is the total number of requests issued.
type TransientError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: giving up after %d attempt(s): %v", e.Op, e.Attempts, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a RemoteError for a target the
// platform no longer knows, such as an appId after delete.
func IsNotFound(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.StatusCode == http.StatusNotFound
}
