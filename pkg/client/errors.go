package client

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed renewables.ninja request.
type ErrorKind string

const (
	// KindRateLimited means the credential hit its quota (HTTP 429).
	KindRateLimited ErrorKind = "rate_limited"

	// KindInvalidCredential means the credential was refused (HTTP 403).
	KindInvalidCredential ErrorKind = "invalid_credential"

	// KindUnhandledStatus is any other non-200 status.
	KindUnhandledStatus ErrorKind = "unhandled_status"

	// KindNoCredentialsRemaining means the pool is empty.
	KindNoCredentialsRemaining ErrorKind = "no_credentials_remaining"

	// KindTransport is a network failure before any status was received.
	KindTransport ErrorKind = "transport"
)

// Sentinel errors matched by RequestError through errors.Is.
var (
	ErrRateLimited            = errors.New("rate limited")
	ErrInvalidCredential      = errors.New("invalid credential")
	ErrUnhandledStatus        = errors.New("unhandled status")
	ErrNoCredentialsRemaining = errors.New("no credentials remaining")
	ErrTransport              = errors.New("transport failure")
)

var kindSentinels = map[ErrorKind]error{
	KindRateLimited:            ErrRateLimited,
	KindInvalidCredential:      ErrInvalidCredential,
	KindUnhandledStatus:        ErrUnhandledStatus,
	KindNoCredentialsRemaining: ErrNoCredentialsRemaining,
	KindTransport:              ErrTransport,
}

// RequestError is returned for every failed fetch.
type RequestError struct {
	Kind ErrorKind

	// StatusCode is 0 when no response was received.
	StatusCode int

	// Credential is the fingerprint of the token used, if any.
	Credential string

	URL string
	Err error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	msg := fmt.Sprintf("renewables.ninja %s", e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.URL != "" {
		msg += " for " + e.URL
	}
	if e.Credential != "" {
		msg += " [credential " + e.Credential + "]"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is the sentinel of this error's kind.
func (e *RequestError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first RequestError in err's chain, or ""
// when there is none.
func KindOf(err error) ErrorKind {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Kind
	}
	return ""
}
