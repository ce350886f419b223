package fetch

import (
	"errors"
	"fmt"
)

// Kind classifies a terminal fetch failure.
type Kind string

const (
	KindNetwork       Kind = "network"
	KindRateLimited   Kind = "rate_limited"
	KindRequestFailed Kind = "request_failed"
	KindServerError   Kind = "server_error"
	KindEmptyResponse Kind = "empty_response"
	KindParsingFailed Kind = "parsing_failed"
	KindCanceled      Kind = "canceled"
)

// Error is the terminal failure returned by Execute.
type Error struct {
	Kind       Kind
	StatusCode int
	Attempts   int
	URL        string
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("fetch %s: %s after %d attempt(s)", redactURL(e.URL), e.Kind, e.Attempts)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (http %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind carried by err, or "" when err is not a fetch error.
func KindOf(err error) Kind {
	var fetchErr *Error
	if errors.As(err, &fetchErr) {
		return fetchErr.Kind
	}
	return ""
}

// IsRetryable reports whether the kind is one the executor retries before giving up.
func (k Kind) IsRetryable() bool {
	switch k {
	case KindNetwork, KindRateLimited, KindServerError, KindParsingFailed:
		return true
	default:
		return false
	}
}
