// Package failure defines the error kinds surfaced by search and page fetches.
package failure

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
)

// Kind classifies a failure.
type Kind string

const (
	// KindInput means a query or URL was malformed or could not be encoded.
	KindInput Kind = "input"
	// KindTransport covers connection failures, timeouts and non-200 statuses.
	KindTransport Kind = "transport"
	// KindDecoding means a response body was not valid UTF-8 text.
	KindDecoding Kind = "decoding"
)

var (
	ErrInvalidQuery = errors.New("invalid search query")
	ErrInvalidURL   = errors.New("invalid url")
)

// Error is a classified failure of a single search or fetch operation.
type Error struct {
	Kind       Kind
	Op         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return string(e.Kind) + ": " + e.Err.Error()
	}
	return e.Op + ": " + string(e.Kind) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Input wraps err as an input failure.
func Input(op string, err error) *Error {
	return &Error{Kind: KindInput, Op: op, Err: err}
}

// Transport wraps err as a transport failure with an optional HTTP status.
func Transport(op string, err error, statusCode int) *Error {
	return &Error{Kind: KindTransport, Op: op, Err: err, StatusCode: statusCode}
}

// Decoding wraps err as a decoding failure.
func Decoding(op string, err error) *Error {
	return &Error{Kind: KindDecoding, Op: op, Err: err}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) (Kind, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}

func IsInput(err error) bool     { return is(err, KindInput) }
func IsTransport(err error) bool { return is(err, KindTransport) }
func IsDecoding(err error) bool  { return is(err, KindDecoding) }

func is(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}

// Classify returns err unchanged when it already carries a kind, and as a
// transport failure when it looks like a network error. Anything else is
// returned as-is.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := KindOf(err); ok {
		return err
	}
	if IsNetwork(err) {
		return Transport(op, err, 0)
	}
	return err
}

// IsCancelled reports whether err stems from caller cancellation rather than
// an operation-level timeout.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsNetwork reports whether err looks like a network-level failure: a
// timeout, connection reset or refusal, or DNS failure.
func IsNetwork(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	patterns := []string{
		"connection reset by peer",
		"broken pipe",
		"temporary failure in name resolution",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
		"server closed idle connection",
		"transport connection broken",
	}
	for _, p := range patterns {
		if strings.Contains(msg, p) {
			return true
		}
	}

	return false
}

// UserMessage turns err into a short human-readable message without
// diagnostic detail.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if IsCancelled(err) {
		return "Research was cancelled"
	}
	switch {
	case errors.Is(err, ErrInvalidQuery):
		return "Invalid search query"
	case errors.Is(err, ErrInvalidURL):
		return "Invalid URL"
	}
	kind, ok := KindOf(err)
	if !ok {
		return "Something went wrong while researching"
	}
	switch kind {
	case KindInput:
		return "Invalid input"
	case KindTransport:
		return "Network error occurred"
	case KindDecoding:
		return "Failed to decode response"
	}
	return "Something went wrong while researching"
}
