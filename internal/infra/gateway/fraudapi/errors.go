package fraudapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

var (
	// ErrNotFound is matched by errors.Is for a backend 404.
	ErrNotFound = errors.New("not found")
	// ErrMalformedResponse is returned when a payload cannot be decoded.
	ErrMalformedResponse = errors.New("malformed backend response")
)

// TransportError wraps a failure to reach the backend: timeout, refused
// connection, DNS.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: backend unreachable: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: backend error: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: backend error: status %d", e.Op, e.StatusCode)
}

// Is lets errors.Is(err, ErrNotFound) match a 404.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// IsTransportError checks if an error is (or wraps) a TransportError
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsNotFound checks if an error is (or wraps) a backend 404
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// UserMessage returns the message the backend attached to err, or fallback.
func UserMessage(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// errorMessage pulls "error" or "detail" out of an error body. Django REST
// framework puts validation failures in a field map, so the first field
// message is used as a last resort.
func errorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	parsed := gjson.ParseBytes(body)
	for _, key := range []string{"error", "detail", "message"} {
		if v := parsed.Get(key); v.Exists() && v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	var msg string
	if parsed.IsObject() {
		parsed.ForEach(func(key, value gjson.Result) bool {
			if value.IsArray() && len(value.Array()) > 0 {
				msg = key.String() + ": " + value.Array()[0].String()
				return false
			}
			return true
		})
	}
	return msg
}
