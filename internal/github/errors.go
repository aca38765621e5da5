package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Kind classifies a failed API call.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidRequest
	KindUnauthorized
	KindHTTP
	KindAPI
	KindDecoding
	KindNetwork
)

// Sentinel errors matching each Kind, for use with errors.Is.
var (
	ErrUnknown        = errors.New("unknown error")
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrHTTPStatus     = errors.New("http error")
	ErrAPI            = errors.New("api error")
	ErrDecoding       = errors.New("decoding failure")
	ErrNetwork        = errors.New("network failure")
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid-request"
	case KindUnauthorized:
		return "unauthorized"
	case KindHTTP:
		return "http-error"
	case KindAPI:
		return "api-error"
	case KindDecoding:
		return "decoding-failure"
	case KindNetwork:
		return "network-failure"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidRequest:
		return ErrInvalidRequest
	case KindUnauthorized:
		return ErrUnauthorized
	case KindHTTP:
		return ErrHTTPStatus
	case KindAPI:
		return ErrAPI
	case KindDecoding:
		return ErrDecoding
	case KindNetwork:
		return ErrNetwork
	default:
		return ErrUnknown
	}
}

// APIError is the classified failure returned by every Client method.
type APIError struct {
	Kind       Kind
	StatusCode int    // zero unless the server responded
	Message    string // server supplied message, when one was decoded
	Err        error  // underlying cause, may be nil
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString("github: ")
	b.WriteString(e.Kind.String())
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (%d)", e.StatusCode)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the Kind sentinel and the underlying cause.
func (e *APIError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

// UserMessage returns text suitable for showing to the person at the keyboard.
func (e *APIError) UserMessage() string {
	switch e.Kind {
	case KindInvalidRequest:
		return "The request URL was invalid. Please check the application's configuration."
	case KindUnauthorized:
		if e.Message != "" {
			return fmt.Sprintf("Authentication failed: %s. Please check your Personal Access Token (PAT).", e.Message)
		}
		return "Authentication failed (401 Unauthorized). Please ensure your Personal Access Token (PAT) is correct and has the necessary permissions."
	case KindHTTP:
		return fmt.Sprintf("Server responded with status code %d. Please try again later.", e.StatusCode)
	case KindAPI:
		return fmt.Sprintf("GitHub API Error (%d): %s. Please try again.", e.StatusCode, e.Message)
	case KindDecoding:
		if e.Err != nil {
			return "Failed to process data from the server. " + e.Err.Error()
		}
		return "Failed to process data from the server."
	case KindNetwork:
		return networkMessage(e.Err)
	default:
		return unknownMessage
	}
}

const unknownMessage = "An unexpected error occurred. Please try again."

// KindOf reports the Kind of err, or KindUnknown when err is not an *APIError.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// Message maps any error to display text. Nil yields "".
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return networkMessage(err)
	}
	return unknownMessage
}

func networkMessage(err error) string {
	if err == nil {
		return "A network error occurred."
	}
	if errors.Is(err, context.Canceled) {
		return "The request was cancelled."
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "The network request timed out. Please try again."
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "The network request timed out. Please try again."
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "Could not resolve the GitHub API host. Please check your network settings."
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return "Could not connect to the server. The GitHub API might be temporarily unavailable."
	}
	return "A network error occurred: " + err.Error()
}

func invalidRequest(format string, args ...any) *APIError {
	return &APIError{Kind: KindInvalidRequest, Err: fmt.Errorf(format, args...)}
}

func networkError(err error) *APIError {
	return &APIError{Kind: KindNetwork, Err: err}
}

// statusError classifies a non-2xx response. A body carrying GitHub's
// {"message": ...} envelope upgrades the error to unauthorized(msg) or api.
func statusError(status int, body []byte) *APIError {
	var payload errorResponse
	message := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		message = strings.TrimSpace(payload.Message)
	}

	switch {
	case status == 401:
		return &APIError{Kind: KindUnauthorized, StatusCode: status, Message: message}
	case message != "":
		return &APIError{Kind: KindAPI, StatusCode: status, Message: message}
	default:
		return &APIError{Kind: KindHTTP, StatusCode: status}
	}
}
