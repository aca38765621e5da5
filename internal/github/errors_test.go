package github

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_UserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{
			name: "unauthorized with message",
			err:  &APIError{Kind: KindUnauthorized, StatusCode: 401, Message: "Bad credentials"},
			want: "Authentication failed: Bad credentials. Please check your Personal Access Token (PAT).",
		},
		{
			name: "unauthorized without message",
			err:  &APIError{Kind: KindUnauthorized, StatusCode: 401},
			want: "Authentication failed (401 Unauthorized). Please ensure your Personal Access Token (PAT) is correct and has the necessary permissions.",
		},
		{
			name: "http",
			err:  &APIError{Kind: KindHTTP, StatusCode: 502},
			want: "Server responded with status code 502. Please try again later.",
		},
		{
			name: "api",
			err:  &APIError{Kind: KindAPI, StatusCode: 403, Message: "API rate limit exceeded"},
			want: "GitHub API Error (403): API rate limit exceeded. Please try again.",
		},
		{
			name: "invalid request",
			err:  &APIError{Kind: KindInvalidRequest},
			want: "The request URL was invalid. Please check the application's configuration.",
		},
		{
			name: "unknown",
			err:  &APIError{Kind: KindUnknown},
			want: unknownMessage,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.UserMessage())
		})
	}
}

func TestAPIError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &APIError{Kind: KindDecoding, StatusCode: 200, Err: cause}

	assert.Equal(t, "github: decoding-failure (200): boom", err.Error())
	assert.ErrorIs(t, err, ErrDecoding)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNetwork)

	wrapped := fmt.Errorf("load: %w", err)
	assert.Equal(t, KindDecoding, KindOf(wrapped))
	assert.Equal(t, "Failed to process data from the server. boom", Message(wrapped))
}

func TestMessage_NonAPIErrors(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, unknownMessage, Message(errors.New("mystery")))
	assert.Equal(t, "The network request timed out. Please try again.", Message(context.DeadlineExceeded))
	assert.Equal(t, KindUnknown, KindOf(errors.New("mystery")))
}

func TestStatusError(t *testing.T) {
	assert.Equal(t, KindUnauthorized, statusError(401, []byte(`{"message":"Bad credentials"}`)).Kind)
	assert.Equal(t, "Bad credentials", statusError(401, []byte(`{"message":"Bad credentials"}`)).Message)
	assert.Equal(t, KindAPI, statusError(422, []byte(`{"message":"Validation Failed"}`)).Kind)
	assert.Equal(t, KindHTTP, statusError(503, []byte(`<html>`)).Kind)
}
