package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	assert.Equal(t, "network_failure: Could not reach the server", ErrNetwork.Error())

	withStatus := NewServerError(http.StatusBadGateway, "upstream down")
	assert.Equal(t, "server_error: upstream down (status 502)", withStatus.Error())
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := NewServerError(http.StatusInternalServerError, "boom")
	assert.True(t, errors.Is(err, ErrServer))
	assert.False(t, errors.Is(err, ErrNetwork))

	wrapped := fmt.Errorf("listing teams: %w", err)
	assert.True(t, errors.Is(wrapped, ErrServer))
}

func TestError_IsRejectsForeignErrors(t *testing.T) {
	assert.False(t, errors.Is(errors.New("plain"), ErrNetwork))
}

func TestNewServerError_DefaultMessage(t *testing.T) {
	err := NewServerError(http.StatusInternalServerError, "")
	assert.Equal(t, ErrServer.Message, err.Message)
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
}

func TestAsError(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", NewMalformedError("truncated body"))

	appErr, ok := AsError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "malformed_response", appErr.Code)
	assert.Equal(t, "truncated body", appErr.Message)

	_, ok = AsError(errors.New("plain"))
	assert.False(t, ok)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Invalid username or password",
		UserMessage(fmt.Errorf("login: %w", ErrInvalidCredentials)))
	assert.Equal(t, "Something went wrong", UserMessage(errors.New("plain")))
}
