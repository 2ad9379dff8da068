package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromResponse(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    Kind
		message string
	}{
		{"unauthorized with message", http.StatusUnauthorized, `{"message":"Invalid credentials"}`, KindCredential, "Invalid credentials"},
		{"forbidden without body", http.StatusForbidden, ``, KindForbidden, defaultMessages[KindForbidden]},
		{"unprocessable", http.StatusUnprocessableEntity, `{"message":"The email has already been taken."}`, KindValidation, "The email has already been taken."},
		{"bad request", http.StatusBadRequest, `{"errors":{}}`, KindValidation, defaultMessages[KindValidation]},
		{"not found", http.StatusNotFound, `not json`, KindNotFound, defaultMessages[KindNotFound]},
		{"server", http.StatusBadGateway, `<html></html>`, KindServer, defaultMessages[KindServer]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromResponse(tt.status, []byte(tt.body))
			assert.Equal(t, tt.kind, err.Kind)
			assert.Equal(t, tt.status, err.StatusCode)
			assert.Equal(t, tt.message, err.Message)
		})
	}
}

func TestClassificationThroughWrapping(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("verify user: %w", Network(cause))

	assert.True(t, IsNetwork(err))
	assert.False(t, IsCredential(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindNetwork, KindOf(err))

	assert.True(t, IsCredential(FromResponse(http.StatusUnauthorized, nil)))
	assert.True(t, IsForbidden(FromResponse(http.StatusForbidden, nil)))
	assert.True(t, IsValidation(Invalid(errors.New("otp: len"))))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "Invalid credentials", FromResponse(401, []byte(`{"message":"Invalid credentials"}`)).Error())
	assert.Equal(t, "unexpected response from server: eof", Malformed(200, errors.New("eof")).Error())
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "", MessageOf(nil))
	assert.Equal(t, defaultMessages[KindServer], MessageOf(errors.New("boom")))

	var apiErr *Error
	require.ErrorAs(t, fmt.Errorf("wrap: %w", FromResponse(404, nil)), &apiErr)
	assert.Equal(t, defaultMessages[KindNotFound], MessageOf(apiErr))
}
