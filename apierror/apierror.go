// Package apierror classifies failures of calls to the clinic API.
package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/octabyte/medtrack-gommon/utils"
)

type Kind string

const (
	KindCredential Kind = "credential"
	KindForbidden  Kind = "forbidden"
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindServer     Kind = "server"
	KindNetwork    Kind = "network"
)

var defaultMessages = map[Kind]string{
	KindCredential: "invalid credentials",
	KindForbidden:  "you do not have access to this resource",
	KindValidation: "the request was rejected",
	KindNotFound:   "resource not found",
	KindServer:     "something went wrong, please try again",
	KindNetwork:    "unable to reach the server",
}

// Error is returned by every API call that did not succeed.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindForStatus maps an HTTP status to a Kind.
func KindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindCredential
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindServer
	}
}

// FromResponse builds an Error from a non-2xx response, preferring the
// backend's "message" field.
func FromResponse(status int, body []byte) *Error {
	kind := KindForStatus(status)
	message := utils.MessageFromBody(body)
	if message == "" {
		message = defaultMessages[kind]
	}
	return &Error{Kind: kind, StatusCode: status, Message: message}
}

// Network wraps a transport failure: no response was received.
func Network(err error) *Error {
	return &Error{Kind: KindNetwork, Message: defaultMessages[KindNetwork], Err: err}
}

// Invalid wraps a request rejected before it was sent.
func Invalid(err error) *Error {
	return &Error{Kind: KindValidation, Message: defaultMessages[KindValidation], Err: err}
}

// Malformed wraps a 2xx response whose body could not be understood.
func Malformed(status int, err error) *Error {
	return &Error{Kind: KindServer, StatusCode: status, Message: "unexpected response from server", Err: err}
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

func IsCredential(err error) bool { return KindOf(err) == KindCredential }

func IsForbidden(err error) bool { return KindOf(err) == KindForbidden }

func IsNetwork(err error) bool { return KindOf(err) == KindNetwork }

func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// MessageOf is what a user gets to see for err.
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if err == nil {
		return ""
	}
	return defaultMessages[KindServer]
}
