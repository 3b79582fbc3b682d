package client

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Kind classifies a failed gateway call.
type Kind int

const (
	// KindServer means the server answered with a non-2xx status.
	KindServer Kind = iota + 1
	// KindNoResponse means the request never got an answer.
	KindNoResponse
	// KindUnexpected covers everything else, such as an undecodable body.
	KindUnexpected
)

func (k Kind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindNoResponse:
		return "no_response"
	case KindUnexpected:
		return "unexpected"
	}
	return "unknown"
}

const (
	msgNoResponse = "could not reach server"
	msgUnexpected = "unexpected response from server"
)

// Error is returned by Gateway for every failure other than input validation.
type Error struct {
	Kind Kind
	// Status is the HTTP status for KindServer, zero otherwise.
	Status  int
	Message string
	// Details lists the server's validation messages, if any.
	Details []string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// serverError extracts the "error" field of a JSON error body, falling back to
// the status text. Validation details are appended to the message.
func serverError(status int, body []byte) *Error {
	var payload struct {
		Error   string   `json:"error"`
		Details []string `json:"details"`
	}
	msg := http.StatusText(status)
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	if len(payload.Details) > 0 {
		msg += ": " + strings.Join(payload.Details, "; ")
	}
	return &Error{Kind: KindServer, Status: status, Message: msg, Details: payload.Details}
}
