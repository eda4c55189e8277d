package client

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	// ConnectionError is recorded as the response whenever the exchange did not
	// complete with a 2xx or 3xx status.
	ConnectionError = "Connection Error"

	SuccessPrefix = "Y,"
)

type Outcome string

const (
	OutcomeSuccess         Outcome = "success"
	OutcomeRejected        Outcome = "rejected"
	OutcomeConnectionError Outcome = "connection_error"
)

// Result describes one exchange with iadmin.
type Result struct {
	RequestID   uuid.UUID
	Operation   Operation
	FuturePayID string
	Url         string
	TestMode    bool
	StatusCode  int
	Response    string
	Ok          bool
	// Err holds the transport failure, if any. It is never surfaced through Response.
	Err error
}

func (r Result) Outcome() Outcome {
	if r.Ok {
		return OutcomeSuccess
	} else if r.Response == ConnectionError {
		return OutcomeConnectionError
	}
	return OutcomeRejected
}

// IsSuccess reports whether a trimmed iadmin response accepted the command.
// Only the leading status token is looked at.
func IsSuccess(response string) bool {
	return strings.HasPrefix(response, SuccessPrefix)
}

func acceptedStatus(code int) bool {
	return code >= http.StatusOK && code < http.StatusBadRequest
}
