package remote

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrNotConfigured is returned when no usable credential is set.
	ErrNotConfigured = errors.New("not configured")

	// ErrDegraded is returned while the client is in the degraded state.
	ErrDegraded = errors.New("remote service unavailable")

	// ErrInvalidResponse is returned for responses missing required fields.
	ErrInvalidResponse = errors.New("invalid response")
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 4 << 10

// APIError is a non-success HTTP response from a remote API.
type APIError struct {
	Service string
	Status  int
	Body    string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s: %d %s", e.Service, e.Status, http.StatusText(e.Status))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// CredentialProblem reports whether the status points at a bad or missing
// credential rather than a transient failure.
func (e *APIError) CredentialProblem() bool {
	return IsCredentialError(e.Status)
}

// IsCredentialError reports whether status belongs to the
// bad-request/unauthorized class.
func IsCredentialError(status int) bool {
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return true
	default:
		return false
	}
}

// AsCredentialError reports whether err wraps an APIError caused by the
// credential.
func AsCredentialError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.CredentialProblem()
}

// NewAPIError builds an APIError from resp, consuming a bounded prefix of
// its body.
func NewAPIError(service string, resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &APIError{
		Service: service,
		Status:  resp.StatusCode,
		Body:    strings.TrimSpace(string(body)),
	}
}
