package api

import (
	"errors"
	"fmt"
)

// ErrUnknownShape marks a response that parsed as JSON but did not match
// the expected schema. Distinct from a transport failure and from an
// error payload the server sent on purpose.
var ErrUnknownShape = errors.New("response shape not recognized")

// APIError is a structured error payload from the backend.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 404
}

func unknownShape(context string) error {
	return fmt.Errorf("%s: %w", context, ErrUnknownShape)
}
