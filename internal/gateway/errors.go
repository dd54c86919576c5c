package gateway

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the backend rejects the session (HTTP
// 401). Outside of Login, receiving it means the token store has already
// been cleared and the OnUnauthorized hook fired.
var ErrUnauthorized = errors.New("unauthorized")

// NetworkError wraps a transport-level failure: the request never produced
// a response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError reports a reached server answering with a non-2xx status
// other than 401.
type ServerError struct {
	Status int
	Body   string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Body)
}
