package gameapi

import (
	"errors"
	"fmt"
)

// NetworkError reports a request that never produced a usable response:
// the transport failed or the server answered with a non-2xx status.
type NetworkError struct {
	Op         string
	URL        string
	StatusCode int
	// Message is the server's {"error": ...} text, when it sent one.
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s: server returned status %d: %s", e.Op, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: server returned status %d", e.Op, e.StatusCode)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports a response body that is not a valid game state.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: parsing response: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
