package gemini

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyResponse = errors.New("gemini: empty response")
	ErrBlocked       = errors.New("gemini: prompt blocked")
)

type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "gemini http error"
	}
	if e.Body == "" {
		return fmt.Sprintf("gemini http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("gemini http error: status=%d body=%s", e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatusCode() int { return e.StatusCode }
