package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInvalidRequest      = "invalid_request"
	CodeUpstreamFormatError = "upstream_format_error"
	CodeGenerationFailed    = "generation_failed"
	CodeSynthesisFailed     = "synthesis_failed"
	CodeInternal            = "internal_error"
)

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrUpstreamFormat   = errors.New("upstream returned non-conforming output")
	ErrGenerationFailed = errors.New("generation failed")
	ErrSynthesisFailed  = errors.New("speech synthesis failed")
)

type Error struct {
	Status int
	Code   string
	Err    error
	// Raw carries the upstream payload that failed to parse, for diagnostics.
	Raw string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the taxonomy sentinel for e.Code so callers can use errors.Is
// without caring about the concrete cause.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	switch e.Code {
	case CodeInvalidRequest:
		return target == ErrInvalidRequest
	case CodeUpstreamFormatError:
		return target == ErrUpstreamFormat
	case CodeGenerationFailed:
		return target == ErrGenerationFailed
	case CodeSynthesisFailed:
		return target == ErrSynthesisFailed
	}
	return false
}

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func InvalidRequest(format string, args ...any) *Error {
	return New(http.StatusBadRequest, CodeInvalidRequest, fmt.Errorf(format, args...))
}

func UpstreamFormat(err error, raw string) *Error {
	e := New(http.StatusInternalServerError, CodeUpstreamFormatError, err)
	e.Raw = raw
	return e
}

func GenerationFailed(err error) *Error {
	return New(http.StatusInternalServerError, CodeGenerationFailed, err)
}

func SynthesisFailed(err error) *Error {
	return New(http.StatusInternalServerError, CodeSynthesisFailed, err)
}

// From returns err as *Error, wrapping unknown errors as internal failures.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return New(http.StatusInternalServerError, CodeInternal, err)
}
