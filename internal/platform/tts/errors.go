package tts

import "errors"

var (
	ErrEmptyText      = errors.New("text cannot be empty")
	ErrEmptyAudio     = errors.New("provider returned no audio")
	ErrRateLimited    = errors.New("rate limit exceeded")
	ErrInvalidVoice   = errors.New("invalid or unsupported voice")
	ErrPrimaryTimeout = errors.New("primary synthesis timed out")
	ErrAllTiersFailed = errors.New("all synthesis tiers failed")
	ErrNoSynthesizer  = errors.New("no synthesizer configured")
)

// SynthesisError carries provider-specific failure details.
type SynthesisError struct {
	Provider  string
	Code      string
	Message   string
	Cause     error
	Retryable bool
}

func (e *SynthesisError) Error() string {
	if e.Cause != nil {
		return e.Provider + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Provider + ": " + e.Message
}

func (e *SynthesisError) Unwrap() error { return e.Cause }

func NewSynthesisError(provider, code, message string, cause error, retryable bool) *SynthesisError {
	return &SynthesisError{
		Provider:  provider,
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: retryable,
	}
}
