// Package tts holds the speech synthesis provider clients and the primary/secondary
// fallback policy used by the /api/tts endpoint.
package tts

import (
	"context"
	"time"
)

const ContentTypeMPEG = "audio/mpeg"

// maxAudioBytes bounds how much audio a provider response may buffer in memory.
const maxAudioBytes = 32 << 20

// Audio is a fully buffered synthesis result.
type Audio struct {
	Data        []byte
	ContentType string
	Provider    string
}

type Synthesizer interface {
	Name() string
	// Synthesize must honour ctx cancellation; the fallback policy relies on it to
	// abandon a slow primary without leaking the call.
	Synthesize(ctx context.Context, text string) (*Audio, error)
}

// Recorder receives one observation per provider attempt.
type Recorder interface {
	ObserveTTS(provider, outcome string, dur time.Duration)
}

const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)
