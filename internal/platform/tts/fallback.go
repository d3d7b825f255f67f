package tts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/tutorbridge-backend/internal/platform/logger"
)

const DefaultPrimaryTimeout = 7 * time.Second

// Fallback races the primary provider against a timeout and, on timeout or error,
// hands the text to the secondary provider exactly once.
type Fallback struct {
	log       *logger.Logger
	primary   Synthesizer
	secondary Synthesizer
	timeout   time.Duration
	recorder  Recorder
}

var _ Synthesizer = (*Fallback)(nil)

type FallbackOption func(*Fallback)

func WithPrimaryTimeout(d time.Duration) FallbackOption {
	return func(f *Fallback) {
		if d > 0 {
			f.timeout = d
		}
	}
}

func WithRecorder(r Recorder) FallbackOption {
	return func(f *Fallback) { f.recorder = r }
}

// NewFallback wires the two tiers. primary may be nil (not configured), in which case
// every call goes straight to secondary.
func NewFallback(log *logger.Logger, primary, secondary Synthesizer, opts ...FallbackOption) (*Fallback, error) {
	if log == nil {
		return nil, errors.New("tts fallback: logger required")
	}
	if secondary == nil {
		return nil, fmt.Errorf("tts fallback: %w", ErrNoSynthesizer)
	}
	f := &Fallback{
		log:       log.With("service", "tts.Fallback"),
		primary:   primary,
		secondary: secondary,
		timeout:   DefaultPrimaryTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *Fallback) Name() string { return "fallback" }

func (f *Fallback) Synthesize(ctx context.Context, text string) (*Audio, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	ctx, span := otel.Tracer("tutorbridge/tts").Start(ctx, "tts.synthesize")
	defer span.End()

	if f.primary != nil {
		audio, err := f.tryPrimary(ctx, text)
		if err == nil {
			span.SetAttributes(attribute.String("tts.provider", audio.Provider))
			return audio, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			// Caller went away; don't spend the secondary on nobody.
			return nil, ctxErr
		}
		f.log.Warn("primary synthesis failed, using fallback",
			"primary", f.primary.Name(), "secondary", f.secondary.Name(), "error", err)
		span.SetAttributes(attribute.Bool("tts.fallback", true))

		audio, serr := f.call(ctx, f.secondary, text)
		if serr != nil {
			return nil, fmt.Errorf("%w: primary: %v; secondary: %w", ErrAllTiersFailed, err, serr)
		}
		span.SetAttributes(attribute.String("tts.provider", audio.Provider))
		return audio, nil
	}

	audio, err := f.call(ctx, f.secondary, text)
	if err != nil {
		return nil, fmt.Errorf("%w: secondary: %w", ErrAllTiersFailed, err)
	}
	span.SetAttributes(attribute.String("tts.provider", audio.Provider))
	return audio, nil
}

type synthResult struct {
	audio *Audio
	err   error
}

// tryPrimary returns whichever comes first: the primary result or the deadline.
// The deadline also cancels the in-flight call through its context.
func (f *Fallback) tryPrimary(parent context.Context, text string) (*Audio, error) {
	ctx, cancel := context.WithTimeout(parent, f.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan synthResult, 1)
	go func() {
		a, err := f.primary.Synthesize(ctx, text)
		done <- synthResult{audio: a, err: err}
	}()

	select {
	case res := <-done:
		if res.err == nil && (res.audio == nil || len(res.audio.Data) == 0) {
			res.err = ErrEmptyAudio
		}
		if res.err != nil {
			outcome := OutcomeError
			if errors.Is(res.err, context.DeadlineExceeded) {
				outcome = OutcomeTimeout
				res.err = fmt.Errorf("%w: %w", ErrPrimaryTimeout, res.err)
			}
			f.observe(f.primary.Name(), outcome, time.Since(start))
			return nil, res.err
		}
		f.observe(f.primary.Name(), OutcomeOK, time.Since(start))
		return withProvider(res.audio, f.primary.Name()), nil
	case <-ctx.Done():
		if parent.Err() != nil {
			f.observe(f.primary.Name(), OutcomeError, time.Since(start))
			return nil, parent.Err()
		}
		f.observe(f.primary.Name(), OutcomeTimeout, time.Since(start))
		return nil, fmt.Errorf("%w after %s", ErrPrimaryTimeout, f.timeout)
	}
}

func (f *Fallback) call(ctx context.Context, s Synthesizer, text string) (*Audio, error) {
	start := time.Now()
	a, err := s.Synthesize(ctx, text)
	if err == nil && (a == nil || len(a.Data) == 0) {
		err = ErrEmptyAudio
	}
	if err != nil {
		f.observe(s.Name(), OutcomeError, time.Since(start))
		return nil, err
	}
	f.observe(s.Name(), OutcomeOK, time.Since(start))
	return withProvider(a, s.Name()), nil
}

func (f *Fallback) observe(provider, outcome string, d time.Duration) {
	if f.recorder != nil {
		f.recorder.ObserveTTS(provider, outcome, d)
	}
}

func withProvider(a *Audio, name string) *Audio {
	if a.Provider == "" {
		a.Provider = name
	}
	if a.ContentType == "" {
		a.ContentType = ContentTypeMPEG
	}
	return a
}
