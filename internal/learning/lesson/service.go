// Package lesson turns a free-text prompt and optional attachments into a whiteboard
// lesson produced by the generative model.
package lesson

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/tutorbridge-backend/internal/learning/prompts"
	"github.com/yungbote/tutorbridge-backend/internal/learning/schema"
	"github.com/yungbote/tutorbridge-backend/internal/platform/apierr"
	"github.com/yungbote/tutorbridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/tutorbridge-backend/internal/platform/gemini"
	"github.com/yungbote/tutorbridge-backend/internal/platform/logger"
)

const fallbackLesson = `{"lesson":[{"action":"write","content":"Sorry, I couldn't generate this lesson right now. Please try again."}]}`

// FallbackLesson is the fixed single-step lesson returned alongside every failure.
func FallbackLesson() json.RawMessage {
	return json.RawMessage(fallbackLesson)
}

type File struct {
	// Data is bare base64 or a data URL ("data:image/png;base64,...").
	Data string `json:"data"`
	Type string `json:"type"`
}

type Request struct {
	Prompt string `json:"prompt"`
	Files  []File `json:"files"`
}

// Recorder receives one observation per generation attempt.
type Recorder interface {
	ObserveGeneration(kind, status string, dur time.Duration)
}

type Service interface {
	Generate(ctx context.Context, req Request) (json.RawMessage, error)
}

type service struct {
	log      *logger.Logger
	gen      gemini.Generator
	recorder Recorder
}

func NewService(log *logger.Logger, gen gemini.Generator, recorder Recorder) (Service, error) {
	if log == nil {
		return nil, errors.New("lesson: logger required")
	}
	if gen == nil {
		return nil, errors.New("lesson: generator required")
	}
	return &service{log: log.With("service", "LessonService"), gen: gen, recorder: recorder}, nil
}

// Generate returns the model's lesson JSON unmodified once it has parsed and matched the
// lesson schema. Errors are always *apierr.Error.
func (s *service) Generate(ctx context.Context, req Request) (json.RawMessage, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" && len(req.Files) == 0 {
		return nil, apierr.InvalidRequest("prompt or files required")
	}

	parts := make([]gemini.Part, 0, len(req.Files)+1)
	if prompt != "" {
		parts = append(parts, gemini.TextPart(prompt))
	}
	for i, f := range req.Files {
		mimeType, data, err := decodeFile(f)
		if err != nil {
			return nil, apierr.InvalidRequest("files[%d]: %v", i, err)
		}
		parts = append(parts, gemini.InlinePart(mimeType, data))
	}

	p, err := prompts.Build(prompts.PromptLesson, prompts.Input{Prompt: prompt, FileCount: len(req.Files)})
	if err != nil {
		return nil, apierr.GenerationFailed(err)
	}

	log := s.log.With("request_id", ctxutil.RequestID(ctx), "prompt_fingerprint", p.Fingerprint(), "files", len(req.Files))
	start := time.Now()
	text, err := s.gen.GenerateJSON(ctx, gemini.Request{
		SystemInstruction: p.System,
		Parts:             parts,
		Schema:            p.Schema,
	})
	if err != nil {
		s.observe("error", start)
		log.Warn("lesson generation failed", "error", err)
		return nil, apierr.GenerationFailed(fmt.Errorf("generate lesson: %w", err))
	}
	if err := schema.Lesson().Validate([]byte(text)); err != nil {
		s.observe("bad_output", start)
		log.Warn("lesson output rejected", "error", err, "raw", text)
		return nil, apierr.UpstreamFormat(err, text)
	}
	s.observe("ok", start)
	log.Debug("lesson generated", "duration_ms", time.Since(start).Milliseconds())
	return json.RawMessage(text), nil
}

func (s *service) observe(status string, start time.Time) {
	if s.recorder != nil {
		s.recorder.ObserveGeneration("lesson", status, time.Since(start))
	}
}

func decodeFile(f File) (string, []byte, error) {
	mimeType := strings.TrimSpace(f.Type)
	payload := strings.TrimSpace(f.Data)
	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 || !strings.HasSuffix(payload[:comma], ";base64") {
			return "", nil, errors.New("malformed data url")
		}
		payload = payload[comma+1:]
	}
	if payload == "" {
		return "", nil, errors.New("empty data")
	}
	if mimeType == "" {
		return "", nil, errors.New("missing type")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		if raw, rerr := base64.RawStdEncoding.DecodeString(payload); rerr == nil {
			return mimeType, raw, nil
		}
		return "", nil, fmt.Errorf("data is not base64: %w", err)
	}
	return mimeType, data, nil
}
