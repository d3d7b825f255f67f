// Package explain serves long-form concept explanations, cached by subject, topic,
// subtopic and context.
package explain

import (
	"context"
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

type Request struct {
	Subject  string `json:"subject"`
	Topic    string `json:"topic"`
	Subtopic string `json:"subtopic"`
	Context  string `json:"context"`
}

type Result struct {
	Payload json.RawMessage
	// Cached is true only when the payload came straight from the store.
	Cached bool
}

type GenerationRecorder interface {
	ObserveGeneration(kind, status string, dur time.Duration)
}

type Service interface {
	Explain(ctx context.Context, req Request) (Result, error)
}

type service struct {
	log      *logger.Logger
	gen      gemini.Generator
	cache    *Cache
	recorder GenerationRecorder
}

func NewService(log *logger.Logger, gen gemini.Generator, cache *Cache, recorder GenerationRecorder) (Service, error) {
	if log == nil {
		return nil, errors.New("explain: logger required")
	}
	if gen == nil {
		return nil, errors.New("explain: generator required")
	}
	if cache == nil {
		return nil, errors.New("explain: cache required")
	}
	return &service{log: log.With("service", "ExplainService"), gen: gen, cache: cache, recorder: recorder}, nil
}

func (s *service) Explain(ctx context.Context, req Request) (Result, error) {
	in := prompts.Input{
		Subject:  strings.TrimSpace(req.Subject),
		Topic:    strings.TrimSpace(req.Topic),
		Subtopic: strings.TrimSpace(req.Subtopic),
		Context:  strings.TrimSpace(req.Context),
	}
	var missing []string
	if in.Subject == "" {
		missing = append(missing, "subject")
	}
	if in.Topic == "" {
		missing = append(missing, "topic")
	}
	if in.Subtopic == "" {
		missing = append(missing, "subtopic")
	}
	if len(missing) > 0 {
		return Result{}, apierr.InvalidRequest("missing required fields: %s", strings.Join(missing, ", "))
	}
	if in.Context == "" {
		in.Context = DefaultContext
	}

	key := Key(in.Subject, in.Topic, in.Subtopic, in.Context)
	payload, lookup, err := s.cache.GetOrLoad(ctx, key, func(loadCtx context.Context) ([]byte, error) {
		return s.generate(loadCtx, in)
	})
	if err != nil {
		return Result{}, err
	}
	s.log.Debug("explanation served", "key", key, "cache", string(lookup), "request_id", ctxutil.RequestID(ctx))
	return Result{Payload: json.RawMessage(payload), Cached: lookup == LookupHit}, nil
}

func (s *service) generate(ctx context.Context, in prompts.Input) ([]byte, error) {
	p, err := prompts.Build(prompts.PromptExplainConcept, in)
	if err != nil {
		return nil, apierr.GenerationFailed(err)
	}
	start := time.Now()
	text, err := s.gen.GenerateJSON(ctx, gemini.Request{
		SystemInstruction: p.System,
		Parts:             []gemini.Part{gemini.TextPart(p.User)},
		Schema:            p.Schema,
	})
	if err != nil {
		s.observe("error", start)
		s.log.Warn("explanation generation failed", "subject", in.Subject, "topic", in.Topic, "error", err)
		return nil, apierr.GenerationFailed(fmt.Errorf("generate explanation: %w", err))
	}
	if err := schema.Explanation().Validate([]byte(text)); err != nil {
		s.observe("bad_output", start)
		s.log.Warn("explanation output rejected", "error", err, "raw", text)
		return nil, apierr.UpstreamFormat(err, text)
	}
	s.observe("ok", start)
	return []byte(text), nil
}

func (s *service) observe(status string, start time.Time) {
	if s.recorder != nil {
		s.recorder.ObserveGeneration("explanation", status, time.Since(start))
	}
}
