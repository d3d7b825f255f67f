package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	ElevenLabsDefaultBaseURL = "https://api.elevenlabs.io"
	ElevenLabsDefaultVoice   = "21m00Tcm4TlvDq8ikWAM"
	ElevenLabsDefaultModel   = "eleven_multilingual_v2"

	elevenLabsFormatMP3              = "mp3_44100_128"
	elevenLabsDefaultStability       = 0.5
	elevenLabsDefaultSimilarityBoost = 0.75
)

type ElevenLabsConfig struct {
	APIKey  string
	BaseURL string
	VoiceID string
	ModelID string
}

// ElevenLabs is the primary neural provider.
type ElevenLabs struct {
	apiKey  string
	baseURL string
	voiceID string
	modelID string
	client  *http.Client
}

var _ Synthesizer = (*ElevenLabs)(nil)

// NewElevenLabs builds the client. The http.Client has no fixed timeout; callers bound
// each call through ctx.
func NewElevenLabs(cfg ElevenLabsConfig, httpClient *http.Client) (*ElevenLabs, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, errors.New("elevenlabs: api key required")
	}
	s := &ElevenLabs{
		apiKey:  key,
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		voiceID: strings.TrimSpace(cfg.VoiceID),
		modelID: strings.TrimSpace(cfg.ModelID),
		client:  httpClient,
	}
	if s.baseURL == "" {
		s.baseURL = ElevenLabsDefaultBaseURL
	}
	if s.voiceID == "" {
		s.voiceID = ElevenLabsDefaultVoice
	}
	if s.modelID == "" {
		s.modelID = ElevenLabsDefaultModel
	}
	if s.client == nil {
		s.client = &http.Client{}
	}
	return s, nil
}

func (s *ElevenLabs) Name() string { return "elevenlabs" }

type elevenLabsRequest struct {
	Text          string                   `json:"text"`
	ModelID       string                   `json:"model_id,omitempty"`
	VoiceSettings *elevenLabsVoiceSettings `json:"voice_settings,omitempty"`
}

type elevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type elevenLabsErrorResponse struct {
	Detail struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"detail"`
}

func (s *ElevenLabs) Synthesize(ctx context.Context, text string) (*Audio, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	body, err := json.Marshal(elevenLabsRequest{
		Text:    text,
		ModelID: s.modelID,
		VoiceSettings: &elevenLabsVoiceSettings{
			Stability:       elevenLabsDefaultStability,
			SimilarityBoost: elevenLabsDefaultSimilarityBoost,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=%s",
		s.baseURL, url.PathEscape(s.voiceID), elevenLabsFormatMP3)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: build request: %w", err)
	}
	req.Header.Set("xi-api-key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", ContentTypeMPEG)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, NewSynthesisError(s.Name(), "", "request failed", err, true)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, s.handleError(resp)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return nil, NewSynthesisError(s.Name(), "", "read audio", err, true)
	}
	if len(data) == 0 {
		return nil, NewSynthesisError(s.Name(), "", "empty body", ErrEmptyAudio, true)
	}
	return &Audio{Data: data, ContentType: ContentTypeMPEG, Provider: s.Name()}, nil
}

func (s *ElevenLabs) handleError(resp *http.Response) error {
	code := fmt.Sprintf("%d", resp.StatusCode)
	retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500

	var cause error
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		cause = ErrRateLimited
	case http.StatusUnauthorized:
		cause = errors.New("invalid API key")
	case http.StatusNotFound:
		cause = ErrInvalidVoice
	}

	var errResp elevenLabsErrorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	msg := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &errResp); err == nil && errResp.Detail.Message != "" {
		msg = errResp.Detail.Message
		if errResp.Detail.Status != "" {
			code = errResp.Detail.Status
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return NewSynthesisError(s.Name(), code, msg, cause, retryable)
}
