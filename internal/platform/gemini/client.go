package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/tutorbridge-backend/internal/platform/logger"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.0-flash"
)

// Generator is the narrow surface the learning services depend on.
type Generator interface {
	// GenerateJSON runs a schema-constrained generation and returns the response text
	// with any markdown code fences stripped. The text is not validated here.
	GenerateJSON(ctx context.Context, req Request) (string, error)
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	Temperature float64
}

type Client struct {
	log         *logger.Logger
	baseURL     string
	apiKey      string
	model       string
	timeout     time.Duration
	temperature float64
	httpClient  *http.Client
}

var _ Generator = (*Client)(nil)

func New(cfg Config, log *logger.Logger) (*Client, error) {
	if log == nil {
		return nil, errors.New("gemini: logger required")
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini: api key required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		log:         log.With("service", "gemini.Client", "model", model),
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		timeout:     timeout,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Transport: tr},
	}, nil
}

// NewWithHTTPClient is intended for tests; it avoids network access by using a custom RoundTripper.
func NewWithHTTPClient(cfg Config, log *logger.Logger, httpClient *http.Client) (*Client, error) {
	c, err := New(cfg, log)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c, nil
}

func (c *Client) Model() string { return c.model }

func (c *Client) GenerateJSON(ctx context.Context, req Request) (string, error) {
	ctx, span := otel.Tracer("tutorbridge/gemini").Start(ctx, "gemini.generateContent")
	defer span.End()
	span.SetAttributes(attribute.String("gemini.model", c.model), attribute.Int("gemini.parts", len(req.Parts)))

	body, err := c.buildRequest(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	start := time.Now()
	var resp wireResponse
	if err := c.doJSON(ctx, c.generatePath(), body, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.Warn("generateContent failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return "", err
	}

	text, err := extractText(resp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	c.log.Debug("generateContent ok", "duration_ms", time.Since(start).Milliseconds(), "bytes", len(text))
	return sanitizeJSONText(text), nil
}

func (c *Client) generatePath() string {
	return "/v1beta/models/" + url.PathEscape(c.model) + ":generateContent"
}

func (c *Client) buildRequest(req Request) (wireRequest, error) {
	parts := make([]wirePart, 0, len(req.Parts))
	for i, p := range req.Parts {
		switch {
		case p.InlineData != nil:
			mt := strings.TrimSpace(p.InlineData.MimeType)
			if mt == "" {
				return wireRequest{}, fmt.Errorf("gemini: part %d missing mime type", i)
			}
			if len(p.InlineData.Data) == 0 {
				return wireRequest{}, fmt.Errorf("gemini: part %d has empty data", i)
			}
			parts = append(parts, wirePart{InlineData: &wireInlineData{
				MimeType: mt,
				Data:     base64.StdEncoding.EncodeToString(p.InlineData.Data),
			}})
		case strings.TrimSpace(p.Text) != "":
			parts = append(parts, wirePart{Text: p.Text})
		}
	}
	if len(parts) == 0 {
		return wireRequest{}, errors.New("gemini: no content parts")
	}

	temp := c.temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}

	out := wireRequest{
		Contents: []wireContent{{Role: "user", Parts: parts}},
		GenerationConfig: wireGenerationCfg{
			Temperature:      &temp,
			ResponseMimeType: "application/json",
			ResponseSchema:   ResponseSchema(req.Schema),
		},
	}
	if s := strings.TrimSpace(req.SystemInstruction); s != "" {
		out.SystemInstruction = &wireContent{Parts: []wirePart{{Text: s}}}
	}
	return out, nil
}

func extractText(resp wireResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: %s", ErrBlocked, resp.PromptFeedback.BlockReason)
		}
		return "", ErrEmptyResponse
	}
	cand := resp.Candidates[0]
	var b strings.Builder
	for _, p := range cand.Content.Parts {
		b.WriteString(p.Text)
	}
	if strings.TrimSpace(b.String()) == "" {
		if cand.FinishReason != "" {
			return "", fmt.Errorf("%w (finish_reason=%s)", ErrEmptyResponse, cand.FinishReason)
		}
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

func sanitizeJSONText(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	// Strip leading ```lang and trailing ```
	firstNL := strings.IndexByte(s, '\n')
	if firstNL == -1 {
		return strings.TrimSpace(strings.Trim(s, "`"))
	}
	s = s[firstNL+1:]

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func (c *Client) doJSON(ctx context.Context, path string, body any, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}

	ctx2, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx2, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
