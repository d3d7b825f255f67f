package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	GoogleTranslateDefaultBaseURL = "https://translate.google.com"

	// translate_tts rejects queries longer than this many characters.
	googleTranslateMaxChunk = 200
)

type GoogleTranslateConfig struct {
	BaseURL  string
	Language string
	Slow     bool
}

// GoogleTranslate is the keyless secondary provider.
type GoogleTranslate struct {
	baseURL  string
	language string
	speed    string
	client   *http.Client
}

var _ Synthesizer = (*GoogleTranslate)(nil)

func NewGoogleTranslate(cfg GoogleTranslateConfig, httpClient *http.Client) *GoogleTranslate {
	g := &GoogleTranslate{
		baseURL:  strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		language: strings.TrimSpace(cfg.Language),
		speed:    "1",
		client:   httpClient,
	}
	if g.baseURL == "" {
		g.baseURL = GoogleTranslateDefaultBaseURL
	}
	if g.language == "" {
		g.language = "en"
	}
	if cfg.Slow {
		g.speed = "0.24"
	}
	if g.client == nil {
		g.client = &http.Client{}
	}
	return g
}

func (g *GoogleTranslate) Name() string { return "google_translate" }

// Synthesize fetches one MP3 segment per chunk and concatenates them; MP3 frames
// are self-delimiting so the joined stream plays back as one file.
func (g *GoogleTranslate) Synthesize(ctx context.Context, text string) (*Audio, error) {
	chunks := splitText(text, googleTranslateMaxChunk)
	if len(chunks) == 0 {
		return nil, ErrEmptyText
	}
	var out []byte
	for i, chunk := range chunks {
		data, err := g.fetch(ctx, chunk, i, len(chunks))
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
		if len(out) > maxAudioBytes {
			return nil, NewSynthesisError(g.Name(), "", "audio too large", nil, false)
		}
	}
	return &Audio{Data: out, ContentType: ContentTypeMPEG, Provider: g.Name()}, nil
}

func (g *GoogleTranslate) fetch(ctx context.Context, chunk string, idx, total int) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("q", chunk)
	q.Set("tl", g.language)
	q.Set("total", strconv.Itoa(total))
	q.Set("idx", strconv.Itoa(idx))
	q.Set("textlen", strconv.Itoa(utf8.RuneCountInString(chunk)))
	q.Set("client", "tw-ob")
	q.Set("prev", "input")
	q.Set("ttsspeed", g.speed)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/translate_tts?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("google_translate: build request: %w", err)
	}
	req.Header.Set("Accept", ContentTypeMPEG)
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, NewSynthesisError(g.Name(), "", "request failed", err, true)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, NewSynthesisError(g.Name(), strconv.Itoa(resp.StatusCode), strings.TrimSpace(string(raw)),
			nil, resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return nil, NewSynthesisError(g.Name(), "", "read audio", err, true)
	}
	if len(data) == 0 {
		return nil, NewSynthesisError(g.Name(), "", "empty body", ErrEmptyAudio, true)
	}
	return data, nil
}

// splitText packs whitespace-separated words into chunks of at most max runes.
// Words longer than max are cut at rune boundaries.
func splitText(text string, max int) []string {
	if max <= 0 {
		return nil
	}
	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}
	for _, w := range strings.Fields(text) {
		for utf8.RuneCountInString(w) > max {
			flush()
			r := []rune(w)
			chunks = append(chunks, string(r[:max]))
			w = string(r[max:])
		}
		wl := utf8.RuneCountInString(w)
		if curLen > 0 && curLen+1+wl > max {
			flush()
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(w)
		curLen += wl
	}
	flush()
	return chunks
}
