package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutorbridge-backend/internal/learning/explain"
	"github.com/yungbote/tutorbridge-backend/internal/learning/lesson"
	"github.com/yungbote/tutorbridge-backend/internal/platform/gemini"
	"github.com/yungbote/tutorbridge-backend/internal/platform/logger"
	"github.com/yungbote/tutorbridge-backend/internal/platform/tts"
)

type fakeGenerator struct {
	calls atomic.Int32
	text  string
	err   error
}

func (f *fakeGenerator) GenerateJSON(context.Context, gemini.Request) (string, error) {
	f.calls.Add(1)
	return f.text, f.err
}

type fakeSynth struct {
	name  string
	delay time.Duration
	data  []byte
	err   error
	calls atomic.Int32
}

func (f *fakeSynth) Name() string { return f.name }

func (f *fakeSynth) Synthesize(ctx context.Context, _ string) (*tts.Audio, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &tts.Audio{Data: f.data, ContentType: tts.ContentTypeMPEG, Provider: f.name}, nil
}

const twoStepLesson = `{"lesson":[{"action":"write","content":"Photosynthesis","position":"top-center"},{"action":"explain","content":"Light + water + CO2 become glucose","script":"Plants make food from light."}]}`

func newLessonRouter(t *testing.T, gen gemini.Generator) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, err := lesson.NewService(logger.NewNop(), gen, nil)
	if err != nil {
		t.Fatalf("lesson.NewService: %v", err)
	}
	r := gin.New()
	r.POST("/api/lesson", NewLessonHandler(logger.NewNop(), svc).Generate)
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestLessonReturnsModelJSONUnmodified(t *testing.T) {
	gen := &fakeGenerator{text: twoStepLesson}
	r := newLessonRouter(t, gen)

	rec := do(r, http.MethodPost, "/api/lesson", `{"prompt":"Explain photosynthesis"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d body=%s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != twoStepLesson {
		t.Fatalf("body modified:\n got %s\nwant %s", rec.Body.String(), twoStepLesson)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("unexpected content type %q", ct)
	}

	var doc struct {
		Lesson []struct {
			Action  string `json:"action"`
			Content string `json:"content"`
		} `json:"lesson"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for i, step := range doc.Lesson {
		switch step.Action {
		case "write", "explain", "draw":
		default:
			t.Fatalf("step %d has unexpected action %q", i, step.Action)
		}
		if step.Content == "" {
			t.Fatalf("step %d has empty content", i)
		}
	}
}

func TestLessonEmptyInputIs400(t *testing.T) {
	gen := &fakeGenerator{text: twoStepLesson}
	r := newLessonRouter(t, gen)

	for _, body := range []string{"", `{}`, `{"prompt":""}`, `{"prompt":"  ","files":[]}`} {
		rec := do(r, http.MethodPost, "/api/lesson", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"code":"invalid_request"`) {
			t.Fatalf("body %q: unexpected response %s", body, rec.Body.String())
		}
	}
	if gen.calls.Load() != 0 {
		t.Fatalf("provider should not be called")
	}
}

func TestLessonMalformedJSONIs400(t *testing.T) {
	r := newLessonRouter(t, &fakeGenerator{text: twoStepLesson})
	rec := do(r, http.MethodPost, "/api/lesson", `{"prompt":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLessonFailureReturnsFallbackLesson(t *testing.T) {
	r := newLessonRouter(t, &fakeGenerator{err: errors.New("quota exceeded")})
	rec := do(r, http.MethodPost, "/api/lesson", `{"prompt":"Explain photosynthesis"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body struct {
		Error          string          `json:"error"`
		Details        string          `json:"details"`
		Code           string          `json:"code"`
		FallbackLesson json.RawMessage `json:"fallbackLesson"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Error == "" || !strings.Contains(body.Details, "quota exceeded") || body.Code != "generation_failed" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if string(body.FallbackLesson) != string(lesson.FallbackLesson()) {
		t.Fatalf("unexpected fallback lesson %s", body.FallbackLesson)
	}
}

func TestLessonUpstreamFormatIncludesRaw(t *testing.T) {
	r := newLessonRouter(t, &fakeGenerator{text: `I cannot do that`})
	rec := do(r, http.MethodPost, "/api/lesson", `{"prompt":"x"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["code"] != "upstream_format_error" || body["raw"] != "I cannot do that" || body["fallbackLesson"] == nil {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func newTTSRouter(t *testing.T, primary, secondary tts.Synthesizer, timeout time.Duration) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	fb, err := tts.NewFallback(logger.NewNop(), primary, secondary, tts.WithPrimaryTimeout(timeout))
	if err != nil {
		t.Fatalf("NewFallback: %v", err)
	}
	r := gin.New()
	r.GET("/api/tts", NewTTSHandler(logger.NewNop(), fb, 50).Synthesize)
	return r
}

func TestTTSPrimaryTimeoutFallsBack(t *testing.T) {
	primary := &fakeSynth{name: "elevenlabs", delay: time.Second, data: []byte("neural")}
	secondary := &fakeSynth{name: "google_translate", data: []byte("ID3-fallback")}
	r := newTTSRouter(t, primary, secondary, 30*time.Millisecond)

	rec := do(r, http.MethodGet, "/api/tts?text=Hello", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "audio/mpeg" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if rec.Body.String() != "ID3-fallback" {
		t.Fatalf("expected fallback audio, got %q", rec.Body.String())
	}
	if rec.Header().Get("X-TTS-Provider") != "google_translate" {
		t.Fatalf("unexpected provider header %q", rec.Header().Get("X-TTS-Provider"))
	}
	if rec.Header().Get("Content-Length") != "12" {
		t.Fatalf("unexpected content length %q", rec.Header().Get("Content-Length"))
	}
}

func TestTTSPrimarySuccess(t *testing.T) {
	primary := &fakeSynth{name: "elevenlabs", data: []byte("neural")}
	secondary := &fakeSynth{name: "google_translate", data: []byte("fallback")}
	r := newTTSRouter(t, primary, secondary, time.Second)

	rec := do(r, http.MethodGet, "/api/tts?text=Hello", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "neural" {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Body.String())
	}
	if secondary.calls.Load() != 0 {
		t.Fatalf("secondary should not be called")
	}
}

func TestTTSMissingTextIs400(t *testing.T) {
	primary := &fakeSynth{name: "elevenlabs", data: []byte("neural")}
	r := newTTSRouter(t, primary, &fakeSynth{name: "google_translate", data: []byte("x")}, time.Second)

	for _, target := range []string{"/api/tts", "/api/tts?text=", "/api/tts?text=%20%20"} {
		rec := do(r, http.MethodGet, target, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
	rec := do(r, http.MethodGet, "/api/tts?text="+strings.Repeat("a", 51), "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("overlong text: expected 400, got %d", rec.Code)
	}
	if primary.calls.Load() != 0 {
		t.Fatalf("provider should not be called")
	}
}

func TestTTSBothFailIsPlainText500(t *testing.T) {
	primary := &fakeSynth{name: "elevenlabs", err: errors.New("401")}
	secondary := &fakeSynth{name: "google_translate", err: errors.New("503")}
	r := newTTSRouter(t, primary, secondary, time.Second)

	rec := do(r, http.MethodGet, "/api/tts?text=Hello", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected plain text, got %q", ct)
	}
	if secondary.calls.Load() != 1 {
		t.Fatalf("secondary should be tried exactly once, got %d", secondary.calls.Load())
	}
}

const linearExplanation = `{"explanation":"Linear equations graph as straight lines.","steps":[{"title":"Isolate y","description":"Rewrite as y = mx + b."}]}`

func newExplainRouter(t *testing.T, gen gemini.Generator) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	cache, err := explain.NewCache(log, explain.NewMemoryStore(100, 0))
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	svc, err := explain.NewService(log, gen, cache, nil)
	if err != nil {
		t.Fatalf("explain.NewService: %v", err)
	}
	r := gin.New()
	r.POST("/api/gamification/explain-concept", NewExplainHandler(log, svc).ExplainConcept)
	return r
}

func TestExplainConceptCachesByteIdentical(t *testing.T) {
	gen := &fakeGenerator{text: linearExplanation}
	r := newExplainRouter(t, gen)

	first := do(r, http.MethodPost, "/api/gamification/explain-concept", `{"subject":"Math","topic":"Algebra","subtopic":"Linear Eq"}`)
	second := do(r, http.MethodPost, "/api/gamification/explain-concept", `{"subject":"math","topic":"algebra","subtopic":"linear eq"}`)
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("unexpected status %d / %d", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() || first.Body.String() != linearExplanation {
		t.Fatalf("payloads differ:\n%s\n%s", first.Body.String(), second.Body.String())
	}
	if first.Header().Get("X-Cache") != "MISS" || second.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("unexpected cache headers %q / %q", first.Header().Get("X-Cache"), second.Header().Get("X-Cache"))
	}
	if gen.calls.Load() != 1 {
		t.Fatalf("expected 1 provider call, got %d", gen.calls.Load())
	}
}

func TestExplainConceptMissingFieldsIs400(t *testing.T) {
	gen := &fakeGenerator{text: linearExplanation}
	r := newExplainRouter(t, gen)
	for _, body := range []string{`{}`, `{"subject":"Math","topic":"Algebra"}`, `{"topic":"Algebra","subtopic":"x"}`} {
		rec := do(r, http.MethodPost, "/api/gamification/explain-concept", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rec.Code)
		}
	}
	if gen.calls.Load() != 0 {
		t.Fatalf("provider should not be called")
	}
}

func TestExplainConceptProviderFailureIs500(t *testing.T) {
	r := newExplainRouter(t, &fakeGenerator{err: errors.New("model overloaded")})
	rec := do(r, http.MethodPost, "/api/gamification/explain-concept", `{"subject":"Math","topic":"Algebra","subtopic":"Linear Eq"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] == nil || !strings.Contains(body["details"].(string), "model overloaded") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if _, ok := body["fallbackLesson"]; ok {
		t.Fatalf("explain failures carry no fallback lesson")
	}
}

func TestHealthEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHealthHandler()
	r := gin.New()
	r.GET("/health", h.HealthCheck)
	r.GET("/api/test", h.APITest)

	rec := do(r, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || rec.Body.String() != `{"status":"ok"}` {
		t.Fatalf("unexpected /health response %d %s", rec.Code, rec.Body.String())
	}
	rec = do(r, http.MethodGet, "/api/test", "")
	if rec.Code != http.StatusOK || rec.Body.String() != `{"message":"API is working","status":"ok"}` {
		t.Fatalf("unexpected /api/test response %d %s", rec.Code, rec.Body.String())
	}
}
