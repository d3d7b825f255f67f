package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutorbridge-backend/internal/config"
	"github.com/yungbote/tutorbridge-backend/internal/learning/explain"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("ELEVENLABS_API_KEY", "")
	t.Setenv("OTEL_ENABLED", "false")
	t.Setenv("LOG_MODE", "development")
	t.Setenv("LOG_LEVEL", "error")
}

func TestNewWiresRoutes(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("CACHE_BACKEND", "memory")

	a, err := New(context.Background())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)

	for _, tc := range []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/test", http.StatusOK},
		{http.MethodGet, "/api/tts", http.StatusBadRequest},
		{http.MethodPost, "/api/lesson", http.StatusBadRequest},
		{http.MethodPost, "/api/gamification/explain-concept", http.StatusBadRequest},
		{http.MethodGet, "/metrics", http.StatusOK},
	} {
		rec := httptest.NewRecorder()
		a.Router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader("")))
		if rec.Code != tc.want {
			t.Fatalf("%s %s: got %d want %d", tc.method, tc.path, rec.Code, tc.want)
		}
	}
}

func TestWireExplainStore(t *testing.T) {
	cfg := &config.Config{Cache: config.CacheConfig{Backend: config.CacheMemory, MaxEntries: 3}}
	store, err := wireExplainStore(cfg, &Clients{})
	if err != nil {
		t.Fatalf("wireExplainStore: %v", err)
	}
	if _, ok := store.(*explain.MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", store)
	}

	cfg.Cache.Backend = config.CacheRedis
	if _, err := wireExplainStore(cfg, &Clients{}); err == nil {
		t.Fatalf("redis backend without a client should fail")
	}
}

func TestNewWithRedisBackend(t *testing.T) {
	setBaseEnv(t)
	mr := miniredis.RunT(t)
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", mr.Addr())

	a, err := New(context.Background())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(a.Close)
	if a.clients.Redis == nil {
		t.Fatalf("redis client not wired")
	}
}
