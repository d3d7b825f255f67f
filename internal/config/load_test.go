package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" || cfg.TTS.PrimaryTimeout.Duration != 7*time.Second {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Cache.Backend != CacheMemory || cfg.Cache.MaxEntries != 5000 || cfg.Cache.TTL.Duration != 0 {
		t.Fatalf("unexpected cache defaults: %+v", cfg.Cache)
	}
	if cfg.TTS.FallbackProvider != FallbackGoogleTranslate {
		t.Fatalf("unexpected fallback provider %q", cfg.TTS.FallbackProvider)
	}
}

func TestLoadRequiresGeminiKey(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("GEMINI_API_KEY", "")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "gemini.api_key") {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	p := writeFile(t, "config.yaml", `
env: production
http:
  addr: ":9000"
  cors_origins: ["https://tutor.example.com"]
gemini:
  api_key: file-key
  timeout: 45s
tts:
  primary_timeout: 3s
cache:
  max_entries: 10
  ttl: 1h
`)
	t.Setenv(EnvConfigPath, p)
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("TTS_PRIMARY_TIMEOUT", "2500ms")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-honeycomb-team=abc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "production" || cfg.HTTP.Addr != ":9000" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if len(cfg.HTTP.CORSOrigins) != 1 || cfg.HTTP.CORSOrigins[0] != "https://tutor.example.com" {
		t.Fatalf("cors origins: %v", cfg.HTTP.CORSOrigins)
	}
	if cfg.Gemini.APIKey != "env-key" {
		t.Fatalf("env should override file, got %q", cfg.Gemini.APIKey)
	}
	if cfg.Gemini.Timeout.Duration != 45*time.Second {
		t.Fatalf("gemini timeout %v", cfg.Gemini.Timeout.Duration)
	}
	if cfg.TTS.PrimaryTimeout.Duration != 2500*time.Millisecond {
		t.Fatalf("primary timeout %v", cfg.TTS.PrimaryTimeout.Duration)
	}
	if cfg.Cache.MaxEntries != 10 || cfg.Cache.TTL.Duration != time.Hour {
		t.Fatalf("cache %+v", cfg.Cache)
	}
	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Fatalf("defaults should survive a partial file, got model %q", cfg.Gemini.Model)
	}
	if cfg.Tracing.Headers["x-honeycomb-team"] != "abc" {
		t.Fatalf("headers %v", cfg.Tracing.Headers)
	}
}

func TestLoadJSONFile(t *testing.T) {
	p := writeFile(t, "config.json", `{"gemini":{"api_key":"k","timeout":30000000000},"cache":{"backend":"redis"},"redis":{"addr":"localhost:6379"}}`)
	t.Setenv(EnvConfigPath, p)
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gemini.Timeout.Duration != 30*time.Second || cfg.Cache.Backend != CacheRedis || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected %+v", cfg)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]map[string]string{
		"bad fallback":         {"TTS_FALLBACK_PROVIDER": "polly"},
		"bad cache backend":    {"CACHE_BACKEND": "memcached"},
		"redis without addr":   {"CACHE_BACKEND": "redis", "REDIS_ADDR": ""},
		"zero primary timeout": {"TTS_PRIMARY_TIMEOUT": "0s"},
		"bad duration":         {"TTS_PRIMARY_TIMEOUT": "soon"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(EnvConfigPath, "")
			t.Setenv("GEMINI_API_KEY", "k")
			for k, v := range vars {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestPortEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "5001")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":5001" {
		t.Fatalf("addr %q", cfg.HTTP.Addr)
	}
}

func TestDurationJSON(t *testing.T) {
	var v struct {
		A Duration `json:"a"`
		B Duration `json:"b"`
		C Duration `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":"7s","b":1000,"c":null}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A.Duration != 7*time.Second || v.B.Duration != time.Microsecond || v.C.Duration != 0 {
		t.Fatalf("unexpected %+v", v)
	}
	if err := json.Unmarshal([]byte(`{"a":true}`), &v); err == nil {
		t.Fatalf("expected error for bool duration")
	}
}
