package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const EnvConfigPath = "TUTOR_CONFIG_PATH"

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n), nil
	}
	return time.ParseDuration(s)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		d.Duration = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		dd, err := time.ParseDuration(strings.TrimSpace(u))
		if err != nil && strings.TrimSpace(u) != "" {
			return err
		}
		d.Duration = dd
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a JSON string like \"5s\" or an int nanoseconds: %w", err)
	}
	d.Duration = time.Duration(n)
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", node.Line)
	}
	dd, err := parseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	d.Duration = dd
	return nil
}

// UnmarshalText is used by the env parser.
func (d *Duration) UnmarshalText(b []byte) error {
	dd, err := parseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = dd
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: D(5 * time.Second),
			IdleTimeout:       D(2 * time.Minute),
			ShutdownTimeout:   D(15 * time.Second),
			MaxRequestBytes:   25 << 20,
		},
		Gemini: GeminiConfig{
			BaseURL:     "https://generativelanguage.googleapis.com",
			Model:       "gemini-2.0-flash",
			Timeout:     D(60 * time.Second),
			Temperature: 0.7,
		},
		ElevenLabs: ElevenLabsConfig{
			BaseURL: "https://api.elevenlabs.io",
			VoiceID: "21m00Tcm4TlvDq8ikWAM",
			ModelID: "eleven_multilingual_v2",
			Timeout: D(30 * time.Second),
		},
		TTS: TTSConfig{
			PrimaryTimeout:   D(7 * time.Second),
			FallbackProvider: FallbackGoogleTranslate,
			Language:         "en",
			MaxTextChars:     5000,
		},
		GoogleTranslate: GoogleTranslateConfig{
			BaseURL: "https://translate.google.com",
			Timeout: D(15 * time.Second),
		},
		GoogleCloud: GoogleCloudConfig{
			LanguageCode: "en-US",
		},
		Cache: CacheConfig{
			Backend:    CacheMemory,
			MaxEntries: 5000,
		},
		Redis: RedisConfig{
			Prefix: "tutorbridge:explain:",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Tracing: TracingConfig{
			ServiceName: "tutorbridge",
			SampleRatio: 0.1,
		},
	}
}

// Load builds the config from defaults, then the optional config file, then the environment.
// A .env file in the working directory is loaded first without overriding real variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	cfgPath := strings.TrimSpace(os.Getenv(EnvConfigPath))
	if cfgPath == "" {
		cfgPath = findDefaultFile()
	}
	if cfgPath != "" {
		if err := loadFile(cfgPath, cfg); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}
	// PORT is what most hosting platforms inject; HTTP_ADDR wins when both are set.
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" && strings.TrimSpace(os.Getenv("HTTP_ADDR")) == "" {
		cfg.HTTP.Addr = ":" + port
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findDefaultFile() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.yaml", "config.yml", "config.json"} {
		p := filepath.Join(wd, "config", name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(b, cfg)
	default:
		err = yaml.Unmarshal(b, cfg)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (cfg *Config) normalize() error {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.MaxRequestBytes <= 0 {
		cfg.HTTP.MaxRequestBytes = 25 << 20
	}

	cfg.Gemini.APIKey = strings.TrimSpace(cfg.Gemini.APIKey)
	if cfg.Gemini.APIKey == "" {
		return errors.New("gemini.api_key is required (GEMINI_API_KEY)")
	}
	cfg.Gemini.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Gemini.BaseURL), "/")
	if cfg.Gemini.Timeout.Duration <= 0 {
		return errors.New("gemini.timeout must be positive")
	}
	if cfg.Gemini.Temperature < 0 || cfg.Gemini.Temperature > 2 {
		return fmt.Errorf("gemini.temperature=%v out of range [0,2]", cfg.Gemini.Temperature)
	}

	cfg.ElevenLabs.APIKey = strings.TrimSpace(cfg.ElevenLabs.APIKey)
	cfg.ElevenLabs.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.ElevenLabs.BaseURL), "/")

	if cfg.TTS.PrimaryTimeout.Duration <= 0 {
		return errors.New("tts.primary_timeout must be positive")
	}
	cfg.TTS.FallbackProvider = strings.ToLower(strings.TrimSpace(cfg.TTS.FallbackProvider))
	switch cfg.TTS.FallbackProvider {
	case "":
		cfg.TTS.FallbackProvider = FallbackGoogleTranslate
	case FallbackGoogleTranslate, FallbackGoogleCloud:
	default:
		return fmt.Errorf("invalid tts.fallback_provider=%q", cfg.TTS.FallbackProvider)
	}
	if strings.TrimSpace(cfg.TTS.Language) == "" {
		cfg.TTS.Language = "en"
	}
	if cfg.TTS.MaxTextChars < 0 {
		return errors.New("tts.max_text_chars must not be negative")
	}

	cfg.Cache.Backend = strings.ToLower(strings.TrimSpace(cfg.Cache.Backend))
	switch cfg.Cache.Backend {
	case "":
		cfg.Cache.Backend = CacheMemory
	case CacheMemory:
	case CacheRedis:
		if strings.TrimSpace(cfg.Redis.Addr) == "" {
			return errors.New("cache.backend=redis requires redis.addr (REDIS_ADDR)")
		}
	default:
		return fmt.Errorf("invalid cache.backend=%q", cfg.Cache.Backend)
	}
	if cfg.Cache.MaxEntries < 0 || cfg.Cache.TTL.Duration < 0 {
		return errors.New("cache.max_entries and cache.ttl must not be negative")
	}

	if p := strings.TrimSpace(cfg.Metrics.Path); p == "" || !strings.HasPrefix(p, "/") {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Tracing.SampleRatio < 0 {
		cfg.Tracing.SampleRatio = 0
	}
	if cfg.Tracing.SampleRatio > 1 {
		cfg.Tracing.SampleRatio = 1
	}
	return nil
}
