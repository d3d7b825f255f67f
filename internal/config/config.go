package config

import "time"

// Duration accepts "7s"-style strings or integer nanoseconds in JSON, YAML and env.
type Duration struct {
	Duration time.Duration
}

func D(d time.Duration) Duration { return Duration{Duration: d} }

type HTTPConfig struct {
	Addr              string   `json:"addr" yaml:"addr" env:"ADDR"`
	ReadHeaderTimeout Duration `json:"read_header_timeout" yaml:"read_header_timeout" env:"READ_HEADER_TIMEOUT"`
	IdleTimeout       Duration `json:"idle_timeout" yaml:"idle_timeout" env:"IDLE_TIMEOUT"`
	ShutdownTimeout   Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	MaxRequestBytes   int64    `json:"max_request_bytes" yaml:"max_request_bytes" env:"MAX_REQUEST_BYTES"`
	CORSOrigins       []string `json:"cors_origins" yaml:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`
}

type GeminiConfig struct {
	APIKey      string   `json:"api_key" yaml:"api_key" env:"API_KEY"`
	BaseURL     string   `json:"base_url" yaml:"base_url" env:"BASE_URL"`
	Model       string   `json:"model" yaml:"model" env:"MODEL"`
	Timeout     Duration `json:"timeout" yaml:"timeout" env:"TIMEOUT"`
	Temperature float64  `json:"temperature" yaml:"temperature" env:"TEMPERATURE"`
}

type ElevenLabsConfig struct {
	// APIKey empty disables the neural tier; every request goes to the fallback provider.
	APIKey  string   `json:"api_key" yaml:"api_key" env:"API_KEY"`
	BaseURL string   `json:"base_url" yaml:"base_url" env:"BASE_URL"`
	VoiceID string   `json:"voice_id" yaml:"voice_id" env:"VOICE_ID"`
	ModelID string   `json:"model_id" yaml:"model_id" env:"MODEL_ID"`
	Timeout Duration `json:"timeout" yaml:"timeout" env:"TIMEOUT"`
}

const (
	FallbackGoogleTranslate = "google_translate"
	FallbackGoogleCloud     = "google_cloud"
)

type TTSConfig struct {
	PrimaryTimeout   Duration `json:"primary_timeout" yaml:"primary_timeout" env:"PRIMARY_TIMEOUT"`
	FallbackProvider string   `json:"fallback_provider" yaml:"fallback_provider" env:"FALLBACK_PROVIDER"`
	Language         string   `json:"language" yaml:"language" env:"LANGUAGE"`
	MaxTextChars     int      `json:"max_text_chars" yaml:"max_text_chars" env:"MAX_TEXT_CHARS"`
}

type GoogleTranslateConfig struct {
	BaseURL string   `json:"base_url" yaml:"base_url" env:"BASE_URL"`
	Timeout Duration `json:"timeout" yaml:"timeout" env:"TIMEOUT"`
}

type GoogleCloudConfig struct {
	LanguageCode string `json:"language_code" yaml:"language_code" env:"LANGUAGE_CODE"`
	VoiceName    string `json:"voice_name" yaml:"voice_name" env:"VOICE_NAME"`
	// Credentials is a service-account JSON document or a path to one. Empty uses ADC.
	Credentials string `json:"credentials" yaml:"credentials" env:"CREDENTIALS"`
}

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type CacheConfig struct {
	Backend    string   `json:"backend" yaml:"backend" env:"BACKEND"`
	MaxEntries int      `json:"max_entries" yaml:"max_entries" env:"MAX_ENTRIES"`
	TTL        Duration `json:"ttl" yaml:"ttl" env:"TTL"`
}

type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr" env:"ADDR"`
	Password string `json:"password" yaml:"password" env:"PASSWORD"`
	DB       int    `json:"db" yaml:"db" env:"DB"`
	Prefix   string `json:"prefix" yaml:"prefix" env:"PREFIX"`
}

type MetricsConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" env:"ENABLED"`
	Path    string `json:"path" yaml:"path" env:"PATH"`
}

// TracingConfig reads the standard OTEL_* variable names.
type TracingConfig struct {
	Enabled     bool              `json:"enabled" yaml:"enabled" env:"OTEL_ENABLED"`
	ServiceName string            `json:"service_name" yaml:"service_name" env:"OTEL_SERVICE_NAME"`
	SampleRatio float64           `json:"sample_ratio" yaml:"sample_ratio" env:"OTEL_SAMPLER_RATIO"`
	Endpoint    string            `json:"endpoint" yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Insecure    bool              `json:"insecure" yaml:"insecure" env:"OTEL_EXPORTER_OTLP_INSECURE"`
	Headers     map[string]string `json:"headers" yaml:"headers" env:"OTEL_EXPORTER_OTLP_HEADERS" envKeyValSeparator:"="`
}

type Config struct {
	Env      string `json:"env" yaml:"env" env:"LOG_MODE"`
	LogLevel string `json:"log_level" yaml:"log_level" env:"LOG_LEVEL"`

	HTTP            HTTPConfig            `json:"http" yaml:"http" envPrefix:"HTTP_"`
	Gemini          GeminiConfig          `json:"gemini" yaml:"gemini" envPrefix:"GEMINI_"`
	ElevenLabs      ElevenLabsConfig      `json:"elevenlabs" yaml:"elevenlabs" envPrefix:"ELEVENLABS_"`
	TTS             TTSConfig             `json:"tts" yaml:"tts" envPrefix:"TTS_"`
	GoogleTranslate GoogleTranslateConfig `json:"google_translate" yaml:"google_translate" envPrefix:"GOOGLE_TRANSLATE_"`
	GoogleCloud     GoogleCloudConfig     `json:"google_cloud" yaml:"google_cloud" envPrefix:"GOOGLE_CLOUD_"`
	Cache           CacheConfig           `json:"cache" yaml:"cache" envPrefix:"CACHE_"`
	Redis           RedisConfig           `json:"redis" yaml:"redis" envPrefix:"REDIS_"`
	Metrics         MetricsConfig         `json:"metrics" yaml:"metrics" envPrefix:"METRICS_"`
	Tracing         TracingConfig         `json:"tracing" yaml:"tracing"`
}
