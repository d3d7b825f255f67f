package app

import (
	"context"
	"fmt"
	"net/http"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/tutorbridge-backend/internal/config"
	"github.com/yungbote/tutorbridge-backend/internal/observability"
	"github.com/yungbote/tutorbridge-backend/internal/platform/gemini"
	"github.com/yungbote/tutorbridge-backend/internal/platform/logger"
	"github.com/yungbote/tutorbridge-backend/internal/platform/redis"
	"github.com/yungbote/tutorbridge-backend/internal/platform/tts"
)

type Clients struct {
	Gemini *gemini.Client
	// Speech is the primary-with-fallback synthesizer the TTS handler serves.
	Speech *tts.Fallback
	Redis  *goredis.Client

	closers []func() error
}

func wireClients(ctx context.Context, log *logger.Logger, cfg *config.Config, metrics *observability.Metrics) (*Clients, error) {
	log.Info("Wiring clients...")
	c := &Clients{}

	// Gemini
	gem, err := gemini.New(gemini.Config{
		APIKey:      cfg.Gemini.APIKey,
		BaseURL:     cfg.Gemini.BaseURL,
		Model:       cfg.Gemini.Model,
		Timeout:     cfg.Gemini.Timeout.Duration,
		Temperature: cfg.Gemini.Temperature,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	c.Gemini = gem

	// TTS primary (optional)
	var primary tts.Synthesizer
	if cfg.ElevenLabs.APIKey != "" {
		el, err := tts.NewElevenLabs(tts.ElevenLabsConfig{
			APIKey:  cfg.ElevenLabs.APIKey,
			BaseURL: cfg.ElevenLabs.BaseURL,
			VoiceID: cfg.ElevenLabs.VoiceID,
			ModelID: cfg.ElevenLabs.ModelID,
		}, &http.Client{Timeout: cfg.ElevenLabs.Timeout.Duration})
		if err != nil {
			return nil, fmt.Errorf("init elevenlabs: %w", err)
		}
		primary = el
	} else {
		log.Warn("ELEVENLABS_API_KEY not set; speech is served by the fallback provider only")
	}

	// TTS secondary
	var secondary tts.Synthesizer
	switch cfg.TTS.FallbackProvider {
	case config.FallbackGoogleCloud:
		gc, err := tts.NewGoogleCloud(ctx, tts.GoogleCloudConfig{
			LanguageCode: cfg.GoogleCloud.LanguageCode,
			VoiceName:    cfg.GoogleCloud.VoiceName,
			Credentials:  cfg.GoogleCloud.Credentials,
		})
		if err != nil {
			return nil, fmt.Errorf("init google cloud tts: %w", err)
		}
		c.closers = append(c.closers, gc.Close)
		secondary = gc
	default:
		secondary = tts.NewGoogleTranslate(tts.GoogleTranslateConfig{
			BaseURL:  cfg.GoogleTranslate.BaseURL,
			Language: cfg.TTS.Language,
		}, &http.Client{Timeout: cfg.GoogleTranslate.Timeout.Duration})
	}

	opts := []tts.FallbackOption{tts.WithPrimaryTimeout(cfg.TTS.PrimaryTimeout.Duration)}
	if metrics != nil {
		opts = append(opts, tts.WithRecorder(metrics))
	}
	speech, err := tts.NewFallback(log, primary, secondary, opts...)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init tts fallback: %w", err)
	}
	c.Speech = speech

	// Redis (explanation cache backend)
	if cfg.Cache.Backend == config.CacheRedis {
		rdb, err := redis.NewClient(ctx, log, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("init redis: %w", err)
		}
		c.Redis = rdb
		c.closers = append(c.closers, rdb.Close)
	}

	return c, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		_ = c.closers[i]()
	}
	c.closers = nil
}
