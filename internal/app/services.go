package app

import (
	"fmt"

	"github.com/yungbote/tutorbridge-backend/internal/config"
	"github.com/yungbote/tutorbridge-backend/internal/learning/explain"
	"github.com/yungbote/tutorbridge-backend/internal/learning/lesson"
	"github.com/yungbote/tutorbridge-backend/internal/observability"
	"github.com/yungbote/tutorbridge-backend/internal/platform/logger"
)

type Services struct {
	Lesson  lesson.Service
	Explain explain.Service
}

func wireServices(log *logger.Logger, cfg *config.Config, clients *Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	var genRecorder interface {
		lesson.Recorder
		explain.GenerationRecorder
	}
	if metrics != nil {
		genRecorder = metrics
	}

	lessonSvc, err := lesson.NewService(log, clients.Gemini, genRecorder)
	if err != nil {
		return Services{}, fmt.Errorf("init lesson service: %w", err)
	}

	store, err := wireExplainStore(cfg, clients)
	if err != nil {
		return Services{}, err
	}
	cacheOpts := []explain.CacheOption{explain.WithLoadTimeout(cfg.Gemini.Timeout.Duration)}
	if metrics != nil {
		cacheOpts = append(cacheOpts, explain.WithLookupRecorder(metrics))
	}
	cache, err := explain.NewCache(log, store, cacheOpts...)
	if err != nil {
		return Services{}, fmt.Errorf("init explanation cache: %w", err)
	}
	explainSvc, err := explain.NewService(log, clients.Gemini, cache, genRecorder)
	if err != nil {
		return Services{}, fmt.Errorf("init explain service: %w", err)
	}
	log.Info("explanation cache ready",
		"backend", cfg.Cache.Backend,
		"max_entries", cfg.Cache.MaxEntries,
		"ttl", cfg.Cache.TTL.Duration.String(),
	)

	return Services{Lesson: lessonSvc, Explain: explainSvc}, nil
}

func wireExplainStore(cfg *config.Config, clients *Clients) (explain.Store, error) {
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		if clients.Redis == nil {
			return nil, fmt.Errorf("cache.backend=redis but no redis client")
		}
		return explain.NewRedisStore(clients.Redis, cfg.Redis.Prefix, cfg.Cache.TTL.Duration)
	default:
		return explain.NewMemoryStore(cfg.Cache.MaxEntries, cfg.Cache.TTL.Duration), nil
	}
}
