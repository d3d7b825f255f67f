package app

import (
	"github.com/yungbote/tutorbridge-backend/internal/config"
	"github.com/yungbote/tutorbridge-backend/internal/http/handlers"
	"github.com/yungbote/tutorbridge-backend/internal/platform/logger"
)

type Handlers struct {
	Health  *handlers.HealthHandler
	Lesson  *handlers.LessonHandler
	TTS     *handlers.TTSHandler
	Explain *handlers.ExplainHandler
}

func wireHandlers(log *logger.Logger, cfg *config.Config, services Services, clients *Clients) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  handlers.NewHealthHandler(),
		Lesson:  handlers.NewLessonHandler(log, services.Lesson),
		TTS:     handlers.NewTTSHandler(log, clients.Speech, cfg.TTS.MaxTextChars),
		Explain: handlers.NewExplainHandler(log, services.Explain),
	}
}
