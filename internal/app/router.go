package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutorbridge-backend/internal/config"
	httpx "github.com/yungbote/tutorbridge-backend/internal/http"
	"github.com/yungbote/tutorbridge-backend/internal/observability"
	"github.com/yungbote/tutorbridge-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg *config.Config, metrics *observability.Metrics, h Handlers) *gin.Engine {
	tracingService := ""
	if cfg.Tracing.Enabled {
		tracingService = cfg.Tracing.ServiceName
	}
	return httpx.NewRouter(httpx.RouterConfig{
		Log:             log,
		TracingService:  tracingService,
		Metrics:         metrics,
		MetricsPath:     cfg.Metrics.Path,
		CORSOrigins:     cfg.HTTP.CORSOrigins,
		MaxRequestBytes: cfg.HTTP.MaxRequestBytes,
		HealthHandler:   h.Health,
		LessonHandler:   h.Lesson,
		TTSHandler:      h.TTS,
		ExplainHandler:  h.Explain,
	})
}
