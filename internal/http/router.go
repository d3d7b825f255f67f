package http

import (
	"errors"
	nethttp "net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/tutorbridge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/tutorbridge-backend/internal/http/middleware"
	"github.com/yungbote/tutorbridge-backend/internal/http/response"
	"github.com/yungbote/tutorbridge-backend/internal/observability"
	"github.com/yungbote/tutorbridge-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	// TracingService enables otelgin spans under this service name when non-empty.
	TracingService  string
	Metrics         *observability.Metrics
	MetricsPath     string
	CORSOrigins     []string
	MaxRequestBytes int64

	HealthHandler  *httpH.HealthHandler
	LessonHandler  *httpH.LessonHandler
	TTSHandler     *httpH.TTSHandler
	ExplainHandler *httpH.ExplainHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(httpMW.Recovery(cfg.Log))
	if name := strings.TrimSpace(cfg.TracingService); name != "" {
		r.Use(otelgin.Middleware(name))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.MaxBodyBytes(cfg.MaxRequestBytes))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/health", cfg.HealthHandler.HealthCheck)
	}

	// Metrics
	if cfg.Metrics != nil {
		path := strings.TrimSpace(cfg.MetricsPath)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		if cfg.HealthHandler != nil {
			api.GET("/test", cfg.HealthHandler.APITest)
		}
		if cfg.LessonHandler != nil {
			api.POST("/lesson", cfg.LessonHandler.Generate)
		}
		if cfg.TTSHandler != nil {
			api.GET("/tts", cfg.TTSHandler.Synthesize)
		}
		if cfg.ExplainHandler != nil {
			api.POST("/gamification/explain-concept", cfg.ExplainHandler.ExplainConcept)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.RespondError(c, nethttp.StatusNotFound, "not_found", errors.New("route not found"))
	})

	return r
}
