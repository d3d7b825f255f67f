package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutorbridge-backend/internal/http/response"
	"github.com/yungbote/tutorbridge-backend/internal/learning/lesson"
	"github.com/yungbote/tutorbridge-backend/internal/platform/apierr"
	"github.com/yungbote/tutorbridge-backend/internal/platform/logger"
)

type LessonHandler struct {
	log *logger.Logger
	svc lesson.Service
}

func NewLessonHandler(log *logger.Logger, svc lesson.Service) *LessonHandler {
	return &LessonHandler{log: log.With("handler", "LessonHandler"), svc: svc}
}

// POST /api/lesson
func (h *LessonHandler) Generate(c *gin.Context) {
	var req lesson.Request
	if aerr := bindJSON(c, &req); aerr != nil {
		h.fail(c, aerr)
		return
	}
	out, err := h.svc.Generate(c.Request.Context(), req)
	if err != nil {
		h.fail(c, apierr.From(err))
		return
	}
	response.RespondRaw(c, http.StatusOK, out)
}

func (h *LessonHandler) fail(c *gin.Context, aerr *apierr.Error) {
	_ = c.Error(aerr)
	if aerr.Status < http.StatusInternalServerError {
		response.RespondFailure(c, aerr.Status, response.NewFailure("Invalid request", aerr))
		return
	}
	f := response.NewFailure("Failed to generate lesson", aerr)
	f.FallbackLesson = lesson.FallbackLesson()
	if aerr.Code == apierr.CodeUpstreamFormatError {
		f.Error = "Failed to parse lesson from model"
		f.Raw = aerr.Raw
	}
	h.log.Error("lesson request failed", "code", aerr.Code, "error", aerr)
	response.RespondFailure(c, aerr.Status, f)
}
