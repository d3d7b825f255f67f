package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutorbridge-backend/internal/http/response"
	"github.com/yungbote/tutorbridge-backend/internal/learning/explain"
	"github.com/yungbote/tutorbridge-backend/internal/platform/apierr"
	"github.com/yungbote/tutorbridge-backend/internal/platform/logger"
)

const headerCache = "X-Cache"

type ExplainHandler struct {
	log *logger.Logger
	svc explain.Service
}

func NewExplainHandler(log *logger.Logger, svc explain.Service) *ExplainHandler {
	return &ExplainHandler{log: log.With("handler", "ExplainHandler"), svc: svc}
}

// POST /api/gamification/explain-concept
func (h *ExplainHandler) ExplainConcept(c *gin.Context) {
	var req explain.Request
	if aerr := bindJSON(c, &req); aerr != nil {
		h.fail(c, aerr)
		return
	}
	res, err := h.svc.Explain(c.Request.Context(), req)
	if err != nil {
		h.fail(c, apierr.From(err))
		return
	}
	if res.Cached {
		c.Header(headerCache, "HIT")
	} else {
		c.Header(headerCache, "MISS")
	}
	response.RespondRaw(c, http.StatusOK, res.Payload)
}

func (h *ExplainHandler) fail(c *gin.Context, aerr *apierr.Error) {
	_ = c.Error(aerr)
	if aerr.Status < http.StatusInternalServerError {
		response.RespondFailure(c, aerr.Status, response.NewFailure("Invalid request", aerr))
		return
	}
	h.log.Error("explain-concept request failed", "code", aerr.Code, "error", aerr)
	response.RespondFailure(c, aerr.Status, response.NewFailure("Failed to generate explanation", aerr))
}
