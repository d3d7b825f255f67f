package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutorbridge-backend/internal/http/response"
	"github.com/yungbote/tutorbridge-backend/internal/platform/apierr"
	"github.com/yungbote/tutorbridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/tutorbridge-backend/internal/platform/logger"
)

func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if log != nil {
			log.Error("panic recovered",
				"panic", recovered,
				"path", c.Request.URL.Path,
				"request_id", ctxutil.RequestID(c.Request.Context()),
			)
		}
		response.RespondError(c, http.StatusInternalServerError, apierr.CodeInternal, errors.New("internal server error"))
		c.Abort()
	})
}
