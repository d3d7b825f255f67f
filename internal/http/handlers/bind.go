package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutorbridge-backend/internal/platform/apierr"
)

// bindJSON decodes the body into dst. An empty body leaves dst zero-valued so the
// service can report which fields are missing.
func bindJSON(c *gin.Context, dst any) *apierr.Error {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return apierr.New(http.StatusRequestEntityTooLarge, apierr.CodeInvalidRequest,
			errors.New("request body too large"))
	}
	return apierr.InvalidRequest("invalid JSON body: %v", err)
}
