package response

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutorbridge-backend/internal/platform/apierr"
)

const contentTypeJSON = "application/json; charset=utf-8"

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondRaw writes pre-validated JSON bytes without re-encoding them.
func RespondRaw(c *gin.Context, status int, payload json.RawMessage) {
	c.Data(status, contentTypeJSON, payload)
}

// Failure is the flat error body of the learning endpoints.
type Failure struct {
	Error          string          `json:"error"`
	Code           string          `json:"code,omitempty"`
	Details        string          `json:"details,omitempty"`
	Raw            string          `json:"raw,omitempty"`
	FallbackLesson json.RawMessage `json:"fallbackLesson,omitempty"`
}

// NewFailure fills Code and Details from err; summary is the user-facing message.
func NewFailure(summary string, err error) Failure {
	f := Failure{Error: summary}
	if ae := apierr.From(err); ae != nil {
		f.Code = ae.Code
		f.Details = ae.Error()
	}
	return f
}

func RespondFailure(c *gin.Context, status int, f Failure) {
	c.JSON(status, f)
}
