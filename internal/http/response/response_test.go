package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutorbridge-backend/internal/platform/apierr"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, errors.New("text is required"))

	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec.Code != http.StatusBadRequest || env.Error.Code != "invalid_request" || env.Error.Message != "text is required" {
		t.Fatalf("unexpected envelope %d %+v", rec.Code, env)
	}
}

func TestFailureOmitsEmptyFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	RespondFailure(c, http.StatusInternalServerError, NewFailure("Failed", apierr.GenerationFailed(errors.New("upstream 503"))))

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["error"] != "Failed" || got["code"] != "generation_failed" || got["details"] != "upstream 503" {
		t.Fatalf("unexpected body %v", got)
	}
	if _, ok := got["raw"]; ok {
		t.Fatalf("raw should be omitted")
	}
	if _, ok := got["fallbackLesson"]; ok {
		t.Fatalf("fallbackLesson should be omitted")
	}
}
