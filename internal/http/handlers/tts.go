package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutorbridge-backend/internal/http/response"
	"github.com/yungbote/tutorbridge-backend/internal/platform/apierr"
	"github.com/yungbote/tutorbridge-backend/internal/platform/logger"
	"github.com/yungbote/tutorbridge-backend/internal/platform/tts"
)

const headerTTSProvider = "X-TTS-Provider"

type TTSHandler struct {
	log      *logger.Logger
	synth    tts.Synthesizer
	maxChars int
}

// NewTTSHandler serves synth, usually a *tts.Fallback. maxChars <= 0 disables the length check.
func NewTTSHandler(log *logger.Logger, synth tts.Synthesizer, maxChars int) *TTSHandler {
	return &TTSHandler{log: log.With("handler", "TTSHandler"), synth: synth, maxChars: maxChars}
}

// GET /api/tts?text=...
func (h *TTSHandler) Synthesize(c *gin.Context) {
	text := strings.TrimSpace(c.Query("text"))
	if text == "" {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, errors.New("text query parameter is required"))
		return
	}
	if h.maxChars > 0 && utf8.RuneCountInString(text) > h.maxChars {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest,
			errors.New("text exceeds "+strconv.Itoa(h.maxChars)+" characters"))
		return
	}

	audio, err := h.synth.Synthesize(c.Request.Context(), text)
	if err != nil {
		aerr := apierr.SynthesisFailed(err)
		_ = c.Error(aerr)
		h.log.Error("speech synthesis failed", "error", err, "chars", utf8.RuneCountInString(text))
		c.String(aerr.Status, "Speech synthesis failed")
		return
	}

	contentType := audio.ContentType
	if contentType == "" {
		contentType = tts.ContentTypeMPEG
	}
	c.Header(headerTTSProvider, audio.Provider)
	c.Header("Content-Length", strconv.Itoa(len(audio.Data)))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, audio.Data)
}
