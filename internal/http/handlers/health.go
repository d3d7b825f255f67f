package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

// GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /api/test
func (h *HealthHandler) APITest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "API is working"})
}
