package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type frontendLogRequest struct {
	Stack   string `json:"stack"`
	Level   string `json:"level"`
	Package string `json:"package"`
	Message string `json:"message"`
}

// IngestFrontendLog handles POST /internal/log: the browser UI has no sink
// credentials, so its log lines pass through here. Only frontend-stack
// events are accepted.
func (h *Handler) IngestFrontendLog(c *gin.Context) {
	var req frontendLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if req.Stack != "frontend" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stack"})
		return
	}
	if err := h.relay.Send(c.Request.Context(), "frontend", req.Level, req.Package, req.Message); err != nil {
		h.logger.Error("frontend log forward failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "log failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
