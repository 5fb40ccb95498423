package handler

import (
	"net/http"

	"github.com/glscharan9/ai-health-companion/internal/middleware"
	"github.com/glscharan9/ai-health-companion/internal/model"
	"github.com/glscharan9/ai-health-companion/internal/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct{ progress *service.ProgressService }

func NewProgressHandler(progress *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

func (h *ProgressHandler) LogWeight(c *gin.Context) {
	var req model.LogWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.progress.LogWeight(c.Request.Context(), middleware.UserID(c), req.Date, req.Weight); err != nil {
		c.JSON(statusFor(err), model.StatusResponse{Success: false, Message: service.UserMessage(err)})
		return
	}
	c.JSON(http.StatusOK, model.StatusResponse{Success: true, Message: "Weight logged successfully!"})
}

func (h *ProgressHandler) Dashboard(c *gin.Context) {
	d, err := h.progress.Dashboard(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": service.UserMessage(err)})
		return
	}
	c.JSON(http.StatusOK, d)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
