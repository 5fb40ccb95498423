package handler

import (
	"errors"
	"net/http"

	"github.com/glscharan9/ai-health-companion/internal/logger"
	"github.com/glscharan9/ai-health-companion/internal/middleware"
	"github.com/glscharan9/ai-health-companion/internal/model"
	"github.com/glscharan9/ai-health-companion/internal/service"
	"github.com/glscharan9/ai-health-companion/internal/store"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ auth *service.AuthService }

func NewAuthHandler(auth *service.AuthService) *AuthHandler { return &AuthHandler{auth: auth} }

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.auth.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.JSON(statusFor(err), model.AuthResponse{Success: false, Message: service.UserMessage(err)})
		return
	}
	c.JSON(http.StatusOK, model.AuthResponse{Success: true, Message: "Registration successful!", User: u})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.auth.Verify(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		logger.WarnCtx(c.Request.Context(), "login.failed", "username", req.Username)
		c.JSON(statusFor(err), model.AuthResponse{Success: false, Message: service.UserMessage(err)})
		return
	}

	token, err := middleware.IssueToken(u.ID, u.Username)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "login.token_failed", "uid", u.ID, "err", err)
		c.JSON(http.StatusInternalServerError, model.AuthResponse{Success: false, Message: service.UserMessage(err)})
		return
	}
	logger.InfoCtx(c.Request.Context(), "login.ok", "uid", u.ID, "username", u.Username)
	c.JSON(http.StatusOK, model.AuthResponse{Success: true, Message: "Login successful!", User: u, Token: token})
}

// statusFor picks the HTTP status for a service error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, store.ErrUnknownUser):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, store.ErrPlanNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
