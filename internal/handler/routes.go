package handler

import (
	"github.com/glscharan9/ai-health-companion/internal/middleware"

	"github.com/gin-gonic/gin"
)

func Routes(r *gin.Engine, auth *AuthHandler, plans *PlanHandler, progress *ProgressHandler) {
	r.GET("/healthz", Health)
	r.POST("/api/register", auth.Register)
	r.POST("/api/login", auth.Login)

	api := r.Group("/api", middleware.JWTAuth())
	api.POST("/plans", plans.Generate)
	api.GET("/plans/:id", plans.Get)
	api.GET("/plans/:id/export", plans.Export)
	api.POST("/meals/swap", plans.Swap)
	api.POST("/recipes", plans.Recipe)
	api.POST("/progress", progress.LogWeight)
	api.GET("/dashboard", progress.Dashboard)
}
