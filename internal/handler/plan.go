package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/glscharan9/ai-health-companion/internal/logger"
	"github.com/glscharan9/ai-health-companion/internal/middleware"
	"github.com/glscharan9/ai-health-companion/internal/model"
	"github.com/glscharan9/ai-health-companion/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PlanHandler struct {
	plans  *service.PlanService
	export *service.ExportService
}

func NewPlanHandler(plans *service.PlanService, export *service.ExportService) *PlanHandler {
	return &PlanHandler{plans: plans, export: export}
}

// Generate always answers 200 with a {success, message, plan} body; the
// outcome is carried by success.
func (h *PlanHandler) Generate(c *gin.Context) {
	var req model.GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	c.JSON(http.StatusOK, h.plans.GeneratePlan(c.Request.Context(), middleware.UserID(c), req))
}

func (h *PlanHandler) Get(c *gin.Context) {
	plan, ok := h.load(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) Export(c *gin.Context) {
	plan, ok := h.load(c)
	if !ok {
		return
	}
	f, err := h.export.PlanWorkbook(plan)
	if err != nil {
		logger.ErrorCtx(c.Request.Context(), "plan.export.failed", "plan_id", plan.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": service.UserMessage(err)})
		return
	}
	defer f.Close()

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, service.ExportFileName(plan)))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		logger.ErrorCtx(c.Request.Context(), "plan.export.write_failed", "plan_id", plan.ID, "err", err)
	}
}

// Swap returns the replacement meal, or JSON null when none could be made.
func (h *PlanHandler) Swap(c *gin.Context) {
	var req model.SwapMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	c.JSON(http.StatusOK, h.plans.SwapMeal(c.Request.Context(), req))
}

func (h *PlanHandler) Recipe(c *gin.Context) {
	var req model.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	c.JSON(http.StatusOK, model.RecipeResponse{Recipe: h.plans.GetRecipe(c.Request.Context(), req.DishName)})
}

func (h *PlanHandler) load(c *gin.Context) (*model.DietPlan, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan id"})
		return nil, false
	}
	plan, err := h.plans.GetPlan(c.Request.Context(), middleware.UserID(c), uint(id))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": service.UserMessage(err)})
		return nil, false
	}
	return plan, true
}
