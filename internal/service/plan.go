package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glscharan9/ai-health-companion/internal/llm"
	"github.com/glscharan9/ai-health-companion/internal/logger"
	"github.com/glscharan9/ai-health-companion/internal/model"
	"github.com/glscharan9/ai-health-companion/internal/planjson"
	"github.com/glscharan9/ai-health-companion/internal/prompt"
	"github.com/glscharan9/ai-health-companion/internal/store"

	"gorm.io/datatypes"
)

const (
	RecipeNotConfigured = "API key not configured."
	RecipeUnavailable   = "Sorry, I couldn't fetch the recipe at this time."
)

// Completer is the model call PlanService depends on; *llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, system, user string, structured bool) (string, error)
}

// PlanService coordinates prompt building, the model call, response
// validation and persistence. Each operation is one linear pipeline; the
// model call runs outside any store transaction.
type PlanService struct {
	users   store.UserRepository
	plans   store.PlanRepository
	llm     Completer
	prompts *prompt.Builder
}

func NewPlanService(users store.UserRepository, plans store.PlanRepository, llm Completer, prompts *prompt.Builder) *PlanService {
	return &PlanService{users: users, plans: plans, llm: llm, prompts: prompts}
}

func (s *PlanService) GeneratePlan(ctx context.Context, userID uint, req model.GeneratePlanRequest) model.PlanResponse {
	plan, err := s.generate(ctx, userID, req)
	if err != nil {
		return model.PlanResponse{Success: false, Message: UserMessage(err)}
	}
	return model.PlanResponse{Success: true, Message: "Comprehensive plan generated!", Plan: plan}
}

func (s *PlanService) generate(ctx context.Context, userID uint, req model.GeneratePlanRequest) (*model.DietPlan, error) {
	req.ActivityLevel = strings.TrimSpace(req.ActivityLevel)
	req.DietaryPreference = strings.TrimSpace(req.DietaryPreference)
	req.Allergies = cleanAllergies(req.Allergies)
	if err := validateStruct(&req); err != nil {
		logger.InfoCtx(ctx, "plan.generate.rejected", "uid", userID, "err", err)
		return nil, err
	}

	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		logger.ErrorCtx(ctx, "plan.generate.user_lookup_failed", "uid", userID, "err", err)
		return nil, err
	}
	if !ok {
		return nil, store.ErrUnknownUser
	}

	ins, err := s.prompts.ForPlan(prompt.PlanInput{
		WeightKg:          req.Weight,
		HeightCm:          req.Height,
		ActivityLevel:     req.ActivityLevel,
		DietaryPreference: req.DietaryPreference,
		IncludeCheatMeal:  req.IncludeCheatMeal,
		Allergies:         req.Allergies,
	})
	if err != nil {
		return nil, invalid("Weight and height must be greater than 0.")
	}

	raw, err := s.llm.Complete(ctx, ins.System, ins.User, true)
	if err != nil {
		logger.ErrorCtx(ctx, "plan.generate.model_failed", "uid", userID, "err", err)
		return nil, err
	}

	payload, err := planjson.Parse(raw)
	if err != nil {
		logger.ErrorCtx(ctx, "plan.generate.bad_response", "uid", userID, "err", err, "raw", raw)
		return nil, err
	}

	plan := &model.DietPlan{
		UserID:            userID,
		WeightKg:          req.Weight,
		HeightCm:          req.Height,
		ActivityLevel:     req.ActivityLevel,
		DietaryPreference: req.DietaryPreference,
		IncludeCheatMeal:  req.IncludeCheatMeal,
		Allergies:         datatypes.NewJSONType(req.Allergies),
		BMI:               prompt.BMI(req.Weight, req.Height),
	}
	plan.SetPayload(payload)
	if _, err := s.plans.Save(ctx, plan); err != nil {
		logger.ErrorCtx(ctx, "plan.generate.save_failed", "uid", userID, "err", err)
		return nil, err
	}

	logger.InfoCtx(ctx, "plan.generate.ok", "uid", userID, "plan_id", plan.ID, "bmi", plan.BMI, "days", len(payload.Diet))
	return plan, nil
}

// SwapMeal asks the model for a replacement meal. It returns nil on any
// failure and never writes to the store; the caller splices the result into
// its own copy of the plan.
func (s *PlanService) SwapMeal(ctx context.Context, req model.SwapMealRequest) *model.Meal {
	meal, err := s.swap(ctx, req)
	if err != nil {
		return nil
	}
	return meal
}

func (s *PlanService) swap(ctx context.Context, req model.SwapMealRequest) (*model.Meal, error) {
	req.MealName = strings.TrimSpace(req.MealName)
	req.DishToSwap = strings.TrimSpace(req.DishToSwap)
	req.DietaryPreference = strings.TrimSpace(req.DietaryPreference)
	if err := validateStruct(&req); err != nil {
		logger.InfoCtx(ctx, "plan.swap.rejected", "err", err)
		return nil, err
	}
	if !model.IsMealName(req.MealName) {
		return nil, invalid("meal_name must be one of %s.", strings.Join(model.MealNames, ", "))
	}

	ins := s.prompts.ForSwap(req.MealName, req.DishToSwap, req.DietaryPreference)
	raw, err := s.llm.Complete(ctx, ins.System, ins.User, true)
	if err != nil {
		logger.ErrorCtx(ctx, "plan.swap.model_failed", "meal", req.MealName, "dish", req.DishToSwap, "err", err)
		return nil, err
	}

	meal, err := planjson.ParseMeal(raw)
	if err == nil && meal.Name != req.MealName {
		err = &planjson.ValidationError{Kind: planjson.ErrSchemaMismatch, Path: "name", Reason: fmt.Sprintf("expected %q, got %q", req.MealName, meal.Name)}
	}
	if err != nil {
		logger.ErrorCtx(ctx, "plan.swap.bad_response", "meal", req.MealName, "err", err, "raw", raw)
		return nil, err
	}

	logger.InfoCtx(ctx, "plan.swap.ok", "meal", req.MealName, "from", req.DishToSwap, "to", meal.Dish)
	return &meal, nil
}

// GetRecipe returns the model's free-text recipe verbatim, or a fixed
// fallback sentence when it cannot.
func (s *PlanService) GetRecipe(ctx context.Context, dish string) string {
	dish = strings.TrimSpace(dish)
	if dish == "" {
		return RecipeUnavailable
	}
	ins := prompt.ForRecipe(dish)
	text, err := s.llm.Complete(ctx, ins.System, ins.User, false)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return RecipeNotConfigured
		}
		logger.ErrorCtx(ctx, "plan.recipe.failed", "dish", dish, "err", err)
		return RecipeUnavailable
	}
	return text
}

// GetPlan returns a stored plan only to the user who owns it.
func (s *PlanService) GetPlan(ctx context.Context, userID, planID uint) (*model.DietPlan, error) {
	p, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, store.ErrPlanNotFound
	}
	return p, nil
}

func cleanAllergies(in []string) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
