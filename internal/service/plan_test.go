package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/glscharan9/ai-health-companion/internal/llm"
	"github.com/glscharan9/ai-health-companion/internal/model"
	"github.com/glscharan9/ai-health-companion/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePlanPersists(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "ravi")

	res := e.plan.GeneratePlan(ctx, u.ID, validRequest())
	require.True(t, res.Success, res.Message)
	assert.Equal(t, "Comprehensive plan generated!", res.Message)
	require.NotNil(t, res.Plan)
	assert.NotZero(t, res.Plan.ID)
	assert.Equal(t, 22.9, res.Plan.BMI)
	assert.Equal(t, []string{"Peanuts"}, res.Plan.Allergies.Data())

	require.Len(t, e.llm.calls, 1)
	c := e.llm.calls[0]
	assert.True(t, c.structured)
	assert.Contains(t, c.user, "Peanuts")
	assert.Contains(t, c.user, "22.9")

	stored, err := e.plans.GetByID(ctx, res.Plan.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Plan.Payload(), stored.Payload())
	assert.Equal(t, "Pesarattu", stored.Payload().Diet[0].Meals[0].Dish)
}

func TestGeneratePlanAcceptsFencedResponse(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "ravi")
	e.llm.reply = "```json\n" + minimalPlan + "\n```"

	res := e.plan.GeneratePlan(context.Background(), u.ID, validRequest())
	assert.True(t, res.Success, res.Message)
}

func TestGeneratePlanTransportFailureStoresNothing(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "ravi")
	e.llm.err = fmt.Errorf("%w: status 500: upstream exploded sk-live-123", llm.ErrTransport)

	res := e.plan.GeneratePlan(context.Background(), u.ID, validRequest())
	assert.False(t, res.Success)
	assert.Nil(t, res.Plan)
	assert.Equal(t, msgServerError, res.Message)
	assert.NotContains(t, res.Message, "sk-live-123")
	assert.Zero(t, e.planCount(t))
}

func TestGeneratePlanRejectsBadResponses(t *testing.T) {
	for name, reply := range map[string]string{
		"prose":            "Sure! Here is your plan.",
		"missing exercise": `{"diet":[],"shoppingList":[]}`,
		"string calories":  `{"diet":[{"day":"Monday","daily_calories":"1800","meals":[]}],"exercises":[],"shoppingList":[]}`,
		"unknown meal":     `{"diet":[{"day":"Monday","daily_calories":1800,"meals":[{"name":"Brunch","dish":"Idli","quantity":"2","nutrition":{"calories":1,"protein_g":1,"carbs_g":1,"fat_g":1}}]}],"exercises":[],"shoppingList":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			e := newEnv(t)
			u := e.user(t, "ravi")
			e.llm.reply = reply

			res := e.plan.GeneratePlan(context.Background(), u.ID, validRequest())
			assert.False(t, res.Success)
			assert.Equal(t, msgServerError, res.Message)
			assert.Zero(t, e.planCount(t))
		})
	}
}

func TestGeneratePlanValidatesInput(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "ravi")

	for name, mutate := range map[string]func(*model.GeneratePlanRequest){
		"zero weight":     func(r *model.GeneratePlanRequest) { r.Weight = 0 },
		"negative height": func(r *model.GeneratePlanRequest) { r.Height = -170 },
		"blank activity":  func(r *model.GeneratePlanRequest) { r.ActivityLevel = "  " },
		"no preference":   func(r *model.GeneratePlanRequest) { r.DietaryPreference = "" },
	} {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			mutate(&req)
			res := e.plan.GeneratePlan(context.Background(), u.ID, req)
			assert.False(t, res.Success)
			assert.NotEqual(t, msgServerError, res.Message)
		})
	}
	assert.Empty(t, e.llm.calls)
	assert.Zero(t, e.planCount(t))
}

func TestGeneratePlanUnknownUser(t *testing.T) {
	e := newEnv(t)

	res := e.plan.GeneratePlan(context.Background(), 4242, validRequest())
	assert.False(t, res.Success)
	assert.Equal(t, "Unknown user. Please log in again.", res.Message)
	assert.Empty(t, e.llm.calls)
}

func TestGeneratePlanNotConfigured(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "ravi")
	e.llm.err = llm.ErrNotConfigured

	res := e.plan.GeneratePlan(context.Background(), u.ID, validRequest())
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "not configured")
	assert.Zero(t, e.planCount(t))
}

func TestGeneratedPlansListNewestFirst(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.user(t, "ravi")

	var ids []uint
	for i := 0; i < 3; i++ {
		res := e.plan.GeneratePlan(ctx, u.ID, validRequest())
		require.True(t, res.Success, res.Message)
		ids = append(ids, res.Plan.ID)
	}

	list, err := e.plans.ListByUser(ctx, u.ID, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []uint{ids[2], ids[1], ids[0]}, []uint{list[0].ID, list[1].ID, list[2].ID})
}

func TestSwapMeal(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "ravi")
	require.True(t, e.plan.GeneratePlan(context.Background(), u.ID, validRequest()).Success)
	before := e.planCount(t)

	e.llm.reply = `{"name":"Lunch","dish":"Gongura Pappu","quantity":"1 bowl","nutrition":{"calories":350,"protein_g":15,"carbs_g":45,"fat_g":9}}`
	meal := e.plan.SwapMeal(context.Background(), model.SwapMealRequest{
		MealName: "Lunch", DishToSwap: "Sambar Rice", DietaryPreference: "Vegetarian",
	})
	require.NotNil(t, meal)
	assert.Equal(t, "Gongura Pappu", meal.Dish)
	assert.Equal(t, 350, meal.Nutrition.Calories)
	assert.Equal(t, before, e.planCount(t))

	last := e.llm.calls[len(e.llm.calls)-1]
	assert.True(t, last.structured)
	assert.Contains(t, last.user, "Sambar Rice")
}

func TestSwapMealFailures(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	good := model.SwapMealRequest{MealName: "Lunch", DishToSwap: "Sambar Rice", DietaryPreference: "Vegetarian"}

	e.llm.reply = `{"name":"Dinner","dish":"Upma","quantity":"1 plate","nutrition":{"calories":1,"protein_g":1,"carbs_g":1,"fat_g":1}}`
	assert.Nil(t, e.plan.SwapMeal(ctx, good), "meal name mismatch")

	e.llm.reply = `{"name":"Lunch","dish":"Upma"}`
	assert.Nil(t, e.plan.SwapMeal(ctx, good), "missing fields")

	e.llm.err = errors.New("boom")
	assert.Nil(t, e.plan.SwapMeal(ctx, good), "transport")

	calls := len(e.llm.calls)
	assert.Nil(t, e.plan.SwapMeal(ctx, model.SwapMealRequest{MealName: "Brunch", DishToSwap: "Idli", DietaryPreference: "Vegan"}))
	assert.Nil(t, e.plan.SwapMeal(ctx, model.SwapMealRequest{MealName: "Lunch"}))
	assert.Len(t, e.llm.calls, calls, "invalid requests never reach the model")
}

func TestGetRecipe(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.llm.reply = "Ingredients:\n- rice\n\nSteps:\n1. Cook."
	assert.Equal(t, e.llm.reply, e.plan.GetRecipe(ctx, "Pulihora"))
	assert.False(t, e.llm.calls[0].structured)

	e.llm.err = llm.ErrNotConfigured
	assert.Equal(t, RecipeNotConfigured, e.plan.GetRecipe(ctx, "Pulihora"))

	e.llm.err = fmt.Errorf("%w: timeout", llm.ErrTransport)
	assert.Equal(t, RecipeUnavailable, e.plan.GetRecipe(ctx, "Pulihora"))

	assert.Equal(t, RecipeUnavailable, e.plan.GetRecipe(ctx, "  "))
}

func TestGetPlanChecksOwner(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.user(t, "ravi")
	other := e.user(t, "sita")

	res := e.plan.GeneratePlan(ctx, owner.ID, validRequest())
	require.True(t, res.Success)

	p, err := e.plan.GetPlan(ctx, owner.ID, res.Plan.ID)
	require.NoError(t, err)
	assert.Equal(t, res.Plan.ID, p.ID)

	_, err = e.plan.GetPlan(ctx, other.ID, res.Plan.ID)
	assert.ErrorIs(t, err, store.ErrPlanNotFound)

	_, err = e.plan.GetPlan(ctx, owner.ID, 9999)
	assert.ErrorIs(t, err, store.ErrPlanNotFound)
}
