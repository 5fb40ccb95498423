package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/glscharan9/ai-health-companion/internal/llm"
	"github.com/glscharan9/ai-health-companion/internal/model"
	"github.com/glscharan9/ai-health-companion/internal/planjson"
	"github.com/glscharan9/ai-health-companion/internal/store"

	"github.com/stretchr/testify/assert"
)

func TestUserMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{invalid("Weight must be greater than 0."), "Weight must be greater than 0."},
		{fmt.Errorf("create user: %w", store.ErrDuplicateUsername), "Username already exists."},
		{store.ErrUnknownUser, "Unknown user. Please log in again."},
		{ErrInvalidCredentials, "Invalid username or password."},
		{store.ErrPlanNotFound, "Plan not found."},
		{fmt.Errorf("%w: dial tcp: refused", llm.ErrTransport), msgServerError},
		{&planjson.ValidationError{Kind: planjson.ErrSchemaMismatch, Path: "diet[0]"}, msgServerError},
		{errors.New("driver: bad connection"), msgServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, UserMessage(tc.err), "err %v", tc.err)
	}
	assert.ErrorIs(t, ErrInvalidWeight, ErrInvalidInput)
}

func TestValidateStructMessages(t *testing.T) {
	err := validateStruct(&model.GeneratePlanRequest{Height: 170, ActivityLevel: "Active", DietaryPreference: "Vegan"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "weight must be greater than 0.", err.Error())

	err = validateStruct(&model.SwapMealRequest{MealName: "Lunch", DishToSwap: "Idli"})
	assert.Equal(t, "dietary_preference is required.", err.Error())

	assert.NoError(t, validateStruct(&model.SwapMealRequest{MealName: "Lunch", DishToSwap: "Idli", DietaryPreference: "Vegan"}))
}
