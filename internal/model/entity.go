package model

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
	Token   string `json:"token,omitempty"`
}

type GeneratePlanRequest struct {
	Weight            float64  `json:"weight" validate:"gt=0"`
	Height            float64  `json:"height" validate:"gt=0"`
	ActivityLevel     string   `json:"activity_level" validate:"required,max=64"`
	IncludeCheatMeal  bool     `json:"include_cheat_meal"`
	DietaryPreference string   `json:"dietary_preference" validate:"required,max=64"`
	Allergies         []string `json:"allergies"`
}

type PlanResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Plan    *DietPlan `json:"plan,omitempty"`
}

type SwapMealRequest struct {
	MealName          string `json:"meal_name" validate:"required"`
	DishToSwap        string `json:"dish_to_swap" validate:"required"`
	DietaryPreference string `json:"dietary_preference" validate:"required"`
}

type RecipeRequest struct {
	DishName string `json:"dish_name"`
}

type RecipeResponse struct {
	Recipe string `json:"recipe"`
}

type LogWeightRequest struct {
	Weight float64 `json:"weight"`
	Date   string  `json:"date"`
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type Dashboard struct {
	PastPlans       []DietPlan      `json:"pastPlans"`
	ProgressHistory []ProgressEntry `json:"progressHistory"`
}
