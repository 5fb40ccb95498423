package model

// Meal slots a day plan may contain.
const (
	Breakfast = "Breakfast"
	Lunch     = "Lunch"
	Snack     = "Snack"
	Dinner    = "Dinner"
)

var MealNames = []string{Breakfast, Lunch, Snack, Dinner}

func IsMealName(s string) bool {
	for _, n := range MealNames {
		if n == s {
			return true
		}
	}
	return false
}

type Nutrition struct {
	Calories int `json:"calories"`
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatG     int `json:"fat_g"`
}

type Meal struct {
	Name      string    `json:"name"`
	Dish      string    `json:"dish"`
	Quantity  string    `json:"quantity"`
	Nutrition Nutrition `json:"nutrition"`
}

type DayPlan struct {
	Day           string `json:"day"`
	DailyCalories int    `json:"daily_calories"`
	Meals         []Meal `json:"meals"`
}

type Exercise struct {
	Day      string `json:"day"`
	Activity string `json:"activity"`
}

type ShoppingCategory struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// PlanPayload is the normalized diet/exercise/shopping structure.
type PlanPayload struct {
	Diet         []DayPlan          `json:"diet"`
	Exercises    []Exercise         `json:"exercises"`
	ShoppingList []ShoppingCategory `json:"shoppingList"`
}
