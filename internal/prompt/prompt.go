// Package prompt builds the system and user instructions sent to the model.
// Every function is pure: the same input always yields the same text.
package prompt

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const DefaultRegion = "Andhra Pradesh and Telangana (South India)"

var ErrInvalidMeasurement = errors.New("weight and height must be positive")

type Instructions struct {
	System string
	User   string
}

type PlanInput struct {
	WeightKg          float64
	HeightCm          float64
	ActivityLevel     string
	DietaryPreference string
	IncludeCheatMeal  bool
	Allergies         []string
}

// Builder carries the cuisine family every suggested dish must come from.
type Builder struct {
	region string
}

func NewBuilder(region string) *Builder {
	if strings.TrimSpace(region) == "" {
		region = DefaultRegion
	}
	return &Builder{region: region}
}

func (b *Builder) Region() string { return b.region }

// BMI returns weight / (height in metres)^2 rounded to one decimal place.
func BMI(weightKg, heightCm float64) float64 {
	m := heightCm / 100
	return math.Round(weightKg/(m*m)*10) / 10
}

const planSchema = `{ "diet": [ { "day": "Monday", "daily_calories": integer, "meals": [ { "name": "Breakfast" | "Lunch" | "Snack" | "Dinner", "dish": "Dish Name", "quantity": "Serving size, e.g., '1 cup' or '2 rotis'", "nutrition": { "calories": integer, "protein_g": integer, "carbs_g": integer, "fat_g": integer } } ] } ], "exercises": [ { "day": "Monday", "activity": "Suggested activity, e.g., '30-minute brisk walk'" } ], "shoppingList": [ { "category": "e.g., Vegetables", "items": ["item1", "item2"] } ] }`

func (b *Builder) ForPlan(in PlanInput) (Instructions, error) {
	if in.WeightKg <= 0 || in.HeightCm <= 0 {
		return Instructions{}, ErrInvalidMeasurement
	}

	var sys strings.Builder
	fmt.Fprintf(&sys, "You are an expert nutritionist and fitness coach specializing in the cuisine of %s.\n", b.region)
	sys.WriteString("Your task is to generate a comprehensive 7-day health plan.\n")
	sys.WriteString(`You MUST return a single, valid JSON object and nothing else. The JSON object must have exactly three top-level keys: "diet", "exercises", and "shoppingList". No other top-level keys are allowed.` + "\n")
	sys.WriteString("The structure MUST be as follows:\n")
	sys.WriteString(planSchema + "\n")
	sys.WriteString("All nutrition values and daily_calories MUST be whole numbers written as JSON integers, never strings or decimals.\n")
	sys.WriteString("Do not include any text, explanations, or markdown formatting outside of this single JSON object.")

	var usr strings.Builder
	usr.WriteString("Please generate a comprehensive 7-day health plan based on the following user details:\n")
	fmt.Fprintf(&usr, "- User BMI: %.1f\n", BMI(in.WeightKg, in.HeightCm))
	fmt.Fprintf(&usr, "- Activity Level: '%s'\n", in.ActivityLevel)
	fmt.Fprintf(&usr, "- Dietary Preference: '%s'\n", in.DietaryPreference)
	fmt.Fprintf(&usr, "- Allergies: %s\n", AllergyClause(in.Allergies))
	fmt.Fprintf(&usr, "- Include a cheat meal this week: %s\n\n", yesNo(in.IncludeCheatMeal))
	usr.WriteString(b.regionClause("All suggested dishes in the diet plan") + "\n\n")
	usr.WriteString("Ensure the plan is balanced, varied, and appropriate for the user's profile.")

	return Instructions{System: sys.String(), User: usr.String()}, nil
}

func (b *Builder) ForSwap(mealName, dish, preference string) Instructions {
	system := fmt.Sprintf(`You are an expert nutritionist. Your task is to suggest an alternative for a single meal.
You MUST return a single JSON object for the meal, with no other text.
The required structure is:
{ "name": %q, "dish": "New Dish Name", "quantity": "New quantity", "nutrition": { "calories": integer, "protein_g": integer, "carbs_g": integer, "fat_g": integer } }
All nutrition values MUST be whole numbers written as JSON integers.`, mealName)

	user := fmt.Sprintf(`Suggest a different but nutritionally similar dish to replace '%s' for '%s'.
The new dish must be strictly '%s'.
%s`, dish, mealName, preference, b.regionClause("The new dish"))

	return Instructions{System: system, User: user}
}

func ForRecipe(dish string) Instructions {
	return Instructions{
		System: "You are a chef. Provide a simple, easy-to-follow recipe for the given dish. Return the recipe as a single string.",
		User:   fmt.Sprintf("What is the recipe for '%s'?", dish),
	}
}

// AllergyClause names every allergen to exclude, or states that there are
// none so the model never has to guess.
func AllergyClause(allergies []string) string {
	var names []string
	for _, a := range allergies {
		if a = strings.TrimSpace(a); a != "" {
			names = append(names, a)
		}
	}
	if len(names) == 0 {
		return "The user has no listed allergies."
	}
	return fmt.Sprintf("The user is allergic to the following and these ingredients must be completely avoided: %s.", strings.Join(names, ", "))
}

func (b *Builder) regionClause(subject string) string {
	return fmt.Sprintf("CRITICAL INSTRUCTION: %s MUST be authentic and traditional dishes from %s. This is a hard requirement, not a style preference. Do not include generic, fusion, or out-of-region dishes, and do not substitute dishes from any other cuisine.", subject, b.region)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
