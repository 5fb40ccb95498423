package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the wire and storage form of a calendar day.
const DateLayout = "2006-01-02"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"-"`
}

type ProgressEntry struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:uk_user_date"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE"`
	LogDate   time.Time `gorm:"type:date;not null;uniqueIndex:uk_user_date"`
	WeightKg  float64   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e ProgressEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		WeightKg float64 `json:"weight_kg"`
		LogDate  string  `json:"log_date"`
	}{e.WeightKg, e.LogDate.Format(DateLayout)})
}

// DietPlan is a stored plan together with the inputs that produced it.
// The three payload sections live in separate JSON columns.
type DietPlan struct {
	ID                uint    `gorm:"primaryKey"`
	UserID            uint    `gorm:"not null;index"`
	User              *User   `gorm:"constraint:OnDelete:CASCADE"`
	WeightKg          float64 `gorm:"not null"`
	HeightCm          float64 `gorm:"not null"`
	ActivityLevel     string  `gorm:"size:64;not null"`
	DietaryPreference string  `gorm:"size:64;not null"`
	IncludeCheatMeal  bool    `gorm:"not null"`
	Allergies         datatypes.JSONType[[]string]
	BMI               float64                                `gorm:"column:bmi;not null"`
	Diet              datatypes.JSONType[[]DayPlan]          `gorm:"column:generated_plan_json;not null"`
	Exercises         datatypes.JSONType[[]Exercise]         `gorm:"column:exercise_plan_json"`
	ShoppingList      datatypes.JSONType[[]ShoppingCategory] `gorm:"column:shopping_list_json"`
	CreatedAt         time.Time                              `gorm:"index"`
}

func (User) TableName() string          { return "users" }
func (ProgressEntry) TableName() string { return "user_progress" }
func (DietPlan) TableName() string      { return "diet_plans" }

func (p *DietPlan) SetPayload(payload PlanPayload) {
	p.Diet = datatypes.NewJSONType(payload.Diet)
	p.Exercises = datatypes.NewJSONType(payload.Exercises)
	p.ShoppingList = datatypes.NewJSONType(payload.ShoppingList)
}

func (p DietPlan) Payload() PlanPayload {
	return PlanPayload{
		Diet:         p.Diet.Data(),
		Exercises:    p.Exercises.Data(),
		ShoppingList: p.ShoppingList.Data(),
	}
}

// PlanView is the client-facing shape of a stored plan.
type PlanView struct {
	ID                uint        `json:"id"`
	CreatedAt         time.Time   `json:"created_at"`
	WeightKg          float64     `json:"weight_kg"`
	HeightCm          float64     `json:"height_cm"`
	ActivityLevel     string      `json:"activity_level"`
	DietaryPreference string      `json:"dietary_preference"`
	IncludeCheatMeal  bool        `json:"include_cheat_meal"`
	Allergies         []string    `json:"allergies"`
	BMI               float64     `json:"bmi"`
	GeneratedPlan     PlanPayload `json:"generated_plan"`
}

func (p DietPlan) View() PlanView {
	allergies := p.Allergies.Data()
	if allergies == nil {
		allergies = []string{}
	}
	return PlanView{
		ID:                p.ID,
		CreatedAt:         p.CreatedAt,
		WeightKg:          p.WeightKg,
		HeightCm:          p.HeightCm,
		ActivityLevel:     p.ActivityLevel,
		DietaryPreference: p.DietaryPreference,
		IncludeCheatMeal:  p.IncludeCheatMeal,
		Allergies:         allergies,
		BMI:               p.BMI,
		GeneratedPlan:     p.Payload(),
	}
}

func (p DietPlan) MarshalJSON() ([]byte, error) { return json.Marshal(p.View()) }
