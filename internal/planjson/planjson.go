// Package planjson turns raw model output into a model.PlanPayload.
//
// The model's output is untrusted: Parse checks structure only, reports the
// first problem with a path such as diet[2].meals[0].nutrition.calories, and
// never coerces values (a quoted or fractional number is an error). Whether
// a dish really belongs to the requested cuisine cannot be checked here.
package planjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/glscharan9/ai-health-companion/internal/model"
)

var (
	ErrMalformedJSON  = errors.New("malformed JSON")
	ErrMissingField   = errors.New("missing field")
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// ValidationError carries the failing path. Kind is one of the Err* values
// above and is what errors.Is matches against.
type ValidationError struct {
	Kind   error
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%v at %s: %s", e.Kind, e.Path, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Kind }

var topLevelKeys = []string{"diet", "exercises", "shoppingList"}

func Parse(raw string) (model.PlanPayload, error) {
	doc, err := decodeObject(raw)
	if err != nil {
		return model.PlanPayload{}, err
	}

	for _, key := range topLevelKeys {
		if v, ok := doc[key]; !ok || isNull(v) {
			return model.PlanPayload{}, &ValidationError{Kind: ErrMissingField, Path: key, Reason: "required top-level key"}
		}
	}
	extra := make([]string, 0)
	for key := range doc {
		if key != "diet" && key != "exercises" && key != "shoppingList" {
			extra = append(extra, key)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return model.PlanPayload{}, mismatch(extra[0], "unexpected top-level key")
	}

	var p model.PlanPayload
	if p.Diet, err = parseDiet(doc["diet"]); err != nil {
		return model.PlanPayload{}, err
	}
	if p.Exercises, err = parseExercises(doc["exercises"]); err != nil {
		return model.PlanPayload{}, err
	}
	if p.ShoppingList, err = parseShoppingList(doc["shoppingList"]); err != nil {
		return model.PlanPayload{}, err
	}
	return p, nil
}

// ParseMeal validates a document holding a single meal.
func ParseMeal(raw string) (model.Meal, error) {
	doc, err := decodeObject(raw)
	if err != nil {
		return model.Meal{}, err
	}
	return parseMeal(doc, "")
}

func decodeObject(raw string) (map[string]json.RawMessage, error) {
	text := stripFence(raw)
	if text == "" {
		return nil, &ValidationError{Kind: ErrMalformedJSON, Reason: "empty document"}
	}

	dec := json.NewDecoder(strings.NewReader(text))
	var doc map[string]json.RawMessage
	if err := dec.Decode(&doc); err != nil {
		return nil, &ValidationError{Kind: ErrMalformedJSON, Reason: err.Error()}
	}
	if doc == nil {
		return nil, &ValidationError{Kind: ErrMalformedJSON, Reason: "document is not an object"}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &ValidationError{Kind: ErrMalformedJSON, Reason: "trailing data after JSON object"}
	}
	return doc, nil
}

// stripFence removes surrounding whitespace and a Markdown code fence.
func stripFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimLeftFunc(strings.TrimPrefix(s, "```"), unicode.IsLetter)
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func parseDiet(raw json.RawMessage) ([]model.DayPlan, error) {
	items, err := array(raw, "diet")
	if err != nil {
		return nil, err
	}
	days := make([]model.DayPlan, 0, len(items))
	for i, item := range items {
		path := fmt.Sprintf("diet[%d]", i)
		obj, err := object(item, path)
		if err != nil {
			return nil, err
		}
		var d model.DayPlan
		if d.Day, err = str(obj, path, "day", true); err != nil {
			return nil, err
		}
		if d.DailyCalories, err = integer(obj, path, "daily_calories"); err != nil {
			return nil, err
		}
		mealsRaw, err := field(obj, path, "meals")
		if err != nil {
			return nil, err
		}
		meals, err := array(mealsRaw, join(path, "meals"))
		if err != nil {
			return nil, err
		}
		d.Meals = make([]model.Meal, 0, len(meals))
		for j, m := range meals {
			mpath := fmt.Sprintf("%s.meals[%d]", path, j)
			mobj, err := object(m, mpath)
			if err != nil {
				return nil, err
			}
			meal, err := parseMeal(mobj, mpath)
			if err != nil {
				return nil, err
			}
			d.Meals = append(d.Meals, meal)
		}
		days = append(days, d)
	}
	return days, nil
}

func parseMeal(obj map[string]json.RawMessage, path string) (model.Meal, error) {
	var m model.Meal
	var err error
	if m.Name, err = str(obj, path, "name", true); err != nil {
		return model.Meal{}, err
	}
	if !model.IsMealName(m.Name) {
		return model.Meal{}, mismatch(join(path, "name"), fmt.Sprintf("meal name %q is not one of %s", m.Name, strings.Join(model.MealNames, ", ")))
	}
	if m.Dish, err = str(obj, path, "dish", true); err != nil {
		return model.Meal{}, err
	}
	if m.Quantity, err = str(obj, path, "quantity", false); err != nil {
		return model.Meal{}, err
	}

	npath := join(path, "nutrition")
	nraw, err := field(obj, path, "nutrition")
	if err != nil {
		return model.Meal{}, err
	}
	nobj, err := object(nraw, npath)
	if err != nil {
		return model.Meal{}, err
	}
	n := &m.Nutrition
	for _, f := range []struct {
		key string
		dst *int
	}{{"calories", &n.Calories}, {"protein_g", &n.ProteinG}, {"carbs_g", &n.CarbsG}, {"fat_g", &n.FatG}} {
		if *f.dst, err = integer(nobj, npath, f.key); err != nil {
			return model.Meal{}, err
		}
	}
	return m, nil
}

func parseExercises(raw json.RawMessage) ([]model.Exercise, error) {
	items, err := array(raw, "exercises")
	if err != nil {
		return nil, err
	}
	out := make([]model.Exercise, 0, len(items))
	for i, item := range items {
		path := fmt.Sprintf("exercises[%d]", i)
		obj, err := object(item, path)
		if err != nil {
			return nil, err
		}
		var e model.Exercise
		if e.Day, err = str(obj, path, "day", true); err != nil {
			return nil, err
		}
		if e.Activity, err = str(obj, path, "activity", true); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func parseShoppingList(raw json.RawMessage) ([]model.ShoppingCategory, error) {
	items, err := array(raw, "shoppingList")
	if err != nil {
		return nil, err
	}
	out := make([]model.ShoppingCategory, 0, len(items))
	for i, item := range items {
		path := fmt.Sprintf("shoppingList[%d]", i)
		obj, err := object(item, path)
		if err != nil {
			return nil, err
		}
		var c model.ShoppingCategory
		if c.Category, err = str(obj, path, "category", true); err != nil {
			return nil, err
		}
		iraw, err := field(obj, path, "items")
		if err != nil {
			return nil, err
		}
		ipath := join(path, "items")
		entries, err := array(iraw, ipath)
		if err != nil {
			return nil, err
		}
		c.Items = make([]string, 0, len(entries))
		for j, e := range entries {
			var s string
			epath := fmt.Sprintf("%s[%d]", ipath, j)
			if isNull(e) || json.Unmarshal(e, &s) != nil {
				return nil, mismatch(epath, "expected string")
			}
			if strings.TrimSpace(s) == "" {
				return nil, mismatch(epath, "must not be empty")
			}
			c.Items = append(c.Items, s)
		}
		out = append(out, c)
	}
	return out, nil
}

func field(obj map[string]json.RawMessage, path, key string) (json.RawMessage, error) {
	v, ok := obj[key]
	if !ok || isNull(v) {
		return nil, mismatch(join(path, key), "required")
	}
	return v, nil
}

func array(raw json.RawMessage, path string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &items) != nil {
		return nil, mismatch(path, "expected array")
	}
	return items, nil
}

func object(raw json.RawMessage, path string) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &obj) != nil {
		return nil, mismatch(path, "expected object")
	}
	return obj, nil
}

func str(obj map[string]json.RawMessage, path, key string, nonEmpty bool) (string, error) {
	v, err := field(obj, path, key)
	if err != nil {
		return "", err
	}
	var s string
	if json.Unmarshal(v, &s) != nil {
		return "", mismatch(join(path, key), "expected string")
	}
	if nonEmpty && strings.TrimSpace(s) == "" {
		return "", mismatch(join(path, key), "must not be empty")
	}
	return s, nil
}

// integer accepts only a non-negative JSON integer literal.
func integer(obj map[string]json.RawMessage, path, key string) (int, error) {
	v, err := field(obj, path, key)
	if err != nil {
		return 0, err
	}
	var n int
	if json.Unmarshal(v, &n) != nil {
		return 0, mismatch(join(path, key), "expected integer, got "+string(bytes.TrimSpace(v)))
	}
	if n < 0 {
		return 0, mismatch(join(path, key), "must not be negative")
	}
	return n, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func mismatch(path, reason string) error {
	return &ValidationError{Kind: ErrSchemaMismatch, Path: path, Reason: reason}
}
