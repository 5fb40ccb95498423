package service

import (
	"fmt"

	"github.com/glscharan9/ai-health-companion/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	SheetDiet      = "Diet"
	SheetExercises = "Exercises"
	SheetShopping  = "Shopping List"
)

// ExportService renders a stored plan as a spreadsheet.
type ExportService struct{}

func NewExportService() *ExportService { return &ExportService{} }

// PlanWorkbook builds a workbook with one sheet per plan section. The
// caller owns the returned file and must Close it.
func (s *ExportService) PlanWorkbook(plan *model.DietPlan) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetDiet); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetExercises, SheetShopping} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	payload := plan.Payload()
	var rows [][]any

	rows = append(rows, []any{"Day", "Daily Calories", "Meal", "Dish", "Quantity", "Calories", "Protein (g)", "Carbs (g)", "Fat (g)"})
	for _, d := range payload.Diet {
		for _, m := range d.Meals {
			n := m.Nutrition
			rows = append(rows, []any{d.Day, d.DailyCalories, m.Name, m.Dish, m.Quantity, n.Calories, n.ProteinG, n.CarbsG, n.FatG})
		}
	}
	if err := writeSheet(f, SheetDiet, rows, bold); err != nil {
		f.Close()
		return nil, err
	}

	rows = [][]any{{"Day", "Activity"}}
	for _, e := range payload.Exercises {
		rows = append(rows, []any{e.Day, e.Activity})
	}
	if err := writeSheet(f, SheetExercises, rows, bold); err != nil {
		f.Close()
		return nil, err
	}

	rows = [][]any{{"Category", "Item"}}
	for _, c := range payload.ShoppingList {
		for _, item := range c.Items {
			rows = append(rows, []any{c.Category, item})
		}
	}
	if err := writeSheet(f, SheetShopping, rows, bold); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return f.SetRowStyle(sheet, 1, 1, headerStyle)
}

// ExportFileName is the download name for a plan workbook.
func ExportFileName(plan *model.DietPlan) string {
	return fmt.Sprintf("diet-plan-%d-%s.xlsx", plan.ID, plan.CreatedAt.Format(model.DateLayout))
}
