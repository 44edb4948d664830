package costing

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/mamadbah2/platecost/internal/domain/models"
	"github.com/mamadbah2/platecost/internal/service/conversion"
)

func floatPtr(v float64) *float64 {
	return &v
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func TestComputeLineCost_WasteAndYield(t *testing.T) {
	calc := NewCalculator(nil)

	ing := models.Ingredient{
		ID:               "carrot",
		Name:             "Carrot",
		BaseUnit:         "kg",
		CostPerUnit:      2,
		TrimWastePercent: 20,
		YieldPercent:     floatPtr(80),
	}
	line := models.RecipeLine{IngredientID: "carrot", Quantity: 1, Unit: "kg"}

	got, err := calc.ComputeLineCost(ing, line)
	if err != nil {
		t.Fatalf("ComputeLineCost() error = %v", err)
	}
	if !almostEqual(got.TotalCost, 2) {
		t.Errorf("TotalCost = %v, want 2", got.TotalCost)
	}
	if !almostEqual(got.WasteAdjustedCost, 2.5) {
		t.Errorf("WasteAdjustedCost = %v, want 2.5", got.WasteAdjustedCost)
	}
	if !almostEqual(got.YieldAdjustedCost, 2.0) {
		t.Errorf("YieldAdjustedCost = %v, want 2.0", got.YieldAdjustedCost)
	}
	if len(got.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", got.Warnings)
	}
}

func TestComputeLineCost_TrimInclusiveCostSkipsWaste(t *testing.T) {
	calc := NewCalculator(nil)

	ing := models.Ingredient{
		ID:                  "onion",
		Name:                "Onion",
		BaseUnit:            "kg",
		CostPerUnit:         1,
		CostPerUnitInclTrim: floatPtr(1.5),
		TrimWastePercent:    30,
		YieldPercent:        floatPtr(50),
	}
	line := models.RecipeLine{IngredientID: "onion", Quantity: 400, Unit: "g"}

	got, err := calc.ComputeLineCost(ing, line)
	if err != nil {
		t.Fatalf("ComputeLineCost() error = %v", err)
	}
	if !almostEqual(got.CostPerUnit, 0.0015) {
		t.Errorf("CostPerUnit = %v, want 0.0015", got.CostPerUnit)
	}
	if !almostEqual(got.TotalCost, 0.6) {
		t.Errorf("TotalCost = %v, want 0.6", got.TotalCost)
	}
	if got.WasteAdjustedCost != got.TotalCost {
		t.Errorf("WasteAdjustedCost = %v, want TotalCost %v", got.WasteAdjustedCost, got.TotalCost)
	}
	if !almostEqual(got.YieldAdjustedCost, 0.3) {
		t.Errorf("YieldAdjustedCost = %v, want 0.3", got.YieldAdjustedCost)
	}
}

func TestComputeLineCost_DefaultsAndDensity(t *testing.T) {
	calc := NewCalculator(nil)

	// $8 per kg of butter, 100 ml requested: 91.1 g at 0.008/g.
	ing := models.Ingredient{ID: "butter", Name: "Butter", BaseUnit: "kg", CostPerUnit: 8}
	line := models.RecipeLine{IngredientID: "butter", Quantity: 100, Unit: "ml"}

	got, err := calc.ComputeLineCost(ing, line)
	if err != nil {
		t.Fatalf("ComputeLineCost() error = %v", err)
	}
	if !almostEqual(got.TotalCost, 0.7288) {
		t.Errorf("TotalCost = %v, want 0.7288", got.TotalCost)
	}
	if got.YieldAdjustedCost != got.TotalCost {
		t.Errorf("default yield should keep cost: %v vs %v", got.YieldAdjustedCost, got.TotalCost)
	}
}

func TestComputeLineCost_InvalidData(t *testing.T) {
	calc := NewCalculator(nil)

	base := models.Ingredient{ID: "x", Name: "X", BaseUnit: "kg", CostPerUnit: 1}
	line := models.RecipeLine{IngredientID: "x", Quantity: 1, Unit: "kg"}

	tests := []struct {
		name    string
		mutate  func(*models.Ingredient, *models.RecipeLine)
		wantErr error
	}{
		{"zero quantity", func(_ *models.Ingredient, l *models.RecipeLine) { l.Quantity = 0 }, ErrInvalidQuantity},
		{"negative quantity", func(_ *models.Ingredient, l *models.RecipeLine) { l.Quantity = -2 }, ErrInvalidQuantity},
		{"waste 100", func(i *models.Ingredient, _ *models.RecipeLine) { i.TrimWastePercent = 100 }, ErrInvalidTrimWaste},
		{"waste negative", func(i *models.Ingredient, _ *models.RecipeLine) { i.TrimWastePercent = -1 }, ErrInvalidTrimWaste},
		{"yield zero", func(i *models.Ingredient, _ *models.RecipeLine) { i.YieldPercent = floatPtr(0) }, ErrZeroYield},
		{"yield above 100", func(i *models.Ingredient, _ *models.RecipeLine) { i.YieldPercent = floatPtr(120) }, ErrInvalidYield},
		{"yield negative", func(i *models.Ingredient, _ *models.RecipeLine) { i.YieldPercent = floatPtr(-5) }, ErrInvalidYield},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ing, l := base, line
			tt.mutate(&ing, &l)
			if _, err := calc.ComputeLineCost(ing, l); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestComputeLineCost_UnconvertibleUnit(t *testing.T) {
	ing := models.Ingredient{ID: "egg", Name: "Egg", BaseUnit: "dozen", CostPerUnit: 6}
	line := models.RecipeLine{IngredientID: "egg", Quantity: 2, Unit: "g"}

	lenient := NewCalculator(nil)
	got, err := lenient.ComputeLineCost(ing, line)
	if err != nil {
		t.Fatalf("lenient ComputeLineCost() error = %v", err)
	}
	if got.CostPerUnit != 6 || got.TotalCost != 12 {
		t.Errorf("pass-through cost = %v / %v, want 6 / 12", got.CostPerUnit, got.TotalCost)
	}
	if len(got.Warnings) != 1 || !strings.HasPrefix(got.Warnings[0], WarningUnitNotConverted) {
		t.Errorf("Warnings = %v", got.Warnings)
	}

	strict := NewCalculator(conversion.NewConverter(nil), WithStrictUnits(true))
	if _, err := strict.ComputeLineCost(ing, line); !errors.Is(err, conversion.ErrIncompatibleUnits) {
		t.Errorf("strict error = %v, want ErrIncompatibleUnits", err)
	}
}
