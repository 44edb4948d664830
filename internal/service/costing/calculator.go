// Package costing derives adjusted line costs for recipe lines and aggregates
// them into recipe totals.
package costing

import (
	"errors"
	"fmt"

	"github.com/mamadbah2/platecost/internal/domain/models"
	"github.com/mamadbah2/platecost/internal/service/conversion"
)

var (
	// ErrInvalidQuantity indicates a recipe line quantity that is not positive.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	// ErrInvalidTrimWaste indicates a trim/waste percentage outside [0, 100).
	ErrInvalidTrimWaste = errors.New("trim waste percent must be within [0, 100)")
	// ErrZeroYield indicates an ingredient recorded with a yield of 0%.
	ErrZeroYield = errors.New("yield percent is zero")
	// ErrInvalidYield indicates a yield percentage outside (0, 100].
	ErrInvalidYield = errors.New("yield percent must be within (0, 100]")
)

// Warning codes attached to line calculations.
const (
	WarningUnitNotConverted = "unit_not_converted"
)

// Calculator computes per-line costs using a unit converter.
type Calculator struct {
	converter *conversion.Converter
	strict    bool
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithStrictUnits makes unconvertible line units an error instead of a warning.
func WithStrictUnits(strict bool) Option {
	return func(c *Calculator) {
		c.strict = strict
	}
}

// NewCalculator builds a Calculator. A nil converter uses the built-in densities.
func NewCalculator(converter *conversion.Converter, opts ...Option) *Calculator {
	if converter == nil {
		converter = conversion.NewConverter(nil)
	}
	c := &Calculator{converter: converter}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ComputeLineCost prices one recipe line. Waste is applied only when the
// ingredient has no trim-inclusive cost; yield is always applied.
func (c *Calculator) ComputeLineCost(ingredient models.Ingredient, line models.RecipeLine) (models.CostCalculation, error) {
	if line.Quantity <= 0 {
		return models.CostCalculation{}, fmt.Errorf("%w: %v", ErrInvalidQuantity, line.Quantity)
	}
	if ingredient.TrimWastePercent < 0 || ingredient.TrimWastePercent >= 100 {
		return models.CostCalculation{}, fmt.Errorf("%w: %v", ErrInvalidTrimWaste, ingredient.TrimWastePercent)
	}
	yield := ingredient.Yield()
	switch {
	case yield == 0:
		return models.CostCalculation{}, ErrZeroYield
	case yield < 0 || yield > 100:
		return models.CostCalculation{}, fmt.Errorf("%w: %v", ErrInvalidYield, yield)
	}

	calc := models.CostCalculation{
		IngredientID:   ingredient.ID,
		IngredientName: ingredient.Name,
		Quantity:       line.Quantity,
		Unit:           line.Unit,
	}

	costPerUnit, err := c.converter.ConvertCost(ingredient.BaseCost(), ingredient.BaseUnit, line.Unit, ingredient.Name)
	if err != nil {
		if c.strict {
			return models.CostCalculation{}, fmt.Errorf("convert %s cost from %q to %q: %w", ingredient.ID, ingredient.BaseUnit, line.Unit, err)
		}
		calc.Warnings = append(calc.Warnings, fmt.Sprintf("%s: %v", WarningUnitNotConverted, err))
	}

	calc.CostPerUnit = costPerUnit
	calc.TotalCost = line.Quantity * costPerUnit

	calc.WasteAdjustedCost = calc.TotalCost
	if ingredient.CostPerUnitInclTrim == nil && ingredient.TrimWastePercent > 0 {
		calc.WasteAdjustedCost = calc.TotalCost / (1 - ingredient.TrimWastePercent/100)
	}

	calc.YieldAdjustedCost = calc.WasteAdjustedCost * (yield / 100)

	return calc, nil
}

// CostRecipe runs one costing pass. Lines whose ingredient is missing or whose
// data cannot be costed are reported as skipped and excluded from the totals.
// The returned error is only ErrInvalidPortions, alongside a usable result.
func (c *Calculator) CostRecipe(ingredients []models.Ingredient, lines []models.RecipeLine, portions int) (models.RecipeCosting, error) {
	byID := make(map[string]models.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		byID[ing.ID] = ing
	}

	costing := models.RecipeCosting{Lines: make([]models.CostCalculation, 0, len(lines))}

	for i, line := range lines {
		ing, ok := byID[line.IngredientID]
		if !ok {
			costing.Skipped = append(costing.Skipped, models.SkippedLine{
				Index:        i,
				IngredientID: line.IngredientID,
				Reason:       ReasonIngredientNotFound,
			})
			continue
		}

		calc, err := c.ComputeLineCost(ing, line)
		if err != nil {
			costing.Skipped = append(costing.Skipped, models.SkippedLine{
				Index:        i,
				IngredientID: line.IngredientID,
				Reason:       err.Error(),
			})
			continue
		}
		costing.Lines = append(costing.Lines, calc)
	}

	summary, err := Aggregate(costing.Lines, portions)
	costing.Summary = summary
	return costing, err
}
