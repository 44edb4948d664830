package costing

import (
	"errors"
	"fmt"

	"github.com/mamadbah2/platecost/internal/domain/models"
)

// ErrInvalidPortions indicates a recipe with no positive portion count.
var ErrInvalidPortions = errors.New("portions must be greater than zero")

// ReasonIngredientNotFound marks lines referencing an unknown ingredient.
const ReasonIngredientNotFound = "ingredient not found"

// Aggregate sums yield-adjusted line costs. When portions is not positive the
// summary still carries the total, cost per portion is 0, and ErrInvalidPortions
// is returned.
func Aggregate(calculations []models.CostCalculation, portions int) (models.CostSummary, error) {
	var total float64
	for _, calc := range calculations {
		total += calc.YieldAdjustedCost
	}

	summary := models.CostSummary{TotalCOGS: total, Portions: portions}
	if portions <= 0 {
		return summary, fmt.Errorf("%w: %d", ErrInvalidPortions, portions)
	}

	summary.CostPerPortion = total / float64(portions)
	return summary, nil
}
