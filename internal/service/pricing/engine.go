// Package pricing turns a food cost into a menu price and reports the margin
// realized at that price.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/platecost/internal/domain/models"
)

var (
	// ErrInvalidTargetGP indicates a target gross profit outside [0, 100).
	ErrInvalidTargetGP = errors.New("target gross profit percent must be within [0, 100)")
	// ErrInvalidTaxRate indicates a negative tax rate.
	ErrInvalidTaxRate = errors.New("tax rate must not be negative")
	// ErrInvalidFoodCost indicates a negative food cost.
	ErrInvalidFoodCost = errors.New("food cost must not be negative")
	// ErrInvalidPrice indicates a negative menu price.
	ErrInvalidPrice = errors.New("menu price must not be negative")
	// ErrUnknownStrategy indicates a rounding strategy outside charm, whole and real.
	ErrUnknownStrategy = errors.New("unknown rounding strategy")
)

// TargetPresets are the gross profit targets offered on the costing form.
var TargetPresets = []float64{60, 65, 70, 75, 80}

// ceilSlack keeps prices such as 18.000000000000004 from rounding up a whole unit.
const ceilSlack = 1e-9

// ParseStrategy maps user input to a rounding strategy.
func ParseStrategy(s string) (models.RoundingStrategy, error) {
	strategy := models.RoundingStrategy(strings.ToLower(strings.TrimSpace(s)))
	switch strategy {
	case models.RoundingCharm, models.RoundingWhole, models.RoundingReal:
		return strategy, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// RecommendPrice derives the menu price that hits targetGP at the given tax
// rate, rounded with strategy, and reports the margin realized at the rounded
// price.
func RecommendPrice(foodCost, targetGP, taxRate float64, strategy models.RoundingStrategy) (models.PricingResult, error) {
	if foodCost < 0 {
		return models.PricingResult{}, fmt.Errorf("%w: %v", ErrInvalidFoodCost, foodCost)
	}
	if targetGP < 0 || targetGP >= 100 {
		return models.PricingResult{}, fmt.Errorf("%w: %v", ErrInvalidTargetGP, targetGP)
	}
	if taxRate < 0 {
		return models.PricingResult{}, fmt.Errorf("%w: %v", ErrInvalidTaxRate, taxRate)
	}

	rawExcl := foodCost / (1 - targetGP/100)
	rawIncl := rawExcl * (1 + taxRate)

	final, err := Round(rawIncl, strategy)
	if err != nil {
		return models.PricingResult{}, err
	}

	result := realize(foodCost, final, taxRate)
	result.TargetGrossProfitPercent = targetGP
	result.Strategy = strategy
	result.RawPriceExclTax = rawExcl
	result.RawPriceInclTax = rawIncl
	return result, nil
}

// EvaluatePrice reports the margin realized by an existing tax-inclusive price.
func EvaluatePrice(foodCost, priceInclTax, taxRate float64) (models.PricingResult, error) {
	if foodCost < 0 {
		return models.PricingResult{}, fmt.Errorf("%w: %v", ErrInvalidFoodCost, foodCost)
	}
	if priceInclTax < 0 {
		return models.PricingResult{}, fmt.Errorf("%w: %v", ErrInvalidPrice, priceInclTax)
	}
	if taxRate < 0 {
		return models.PricingResult{}, fmt.Errorf("%w: %v", ErrInvalidTaxRate, taxRate)
	}

	result := realize(foodCost, priceInclTax, taxRate)
	result.Strategy = models.RoundingReal
	result.RawPriceInclTax = result.SellPriceInclTax
	result.RawPriceExclTax = result.SellPriceExclTax
	return result, nil
}

// Ladder prices foodCost at each target. A nil targets slice uses TargetPresets.
func Ladder(foodCost float64, targets []float64, taxRate float64, strategy models.RoundingStrategy) ([]models.PricePoint, error) {
	if targets == nil {
		targets = TargetPresets
	}

	points := make([]models.PricePoint, 0, len(targets))
	for _, target := range targets {
		result, err := RecommendPrice(foodCost, target, taxRate, strategy)
		if err != nil {
			return nil, fmt.Errorf("price at %v%% target: %w", target, err)
		}
		points = append(points, models.PricePoint{
			TargetGrossProfitPercent: target,
			SellPriceInclTax:         result.SellPriceInclTax,
			SellPriceExclTax:         result.SellPriceExclTax,
			ActualGrossProfitPercent: result.ActualGrossProfitPercent,
		})
	}
	return points, nil
}

// Round applies a rounding strategy to a tax-inclusive price. Real leaves the
// price untouched; non-positive prices round to 0.
func Round(price float64, strategy models.RoundingStrategy) (float64, error) {
	switch strategy {
	case models.RoundingCharm, models.RoundingWhole, models.RoundingReal:
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(strategy))
	}
	if price <= 0 {
		return 0, nil
	}

	switch strategy {
	case models.RoundingCharm:
		return cents(decimal.NewFromFloat(math.Ceil(price - ceilSlack)).Sub(decimal.New(1, -2))), nil
	case models.RoundingWhole:
		return math.Ceil(price - ceilSlack), nil
	default:
		return price, nil
	}
}

// realize splits a tax-inclusive price into net price and tax and computes
// the margin left after foodCost. Nothing is rounded here; callers format
// money for display.
func realize(foodCost, priceInclTax, taxRate float64) models.PricingResult {
	excl := priceInclTax / (1 + taxRate)
	margin := excl - foodCost

	var marginPercent float64
	if excl > 0 {
		marginPercent = margin / excl * 100
	}

	return models.PricingResult{
		FoodCost:                  foodCost,
		TaxRate:                   taxRate,
		SellPriceInclTax:          priceInclTax,
		SellPriceExclTax:          excl,
		TaxAmount:                 priceInclTax - excl,
		ContributingMargin:        margin,
		ContributingMarginPercent: marginPercent,
		ActualGrossProfitPercent:  marginPercent,
	}
}

// cents settles a charm price so 18.99 does not surface as 18.990000000000002.
func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
