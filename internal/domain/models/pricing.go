package models

// RoundingStrategy selects how a tax-inclusive price is rounded for the menu.
type RoundingStrategy string

const (
	// RoundingCharm rounds up to the next whole unit minus one cent (18.99).
	RoundingCharm RoundingStrategy = "charm"
	// RoundingWhole rounds up to the next whole unit (19.00).
	RoundingWhole RoundingStrategy = "whole"
	// RoundingReal keeps the computed price.
	RoundingReal RoundingStrategy = "real"
)

func (s RoundingStrategy) String() string {
	return string(s)
}

// PricingResult is the menu price derived from a food cost.
type PricingResult struct {
	FoodCost                  float64          `bson:"food_cost" json:"food_cost"`
	TargetGrossProfitPercent  float64          `bson:"target_gp_percent" json:"target_gp_percent"`
	TaxRate                   float64          `bson:"tax_rate" json:"tax_rate"`
	Strategy                  RoundingStrategy `bson:"strategy" json:"strategy"`
	RawPriceExclTax           float64          `bson:"raw_price_excl_tax" json:"raw_price_excl_tax"`
	RawPriceInclTax           float64          `bson:"raw_price_incl_tax" json:"raw_price_incl_tax"`
	SellPriceExclTax          float64          `bson:"sell_price_excl_tax" json:"sell_price_excl_tax"`
	SellPriceInclTax          float64          `bson:"sell_price_incl_tax" json:"sell_price_incl_tax"`
	TaxAmount                 float64          `bson:"tax_amount" json:"tax_amount"`
	ActualGrossProfitPercent  float64          `bson:"actual_gp_percent" json:"actual_gp_percent"`
	ContributingMargin        float64          `bson:"contributing_margin" json:"contributing_margin"`
	ContributingMarginPercent float64          `bson:"contributing_margin_percent" json:"contributing_margin_percent"`
}

// PricePoint is one row of a price ladder across target gross-profit presets.
type PricePoint struct {
	TargetGrossProfitPercent float64 `json:"target_gp_percent"`
	SellPriceInclTax         float64 `json:"sell_price_incl_tax"`
	SellPriceExclTax         float64 `json:"sell_price_excl_tax"`
	ActualGrossProfitPercent float64 `json:"actual_gp_percent"`
}

// MarginAlert flags a recipe whose current menu price misses its target.
type MarginAlert struct {
	RecipeID                 string  `json:"recipe_id"`
	RecipeName               string  `json:"recipe_name"`
	CostPerPortion           float64 `json:"cost_per_portion"`
	MenuPriceInclTax         float64 `json:"menu_price_incl_tax"`
	TargetGrossProfitPercent float64 `json:"target_gp_percent"`
	ActualGrossProfitPercent float64 `json:"actual_gp_percent"`
	RecommendedPriceInclTax  float64 `json:"recommended_price_incl_tax"`
	SkippedLines             int     `json:"skipped_lines"`
}
