package models

import "time"

// CostCalculation is the fully adjusted cost of one recipe line.
type CostCalculation struct {
	IngredientID      string  `json:"ingredient_id"`
	IngredientName    string  `json:"ingredient_name"`
	Quantity          float64 `json:"quantity"`
	Unit              string  `json:"unit"`
	CostPerUnit       float64 `json:"cost_per_unit"`
	TotalCost         float64 `json:"total_cost"`
	WasteAdjustedCost float64 `json:"waste_adjusted_cost"`
	YieldAdjustedCost float64 `json:"yield_adjusted_cost"`
	// Warnings lists data-quality issues that did not prevent costing the line.
	Warnings []string `json:"warnings,omitempty"`
}

// SkippedLine records a recipe line that contributed nothing to the totals.
type SkippedLine struct {
	Index        int    `json:"index"`
	IngredientID string `json:"ingredient_id"`
	Reason       string `json:"reason"`
}

// CostSummary is the aggregate of a set of line costs.
type CostSummary struct {
	TotalCOGS      float64 `json:"total_cogs"`
	Portions       int     `json:"portions"`
	CostPerPortion float64 `json:"cost_per_portion"`
}

// RecipeCosting is the result of one costing pass over a recipe.
type RecipeCosting struct {
	Lines   []CostCalculation `json:"lines"`
	Skipped []SkippedLine     `json:"skipped,omitempty"`
	Summary CostSummary       `json:"summary"`
}

// CostingSnapshot is a persisted copy of a costing report.
type CostingSnapshot struct {
	ID         string        `bson:"_id" json:"id"`
	RecipeID   string        `bson:"recipe_id" json:"recipe_id"`
	RecipeName string        `bson:"recipe_name" json:"recipe_name"`
	Costing    RecipeCosting `bson:"costing" json:"costing"`
	Pricing    PricingResult `bson:"pricing" json:"pricing"`
	CreatedAt  time.Time     `bson:"created_at" json:"created_at"`
}

// CostingReport is the costing of one recipe together with its pricing.
type CostingReport struct {
	RecipeID   string        `json:"recipe_id,omitempty"`
	RecipeName string        `json:"recipe_name,omitempty"`
	Costing    RecipeCosting `json:"costing"`
	Pricing    PricingResult `json:"pricing"`
	Ladder     []PricePoint  `json:"ladder,omitempty"`
	// MenuPrice evaluates the recipe's current menu price, nil when none is set.
	MenuPrice  *PricingResult `json:"menu_price,omitempty"`
	SnapshotID string         `json:"snapshot_id,omitempty"`
}
