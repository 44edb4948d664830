package models

// RecipeLine is one ingredient quantity as entered for a recipe.
type RecipeLine struct {
	IngredientID string  `bson:"ingredient_id" json:"ingredient_id"`
	Quantity     float64 `bson:"quantity" json:"quantity"`
	Unit         string  `bson:"unit" json:"unit"`
}

// Recipe groups lines with the pricing configuration the kitchen chose for it.
type Recipe struct {
	ID                       string           `bson:"_id" json:"id"`
	Name                     string           `bson:"name" json:"name"`
	Portions                 int              `bson:"portions" json:"portions"`
	Lines                    []RecipeLine     `bson:"lines" json:"lines"`
	TargetGrossProfitPercent float64          `bson:"target_gp_percent,omitempty" json:"target_gp_percent,omitempty"`
	Strategy                 RoundingStrategy `bson:"strategy,omitempty" json:"strategy,omitempty"`
	// MenuPriceInclTax is the price currently printed on the menu, zero when unset.
	MenuPriceInclTax float64 `bson:"menu_price_incl_tax,omitempty" json:"menu_price_incl_tax,omitempty"`
}

// IngredientIDs returns the distinct ingredient ids referenced by the recipe lines.
func (r Recipe) IngredientIDs() []string {
	seen := make(map[string]struct{}, len(r.Lines))
	ids := make([]string, 0, len(r.Lines))
	for _, line := range r.Lines {
		if _, ok := seen[line.IngredientID]; ok {
			continue
		}
		seen[line.IngredientID] = struct{}{}
		ids = append(ids, line.IngredientID)
	}
	return ids
}
