package models

// Ingredient is a stock item with its purchase cost recorded against BaseUnit.
type Ingredient struct {
	ID                  string   `bson:"_id" json:"id"`
	Name                string   `bson:"name" json:"name"`
	BaseUnit            string   `bson:"base_unit" json:"unit"`
	CostPerUnit         float64  `bson:"cost_per_unit" json:"cost_per_unit"`
	CostPerUnitInclTrim *float64 `bson:"cost_per_unit_incl_trim,omitempty" json:"cost_per_unit_incl_trim,omitempty"`
	TrimWastePercent    float64  `bson:"trim_waste_percent" json:"trim_peel_waste_percentage"`
	YieldPercent        *float64 `bson:"yield_percent,omitempty" json:"yield_percentage,omitempty"`
}

// DefaultYieldPercent applies when an ingredient carries no yield.
const DefaultYieldPercent = 100.0

// Yield returns the yield percentage, defaulting to 100.
func (i Ingredient) Yield() float64 {
	if i.YieldPercent == nil {
		return DefaultYieldPercent
	}
	return *i.YieldPercent
}

// BaseCost returns the cost per base unit, preferring the trim-inclusive figure.
func (i Ingredient) BaseCost() float64 {
	if i.CostPerUnitInclTrim != nil {
		return *i.CostPerUnitInclTrim
	}
	return i.CostPerUnit
}

// DensityOverride pins the grams-per-milliliter used for one ingredient name.
type DensityOverride struct {
	Name       string  `bson:"_id" json:"name"`
	GramsPerML float64 `bson:"grams_per_ml" json:"grams_per_ml"`
}
