package conversion

import "strings"

// DefaultDensity is the grams-per-milliliter used when no entry matches.
const DefaultDensity = 0.8

// DensityProvider supplies the density used to bridge volume and weight.
type DensityProvider interface {
	Density(ingredientName string) float64
}

// DensityEntry maps an ingredient name fragment to grams per milliliter.
type DensityEntry struct {
	Name       string
	GramsPerML float64
}

// defaultDensities is ordered: specific names come before the generic fragments
// they contain, so substring matching picks the closer entry first.
var defaultDensities = []DensityEntry{
	{"water", 1.0},
	{"whole milk", 1.03},
	{"skim milk", 1.035},
	{"milk", 1.03},
	{"heavy cream", 0.994},
	{"sour cream", 1.05},
	{"cream cheese", 1.02},
	{"cream", 1.01},
	{"butter", 0.911},
	{"olive oil", 0.91},
	{"vegetable oil", 0.92},
	{"oil", 0.92},
	{"all-purpose flour", 0.593},
	{"bread flour", 0.57},
	{"flour", 0.593},
	{"brown sugar", 0.721},
	{"powdered sugar", 0.56},
	{"icing sugar", 0.56},
	{"sugar", 0.845},
	{"salt", 1.217},
	{"honey", 1.42},
	{"maple syrup", 1.32},
	{"syrup", 1.37},
	{"molasses", 1.4},
	{"yogurt", 1.03},
	{"rice", 0.85},
	{"oats", 0.41},
	{"cocoa", 0.52},
	{"baking powder", 0.9},
	{"baking soda", 0.96},
	{"vinegar", 1.01},
	{"soy sauce", 1.16},
	{"wine", 0.99},
	{"stock", 1.0},
	{"broth", 1.0},
	{"juice", 1.04},
	{"tomato paste", 1.1},
	{"mayonnaise", 0.91},
	{"cheese", 0.45},
}

// DensityTable looks densities up by exact name, then by the first substring
// match in either direction, then falls back to a default.
type DensityTable struct {
	entries  []DensityEntry
	fallback float64
}

// NewDensityTable builds a table; a non-positive fallback becomes DefaultDensity.
func NewDensityTable(entries []DensityEntry, fallback float64) *DensityTable {
	if fallback <= 0 {
		fallback = DefaultDensity
	}
	normalized := make([]DensityEntry, 0, len(entries))
	for _, e := range entries {
		name := normalize(e.Name)
		if name == "" || e.GramsPerML <= 0 {
			continue
		}
		normalized = append(normalized, DensityEntry{Name: name, GramsPerML: e.GramsPerML})
	}
	return &DensityTable{entries: normalized, fallback: fallback}
}

// DefaultDensities returns the built-in table with the given fallback.
func DefaultDensities(fallback float64) *DensityTable {
	return NewDensityTable(defaultDensities, fallback)
}

// Lookup returns the matching density and whether any entry matched.
func (t *DensityTable) Lookup(ingredientName string) (float64, bool) {
	if d, ok := t.LookupExact(ingredientName); ok {
		return d, true
	}
	return t.lookupPartial(ingredientName)
}

// LookupExact matches whole names only.
func (t *DensityTable) LookupExact(ingredientName string) (float64, bool) {
	name := normalize(ingredientName)
	if name == "" {
		return 0, false
	}
	for _, e := range t.entries {
		if e.Name == name {
			return e.GramsPerML, true
		}
	}
	return 0, false
}

func (t *DensityTable) lookupPartial(ingredientName string) (float64, bool) {
	name := normalize(ingredientName)
	if name == "" {
		return 0, false
	}
	for _, e := range t.entries {
		if strings.Contains(name, e.Name) || strings.Contains(e.Name, name) {
			return e.GramsPerML, true
		}
	}
	return 0, false
}

// Density implements DensityProvider.
func (t *DensityTable) Density(ingredientName string) float64 {
	if d, ok := t.Lookup(ingredientName); ok {
		return d
	}
	return t.fallback
}

// DensityOverrides consults its own entries before delegating to a base provider.
// Exact names win across both layers before any partial match is tried, so an
// override for "salted butter" never shadows a plain "butter".
type DensityOverrides struct {
	overrides *DensityTable
	base      DensityProvider
}

// NewDensityOverrides layers entries over base. A nil base uses the built-in table.
func NewDensityOverrides(entries []DensityEntry, base DensityProvider) *DensityOverrides {
	if base == nil {
		base = DefaultDensities(DefaultDensity)
	}
	return &DensityOverrides{
		overrides: NewDensityTable(entries, DefaultDensity),
		base:      base,
	}
}

// Density implements DensityProvider.
func (o *DensityOverrides) Density(ingredientName string) float64 {
	if d, ok := o.overrides.LookupExact(ingredientName); ok {
		return d
	}
	base, isTable := o.base.(*DensityTable)
	if isTable {
		if d, ok := base.LookupExact(ingredientName); ok {
			return d
		}
	}
	if d, ok := o.overrides.lookupPartial(ingredientName); ok {
		return d
	}
	return o.base.Density(ingredientName)
}
