package conversion

import "fmt"

// Method describes how a conversion was performed.
type Method string

const (
	MethodIdentity Method = "identity"
	MethodDirect   Method = "direct"
	MethodDensity  Method = "density"
	MethodNone     Method = "none"
)

// ConversionResult is the outcome of converting one quantity.
// ConversionFactor is the number of target units per source unit.
type ConversionResult struct {
	ConvertedValue   float64 `json:"converted_value"`
	ConvertedUnit    string  `json:"converted_unit"`
	OriginalValue    float64 `json:"original_value"`
	OriginalUnit     string  `json:"original_unit"`
	ConversionFactor float64 `json:"conversion_factor"`
	Method           Method  `json:"method"`
	// Density is the grams per milliliter used when Method is MethodDensity.
	Density float64 `json:"density,omitempty"`
}

// Converter converts quantities and costs between units. It holds no mutable
// state and is safe for concurrent use.
type Converter struct {
	densities DensityProvider
}

// NewConverter builds a converter. A nil provider uses the built-in density table.
func NewConverter(densities DensityProvider) *Converter {
	if densities == nil {
		densities = DefaultDensities(DefaultDensity)
	}
	return &Converter{densities: densities}
}

// Convert converts value from one unit to another. When the units cannot be
// converted the result carries the original value and unit with a factor of 1,
// and the error wraps ErrUnknownUnit or ErrIncompatibleUnits.
func (c *Converter) Convert(value float64, fromUnit, toUnit, ingredientName string) (ConversionResult, error) {
	passThrough := ConversionResult{
		ConvertedValue:   value,
		ConvertedUnit:    fromUnit,
		OriginalValue:    value,
		OriginalUnit:     fromUnit,
		ConversionFactor: 1,
		Method:           MethodNone,
	}

	if SameUnit(fromUnit, toUnit) {
		passThrough.Method = MethodIdentity
		return passThrough, nil
	}

	from, ok := LookupUnit(fromUnit)
	if !ok {
		return passThrough, fmt.Errorf("%w: %q", ErrUnknownUnit, fromUnit)
	}
	to, ok := LookupUnit(toUnit)
	if !ok {
		return passThrough, fmt.Errorf("%w: %q", ErrUnknownUnit, toUnit)
	}

	factor, method, density, err := c.factor(from, to, ingredientName)
	if err != nil {
		return passThrough, err
	}

	return ConversionResult{
		ConvertedValue:   value * factor,
		ConvertedUnit:    toUnit,
		OriginalValue:    value,
		OriginalUnit:     fromUnit,
		ConversionFactor: factor,
		Method:           method,
		Density:          density,
	}, nil
}

func (c *Converter) factor(from, to Unit, ingredientName string) (float64, Method, float64, error) {
	switch from.Category {
	case CategoryVolume:
		switch to.Category {
		case CategoryVolume:
			return from.ToBase / to.ToBase, MethodDirect, 0, nil
		case CategoryWeight:
			density := c.densities.Density(ingredientName)
			return from.ToBase * density / to.ToBase, MethodDensity, density, nil
		case CategoryCount:
			return 0, MethodNone, 0, incompatible(from, to)
		}
	case CategoryWeight:
		switch to.Category {
		case CategoryWeight:
			return from.ToBase / to.ToBase, MethodDirect, 0, nil
		case CategoryVolume:
			density := c.densities.Density(ingredientName)
			return from.ToBase / density / to.ToBase, MethodDensity, density, nil
		case CategoryCount:
			return 0, MethodNone, 0, incompatible(from, to)
		}
	case CategoryCount:
		switch to.Category {
		case CategoryCount:
			return from.ToBase / to.ToBase, MethodDirect, 0, nil
		case CategoryVolume, CategoryWeight:
			return 0, MethodNone, 0, incompatible(from, to)
		}
	}
	return 0, MethodNone, 0, incompatible(from, to)
}

func incompatible(from, to Unit) error {
	return fmt.Errorf("%w: %s (%s) to %s (%s)", ErrIncompatibleUnits, from.Name, from.Category, to.Name, to.Category)
}

// ConvertCost re-expresses a cost per fromUnit as a cost per toUnit. Cost moves
// inversely to quantity. On error the unconverted cost is returned with it.
func (c *Converter) ConvertCost(costPerUnit float64, fromUnit, toUnit, ingredientName string) (float64, error) {
	result, err := c.Convert(1, fromUnit, toUnit, ingredientName)
	if err != nil {
		return costPerUnit, err
	}
	return costPerUnit / result.ConversionFactor, nil
}
