package conversion

import (
	"errors"
	"testing"
)

func TestLookupUnit(t *testing.T) {
	tests := []struct {
		in       string
		category Category
		toBase   float64
	}{
		{"ml", CategoryVolume, 1},
		{"Milliliter", CategoryVolume, 1},
		{"TSP", CategoryVolume, 4.92892},
		{"teaspoon", CategoryVolume, 4.92892},
		{"fl  oz", CategoryVolume, 29.5735},
		{"kg", CategoryWeight, 1000},
		{" kilogram ", CategoryWeight, 1000},
		{"ounce", CategoryWeight, 28.3495},
		{"dozen", CategoryCount, 12},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			u, ok := LookupUnit(tt.in)
			if !ok {
				t.Fatalf("LookupUnit(%q) not found", tt.in)
			}
			if u.Category != tt.category || u.ToBase != tt.toBase {
				t.Errorf("LookupUnit(%q) = %+v", tt.in, u)
			}
		})
	}
}

func TestParseUnit_Unknown(t *testing.T) {
	if _, err := ParseUnit("smidgen"); !errors.Is(err, ErrUnknownUnit) {
		t.Fatalf("ParseUnit error = %v, want ErrUnknownUnit", err)
	}
}

func TestCategory_String(t *testing.T) {
	tests := []struct {
		c    Category
		want string
	}{
		{CategoryVolume, "volume"},
		{CategoryWeight, "weight"},
		{CategoryCount, "count"},
		{Category(0), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.c, got, tt.want)
		}
	}
}
