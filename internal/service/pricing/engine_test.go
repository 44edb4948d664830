package pricing

import (
	"errors"
	"math"
	"testing"

	"github.com/mamadbah2/platecost/internal/domain/models"
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestRecommendPrice_Charm(t *testing.T) {
	got, err := RecommendPrice(5, 70, 0.10, models.RoundingCharm)
	if err != nil {
		t.Fatalf("RecommendPrice() error = %v", err)
	}

	checks := []struct {
		name string
		got  float64
		want float64
		tol  float64
	}{
		{"raw excl tax", got.RawPriceExclTax, 16.6667, 1e-4},
		{"raw incl tax", got.RawPriceInclTax, 18.3333, 1e-4},
		{"sell incl tax", got.SellPriceInclTax, 18.99, 1e-9},
		{"sell excl tax", got.SellPriceExclTax, 17.2636, 1e-4},
		{"tax amount", got.TaxAmount, 1.7264, 1e-4},
		{"contributing margin", got.ContributingMargin, 12.2636, 1e-4},
		{"contributing margin percent", got.ContributingMarginPercent, 71.0374, 1e-4},
		{"actual gp percent", got.ActualGrossProfitPercent, 71.0374, 1e-4},
	}
	for _, c := range checks {
		if !near(c.got, c.want, c.tol) {
			t.Errorf("%s = %v, want ~%v", c.name, c.got, c.want)
		}
	}

	if got.Strategy != models.RoundingCharm || got.TargetGrossProfitPercent != 70 || got.TaxRate != 0.10 {
		t.Errorf("inputs not echoed: %+v", got)
	}
}

func TestRecommendPrice_Strategies(t *testing.T) {
	tests := []struct {
		name     string
		strategy models.RoundingStrategy
		want     float64
	}{
		{"charm", models.RoundingCharm, 18.99},
		{"whole", models.RoundingWhole, 19.00},
		{"real", models.RoundingReal, 18.3333},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RecommendPrice(5, 70, 0.10, tt.strategy)
			if err != nil {
				t.Fatalf("RecommendPrice() error = %v", err)
			}
			if !near(got.SellPriceInclTax, tt.want, 1e-4) {
				t.Errorf("SellPriceInclTax = %v, want ~%v", got.SellPriceInclTax, tt.want)
			}
		})
	}
}

func TestRecommendPrice_RealKeepsTargetOnSmallCosts(t *testing.T) {
	tests := []struct {
		name     string
		foodCost float64
		wantIncl float64
	}{
		{"ten cents", 0.10, 0.36667},
		{"fraction of a cent", 0.004, 0.014667},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RecommendPrice(tt.foodCost, 70, 0.10, models.RoundingReal)
			if err != nil {
				t.Fatalf("RecommendPrice() error = %v", err)
			}
			if !near(got.SellPriceInclTax, tt.wantIncl, 1e-5) {
				t.Errorf("SellPriceInclTax = %v, want ~%v", got.SellPriceInclTax, tt.wantIncl)
			}
			if !near(got.ActualGrossProfitPercent, 70, 1e-9) {
				t.Errorf("ActualGrossProfitPercent = %v, want 70", got.ActualGrossProfitPercent)
			}
		})
	}
}

func TestRecommendPrice_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		foodCost float64
		target   float64
		taxRate  float64
		strategy models.RoundingStrategy
		wantErr  error
	}{
		{"target 100", 5, 100, 0.1, models.RoundingCharm, ErrInvalidTargetGP},
		{"target above 100", 5, 140, 0.1, models.RoundingCharm, ErrInvalidTargetGP},
		{"negative target", 5, -1, 0.1, models.RoundingCharm, ErrInvalidTargetGP},
		{"negative tax", 5, 70, -0.1, models.RoundingCharm, ErrInvalidTaxRate},
		{"negative cost", -5, 70, 0.1, models.RoundingCharm, ErrInvalidFoodCost},
		{"unknown strategy", 5, 70, 0.1, models.RoundingStrategy("nearest"), ErrUnknownStrategy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RecommendPrice(tt.foodCost, tt.target, tt.taxRate, tt.strategy)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecommendPrice_ZeroCost(t *testing.T) {
	for _, strategy := range []models.RoundingStrategy{models.RoundingCharm, models.RoundingWhole, models.RoundingReal} {
		got, err := RecommendPrice(0, 70, 0.10, strategy)
		if err != nil {
			t.Fatalf("%s: RecommendPrice() error = %v", strategy, err)
		}
		if got.SellPriceInclTax != 0 || got.ContributingMarginPercent != 0 {
			t.Errorf("%s: zero cost priced at %v (%v%%)", strategy, got.SellPriceInclTax, got.ContributingMarginPercent)
		}
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		strategy models.RoundingStrategy
		want     float64
	}{
		{"charm fraction", 12.01, models.RoundingCharm, 12.99},
		{"charm float noise", 18.000000000000004, models.RoundingCharm, 17.99},
		{"whole float noise", 18.000000000000004, models.RoundingWhole, 18},
		{"whole fraction", 7.2, models.RoundingWhole, 8},
		{"real unchanged", 7.236, models.RoundingReal, 7.236},
		{"charm negative", -3, models.RoundingCharm, 0},
		{"whole zero", 0, models.RoundingWhole, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Round(tt.price, tt.strategy)
			if err != nil {
				t.Fatalf("Round() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Round(%v, %s) = %v, want %v", tt.price, tt.strategy, got, tt.want)
			}
		})
	}
}

func TestEvaluatePrice(t *testing.T) {
	got, err := EvaluatePrice(5, 18.99, 0.10)
	if err != nil {
		t.Fatalf("EvaluatePrice() error = %v", err)
	}
	if !near(got.SellPriceExclTax, 17.2636, 1e-4) || !near(got.ContributingMargin, 12.2636, 1e-4) {
		t.Errorf("EvaluatePrice() = %+v", got)
	}
	if !near(got.ActualGrossProfitPercent, 71.0374, 1e-4) {
		t.Errorf("ActualGrossProfitPercent = %v, want ~71.0374", got.ActualGrossProfitPercent)
	}

	if _, err := EvaluatePrice(5, -1, 0.10); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("negative price error = %v, want ErrInvalidPrice", err)
	}

	free, err := EvaluatePrice(5, 0, 0.10)
	if err != nil {
		t.Fatalf("EvaluatePrice(0) error = %v", err)
	}
	if free.ContributingMarginPercent != 0 || free.ContributingMargin != -5 {
		t.Errorf("free item = %+v", free)
	}
}

func TestLadder(t *testing.T) {
	points, err := Ladder(5, nil, 0.10, models.RoundingWhole)
	if err != nil {
		t.Fatalf("Ladder() error = %v", err)
	}
	if len(points) != len(TargetPresets) {
		t.Fatalf("len(points) = %d, want %d", len(points), len(TargetPresets))
	}
	for i := 1; i < len(points); i++ {
		if points[i].SellPriceInclTax < points[i-1].SellPriceInclTax {
			t.Errorf("ladder not ascending at %v%%: %v < %v", points[i].TargetGrossProfitPercent, points[i].SellPriceInclTax, points[i-1].SellPriceInclTax)
		}
	}
	if points[2].TargetGrossProfitPercent != 70 || points[2].SellPriceInclTax != 19 {
		t.Errorf("70%% point = %+v", points[2])
	}

	if _, err := Ladder(5, []float64{70, 100}, 0.10, models.RoundingWhole); !errors.Is(err, ErrInvalidTargetGP) {
		t.Errorf("error = %v, want ErrInvalidTargetGP", err)
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    models.RoundingStrategy
		wantErr bool
	}{
		{"charm", models.RoundingCharm, false},
		{" Whole ", models.RoundingWhole, false},
		{"REAL", models.RoundingReal, false},
		{"", "", true},
		{"psychological", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStrategy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStrategy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
