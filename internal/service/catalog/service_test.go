package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/mamadbah2/platecost/internal/domain/models"
	"github.com/mamadbah2/platecost/internal/repository/mongodb"
)

type fakeSheets struct {
	rows [][]interface{}
	err  error
}

func (f *fakeSheets) AppendRows(context.Context, string, [][]interface{}) error {
	return nil
}

func (f *fakeSheets) ReadRange(context.Context, string) ([][]interface{}, error) {
	return f.rows, f.err
}

// fakeStore implements only the writes used by the import.
type fakeStore struct {
	mongodb.Repository
	ingredients []models.Ingredient
	densities   []models.DensityOverride
}

func (f *fakeStore) UpsertIngredients(_ context.Context, ingredients []models.Ingredient) (int, error) {
	f.ingredients = append(f.ingredients, ingredients...)
	return len(ingredients), nil
}

func (f *fakeStore) UpsertDensityOverrides(_ context.Context, overrides []models.DensityOverride) error {
	f.densities = append(f.densities, overrides...)
	return nil
}

func TestParseRow(t *testing.T) {
	ing, density, err := ParseRow([]interface{}{"carrot", "Carrot", "kg", "$2.00", "", "20%", "80", ""})
	if err != nil {
		t.Fatalf("ParseRow() error = %v", err)
	}
	if ing.ID != "carrot" || ing.BaseUnit != "kg" || ing.CostPerUnit != 2 || ing.TrimWastePercent != 20 {
		t.Errorf("ingredient = %+v", ing)
	}
	if ing.YieldPercent == nil || *ing.YieldPercent != 80 {
		t.Errorf("YieldPercent = %v", ing.YieldPercent)
	}
	if ing.CostPerUnitInclTrim != nil || density != nil {
		t.Errorf("unexpected optional values: %v %v", ing.CostPerUnitInclTrim, density)
	}

	ing, density, err = ParseRow([]interface{}{"honey", "Wildflower Honey", "L", "1,250.50", "1,300", "", "", "1.42"})
	if err != nil {
		t.Fatalf("ParseRow() error = %v", err)
	}
	if ing.CostPerUnit != 1250.5 || ing.CostPerUnitInclTrim == nil || *ing.CostPerUnitInclTrim != 1300 {
		t.Errorf("ingredient = %+v", ing)
	}
	if ing.YieldPercent != nil {
		t.Errorf("empty yield should stay unset, got %v", *ing.YieldPercent)
	}
	if density == nil || density.Name != "wildflower honey" || density.GramsPerML != 1.42 {
		t.Errorf("density = %+v", density)
	}
}

func TestParseRow_Invalid(t *testing.T) {
	tests := []struct {
		name string
		row  []interface{}
	}{
		{"missing name", []interface{}{"x", "", "kg", "1"}},
		{"unknown unit", []interface{}{"x", "X", "bag", "1"}},
		{"missing cost", []interface{}{"x", "X", "kg"}},
		{"bad cost", []interface{}{"x", "X", "kg", "cheap"}},
		{"negative cost", []interface{}{"x", "X", "kg", "-1"}},
		{"waste 100", []interface{}{"x", "X", "kg", "1", "", "100"}},
		{"yield zero", []interface{}{"x", "X", "kg", "1", "", "", "0"}},
		{"yield above 100", []interface{}{"x", "X", "kg", "1", "", "", "150%"}},
		{"zero density", []interface{}{"x", "X", "kg", "1", "", "", "", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ParseRow(tt.row); !errors.Is(err, ErrInvalidRow) {
				t.Errorf("error = %v, want ErrInvalidRow", err)
			}
		})
	}
}

func TestSyncPriceList(t *testing.T) {
	sheet := &fakeSheets{rows: [][]interface{}{
		{"flour", "Plain Flour", "kg", "1.20", "", "", "", "0.593"},
		{},
		{"carrot", "Carrot", "kg", "2", "", "20", "80"},
		{"mystery", "Mystery", "sack", "3"},
		{"flour", "Flour Again", "kg", "1.10"},
	}}
	store := &fakeStore{}
	svc := NewService(sheet, store, "Ingredients!A2:H", 2, nil)

	result, err := svc.SyncPriceList(context.Background())
	if err != nil {
		t.Fatalf("SyncPriceList() error = %v", err)
	}

	if result.Rows != 4 || result.Imported != 2 || result.Densities != 1 {
		t.Errorf("result = %+v", result)
	}
	if len(result.Rejected) != 2 {
		t.Fatalf("Rejected = %+v", result.Rejected)
	}
	if result.Rejected[0].Row != 5 || result.Rejected[0].ID != "mystery" {
		t.Errorf("Rejected[0] = %+v", result.Rejected[0])
	}
	if result.Rejected[1].Row != 6 || result.Rejected[1].ID != "flour" {
		t.Errorf("Rejected[1] = %+v", result.Rejected[1])
	}

	if len(store.ingredients) != 2 || store.ingredients[0].Name != "Plain Flour" {
		t.Errorf("stored ingredients = %+v", store.ingredients)
	}
	if len(store.densities) != 1 || store.densities[0].Name != "plain flour" {
		t.Errorf("stored densities = %+v", store.densities)
	}
}

func TestSyncPriceList_ReadError(t *testing.T) {
	svc := NewService(&fakeSheets{err: errors.New("quota exceeded")}, &fakeStore{}, "Ingredients!A2:H", 2, nil)

	if _, err := svc.SyncPriceList(context.Background()); err == nil {
		t.Fatal("expected read error")
	}
}
