// Package catalog imports the ingredient price list from a spreadsheet into
// the ingredient store.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/platecost/internal/domain/models"
	"github.com/mamadbah2/platecost/internal/repository/mongodb"
	"github.com/mamadbah2/platecost/internal/repository/sheets"
	"github.com/mamadbah2/platecost/internal/service/conversion"
)

// Price list columns: id | name | unit | cost | cost incl trim | trim % | yield % | density.
const (
	colID = iota
	colName
	colUnit
	colCost
	colCostInclTrim
	colTrimWaste
	colYield
	colDensity
)

// ErrInvalidRow indicates a price list row that cannot be imported.
var ErrInvalidRow = errors.New("invalid price list row")

// RowError describes one rejected price list row.
type RowError struct {
	Row    int    `json:"row"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

// SyncResult summarises one price list import.
type SyncResult struct {
	Rows      int        `json:"rows"`
	Imported  int        `json:"imported"`
	Changed   int        `json:"changed"`
	Densities int        `json:"densities"`
	Rejected  []RowError `json:"rejected,omitempty"`
}

// Service copies the spreadsheet price list into the ingredient store.
type Service struct {
	sheets     sheets.Repository
	store      mongodb.Repository
	sheetRange string
	firstRow   int
	logger     *zap.Logger
}

// NewService wires a new catalog service. firstRow is the sheet row number of
// the first data row in sheetRange, used only in error reports.
func NewService(sheetRepo sheets.Repository, store mongodb.Repository, sheetRange string, firstRow int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if firstRow <= 0 {
		firstRow = 1
	}
	return &Service{
		sheets:     sheetRepo,
		store:      store,
		sheetRange: sheetRange,
		firstRow:   firstRow,
		logger:     logger,
	}
}

// SyncPriceList reads the price list and upserts every valid row. Invalid
// rows are reported in the result and do not stop the import.
func (s *Service) SyncPriceList(ctx context.Context) (SyncResult, error) {
	rows, err := s.sheets.ReadRange(ctx, s.sheetRange)
	if err != nil {
		return SyncResult{}, fmt.Errorf("load price list: %w", err)
	}

	var (
		result      SyncResult
		ingredients []models.Ingredient
		densities   []models.DensityOverride
		seen        = make(map[string]int)
	)

	for i, row := range rows {
		if blank(row) {
			continue
		}
		result.Rows++
		rowNumber := s.firstRow + i

		ing, density, err := ParseRow(row)
		if err != nil {
			s.logger.Warn("skip price list row", zap.Int("row", rowNumber), zap.Error(err))
			result.Rejected = append(result.Rejected, RowError{Row: rowNumber, ID: cell(row, colID), Reason: err.Error()})
			continue
		}
		if prev, ok := seen[ing.ID]; ok {
			result.Rejected = append(result.Rejected, RowError{
				Row:    rowNumber,
				ID:     ing.ID,
				Reason: fmt.Sprintf("duplicate id, first seen on row %d", prev),
			})
			continue
		}
		seen[ing.ID] = rowNumber

		ingredients = append(ingredients, ing)
		if density != nil {
			densities = append(densities, *density)
		}
	}

	changed, err := s.store.UpsertIngredients(ctx, ingredients)
	if err != nil {
		return result, fmt.Errorf("store ingredients: %w", err)
	}
	if err := s.store.UpsertDensityOverrides(ctx, densities); err != nil {
		return result, fmt.Errorf("store densities: %w", err)
	}

	result.Imported = len(ingredients)
	result.Changed = changed
	result.Densities = len(densities)

	s.logger.Info("price list synced",
		zap.Int("rows", result.Rows),
		zap.Int("imported", result.Imported),
		zap.Int("changed", result.Changed),
		zap.Int("rejected", len(result.Rejected)),
	)
	return result, nil
}

// ParseRow converts one price list row into an ingredient and, when the
// density column is filled, a density override keyed by the ingredient name.
func ParseRow(row []interface{}) (models.Ingredient, *models.DensityOverride, error) {
	ing := models.Ingredient{
		ID:       cell(row, colID),
		Name:     cell(row, colName),
		BaseUnit: cell(row, colUnit),
	}
	if ing.ID == "" || ing.Name == "" {
		return models.Ingredient{}, nil, fmt.Errorf("%w: id and name are required", ErrInvalidRow)
	}
	if _, err := conversion.ParseUnit(ing.BaseUnit); err != nil {
		return models.Ingredient{}, nil, fmt.Errorf("%w: %v", ErrInvalidRow, err)
	}

	cost, ok, err := parseNumber(cell(row, colCost))
	if err != nil || !ok || cost.IsNegative() {
		return models.Ingredient{}, nil, fmt.Errorf("%w: cost %q", ErrInvalidRow, cell(row, colCost))
	}
	ing.CostPerUnit = cost.InexactFloat64()

	if v, ok, err := parseNumber(cell(row, colCostInclTrim)); err != nil || (ok && v.IsNegative()) {
		return models.Ingredient{}, nil, fmt.Errorf("%w: cost incl trim %q", ErrInvalidRow, cell(row, colCostInclTrim))
	} else if ok {
		f := v.InexactFloat64()
		ing.CostPerUnitInclTrim = &f
	}

	if v, ok, err := parseNumber(cell(row, colTrimWaste)); err != nil {
		return models.Ingredient{}, nil, fmt.Errorf("%w: trim %q", ErrInvalidRow, cell(row, colTrimWaste))
	} else if ok {
		ing.TrimWastePercent = v.InexactFloat64()
	}
	if ing.TrimWastePercent < 0 || ing.TrimWastePercent >= 100 {
		return models.Ingredient{}, nil, fmt.Errorf("%w: trim %v outside [0, 100)", ErrInvalidRow, ing.TrimWastePercent)
	}

	if v, ok, err := parseNumber(cell(row, colYield)); err != nil {
		return models.Ingredient{}, nil, fmt.Errorf("%w: yield %q", ErrInvalidRow, cell(row, colYield))
	} else if ok {
		y := v.InexactFloat64()
		if y <= 0 || y > 100 {
			return models.Ingredient{}, nil, fmt.Errorf("%w: yield %v outside (0, 100]", ErrInvalidRow, y)
		}
		ing.YieldPercent = &y
	}

	var density *models.DensityOverride
	if v, ok, err := parseNumber(cell(row, colDensity)); err != nil || (ok && !v.IsPositive()) {
		return models.Ingredient{}, nil, fmt.Errorf("%w: density %q", ErrInvalidRow, cell(row, colDensity))
	} else if ok {
		density = &models.DensityOverride{Name: strings.ToLower(ing.Name), GramsPerML: v.InexactFloat64()}
	}

	return ing, density, nil
}

func cell(row []interface{}, idx int) string {
	if idx >= len(row) || row[idx] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[idx]))
}

func blank(row []interface{}) bool {
	for i := range row {
		if cell(row, i) != "" {
			return false
		}
	}
	return true
}

// parseNumber reads a displayed sheet value such as "$1,250.50" or "12.5%".
// ok is false for an empty cell.
func parseNumber(raw string) (value decimal.Decimal, ok bool, err error) {
	str := strings.TrimSpace(raw)
	str = strings.TrimSuffix(str, "%")
	str = strings.TrimLeft(str, "$€£ ")
	str = strings.ReplaceAll(str, ",", "")
	str = strings.TrimSpace(str)
	if str == "" {
		return decimal.Zero, false, nil
	}

	value, err = decimal.NewFromString(str)
	if err != nil {
		return decimal.Zero, false, err
	}
	return value, true, nil
}
