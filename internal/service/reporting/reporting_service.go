package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/platecost/internal/domain/models"
	repo "github.com/mamadbah2/platecost/internal/repository/sheets"
)

const dateLayout = "2006-01-02"

// Service formats margin review results and appends them to the review log.
type Service struct {
	repo        repo.Repository
	reviewRange string
	logger      *zap.Logger
}

// NewService wires a new reporting service instance. A nil repository
// disables the review log.
func NewService(repository repo.Repository, reviewRange string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repository, reviewRange: reviewRange, logger: logger}
}

// FormatMarginSummary renders alerts as a short text message.
func (s *Service) FormatMarginSummary(alerts []models.MarginAlert, reviewedAt time.Time) string {
	day := reviewedAt.Format(dateLayout)
	if len(alerts) == 0 {
		return fmt.Sprintf("Margin review (%s): every priced recipe meets its target.", day)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Margin review (%s): %d recipe(s) below target.", day, len(alerts))
	for _, a := range alerts {
		fmt.Fprintf(&b, "\n- %s: %.1f%% GP vs %.0f%% target at %.2f; suggest %.2f.",
			a.RecipeName, a.ActualGrossProfitPercent, a.TargetGrossProfitPercent, a.MenuPriceInclTax, a.RecommendedPriceInclTax)
		if a.SkippedLines > 0 {
			fmt.Fprintf(&b, " %d line(s) not costed.", a.SkippedLines)
		}
	}
	return b.String()
}

// LogReview appends one row per alert to the review sheet.
func (s *Service) LogReview(ctx context.Context, alerts []models.MarginAlert, reviewedAt time.Time) error {
	if s.repo == nil || len(alerts) == 0 {
		return nil
	}

	day := reviewedAt.Format(dateLayout)
	rows := make([][]interface{}, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, []interface{}{
			day,
			a.RecipeName,
			formatMoney(a.CostPerPortion),
			a.MenuPriceInclTax,
			a.TargetGrossProfitPercent,
			a.ActualGrossProfitPercent,
			a.RecommendedPriceInclTax,
		})
	}

	if err := s.repo.AppendRows(ctx, s.reviewRange, rows); err != nil {
		return fmt.Errorf("append margin review: %w", err)
	}

	s.logger.Debug("margin review logged", zap.Int("rows", len(rows)))
	return nil
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
