package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/archlens/archlens/internal/config"
	"github.com/archlens/archlens/internal/types"
)

// DebtIdentifier flags god classes, overly complex methods and missing
// error handling, each with a deterministic cost estimate.
type DebtIdentifier struct {
	cfg config.Debt
}

// NewDebtIdentifier creates an identifier with the configured thresholds.
func NewDebtIdentifier(cfg config.Debt) *DebtIdentifier {
	return &DebtIdentifier{cfg: cfg}
}

// Identify evaluates every rule per class and method, sorts items by
// severity then estimated hours descending, and retains the top N. The
// summary always reflects the full unfiltered set.
func (di *DebtIdentifier) Identify(arena *types.ClassArena) types.TechnicalDebt {
	var items []types.TechnicalDebtItem

	for i := range arena.Classes {
		class := &arena.Classes[i]

		if methodCount := len(class.Methods); methodCount > di.cfg.GodClassMethodThreshold {
			items = append(items, types.TechnicalDebtItem{
				Kind:           types.DebtGodClass,
				Location:       class.Name,
				Severity:       types.SeverityHigh,
				Description:    fmt.Sprintf("%s has %d methods, exceeding the threshold of %d; consider splitting responsibilities", class.Name, methodCount, di.cfg.GodClassMethodThreshold),
				EstimatedHours: ceilDiv(methodCount, 5),
			})
		}

		for _, method := range class.Methods {
			location := class.Name + "." + method.Name

			if method.Complexity > di.cfg.HighComplexityThreshold {
				items = append(items, types.TechnicalDebtItem{
					Kind:           types.DebtHighComplexity,
					Location:       location,
					Severity:       types.SeverityHigh,
					Description:    fmt.Sprintf("%s has cyclomatic complexity %d, exceeding the threshold of %d", location, method.Complexity, di.cfg.HighComplexityThreshold),
					EstimatedHours: ceilDiv(method.Complexity, 8),
				})
			}

			// Trivial accessors (fewer than two statements) are exempt from
			// the error-handling rule.
			if method.Visibility == types.VisibilityPublic && method.StatementCount >= 2 && !method.HasErrorHandling {
				items = append(items, types.TechnicalDebtItem{
					Kind:           types.DebtMissingErrorHandling,
					Location:       location,
					Severity:       types.SeverityMedium,
					Description:    fmt.Sprintf("public method %s has no exception handling", location),
					EstimatedHours: 1,
				})
			}
		}
	}

	totalHours := 0
	for _, item := range items {
		totalHours += item.EstimatedHours
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Severity != items[j].Severity {
			return items[i].Severity > items[j].Severity
		}
		if items[i].EstimatedHours != items[j].EstimatedHours {
			return items[i].EstimatedHours > items[j].EstimatedHours
		}
		return items[i].Location < items[j].Location
	})

	summary := types.DebtSummary{
		TotalItems:     len(items),
		EstimatedHours: totalHours,
		EstimatedValue: FormatCurrency(float64(totalHours) * di.cfg.HourlyRate),
	}

	retained := items
	if di.cfg.MaxReportedItems > 0 && len(retained) > di.cfg.MaxReportedItems {
		retained = retained[:di.cfg.MaxReportedItems]
	}
	if retained == nil {
		retained = []types.TechnicalDebtItem{}
	}

	return types.TechnicalDebt{Items: retained, Summary: summary}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// FormatCurrency renders a dollar amount with thousands separators, e.g.
// "$1,400". Fractional cents are dropped; debt estimates are whole-hour
// figures.
func FormatCurrency(amount float64) string {
	whole := int64(amount)
	digits := strconv.FormatInt(whole, 10)

	negative := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := "$" + strings.Join(groups, ",")
	if negative {
		out = "-" + out
	}
	return out
}
