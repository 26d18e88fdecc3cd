package classifier

import (
	"fmt"
	"log/slog"

	"github.com/rocjay1/statement-sorter/internal/models"
	"github.com/shopspring/decimal"
)

// Aggregate classifies every transaction and sums the amounts per category.
func (c *Classifier) Aggregate(transactions []models.Transaction) (*models.Summary, error) {
	return Summarize(transactions, c.ClassifyAll(transactions))
}

// Summarize totals transactions by their verdicts. Ignored transactions
// are counted but not totalled; a verdict naming an unknown category
// aborts with ErrInvalidCategory. Categories that total zero are omitted.
func Summarize(transactions []models.Transaction, verdicts []models.Verdict) (*models.Summary, error) {
	if len(transactions) != len(verdicts) {
		return nil, fmt.Errorf("got %d verdicts for %d transactions", len(verdicts), len(transactions))
	}

	totals := make(map[models.Category]decimal.Decimal)
	for _, c := range models.AllCategories() {
		totals[c] = decimal.Zero
	}

	summary := &models.Summary{
		IgnoredTotal:   decimal.Zero,
		StatementTotal: decimal.Zero,
	}

	for i, t := range transactions {
		v := verdicts[i]
		summary.StatementTotal = summary.StatementTotal.Add(t.Amount)

		if v.Ignored {
			summary.Ignored++
			summary.IgnoredTotal = summary.IgnoredTotal.Add(t.Amount)
			slog.Debug("ignoring transaction", "merchant", t.Merchant, "amount", t.Amount.StringFixed(2))
			continue
		}
		if !v.Category.Valid() {
			return nil, fmt.Errorf("transaction %q: %w: %q", t.Merchant, ErrInvalidCategory, v.Category)
		}

		totals[v.Category] = totals[v.Category].Add(t.Amount)
		slog.Debug("classified transaction",
			"merchant", t.Merchant,
			"date", t.Date.Format("2006-01-02"),
			"amount", t.Amount.StringFixed(2),
			"category", v.Category,
		)
	}

	for c, total := range totals {
		if total.IsZero() {
			delete(totals, c)
		}
	}
	summary.Totals = totals
	return summary, nil
}
