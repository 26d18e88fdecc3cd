package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// reconcileTolerance is the largest gap between the statement total and
// the classified total that is not reported.
var reconcileTolerance = decimal.New(1, -2)

// Row is one line appended to the output spreadsheet.
type Row struct {
	Month    string          `json:"month"`
	Category Category        `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// Summary holds the aggregated totals for one statement.
type Summary struct {
	// Totals only contains categories with a positive total.
	Totals map[Category]decimal.Decimal `json:"totals"`
	// Ignored counts transactions excluded from Totals.
	Ignored      int             `json:"ignored"`
	IgnoredTotal decimal.Decimal `json:"ignored_total"`
	// StatementTotal is the sum of every extracted transaction, ignored ones included.
	StatementTotal decimal.Decimal `json:"statement_total"`
}

// ClassifiedTotal sums the category totals.
func (s *Summary) ClassifiedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range s.Totals {
		total = total.Add(amount)
	}
	return total
}

// Reconciles reports whether the statement total and the classified total
// agree within one cent. Ignored transactions make them differ.
func (s *Summary) Reconciles() bool {
	return s.StatementTotal.Sub(s.ClassifiedTotal()).Abs().LessThanOrEqual(reconcileTolerance)
}

// Categories returns the categories present in Totals sorted by name.
func (s *Summary) Categories() []Category {
	cats := make([]Category, 0, len(s.Totals))
	for c := range s.Totals {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// Rows converts the totals into spreadsheet rows for month, sorted by category.
func (s *Summary) Rows(month string) []Row {
	cats := s.Categories()
	rows := make([]Row, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, Row{Month: month, Category: c, Amount: s.Totals[c]})
	}
	return rows
}
