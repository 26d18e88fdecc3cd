// Package statement runs the extraction and classification pipeline over a
// statement document and publishes the category totals to a sink.
package statement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocjay1/statement-sorter/internal/classifier"
	"github.com/rocjay1/statement-sorter/internal/extract"
	"github.com/rocjay1/statement-sorter/internal/models"
)

// ErrNoTransactions is returned when a document yields no transactions.
var ErrNoTransactions = errors.New("no transactions found in statement")

// Result holds everything the pipeline produced for one statement.
// Verdicts[i] is the verdict for Transactions[i].
type Result struct {
	Transactions []models.Transaction
	Verdicts     []models.Verdict
	Summary      *models.Summary
}

// Processor turns a statement document into a Result.
type Processor struct {
	Extractor  *extract.Extractor
	Classifier *classifier.Classifier
}

// NewProcessor creates a Processor with the wall-clock extractor and the
// given rules.
func NewProcessor(rules classifier.Rules) *Processor {
	return &Processor{
		Extractor:  extract.NewExtractor(),
		Classifier: classifier.New(rules),
	}
}

// Process extracts, classifies and aggregates the transactions of doc.
func (p *Processor) Process(ctx context.Context, doc extract.Document) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	transactions, err := p.Extractor.Extract(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to extract transactions: %w", err)
	}
	if len(transactions) == 0 {
		return nil, ErrNoTransactions
	}

	verdicts := p.Classifier.ClassifyAll(transactions)
	summary, err := classifier.Summarize(transactions, verdicts)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate transactions: %w", err)
	}

	if !summary.Reconciles() {
		slog.Warn("classified total does not match statement total",
			"statement_total", summary.StatementTotal.StringFixed(2),
			"classified_total", summary.ClassifiedTotal().StringFixed(2),
			"ignored_total", summary.IgnoredTotal.StringFixed(2),
		)
	}
	slog.Info("processed statement",
		"transactions_count", len(transactions),
		"ignored_count", summary.Ignored,
		"categories", len(summary.Totals),
	)

	return &Result{
		Transactions: transactions,
		Verdicts:     verdicts,
		Summary:      summary,
	}, nil
}
