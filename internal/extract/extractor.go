// Package extract recovers transactions from the tables and text of a
// statement document. Malformed rows and lines are skipped, never reported.
package extract

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/rocjay1/statement-sorter/internal/models"
	"golang.org/x/sync/errgroup"
)

// Table is a grid of optional cells as read from a page.
type Table [][]*string

// Page is one page of a statement.
type Page struct {
	Number int
	Tables []Table
	Text   string
}

// Document provides the pages of a statement.
type Document interface {
	Pages() ([]Page, error)
}

// Extractor turns documents into transactions.
type Extractor struct {
	// Now is the reference clock for dates printed without a year.
	Now func() time.Time
	// Workers bounds how many pages are processed at once.
	Workers int
}

// NewExtractor creates an Extractor using the wall clock.
func NewExtractor() *Extractor {
	return &Extractor{Now: time.Now, Workers: runtime.NumCPU()}
}

// ExtractPage returns the merged transactions of a single page.
func ExtractPage(page Page, now time.Time) []models.Transaction {
	var fromTables []models.Transaction
	for _, table := range page.Tables {
		fromTables = append(fromTables, ParseTable(table, now)...)
	}
	fromText := ParseText(page.Text, now)

	merged := MergePage(fromTables, fromText)
	slog.Debug("extracted page",
		"page", page.Number,
		"tables", len(page.Tables),
		"table_transactions", len(fromTables),
		"text_transactions", len(fromText),
		"merged", len(merged),
	)
	return merged
}

// Extract reads every page of doc and returns the transactions in page order.
func (e *Extractor) Extract(doc Document) ([]models.Transaction, error) {
	pages, err := doc.Pages()
	if err != nil {
		return nil, fmt.Errorf("failed to read document pages: %w", err)
	}

	now := time.Now()
	if e.Now != nil {
		now = e.Now()
	}

	perPage := make([][]models.Transaction, len(pages))
	var g errgroup.Group
	if e.Workers > 0 {
		g.SetLimit(e.Workers)
	}
	for i, page := range pages {
		g.Go(func() error {
			perPage[i] = ExtractPage(page, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var transactions []models.Transaction
	for _, txs := range perPage {
		transactions = append(transactions, txs...)
	}
	slog.Info("extracted transactions", "pages", len(pages), "transactions_count", len(transactions))
	return transactions, nil
}
