// Package csvexport dumps classified transactions for inspection.
package csvexport

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/rocjay1/statement-sorter/internal/models"
)

// Record is one CSV line: a transaction and the verdict it received.
type Record struct {
	Date     string `csv:"date"`
	Merchant string `csv:"merchant"`
	Amount   string `csv:"amount"`
	Category string `csv:"category"`
	Ignored  bool   `csv:"ignored"`
}

// Records pairs each transaction with its verdict.
func Records(transactions []models.Transaction, verdicts []models.Verdict) ([]Record, error) {
	if len(transactions) != len(verdicts) {
		return nil, fmt.Errorf("got %d verdicts for %d transactions", len(verdicts), len(transactions))
	}
	records := make([]Record, len(transactions))
	for i, t := range transactions {
		records[i] = Record{
			Date:     t.Date.Format("2006-01-02"),
			Merchant: t.Merchant,
			Amount:   t.Amount.StringFixed(2),
			Category: string(verdicts[i].Category),
			Ignored:  verdicts[i].Ignored,
		}
	}
	return records, nil
}

// Write writes the records as CSV with a header line.
func Write(w io.Writer, transactions []models.Transaction, verdicts []models.Verdict) error {
	records, err := Records(transactions, verdicts)
	if err != nil {
		return err
	}
	if err := gocsv.Marshal(&records, w); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// WriteFile writes the CSV dump to path, replacing any existing file.
func WriteFile(path string, transactions []models.Transaction, verdicts []models.Verdict) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Write(f, transactions, verdicts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
