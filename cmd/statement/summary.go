package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rocjay1/statement-sorter/internal/config"
	"github.com/rocjay1/statement-sorter/internal/models"
)

var rule = strings.Repeat("-", 40)

func printSummary(w io.Writer, s *models.Summary) {
	if s.Ignored > 0 {
		fmt.Fprintf(w, "Skipped %d transactions (payments, fees, etc.)\n", s.Ignored)
	}

	fmt.Fprintln(w, "\nCategory Totals:")
	fmt.Fprintln(w, rule)
	for _, c := range s.Categories() {
		fmt.Fprintf(w, "%-20s %12s\n", c, models.FormatCAD(s.Totals[c]))
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-20s %12s\n", "Total", models.FormatCAD(s.ClassifiedTotal()))

	fmt.Fprintf(w, "\nPDF total purchases: %s\n", models.FormatCAD(s.StatementTotal))
	fmt.Fprintf(w, "Classified total: %s\n", models.FormatCAD(s.ClassifiedTotal()))
	if !s.Reconciles() {
		fmt.Fprintln(w, "Warning: Totals don't match exactly. This may be due to skipped transactions.")
	}
}

func printSinkHints(w io.Writer, sink string, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	switch sink {
	case config.SinkSheets:
		fmt.Fprintln(w, "Make sure:")
		fmt.Fprintln(w, "  1. credentials.json is valid")
		fmt.Fprintln(w, "  2. The sheet is shared with the service account email")
	case config.SinkTable:
		fmt.Fprintln(w, "Make sure the storage account is reachable and you are signed in (az login)")
	case config.SinkWorkbook:
		fmt.Fprintln(w, "Make sure the workbook is not open in another program")
	}
}
