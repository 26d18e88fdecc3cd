package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rocjay1/statement-sorter/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintSummary(t *testing.T) {
	s := &models.Summary{
		Totals: map[models.Category]decimal.Decimal{
			models.CategorySchoolMeals: decimal.RequireFromString("8.50"),
			models.CategoryFood:        decimal.RequireFromString("1009.00"),
		},
		Ignored:        2,
		IgnoredTotal:   decimal.RequireFromString("620.00"),
		StatementTotal: decimal.RequireFromString("1637.50"),
	}
	var buf bytes.Buffer

	printSummary(&buf, s)

	out := buf.String()
	assert.Contains(t, out, "Skipped 2 transactions")
	assert.Contains(t, out, "$1,009.00")
	assert.Contains(t, out, "$1,017.50")
	assert.Contains(t, out, "PDF total purchases: $1,637.50")
	assert.Contains(t, out, "Warning: Totals don't match exactly")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("food")), bytes.Index(buf.Bytes(), []byte("school meals")))
}

func TestPrintSummary_Reconciled(t *testing.T) {
	s := &models.Summary{
		Totals:         map[models.Category]decimal.Decimal{models.CategoryOther: decimal.RequireFromString("5.00")},
		StatementTotal: decimal.RequireFromString("5.00"),
	}
	var buf bytes.Buffer

	printSummary(&buf, s)

	assert.NotContains(t, buf.String(), "Warning")
	assert.NotContains(t, buf.String(), "Skipped")
}

func TestPrintSinkHints(t *testing.T) {
	var buf bytes.Buffer
	printSinkHints(&buf, "sheets", errors.New("403"))
	assert.Contains(t, buf.String(), "shared with the service account")
}

func TestParseFlags_RequiresPDFAndMonth(t *testing.T) {
	_, err := parseFlags([]string{"--pdf", "a.pdf"}, &bytes.Buffer{})
	assert.Error(t, err)

	opts, err := parseFlags([]string{"--pdf", "a.pdf", "--month", "December 2025", "--sink", "workbook", "--debug"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", opts.pdf)
	assert.Equal(t, "December 2025", opts.month)
	assert.Equal(t, "workbook", opts.sink)
	assert.Equal(t, "config.yaml", opts.configPath)
	assert.True(t, opts.debug)
}

func TestRun_MissingPDF(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--pdf", filepath.Join(t.TempDir(), "none.pdf"), "--month", "June 2025"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "PDF file not found")
}

func TestRun_MissingConfig(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "statement.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF-1.7"), 0o600))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"--pdf", pdf, "--month", "June 2025", "--config", filepath.Join(dir, "config.yaml")}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Error loading config")
}

func TestRun_BadFlags(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), []string{"--month"}, &stdout, &stderr))
}
