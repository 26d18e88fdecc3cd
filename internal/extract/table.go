package extract

import (
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rocjay1/statement-sorter/internal/models"
	"github.com/shopspring/decimal"
)

// minFragmentLen is the length a cell must exceed to count as merchant text.
const minFragmentLen = 3

// ParseTable extracts transactions from a table grid. Each row yields at
// most one transaction; rows missing a date, amount or merchant are skipped.
func ParseTable(table Table, now time.Time) []models.Transaction {
	var transactions []models.Transaction
	for i, row := range table {
		if len(row) < 2 {
			continue
		}
		t, ok := parseRow(row, now)
		if !ok {
			slog.Debug("skipping table row", "row", i, "cells", len(row))
			continue
		}
		transactions = append(transactions, t)
	}
	return transactions
}

func parseRow(row []*string, now time.Time) (models.Transaction, bool) {
	var (
		date       dateMatch
		haveDate   bool
		amount     decimal.Decimal
		haveAmount bool
		fragments  []string
	)

	for _, cell := range row {
		if cell == nil {
			continue
		}
		text := strings.TrimSpace(*cell)
		if text == "" {
			continue
		}

		if !haveDate {
			if m, ok := findDate(text, now); ok && m.Start == 0 {
				date, haveDate = m, true
				continue
			}
		}

		if !haveAmount && amountRe.MatchString(text) {
			if a, ok := findAmount(text); ok {
				amount, haveAmount = a, true
			}
			continue
		}

		if !haveDate && !haveAmount && utf8.RuneCountInString(text) > minFragmentLen {
			fragments = append(fragments, text)
		}
	}

	if !haveDate || !date.Valid || !haveAmount {
		return models.Transaction{}, false
	}
	merchant, ok := cleanMerchant(strings.Join(fragments, " "))
	if !ok {
		return models.Transaction{}, false
	}
	return models.NewTransaction(merchant, date.Date, amount)
}
