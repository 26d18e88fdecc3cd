package extract

import (
	"log/slog"
	"strings"
	"time"

	"github.com/rocjay1/statement-sorter/internal/models"
)

// headerWords mark statement column headers rather than transaction lines.
var headerWords = []string{
	"transaction",
	"posting",
	"activity",
	"description",
	"amount",
	"date",
}

// ParseText extracts transactions from the raw text of a page, one
// candidate per line.
func ParseText(text string, now time.Time) []models.Transaction {
	var transactions []models.Transaction
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || isHeaderLine(line) {
			continue
		}
		t, ok := parseLine(line, now)
		if !ok {
			slog.Debug("skipping text line", "line", line)
			continue
		}
		transactions = append(transactions, t)
	}
	return transactions
}

func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	for _, w := range headerWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// parseLine reads "<date> [<date>] <merchant> <amount>" from a single line.
func parseLine(line string, now time.Time) (models.Transaction, bool) {
	date, ok := findDate(line, now)
	if !ok || !date.Valid {
		return models.Transaction{}, false
	}

	loc := trailingAmountRe.FindStringSubmatchIndex(line)
	if loc == nil || loc[0] < date.End {
		return models.Transaction{}, false
	}

	sign := ""
	if loc[2] >= 0 {
		sign = line[loc[2]:loc[3]]
	}
	amount, ok := parseAmount(sign, line[loc[4]:loc[5]], line[loc[6]:loc[7]])
	if !ok {
		return models.Transaction{}, false
	}

	merchant, ok := cleanMerchant(line[date.End:loc[0]])
	if !ok {
		return models.Transaction{}, false
	}
	return models.NewTransaction(merchant, date.Date, amount)
}
