package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single purchase recovered from a statement.
// Values are only produced by NewTransaction and are never mutated.
type Transaction struct {
	Merchant string          `json:"merchant"`
	Date     time.Time       `json:"date"`
	Amount   decimal.Decimal `json:"amount"`
}

// TransactionKey identifies duplicate transactions.
type TransactionKey struct {
	Merchant string
	Amount   string
	Date     string
}

// NewTransaction builds a transaction, trimming the merchant and
// truncating the date to a calendar day. It reports false when the
// amount is not strictly positive.
func NewTransaction(merchant string, date time.Time, amount decimal.Decimal) (Transaction, bool) {
	if !amount.IsPositive() {
		return Transaction{}, false
	}
	return Transaction{
		Merchant: strings.TrimSpace(merchant),
		Date:     time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		Amount:   amount,
	}, true
}

// Key returns the (merchant, amount, date) identity of t.
func (t Transaction) Key() TransactionKey {
	return TransactionKey{
		Merchant: t.Merchant,
		Amount:   t.Amount.StringFixed(2),
		Date:     t.Date.Format("2006-01-02"),
	}
}
