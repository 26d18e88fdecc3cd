package models

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatCAD renders an amount as Canadian dollars, e.g. "$1,234.56".
func FormatCAD(d decimal.Decimal) string {
	cents := d.Shift(2).Round(0).IntPart()
	return money.New(cents, money.CAD).Display()
}
