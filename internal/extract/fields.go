package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const monthDay = `(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)\.?\s*(\d{1,2})\b`

var (
	// DEC 03 DEC 05: posting date followed by transaction date.
	dualDateRe    = regexp.MustCompile(`(?i)\b` + monthDay + `\s+` + monthDay)
	singleDateRe  = regexp.MustCompile(`(?i)\b` + monthDay)
	numericDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)

	amountRe         = regexp.MustCompile(`(-)?\$?(\d{1,3}(?:,\d{3})+|\d+)\.(\d{2})\b`)
	trailingAmountRe = regexp.MustCompile(`(-)?\$?(\d{1,3}(?:,\d{3})+|\d+)\.(\d{2})\s*$`)

	accountNumberRe = regexp.MustCompile(`^\d+-\d+$`)
)

var monthAbbrevs = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// minMerchantLen is the shortest merchant description kept after cleanup.
const minMerchantLen = 2

// referenceDigits is the length from which an all-digit token is treated
// as a transaction reference rather than merchant text.
const referenceDigits = 15

// dateMatch is a date token found in a line or cell. Valid is false when
// the token is date-shaped but does not name a calendar day.
type dateMatch struct {
	Date       time.Time
	Start, End int
	Valid      bool
}

// findDate locates the first date token in s. Month-abbreviation pairs
// are tried first, then a single month-abbreviation date, then numeric
// M/D[/Y] dates. When a pair is found the second date wins.
func findDate(s string, now time.Time) (dateMatch, bool) {
	if loc := dualDateRe.FindStringSubmatchIndex(s); loc != nil {
		month := monthAbbrevs[strings.ToUpper(s[loc[6]:loc[7]])]
		day, _ := strconv.Atoi(s[loc[8]:loc[9]])
		date, ok := calendarDate(inferYear(month, now), month, day)
		return dateMatch{Date: date, Start: loc[0], End: loc[1], Valid: ok}, true
	}

	if loc := singleDateRe.FindStringSubmatchIndex(s); loc != nil {
		month := monthAbbrevs[strings.ToUpper(s[loc[2]:loc[3]])]
		day, _ := strconv.Atoi(s[loc[4]:loc[5]])
		date, ok := calendarDate(inferYear(month, now), month, day)
		return dateMatch{Date: date, Start: loc[0], End: loc[1], Valid: ok}, true
	}

	if loc := numericDateRe.FindStringSubmatchIndex(s); loc != nil {
		m, _ := strconv.Atoi(s[loc[2]:loc[3]])
		day, _ := strconv.Atoi(s[loc[4]:loc[5]])
		match := dateMatch{Start: loc[0], End: loc[1]}
		if m < 1 || m > 12 {
			return match, true
		}
		month := time.Month(m)

		year := inferYear(month, now)
		if loc[6] >= 0 {
			yearPart := s[loc[6]:loc[7]]
			year, _ = strconv.Atoi(yearPart)
			if len(yearPart) == 2 {
				year += 2000
			}
		}
		match.Date, match.Valid = calendarDate(year, month, day)
		return match, true
	}

	return dateMatch{}, false
}

// inferYear picks the year for a date printed without one. A month later
// than the current month is assumed to belong to last year. Statements
// read in the first days of a month can still be misdated by this.
func inferYear(month time.Month, now time.Time) int {
	if month > now.Month() {
		return now.Year() - 1
	}
	return now.Year()
}

func calendarDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// parseAmount converts the submatches of amountRe or trailingAmountRe.
func parseAmount(sign, whole, cents string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.ReplaceAll(whole, ",", "") + "." + cents)
	if err != nil {
		return decimal.Zero, false
	}
	if sign == "-" {
		d = d.Neg()
	}
	return d, true
}

// findAmount returns the first currency token in s.
func findAmount(s string) (decimal.Decimal, bool) {
	m := amountRe.FindStringSubmatch(s)
	if m == nil {
		return decimal.Zero, false
	}
	return parseAmount(m[1], m[2], m[3])
}

// cleanMerchant drops embedded reference and account numbers, collapses
// whitespace and rejects descriptions that end up too short.
func cleanMerchant(raw string) (string, bool) {
	var kept []string
	for _, tok := range strings.Fields(raw) {
		if isReferenceToken(tok) {
			continue
		}
		kept = append(kept, tok)
	}
	merchant := strings.Join(kept, " ")
	if utf8.RuneCountInString(merchant) < minMerchantLen {
		return "", false
	}
	return merchant, true
}

func isReferenceToken(tok string) bool {
	if len(tok) >= referenceDigits && isDigits(tok) {
		return true
	}
	return accountNumberRe.MatchString(tok)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
