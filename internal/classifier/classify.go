// Package classifier assigns spending categories to statement transactions
// using an ordered cascade of rules.
package classifier

import (
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"
	"github.com/rocjay1/statement-sorter/internal/models"
	"github.com/shopspring/decimal"
)

// ErrInvalidCategory is returned when a rule produces a category outside
// the fixed set.
var ErrInvalidCategory = errors.New("invalid category")

var (
	// Small purchases at short-named merchants are treated as food.
	foodAmountLimit = decimal.NewFromInt(25)
	foodNameLimit   = 40

	schoolThreshold    = decimal.NewFromInt(100)
	groceriesThreshold = decimal.NewFromInt(10)
)

// keywordSet reports whether any of its keywords occurs in a text.
type keywordSet struct {
	matcher *ahocorasick.Matcher
	size    int
	mu      sync.Mutex // Match mutates matcher state
}

func newKeywordSet(words []string) *keywordSet {
	patterns := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToUpper(w); w != "" {
			patterns = append(patterns, w)
		}
	}
	ks := &keywordSet{size: len(patterns)}
	if ks.size > 0 {
		ks.matcher = ahocorasick.NewStringMatcher(patterns)
	}
	return ks
}

// containsAny expects upper-cased input.
func (k *keywordSet) containsAny(upper string) bool {
	if k.size == 0 {
		return false
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.matcher.Match([]byte(upper))) > 0
}

// Classifier applies a fixed set of rules. It holds no per-call state and
// may be shared between goroutines.
type Classifier struct {
	ignore         *keywordSet
	overrides      []Override
	foodKeywords   *keywordSet
	foodExclusions *keywordSet
}

// New builds a Classifier from rules.
func New(rules Rules) *Classifier {
	overrides := make([]Override, len(rules.Overrides))
	for i, o := range rules.Overrides {
		overrides[i] = Override{Pattern: strings.ToUpper(o.Pattern), Category: o.Category}
	}
	return &Classifier{
		ignore:         newKeywordSet(rules.Ignore),
		overrides:      overrides,
		foodKeywords:   newKeywordSet(rules.FoodKeywords),
		foodExclusions: newKeywordSet(rules.FoodExclusions),
	}
}

// Classify returns the verdict for one purchase. The first rule that
// applies wins: ignore patterns, merchant overrides, food detection with
// the weekday split, then amount thresholds.
func (c *Classifier) Classify(merchant string, date time.Time, amount decimal.Decimal) models.Verdict {
	upper := strings.ToUpper(merchant)

	if c.ignore.containsAny(upper) {
		return models.Ignore
	}

	if category, ok := c.override(upper); ok {
		return models.Assign(category)
	}

	if c.isFoodType(merchant, upper, amount) {
		switch date.Weekday() {
		case time.Saturday, time.Sunday:
			return models.Assign(models.CategoryFood)
		default:
			return models.Assign(models.CategorySchoolMeals)
		}
	}

	switch {
	case amount.GreaterThanOrEqual(schoolThreshold):
		return models.Assign(models.CategorySchool)
	case amount.LessThanOrEqual(groceriesThreshold):
		return models.Assign(models.CategoryGroceries)
	default:
		return models.Assign(models.CategoryOther)
	}
}

// ClassifyTransaction classifies t.
func (c *Classifier) ClassifyTransaction(t models.Transaction) models.Verdict {
	return c.Classify(t.Merchant, t.Date, t.Amount)
}

// ClassifyAll returns one verdict per transaction, in order.
func (c *Classifier) ClassifyAll(transactions []models.Transaction) []models.Verdict {
	verdicts := make([]models.Verdict, len(transactions))
	for i, t := range transactions {
		verdicts[i] = c.ClassifyTransaction(t)
	}
	return verdicts
}

func (c *Classifier) override(upper string) (models.Category, bool) {
	for _, o := range c.overrides {
		if strings.HasPrefix(upper, o.Pattern) || strings.Contains(upper, o.Pattern) {
			return o.Category, true
		}
	}
	return "", false
}

// isFoodType reports whether a merchant sells prepared meals or drinks.
// Exclusions veto both the keyword match and the size heuristic.
func (c *Classifier) isFoodType(merchant, upper string, amount decimal.Decimal) bool {
	if c.foodExclusions.containsAny(upper) {
		return false
	}
	if c.foodKeywords.containsAny(upper) {
		return true
	}
	return amount.LessThanOrEqual(foodAmountLimit) && utf8.RuneCountInString(merchant) < foodNameLimit
}
