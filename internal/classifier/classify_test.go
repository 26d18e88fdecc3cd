package classifier

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rocjay1/statement-sorter/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	monday   = time.Date(2024, time.December, 2, 0, 0, 0, 0, time.UTC)
	saturday = time.Date(2024, time.December, 7, 0, 0, 0, 0, time.UTC)
)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestClassify_IgnoreWinsOverEverything(t *testing.T) {
	c := New(DefaultRules())

	for _, merchant := range []string{"PAYMENT - THANK YOU", "autopayment received", "PRESTO PAYMENT", "MCDONALD'S PAYMENT"} {
		for _, date := range []time.Time{monday, saturday} {
			for _, a := range []string{"1.00", "25.00", "500.00"} {
				assert.Equal(t, models.Ignore, c.Classify(merchant, date, amt(a)), merchant)
			}
		}
	}
}

func TestClassify_OverrideBeatsFoodKeyword(t *testing.T) {
	c := New(DefaultRules())

	got := c.Classify("PRESTO TIM HORTONS", monday, amt("4.00"))
	assert.Equal(t, models.Assign(models.CategoryPresto), got)

	got = c.Classify("presto fare", saturday, amt("3.30"))
	assert.Equal(t, models.Assign(models.CategoryPresto), got)
}

func TestClassify_OverrideMatchesAnywhere(t *testing.T) {
	c := New(DefaultRules())

	got := c.Classify("SQ *CITY OF TORONTO", monday, amt("60.00"))
	assert.Equal(t, models.Assign(models.CategoryOther), got)
}

func TestClassify_WeekdayWeekendSplit(t *testing.T) {
	c := New(DefaultRules())

	assert.Equal(t, models.Assign(models.CategorySchoolMeals), c.Classify("MCDONALD'S #123", monday, amt("8.50")))
	assert.Equal(t, models.Assign(models.CategoryFood), c.Classify("MCDONALD'S #123", saturday, amt("8.50")))
}

func TestClassify_WalmartIsGroceries(t *testing.T) {
	c := New(DefaultRules())

	got := c.Classify("WALMART SUPERCENTER #456", monday, amt("12.00"))
	assert.Equal(t, models.Assign(models.CategoryGroceries), got)
}

func TestClassify_ExclusionVetoesHeuristic(t *testing.T) {
	c := New(DefaultRules())

	// Not an override, but excluded from food: falls through to the amount rules.
	got := c.Classify("LOBLAWS #1234", monday, amt("12.00"))
	assert.Equal(t, models.Assign(models.CategoryOther), got)
}

func TestClassify_SmallPurchaseHeuristic(t *testing.T) {
	c := New(DefaultRules())

	assert.Equal(t, models.Assign(models.CategorySchoolMeals), c.Classify("CORNER SHOP", monday, amt("25.00")))
	assert.Equal(t, models.Assign(models.CategoryOther), c.Classify("CORNER SHOP", monday, amt("25.01")))
}

func TestClassify_AmountFallbackBoundaries(t *testing.T) {
	c := New(DefaultRules())
	longName := "ELECTRONICS AND HARDWARE WAREHOUSE OUTLET #1"
	require.GreaterOrEqual(t, len(longName), 40)

	assert.Equal(t, models.Assign(models.CategorySchool), c.Classify("BEST BUY #12", monday, amt("100.00")))
	assert.Equal(t, models.Assign(models.CategoryOther), c.Classify("BEST BUY #12", monday, amt("50.00")))
	assert.Equal(t, models.Assign(models.CategoryOther), c.Classify("BEST BUY #12", monday, amt("99.99")))
	assert.Equal(t, models.Assign(models.CategoryGroceries), c.Classify(longName, monday, amt("10.00")))
	assert.Equal(t, models.Assign(models.CategoryOther), c.Classify(longName, monday, amt("10.01")))
}

func TestClassify_Idempotent(t *testing.T) {
	c := New(DefaultRules())

	first := c.Classify("STARBUCKS 800", saturday, amt("6.25"))
	second := c.Classify("STARBUCKS 800", saturday, amt("6.25"))
	assert.Equal(t, first, second)
}

func TestClassify_SubstitutedRules(t *testing.T) {
	c := New(Rules{
		Overrides: []Override{{Pattern: "acme", Category: models.CategoryMomStuff}},
	})

	assert.Equal(t, models.Assign(models.CategoryMomStuff), c.Classify("ACME GIFTS", monday, amt("40.00")))
	// No ignore patterns and no food keywords.
	assert.Equal(t, models.Assign(models.CategorySchool), c.Classify("PAYMENT", monday, amt("150.00")))
}

func TestRules_Validate(t *testing.T) {
	assert.NoError(t, DefaultRules().Validate())

	bad := Rules{Overrides: []Override{{Pattern: "ACME", Category: "snacks"}}}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidCategory)
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
overrides:
  - pattern: NETFLIX
    category: personal
food_keywords:
  - SUSHI
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	rules, err := LoadRules(path)
	require.NoError(t, err)

	assert.Equal(t, []Override{{Pattern: "NETFLIX", Category: models.CategoryPersonal}}, rules.Overrides)
	assert.Equal(t, []string{"SUSHI"}, rules.FoodKeywords)
	assert.Equal(t, DefaultRules().Ignore, rules.Ignore)
}

func TestLoadRules_UnknownCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := "overrides:\n  - pattern: NETFLIX\n    category: streaming\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := LoadRules(path)
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestLoadRules_MissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
