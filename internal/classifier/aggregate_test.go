package classifier

import (
	"testing"
	"time"

	"github.com/rocjay1/statement-sorter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTx(t *testing.T, merchant string, date time.Time, amount string) models.Transaction {
	t.Helper()
	tx, ok := models.NewTransaction(merchant, date, amt(amount))
	require.True(t, ok)
	return tx
}

func TestAggregate(t *testing.T) {
	c := New(DefaultRules())
	txs := []models.Transaction{
		mustTx(t, "PAYMENT - THANK YOU", monday, "500.00"),
		mustTx(t, "MCDONALD'S #123", monday, "8.50"),
		mustTx(t, "MCDONALD'S #123", saturday, "9.00"),
		mustTx(t, "WALMART SUPERCENTER #456", monday, "12.00"),
		mustTx(t, "BEST BUY #12", monday, "100.00"),
		mustTx(t, "ANNUAL FEE", monday, "120.00"),
	}

	summary, err := c.Aggregate(txs)
	require.NoError(t, err)

	assert.Len(t, summary.Totals, 4)
	assert.True(t, summary.Totals[models.CategorySchoolMeals].Equal(amt("8.50")))
	assert.True(t, summary.Totals[models.CategoryFood].Equal(amt("9.00")))
	assert.True(t, summary.Totals[models.CategoryGroceries].Equal(amt("12.00")))
	assert.True(t, summary.Totals[models.CategorySchool].Equal(amt("100.00")))
	assert.NotContains(t, summary.Totals, models.CategoryOther)

	assert.Equal(t, 2, summary.Ignored)
	assert.True(t, summary.IgnoredTotal.Equal(amt("620.00")))
	assert.True(t, summary.StatementTotal.Equal(amt("749.50")))

	// Classified total is everything found minus what was ignored.
	assert.True(t, summary.ClassifiedTotal().Equal(summary.StatementTotal.Sub(summary.IgnoredTotal)))
	assert.False(t, summary.Reconciles())
}

func TestAggregate_Empty(t *testing.T) {
	summary, err := New(DefaultRules()).Aggregate(nil)
	require.NoError(t, err)

	assert.Empty(t, summary.Totals)
	assert.Zero(t, summary.Ignored)
	assert.True(t, summary.Reconciles())
}

func TestSummarize_InvalidCategoryIsFatal(t *testing.T) {
	txs := []models.Transaction{
		mustTx(t, "CORNER SHOP", monday, "5.00"),
		mustTx(t, "SNACK BAR", monday, "3.00"),
	}
	verdicts := []models.Verdict{
		models.Assign(models.CategoryGroceries),
		models.Assign("snacks"),
	}

	summary, err := Summarize(txs, verdicts)

	assert.Nil(t, summary)
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestSummarize_LengthMismatch(t *testing.T) {
	_, err := Summarize([]models.Transaction{mustTx(t, "CORNER SHOP", monday, "5.00")}, nil)
	assert.Error(t, err)
}
