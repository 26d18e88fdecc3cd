package statement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rocjay1/statement-sorter/internal/classifier"
	"github.com/rocjay1/statement-sorter/internal/extract"
	"github.com/rocjay1/statement-sorter/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDocument struct {
	pages []extract.Page
	err   error
}

func (s stubDocument) Pages() ([]extract.Page, error) {
	return s.pages, s.err
}

type MockSink struct {
	ValidateFunc   func(ctx context.Context) error
	AppendRowsFunc func(ctx context.Context, rows []models.Row) error
}

func (m *MockSink) Validate(ctx context.Context) error {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx)
	}
	return nil
}

func (m *MockSink) AppendRows(ctx context.Context, rows []models.Row) error {
	if m.AppendRowsFunc != nil {
		return m.AppendRowsFunc(ctx, rows)
	}
	return nil
}

func newTestProcessor() *Processor {
	p := NewProcessor(classifier.DefaultRules())
	p.Extractor.Now = func() time.Time { return time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC) }
	return p
}

func TestProcess(t *testing.T) {
	doc := stubDocument{pages: []extract.Page{{
		Number: 1,
		Text: "DEC 02 DEC 03 MCDONALD'S #123 8.50\n" +
			"DEC 06 DEC 07 MCDONALD'S #123 9.00\n" +
			"DEC 04 DEC 05 PAYMENT THANK YOU 500.00",
	}}}

	result, err := newTestProcessor().Process(context.Background(), doc)
	require.NoError(t, err)

	require.Len(t, result.Transactions, 3)
	require.Len(t, result.Verdicts, 3)
	assert.Equal(t, models.Assign(models.CategorySchoolMeals), result.Verdicts[0])
	assert.Equal(t, models.Assign(models.CategoryFood), result.Verdicts[1])
	assert.Equal(t, models.Ignore, result.Verdicts[2])

	s := result.Summary
	assert.Equal(t, 1, s.Ignored)
	assert.True(t, s.Totals[models.CategorySchoolMeals].Equal(decimal.RequireFromString("8.50")))
	assert.True(t, s.Totals[models.CategoryFood].Equal(decimal.RequireFromString("9.00")))
	assert.True(t, s.StatementTotal.Equal(decimal.RequireFromString("517.50")))
}

func TestProcess_NoTransactions(t *testing.T) {
	doc := stubDocument{pages: []extract.Page{{Number: 1, Text: "Statement of account\nNothing to see"}}}

	_, err := newTestProcessor().Process(context.Background(), doc)
	assert.ErrorIs(t, err, ErrNoTransactions)
}

func TestProcess_DocumentError(t *testing.T) {
	readErr := errors.New("corrupt xref table")

	_, err := newTestProcessor().Process(context.Background(), stubDocument{err: readErr})
	assert.ErrorIs(t, err, readErr)
}

func TestProcess_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestProcessor().Process(ctx, stubDocument{})
	assert.ErrorIs(t, err, context.Canceled)
}

func testSummary() *models.Summary {
	return &models.Summary{
		Totals: map[models.Category]decimal.Decimal{
			models.CategoryOther: decimal.RequireFromString("12.00"),
			models.CategoryFood:  decimal.RequireFromString("9.00"),
		},
	}
}

func TestPublish(t *testing.T) {
	var got []models.Row
	sink := &MockSink{
		AppendRowsFunc: func(ctx context.Context, rows []models.Row) error {
			got = rows
			return nil
		},
	}

	err := Publish(context.Background(), sink, "December 2025", testSummary())
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, models.CategoryFood, got[0].Category)
	assert.Equal(t, models.CategoryOther, got[1].Category)
	assert.Equal(t, "December 2025", got[0].Month)
}

func TestPublish_ValidationFailureWritesNothing(t *testing.T) {
	appended := false
	sink := &MockSink{
		ValidateFunc: func(ctx context.Context) error { return errors.New("403 forbidden") },
		AppendRowsFunc: func(ctx context.Context, rows []models.Row) error {
			appended = true
			return nil
		},
	}

	err := Publish(context.Background(), sink, "December 2025", testSummary())

	assert.ErrorIs(t, err, ErrSinkUnavailable)
	assert.False(t, appended)
}

func TestPublish_AppendError(t *testing.T) {
	sink := &MockSink{
		AppendRowsFunc: func(ctx context.Context, rows []models.Row) error { return errors.New("quota exceeded") },
	}

	err := Publish(context.Background(), sink, "December 2025", testSummary())
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestPublish_RequiresMonth(t *testing.T) {
	err := Publish(context.Background(), &MockSink{}, "", testSummary())
	assert.Error(t, err)
}
