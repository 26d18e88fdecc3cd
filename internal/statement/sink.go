package statement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocjay1/statement-sorter/internal/models"
)

// ErrSinkUnavailable is returned when the pre-flight check of a sink fails.
var ErrSinkUnavailable = errors.New("sink unavailable")

// Sink is a destination for category totals.
type Sink interface {
	// Validate checks that the destination is reachable and writable.
	Validate(ctx context.Context) error
	AppendRows(ctx context.Context, rows []models.Row) error
}

// Publish writes one row per category to sink, after checking that the
// sink is reachable. Nothing is written when the check fails.
func Publish(ctx context.Context, sink Sink, month string, summary *models.Summary) error {
	if month == "" {
		return errors.New("month is required")
	}
	if err := sink.Validate(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrSinkUnavailable, err)
	}

	rows := summary.Rows(month)
	if len(rows) == 0 {
		slog.Info("no category totals to publish", "month", month)
		return nil
	}
	if err := sink.AppendRows(ctx, rows); err != nil {
		return fmt.Errorf("failed to append rows: %w", err)
	}

	slog.Info("published category totals", "month", month, "rows", len(rows))
	return nil
}
