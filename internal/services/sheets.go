package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rocjay1/statement-sorter/internal/models"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsService appends category totals to the first sheet of a Google
// spreadsheet using a service account.
type SheetsService struct {
	srv     *sheets.Service
	sheetID string
}

// NewSheetsService authenticates with the service-account key in
// credentialsFile.
func NewSheetsService(ctx context.Context, credentialsFile, sheetID string) (*SheetsService, error) {
	if sheetID == "" {
		return nil, fmt.Errorf("sheet id is required")
	}

	srv, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	return &SheetsService{srv: srv, sheetID: sheetID}, nil
}

// firstSheet returns the title of the spreadsheet's first tab.
func (s *SheetsService) firstSheet(ctx context.Context) (string, error) {
	ss, err := s.srv.Spreadsheets.Get(s.sheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to open spreadsheet %s: %w", s.sheetID, err)
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return "", fmt.Errorf("spreadsheet %s has no sheets", s.sheetID)
	}
	return ss.Sheets[0].Properties.Title, nil
}

// Validate reads the first row, which fails unless the sheet is shared
// with the service account.
func (s *SheetsService) Validate(ctx context.Context) error {
	title, err := s.firstSheet(ctx)
	if err != nil {
		return err
	}
	if _, err := s.srv.Spreadsheets.Values.Get(s.sheetID, a1Range(title, "1:1")).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to read first row of %q: %w", title, err)
	}
	return nil
}

// AppendRows appends all rows in a single request.
func (s *SheetsService) AppendRows(ctx context.Context, rows []models.Row) error {
	title, err := s.firstSheet(ctx)
	if err != nil {
		return err
	}

	vr := &sheets.ValueRange{Values: sheetValues(rows)}
	_, err = s.srv.Spreadsheets.Values.Append(s.sheetID, a1Range(title, "A1"), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append rows to %q: %w", title, err)
	}

	slog.Info("appended rows to sheet", "sheet_id", s.sheetID, "sheet", title, "rows", len(rows))
	return nil
}

// a1Range quotes the sheet title; apostrophes inside it are doubled.
func a1Range(sheet, cells string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(sheet, "'", "''"), cells)
}

// sheetValues lays rows out as month, category, amount. Amounts are sent
// as numbers so the sheet can sum them.
func sheetValues(rows []models.Row) [][]any {
	values := make([][]any, len(rows))
	for i, r := range rows {
		values[i] = []any{r.Month, string(r.Category), r.Amount.Round(2).InexactFloat64()}
	}
	return values
}
