package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rocjay1/statement-sorter/internal/models"
	"github.com/xuri/excelize/v2"
)

const defaultWorkbookSheet = "Totals"

var workbookHeader = []any{"Month", "Category", "Amount"}

// WorkbookService appends category totals to a local .xlsx file.
type WorkbookService struct {
	path  string
	sheet string
}

// NewWorkbookService writes to sheet in the workbook at path. Both are
// created on first append if missing.
func NewWorkbookService(path, sheet string) *WorkbookService {
	if sheet == "" {
		sheet = defaultWorkbookSheet
	}
	return &WorkbookService{path: path, sheet: sheet}
}

// Validate checks that an existing workbook can be opened, or that its
// directory exists when the workbook is still to be created.
func (s *WorkbookService) Validate(ctx context.Context) error {
	if s.path == "" {
		return fmt.Errorf("workbook path is required")
	}
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		dir := filepath.Dir(s.path)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return fmt.Errorf("workbook directory %s is not available", dir)
		}
		return nil
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to open workbook %s: %w", s.path, err)
	}
	return f.Close()
}

func (s *WorkbookService) open() (*excelize.File, error) {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		f := excelize.NewFile()
		if err := f.SetSheetName(f.GetSheetName(0), s.sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to name sheet: %w", err)
		}
		return f, nil
	}

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", s.path, err)
	}
	idx, err := f.GetSheetIndex(s.sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to look up sheet %s: %w", s.sheet, err)
	}
	if idx == -1 {
		if _, err := f.NewSheet(s.sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", s.sheet, err)
		}
	}
	return f, nil
}

// AppendRows writes rows after the last used row of the sheet, adding a
// header to an empty sheet.
func (s *WorkbookService) AppendRows(ctx context.Context, rows []models.Row) error {
	f, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	existing, err := f.GetRows(s.sheet)
	if err != nil {
		return fmt.Errorf("failed to read sheet %s: %w", s.sheet, err)
	}

	next := len(existing) + 1
	if len(existing) == 0 {
		if err := s.setRow(f, next, workbookHeader); err != nil {
			return err
		}
		next++
	}

	for _, r := range rows {
		amount := r.Amount.Round(2).InexactFloat64()
		if err := s.setRow(f, next, []any{r.Month, string(r.Category), amount}); err != nil {
			return err
		}
		next++
	}

	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", s.path, err)
	}
	slog.Info("appended rows to workbook", "path", s.path, "sheet", s.sheet, "rows", len(rows))
	return nil
}

func (s *WorkbookService) setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(s.sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
