package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/rocjay1/statement-sorter/internal/models"
)

const (
	defaultTotalsTable = "categorytotals"
	// Entity group transactions accept at most 100 operations.
	ledgerBatchSize = 100
)

// LedgerService stores monthly category totals in Azure Table Storage.
// Each month is a partition and each category a row, so re-running a
// statement replaces its totals instead of duplicating them.
type LedgerService struct {
	serviceClient *aztables.ServiceClient
	table         string
}

// NewLedgerService creates a LedgerService from TABLE_SERVICE_URL and
// TOTALS_TABLE.
func NewLedgerService() (*LedgerService, error) {
	return NewLedgerServiceFor(envOr("TABLE_SERVICE_URL", ""), envOr("TOTALS_TABLE", defaultTotalsTable))
}

// NewLedgerServiceFor creates a LedgerService for an explicit endpoint.
func NewLedgerServiceFor(tableURL, table string) (*LedgerService, error) {
	if tableURL == "" {
		return nil, fmt.Errorf("TABLE_SERVICE_URL environment variable is required")
	}
	if table == "" {
		table = defaultTotalsTable
	}

	var client *aztables.ServiceClient
	if isLocal(tableURL) {
		slog.Info("using Azurite credentials for ledger service")
		name, key := getAzuriteCredentials()
		cred, err := aztables.NewSharedKeyCredential(name, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = aztables.NewServiceClientWithSharedKey(tableURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client with shared key: %w", err)
		}
	} else {
		cred, err := newDefaultAzureCredential()
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
		client, err = aztables.NewServiceClient(tableURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client: %w", err)
		}
	}

	slog.Info("ledger service initialized", "table_url", tableURL, "table", table)
	return &LedgerService{serviceClient: client, table: table}, nil
}

// Validate makes sure the totals table exists and is reachable.
func (s *LedgerService) Validate(ctx context.Context) error {
	_, err := s.serviceClient.CreateTable(ctx, s.table, nil)
	if err != nil {
		var azErr *azcore.ResponseError
		if errors.As(err, &azErr) && azErr.ErrorCode == "TableAlreadyExists" {
			return nil
		}
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}
	return nil
}

// AppendRows upserts one entity per row.
func (s *LedgerService) AppendRows(ctx context.Context, rows []models.Row) error {
	batches, err := ledgerBatches(rows, time.Now().UTC())
	if err != nil {
		return err
	}

	client := s.serviceClient.NewClient(s.table)
	for _, batch := range batches {
		if _, err := client.SubmitTransaction(ctx, batch, nil); err != nil {
			return fmt.Errorf("failed to submit ledger batch: %w", err)
		}
	}

	slog.Info("saved category totals", "table", s.table, "rows", len(rows))
	return nil
}

// ledgerKey strips the characters Table Storage forbids in keys.
func ledgerKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '#', '?':
			return -1
		}
		if r < 0x20 || (r >= 0x7f && r < 0xa0) {
			return -1
		}
		return r
	}, s)
}

// ledgerBatches groups rows into transactions. A transaction may only touch
// one partition, so rows are split by month first.
func ledgerBatches(rows []models.Row, now time.Time) ([][]aztables.TransactionAction, error) {
	var (
		order       []string
		byPartition = make(map[string][]aztables.TransactionAction)
	)

	for _, r := range rows {
		pk := ledgerKey(r.Month)
		if pk == "" {
			return nil, fmt.Errorf("row for %q has no usable month", r.Category)
		}

		entity := map[string]any{
			"PartitionKey": pk,
			"RowKey":       ledgerKey(string(r.Category)),
			"Month":        r.Month,
			"Category":     string(r.Category),
			"Amount":       r.Amount.InexactFloat64(),
			"AmountText":   r.Amount.StringFixed(2),
			"UpdatedAt":    now.Format(time.RFC3339),
		}
		entityJSON, err := json.Marshal(entity)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal ledger entity: %w", err)
		}

		if _, seen := byPartition[pk]; !seen {
			order = append(order, pk)
		}
		byPartition[pk] = append(byPartition[pk], aztables.TransactionAction{
			ActionType: aztables.TransactionTypeInsertReplace,
			Entity:     entityJSON,
		})
	}

	var batches [][]aztables.TransactionAction
	for _, pk := range order {
		actions := byPartition[pk]
		for i := 0; i < len(actions); i += ledgerBatchSize {
			end := min(i+ledgerBatchSize, len(actions))
			batches = append(batches, actions[i:end])
		}
	}
	return batches, nil
}
