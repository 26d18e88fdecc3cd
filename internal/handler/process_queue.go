package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/rocjay1/statement-sorter/internal/models"
	"github.com/rocjay1/statement-sorter/internal/pdfdoc"
	"github.com/rocjay1/statement-sorter/internal/services"
	"github.com/rocjay1/statement-sorter/internal/statement"
)

// invokeRequest represents the payload from Azure Functions Custom Handler.
type invokeRequest struct {
	Data     map[string]any `json:"Data"`
	Metadata map[string]any `json:"Metadata"`
}

// decodeQueueItem reads the statement message from a queue trigger. The
// host passes JSON messages either as a string or already decoded.
func decodeQueueItem(data map[string]any) (services.StatementMessage, error) {
	var msg services.StatementMessage

	item, ok := data["queueItem"]
	if !ok {
		if item, ok = data["queueitem"]; !ok {
			return msg, errors.New("missing queueItem in Data")
		}
	}

	var raw []byte
	switch v := item.(type) {
	case string:
		raw = []byte(v)
	case map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return msg, fmt.Errorf("invalid queueItem: %w", err)
		}
		raw = b
	default:
		return msg, fmt.Errorf("unexpected queueItem type %T", item)
	}

	if err := json.Unmarshal(raw, &msg); err != nil {
		return msg, fmt.Errorf("invalid queueItem JSON: %w", err)
	}
	if msg.BlobName == "" {
		return msg, errors.New("missing blob_name")
	}
	if msg.Month == "" {
		return msg, errors.New("missing month")
	}
	return msg, nil
}

// isPermanent reports errors that retrying the message cannot fix.
func isPermanent(err error) bool {
	return errors.Is(err, statement.ErrNoTransactions) ||
		errors.Is(err, pdfdoc.ErrUnreadable)
}

// ProcessQueue handles the queue trigger: it downloads the statement,
// sorts it, publishes the totals and emails a summary.
func (d *Dependencies) ProcessQueue(w http.ResponseWriter, r *http.Request) {
	var invokeReq invokeRequest
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("failed to read queue request body", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if err := json.Unmarshal(bodyBytes, &invokeReq); err != nil {
		slog.Error("failed to unmarshal queue request", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to unmarshal request")
		return
	}

	msg, err := decodeQueueItem(invokeReq.Data)
	if err != nil {
		slog.Warn("invalid queue item", "error", err)
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	slog.Info("processing statement", "blob_name", msg.BlobName, "month", msg.Month)

	data, err := d.Blob.DownloadBytes(ctx, services.StatementsContainer, msg.BlobName)
	if err != nil {
		slog.Error("failed to download statement", "blob_name", msg.BlobName, "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to download statement: %v", err))
		return
	}

	result, err := d.sortStatement(ctx, data)
	if err != nil {
		if isPermanent(err) {
			// Consume the message so it doesn't retry forever.
			slog.Warn("statement could not be sorted", "blob_name", msg.BlobName, "error", err)
			d.notifyFailure(ctx, msg.Month, err)
			w.WriteHeader(http.StatusOK)
			return
		}
		slog.Error("failed to process statement", "blob_name", msg.BlobName, "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to process statement: %v", err))
		return
	}

	if err := statement.Publish(ctx, d.Sink, msg.Month, result.Summary); err != nil {
		slog.Error("failed to publish totals", "month", msg.Month, "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to publish totals: %v", err))
		return
	}

	d.notifySummary(ctx, msg.Month, result.Summary)

	slog.Info("statement processing complete",
		"blob_name", msg.BlobName,
		"transactions_count", len(result.Transactions),
		"categories", len(result.Summary.Totals),
	)
	w.WriteHeader(http.StatusOK)
}

func (d *Dependencies) sortStatement(ctx context.Context, data []byte) (*statement.Result, error) {
	doc, err := d.openDocument(data)
	if err != nil {
		return nil, err
	}
	if c, ok := doc.(io.Closer); ok {
		defer c.Close()
	}
	return d.Processor.Process(ctx, doc)
}

// Email failures are logged only; the totals are already published.
func (d *Dependencies) notifySummary(ctx context.Context, month string, summary *models.Summary) {
	if d.Email == nil || len(d.Recipients) == 0 {
		return
	}
	if err := d.Email.SendSummaryEmail(ctx, d.Recipients, month, summary); err != nil {
		slog.Error("failed to send summary email", "month", month, "error", err)
	}
}

func (d *Dependencies) notifyFailure(ctx context.Context, month string, cause error) {
	if d.Email == nil || len(d.Recipients) == 0 {
		return
	}
	if err := d.Email.SendFailureEmail(ctx, d.Recipients, month, []string{cause.Error()}); err != nil {
		slog.Error("failed to send failure email", "month", month, "error", err)
	}
}
