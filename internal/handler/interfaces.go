package handler

import (
	"context"

	"github.com/rocjay1/statement-sorter/internal/extract"
	"github.com/rocjay1/statement-sorter/internal/models"
	"github.com/rocjay1/statement-sorter/internal/statement"
)

// BlobClient defines the blob storage operations used by handlers.
type BlobClient interface {
	UploadBytes(ctx context.Context, containerName, blobName string, data []byte) error
	DownloadBytes(ctx context.Context, containerName, blobName string) ([]byte, error)
}

// QueueClient defines the queue operations used by handlers.
type QueueClient interface {
	EnqueueMessage(ctx context.Context, queueName string, message any) error
}

// EmailClient defines the email operations used by handlers.
type EmailClient interface {
	SendSummaryEmail(ctx context.Context, recipients []string, month string, summary *models.Summary) error
	SendFailureEmail(ctx context.Context, recipients []string, month string, reasons []string) error
}

// StatementProcessor runs the extraction and classification pipeline.
type StatementProcessor interface {
	Process(ctx context.Context, doc extract.Document) (*statement.Result, error)
}
