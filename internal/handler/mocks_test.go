package handler

import (
	"context"

	"github.com/rocjay1/statement-sorter/internal/extract"
	"github.com/rocjay1/statement-sorter/internal/models"
	"github.com/rocjay1/statement-sorter/internal/statement"
)

// MockBlobClient is a mock implementation of BlobClient
type MockBlobClient struct {
	UploadBytesFunc   func(ctx context.Context, containerName, blobName string, data []byte) error
	DownloadBytesFunc func(ctx context.Context, containerName, blobName string) ([]byte, error)
}

func (m *MockBlobClient) UploadBytes(ctx context.Context, containerName, blobName string, data []byte) error {
	if m.UploadBytesFunc != nil {
		return m.UploadBytesFunc(ctx, containerName, blobName, data)
	}
	return nil
}

func (m *MockBlobClient) DownloadBytes(ctx context.Context, containerName, blobName string) ([]byte, error) {
	if m.DownloadBytesFunc != nil {
		return m.DownloadBytesFunc(ctx, containerName, blobName)
	}
	return nil, nil
}

// MockQueueClient is a mock implementation of QueueClient
type MockQueueClient struct {
	EnqueueMessageFunc func(ctx context.Context, queueName string, message any) error
}

func (m *MockQueueClient) EnqueueMessage(ctx context.Context, queueName string, message any) error {
	if m.EnqueueMessageFunc != nil {
		return m.EnqueueMessageFunc(ctx, queueName, message)
	}
	return nil
}

// MockEmailClient is a mock implementation of EmailClient
type MockEmailClient struct {
	SendSummaryEmailFunc func(ctx context.Context, recipients []string, month string, summary *models.Summary) error
	SendFailureEmailFunc func(ctx context.Context, recipients []string, month string, reasons []string) error
}

func (m *MockEmailClient) SendSummaryEmail(ctx context.Context, recipients []string, month string, summary *models.Summary) error {
	if m.SendSummaryEmailFunc != nil {
		return m.SendSummaryEmailFunc(ctx, recipients, month, summary)
	}
	return nil
}

func (m *MockEmailClient) SendFailureEmail(ctx context.Context, recipients []string, month string, reasons []string) error {
	if m.SendFailureEmailFunc != nil {
		return m.SendFailureEmailFunc(ctx, recipients, month, reasons)
	}
	return nil
}

// MockSink is a mock implementation of statement.Sink
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

// MockProcessor is a mock implementation of StatementProcessor
type MockProcessor struct {
	ProcessFunc func(ctx context.Context, doc extract.Document) (*statement.Result, error)
}

func (m *MockProcessor) Process(ctx context.Context, doc extract.Document) (*statement.Result, error) {
	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, doc)
	}
	return &statement.Result{Summary: &models.Summary{}}, nil
}

type stubDocument struct {
	pages []extract.Page
}

func (s stubDocument) Pages() ([]extract.Page, error) {
	return s.pages, nil
}
