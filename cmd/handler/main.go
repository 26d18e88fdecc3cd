package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rocjay1/statement-sorter/internal/classifier"
	"github.com/rocjay1/statement-sorter/internal/config"
	"github.com/rocjay1/statement-sorter/internal/handler"
	"github.com/rocjay1/statement-sorter/internal/services"
	"github.com/rocjay1/statement-sorter/internal/statement"
)

// maxLoggedBody keeps uploaded PDFs out of the request log.
const maxLoggedBody = 512

func main() {
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	rules := classifier.DefaultRules()
	if cfg.RulesFile != "" {
		var err error
		if rules, err = classifier.LoadRules(cfg.RulesFile); err != nil {
			slog.Error("Failed to load rules", "rules_file", cfg.RulesFile, "error", err)
			os.Exit(1)
		}
	}

	sink, err := newSink(context.Background(), cfg)
	if err != nil {
		slog.Error("Failed to init sink", "sink", cfg.Sink, "error", err)
		os.Exit(1)
	}

	blobService, err := services.NewBlobService()
	if err != nil {
		slog.Error("Failed to init BlobService", "error", err)
		os.Exit(1)
	}

	queueService, err := services.NewQueueService()
	if err != nil {
		slog.Error("Failed to init QueueService", "error", err)
		os.Exit(1)
	}

	deps := &handler.Dependencies{
		Blob:       blobService,
		Queue:      queueService,
		Sink:       sink,
		Processor:  statement.NewProcessor(rules),
		Recipients: handler.ParseRecipients(os.Getenv("SUMMARY_RECIPIENTS")),
	}

	emailService, err := services.NewEmailService(nil)
	if err != nil {
		slog.Warn("Failed to init EmailService (continuing without email)", "error", err)
	} else {
		deps.Email = emailService
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload", deps.HandleUpload)
	mux.HandleFunc("/HttpTrigger", deps.HandleHttpTrigger(mux))
	mux.HandleFunc("/ProcessQueue", deps.ProcessQueue)
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		headers := make(map[string]string)
		for k, v := range r.Header {
			headers[k] = strings.Join(v, ", ")
		}
		slog.Warn("Unmatched request", "method", r.Method, "path", r.URL.Path, "headers", headers)
		http.NotFound(w, r)
	})

	port := os.Getenv("FUNCTIONS_CUSTOMHANDLER_PORT")
	if port == "" {
		port = "8080"
	}

	slog.Info("Starting server", "port", port, "sink", cfg.Sink)
	if err := http.ListenAndServe(":"+port, loggingMiddleware(mux)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func newSink(ctx context.Context, cfg *config.Config) (statement.Sink, error) {
	switch cfg.Sink {
	case config.SinkTable:
		return services.NewLedgerServiceFor(cfg.Table.ServiceURL, cfg.Table.Name)
	case config.SinkSheets:
		return services.NewSheetsService(ctx, cfg.Google.CredentialsFile, cfg.SheetID)
	case config.SinkWorkbook:
		return services.NewWorkbookService(cfg.Workbook.Path, cfg.Workbook.Sheet), nil
	}
	return nil, fmt.Errorf("unknown sink %q", cfg.Sink)
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		var preview []byte
		if r.Body != nil && !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			body, _ := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
			preview = body[:min(len(body), maxLoggedBody)]
		}

		slog.Info("incoming request",
			"method", r.Method,
			"path", r.URL.Path,
			"content_type", r.Header.Get("Content-Type"),
			"content_length", r.ContentLength,
			"body_preview", string(preview),
		)

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		slog.Info("request completed", "method", r.Method, "path", r.URL.Path, "status", rw.status, "duration", time.Since(start))
	})
}
