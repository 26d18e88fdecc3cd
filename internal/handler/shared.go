package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rocjay1/statement-sorter/internal/extract"
	"github.com/rocjay1/statement-sorter/internal/pdfdoc"
	"github.com/rocjay1/statement-sorter/internal/statement"
)

// Dependencies holds the services required by the handlers.
type Dependencies struct {
	Blob      BlobClient
	Queue     QueueClient
	Email     EmailClient
	Sink      statement.Sink
	Processor StatementProcessor
	// Recipients receive the summary email after each statement.
	Recipients []string
	// OpenDocument parses downloaded statement bytes. Defaults to the PDF reader.
	OpenDocument func(data []byte) (extract.Document, error)
}

func (d *Dependencies) openDocument(data []byte) (extract.Document, error) {
	if d.OpenDocument != nil {
		return d.OpenDocument(data)
	}
	doc, err := pdfdoc.FromBytes(data)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseRecipients splits a comma separated address list.
func ParseRecipients(list string) []string {
	var out []string
	for _, r := range strings.Split(list, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// WriteError writes an error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}
