package handler

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/rocjay1/statement-sorter/internal/services"
)

const maxUploadBytes = 10 << 20

var pdfMagic = []byte("%PDF-")

// HandleUpload accepts a statement PDF with its month, archives it and
// queues it for processing.
func (d *Dependencies) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		slog.Warn("upload attempt with invalid method", "method", r.Method, "path", r.URL.Path)
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		slog.Warn("failed to parse multipart form", "error", err, "max_size_mb", maxUploadBytes>>20)
		WriteError(w, http.StatusBadRequest, "File too large or invalid form")
		return
	}

	month := strings.TrimSpace(r.FormValue("month"))
	if month == "" {
		WriteError(w, http.StatusBadRequest, "Missing month")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		slog.Warn("failed to get file from form", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to get file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("failed to read uploaded file", "filename", header.Filename, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		slog.Warn("rejected non-PDF upload", "filename", header.Filename, "size_bytes", len(data))
		WriteError(w, http.StatusBadRequest, "File is not a PDF")
		return
	}
	slog.Info("received statement upload", "filename", header.Filename, "month", month, "size_bytes", len(data))

	filename := filepath.Base(header.Filename)
	blobName := fmt.Sprintf("uploads/%s-%s", time.Now().UTC().Format("20060102-150405"), filename)

	if err := d.Blob.UploadBytes(r.Context(), services.StatementsContainer, blobName, data); err != nil {
		slog.Error("failed to upload blob", "blob_name", blobName, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to upload blob: "+err.Error())
		return
	}

	msg := services.StatementMessage{BlobName: blobName, Month: month}
	if err := d.Queue.EnqueueMessage(r.Context(), services.StatementsQueue, msg); err != nil {
		slog.Error("failed to enqueue statement", "blob_name", blobName, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to enqueue message: "+err.Error())
		return
	}
	slog.Info("queued statement", "blob_name", blobName, "month", month)

	WriteJSON(w, http.StatusAccepted, map[string]string{
		"status":    "queued",
		"blob_name": blobName,
		"month":     month,
	})
}
