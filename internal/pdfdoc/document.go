// Package pdfdoc reads statement PDFs into pages of text and table rows.
package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rocjay1/statement-sorter/internal/extract"
)

// ErrUnreadable is returned when the file is not a PDF the reader understands.
var ErrUnreadable = errors.New("unreadable pdf")

// Document is a PDF opened for extraction. It implements extract.Document.
type Document struct {
	reader *pdf.Reader
	closer io.Closer
}

// Open opens the PDF at path. The caller must Close the document.
func Open(path string) (*Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open statement: %w", err)
	}

	f, r, err := openFile(path)
	if err != nil {
		return nil, err
	}
	return &Document{reader: r, closer: f}, nil
}

// FromBytes reads a PDF held in memory, such as a downloaded blob.
func FromBytes(data []byte) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("%w: %v", ErrUnreadable, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return &Document{reader: r}, nil
}

func openFile(path string) (f *os.File, r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if f != nil {
				f.Close()
			}
			f, r, err = nil, nil, fmt.Errorf("%w: %v", ErrUnreadable, rec)
		}
	}()

	f, r, err = pdf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return f, r, nil
}

// Close releases the underlying file, if any.
func (d *Document) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}

// NumPages returns the page count.
func (d *Document) NumPages() int {
	return d.reader.NumPage()
}

// Pages reads every page. A page whose content cannot be decoded is
// returned empty rather than failing the whole document.
func (d *Document) Pages() ([]extract.Page, error) {
	n := d.reader.NumPage()
	if n < 1 {
		return nil, fmt.Errorf("%w: no pages", ErrUnreadable)
	}

	pages := make([]extract.Page, 0, n)
	for i := 1; i <= n; i++ {
		pages = append(pages, d.readPage(i))
	}
	return pages, nil
}

func (d *Document) readPage(num int) (page extract.Page) {
	page.Number = num
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("failed to decode page", "page", num, "error", r)
			page = extract.Page{Number: num}
		}
	}()

	p := d.reader.Page(num)
	if p.V.IsNull() {
		return page
	}

	var lines [][]string
	for _, line := range linesFromGlyphs(p.Content().Text) {
		if cs := cells(line); len(cs) > 0 {
			lines = append(lines, cs)
		}
	}
	page.Tables = tablesFromLines(lines)
	page.Text = textFromLines(lines)
	if strings.TrimSpace(page.Text) == "" {
		page.Text = plainText(p, num)
	}
	return page
}

// plainText is the fallback when the page yields no positioned glyphs. It
// keeps the content stream order, which may merge visual lines.
func plainText(p pdf.Page, num int) string {
	text, err := p.GetPlainText(nil)
	if err != nil {
		slog.Warn("failed to read page text", "page", num, "error", err)
		return ""
	}
	return text
}
