package extract

import (
	"context"
	"fmt"

	"github.com/a3tai/taxdoc-binder/internal/model"
	"github.com/ledongthuc/pdf"
)

// TextLayer reads the embedded text layer with ledongthuc/pdf
type TextLayer struct{}

// NewTextLayer creates the text-layer backend
func NewTextLayer() *TextLayer {
	return &TextLayer{}
}

// Name returns the backend name
func (t *TextLayer) Name() string {
	return BackendTextLayer
}

// Extract returns the plain text of page (0-based). Malformed content
// streams that panic inside the decoder are reported as errors.
func (t *TextLayer) Extract(ctx context.Context, doc model.Document, page int) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &BackendError{Backend: BackendTextLayer, Op: "extract", Err: fmt.Errorf("panic decoding page %d: %v", page+1, r)}
		}
	}()

	f, reader, err := pdf.Open(doc.Path)
	if err != nil {
		return "", &BackendError{Backend: BackendTextLayer, Op: "open", Err: fmt.Errorf("failed to open PDF: %w", err)}
	}
	defer f.Close()

	if err := checkPage(BackendTextLayer, page, reader.NumPage()); err != nil {
		return "", err
	}
	p := reader.Page(page + 1)
	if p.V.IsNull() {
		return "", &BackendError{Backend: BackendTextLayer, Op: "page", Err: ErrInvalidPage}
	}

	text, err = p.GetPlainText(nil)
	if err != nil {
		return "", &BackendError{Backend: BackendTextLayer, Op: "extract", Err: fmt.Errorf("failed to extract text: %w", err)}
	}
	return text, nil
}

// PageCount returns the number of pages ledongthuc/pdf sees in a file
func PageCount(path string) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &BackendError{Backend: BackendTextLayer, Op: "open", Err: fmt.Errorf("panic reading %s: %v", path, r)}
		}
	}()
	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0, &BackendError{Backend: BackendTextLayer, Op: "open", Err: fmt.Errorf("failed to open PDF: %w", err)}
	}
	defer f.Close()
	return reader.NumPage(), nil
}
