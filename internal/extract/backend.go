// Package extract provides the text backends the reconciler chooses between:
// the PDF text layer, layout-aware decoding and OCR of a rendered page.
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/a3tai/taxdoc-binder/internal/model"
)

// Backend names, also recorded as model.Variant.Backend
const (
	BackendTextLayer = "text"
	BackendLayout    = "layout"
	BackendOCR       = "ocr"
)

// Backend extracts the text of one page of a document
type Backend interface {
	Name() string
	Extract(ctx context.Context, doc model.Document, page int) (string, error)
}

// Renderer rasterizes one page to PNG bytes
type Renderer interface {
	Render(ctx context.Context, doc model.Document, page int) ([]byte, error)
}

// Recognizer runs OCR over a PNG image
type Recognizer interface {
	Recognize(ctx context.Context, png []byte) (string, error)
}

// BackendError reports a failure inside a backend
type BackendError struct {
	Backend string
	Op      string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend error in %s: %v", e.Backend, e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Common errors
var (
	ErrPageOutOfRange = errors.New("page index out of range")
	ErrInvalidPage    = errors.New("invalid page object")
)

// checkPage validates a 0-based page index against a page count
func checkPage(backend string, page, count int) error {
	if page < 0 || page >= count {
		return &BackendError{
			Backend: backend,
			Op:      "page",
			Err:     fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, page+1, count),
		}
	}
	return nil
}
