package extract

import (
	"context"
	"fmt"

	"github.com/a3tai/taxdoc-binder/internal/model"
	"github.com/gen2brain/go-fitz"
)

// DefaultDPI is the render resolution used for OCR
const DefaultDPI = 300

// Layout reads page text through MuPDF, which keeps the reading order of
// multi-column forms better than the raw text layer.
type Layout struct{}

// NewLayout creates the layout-aware backend
func NewLayout() *Layout {
	return &Layout{}
}

// Name returns the backend name
func (l *Layout) Name() string {
	return BackendLayout
}

// Extract returns the text of page (0-based)
func (l *Layout) Extract(ctx context.Context, doc model.Document, page int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	d, err := fitz.New(doc.Path)
	if err != nil {
		return "", &BackendError{Backend: BackendLayout, Op: "open", Err: fmt.Errorf("failed to open PDF: %w", err)}
	}
	defer d.Close()

	if err := checkPage(BackendLayout, page, d.NumPage()); err != nil {
		return "", err
	}
	text, err := d.Text(page)
	if err != nil {
		return "", &BackendError{Backend: BackendLayout, Op: "extract", Err: err}
	}
	return text, nil
}

// FitzRenderer rasterizes pages with MuPDF
type FitzRenderer struct {
	DPI float64
}

// NewFitzRenderer creates a renderer; a non-positive dpi selects DefaultDPI
func NewFitzRenderer(dpi int) *FitzRenderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &FitzRenderer{DPI: float64(dpi)}
}

// Render returns page (0-based) as PNG bytes
func (r *FitzRenderer) Render(ctx context.Context, doc model.Document, page int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, err := fitz.New(doc.Path)
	if err != nil {
		return nil, &BackendError{Backend: BackendOCR, Op: "render", Err: fmt.Errorf("failed to open PDF: %w", err)}
	}
	defer d.Close()

	if err := checkPage(BackendOCR, page, d.NumPage()); err != nil {
		return nil, err
	}
	png, err := d.ImagePNG(page, r.DPI)
	if err != nil {
		return nil, &BackendError{Backend: BackendOCR, Op: "render", Err: err}
	}
	return png, nil
}
