package extract

import (
	"context"
	"fmt"

	"github.com/a3tai/taxdoc-binder/internal/model"
	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes text with the Tesseract engine
type Tesseract struct {
	Language string
}

// NewTesseract creates a recognizer for the given language ("eng" when empty)
func NewTesseract(language string) *Tesseract {
	if language == "" {
		language = "eng"
	}
	return &Tesseract{Language: language}
}

// Recognize runs OCR over png treating the page as one uniform text block
func (t *Tesseract) Recognize(ctx context.Context, png []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.Language); err != nil {
		return "", &BackendError{Backend: BackendOCR, Op: "language", Err: err}
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", &BackendError{Backend: BackendOCR, Op: "psm", Err: err}
	}
	if err := client.SetImageFromBytes(png); err != nil {
		return "", &BackendError{Backend: BackendOCR, Op: "image", Err: err}
	}
	text, err := client.Text()
	if err != nil {
		return "", &BackendError{Backend: BackendOCR, Op: "recognize", Err: err}
	}
	return text, nil
}

// OCR renders a page and recognizes the image
type OCR struct {
	renderer   Renderer
	recognizer Recognizer
}

// NewOCR combines a renderer and a recognizer into a backend
func NewOCR(renderer Renderer, recognizer Recognizer) *OCR {
	return &OCR{renderer: renderer, recognizer: recognizer}
}

// Name returns the backend name
func (o *OCR) Name() string {
	return BackendOCR
}

// Extract renders page (0-based) and returns the recognized text
func (o *OCR) Extract(ctx context.Context, doc model.Document, page int) (string, error) {
	png, err := o.renderer.Render(ctx, doc, page)
	if err != nil {
		return "", fmt.Errorf("failed to render page %d: %w", page+1, err)
	}
	return o.recognizer.Recognize(ctx, png)
}
