// Package ingest discovers input files, validates them and turns each one
// into a model.Document ready for extraction.
package ingest

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/a3tai/taxdoc-binder/internal/dedupe"
	"github.com/a3tai/taxdoc-binder/internal/extract"
	"github.com/a3tai/taxdoc-binder/internal/model"
	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// DefaultMaxFileSize bounds a single input file
const DefaultMaxFileSize = 100 * 1024 * 1024

// Extensions lists the accepted input extensions
var Extensions = []string{".pdf", ".png", ".jpg", ".jpeg", ".tif", ".tiff"}

// ErrNotDirectory is returned when the input path is not a directory
var ErrNotDirectory = errors.New("input path is not a directory")

// InputError explains why one input file was excluded from the batch
type InputError struct {
	Path   string
	Reason string
	Err    error
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("skipping %s: %s: %v", filepath.Base(e.Path), e.Reason, e.Err)
	}
	return fmt.Sprintf("skipping %s: %s", filepath.Base(e.Path), e.Reason)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// Supported reports whether name has an accepted extension
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

func isImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext != ".pdf" && Supported(name)
}

// ResolveOutput moves an output path that lies inside the input directory
// next to that directory. The second result reports whether it moved.
func ResolveOutput(inputDir, output string) (string, bool, error) {
	absIn, err := filepath.Abs(inputDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve input directory: %w", err)
	}
	absOut, err := filepath.Abs(output)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve output path: %w", err)
	}
	if strings.HasPrefix(absOut, absIn+string(filepath.Separator)) {
		return filepath.Join(filepath.Dir(absIn), filepath.Base(absOut)), true, nil
	}
	return absOut, false, nil
}

// Scanner lists and loads the documents of an input directory
type Scanner struct {
	MaxFileSize int64
	WorkDir     string
	logger      *slog.Logger
}

// NewScanner creates a scanner. Each run's converted images are written to
// a fresh Workspace under workDir, or under os.TempDir when workDir is empty.
func NewScanner(maxFileSize int64, workDir string, logger *slog.Logger) *Scanner {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{MaxFileSize: maxFileSize, WorkDir: workDir, logger: logger}
}

// Scan returns the supported files in dir sorted by name, excluding output
func (s *Scanner) Scan(dir, output string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	outName := ""
	if output != "" {
		outName = filepath.Base(output)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !Supported(e.Name()) || e.Name() == outName {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Load validates every file and returns the documents that can be processed.
// Images are converted into ws, which must outlive the documents.
// Rejected files are logged and returned as InputErrors.
func (s *Scanner) Load(ws *Workspace, files []string) ([]model.Document, []error) {
	var (
		docs []model.Document
		errs []error
	)
	for _, f := range files {
		doc, err := s.load(ws, f)
		if err != nil {
			s.logger.Warn("input excluded", "doc", filepath.Base(f), "error", err)
			errs = append(errs, err)
			continue
		}
		docs = append(docs, doc)
	}
	s.logger.Info("inputs loaded", "found", len(files), "accepted", len(docs))
	return docs, errs
}

func (s *Scanner) load(ws *Workspace, path string) (model.Document, error) {
	if !Supported(path) {
		return model.Document{}, &InputError{Path: path, Reason: "unsupported extension"}
	}
	info, err := os.Stat(path)
	if err != nil {
		return model.Document{}, &InputError{Path: path, Reason: "unreadable", Err: err}
	}
	if info.Size() == 0 {
		return model.Document{}, &InputError{Path: path, Reason: "empty file"}
	}
	if info.Size() > s.MaxFileSize {
		return model.Document{}, &InputError{
			Path:   path,
			Reason: fmt.Sprintf("file size %d exceeds limit %d", info.Size(), s.MaxFileSize),
		}
	}

	hash, size, err := dedupe.HashFile(path)
	if err != nil {
		return model.Document{}, &InputError{Path: path, Reason: "unreadable", Err: err}
	}
	doc := model.Document{Path: path, Kind: model.KindPDF, Hash: hash, Size: size}

	if isImage(path) {
		converted, err := s.convertImage(ws, path)
		if err != nil {
			return model.Document{}, &InputError{Path: path, Reason: "image conversion failed", Err: err}
		}
		doc.Source = path
		doc.Path = converted
		doc.Kind = model.KindImage
	}

	n, err := PageCount(doc.Path)
	if err != nil {
		return model.Document{}, &InputError{Path: path, Reason: "unreadable PDF", Err: err}
	}
	if n == 0 {
		return model.Document{}, &InputError{Path: path, Reason: "no pages"}
	}
	doc.PageCount = n
	return doc, nil
}

// Configuration returns the relaxed pdfcpu configuration used for inputs
func Configuration() *pdfmodel.Configuration {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	return conf
}

// PageCount reads the page count with pdfcpu, falling back to the text
// layer reader for files pdfcpu rejects.
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err == nil {
		return n, nil
	}
	n, fallbackErr := extract.PageCount(path)
	if fallbackErr != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return n, nil
}

func (s *Scanner) convertImage(ws *Workspace, path string) (string, error) {
	dir, err := ws.Dir()
	if err != nil {
		return "", err
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := filepath.Join(dir, base+"-"+uuid.NewString()[:8]+".pdf")
	if err := api.ImportImagesFile([]string{path}, out, pdfcpu.DefaultImportConfig(), Configuration()); err != nil {
		return "", err
	}
	s.logger.Debug("image converted", "doc", filepath.Base(path), "pdf", out)
	return out, nil
}
