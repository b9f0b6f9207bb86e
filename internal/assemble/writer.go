// Package assemble writes the emitted page order and outline into a single
// PDF with pdfcpu.
package assemble

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/a3tai/taxdoc-binder/internal/emit"
	"github.com/a3tai/taxdoc-binder/internal/model"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNoPages is returned when there is nothing to write
var ErrNoPages = errors.New("no pages to write")

// Writer merges input documents, reorders their pages and adds bookmarks
type Writer struct {
	conf   *pdfmodel.Configuration
	logger *slog.Logger
}

// NewWriter creates a Writer with relaxed validation
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	return &Writer{conf: conf, logger: logger}
}

// Write produces dst from res. Intermediate files live in a temporary
// directory next to dst and are removed afterwards.
func (w *Writer) Write(ctx context.Context, res *emit.Result, dst string) error {
	if res == nil || len(res.Pages) == 0 {
		return ErrNoPages
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	tmp, err := os.MkdirTemp(filepath.Dir(dst), ".taxdoc-binder-")
	if err != nil {
		return fmt.Errorf("failed to create temporary directory: %w", err)
	}
	defer os.RemoveAll(tmp)

	inputs := Inputs(res.Pages)
	offsets, err := w.offsets(ctx, inputs)
	if err != nil {
		return err
	}

	merged := inputs[0]
	if len(inputs) > 1 {
		merged = filepath.Join(tmp, "merged.pdf")
		if err := api.MergeCreateFile(inputs, merged, false, w.conf); err != nil {
			return fmt.Errorf("failed to merge inputs: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	collected := filepath.Join(tmp, "collected.pdf")
	if err := api.CollectFile(merged, collected, Selection(res.Pages, offsets), w.conf); err != nil {
		return fmt.Errorf("failed to arrange pages: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	bookmarks := Outline(res)
	if len(bookmarks) == 0 {
		return moveFile(collected, dst)
	}
	if err := api.AddBookmarksFile(collected, dst, bookmarks, true, w.conf); err != nil {
		return fmt.Errorf("failed to add bookmarks: %w", err)
	}
	w.logger.Debug("binder written", "output", dst, "pages", len(res.Pages), "bookmarks", len(res.Bookmarks))
	return nil
}

func (w *Writer) offsets(ctx context.Context, inputs []string) (map[string]int, error) {
	offsets := make(map[string]int, len(inputs))
	next := 0
	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := api.PageCountFile(in)
		if err != nil {
			return nil, fmt.Errorf("failed to count pages of %s: %w", filepath.Base(in), err)
		}
		offsets[in] = next
		next += n
	}
	return offsets, nil
}

// Inputs returns the distinct document paths in order of first use
func Inputs(pages []model.PageRef) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range pages {
		if !seen[p.Path] {
			seen[p.Path] = true
			out = append(out, p.Path)
		}
	}
	return out
}

// Selection maps each emitted page to its 1-based page number in the merged
// input, using the page offset of each document.
func Selection(pages []model.PageRef, offsets map[string]int) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = strconv.Itoa(offsets[p.Path] + p.Index + 1)
	}
	return out
}

// Outline converts the flat bookmark list into pdfcpu's nested form
func Outline(res *emit.Result) []pdfcpu.Bookmark {
	var build func(parent int) []pdfcpu.Bookmark
	build = func(parent int) []pdfcpu.Bookmark {
		idx := res.Children(parent)
		if len(idx) == 0 {
			return nil
		}
		out := make([]pdfcpu.Bookmark, 0, len(idx))
		for _, i := range idx {
			b := res.Bookmarks[i]
			out = append(out, pdfcpu.Bookmark{
				Title:    b.Title,
				PageFrom: b.Position + 1,
				Kids:     build(i),
			})
		}
		return out
	}
	return build(-1)
}

func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	if err := os.WriteFile(dst, data, 0600); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
