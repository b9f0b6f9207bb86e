package reconcile

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/a3tai/taxdoc-binder/internal/extract"
	"github.com/a3tai/taxdoc-binder/internal/model"
	"github.com/a3tai/taxdoc-binder/internal/textcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	name  string
	text  string
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Extract(ctx context.Context, _ model.Document, _ int) (string, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.text, f.err
}

var doc = model.Document{Path: "w2.pdf", Hash: "abc", PageCount: 1}

func longText(prefix string) string {
	return prefix + strings.Repeat(" wages tips other compensation", 3)
}

func TestReconcile_LongestWins(t *testing.T) {
	text := &fakeBackend{name: extract.BackendTextLayer, text: longText("A")}
	layout := &fakeBackend{name: extract.BackendLayout, text: longText("BB")}
	ocr := &fakeBackend{name: extract.BackendOCR, text: "ocr"}

	out, err := New([]extract.Backend{text, layout}, ocr).Reconcile(context.Background(), doc, 0)
	require.NoError(t, err)
	assert.Equal(t, extract.BackendLayout, out.Source)
	assert.Equal(t, strings.TrimSpace(longText("BB")), out.Text)
	assert.Len(t, out.Variants, 2)
	assert.Equal(t, int32(0), ocr.calls.Load())
}

func TestReconcile_TieKeepsEarlier(t *testing.T) {
	a := &fakeBackend{name: "a", text: longText("X")}
	b := &fakeBackend{name: "b", text: "  " + longText("Y") + "\n"}

	out, err := New([]extract.Backend{a, b}, nil).Reconcile(context.Background(), doc, 0)
	require.NoError(t, err)
	assert.Equal(t, "a", out.Source)
}

func TestReconcile_OCRBelowThreshold(t *testing.T) {
	text := &fakeBackend{name: extract.BackendTextLayer, text: "short"}
	ocr := &fakeBackend{name: extract.BackendOCR, text: longText("OCR")}

	out, err := New([]extract.Backend{text}, ocr).Reconcile(context.Background(), doc, 0)
	require.NoError(t, err)
	assert.Equal(t, extract.BackendOCR, out.Source)
	assert.Equal(t, []string{extract.BackendTextLayer, extract.BackendOCR}, backends(out.Variants))
}

func TestReconcile_FailuresAreEmpty(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	bad := &fakeBackend{name: extract.BackendTextLayer, err: errors.New("bad xref")}
	ocr := &fakeBackend{name: extract.BackendOCR, err: errors.New("no tesseract")}

	out, err := New([]extract.Backend{bad}, ocr, WithLogger(logger)).Reconcile(context.Background(), doc, 0)
	require.NoError(t, err)
	assert.Empty(t, out.Text)
	assert.Empty(t, out.Variants)
	assert.Contains(t, buf.String(), "backend=text")
	assert.Contains(t, buf.String(), "backend=ocr")
}

func TestReconcile_Timeout(t *testing.T) {
	slow := &fakeBackend{name: "slow", text: longText("slow"), delay: 200 * time.Millisecond}
	fast := &fakeBackend{name: "fast", text: longText("f")}

	r := New([]extract.Backend{slow, fast}, nil, WithTimeout(20*time.Millisecond), WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	out, err := r.Reconcile(context.Background(), doc, 0)
	require.NoError(t, err)
	assert.Equal(t, "fast", out.Source)
}

func TestReconcile_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New([]extract.Backend{&fakeBackend{name: "a", text: "x"}}, nil).Reconcile(ctx, doc, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReconcile_Cache(t *testing.T) {
	cache := textcache.NewMemory(10)
	text := &fakeBackend{name: extract.BackendTextLayer, text: longText("cached")}
	r := New([]extract.Backend{text}, nil, WithCache(cache))

	first, err := r.Reconcile(context.Background(), doc, 0)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := r.Reconcile(context.Background(), doc, 0)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.Variants, second.Variants)
	assert.Equal(t, int32(1), text.calls.Load())
}

func TestOptions(t *testing.T) {
	r := New(nil, nil, WithThreshold(-1), WithTimeout(0), WithLogger(nil))
	assert.Equal(t, DefaultThreshold, r.threshold)
	assert.Zero(t, r.timeout)
	assert.NotNil(t, r.logger)
}

func backends(vs []model.Variant) []string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.Backend
	}
	return names
}
