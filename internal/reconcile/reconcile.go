// Package reconcile picks the canonical text of a page from several
// extraction backends.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/a3tai/taxdoc-binder/internal/extract"
	"github.com/a3tai/taxdoc-binder/internal/model"
	"github.com/a3tai/taxdoc-binder/internal/textcache"
)

// Defaults
const (
	DefaultThreshold = 50
	DefaultTimeout   = 60 * time.Second
)

// ErrTimeout is returned by a backend call that exceeds the page timeout
var ErrTimeout = errors.New("backend timed out")

// Outcome is the reconciled text of a page
type Outcome struct {
	Text     string
	Source   string
	Variants []model.Variant
	Cached   bool
}

// Reconciler runs text backends in order and falls back to OCR when the
// best text is shorter than the threshold.
type Reconciler struct {
	backends  []extract.Backend
	ocr       extract.Backend
	threshold int
	timeout   time.Duration
	cache     textcache.Store
	logger    *slog.Logger
}

// Option configures a Reconciler
type Option func(*Reconciler)

// WithThreshold sets the minimum trimmed length that skips OCR
func WithThreshold(n int) Option {
	return func(r *Reconciler) {
		if n >= 0 {
			r.threshold = n
		}
	}
}

// WithTimeout bounds each backend call; zero disables the bound
func WithTimeout(d time.Duration) Option {
	return func(r *Reconciler) {
		r.timeout = d
	}
}

// WithCache short-circuits pages already reconciled in an earlier run
func WithCache(s textcache.Store) Option {
	return func(r *Reconciler) {
		r.cache = s
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Reconciler. ocr may be nil.
func New(backends []extract.Backend, ocr extract.Backend, opts ...Option) *Reconciler {
	r := &Reconciler{
		backends:  backends,
		ocr:       ocr,
		threshold: DefaultThreshold,
		timeout:   DefaultTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile returns the canonical text of page (0-based) of doc. Backend
// failures are logged and count as empty output; only context cancellation
// is returned as an error.
func (r *Reconciler) Reconcile(ctx context.Context, doc model.Document, page int) (Outcome, error) {
	key := textcache.Key{Hash: doc.Hash, Page: page}
	if r.cache != nil && doc.Hash != "" {
		entry, ok, err := r.cache.Get(ctx, key)
		if err != nil {
			r.logger.Warn("text cache read failed", "doc", doc.Name(), "page", page+1, "error", err)
		} else if ok {
			return Outcome{Text: entry.Text, Source: entry.Source, Variants: entry.Variants, Cached: true}, nil
		}
	}

	var out Outcome
	best := 0
	consider := func(b extract.Backend) {
		text := r.run(ctx, b, doc, page)
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return
		}
		out.Variants = append(out.Variants, model.Variant{Backend: b.Name(), Text: trimmed})
		if len(trimmed) > best {
			best = len(trimmed)
			out.Text = trimmed
			out.Source = b.Name()
		}
	}

	for _, b := range r.backends {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		consider(b)
	}
	if r.ocr != nil && best < r.threshold {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		r.logger.Debug("text below threshold, running OCR", "doc", doc.Name(), "page", page+1, "length", best)
		consider(r.ocr)
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	if r.cache != nil && doc.Hash != "" {
		entry := textcache.Entry{Text: out.Text, Source: out.Source, Variants: out.Variants}
		if err := r.cache.Put(ctx, key, entry); err != nil {
			r.logger.Warn("text cache write failed", "doc", doc.Name(), "page", page+1, "error", err)
		}
	}
	return out, nil
}

// run calls one backend under the page timeout and swallows its failure
func (r *Reconciler) run(ctx context.Context, b extract.Backend, doc model.Document, page int) string {
	text, err := r.call(ctx, b, doc, page)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Warn("extraction failed", "backend", b.Name(), "doc", doc.Name(), "page", page+1, "error", err)
		}
		return ""
	}
	return text
}

type result struct {
	text string
	err  error
}

func (r *Reconciler) call(ctx context.Context, b extract.Backend, doc model.Document, page int) (string, error) {
	if r.timeout <= 0 {
		return b.Extract(ctx, doc, page)
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// Native backends do not observe cancellation once started, so the
	// call runs in its own goroutine and is abandoned on timeout.
	done := make(chan result, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- result{err: fmt.Errorf("panic in %s backend: %v", b.Name(), rec)}
			}
		}()
		text, err := b.Extract(callCtx, doc, page)
		done <- result{text: text, err: err}
	}()

	select {
	case res := <-done:
		return res.text, res.err
	case <-callCtx.Done():
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w after %s", ErrTimeout, r.timeout)
	}
}
