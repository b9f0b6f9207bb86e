// Package pipeline runs a batch end to end: ingestion, per-page extraction
// and classification, dedupe and consolidation, outline building, emission
// and writing.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/a3tai/taxdoc-binder/internal/classify"
	"github.com/a3tai/taxdoc-binder/internal/consolidate"
	"github.com/a3tai/taxdoc-binder/internal/dedupe"
	"github.com/a3tai/taxdoc-binder/internal/emit"
	"github.com/a3tai/taxdoc-binder/internal/ingest"
	"github.com/a3tai/taxdoc-binder/internal/model"
	"github.com/a3tai/taxdoc-binder/internal/outline"
	"github.com/a3tai/taxdoc-binder/internal/reconcile"
	"github.com/a3tai/taxdoc-binder/internal/titles"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Extractor returns the reconciled text of one page
type Extractor interface {
	Reconcile(ctx context.Context, doc model.Document, page int) (reconcile.Outcome, error)
}

// Writer produces the output PDF
type Writer interface {
	Write(ctx context.Context, res *emit.Result, dst string) error
}

// Observer is told about Phase 1 progress. Advanced may be called from
// several goroutines at once.
type Observer interface {
	Started(total int)
	Advanced(p *model.Page)
}

type nopObserver struct{}

func (nopObserver) Started(int)          {}
func (nopObserver) Advanced(*model.Page) {}

// Pipeline binds a directory of tax documents into one bookmarked PDF
type Pipeline struct {
	extractor    Extractor
	writer       Writer
	scanner      *ingest.Scanner
	classifier   *classify.Classifier
	consolidator *consolidate.Consolidator
	builder      *outline.Builder
	resolvers    *titles.Registry
	observer     Observer
	workers      int
	logger       *slog.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithWorkers bounds Phase 1 concurrency
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithScanner replaces the input scanner
func WithScanner(s *ingest.Scanner) Option {
	return func(p *Pipeline) {
		p.scanner = s
	}
}

// WithObserver reports Phase 1 progress
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		if o != nil {
			p.observer = o
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClassifier replaces the classifier
func WithClassifier(c *classify.Classifier) Option {
	return func(p *Pipeline) {
		if c != nil {
			p.classifier = c
		}
	}
}

// WithResolvers replaces the title resolver registry
func WithResolvers(r *titles.Registry) Option {
	return func(p *Pipeline) {
		p.resolvers = r
	}
}

// New creates a Pipeline. writer may be nil for planning only.
func New(extractor Extractor, writer Writer, opts ...Option) *Pipeline {
	p := &Pipeline{
		extractor:  extractor,
		writer:     writer,
		classifier: classify.New(),
		resolvers:  titles.Default(),
		observer:   nopObserver{},
		workers:    runtime.NumCPU(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.scanner == nil {
		p.scanner = ingest.NewScanner(0, "", p.logger)
	}
	p.builder = outline.NewBuilder(p.classifier, p.resolvers, p.logger)
	p.consolidator = consolidate.New(p.logger)
	return p
}

// Plan is the outcome of Phases 1 to 3 without writing
type Plan struct {
	RunID     string
	Documents []model.Document
	Pages     []*model.Page
	Groups    []*model.Group
	Root      *outline.Node
	Result    *emit.Result
	Summary   Summary
}

// Summary counts what happened to the input pages
type Summary struct {
	Documents      int `json:"documents" yaml:"documents"`
	Rejected       int `json:"rejected" yaml:"rejected"`
	DuplicateFiles int `json:"duplicate_files" yaml:"duplicate_files"`
	InputPages     int `json:"input_pages" yaml:"input_pages"`
	OutputPages    int `json:"output_pages" yaml:"output_pages"`
	DuplicatePages int `json:"duplicate_pages" yaml:"duplicate_pages"`
	UnusedPages    int `json:"unused_pages" yaml:"unused_pages"`
	FailedPages    int `json:"failed_pages" yaml:"failed_pages"`
	Groups         int `json:"groups" yaml:"groups"`
	Bookmarks      int `json:"bookmarks" yaml:"bookmarks"`
}

// Report describes a finished run
type Report struct {
	Plan     *Plan
	Output   string
	Moved    bool
	Manifest string
}

// RunOptions controls Run
type RunOptions struct {
	Manifest string
	DryRun   bool
}

// Run scans inputDir, plans the binder and writes it to output. With
// DryRun set nothing is written.
func (p *Pipeline) Run(ctx context.Context, inputDir, output string, opts RunOptions) (*Report, error) {
	out, moved, err := ingest.ResolveOutput(inputDir, output)
	if err != nil {
		return nil, err
	}
	if moved {
		p.logger.Warn("output path is inside the input directory, writing next to it instead", "output", out)
	}

	ws := p.scanner.NewWorkspace()
	defer p.closeWorkspace(ws)

	plan, err := p.planDirectory(ctx, ws, inputDir, out)
	if err != nil {
		return nil, err
	}

	report := &Report{Plan: plan, Output: out, Moved: moved}
	if opts.DryRun {
		return report, nil
	}
	if p.writer == nil {
		return nil, fmt.Errorf("no writer configured")
	}
	if err := p.writer.Write(ctx, plan.Result, out); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", out, err)
	}
	p.logger.Info("binder written", "run", plan.RunID, "output", out)

	if opts.Manifest != "" {
		if err := writeManifest(opts.Manifest, emit.NewManifest(plan.RunID, out, plan.Result)); err != nil {
			return nil, err
		}
		report.Manifest = opts.Manifest
	}
	return report, nil
}

// PlanDirectory scans and loads inputDir, then plans the binder. Converted
// images are removed before it returns.
func (p *Pipeline) PlanDirectory(ctx context.Context, inputDir, output string) (*Plan, error) {
	ws := p.scanner.NewWorkspace()
	defer p.closeWorkspace(ws)
	return p.planDirectory(ctx, ws, inputDir, output)
}

func (p *Pipeline) planDirectory(ctx context.Context, ws *ingest.Workspace, inputDir, output string) (*Plan, error) {
	files, err := p.scanner.Scan(inputDir, output)
	if err != nil {
		return nil, err
	}
	docs, rejected := p.scanner.Load(ws, files)
	plan, err := p.Plan(ctx, docs)
	if err != nil {
		return nil, err
	}
	plan.Summary.Rejected = len(rejected)
	return plan, nil
}

func (p *Pipeline) closeWorkspace(ws *ingest.Workspace) {
	if err := ws.Close(); err != nil {
		p.logger.Warn("failed to remove work directory", "error", err)
	}
}

// Plan runs the three phases over already loaded documents
func (p *Pipeline) Plan(ctx context.Context, docs []model.Document) (*Plan, error) {
	plan := &Plan{RunID: uuid.NewString(), Documents: docs}

	// Phase 1
	pages, err := p.extract(ctx, docs)
	if err != nil {
		return nil, err
	}
	plan.Pages = pages

	// Phase 2
	canonical, _ := dedupe.NewPageIndex().Partition(pages)
	plan.Groups = p.consolidator.Consolidate(canonical)
	plan.Root = p.builder.Build(pages, plan.Groups)

	// Phase 3
	plan.Result = emit.Emit(plan.Root, p.logger)
	plan.Summary = summarize(plan)
	p.logSummary(plan)
	return plan, nil
}

// Pages extracts and classifies every page of one document
func (p *Pipeline) Pages(ctx context.Context, doc model.Document) ([]*model.Page, error) {
	return p.extract(ctx, []model.Document{doc})
}

// extract assigns sequence numbers in document order and fills one slot per
// page. Byte-identical documents are not extracted; their pages are flagged
// as file duplicates of the first copy.
func (p *Pipeline) extract(ctx context.Context, docs []model.Document) ([]*model.Page, error) {
	files := dedupe.NewFileIndex()

	type job struct {
		doc  model.Document
		page int
		seq  int
	}
	var (
		jobs  []job
		slots []*model.Page
	)
	for _, d := range docs {
		prev, dup := files.Add(d)
		for i := 0; i < d.PageCount; i++ {
			seq := len(slots)
			if dup {
				original := model.PageRef{Path: prev, Index: i}
				slots = append(slots, &model.Page{
					Ref:       model.PageRef{Path: d.Path, Index: i},
					Seq:       seq,
					Result:    model.Unused,
					Duplicate: model.DuplicateFile,
					DupOf:     &original,
				})
				continue
			}
			slots = append(slots, nil)
			jobs = append(jobs, job{doc: d, page: i, seq: seq})
		}
		if dup {
			p.logger.Info("duplicate file", "doc", d.Name(), "original", prev)
		}
	}

	p.observer.Started(len(jobs))

	sem := make(chan struct{}, p.workers)
	g, gctx := errgroup.WithContext(ctx)
	for _, j := range jobs {
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				return gctx.Err()
			}
			page, err := p.page(gctx, j.doc, j.page, j.seq)
			if err != nil {
				return err
			}
			slots[j.seq] = page
			p.observer.Advanced(page)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

// page reconciles and classifies one page. Extraction failures other than
// cancellation degrade the page to Others/Unused.
func (p *Pipeline) page(ctx context.Context, doc model.Document, index, seq int) (*model.Page, error) {
	ref := model.PageRef{Path: doc.Path, Index: index}
	page := &model.Page{Ref: ref, Seq: seq, Result: model.Unused}

	out, err := p.extractor.Reconcile(ctx, doc, index)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.logger.Warn("page failed, routing to unused", "doc", doc.Name(), "page", index+1, "error", err)
		page.Rule = ruleFailed
		return page, nil
	}

	page.Text = out.Text
	page.Source = out.Source
	page.Variants = out.Variants
	page.TextHash = dedupe.HashText(out.Text)
	page.Account = classify.AccountNumber(out.Text)
	page.Result, page.Rule = p.classifier.Explain(out.Text)

	p.logger.Debug("page classified",
		"doc", doc.Name(), "page", index+1, "backend", out.Source,
		"form", string(page.Result.FormType), "rule", page.Rule)
	return page, nil
}

const ruleFailed = "extraction-failed"

func summarize(plan *Plan) Summary {
	s := Summary{
		Documents:   len(plan.Documents),
		InputPages:  len(plan.Pages),
		OutputPages: len(plan.Result.Pages),
		Groups:      len(plan.Groups),
		Bookmarks:   len(plan.Result.Bookmarks),
	}
	dupFiles := make(map[string]bool)
	for _, pg := range plan.Pages {
		switch {
		case pg.Duplicate == model.DuplicateFile:
			dupFiles[pg.Ref.Path] = true
		case pg.Duplicate == model.DuplicatePage:
			s.DuplicatePages++
		case pg.Result.IsUnused():
			s.UnusedPages++
		}
		if pg.Rule == ruleFailed {
			s.FailedPages++
		}
	}
	s.DuplicateFiles = len(dupFiles)
	return s
}

func (p *Pipeline) logSummary(plan *Plan) {
	s := plan.Summary
	p.logger.Info("binder planned",
		"run", plan.RunID,
		"documents", s.Documents,
		"input_pages", s.InputPages,
		"output_pages", s.OutputPages,
		"duplicate_files", s.DuplicateFiles,
		"duplicate_pages", s.DuplicatePages,
		"unused_pages", s.UnusedPages,
		"groups", s.Groups,
		"bookmarks", s.Bookmarks,
	)
	if s.InputPages != s.OutputPages {
		p.logger.Warn("page count mismatch", "input_pages", s.InputPages, "output_pages", s.OutputPages)
	}
}

func writeManifest(path string, m *emit.Manifest) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	if err := emit.WriteManifest(f, m); err != nil {
		f.Close()
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return f.Close()
}
