// Package emit flattens a bookmark tree into the output page order and the
// bookmark list that points into it.
package emit

import (
	"log/slog"

	"github.com/a3tai/taxdoc-binder/internal/model"
	"github.com/a3tai/taxdoc-binder/internal/outline"
)

// Bookmark is one outline entry of the merged document
type Bookmark struct {
	Title string `yaml:"title"`
	// Position is the 0-based output page the bookmark points at
	Position int `yaml:"position"`
	// Parent indexes Result.Bookmarks; -1 marks a top-level entry
	Parent int `yaml:"parent"`
}

// Result is the emitted page sequence and its bookmarks
type Result struct {
	Pages     []model.PageRef
	Bookmarks []Bookmark
	// Skipped counts leaves dropped because their page was already emitted
	Skipped int
}

// Children returns the indexes of the bookmarks whose parent is idx, in
// emission order. Use -1 for top-level bookmarks.
func (r *Result) Children(idx int) []int {
	var out []int
	for i, b := range r.Bookmarks {
		if b.Parent == idx {
			out = append(out, i)
		}
	}
	return out
}

type emitter struct {
	res     *Result
	seen    map[model.PageRef]struct{}
	created map[*outline.Node]int
	logger  *slog.Logger
}

// Emit walks the tree depth-first in child order. Each page is placed once;
// later leaves for the same page are dropped. Section bookmarks are created
// when their first page is placed, so every bookmark points at an existing
// page and positions never decrease.
func Emit(root *outline.Node, logger *slog.Logger) *Result {
	if logger == nil {
		logger = slog.Default()
	}
	e := &emitter{
		res:     &Result{},
		seen:    make(map[model.PageRef]struct{}),
		created: make(map[*outline.Node]int),
		logger:  logger,
	}
	if root != nil {
		e.visit(root)
	}
	return e.res
}

func (e *emitter) visit(n *outline.Node) {
	if n.IsLeaf() {
		e.place(n)
		return
	}
	for _, c := range n.Children {
		e.visit(c)
	}
}

func (e *emitter) place(leaf *outline.Node) {
	ref := *leaf.Page
	if _, dup := e.seen[ref]; dup {
		e.res.Skipped++
		e.logger.Debug("page already emitted", "page", ref.String())
		return
	}
	e.seen[ref] = struct{}{}

	pos := len(e.res.Pages)
	e.res.Pages = append(e.res.Pages, ref)
	leaf.Position = pos

	parent := e.section(leaf.Parent, pos)
	if leaf.Title != "" {
		e.add(leaf.Title, pos, parent)
	}
	for _, extra := range leaf.Extras {
		e.add(extra, pos, parent)
	}
}

// section returns the bookmark index of a structural node, creating it and
// its ancestors at pos on first use.
func (e *emitter) section(n *outline.Node, pos int) int {
	if n == nil || n.Parent == nil {
		return -1
	}
	if idx, ok := e.created[n]; ok {
		return idx
	}
	parent := e.section(n.Parent, pos)
	idx := e.add(n.Title, pos, parent)
	n.Position = pos
	e.created[n] = idx
	return idx
}

func (e *emitter) add(title string, pos, parent int) int {
	e.res.Bookmarks = append(e.res.Bookmarks, Bookmark{Title: title, Position: pos, Parent: parent})
	return len(e.res.Bookmarks) - 1
}
