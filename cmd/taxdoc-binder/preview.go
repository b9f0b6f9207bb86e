package main

import (
	"fmt"
	"strings"

	"github.com/a3tai/taxdoc-binder/internal/outline"
	"github.com/a3tai/taxdoc-binder/internal/pipeline"
	"github.com/charmbracelet/lipgloss"
)

var (
	categoryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	leafStyle     = lipgloss.NewStyle()
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// renderPreview prints the outline. Runs of untitled pages collapse into
// one "(n pages)" line.
func renderPreview(root *outline.Node) string {
	var sb strings.Builder
	var visit func(n *outline.Node, depth int)
	visit = func(n *outline.Node, depth int) {
		untitled := 0
		flush := func() {
			if untitled > 0 {
				sb.WriteString(strings.Repeat("  ", depth) + dimStyle.Render(pages(untitled)) + "\n")
				untitled = 0
			}
		}
		for _, c := range n.Children {
			if c.IsLeaf() && c.Title == "" {
				untitled++
				continue
			}
			flush()
			indent := strings.Repeat("  ", depth)
			switch {
			case c.IsLeaf():
				line := leafStyle.Render(c.Title) + " " + dimStyle.Render(c.Page.String())
				for _, e := range c.Extras {
					line += " " + dimStyle.Render("+"+e)
				}
				sb.WriteString(indent + line + "\n")
			case depth == 0:
				sb.WriteString(indent + categoryStyle.Render(c.Title) + "\n")
			default:
				sb.WriteString(indent + sectionStyle.Render(c.Title) + "\n")
			}
			visit(c, depth+1)
		}
		flush()
	}
	visit(root, 0)
	return sb.String()
}

func pages(n int) string {
	if n == 1 {
		return "(1 page)"
	}
	return fmt.Sprintf("(%d pages)", n)
}

// renderSummary prints the page accounting of a run
func renderSummary(s pipeline.Summary) string {
	return fmt.Sprintf("%d documents, %d pages in, %d pages out, %d duplicate pages, %d duplicate files, %d unused, %d bookmarks",
		s.Documents, s.InputPages, s.OutputPages, s.DuplicatePages, s.DuplicateFiles, s.UnusedPages, s.Bookmarks)
}
