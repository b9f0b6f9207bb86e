package emit

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Manifest is the YAML description of a binder run
type Manifest struct {
	RunID   string          `yaml:"run_id,omitempty"`
	Output  string          `yaml:"output,omitempty"`
	Pages   []ManifestPage  `yaml:"pages"`
	Outline []ManifestEntry `yaml:"outline"`
}

// ManifestPage maps an output page back to its source
type ManifestPage struct {
	Output int    `yaml:"output"`
	File   string `yaml:"file"`
	Page   int    `yaml:"page"`
}

// ManifestEntry is a bookmark with its nested children. Page numbers are 1-based.
type ManifestEntry struct {
	Title    string          `yaml:"title"`
	Page     int             `yaml:"page"`
	Children []ManifestEntry `yaml:"children,omitempty"`
}

// NewManifest converts an emission result into manifest form
func NewManifest(runID, output string, res *Result) *Manifest {
	m := &Manifest{RunID: runID, Output: output}
	for i, ref := range res.Pages {
		m.Pages = append(m.Pages, ManifestPage{Output: i + 1, File: ref.Path, Page: ref.Index + 1})
	}
	m.Outline = entries(res, -1)
	return m
}

func entries(res *Result, parent int) []ManifestEntry {
	var out []ManifestEntry
	for _, idx := range res.Children(parent) {
		b := res.Bookmarks[idx]
		out = append(out, ManifestEntry{
			Title:    b.Title,
			Page:     b.Position + 1,
			Children: entries(res, idx),
		})
	}
	return out
}

// WriteManifest encodes the manifest as YAML
func WriteManifest(w io.Writer, m *Manifest) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to flush manifest: %w", err)
	}
	return nil
}
