// Package dedupe detects byte-identical input files and pages whose reconciled
// text is identical. The first occurrence in ingestion order is canonical.
package dedupe

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/a3tai/taxdoc-binder/internal/model"
)

// HashBytes returns the hex MD5 digest of data
func HashBytes(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// HashText returns the hex MD5 digest of the UTF-8 bytes of text
func HashText(text string) string {
	return HashBytes([]byte(text))
}

// HashFile streams a file through MD5 and returns the digest and byte count
func HashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// FileIndex remembers the first document seen for each binary hash
type FileIndex struct {
	first map[string]string
}

// NewFileIndex creates an empty file index
func NewFileIndex() *FileIndex {
	return &FileIndex{first: make(map[string]string)}
}

// Add records doc and reports the path of an earlier identical document, if any
func (ix *FileIndex) Add(doc model.Document) (string, bool) {
	if prev, ok := ix.first[doc.Hash]; ok {
		return prev, true
	}
	ix.first[doc.Hash] = doc.Path
	return "", false
}

// Partition splits docs into first occurrences and byte-identical repeats,
// preserving input order in both slices.
func (ix *FileIndex) Partition(docs []model.Document) (unique, duplicates []model.Document) {
	for _, d := range docs {
		if _, dup := ix.Add(d); dup {
			duplicates = append(duplicates, d)
			continue
		}
		unique = append(unique, d)
	}
	return unique, duplicates
}

// PageIndex remembers the first page seen for each reconciled-text hash
type PageIndex struct {
	first map[string]model.PageRef
}

// NewPageIndex creates an empty page index
func NewPageIndex() *PageIndex {
	return &PageIndex{first: make(map[string]model.PageRef)}
}

// Add flags p as a page duplicate when its text hash was seen before.
// Pages already flagged (file duplicates) are left untouched. Blank pages
// carry no content to compare and are never flagged.
func (ix *PageIndex) Add(p *model.Page) bool {
	if p.IsDuplicate() {
		return true
	}
	if p.TextHash == "" {
		p.TextHash = HashText(p.Text)
	}
	if strings.TrimSpace(p.Text) == "" {
		return false
	}
	if prev, ok := ix.first[p.TextHash]; ok {
		ref := prev
		p.Duplicate = model.DuplicatePage
		p.DupOf = &ref
		return true
	}
	ix.first[p.TextHash] = p.Ref
	return false
}

// Partition walks pages in the given order and splits them into canonical
// pages and duplicates.
func (ix *PageIndex) Partition(pages []*model.Page) (unique, duplicates []*model.Page) {
	for _, p := range pages {
		if ix.Add(p) {
			duplicates = append(duplicates, p)
			continue
		}
		unique = append(unique, p)
	}
	return unique, duplicates
}
