package model

import (
	"fmt"
	"path/filepath"
)

// Category is the top-level bucket of the bookmark tree
type Category string

const (
	CategoryIncome   Category = "Income"
	CategoryExpenses Category = "Expenses"
	CategoryOthers   Category = "Others"
	CategoryUnknown  Category = "Unknown"
)

// FormType is a tax-form label used for the second tree level and for sorting
type FormType string

const (
	FormW2               FormType = "W-2"
	Form1099INT          FormType = "1099-INT"
	Form1099DIV          FormType = "1099-DIV"
	Form1099B            FormType = "1099-B"
	Form1099MISC         FormType = "1099-MISC"
	Form1099OID          FormType = "1099-OID"
	Form1099G            FormType = "1099-G"
	Form1099R            FormType = "1099-R"
	Form1099SA           FormType = "1099-SA"
	FormK1               FormType = "K-1"
	Form1098Mortgage     FormType = "1098-Mortgage"
	Form1098T            FormType = "1098-T"
	Form5498SA           FormType = "5498-SA"
	Form529Plan          FormType = "529-Plan"
	FormPropertyTax      FormType = "Property Tax"
	FormChildCare        FormType = "Child Care Expenses"
	Form1095C            FormType = "1095-C"
	FormConsolidated1099 FormType = "Consolidated-1099"
	FormDonation         FormType = "Donation"
	FormUnused           FormType = "Unused"
	FormDuplicate        FormType = "Duplicate"
)

// Result is the value produced by the classifier for one page
type Result struct {
	Category Category `json:"category" yaml:"category"`
	FormType FormType `json:"form_type" yaml:"form_type"`
}

// Unused is the terminal classification for pages that match no rule
var Unused = Result{Category: CategoryUnknown, FormType: FormUnused}

// String renders the result as "Category/FormType"
func (r Result) String() string {
	return string(r.Category) + "/" + string(r.FormType)
}

// IsUnused reports whether the result routes the page to Others/Unused
func (r Result) IsUnused() bool {
	return r.FormType == FormUnused
}

// Kind describes how a document entered the batch
type Kind string

const (
	KindPDF   Kind = "pdf"
	KindImage Kind = "image"
)

// Document is an input file after ingestion. Image inputs are converted to a
// single-page PDF; Path then points at the converted file and Source at the
// original image.
type Document struct {
	Path      string `json:"path" yaml:"path"`
	Source    string `json:"source,omitempty" yaml:"source,omitempty"`
	Kind      Kind   `json:"kind" yaml:"kind"`
	PageCount int    `json:"page_count" yaml:"page_count"`
	Hash      string `json:"hash" yaml:"hash"`
	Size      int64  `json:"size" yaml:"size"`
}

// Name returns the base name of the file the user supplied
func (d Document) Name() string {
	if d.Source != "" {
		return filepath.Base(d.Source)
	}
	return filepath.Base(d.Path)
}

// PageRef identifies one page of one document
type PageRef struct {
	Path  string `json:"path" yaml:"path"`
	Index int    `json:"index" yaml:"index"`
}

// String renders the reference as "file.pdf p3" using a 1-based page number
func (r PageRef) String() string {
	return fmt.Sprintf("%s p%d", filepath.Base(r.Path), r.Index+1)
}

// Less orders references by path, then page index
func (r PageRef) Less(o PageRef) bool {
	if r.Path != o.Path {
		return r.Path < o.Path
	}
	return r.Index < o.Index
}

// DuplicateKind records why a page was routed to Others/Duplicate
type DuplicateKind int

const (
	NotDuplicate DuplicateKind = iota
	DuplicatePage
	DuplicateFile
)

// Variant is the text one extraction backend produced for a page
type Variant struct {
	Backend string `json:"backend" yaml:"backend"`
	Text    string `json:"text" yaml:"text"`
}

// Page is one classified page of the batch
type Page struct {
	Ref       PageRef
	Seq       int
	Text      string
	Source    string
	Variants  []Variant
	TextHash  string
	Account   string
	Result    Result
	Rule      string
	Duplicate DuplicateKind
	DupOf     *PageRef
	GroupKey  string
}

// IsDuplicate reports whether the page was flagged by page or file dedupe
func (p *Page) IsDuplicate() bool {
	return p.Duplicate != NotDuplicate
}

// Grouped reports whether the page belongs to a consolidation group
func (p *Page) Grouped() bool {
	return p.GroupKey != ""
}

// Group is a multi-page consolidated 1099 statement sharing one account number
type Group struct {
	Account string
	Issuer  string
	Members []*Page
}

// Key returns the value stored in Page.GroupKey for members of the group
func (g *Group) Key() string {
	return "consolidated:" + g.Account
}
