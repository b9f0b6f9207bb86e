// Package outline builds the bookmark tree that organizes classified pages
// into Income, Expenses and Others sections.
package outline

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/a3tai/taxdoc-binder/internal/classify"
	"github.com/a3tai/taxdoc-binder/internal/model"
	"github.com/a3tai/taxdoc-binder/internal/titles"
)

// Section titles
const (
	SectionUnused    = "Unused"
	SectionDuplicate = "Duplicate"
)

// Builder turns classified pages and account groups into a bookmark tree
type Builder struct {
	classifier *classify.Classifier
	resolvers  *titles.Registry
	logger     *slog.Logger
}

// NewBuilder creates a builder. Nil arguments fall back to the built-in
// classifier, resolver registry and default logger.
func NewBuilder(c *classify.Classifier, reg *titles.Registry, logger *slog.Logger) *Builder {
	if c == nil {
		c = classify.New()
	}
	if reg == nil {
		reg = titles.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{classifier: c, resolvers: reg, logger: logger}
}

// buckets holds pages split by destination before nodes are created
type buckets struct {
	income   map[model.FormType][]*model.Page
	expenses map[model.FormType][]*model.Page
	others   map[model.FormType][]*model.Page
	unused   []*model.Page
	diverted []*model.Page
	dupPages []*model.Page
	dupFiles []*model.Page
}

// Build returns the root of the bookmark tree. Pages must carry their
// classification, duplicate flag and group key; groups come from the
// consolidator.
func (b *Builder) Build(pages []*model.Page, groups []*model.Group) *Node {
	bk := buckets{
		income:   make(map[model.FormType][]*model.Page),
		expenses: make(map[model.FormType][]*model.Page),
		others:   make(map[model.FormType][]*model.Page),
	}

	ordered := append([]*model.Page(nil), pages...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Seq < ordered[j].Seq })

	for _, p := range ordered {
		switch {
		case p.Duplicate == model.DuplicateFile:
			bk.dupFiles = append(bk.dupFiles, p)
		case p.Duplicate == model.DuplicatePage:
			bk.dupPages = append(bk.dupPages, p)
		case p.Grouped():
			// placed through its group
		case p.Result.IsUnused():
			bk.unused = append(bk.unused, p)
		case p.Result.Category == model.CategoryIncome:
			bk.income[p.Result.FormType] = append(bk.income[p.Result.FormType], p)
		case p.Result.Category == model.CategoryExpenses:
			bk.expenses[p.Result.FormType] = append(bk.expenses[p.Result.FormType], p)
		default:
			bk.others[p.Result.FormType] = append(bk.others[p.Result.FormType], p)
		}
	}

	root := NewRoot()

	income := Section(string(model.CategoryIncome))
	forms := formOrder(model.CategoryIncome, bk.income, len(groups) > 0)
	for _, form := range forms {
		switch form {
		case model.FormConsolidated1099:
			income.Adopt(b.consolidated(groups, &bk))
		case model.FormK1:
			income.Adopt(b.partnerships(bk.income[form]))
		default:
			income.Adopt(b.formSection(model.CategoryIncome, form, bk.income[form]))
		}
	}
	root.Adopt(income)

	expenses := Section(string(model.CategoryExpenses))
	for _, form := range formOrder(model.CategoryExpenses, bk.expenses, false) {
		expenses.Adopt(b.formSection(model.CategoryExpenses, form, bk.expenses[form]))
	}
	root.Adopt(expenses)

	root.Adopt(b.othersSection(&bk))
	return root
}

// formOrder sorts the forms present in a category by tier, priority and name
func formOrder(cat model.Category, byForm map[model.FormType][]*model.Page, grouped bool) []model.FormType {
	var forms []model.FormType
	for f := range byForm {
		forms = append(forms, f)
	}
	if grouped {
		forms = append(forms, model.FormConsolidated1099)
	}
	table := TableFor(cat)
	sort.Slice(forms, func(i, j int) bool {
		ti, tj := TierOf(forms[i]), TierOf(forms[j])
		if ti != tj {
			return ti < tj
		}
		pi, pj := table.Priority(forms[i]), table.Priority(forms[j])
		if pi != pj {
			return pi < pj
		}
		return forms[i] < forms[j]
	})
	return forms
}

// sortPages orders a bucket by source path, then page index
func sortPages(pages []*model.Page) []*model.Page {
	out := append([]*model.Page(nil), pages...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Ref.Less(out[j].Ref) })
	return out
}

// consolidated builds one child per account, sorted by account number.
// Boilerplate members are moved to the Unused section.
func (b *Builder) consolidated(groups []*model.Group, bk *buckets) *Node {
	section := Section(string(model.FormConsolidated1099))

	sorted := append([]*model.Group(nil), groups...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Account < sorted[j].Account })

	for _, g := range sorted {
		label := g.Issuer
		if label == "" {
			label = "Account " + g.Account
		}
		acct := Section(label)
		for _, p := range g.Members {
			if p.IsDuplicate() {
				continue
			}
			if classify.IsBoilerplate(p.Text) {
				b.logger.Debug("consolidated member is boilerplate",
					"page", p.Ref.String(),
					"account", g.Account)
				bk.diverted = append(bk.diverted, p)
				continue
			}
			title, extras := memberTitles(p.Text)
			acct.AddPage(p.Ref, title, extras...)
			b.logger.Debug("bookmark",
				"page", p.Ref.String(),
				"form", model.FormConsolidated1099,
				"account", g.Account,
				"title", title)
		}
		section.Adopt(acct)
	}
	return section
}

// memberTitles picks the bookmark and extra sibling bookmarks for a page of a
// consolidated statement. An empty title places the page without a bookmark.
func memberTitles(text string) (string, []string) {
	intNonzero := classify.CheckAmounts(model.Form1099INT, text).Nonzero
	multi := classify.ClassifyMulti(text)

	switch classify.ClassifyDivInt(text) {
	case model.Form1099DIV:
		return classify.LabelDivDescription, classify.Without(multi, string(model.Form1099DIV))
	case model.Form1099INT:
		title := classify.LabelIntAllZero
		if intNonzero {
			title = classify.LabelIntDescription
		}
		return title, classify.Without(multi, string(model.Form1099INT))
	}

	if !intNonzero {
		multi = classify.Without(multi, string(model.Form1099INT))
	}
	if len(multi) == 0 {
		return "", nil
	}
	return multi[0], multi[1:]
}

// partnerships groups K-1 pages by EIN, or by entity name when no EIN can be
// read, under "Form 1065 – (EIN ...)" nodes.
func (b *Builder) partnerships(pages []*model.Page) *Node {
	section := Section(string(model.FormK1))

	type partnership struct {
		ein    string
		entity string
		pages  []*model.Page
	}
	byKey := make(map[string]*partnership)
	var order []string
	for _, p := range sortPages(pages) {
		ein, _ := titles.EIN(p.Text)
		entity := titles.EntityName(p.Text)
		key := "ein:" + ein
		if ein == "" {
			key = "entity:" + entity
		}
		pt, ok := byKey[key]
		if !ok {
			pt = &partnership{ein: ein, entity: entity}
			byKey[key] = pt
			order = append(order, key)
		}
		pt.pages = append(pt.pages, p)
	}

	for _, key := range order {
		pt := byKey[key]
		entity := Section(pt.entity)
		for _, p := range pt.pages {
			entity.AddPage(p.Ref, "")
		}
		form := Section(titles.PartnershipTitle(pt.ein))
		form.Adopt(entity)
		section.Adopt(form)
	}
	return section
}

// formSection builds the node of an ordinary form type. A single page is
// labelled with the form type, several with "form#j"; a resolved title wins.
func (b *Builder) formSection(cat model.Category, form model.FormType, pages []*model.Page) *Node {
	section := Section(string(form))
	pages = sortPages(pages)
	for j, p := range pages {
		label := string(form)
		if len(pages) > 1 {
			label = fmt.Sprintf("%s#%d", form, j+1)
		}

		switch {
		case form == model.FormChildCare:
			label = ""
			if titles.HasTaxID(p.Text) {
				label = titles.DefaultChildCareTitle
				if title, ok := b.title(p); ok {
					label = title
				}
			}
		case form == model.Form1099INT && classify.CheckAmounts(model.Form1099INT, p.Text).AllZero():
			label = classify.LabelIntAllZero
		default:
			if title, ok := b.title(p); ok {
				label = title
			}
		}

		section.AddPage(p.Ref, label)
		b.logger.Debug("bookmark",
			"page", p.Ref.String(),
			"category", cat,
			"form", form,
			"title", label)
	}
	return section
}

// title resolves the page's bookmark title by voting across the text of
// every backend whose own classification agrees with the page.
func (b *Builder) title(p *model.Page) (string, bool) {
	form := p.Result.FormType
	texts := []string{p.Text}
	if len(p.Variants) > 0 {
		texts = texts[:0]
		for _, v := range p.Variants {
			if b.classifier.Classify(v.Text).FormType == form {
				texts = append(texts, v.Text)
			}
		}
		if len(texts) == 0 {
			texts = append(texts, p.Text)
		}
	}

	var candidates []string
	for _, text := range texts {
		if title, ok := b.resolvers.Resolve(form, text); ok {
			candidates = append(candidates, title)
		}
	}
	return titles.Vote(candidates)
}

// othersSection lists unused pages, then duplicates, then informational forms
func (b *Builder) othersSection(bk *buckets) *Node {
	section := Section(string(model.CategoryOthers))

	unused := Section(SectionUnused)
	for _, p := range append(append([]*model.Page(nil), bk.unused...), bk.diverted...) {
		unused.AddPage(p.Ref, "")
	}
	section.Adopt(unused)

	dups := Section(SectionDuplicate)
	for _, p := range append(append([]*model.Page(nil), bk.dupPages...), bk.dupFiles...) {
		dups.AddPage(p.Ref, "")
	}
	section.Adopt(dups)

	for _, form := range formOrder(model.CategoryOthers, bk.others, false) {
		node := Section(string(form))
		for _, p := range bk.others[form] {
			label := string(form)
			if title, ok := b.title(p); ok {
				label = title
			}
			node.AddPage(p.Ref, label)
		}
		section.Adopt(node)
	}
	return section
}
