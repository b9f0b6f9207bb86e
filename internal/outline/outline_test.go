package outline

import (
	"io"
	"log/slog"
	"testing"

	"github.com/a3tai/taxdoc-binder/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newBuilder() *Builder {
	return NewBuilder(nil, nil, quietLogger())
}

func classified(path string, idx, seq int, cat model.Category, form model.FormType, text string) *model.Page {
	return &model.Page{
		Ref:    model.PageRef{Path: path, Index: idx},
		Seq:    seq,
		Text:   text,
		Result: model.Result{Category: cat, FormType: form},
	}
}

func titlesOf(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Title
	}
	return out
}

func TestPriorityTable(t *testing.T) {
	assert.Equal(t, 1, IncomePriority.Priority(model.FormW2))
	assert.Equal(t, 17, IncomePriority.Priority(model.Form1099SA))
	assert.Equal(t, 18, IncomePriority.Priority("1099-LTC"))
	assert.Equal(t, 2, OthersPriority.Priority(model.FormDuplicate))
	assert.Equal(t, 9999, PriorityTable{}.Priority(model.FormW2))
	assert.Equal(t, ExpensesPriority, TableFor(model.CategoryExpenses))
	assert.Equal(t, OthersPriority, TableFor(model.CategoryUnknown))
}

func TestFormOrder_PreGroupedFirst(t *testing.T) {
	byForm := map[model.FormType][]*model.Page{
		model.Form1099DIV: nil,
		model.FormW2:      nil,
		model.Form1099INT: nil,
	}
	got := formOrder(model.CategoryIncome, byForm, true)
	assert.Equal(t, []model.FormType{
		model.FormConsolidated1099,
		model.FormW2,
		model.Form1099INT,
		model.Form1099DIV,
	}, got)
	assert.Equal(t, TierPreGrouped, TierOf(model.FormConsolidated1099))
	assert.Equal(t, TierNormal, TierOf(model.FormW2))
}

func TestBuild_ConsolidatedAccount(t *testing.T) {
	p0 := classified("stmt.pdf", 0, 0, model.CategoryIncome, model.Form1099DIV, "1099-DIV Dividends & Distributions Detail\nDescription CUSIPPay Date Amount\nOrdinary dividends $ 12.00")
	p1 := classified("stmt.pdf", 1, 1, model.CategoryIncome, model.Form1099DIV, "1099-DIV Dividends & Distributions Detail\nDescription CUSIPPay Date Amount\nOrdinary dividends $ 30.00")
	p2 := classified("stmt.pdf", 2, 2, model.CategoryOthers, model.FormUnused, "Understanding your Form 1099\nThis guide explains each box.")
	group := &model.Group{Account: "1234-5678", Members: []*model.Page{p0, p1, p2}}
	for _, p := range group.Members {
		p.Account = group.Account
		p.GroupKey = group.Key()
	}

	root := newBuilder().Build([]*model.Page{p0, p1, p2}, []*model.Group{group})
	require.Equal(t, []string{"Income", "Others"}, titlesOf(root.Children))

	cons := root.Child("Income").Child(string(model.FormConsolidated1099))
	require.NotNil(t, cons)
	acct := cons.Child("Account 1234-5678")
	require.NotNil(t, acct)
	require.Len(t, acct.Children, 2)
	assert.Equal(t, "1099-DIV Description", acct.Children[0].Title)
	assert.Equal(t, p0.Ref, *acct.Children[0].Page)
	assert.Equal(t, p1.Ref, *acct.Children[1].Page)

	unused := root.Child("Others").Child(SectionUnused)
	require.NotNil(t, unused)
	require.Len(t, unused.Children, 1)
	assert.Equal(t, p2.Ref, *unused.Children[0].Page)
	assert.Empty(t, unused.Children[0].Title)
	assert.Equal(t, []string{"Others", "Unused", ""}, unused.Children[0].Path())
}

func TestBuild_IssuerLabel(t *testing.T) {
	p0 := classified("a.pdf", 0, 0, model.CategoryIncome, model.Form1099DIV, "1099-DIV Dividends & Distributions Detail\nDescription CUSIPPay Date Amount")
	p1 := classified("a.pdf", 1, 1, model.CategoryIncome, model.Form1099DIV, "1099-DIV Dividends & Distributions Detail\nDescription CUSIPPay Date Amount\n2")
	group := &model.Group{Account: "42", Issuer: "E*TRADE", Members: []*model.Page{p0, p1}}
	for _, p := range group.Members {
		p.GroupKey = group.Key()
	}

	root := newBuilder().Build([]*model.Page{p0, p1}, []*model.Group{group})
	cons := root.Child("Income").Child(string(model.FormConsolidated1099))
	require.NotNil(t, cons)
	assert.NotNil(t, cons.Child("E*TRADE"))
}

func TestMemberTitles(t *testing.T) {
	title, extras := memberTitles("1099-DIV Dividends & Distributions Detail\nDescription CUSIPPay Date\nOrdinary dividends $ 5.00")
	assert.Equal(t, "1099-DIV Description", title)
	assert.Empty(t, extras)

	title, _ = memberTitles("1099-INT Interest Income\nDescription CUSIPPay Date\n1 Interest income $ 0.00")
	assert.Equal(t, "1099-INT (all zero)", title)

	title, _ = memberTitles("1099-INT Interest Income\nDescription CUSIPPay Date\n1 Interest income $ 14.20")
	assert.Equal(t, "1099-INT Description", title)

	title, extras = memberTitles("Summary page with no amounts")
	assert.Empty(t, title)
	assert.Empty(t, extras)
}

func TestBuild_AllZeroInterest(t *testing.T) {
	p := classified("bank.pdf", 0, 0, model.CategoryIncome, model.Form1099INT,
		"Form 1099-INT Interest Income\n1 Interest income $ 0.00\n2 Early withdrawal penalty $ 0.00")

	root := newBuilder().Build([]*model.Page{p}, nil)
	node := root.Child("Income").Child(string(model.Form1099INT))
	require.NotNil(t, node)
	require.Len(t, node.Children, 1)
	assert.Equal(t, "1099-INT (all zero)", node.Children[0].Title)
}

func TestBuild_PartnershipsByEIN(t *testing.T) {
	a := classified("a.pdf", 0, 0, model.CategoryIncome, model.FormK1, "Acme Partners LLC\nSchedule K-1 (Form 1065)\nEIN: 12-3456789")
	b := classified("b.pdf", 0, 1, model.CategoryIncome, model.FormK1, "Beta Holdings LP\nSchedule K-1 (Form 1065)\nEIN: 98-7654321")
	a2 := classified("c.pdf", 0, 2, model.CategoryIncome, model.FormK1, "Acme Partners LLC\nSupplemental\nEIN: 12-3456789")

	root := newBuilder().Build([]*model.Page{a, b, a2}, nil)
	k1 := root.Child("Income").Child(string(model.FormK1))
	require.NotNil(t, k1)
	require.Equal(t, []string{
		"Form 1065 – (EIN 12-3456789)",
		"Form 1065 – (EIN 98-7654321)",
	}, titlesOf(k1.Children))

	acme := k1.Children[0].Child("Acme Partners LLC")
	require.NotNil(t, acme)
	require.Len(t, acme.Children, 2)
	assert.Empty(t, acme.Children[0].Title)
	assert.NotNil(t, k1.Children[1].Child("Beta Holdings LP"))
}

func TestBuild_FormLabels(t *testing.T) {
	sf := classified("w2a.pdf", 0, 0, model.CategoryIncome, model.FormW2, "Form W-2 Wage and Tax Statement\nSALESFORCE, INC.")
	plain := classified("w2b.pdf", 0, 1, model.CategoryIncome, model.FormW2, "Form W-2 Wage and Tax Statement")
	tax := classified("tax.pdf", 0, 2, model.CategoryExpenses, model.FormPropertyTax, "Real estate tax bill")

	root := newBuilder().Build([]*model.Page{plain, sf, tax}, nil)
	w2 := root.Child("Income").Child(string(model.FormW2))
	require.NotNil(t, w2)
	assert.Equal(t, []string{"SALESFORCE, INC", "W-2#2"}, titlesOf(w2.Children))

	prop := root.Child("Expenses").Child(string(model.FormPropertyTax))
	require.NotNil(t, prop)
	assert.Equal(t, []string{"Property Tax"}, titlesOf(prop.Children))
}

func TestBuild_ChildCareNeedsTaxID(t *testing.T) {
	withID := classified("cc1.pdf", 0, 0, model.CategoryExpenses, model.FormChildCare, "Little Oak Preschool\nFederal Tax ID 12-3456789")
	withoutID := classified("cc2.pdf", 0, 1, model.CategoryExpenses, model.FormChildCare, "Receipt\nWeekly tuition paid")

	root := newBuilder().Build([]*model.Page{withID, withoutID}, nil)
	node := root.Child("Expenses").Child(string(model.FormChildCare))
	require.NotNil(t, node)
	assert.Equal(t, []string{"Little Oak Preschool", ""}, titlesOf(node.Children))
}

func TestBuild_OthersOrder(t *testing.T) {
	cov := classified("c.pdf", 0, 0, model.CategoryOthers, model.Form1095C, "Form 1095-C Employer-Provided Health Insurance Offer")
	unused := classified("u.pdf", 0, 1, model.CategoryUnknown, model.FormUnused, "grocery list")
	fileDup := classified("d2.pdf", 0, 2, model.CategoryUnknown, model.FormUnused, "")
	fileDup.Duplicate = model.DuplicateFile
	pageDup := classified("d1.pdf", 0, 3, model.CategoryIncome, model.FormW2, "Form W-2")
	pageDup.Duplicate = model.DuplicatePage

	root := newBuilder().Build([]*model.Page{cov, unused, fileDup, pageDup}, nil)
	require.Equal(t, []string{"Others"}, titlesOf(root.Children))

	others := root.Child("Others")
	assert.Equal(t, []string{SectionUnused, SectionDuplicate, "1095-C"}, titlesOf(others.Children))

	dups := others.Child(SectionDuplicate)
	require.Len(t, dups.Children, 2)
	assert.Equal(t, pageDup.Ref, *dups.Children[0].Page)
	assert.Equal(t, fileDup.Ref, *dups.Children[1].Page)

	assert.Equal(t, []string{"1095-C – Employer-Provided Coverage"}, titlesOf(others.Child("1095-C").Children))
}

func TestBuild_NoEmptySections(t *testing.T) {
	root := newBuilder().Build(nil, nil)
	assert.Empty(t, root.Children)

	p := classified("a.pdf", 0, 0, model.CategoryIncome, model.FormW2, "Form W-2")
	root = newBuilder().Build([]*model.Page{p}, []*model.Group{{Account: "1", Members: nil}})
	income := root.Child("Income")
	require.NotNil(t, income)
	assert.Nil(t, income.Child(string(model.FormConsolidated1099)))
}

func TestBuild_TitleVoting(t *testing.T) {
	p := classified("w2.pdf", 0, 0, model.CategoryIncome, model.FormW2, "Form W-2 Wage and Tax Statement\nfcaus llc")
	p.Variants = []model.Variant{
		{Backend: "text", Text: "Form W-2 Wage and Tax Statement\nfcaus llc"},
		{Backend: "layout", Text: "Form W-2 Wage and Tax Statement\nSALESFORCE, INC."},
		{Backend: "ocr", Text: "Form W-2 Wage and Tax Statement\nSALESFORCE INC"},
		{Backend: "junk", Text: "Grocery list"},
	}

	root := newBuilder().Build([]*model.Page{p}, nil)
	w2 := root.Child("Income").Child(string(model.FormW2))
	require.NotNil(t, w2)
	assert.Equal(t, "SALESFORCE, INC", w2.Children[0].Title)
}

func TestBuild_Deterministic(t *testing.T) {
	mk := func() []*model.Page {
		return []*model.Page{
			classified("b.pdf", 0, 0, model.CategoryIncome, model.Form1099DIV, "Form 1099-DIV"),
			classified("a.pdf", 1, 1, model.CategoryIncome, model.FormW2, "Form W-2"),
			classified("a.pdf", 0, 2, model.CategoryExpenses, model.Form1098T, "University of Example"),
		}
	}
	first := newBuilder().Build(mk(), nil)
	second := newBuilder().Build(mk(), nil)

	var a, b []model.PageRef
	for _, l := range first.Leaves() {
		a = append(a, *l.Page)
	}
	for _, l := range second.Leaves() {
		b = append(b, *l.Page)
	}
	assert.Equal(t, a, b)
	assert.Len(t, a, 3)
}

func TestFormat(t *testing.T) {
	root := NewRoot()
	income := Section("Income")
	w2 := Section("W-2")
	w2.AddPage(model.PageRef{Path: "/in/w2.pdf", Index: 0}, "ACME", "1099-INT")
	w2.AddPage(model.PageRef{Path: "/in/w2.pdf", Index: 1}, "")
	income.Adopt(w2)
	root.Adopt(income)

	assert.Equal(t, "Income\n  W-2\n    ACME [w2.pdf p1] +1099-INT\n    · w2.pdf p2\n", Format(root))
	assert.Empty(t, Format(NewRoot()))
}
