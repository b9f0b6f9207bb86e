package outline

import (
	"math"

	"github.com/a3tai/taxdoc-binder/internal/model"
)

// Tier orders form groups ahead of priority. Pre-grouped statements always
// sort before ordinary forms of the same category.
type Tier int

const (
	TierPreGrouped Tier = iota
	TierNormal
)

// TierOf returns the ordering tier of a form type
func TierOf(form model.FormType) Tier {
	if form == model.FormConsolidated1099 {
		return TierPreGrouped
	}
	return TierNormal
}

// emptyTablePriority is reported for every form by an empty table
const emptyTablePriority = 9999

// PriorityTable ranks form types within a category; lower sorts first
type PriorityTable map[model.FormType]int

// Priority returns the rank of form. Unknown forms sort after every known one.
func (t PriorityTable) Priority(form model.FormType) int {
	if p, ok := t[form]; ok {
		return p
	}
	if len(t) == 0 {
		return emptyTablePriority
	}
	highest := math.MinInt
	for _, p := range t {
		highest = max(highest, p)
	}
	return highest + 1
}

// IncomePriority lists income forms. Several entries are forms the classifier
// does not produce yet; they keep their slots so the order is stable.
var IncomePriority = PriorityTable{
	model.FormW2:               1,
	model.FormConsolidated1099: 2,
	"1099-NEC":                 3,
	"1099-PATR":                4,
	model.Form1099MISC:         5,
	model.Form1099OID:          6,
	model.Form1099G:            7,
	"W-2G":                     8,
	"1065":                     9,
	"1120-S":                   10,
	"1041":                     11,
	model.Form1099INT:          12,
	model.Form1099DIV:          13,
	model.Form1099R:            14,
	"1099-Q":                   15,
	model.FormK1:               16,
	model.Form1099SA:           17,
}

// ExpensesPriority lists deductible expense forms
var ExpensesPriority = PriorityTable{
	model.Form1098Mortgage: 1,
	"1095-A":               2,
	"1095-B":               3,
	"1095-j":               4,
	model.Form5498SA:       5,
	model.Form1098T:        6,
	model.FormPropertyTax:  7,
	model.FormChildCare:    8,
	"1098-Other":           9,
	model.Form529Plan:      10,
}

// OthersPriority lists informational forms shown under Others
var OthersPriority = PriorityTable{
	model.Form1095C: 1,
}

// TableFor returns the priority table of a category. Unknown maps to Others.
func TableFor(cat model.Category) PriorityTable {
	switch cat {
	case model.CategoryIncome:
		return IncomePriority
	case model.CategoryExpenses:
		return ExpensesPriority
	default:
		return OthersPriority
	}
}
