package classify

import (
	"strings"

	"github.com/a3tai/taxdoc-binder/internal/model"
)

// Labels produced for pages inside a consolidated statement
const (
	LabelIntDivDescription = "1099-INT & DIV Description"
	LabelDivDescription    = "1099-DIV Description"
	LabelIntDescription    = "1099-INT Description"
	LabelIntAllZero        = "1099-INT (all zero)"
)

// Form 8949 check boxes, in the order they are reported
var form8949Boxes = []struct{ phrase, label string }{
	{"box a checked", "ST-A"},
	{"box b checked", "ST-B"},
	{"box c checked", "ST-C"},
	{"box d checked", "LT-D"},
	{"box e checked", "LT-E"},
	{"box f checked", "LT-F"},
}

// ClassifyMulti lists every form detected on a page that may carry several
// forms, as consolidated brokerage statements do.
func ClassifyMulti(text string) []string {
	t := NewText(text)
	lower := t.Lower
	var labels []string

	if Confirmed(model.Form1099B, t.Raw) {
		labels = append(labels, string(model.Form1099B))
	}
	if strings.Contains(lower, "1099-misc") && Confirmed(model.Form1099MISC, t.Raw) {
		labels = append(labels, string(model.Form1099MISC))
	}
	if strings.Contains(lower, "1099-oid") && Confirmed(model.Form1099OID, t.Raw) {
		labels = append(labels, string(model.Form1099OID))
	}
	for _, box := range form8949Boxes {
		if strings.Contains(lower, box.phrase) {
			labels = append(labels, box.label)
		}
	}

	hasInt := strings.Contains(lower, "1099-int") && Confirmed(model.Form1099INT, t.Raw)
	hasDiv := (strings.Contains(lower, "total ordinary dividends") || strings.Contains(lower, "qualified dividends")) &&
		Confirmed(model.Form1099DIV, t.Raw)

	switch {
	case hasInt && hasDiv && combinedSummary(lower):
		labels = append(labels, LabelIntDivDescription)
	case hasInt && hasDiv:
		labels = append(labels, string(model.Form1099INT), string(model.Form1099DIV))
	case hasInt:
		labels = append(labels, string(model.Form1099INT))
	case hasDiv:
		labels = append(labels, string(model.Form1099DIV))
	}

	return dropSupersededBroker(labels)
}

func combinedSummary(lower string) bool {
	if strings.Contains(lower, "total federal income tax withheld") &&
		strings.Contains(lower, "total interest income 1099-int box 1") {
		return true
	}
	return strings.Contains(lower, "total qualified dividends") && strings.Contains(lower, "interest income")
}

// dropSupersededBroker removes 1099-B when Form 8949 box labels describe the same page
func dropSupersededBroker(labels []string) []string {
	hasBox := false
	for _, l := range labels {
		if strings.Contains(l, "ST-") || strings.Contains(l, "LT-") {
			hasBox = true
			break
		}
	}
	if !hasBox {
		return labels
	}
	out := labels[:0]
	for _, l := range labels {
		if l != string(model.Form1099B) {
			out = append(out, l)
		}
	}
	return out
}

// ClassifyDivInt recognizes the detail sections of a consolidated statement.
// It returns 1099-DIV, 1099-INT, or an empty form type.
func ClassifyDivInt(text string) model.FormType {
	lower := NewText(text).Lower
	if !strings.Contains(lower, "description cusippay") {
		return ""
	}
	if strings.Contains(lower, "1099-div") &&
		strings.Contains(lower, "dividends & distributions") &&
		strings.Contains(lower, "ordinary dividends") {
		return model.Form1099DIV
	}
	if strings.Contains(lower, "1099-int") && strings.Contains(lower, "interest income") {
		return model.Form1099INT
	}
	return ""
}

// Without returns labels minus every occurrence of drop
func Without(labels []string, drop string) []string {
	var out []string
	for _, l := range labels {
		if l != drop {
			out = append(out, l)
		}
	}
	return out
}
