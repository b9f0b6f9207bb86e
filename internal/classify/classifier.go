// Package classify maps page text to a tax form category and type with an
// ordered decision list, and carries the helper detectors the bookmark tree
// relies on: boilerplate, nonzero amount gates, multi-form pages and account numbers.
package classify

import (
	"github.com/a3tai/taxdoc-binder/internal/model"
)

// FallbackRule names the terminal decision when no rule matches
const FallbackRule = "fallback"

// Classifier evaluates a decision list of rules. It holds no mutable state and
// is safe for concurrent use.
type Classifier struct {
	rules []Rule
}

// New creates a classifier with the default decision list
func New() *Classifier {
	return &Classifier{rules: defaultRules()}
}

// NewWithRules creates a classifier over a caller-supplied decision list
func NewWithRules(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify returns the result of the first matching rule, or Unknown/Unused
func (c *Classifier) Classify(text string) model.Result {
	res, _ := c.Explain(text)
	return res
}

// Explain classifies text and also reports the name of the rule that decided it
func (c *Classifier) Explain(text string) (model.Result, string) {
	t := NewText(text)
	for _, r := range c.rules {
		if r.Match(t) {
			return r.Result, r.Name
		}
	}
	return model.Unused, FallbackRule
}

// Rules returns the rule names in evaluation order
func (c *Classifier) Rules() []string {
	names := make([]string, len(c.rules))
	for i, r := range c.rules {
		names[i] = r.Name
	}
	return names
}
