// Package titles resolves friendly bookmark titles (employer, payer, lender,
// trustee or provider names) from the text of a classified page.
package titles

import (
	"strings"
	"sync"

	"github.com/a3tai/taxdoc-binder/internal/model"
)

// noiseSuffix is dropped from every resolved title
const noiseSuffix = ", N.A"

// Resolver extracts a display title from page text. ok is false when the
// text carries no usable name and the caller should fall back to a form label.
type Resolver interface {
	Resolve(text string) (title string, ok bool)
}

// ResolverFunc adapts a plain function to the Resolver interface
type ResolverFunc func(text string) (string, bool)

// Resolve calls f(text)
func (f ResolverFunc) Resolve(text string) (string, bool) {
	return f(text)
}

// Registry maps form types to their title resolvers
type Registry struct {
	mu        sync.RWMutex
	resolvers map[model.FormType]Resolver
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{resolvers: make(map[model.FormType]Resolver)}
}

// Default returns a registry with every built-in resolver registered
func Default() *Registry {
	r := NewRegistry()
	r.Register(model.FormW2, ResolverFunc(Employer))
	r.Register(model.Form1099INT, ResolverFunc(InterestPayer))
	r.Register(model.Form1099DIV, ResolverFunc(DividendPayer))
	r.Register(model.Form1099R, ResolverFunc(RetirementPayer))
	r.Register(model.Form1099G, ResolverFunc(GovernmentAgency))
	r.Register(model.Form1099SA, ResolverFunc(HSAPayer))
	r.Register(model.Form1098Mortgage, ResolverFunc(Lender))
	r.Register(model.Form5498SA, ResolverFunc(HSATrustee))
	r.Register(model.Form1098T, ResolverFunc(Institution))
	r.Register(model.Form529Plan, ResolverFunc(SavingsPlan))
	r.Register(model.FormChildCare, ResolverFunc(ChildCareProvider))
	r.Register(model.Form1095C, ResolverFunc(Coverage))
	return r
}

// Register installs or replaces the resolver for a form type
func (r *Registry) Register(form model.FormType, res Resolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolvers[form] = res
}

// Has reports whether a resolver is registered for the form type
func (r *Registry) Has(form model.FormType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.resolvers[form]
	return ok
}

// Resolve runs the form's resolver and cleans the result. Forms without a
// resolver, and resolvers that come back empty, report ok=false.
func (r *Registry) Resolve(form model.FormType, text string) (string, bool) {
	r.mu.RLock()
	res, ok := r.resolvers[form]
	r.mu.RUnlock()
	if !ok {
		return "", false
	}
	title, ok := res.Resolve(text)
	if !ok {
		return "", false
	}
	title = Clean(title)
	return title, title != ""
}

// Clean strips the ", N.A" noise suffix and surrounding whitespace
func Clean(title string) string {
	return strings.TrimSpace(strings.ReplaceAll(title, noiseSuffix, ""))
}

// Vote picks the most frequent candidate. Ties go to the candidate seen first.
func Vote(candidates []string) (string, bool) {
	counts := make(map[string]int, len(candidates))
	best, bestCount := "", 0
	for _, c := range candidates {
		counts[c]++
	}
	for _, c := range candidates {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}
	return best, bestCount > 0
}
