// Package consolidate groups pages of multi-form brokerage statements by
// account number so the outline can nest them under one account node.
package consolidate

import (
	"log/slog"

	"github.com/a3tai/taxdoc-binder/internal/classify"
	"github.com/a3tai/taxdoc-binder/internal/model"
	"github.com/a3tai/taxdoc-binder/internal/titles"
)

// IssuerFunc extracts a brokerage name from page text
type IssuerFunc func(text string) (string, bool)

// Consolidator builds account groups from classified pages
type Consolidator struct {
	issuer IssuerFunc
	logger *slog.Logger
}

// New creates a consolidator using the built-in issuer extractor
func New(logger *slog.Logger) *Consolidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Consolidator{issuer: titles.Issuer, logger: logger}
}

// WithIssuer replaces the issuer extractor
func (c *Consolidator) WithIssuer(fn IssuerFunc) *Consolidator {
	c.issuer = fn
	return c
}

// Eligible reports whether a page may join an account group
func Eligible(p *model.Page) bool {
	return !p.IsDuplicate() && p.Account != "" && classify.ConsolidationEligible(p.Text)
}

// Consolidate groups eligible pages by account number. Accounts seen on a
// single page are not grouped. Groups come back in order of first appearance
// and members keep the order of pages; each member's GroupKey is set.
func (c *Consolidator) Consolidate(pages []*model.Page) []*model.Group {
	byAccount := make(map[string]*model.Group)
	var order []string
	for _, p := range pages {
		if !Eligible(p) {
			continue
		}
		g, ok := byAccount[p.Account]
		if !ok {
			g = &model.Group{Account: p.Account}
			byAccount[p.Account] = g
			order = append(order, p.Account)
		}
		g.Members = append(g.Members, p)
	}

	var groups []*model.Group
	for _, acct := range order {
		g := byAccount[acct]
		if len(g.Members) < 2 {
			continue
		}
		for _, p := range g.Members {
			if g.Issuer == "" {
				if name, ok := c.issuer(p.Text); ok {
					g.Issuer = titles.Alias(name)
				}
			}
			p.GroupKey = g.Key()
		}
		c.logger.Debug("consolidated account",
			"account", g.Account,
			"issuer", g.Issuer,
			"pages", len(g.Members))
		groups = append(groups, g)
	}
	return groups
}
