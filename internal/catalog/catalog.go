// Package catalog holds the keyword catalog that drives defect categorization.
package catalog

import (
	"fmt"
	"strings"

	"github.com/Veraticus/defect-triage/internal/common"
	"github.com/Veraticus/defect-triage/internal/model"
)

// Catalog is an immutable, validated set of categories plus the ordered
// fallback chain consulted when no keyword scores.
type Catalog struct {
	categories []model.Category
	fallbacks  []model.FallbackRule
}

// New validates the categories and fallback rules and returns a catalog.
// Keywords and triggers are normalized to lowercase. Fallback rules may name
// categories that are not part of the weighted catalog.
func New(categories []model.Category, fallbacks []model.FallbackRule) (*Catalog, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: at least one category is required", common.ErrInvalidCatalog)
	}

	seen := make(map[string]struct{}, len(categories))
	cats := make([]model.Category, 0, len(categories))
	for _, c := range categories {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrInvalidCatalog, err)
		}
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", common.ErrInvalidCatalog, c.Name)
		}
		seen[c.Name] = struct{}{}

		nc := c.Clone()
		for i, kw := range nc.Keywords {
			nc.Keywords[i] = strings.ToLower(kw)
		}
		cats = append(cats, nc)
	}

	rules := make([]model.FallbackRule, 0, len(fallbacks))
	for _, r := range fallbacks {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrInvalidCatalog, err)
		}
		nr := r.Clone()
		for i, tr := range nr.Triggers {
			nr.Triggers[i] = strings.ToLower(tr)
		}
		rules = append(rules, nr)
	}

	return &Catalog{categories: cats, fallbacks: rules}, nil
}

// MustNew is like New but panics on an invalid catalog. Intended for presets.
func MustNew(categories []model.Category, fallbacks []model.FallbackRule) *Catalog {
	c, err := New(categories, fallbacks)
	if err != nil {
		panic(err)
	}
	return c
}

// Categories returns a copy of the categories in definition order.
func (c *Catalog) Categories() []model.Category {
	out := make([]model.Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = cat.Clone()
	}
	return out
}

// Fallbacks returns a copy of the fallback chain in evaluation order.
func (c *Catalog) Fallbacks() []model.FallbackRule {
	out := make([]model.FallbackRule, len(c.fallbacks))
	for i, r := range c.fallbacks {
		out[i] = r.Clone()
	}
	return out
}

// Names returns the category names in definition order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.categories))
	for i, cat := range c.categories {
		out[i] = cat.Name
	}
	return out
}

// Len returns the number of weighted categories.
func (c *Catalog) Len() int {
	return len(c.categories)
}
