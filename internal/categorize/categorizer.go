package categorize

import (
	"fmt"
	"strings"

	"github.com/Veraticus/defect-triage/internal/catalog"
	"github.com/Veraticus/defect-triage/internal/common"
	"github.com/Veraticus/defect-triage/internal/model"
)

// Strategy selects how keyword evidence picks a category.
type Strategy string

// Available strategies.
const (
	// StrategyWeighted sums keyword credits per category and picks the maximum.
	StrategyWeighted Strategy = "weighted"
	// StrategyFirstMatch picks the first category in catalog order with any hit.
	StrategyFirstMatch Strategy = "first-match"
)

// ParseStrategy validates a strategy name. An empty name selects the weighted strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(name))) {
	case "", StrategyWeighted:
		return StrategyWeighted, nil
	case StrategyFirstMatch:
		return StrategyFirstMatch, nil
	default:
		return "", fmt.Errorf("%w: unknown strategy %q", common.ErrInvalidConfig, name)
	}
}

// Option configures a Categorizer.
type Option func(*Categorizer)

// WithStrategy sets the selection strategy.
func WithStrategy(s Strategy) Option {
	return func(c *Categorizer) {
		c.strategy = s
	}
}

// Categorizer assigns a category to defect text. The zero value is not usable;
// construct one with New.
type Categorizer struct {
	scorer    *Scorer
	strategy  Strategy
	fallbacks []model.FallbackRule
}

// New creates a categorizer over the catalog.
func New(c *catalog.Catalog, opts ...Option) *Categorizer {
	cz := &Categorizer{
		scorer:    NewScorer(c),
		fallbacks: c.Fallbacks(),
		strategy:  StrategyWeighted,
	}
	for _, opt := range opts {
		opt(cz)
	}
	return cz
}

// Strategy reports the configured strategy.
func (c *Categorizer) Strategy() Strategy {
	return c.strategy
}

// Categorize returns the category label for text.
func (c *Categorizer) Categorize(text string) string {
	return c.Assign(text).Category
}

// Assign returns the category for text along with how it was chosen.
func (c *Categorizer) Assign(text string) model.Assignment {
	a, _ := c.explain(text, false)
	return a
}

// Explain returns the assignment and the score table that produced it. The
// table is nil for blank text.
func (c *Categorizer) Explain(text string) (model.Assignment, model.ScoreTable) {
	return c.explain(text, true)
}

func (c *Categorizer) explain(text string, wantTable bool) (model.Assignment, model.ScoreTable) {
	if strings.TrimSpace(text) == "" {
		return model.Assignment{Category: model.Uncategorized, Method: model.MethodBlank}, nil
	}

	lower := strings.ToLower(text)

	var table model.ScoreTable
	if c.strategy == StrategyWeighted || wantTable {
		table = c.scorer.Score(text)
	}

	switch c.strategy {
	case StrategyFirstMatch:
		if hit, ok := c.scorer.firstHit(lower); ok {
			return model.Assignment{Category: hit.Category, Method: model.MethodKeyword, Score: hit.Score}, table
		}
	default:
		if best, ok := table.Best(); ok {
			return model.Assignment{Category: best.Category, Method: model.MethodKeyword, Score: best.Score}, table
		}
	}

	if name, ok := c.fallback(lower); ok {
		return model.Assignment{Category: name, Method: model.MethodFallback}, table
	}

	return model.Assignment{Category: model.Uncategorized, Method: model.MethodNone}, table
}

// fallback walks the chain in order and returns the first rule with a trigger
// substring in lower.
func (c *Categorizer) fallback(lower string) (string, bool) {
	for _, rule := range c.fallbacks {
		for _, trigger := range rule.Triggers {
			if strings.Contains(lower, trigger) {
				return rule.Category, true
			}
		}
	}
	return "", false
}
