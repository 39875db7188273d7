// Package model defines the core data structures for the triage application.
package model

import (
	"fmt"
	"strings"
)

// Sentinel category and well-known column names.
const (
	// Uncategorized is assigned when no keyword evidence matched a record.
	Uncategorized = "Uncategorized"
	// SummaryColumn holds the free-text defect description.
	SummaryColumn = "Defect Summary"
	// PredictedColumn receives the assigned category.
	PredictedColumn = "Predicted Feature"
	// DefaultWeight is used when a catalog entry does not set one.
	DefaultWeight = 1.0
)

// Category represents a named bucket of defect types defined by a keyword list.
type Category struct {
	Name     string   `json:"name" yaml:"name"`
	Keywords []string `json:"keywords" yaml:"keywords"`
	Weight   float64  `json:"weight" yaml:"weight"`
}

// Validate ensures the category can take part in scoring.
func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("category name is required")
	}
	if len(c.Keywords) == 0 {
		return fmt.Errorf("category %q must have at least one keyword", c.Name)
	}
	for i, kw := range c.Keywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("category %q has a blank keyword at index %d", c.Name, i)
		}
	}
	if c.Weight <= 0 {
		return fmt.Errorf("category %q weight must be positive, got %.2f", c.Name, c.Weight)
	}
	return nil
}

// Clone returns a copy that shares no memory with c.
func (c Category) Clone() Category {
	out := c
	out.Keywords = append([]string(nil), c.Keywords...)
	return out
}

// FallbackRule maps a group of coarse trigger keywords to a category. Rules are
// only consulted when no weighted keyword scored.
type FallbackRule struct {
	Category string   `json:"category" yaml:"category"`
	Triggers []string `json:"triggers" yaml:"triggers"`
}

// Validate ensures the rule names a category and has triggers.
func (r FallbackRule) Validate() error {
	if strings.TrimSpace(r.Category) == "" {
		return fmt.Errorf("fallback category is required")
	}
	if len(r.Triggers) == 0 {
		return fmt.Errorf("fallback %q must have at least one trigger", r.Category)
	}
	for i, tr := range r.Triggers {
		if strings.TrimSpace(tr) == "" {
			return fmt.Errorf("fallback %q has a blank trigger at index %d", r.Category, i)
		}
	}
	return nil
}

// Clone returns a copy that shares no memory with r.
func (r FallbackRule) Clone() FallbackRule {
	out := r
	out.Triggers = append([]string(nil), r.Triggers...)
	return out
}
