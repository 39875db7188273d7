package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/defect-triage/internal/catalog"
	"github.com/Veraticus/defect-triage/internal/categorize"
	"github.com/Veraticus/defect-triage/internal/config"
	"github.com/Veraticus/defect-triage/internal/pipeline"
)

func presetNames() []string {
	return catalog.PresetNames()
}

// loadCatalog returns the catalog file when one is configured, otherwise the
// named preset.
func loadCatalog(cfg config.CatalogConfig) (*catalog.Catalog, error) {
	if cfg.Path != "" {
		c, err := catalog.Load(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog %s: %w", cfg.Path, err)
		}
		slog.Debug("Loaded catalog file", "path", cfg.Path, "categories", c.Len())
		return c, nil
	}
	return catalog.Preset(cfg.Preset)
}

// newCategorizer builds the categorizer described by cfg.
func newCategorizer(cfg config.CatalogConfig) (*categorize.Categorizer, error) {
	c, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	strategy, err := categorize.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	return categorize.New(c, categorize.WithStrategy(strategy)), nil
}

// newPipeline wires a categorizer into a pipeline using the configured columns.
func newPipeline(cfg config.CatalogConfig, c categorize.TextCategorizer, opts ...pipeline.Option) *pipeline.Pipeline {
	base := []pipeline.Option{
		pipeline.WithSummaryColumn(cfg.SummaryColumn),
		pipeline.WithOutputColumn(cfg.OutputColumn),
		pipeline.WithStrictColumns(cfg.StrictColumns),
		pipeline.WithLogger(slog.Default()),
	}
	return pipeline.New(c, append(base, opts...)...)
}
