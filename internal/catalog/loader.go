package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/defect-triage/internal/model"
)

// file is the on-disk YAML layout of a catalog.
type file struct {
	Categories []fileCategory       `yaml:"categories"`
	Fallbacks  []model.FallbackRule `yaml:"fallbacks,omitempty"`
}

type fileCategory struct {
	Weight   *float64 `yaml:"weight,omitempty"`
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords,flow"`
}

// Load reads a catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML catalog. An omitted weight defaults to 1.0.
func Parse(r io.Reader) (*Catalog, error) {
	var raw file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if err == io.EOF {
			return New(nil, nil)
		}
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	cats := make([]model.Category, 0, len(raw.Categories))
	for _, fc := range raw.Categories {
		weight := model.DefaultWeight
		if fc.Weight != nil {
			weight = *fc.Weight
		}
		cats = append(cats, model.Category{
			Name:     fc.Name,
			Keywords: fc.Keywords,
			Weight:   weight,
		})
	}

	return New(cats, raw.Fallbacks)
}

// Encode writes c as YAML in the layout Parse accepts.
func Encode(w io.Writer, c *Catalog) error {
	raw := file{Fallbacks: c.Fallbacks()}
	for _, cat := range c.Categories() {
		weight := cat.Weight
		raw.Categories = append(raw.Categories, fileCategory{
			Name:     cat.Name,
			Weight:   &weight,
			Keywords: cat.Keywords,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(raw); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return enc.Close()
}
