// Package catalog holds the static list of trackable items and the
// preparation checklist, embedded at build time.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/grimoire/internal/model"
)

//go:embed catalog.yaml
var raw []byte

// Preparation is one entry of the preparation checklist.
type Preparation struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

// Catalog is the decoded embedded file.
type Catalog struct {
	Items        []model.Item  `yaml:"items"`
	Preparations []Preparation `yaml:"preparations"`
}

// Default decodes the embedded catalog. Every item starts incomplete.
func Default() (Catalog, error) {
	return Parse(raw)
}

// Parse decodes and validates a catalog document.
func Parse(b []byte) (Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Catalog{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if err := c.validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

func (c Catalog) validate() error {
	seen := make(map[string]struct{}, len(c.Items))
	for i, it := range c.Items {
		if it.ID == "" {
			return fmt.Errorf("item %d: empty id", i)
		}
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("item %q: duplicate id", it.ID)
		}
		seen[it.ID] = struct{}{}
		if !it.Category.Valid() {
			return fmt.Errorf("item %q: unknown category %q", it.ID, it.Category)
		}
		if it.Reward < 0 || it.Points < 0 {
			return fmt.Errorf("item %q: negative reward or points", it.ID)
		}
	}
	prep := make(map[string]struct{}, len(c.Preparations))
	for _, p := range c.Preparations {
		if _, dup := prep[p.ID]; dup || p.ID == "" {
			return fmt.Errorf("preparation %q: empty or duplicate id", p.ID)
		}
		prep[p.ID] = struct{}{}
	}
	return nil
}
