// Package catalog holds the static requirement profiles for each certificate
// level and the display labels for the skill dimensions. The catalog is
// defined at deploy time (catalog.yaml, embedded) and is read-only.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"accredit/internal/certification/models"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// TierCount is the number of certificate levels a catalog must declare.
const TierCount = 3

// Catalog is safe for concurrent use; nothing mutates it after Load.
type Catalog struct {
	tiers  []models.RequirementProfile
	byKey  map[models.TierKey]int
	labels map[models.Dimension]string
}

type document struct {
	Dimensions []struct {
		Key   models.Dimension `yaml:"key"`
		Label string           `yaml:"label"`
	} `yaml:"dimensions"`
	Tiers []models.RequirementProfile `yaml:"tiers"`
}

// Default returns the embedded catalog. It panics if the embedded file is
// invalid, which is a build defect.
func Default() *Catalog {
	c, err := Load(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog invalid: %v", err))
	}
	return c
}

// Load parses and validates a catalog document.
func Load(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	labels := make(map[models.Dimension]string, len(doc.Dimensions))
	for _, d := range doc.Dimensions {
		if !d.Key.IsValid() {
			return nil, fmt.Errorf("unknown dimension %q", d.Key)
		}
		if d.Label == "" {
			return nil, fmt.Errorf("dimension %q has no label", d.Key)
		}
		labels[d.Key] = d.Label
	}
	for _, d := range models.Dimensions {
		if _, ok := labels[d]; !ok {
			return nil, fmt.Errorf("dimension %q has no label", d)
		}
	}

	if len(doc.Tiers) != TierCount {
		return nil, fmt.Errorf("catalog declares %d tiers, want exactly %d", len(doc.Tiers), TierCount)
	}
	byKey := make(map[models.TierKey]int, len(doc.Tiers))
	for i, t := range doc.Tiers {
		if err := validateProfile(t); err != nil {
			return nil, fmt.Errorf("tier %q: %w", t.Key, err)
		}
		if _, dup := byKey[t.Key]; dup {
			return nil, fmt.Errorf("duplicate tier %q", t.Key)
		}
		byKey[t.Key] = i
	}

	return &Catalog{tiers: doc.Tiers, byKey: byKey, labels: labels}, nil
}

func validateProfile(t models.RequirementProfile) error {
	switch {
	case t.Key == "":
		return fmt.Errorf("key is required")
	case t.DisplayName == "":
		return fmt.Errorf("displayName is required")
	case t.Price < 0:
		return fmt.Errorf("price must not be negative")
	case t.MinAverageScore < 0 || t.MinAverageScore > 100:
		return fmt.Errorf("minAverageScore must be within 0-100")
	case t.MinDimensionScore < 0 || t.MinDimensionScore > 100:
		return fmt.Errorf("minDimensionScore must be within 0-100")
	case t.MinDimensionsAbove < 0 || t.MinDimensionsAbove > len(models.Dimensions):
		return fmt.Errorf("minDimensionsAbove must be within 0-%d", len(models.Dimensions))
	case (t.MinDimensionsAbove > 0) != (t.MinDimensionScore > 0):
		return fmt.Errorf("minDimensionScore and minDimensionsAbove must be set together")
	}
	for name, v := range map[string]int{
		"minScoredSessions": t.MinScoredSessions,
		"minGroupMoots":     t.MinGroupMoots,
		"minPortfolioSaves": t.MinPortfolioSaves,
		"minAreasOfLaw":     t.MinAreasOfLaw,
		"minStreakDays":     t.MinStreakDays,
		"minPeerFeedback":   t.MinPeerFeedback,
		"minResearchSaves":  t.MinResearchSaves,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

// Lookup returns the profile for key, or models.ErrInvalidTier.
func (c *Catalog) Lookup(key models.TierKey) (models.RequirementProfile, error) {
	i, ok := c.byKey[key]
	if !ok {
		return models.RequirementProfile{}, models.ErrInvalidTier
	}
	return c.tiers[i], nil
}

// All returns every profile in declared order. The slice is a copy.
func (c *Catalog) All() []models.RequirementProfile {
	out := make([]models.RequirementProfile, len(c.tiers))
	copy(out, c.tiers)
	return out
}

// DimensionLabel returns the display label for d, falling back to the key.
func (c *Catalog) DimensionLabel(d models.Dimension) string {
	if label, ok := c.labels[d]; ok {
		return label
	}
	return string(d)
}
