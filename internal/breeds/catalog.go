// Package breeds holds the static breed registry and the weighted sampler
// used to assign a breed to each hidden slot when a level starts.
package breeds

import (
	_ "embed"
	"fmt"
	"math"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed breeds.yaml
var breedsYAML []byte

// Rarity classifies how often a breed is expected to appear.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// RarityColors maps each rarity class to its accent color. UI aid only; the
// engine never branches on it.
var RarityColors = map[Rarity]string{
	RarityCommon:    "#9CA3AF",
	RarityUncommon:  "#10B981",
	RarityRare:      "#3B82F6",
	RarityLegendary: "#F59E0B",
}

// Breed is one character archetype. Immutable after catalog load.
type Breed struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Rarity      Rarity  `yaml:"rarity" json:"rarity"`
	Weight      float64 `yaml:"weight" json:"weight"`
	Image       string  `yaml:"image" json:"image"`
	Silhouette  string  `yaml:"silhouette" json:"silhouette"`
	Hint        string  `yaml:"hint" json:"hint"`
	Description string  `yaml:"description" json:"description"`
}

// Catalog is an ordered, immutable set of breeds. Order is stable so the
// sampler's weight walk is deterministic for a given random draw.
type Catalog struct {
	list        []Breed
	byID        map[string]Breed
	totalWeight float64
}

// NewCatalog validates the breed list and builds lookup structures.
func NewCatalog(list []Breed) (*Catalog, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("breed catalog is empty")
	}

	byID := make(map[string]Breed, len(list))
	total := 0.0
	for i, b := range list {
		if b.ID == "" {
			return nil, fmt.Errorf("breed at index %d has empty id", i)
		}
		if _, dup := byID[b.ID]; dup {
			return nil, fmt.Errorf("duplicate breed id %q", b.ID)
		}
		if b.Weight <= 0 || math.IsInf(b.Weight, 0) || math.IsNaN(b.Weight) {
			return nil, fmt.Errorf("breed %q has invalid weight %v", b.ID, b.Weight)
		}
		switch b.Rarity {
		case RarityCommon, RarityUncommon, RarityRare, RarityLegendary:
		default:
			return nil, fmt.Errorf("breed %q has unknown rarity %q", b.ID, b.Rarity)
		}
		byID[b.ID] = b
		total += b.Weight
	}

	cloned := make([]Breed, len(list))
	copy(cloned, list)

	return &Catalog{list: cloned, byID: byID, totalWeight: total}, nil
}

type catalogFile struct {
	Breeds []Breed `yaml:"breeds"`
}

func parseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse breed catalog: %w", err)
	}
	return NewCatalog(file.Breeds)
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in breed catalog parsed from the embedded data.
// The embedded file ships with the binary, so a parse failure is a build
// defect and panics at first use.
func Default() *Catalog {
	defaultOnce.Do(func() {
		cat, err := parseCatalog(breedsYAML)
		if err != nil {
			panic(fmt.Sprintf("breeds: embedded catalog invalid: %v", err))
		}
		defaultCatalog = cat
	})
	return defaultCatalog
}

// All returns the breeds in catalog order.
func (c *Catalog) All() []Breed {
	out := make([]Breed, len(c.list))
	copy(out, c.list)
	return out
}

// ByID looks up a breed by its identifier.
func (c *Catalog) ByID(id string) (Breed, bool) {
	b, ok := c.byID[id]
	return b, ok
}

// Len returns the number of breeds in the catalog.
func (c *Catalog) Len() int { return len(c.list) }

// TotalWeight returns the sum of all spawn weights.
func (c *Catalog) TotalWeight() float64 { return c.totalWeight }
