// Package levels holds the static level registry: where hidden slots sit in
// each scene and how the scene behaves (camouflage settings, star thresholds).
package levels

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed levels.yaml
var levelsYAML []byte

// Theme identifies the scene's background family.
type Theme string

const (
	ThemeForest     Theme = "forest"
	ThemeDesert     Theme = "desert"
	ThemeSnow       Theme = "snow"
	ThemeLibrary    Theme = "library"
	ThemeNight      Theme = "night"
	ThemeWatercolor Theme = "watercolor"
)

// Slot is a spatial placeholder for one hidden entity. X and Y are percent
// coordinates in [0,100] so placement is resolution independent; Size is in
// pixels.
type Slot struct {
	X    float64 `yaml:"x" json:"x"`
	Y    float64 `yaml:"y" json:"y"`
	Size float64 `yaml:"size" json:"size"`
}

// Level is one scene definition. Immutable after catalog load.
//
// Stars, when present, is the ascending [t3, t2, t1] threshold triple for the
// star rating: completion within t3 seconds earns 3 stars, within t2 earns 2,
// within t1 earns 1, slower earns 0. Levels without a triple use the scoring
// default.
type Level struct {
	Name       string  `yaml:"name" json:"name"`
	Background string  `yaml:"background" json:"background"`
	Theme      Theme   `yaml:"theme" json:"theme"`
	Difficulty string  `yaml:"difficulty" json:"difficulty,omitempty"`
	Stars      *[3]int `yaml:"stars" json:"stars,omitempty"`
	Slots      []Slot  `yaml:"slots" json:"slots"`
}

// Setting tunes the presentation of one theme. The engine only consumes
// DiscoveryTime (it seeds default difficulty expectations); the rest is
// forwarded untouched to the renderer.
type Setting struct {
	MouseEffectRadius int     `yaml:"mouse_effect_radius" json:"mouseEffectRadius"`
	BaseOpacity       float64 `yaml:"base_opacity" json:"baseOpacity"`
	DiscoveryTime     int     `yaml:"discovery_time" json:"discoveryTime"`
	Sound             string  `yaml:"sound" json:"sound"`
}

// Catalog is the ordered, immutable set of levels.
type Catalog struct {
	levels   []Level
	settings map[Theme]Setting
}

type catalogFile struct {
	Levels   []Level           `yaml:"levels"`
	Settings map[Theme]Setting `yaml:"settings"`
}

// NewCatalog validates level definitions and builds the catalog.
func NewCatalog(list []Level, settings map[Theme]Setting) (*Catalog, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("level catalog is empty")
	}

	for i, lvl := range list {
		if lvl.Name == "" {
			return nil, fmt.Errorf("level %d has empty name", i)
		}
		if len(lvl.Slots) == 0 {
			return nil, fmt.Errorf("level %d (%s) has no slots", i, lvl.Name)
		}
		for j, s := range lvl.Slots {
			if s.X < 0 || s.X > 100 || s.Y < 0 || s.Y > 100 {
				return nil, fmt.Errorf("level %d slot %d position (%v, %v) outside [0,100]", i, j, s.X, s.Y)
			}
			if s.Size <= 0 {
				return nil, fmt.Errorf("level %d slot %d has non-positive size %v", i, j, s.Size)
			}
		}
		if lvl.Stars != nil {
			t := *lvl.Stars
			if t[0] <= 0 || t[0] >= t[1] || t[1] >= t[2] {
				return nil, fmt.Errorf("level %d star thresholds %v not positive ascending", i, t)
			}
		}
	}

	cloned := make([]Level, len(list))
	copy(cloned, list)

	return &Catalog{levels: cloned, settings: settings}, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in level catalog parsed from the embedded data.
func Default() *Catalog {
	defaultOnce.Do(func() {
		var file catalogFile
		if err := yaml.Unmarshal(levelsYAML, &file); err != nil {
			panic(fmt.Sprintf("levels: embedded catalog invalid: %v", err))
		}
		cat, err := NewCatalog(file.Levels, file.Settings)
		if err != nil {
			panic(fmt.Sprintf("levels: embedded catalog invalid: %v", err))
		}
		defaultCatalog = cat
	})
	return defaultCatalog
}

// Count returns the number of levels.
func (c *Catalog) Count() int { return len(c.levels) }

// Get returns the level at index i. Callers bounds-check against Count; the
// orchestrator redirects out-of-range navigation instead of calling Get.
func (c *Catalog) Get(i int) Level { return c.levels[i] }

// SettingFor returns the camouflage setting for a theme. Unknown themes get
// the zero Setting; the renderer treats that as "no effect".
func (c *Catalog) SettingFor(theme Theme) Setting { return c.settings[theme] }
