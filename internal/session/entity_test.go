package session

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/kamogawa/shibahunt/internal/breeds"
	"github.com/kamogawa/shibahunt/internal/levels"
)

func TestInstantiateIDsAndAttributes(t *testing.T) {
	lvl := levels.Default().Get(2) // 4 slots
	sampler := breeds.NewSeededSampler(breeds.Default(), 1)

	entities := Instantiate(2, lvl, sampler)
	if len(entities) != len(lvl.Slots) {
		t.Fatalf("expected %d entities, got %d", len(lvl.Slots), len(entities))
	}

	seen := make(map[string]bool)
	for i, e := range entities {
		want := fmt.Sprintf("2-%d", i)
		if e.ID != want {
			t.Errorf("entity %d: expected id %q, got %q", i, want, e.ID)
		}
		if seen[e.ID] {
			t.Errorf("duplicate entity id %q", e.ID)
		}
		seen[e.ID] = true

		if e.X != lvl.Slots[i].X || e.Y != lvl.Slots[i].Y || e.Size != lvl.Slots[i].Size {
			t.Errorf("entity %d: spatial attributes not copied from slot", i)
		}

		b, ok := breeds.Default().ByID(e.BreedID)
		if !ok {
			t.Fatalf("entity %d: unknown breed id %q", i, e.BreedID)
		}
		if e.Name != b.Name || e.Image != b.Image || e.Rarity != b.Rarity {
			t.Errorf("entity %d: display attributes not copied from breed %q", i, e.BreedID)
		}
	}
}

func TestReinstantiationIsFresh(t *testing.T) {
	lvl := levels.Default().Get(0)
	sampler := breeds.NewSeededSampler(breeds.Default(), 7)

	first := Instantiate(0, lvl, sampler)
	second := Instantiate(0, lvl, sampler)

	// Ids are regenerated per instantiation (same form, new values are fine:
	// the form is positional). Breed assignment is drawn fresh each time.
	if len(first) != len(second) {
		t.Fatalf("instantiations differ in size")
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("id form must be positional and stable: %q vs %q", first[i].ID, second[i].ID)
		}
	}
}

func TestShufflePositionsBoundsAndSeparation(t *testing.T) {
	lvl := levels.Default().Get(1) // 3 slots: separation feasible
	sampler := breeds.NewSeededSampler(breeds.Default(), 3)
	entities := Instantiate(1, lvl, sampler)

	rng := rand.New(rand.NewSource(11))
	shuffled := ShufflePositions(entities, rng)

	if len(shuffled) != len(entities) {
		t.Fatalf("expected %d entities, got %d", len(entities), len(shuffled))
	}

	for i, e := range shuffled {
		if e.ID != entities[i].ID || e.BreedID != entities[i].BreedID || e.Size != entities[i].Size {
			t.Errorf("entity %d: shuffle must only move, not relabel", i)
		}
		if e.X < placementMargin || e.X > 100-placementMargin ||
			e.Y < placementMargin || e.Y > 100-placementMargin {
			t.Errorf("entity %d: position (%v, %v) outside margins", i, e.X, e.Y)
		}
	}

	// At this density the seeded run has budget to spare, so separation holds.
	for i := 0; i < len(shuffled); i++ {
		for j := i + 1; j < len(shuffled); j++ {
			d := math.Hypot(shuffled[i].X-shuffled[j].X, shuffled[i].Y-shuffled[j].Y)
			if d < minSeparation {
				t.Errorf("entities %d and %d only %.2f apart", i, j, d)
			}
		}
	}
}

func TestShufflePositionsAcceptsOverlapWhenInfeasible(t *testing.T) {
	// Far more entities than an 8%-separated packing of the usable area can
	// hold. The attempt budget must run out and the shuffle must still
	// terminate with every entity placed: separation is a documented soft
	// constraint, not a guarantee.
	entities := make([]Entity, 400)
	for i := range entities {
		entities[i] = Entity{ID: fmt.Sprintf("0-%d", i), Size: 30}
	}

	rng := rand.New(rand.NewSource(5))
	shuffled := ShufflePositions(entities, rng)

	if len(shuffled) != 400 {
		t.Fatalf("expected all 400 entities placed, got %d", len(shuffled))
	}
	for i, e := range shuffled {
		if e.X < placementMargin || e.X > 100-placementMargin ||
			e.Y < placementMargin || e.Y > 100-placementMargin {
			t.Errorf("entity %d: position (%v, %v) outside margins", i, e.X, e.Y)
		}
	}
}
