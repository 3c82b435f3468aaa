// Package session owns one level attempt: the concrete hidden entities bound
// from slots, the play/success state machine, the elapsed-seconds counter and
// the transient mis-click markers.
package session

import (
	"fmt"
	"math"

	"github.com/kamogawa/shibahunt/internal/breeds"
	"github.com/kamogawa/shibahunt/internal/levels"
)

// Entity is one clickable hidden target. Its ID is the join key for the
// found set and click targeting, stable for the lifetime of one
// instantiation.
type Entity struct {
	ID         string        `json:"id"`
	X          float64       `json:"x"`
	Y          float64       `json:"y"`
	Size       float64       `json:"size"`
	BreedID    string        `json:"breedId"`
	Name       string        `json:"name"`
	Image      string        `json:"image"`
	Silhouette string        `json:"silhouette"`
	Hint       string        `json:"hint"`
	Rarity     breeds.Rarity `json:"rarity"`
}

// Instantiate binds each slot of a level to a freshly sampled breed. Ids take
// the form "<levelIndex>-<slotIndex>". Replaying a level re-instantiates:
// new ids, new breed assignment, no carried-over found state.
func Instantiate(levelIndex int, lvl levels.Level, sampler *breeds.Sampler) []Entity {
	entities := make([]Entity, len(lvl.Slots))
	for i, slot := range lvl.Slots {
		b := sampler.Sample()
		entities[i] = Entity{
			ID:         fmt.Sprintf("%d-%d", levelIndex, i),
			X:          slot.X,
			Y:          slot.Y,
			Size:       slot.Size,
			BreedID:    b.ID,
			Name:       b.Name,
			Image:      b.Image,
			Silhouette: b.Silhouette,
			Hint:       b.Hint,
			Rarity:     b.Rarity,
		}
	}
	return entities
}

const (
	// placementMargin keeps shuffled entities away from the scene edges, in
	// percent.
	placementMargin = 5.0
	// minSeparation is the desired pairwise distance between entity centers,
	// in percent-space.
	minSeparation = 8.0
	// maxPlacementAttempts bounds the rejection sampling per entity. When the
	// budget runs out the last attempted position is accepted, overlap and
	// all. Separation is a soft constraint: under high density it is not
	// guaranteed.
	maxPlacementAttempts = 50
)

// ShufflePositions repositions entities uniformly within
// [margin, 100-margin] on both axes, retrying up to the attempt budget to
// keep pairwise distance >= minSeparation. Identity, size and breed are
// untouched; only coordinates change.
func ShufflePositions(entities []Entity, rng breeds.FloatSource) []Entity {
	out := make([]Entity, len(entities))
	placed := make([][2]float64, 0, len(entities))

	for i, e := range entities {
		var x, y float64
		for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
			x = rng.Float64()*(100-placementMargin*2) + placementMargin
			y = rng.Float64()*(100-placementMargin*2) + placementMargin
			if separated(placed, x, y) {
				break
			}
		}
		placed = append(placed, [2]float64{x, y})

		out[i] = e
		out[i].X = x
		out[i].Y = y
	}
	return out
}

func separated(placed [][2]float64, x, y float64) bool {
	for _, p := range placed {
		if math.Hypot(p[0]-x, p[1]-y) < minSeparation {
			return false
		}
	}
	return true
}
