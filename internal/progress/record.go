package progress

// Record is the single durable progress record for an installation.
//
// TotalStars is a derived cache over BestTimes. It is recomputed on every
// load and every mutation; a persisted value is never trusted on its own, so
// the rating formula can change between versions without drift.
type Record struct {
	CompletedLevels  []int       `json:"completedLevels"`
	BestTimes        map[int]int `json:"bestTimes"`
	DiscoveredBreeds []string    `json:"discoveredBreeds"`
	TotalStars       int         `json:"totalStars"`
}

// EmptyRecord returns the zero-progress record used on first run and after a
// reset.
func EmptyRecord() Record {
	return Record{
		CompletedLevels:  []int{},
		BestTimes:        map[int]int{},
		DiscoveredBreeds: []string{},
	}
}

// Clone returns an independent copy of the record.
func (r Record) Clone() Record {
	out := Record{
		CompletedLevels:  make([]int, len(r.CompletedLevels)),
		BestTimes:        make(map[int]int, len(r.BestTimes)),
		DiscoveredBreeds: make([]string, len(r.DiscoveredBreeds)),
		TotalStars:       r.TotalStars,
	}
	copy(out.CompletedLevels, r.CompletedLevels)
	copy(out.DiscoveredBreeds, r.DiscoveredBreeds)
	for k, v := range r.BestTimes {
		out.BestTimes[k] = v
	}
	return out
}

// LevelCompleted reports whether a level index is in the completed set.
func (r Record) LevelCompleted(level int) bool {
	for _, l := range r.CompletedLevels {
		if l == level {
			return true
		}
	}
	return false
}

// BreedDiscovered reports whether a breed id is in the discovered set.
func (r Record) BreedDiscovered(id string) bool {
	for _, b := range r.DiscoveredBreeds {
		if b == id {
			return true
		}
	}
	return false
}

// normalize replaces nil collections left by JSON decoding of partial
// records.
func (r *Record) normalize() {
	if r.CompletedLevels == nil {
		r.CompletedLevels = []int{}
	}
	if r.BestTimes == nil {
		r.BestTimes = map[int]int{}
	}
	if r.DiscoveredBreeds == nil {
		r.DiscoveredBreeds = []string{}
	}
}
