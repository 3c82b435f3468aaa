// Package scoring maps completion times to star ratings and aggregates
// per-level stars into a total. All functions are pure; the threshold table
// is fixed at construction.
package scoring

// Thresholds is an ascending [t3, t2, t1] triple of completion times in
// seconds: t ≤ t3 earns 3 stars, t ≤ t2 earns 2, t ≤ t1 earns 1, else 0.
type Thresholds [3]int

// DefaultThresholds applies to levels without a specific triple.
var DefaultThresholds = Thresholds{30, 60, 90}

// Table holds per-level threshold overrides over a default triple.
type Table struct {
	byLevel map[int]Thresholds
	def     Thresholds
}

// NewTable creates a table with the given default triple.
func NewTable(def Thresholds) *Table {
	return &Table{byLevel: make(map[int]Thresholds), def: def}
}

// Set overrides the thresholds for one level.
func (t *Table) Set(level int, th Thresholds) {
	t.byLevel[level] = th
}

// For returns the thresholds in effect for a level.
func (t *Table) For(level int) Thresholds {
	if th, ok := t.byLevel[level]; ok {
		return th
	}
	return t.def
}

// StarsFor rates a completion time for a level. The result is in {0,1,2,3}
// and is non-increasing in seconds.
func (t *Table) StarsFor(level, seconds int) int {
	th := t.For(level)
	switch {
	case seconds <= th[0]:
		return 3
	case seconds <= th[1]:
		return 2
	case seconds <= th[2]:
		return 1
	default:
		return 0
	}
}

// TotalStars sums the rating of every recorded best time. It recomputes from
// scratch on every call; the durable record stores the result only as a
// cache.
func (t *Table) TotalStars(bestTimes map[int]int) int {
	total := 0
	for level, seconds := range bestTimes {
		total += t.StarsFor(level, seconds)
	}
	return total
}
