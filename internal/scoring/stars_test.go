package scoring

import "testing"

func TestStarsForBoundaries(t *testing.T) {
	tbl := NewTable(Thresholds{30, 60, 90})

	cases := []struct {
		seconds int
		want    int
	}{
		{0, 3},
		{30, 3},
		{31, 2},
		{60, 2},
		{61, 1},
		{90, 1},
		{91, 0},
		{10000, 0},
	}

	for _, tc := range cases {
		if got := tbl.StarsFor(0, tc.seconds); got != tc.want {
			t.Errorf("StarsFor(0, %d): expected %d, got %d", tc.seconds, tc.want, got)
		}
	}
}

func TestStarsForMonotonicity(t *testing.T) {
	tbl := NewTable(DefaultThresholds)
	tbl.Set(1, Thresholds{15, 30, 60})

	for _, level := range []int{0, 1} {
		prev := 3
		for s := 0; s <= 120; s++ {
			got := tbl.StarsFor(level, s)
			if got > prev {
				t.Fatalf("level %d: stars increased from %d to %d at t=%d", level, prev, got, s)
			}
			prev = got
		}
		if tbl.StarsFor(level, 0) != 3 {
			t.Errorf("level %d: expected 3 stars at t=0", level)
		}
	}
}

func TestPerLevelOverrideFallsBackToDefault(t *testing.T) {
	tbl := NewTable(Thresholds{30, 60, 90})
	tbl.Set(2, Thresholds{10, 20, 30})

	if got := tbl.StarsFor(2, 25); got != 1 {
		t.Errorf("override level: expected 1 star at t=25, got %d", got)
	}
	if got := tbl.StarsFor(5, 25); got != 3 {
		t.Errorf("default level: expected 3 stars at t=25, got %d", got)
	}
	if tbl.For(5) != (Thresholds{30, 60, 90}) {
		t.Errorf("expected default thresholds for level 5, got %v", tbl.For(5))
	}
}

func TestTotalStars(t *testing.T) {
	tbl := NewTable(Thresholds{30, 60, 90})
	tbl.Set(1, Thresholds{10, 20, 30})

	best := map[int]int{
		0: 12,  // 3 stars (default triple)
		1: 25,  // 1 star (override triple)
		2: 75,  // 1 star
		3: 999, // 0 stars
	}

	if got := tbl.TotalStars(best); got != 5 {
		t.Errorf("expected 5 total stars, got %d", got)
	}

	if got := tbl.TotalStars(nil); got != 0 {
		t.Errorf("expected 0 total stars for empty map, got %d", got)
	}
}
