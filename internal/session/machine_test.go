package session

import (
	"testing"
	"time"
)

func twoEntities() []Entity {
	return []Entity{
		{ID: "0-0", BreedID: "aka"},
		{ID: "0-1", BreedID: "kuro"},
	}
}

func TestStartOnlyFromReady(t *testing.T) {
	m := NewMachine(0, twoEntities(), NewManualScheduler())

	if m.State() != Ready {
		t.Fatalf("new machine must be Ready, got %v", m.State())
	}

	m.Start()
	if m.State() != Playing {
		t.Fatalf("expected Playing after Start, got %v", m.State())
	}

	// Start is a no-op outside Ready.
	m.ClickEntity("0-0")
	m.ClickEntity("0-1")
	if m.State() != Success {
		t.Fatalf("expected Success, got %v", m.State())
	}
	m.Start()
	if m.State() != Success {
		t.Errorf("Start from Success must be a no-op, got %v", m.State())
	}
}

func TestTickOnlyWhilePlaying(t *testing.T) {
	m := NewMachine(0, twoEntities(), NewManualScheduler())

	m.Tick()
	if m.Elapsed() != 0 {
		t.Errorf("tick in Ready must not accumulate, elapsed=%d", m.Elapsed())
	}

	m.Start()
	m.Tick()
	m.Tick()
	if m.Elapsed() != 2 {
		t.Errorf("expected elapsed 2, got %d", m.Elapsed())
	}

	m.ClickEntity("0-0")
	m.ClickEntity("0-1")
	m.Tick()
	if m.Elapsed() != 2 {
		t.Errorf("tick in Success must not accumulate, elapsed=%d", m.Elapsed())
	}
}

func TestClickEntityIdempotent(t *testing.T) {
	m := NewMachine(0, twoEntities(), NewManualScheduler())
	m.Start()

	first := m.ClickEntity("0-0")
	if !first.Found {
		t.Fatalf("expected first click to find")
	}
	second := m.ClickEntity("0-0")
	if second.Found || second.Completed {
		t.Errorf("duplicate click must be a no-op, got %+v", second)
	}
	if m.FoundCount() != 1 {
		t.Errorf("expected found count 1, got %d", m.FoundCount())
	}
}

func TestClickUnknownIDIsNoop(t *testing.T) {
	m := NewMachine(0, twoEntities(), NewManualScheduler())
	m.Start()

	res := m.ClickEntity("9-9")
	if res.Found || res.Completed {
		t.Errorf("unknown id click must be a no-op, got %+v", res)
	}
	if m.FoundCount() != 0 {
		t.Errorf("expected empty found set, got %d", m.FoundCount())
	}
}

func TestCompletionTriggersExactlyOnce(t *testing.T) {
	m := NewMachine(0, twoEntities(), NewManualScheduler())
	m.Start()
	for i := 0; i < 5; i++ {
		m.Tick()
	}

	res := m.ClickEntity("0-0")
	if res.Completed {
		t.Fatalf("completion must not fire before the last entity")
	}
	for i := 0; i < 7; i++ {
		m.Tick()
	}

	res = m.ClickEntity("0-1")
	if !res.Completed {
		t.Fatalf("completion must fire on the last distinct entity")
	}
	if res.Elapsed != 12 {
		t.Errorf("expected completion time 12, got %d", res.Elapsed)
	}

	// Stale clicks after Success change nothing.
	res = m.ClickEntity("0-0")
	if res.Found || res.Completed {
		t.Errorf("click after Success must be a no-op, got %+v", res)
	}
}

func TestMarkersExpireIndividually(t *testing.T) {
	sched := NewManualScheduler()
	m := NewMachine(0, twoEntities(), sched)
	m.Start()

	m.ClickBackground(10, 20)
	sched.Advance(600 * time.Millisecond)
	m.ClickBackground(30, 40)

	if len(m.Markers()) != 2 {
		t.Fatalf("expected 2 markers, got %d", len(m.Markers()))
	}

	// First marker expires at 1200ms, second at 1800ms.
	sched.Advance(700 * time.Millisecond)
	got := m.Markers()
	if len(got) != 1 {
		t.Fatalf("expected 1 marker after first expiry, got %d", len(got))
	}
	if got[0].X != 30 || got[0].Y != 40 {
		t.Errorf("wrong marker survived: %+v", got[0])
	}

	sched.Advance(600 * time.Millisecond)
	if len(m.Markers()) != 0 {
		t.Errorf("expected all markers expired, got %d", len(m.Markers()))
	}
}

func TestMarkerIgnoredOutsidePlaying(t *testing.T) {
	m := NewMachine(0, twoEntities(), NewManualScheduler())

	m.ClickBackground(10, 10)
	if len(m.Markers()) != 0 {
		t.Errorf("marker in Ready must be ignored")
	}

	m.Start()
	m.ClickEntity("0-0")
	m.ClickEntity("0-1")
	m.ClickBackground(10, 10)
	if len(m.Markers()) != 0 {
		t.Errorf("marker in Success must be ignored")
	}
}

func TestResetCancelsMarkerTimers(t *testing.T) {
	sched := NewManualScheduler()
	m := NewMachine(0, twoEntities(), sched)
	m.Start()
	m.Tick()
	m.ClickEntity("0-0")
	m.ClickBackground(50, 50)

	m.Reset()

	if m.State() != Ready {
		t.Errorf("expected Ready after reset, got %v", m.State())
	}
	if m.Elapsed() != 0 || m.FoundCount() != 0 || len(m.Markers()) != 0 {
		t.Errorf("reset must clear elapsed/found/markers")
	}
	if sched.Pending() != 0 {
		t.Errorf("reset must cancel pending marker timers, %d left", sched.Pending())
	}

	// A cancelled expiry must not act on the new attempt.
	sched.Advance(2 * time.Second)
	m.Start()
	m.ClickBackground(1, 2)
	if len(m.Markers()) != 1 {
		t.Errorf("expected the new attempt's marker to survive, got %d", len(m.Markers()))
	}
}

func TestTeardown(t *testing.T) {
	sched := NewManualScheduler()
	m := NewMachine(0, twoEntities(), sched)
	m.Start()
	m.ClickBackground(5, 5)

	m.Teardown()

	if m.State() != Idle {
		t.Errorf("expected Idle after teardown, got %v", m.State())
	}
	if sched.Pending() != 0 {
		t.Errorf("teardown must cancel pending timers, %d left", sched.Pending())
	}
}
