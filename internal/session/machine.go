package session

import (
	"time"

	"github.com/google/uuid"
)

// State names the phase of one level attempt.
type State int

const (
	// Idle means no level is loaded (the machine has been torn down).
	Idle State = iota
	// Ready means entities are instantiated but the timer has not started.
	Ready
	// Playing means the timer is running and clicks are live.
	Playing
	// Success is terminal for the attempt: every entity has been found.
	Success
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Success:
		return "success"
	default:
		return "unknown"
	}
}

// MarkerTTL is how long a mis-click marker stays visible.
const MarkerTTL = 1200 * time.Millisecond

// Marker is one transient mis-click indicator. Purely a UI affordance; it
// never influences scoring or transitions.
type Marker struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// ClickResult describes the outcome of an entity click.
type ClickResult struct {
	Entity    Entity
	Found     bool // the click newly found an entity
	Completed bool // the click completed the level
	Elapsed   int  // completion time, valid when Completed
}

// Machine tracks one in-progress level attempt. It is not internally
// synchronized: the orchestrator serializes every operation, including
// scheduler callbacks, which realizes the engine's single-threaded
// cooperative model. Every operation is total; clicks outside Playing and
// duplicate clicks are no-ops, never errors.
type Machine struct {
	levelIndex int
	entities   []Entity
	found      map[string]struct{}
	elapsed    int
	state      State
	markers    []Marker

	sched        Scheduler
	markerTimers map[string]Timer
}

// NewMachine creates a machine in Ready state over an instantiated entity
// set.
func NewMachine(levelIndex int, entities []Entity, sched Scheduler) *Machine {
	return &Machine{
		levelIndex:   levelIndex,
		entities:     entities,
		found:        make(map[string]struct{}),
		state:        Ready,
		sched:        sched,
		markerTimers: make(map[string]Timer),
	}
}

// Start begins the attempt. No-op unless the machine is Ready.
func (m *Machine) Start() {
	if m.state == Ready {
		m.state = Playing
	}
}

// Tick advances the elapsed-seconds counter. The orchestrator calls it once
// per second while Playing; outside Playing it does nothing, so no background
// accumulation is possible.
func (m *Machine) Tick() {
	if m.state == Playing {
		m.elapsed++
	}
}

// ClickEntity processes a click on the entity with the given id. Clicking an
// already-found entity, an unknown id, or clicking outside Playing is a
// no-op. Finding the last entity transitions to Success atomically with this
// call; Completed and Elapsed report the completion to the caller.
func (m *Machine) ClickEntity(id string) ClickResult {
	if m.state != Playing {
		return ClickResult{}
	}
	if _, already := m.found[id]; already {
		return ClickResult{}
	}

	var entity Entity
	known := false
	for _, e := range m.entities {
		if e.ID == id {
			entity = e
			known = true
			break
		}
	}
	if !known {
		return ClickResult{}
	}

	m.found[id] = struct{}{}
	res := ClickResult{Entity: entity, Found: true}

	if len(m.found) == len(m.entities) {
		m.state = Success
		res.Completed = true
		res.Elapsed = m.elapsed
	}
	return res
}

// ClickBackground records a mis-click marker at (x, y) and schedules its
// removal after MarkerTTL. Each marker owns its timer; expiry removes only
// that marker. No-op outside Playing.
func (m *Machine) ClickBackground(x, y float64) {
	if m.state != Playing {
		return
	}

	id := uuid.NewString()
	m.markers = append(m.markers, Marker{ID: id, X: x, Y: y})
	m.markerTimers[id] = m.sched.AfterFunc(MarkerTTL, func() {
		m.expireMarker(id)
	})
}

func (m *Machine) expireMarker(id string) {
	delete(m.markerTimers, id)
	for i, mk := range m.markers {
		if mk.ID == id {
			m.markers = append(m.markers[:i], m.markers[i+1:]...)
			return
		}
	}
}

// Reset returns the machine to Ready: empty found set, zero elapsed time, no
// markers. Pending marker timers are cancelled so no expiry from the previous
// attempt leaks into the new one.
func (m *Machine) Reset() {
	m.cancelMarkerTimers()
	m.found = make(map[string]struct{})
	m.elapsed = 0
	m.markers = nil
	m.state = Ready
}

// Teardown cancels all scheduled work and parks the machine in Idle. Called
// when the session ends (level change or home navigation).
func (m *Machine) Teardown() {
	m.cancelMarkerTimers()
	m.markers = nil
	m.state = Idle
}

func (m *Machine) cancelMarkerTimers() {
	for id, t := range m.markerTimers {
		t.Stop()
		delete(m.markerTimers, id)
	}
}

// LevelIndex returns the level this attempt is bound to.
func (m *Machine) LevelIndex() int { return m.levelIndex }

// State returns the current phase.
func (m *Machine) State() State { return m.state }

// IsPlaying reports whether the timer is live.
func (m *Machine) IsPlaying() bool { return m.state == Playing }

// IsSuccess reports whether the attempt has completed.
func (m *Machine) IsSuccess() bool { return m.state == Success }

// Elapsed returns the elapsed whole seconds of the attempt.
func (m *Machine) Elapsed() int { return m.elapsed }

// Entities returns the attempt's entity set in slot order.
func (m *Machine) Entities() []Entity {
	out := make([]Entity, len(m.entities))
	copy(out, m.entities)
	return out
}

// IsFound reports whether the entity id is in the found set.
func (m *Machine) IsFound(id string) bool {
	_, ok := m.found[id]
	return ok
}

// FoundCount returns the size of the found set.
func (m *Machine) FoundCount() int { return len(m.found) }

// Markers returns the live mis-click markers in insertion order.
func (m *Machine) Markers() []Marker {
	out := make([]Marker, len(m.markers))
	copy(out, m.markers)
	return out
}
