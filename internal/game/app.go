// Package game wires the catalogs, session machine, scoring and progress
// store behind the intent API the presentation layer drives. One App holds
// the current screen and the active attempt; a single mutex serializes every
// intent and every timer callback, which realizes the engine's cooperative
// single-threaded model.
package game

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/kamogawa/shibahunt/internal/breeds"
	"github.com/kamogawa/shibahunt/internal/levels"
	"github.com/kamogawa/shibahunt/internal/progress"
	"github.com/kamogawa/shibahunt/internal/scoring"
	"github.com/kamogawa/shibahunt/internal/session"
)

// Screen selects which external view the presentation layer should show.
type Screen string

const (
	ScreenHome        Screen = "home"
	ScreenLevelSelect Screen = "levelSelect"
	ScreenGame        Screen = "game"
	ScreenCatalog     Screen = "catalogView"
)

const (
	tickInterval  = time.Second
	autoHomeDelay = 3000 * time.Millisecond
)

// StarTable builds the scoring table for a level catalog: per-level triples
// where the level defines them, the scoring default elsewhere.
func StarTable(cat *levels.Catalog) *scoring.Table {
	tbl := scoring.NewTable(scoring.DefaultThresholds)
	for i := 0; i < cat.Count(); i++ {
		if s := cat.Get(i).Stars; s != nil {
			tbl.Set(i, scoring.Thresholds(*s))
		}
	}
	return tbl
}

// Options configures an App. Zero fields fall back to the built-in catalogs,
// real timers, a time-seeded sampler and the default logger. Store is
// required.
type Options struct {
	Levels    *levels.Catalog
	Breeds    *breeds.Catalog
	Sampler   *breeds.Sampler
	Stars     *scoring.Table
	Store     *progress.Store
	Scheduler session.Scheduler
	Logger    *slog.Logger
}

// App is the screen orchestrator.
type App struct {
	mu sync.Mutex

	log     *slog.Logger
	levels  *levels.Catalog
	breeds  *breeds.Catalog
	sampler *breeds.Sampler
	stars   *scoring.Table
	store   *progress.Store
	sched   session.Scheduler

	screen  Screen
	machine *session.Machine
	newBest bool
	card    *session.Entity

	tickTimer     session.Timer
	tickGen       uint64
	autoHomeTimer session.Timer
	autoHomeGen   uint64
}

// New creates an App on the home screen.
func New(opts Options) *App {
	if opts.Levels == nil {
		opts.Levels = levels.Default()
	}
	if opts.Breeds == nil {
		opts.Breeds = breeds.Default()
	}
	if opts.Sampler == nil {
		opts.Sampler = breeds.NewSampler(opts.Breeds, rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	if opts.Stars == nil {
		opts.Stars = StarTable(opts.Levels)
	}
	if opts.Scheduler == nil {
		opts.Scheduler = session.RealScheduler()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &App{
		log:     opts.Logger,
		levels:  opts.Levels,
		breeds:  opts.Breeds,
		sampler: opts.Sampler,
		stars:   opts.Stars,
		store:   opts.Store,
		sched:   opts.Scheduler,
		screen:  ScreenHome,
	}
}

// serialScheduler hands the session machine scheduled callbacks that run
// under the App mutex, so marker expiry can never interleave with a click.
type serialScheduler struct{ app *App }

func (s serialScheduler) AfterFunc(d time.Duration, f func()) session.Timer {
	return s.app.sched.AfterFunc(d, func() {
		s.app.mu.Lock()
		defer s.app.mu.Unlock()
		f()
	})
}

// SelectLevel instantiates a fresh session for the level and switches to the
// game screen. An out-of-range index navigates home instead of failing.
func (a *App) SelectLevel(index int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selectLevelLocked(index)
}

// StartGame starts the timer of the current attempt. No-op without a Ready
// session.
func (a *App) StartGame() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.machine == nil {
		return
	}
	a.machine.Start()
	if a.machine.IsPlaying() && a.tickTimer == nil {
		a.armTick()
	}
}

// ClickEntity processes a click on a hidden entity. Discovery registration,
// the all-found check and the resulting completion bookkeeping happen
// synchronously before this returns.
func (a *App) ClickEntity(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.machine == nil {
		return
	}

	res := a.machine.ClickEntity(id)
	if !res.Found {
		return
	}

	entity := res.Entity
	a.card = &entity
	a.store.RecordDiscovery(entity.BreedID)

	if res.Completed {
		a.stopTick()
		_, newBest := a.store.RecordCompletion(a.machine.LevelIndex(), res.Elapsed)
		a.newBest = newBest
		if a.machine.LevelIndex() == a.levels.Count()-1 {
			a.armAutoHome()
		}
	}
}

// ClickBackground records a transient mis-click marker.
func (a *App) ClickBackground(x, y float64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.machine != nil {
		a.machine.ClickBackground(x, y)
	}
}

// DismissCard closes the found-breed card popup.
func (a *App) DismissCard() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.card = nil
}

// AdvanceLevel moves to the next level, or home after the last one.
func (a *App) AdvanceLevel() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.machine == nil {
		a.goHomeLocked()
		return
	}
	current := a.machine.LevelIndex()
	if current < a.levels.Count()-1 {
		a.selectLevelLocked(current + 1)
	} else {
		a.goHomeLocked()
	}
}

// GoHome discards the session and returns to the home screen.
func (a *App) GoHome() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.goHomeLocked()
}

// OpenLevelSelect navigates to the level chooser.
func (a *App) OpenLevelSelect() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cancelAutoHome()
	a.teardownSession()
	a.screen = ScreenLevelSelect
}

// OpenCatalog navigates to the breed catalog view.
func (a *App) OpenCatalog() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.cancelAutoHome()
	a.teardownSession()
	a.screen = ScreenCatalog
}

// ResetProgress clears all durable progress.
func (a *App) ResetProgress() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.store.Reset()
}

// PersistErr reports the progress store's most recent persist failure, nil
// when the last write succeeded. Play continues either way; this is a
// diagnostics surface.
func (a *App) PersistErr() error {
	return a.store.LastPersistErr()
}

// Screen returns the current screen tag.
func (a *App) Screen() Screen {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.screen
}

// ---- internals (callers hold a.mu) ----

func (a *App) selectLevelLocked(index int) {
	a.cancelAutoHome()
	if index < 0 || index >= a.levels.Count() {
		a.log.Warn("level index out of range, navigating home", "index", index, "levels", a.levels.Count())
		a.teardownSession()
		a.screen = ScreenHome
		return
	}
	a.teardownSession()
	lvl := a.levels.Get(index)
	entities := session.Instantiate(index, lvl, a.sampler)
	a.machine = session.NewMachine(index, entities, serialScheduler{a})
	a.newBest = false
	a.screen = ScreenGame
}

func (a *App) goHomeLocked() {
	a.cancelAutoHome()
	a.teardownSession()
	a.screen = ScreenHome
}

func (a *App) teardownSession() {
	a.stopTick()
	if a.machine != nil {
		a.machine.Teardown()
		a.machine = nil
	}
	a.card = nil
	a.newBest = false
}

func (a *App) armTick() {
	a.tickGen++
	gen := a.tickGen
	a.tickTimer = a.sched.AfterFunc(tickInterval, func() { a.onTick(gen) })
}

func (a *App) onTick(gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Stop cannot unschedule a callback already in flight; a callback armed
	// for an earlier session must neither tick the current one nor re-arm.
	if gen != a.tickGen {
		return
	}
	if a.machine == nil || !a.machine.IsPlaying() {
		a.tickTimer = nil
		return
	}
	a.machine.Tick()
	a.armTick()
}

func (a *App) stopTick() {
	a.tickGen++
	if a.tickTimer != nil {
		a.tickTimer.Stop()
		a.tickTimer = nil
	}
}

func (a *App) armAutoHome() {
	a.autoHomeGen++
	gen := a.autoHomeGen
	a.autoHomeTimer = a.sched.AfterFunc(autoHomeDelay, func() {
		a.mu.Lock()
		defer a.mu.Unlock()

		if gen != a.autoHomeGen {
			return
		}
		a.autoHomeTimer = nil
		// The player may have navigated away before the delay fired; a stale
		// navigation must not override a manual one.
		if a.screen != ScreenGame || a.machine == nil || !a.machine.IsSuccess() {
			return
		}
		a.goHomeLocked()
	})
}

func (a *App) cancelAutoHome() {
	a.autoHomeGen++
	if a.autoHomeTimer != nil {
		a.autoHomeTimer.Stop()
		a.autoHomeTimer = nil
	}
}
