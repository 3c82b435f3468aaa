package game

import (
	"github.com/kamogawa/shibahunt/internal/breeds"
	"github.com/kamogawa/shibahunt/internal/levels"
	"github.com/kamogawa/shibahunt/internal/session"
)

// View is the read-only snapshot the presentation layer renders from. Exactly
// one of the screen payloads is set, matching Screen.
type View struct {
	Screen      Screen           `json:"screen"`
	Home        *HomeView        `json:"home,omitempty"`
	LevelSelect *LevelSelectView `json:"levelSelect,omitempty"`
	Game        *GameView        `json:"game,omitempty"`
	Catalog     *CatalogView     `json:"catalogView,omitempty"`
}

// HomeView summarizes overall progress for the title screen.
type HomeView struct {
	CompletedLevels  int `json:"completedLevels"`
	TotalLevels      int `json:"totalLevels"`
	TotalStars       int `json:"totalStars"`
	DiscoveredBreeds int `json:"discoveredBreeds"`
	TotalBreeds      int `json:"totalBreeds"`
}

// LevelSelectEntry describes one level tile in the chooser.
type LevelSelectEntry struct {
	Index      int          `json:"index"`
	Name       string       `json:"name"`
	Theme      levels.Theme `json:"theme"`
	Difficulty string       `json:"difficulty,omitempty"`
	SlotCount  int          `json:"slotCount"`
	Completed  bool         `json:"completed"`
	BestTime   *int         `json:"bestTime,omitempty"`
	Stars      int          `json:"stars"`
}

// LevelSelectView lists every level with its per-level progress.
type LevelSelectView struct {
	Levels     []LevelSelectEntry `json:"levels"`
	TotalStars int                `json:"totalStars"`
}

// GameEntity is one hidden entity plus its found flag.
type GameEntity struct {
	session.Entity
	Found bool `json:"found"`
}

// GameView is the full snapshot of the active attempt.
type GameView struct {
	LevelIndex    int              `json:"levelIndex"`
	LevelName     string           `json:"levelName"`
	Background    string           `json:"background"`
	Theme         levels.Theme     `json:"theme"`
	Difficulty    string           `json:"difficulty,omitempty"`
	Setting       levels.Setting   `json:"setting"`
	Entities      []GameEntity     `json:"entities"`
	FoundCount    int              `json:"foundCount"`
	TotalEntities int              `json:"totalEntities"`
	Elapsed       int              `json:"elapsed"`
	IsPlaying     bool             `json:"isPlaying"`
	IsSuccess     bool             `json:"isSuccess"`
	IsNewBest     bool             `json:"isNewBest"`
	IsLastLevel   bool             `json:"isLastLevel"`
	Markers       []session.Marker `json:"markers"`
	Card          *session.Entity  `json:"card,omitempty"`
}

// CatalogBreed is one catalog entry with its discovery flag and accent color.
type CatalogBreed struct {
	breeds.Breed
	Discovered bool   `json:"discovered"`
	Color      string `json:"color"`
}

// CatalogView lists the full breed catalog.
type CatalogView struct {
	Breeds          []CatalogBreed `json:"breeds"`
	DiscoveredCount int            `json:"discoveredCount"`
	TotalBreeds     int            `json:"totalBreeds"`
}

// View builds the snapshot for the current screen.
func (a *App) View() View {
	a.mu.Lock()
	defer a.mu.Unlock()

	v := View{Screen: a.screen}
	switch a.screen {
	case ScreenHome:
		v.Home = a.homeView()
	case ScreenLevelSelect:
		v.LevelSelect = a.levelSelectView()
	case ScreenGame:
		v.Game = a.gameView()
	case ScreenCatalog:
		v.Catalog = a.catalogView()
	}
	return v
}

func (a *App) homeView() *HomeView {
	rec := a.store.Record()
	return &HomeView{
		CompletedLevels:  len(rec.CompletedLevels),
		TotalLevels:      a.levels.Count(),
		TotalStars:       rec.TotalStars,
		DiscoveredBreeds: len(rec.DiscoveredBreeds),
		TotalBreeds:      a.breeds.Len(),
	}
}

func (a *App) levelSelectView() *LevelSelectView {
	rec := a.store.Record()
	entries := make([]LevelSelectEntry, a.levels.Count())
	for i := range entries {
		lvl := a.levels.Get(i)
		entry := LevelSelectEntry{
			Index:      i,
			Name:       lvl.Name,
			Theme:      lvl.Theme,
			Difficulty: lvl.Difficulty,
			SlotCount:  len(lvl.Slots),
			Completed:  rec.LevelCompleted(i),
		}
		if best, ok := rec.BestTimes[i]; ok {
			b := best
			entry.BestTime = &b
			entry.Stars = a.stars.StarsFor(i, best)
		}
		entries[i] = entry
	}
	return &LevelSelectView{Levels: entries, TotalStars: rec.TotalStars}
}

func (a *App) gameView() *GameView {
	if a.machine == nil {
		return nil
	}

	idx := a.machine.LevelIndex()
	lvl := a.levels.Get(idx)

	raw := a.machine.Entities()
	entities := make([]GameEntity, len(raw))
	for i, e := range raw {
		entities[i] = GameEntity{Entity: e, Found: a.machine.IsFound(e.ID)}
	}

	return &GameView{
		LevelIndex:    idx,
		LevelName:     lvl.Name,
		Background:    lvl.Background,
		Theme:         lvl.Theme,
		Difficulty:    lvl.Difficulty,
		Setting:       a.levels.SettingFor(lvl.Theme),
		Entities:      entities,
		FoundCount:    a.machine.FoundCount(),
		TotalEntities: len(raw),
		Elapsed:       a.machine.Elapsed(),
		IsPlaying:     a.machine.IsPlaying(),
		IsSuccess:     a.machine.IsSuccess(),
		IsNewBest:     a.newBest,
		IsLastLevel:   idx == a.levels.Count()-1,
		Markers:       a.machine.Markers(),
		Card:          a.card,
	}
}

func (a *App) catalogView() *CatalogView {
	rec := a.store.Record()
	all := a.breeds.All()
	out := make([]CatalogBreed, len(all))
	for i, b := range all {
		out[i] = CatalogBreed{
			Breed:      b,
			Discovered: rec.BreedDiscovered(b.ID),
			Color:      breeds.RarityColors[b.Rarity],
		}
	}
	return &CatalogView{
		Breeds:          out,
		DiscoveredCount: len(rec.DiscoveredBreeds),
		TotalBreeds:     len(all),
	}
}
