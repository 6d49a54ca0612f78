// Package town implements the town progression engine: town-wide stats and
// the seeded catalogs of buildings, areas, residents, events and special
// buildings whose unlock state advances as habits are completed.
package town

import (
	"sync"

	"github.com/julianstephens/habitown/internal/logger"
	"github.com/julianstephens/habitown/internal/models"
)

// Town is the town progression engine. Every operation holds the town's
// lock for its full duration.
type Town struct {
	mu sync.Mutex

	stats            models.TownStats
	buildings        []models.Building
	areas            []models.Area
	residents        []models.Resident
	events           []models.TownEvent
	specialBuildings []models.SpecialBuilding
}

// New returns a town in its seed state.
func New() *Town {
	t := &Town{}
	t.restore(Seed())
	return t
}

// Stats returns the current town stats.
func (t *Town) Stats() models.TownStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// Buildings returns the building catalog in catalog order.
func (t *Town) Buildings() []models.Building {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.Building(nil), t.buildings...)
}

// Areas returns the area catalog in catalog order.
func (t *Town) Areas() []models.Area {
	t.mu.Lock()
	defer t.mu.Unlock()
	return copyAreas(t.areas, nil)
}

// UnlockedAreas returns the unlocked areas in catalog order.
func (t *Town) UnlockedAreas() []models.Area {
	t.mu.Lock()
	defer t.mu.Unlock()
	return copyAreas(t.areas, func(a models.Area) bool { return a.Unlocked })
}

// Residents returns the resident catalog in catalog order.
func (t *Town) Residents() []models.Resident {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.Resident(nil), t.residents...)
}

// Events returns the event catalog in catalog order.
func (t *Town) Events() []models.TownEvent {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.TownEvent(nil), t.events...)
}

// SpecialBuildings returns the unlocked special buildings in catalog order.
func (t *Town) SpecialBuildings() []models.SpecialBuilding {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := []models.SpecialBuilding{}
	for _, s := range t.specialBuildings {
		if s.Unlocked {
			out = append(out, s)
		}
	}
	return out
}

// AllSpecialBuildings returns every special building, locked or not.
func (t *Town) AllSpecialBuildings() []models.SpecialBuilding {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.SpecialBuilding(nil), t.specialBuildings...)
}

// Snapshot returns a deep copy of the town state.
func (t *Town) Snapshot() models.TownState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

func (t *Town) snapshot() models.TownState {
	return models.TownState{
		Stats:            t.stats,
		Buildings:        append([]models.Building{}, t.buildings...),
		Areas:            copyAreas(t.areas, nil),
		Residents:        append([]models.Resident{}, t.residents...),
		Events:           append([]models.TownEvent{}, t.events...),
		SpecialBuildings: append([]models.SpecialBuilding{}, t.specialBuildings...),
	}
}

// Restore replaces the town state with state. Catalog entries missing from
// state are re-seeded so catalogs added in later versions appear in older
// saves.
func (t *Town) Restore(state models.TownState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.restore(state)
}

func (t *Town) restore(state models.TownState) {
	seed := Seed()

	t.stats = state.Stats
	if t.stats.Level < 1 {
		t.stats = seed.Stats
	}
	t.buildings = mergeCatalog(state.Buildings, seed.Buildings, func(b models.Building) string { return b.ID })
	t.areas = copyAreas(mergeCatalog(state.Areas, seed.Areas, func(a models.Area) string { return a.ID }), nil)
	t.residents = mergeCatalog(state.Residents, seed.Residents, func(r models.Resident) string { return r.ID })
	t.events = mergeCatalog(state.Events, seed.Events, func(e models.TownEvent) string { return e.ID })
	t.specialBuildings = mergeCatalog(state.SpecialBuildings, seed.SpecialBuildings, func(s models.SpecialBuilding) string { return s.ID })
}

// Reset returns the town to its seed state.
func (t *Town) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.restore(Seed())
	logger.Info("Town reset")
}

// mergeCatalog returns stored followed by any seed entries whose id is not
// present in stored.
func mergeCatalog[T any](stored, seed []T, id func(T) string) []T {
	out := make([]T, 0, len(stored)+len(seed))
	seen := make(map[string]bool, len(stored))
	for _, item := range stored {
		seen[id(item)] = true
		out = append(out, item)
	}
	for _, item := range seed {
		if !seen[id(item)] {
			out = append(out, item)
		}
	}
	return out
}

func copyAreas(areas []models.Area, keep func(models.Area) bool) []models.Area {
	out := []models.Area{}
	for _, a := range areas {
		if keep != nil && !keep(a) {
			continue
		}
		a.Buildings = append([]string{}, a.Buildings...)
		out = append(out, a)
	}
	return out
}
