package town

import (
	"github.com/julianstephens/habitown/internal/logger"
)

// UnlockBuilding unlocks a building by id. It reports whether the building
// changed state; unknown or already unlocked buildings are left alone.
func (t *Town) UnlockBuilding(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.buildings {
		if t.buildings[i].ID == id && !t.buildings[i].Unlocked {
			t.unlockBuilding(i)
			logger.Debug("Building unlocked", "building_id", id)
			return true
		}
	}
	return false
}

// UpgradeBuilding raises a building's level by one while it is below its
// max level.
func (t *Town) UpgradeBuilding(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.buildings {
		b := &t.buildings[i]
		if b.ID == id && b.Level < b.MaxLevel {
			b.Level++
			logger.Debug("Building upgraded", "building_id", id, "level", b.Level)
			return true
		}
	}
	return false
}

// UnlockArea unlocks an area by id.
func (t *Town) UnlockArea(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.areas {
		if t.areas[i].ID == id && !t.areas[i].Unlocked {
			t.areas[i].Unlocked = true
			logger.Debug("Area unlocked", "area_id", id)
			return true
		}
	}
	return false
}

// AddResident unlocks a resident by id.
func (t *Town) AddResident(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.residents {
		if t.residents[i].ID == id && !t.residents[i].Unlocked {
			t.residents[i].Unlocked = true
			logger.Debug("Resident added", "resident_id", id)
			return true
		}
	}
	return false
}

// TriggerEvent marks an event active. Its effects are informational and are
// not applied to the town stats.
func (t *Town) TriggerEvent(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.events {
		if t.events[i].ID == id && !t.events[i].Active {
			t.events[i].Active = true
			logger.Debug("Event triggered", "event_id", id)
			return true
		}
	}
	return false
}

// UnlockSpecialBuilding unlocks a special building by id regardless of
// streak.
func (t *Town) UnlockSpecialBuilding(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.specialBuildings {
		if t.specialBuildings[i].ID == id && !t.specialBuildings[i].Unlocked {
			t.unlockSpecialBuilding(i)
			logger.Debug("Special building unlocked", "special_building_id", id)
			return true
		}
	}
	return false
}
