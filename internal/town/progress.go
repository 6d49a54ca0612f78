package town

import (
	"github.com/julianstephens/habitown/internal/constants"
	"github.com/julianstephens/habitown/internal/logger"
)

// Outcome describes what a habit completion did to the town.
type Outcome struct {
	HabitID        string `json:"habitId"`
	Streak         int    `json:"streak"`
	ExperienceGain int    `json:"experienceGain"`
	CoinsGain      int    `json:"coinsGain"`
	HappinessGain  int    `json:"happinessGain"` // before capping at MaxHappiness
	PopulationGain int    `json:"populationGain"`
	LeveledUp      bool   `json:"leveledUp"`
	Level          int    `json:"level"`

	UnlockedBuildings        []string `json:"unlockedBuildings,omitempty"`
	UnlockedAreas            []string `json:"unlockedAreas,omitempty"`
	UnlockedSpecialBuildings []string `json:"unlockedSpecialBuildings,omitempty"`
}

// Unlocked reports whether the completion unlocked anything.
func (o Outcome) Unlocked() bool {
	return len(o.UnlockedBuildings)+len(o.UnlockedAreas)+len(o.UnlockedSpecialBuildings) > 0
}

// ExperienceGain is the experience a completion earns at the given streak.
func ExperienceGain(streak int) int {
	return constants.BaseExperienceGain + streak*constants.StreakExperienceFactor
}

// LevelFor is the town level for an experience total.
func LevelFor(experience int) int {
	return experience/constants.ExperiencePerLevel + 1
}

// CompleteHabit grants the rewards for one completion of habitID whose
// current streak is streak, then unlocks every building, area and special
// building whose condition now holds, in that order. bestStreak is the
// highest current streak across all habits and decides special buildings.
func (t *Town) CompleteHabit(habitID string, streak, bestStreak int) Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()

	streak = max(streak, 0)
	bestStreak = max(bestStreak, streak)
	out := Outcome{
		HabitID:        habitID,
		Streak:         streak,
		ExperienceGain: ExperienceGain(streak),
	}

	newExperience := t.stats.Experience + out.ExperienceGain
	newLevel := LevelFor(newExperience)
	out.LeveledUp = newLevel > t.stats.Level
	if out.LeveledUp {
		out.CoinsGain = constants.CoinsPerLevelUp
		out.HappinessGain = constants.HappinessPerLevelUp
	} else {
		out.CoinsGain = constants.CoinsPerCompletion
		out.HappinessGain = constants.HappinessPerCompletion
	}

	t.stats.Experience = newExperience
	t.stats.Level = newLevel
	t.stats.Coins += out.CoinsGain
	t.stats.Happiness = min(constants.MaxHappiness, t.stats.Happiness+out.HappinessGain)
	out.Level = newLevel

	population := t.stats.Population
	out.UnlockedBuildings = t.checkBuildingUnlocks()
	out.UnlockedAreas = t.checkAreaUnlocks()
	out.UnlockedSpecialBuildings = t.checkSpecialBuildingUnlocks(bestStreak)
	out.PopulationGain = t.stats.Population - population

	logger.Debug("Town rewarded completion",
		"habit_id", habitID,
		"streak", streak,
		"best_streak", bestStreak,
		"experience", t.stats.Experience,
		"level", t.stats.Level,
		"leveled_up", out.LeveledUp,
	)
	if out.Unlocked() {
		logger.Info("Town unlocks",
			"buildings", out.UnlockedBuildings,
			"areas", out.UnlockedAreas,
			"special_buildings", out.UnlockedSpecialBuildings,
		)
	}
	return out
}

// checkBuildingUnlocks unlocks every locked building whose cost the town
// level covers (level >= cost/100).
func (t *Town) checkBuildingUnlocks() []string {
	var unlocked []string
	for i := range t.buildings {
		b := &t.buildings[i]
		if !b.Unlocked && t.stats.Level*constants.BuildingCostPerLevel >= b.Cost {
			t.unlockBuilding(i)
			unlocked = append(unlocked, b.ID)
		}
	}
	return unlocked
}

func (t *Town) checkAreaUnlocks() []string {
	var unlocked []string
	for i := range t.areas {
		a := &t.areas[i]
		if !a.Unlocked && t.stats.Level >= a.RequiredLevel {
			a.Unlocked = true
			unlocked = append(unlocked, a.ID)
		}
	}
	return unlocked
}

func (t *Town) checkSpecialBuildingUnlocks(streak int) []string {
	var unlocked []string
	for i := range t.specialBuildings {
		s := &t.specialBuildings[i]
		if !s.Unlocked && streak >= s.RequiredStreak {
			t.unlockSpecialBuilding(i)
			unlocked = append(unlocked, s.ID)
		}
	}
	return unlocked
}

// unlockBuilding flips the building at i to unlocked and settles its
// population bonus. The caller ensures it was locked.
func (t *Town) unlockBuilding(i int) {
	t.buildings[i].Unlocked = true
	t.stats.Population += t.buildings[i].PopulationBonus
}

func (t *Town) unlockSpecialBuilding(i int) {
	t.specialBuildings[i].Unlocked = true
	t.stats.Population += t.specialBuildings[i].PopulationBonus
}
