package validation

import (
	"fmt"
	"sort"

	"github.com/julianstephens/habitown/internal/constants"
	"github.com/julianstephens/habitown/internal/models"
	"github.com/julianstephens/habitown/internal/utils"
)

// ConflictType represents the type of integrity conflict
type ConflictType string

const (
	ConflictDuplicateHabitID      ConflictType = "duplicate_habit_id"
	ConflictDuplicateCompletion   ConflictType = "duplicate_completion"
	ConflictOrphanedCompletion    ConflictType = "orphaned_completion"
	ConflictProgressDrift         ConflictType = "progress_drift"
	ConflictInvalidDayKey         ConflictType = "invalid_day_key"
	ConflictInvalidHabit          ConflictType = "invalid_habit"
	ConflictLevelMismatch         ConflictType = "level_mismatch"
	ConflictStatOutOfRange        ConflictType = "stat_out_of_range"
	ConflictDuplicateCatalogEntry ConflictType = "duplicate_catalog_entry"
)

// Conflict represents a detected inconsistency in persisted state
type Conflict struct {
	Type        ConflictType
	Description string
	HabitID     string
	Date        string // YYYY-MM-DD format (if applicable)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// CheckHabitState reports invariant violations in a habit-tracker snapshot:
// duplicate ids, more than one completion per habit and day, completions for
// unknown habits, and progress records that disagree with the completions.
func CheckHabitState(state models.HabitState) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	habitIDs := make(map[string]bool, len(state.Habits))
	for _, h := range state.Habits {
		if habitIDs[h.ID] {
			result.add(Conflict{
				Type:        ConflictDuplicateHabitID,
				Description: fmt.Sprintf("Duplicate habit ID: %s", h.ID),
				HabitID:     h.ID,
			})
		}
		habitIDs[h.ID] = true

		if h.TargetDays < 1 {
			result.add(Conflict{
				Type:        ConflictInvalidHabit,
				Description: fmt.Sprintf("Habit %q has target days %d (must be at least 1)", h.Name, h.TargetDays),
				HabitID:     h.ID,
			})
		}
		switch h.Frequency {
		case constants.FrequencyDaily, constants.FrequencyWeekly, constants.FrequencyMonthly:
		default:
			result.add(Conflict{
				Type:        ConflictInvalidHabit,
				Description: fmt.Sprintf("Habit %q has unknown frequency %q", h.Name, h.Frequency),
				HabitID:     h.ID,
			})
		}
	}

	// habitID -> day -> count
	completed := make(map[string]map[string]int)
	for _, c := range state.Completions {
		if !habitIDs[c.HabitID] {
			result.add(Conflict{
				Type:        ConflictOrphanedCompletion,
				Description: fmt.Sprintf("Completion %s references unknown habit %s", c.ID, c.HabitID),
				HabitID:     c.HabitID,
				Date:        utils.DayKey(c.CompletedAt),
			})
		}
		day := utils.DayKey(c.CompletedAt)
		if completed[c.HabitID] == nil {
			completed[c.HabitID] = make(map[string]int)
		}
		completed[c.HabitID][day]++
	}

	var sortedHabitIDs []string
	for habitID := range completed {
		sortedHabitIDs = append(sortedHabitIDs, habitID)
	}
	sort.Strings(sortedHabitIDs)
	for _, habitID := range sortedHabitIDs {
		days := make([]string, 0, len(completed[habitID]))
		for day := range completed[habitID] {
			days = append(days, day)
		}
		sort.Strings(days)
		for _, day := range days {
			if n := completed[habitID][day]; n > 1 {
				result.add(Conflict{
					Type:        ConflictDuplicateCompletion,
					Description: fmt.Sprintf("Habit %s has %d completions on %s", habitID, n, day),
					HabitID:     habitID,
					Date:        day,
				})
			}
		}
	}

	for _, p := range state.DailyProgress {
		if _, err := utils.ParseDayKey(p.Date, nil); err != nil {
			result.add(Conflict{
				Type:        ConflictInvalidDayKey,
				Description: fmt.Sprintf("Progress record has invalid date %q", p.Date),
				Date:        p.Date,
			})
			continue
		}
		for _, entry := range p.Habits {
			has := completed[entry.HabitID][p.Date] > 0
			if entry.Completed != has {
				result.add(Conflict{
					Type: ConflictProgressDrift,
					Description: fmt.Sprintf("Progress for habit %s on %s says completed=%t but completions say %t",
						entry.HabitID, p.Date, entry.Completed, has),
					HabitID: entry.HabitID,
					Date:    p.Date,
				})
			}
		}
	}

	return result
}

// CheckTownState reports violations of the town stat invariants.
func CheckTownState(state models.TownState) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}
	stats := state.Stats

	if want := stats.Experience/constants.ExperiencePerLevel + 1; stats.Level != want {
		result.add(Conflict{
			Type:        ConflictLevelMismatch,
			Description: fmt.Sprintf("Town level %d does not match experience %d (expected level %d)", stats.Level, stats.Experience, want),
		})
	}
	if stats.Happiness < 0 || stats.Happiness > constants.MaxHappiness {
		result.add(Conflict{
			Type:        ConflictStatOutOfRange,
			Description: fmt.Sprintf("Town happiness %d is outside [0, %d]", stats.Happiness, constants.MaxHappiness),
		})
	}
	if stats.Experience < 0 || stats.Population < 0 || stats.Coins < 0 {
		result.add(Conflict{
			Type:        ConflictStatOutOfRange,
			Description: fmt.Sprintf("Town stats must not be negative (experience %d, population %d, coins %d)", stats.Experience, stats.Population, stats.Coins),
		})
	}

	seen := make(map[string]bool)
	check := func(kind, id string) {
		key := kind + "/" + id
		if seen[key] {
			result.add(Conflict{
				Type:        ConflictDuplicateCatalogEntry,
				Description: fmt.Sprintf("Duplicate %s entry: %s", kind, id),
			})
		}
		seen[key] = true
	}
	for _, b := range state.Buildings {
		check("building", b.ID)
	}
	for _, a := range state.Areas {
		check("area", a.ID)
	}
	for _, r := range state.Residents {
		check("resident", r.ID)
	}
	for _, e := range state.Events {
		check("event", e.ID)
	}
	for _, s := range state.SpecialBuildings {
		check("special building", s.ID)
	}

	return result
}
