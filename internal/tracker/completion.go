package tracker

import (
	"sort"
	"time"

	"github.com/julianstephens/habitown/internal/logger"
	"github.com/julianstephens/habitown/internal/models"
	"github.com/julianstephens/habitown/internal/utils"
)

// CompleteHabit records habitID as done on date's calendar day, replacing any
// completion already recorded for that day, and marks the day's progress
// entry completed. A zero date means now. Unknown habits are ignored and
// reported with ok == false.
func (t *Tracker) CompleteHabit(habitID string, date time.Time, notes string) (completion models.HabitCompletion, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.findHabit(habitID) < 0 {
		return models.HabitCompletion{}, false
	}
	date = t.normalize(date)

	t.removeCompletion(habitID, date)
	completion = models.HabitCompletion{
		ID:          t.newID(),
		HabitID:     habitID,
		CompletedAt: date,
		Notes:       notes,
	}
	t.completions = append(t.completions, completion)
	t.setProgress(habitID, date, true)

	logger.Debug("Habit completed", "habit_id", habitID, "date", utils.DayKey(date))
	return completion, true
}

// UncompleteHabit removes the completion for habitID on date's calendar day
// and clears the day's progress entry. It reports whether a completion was
// removed.
func (t *Tracker) UncompleteHabit(habitID string, date time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	date = t.normalize(date)
	removed := t.removeCompletion(habitID, date)

	if p, ok := t.dailyProgress[utils.DayKey(date)]; ok {
		for i := range p.Habits {
			if p.Habits[i].HabitID == habitID {
				p.Habits[i].Completed = false
				p.Habits[i].CompletedAt = nil
			}
		}
	}

	if removed > 0 {
		logger.Debug("Habit uncompleted", "habit_id", habitID, "date", utils.DayKey(date))
	}
	return removed > 0
}

// IsHabitCompleted reports whether habitID has a completion on date's
// calendar day.
func (t *Tracker) IsHabitCompleted(habitID string, date time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	date = t.normalize(date)
	for _, c := range t.completions {
		if c.HabitID == habitID && utils.IsSameDay(c.CompletedAt, date) {
			return true
		}
	}
	return false
}

// HabitCompletions returns habitID's completions, newest first.
func (t *Tracker) HabitCompletions(habitID string) []models.HabitCompletion {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.habitCompletions(habitID)
}

func (t *Tracker) habitCompletions(habitID string) []models.HabitCompletion {
	out := []models.HabitCompletion{}
	for _, c := range t.completions {
		if c.HabitID == habitID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out
}

func (t *Tracker) normalize(date time.Time) time.Time {
	if date.IsZero() {
		return t.now()
	}
	return date.In(t.loc)
}

func (t *Tracker) removeCompletion(habitID string, date time.Time) int {
	kept := t.completions[:0:0]
	for _, c := range t.completions {
		if c.HabitID == habitID && utils.IsSameDay(c.CompletedAt, date) {
			continue
		}
		kept = append(kept, c)
	}
	removed := len(t.completions) - len(kept)
	t.completions = kept
	return removed
}

// setProgress upserts habitID's entry in the progress record for date's day.
func (t *Tracker) setProgress(habitID string, date time.Time, completed bool) {
	key := utils.DayKey(date)
	entry := models.HabitProgress{HabitID: habitID, Completed: completed}
	if completed {
		ts := date
		entry.CompletedAt = &ts
	}

	p, ok := t.dailyProgress[key]
	if !ok {
		t.dailyProgress[key] = models.DailyProgress{Date: key, Habits: []models.HabitProgress{entry}}
		return
	}
	for i := range p.Habits {
		if p.Habits[i].HabitID == habitID {
			p.Habits[i] = entry
			return
		}
	}
	p.Habits = append(p.Habits, entry)
	t.dailyProgress[key] = p
}
