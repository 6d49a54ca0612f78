// Package tracker implements the habit statistics engine: it owns habits,
// their completion events and the per-day progress read model, and derives
// streaks, completion rates and progress views from them.
package tracker

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitown/internal/clock"
	"github.com/julianstephens/habitown/internal/logger"
	"github.com/julianstephens/habitown/internal/models"
	"github.com/julianstephens/habitown/internal/utils"
)

// Tracker is the habit statistics engine. All methods are safe for
// concurrent use; every operation holds the tracker's lock for its full
// duration so multi-record invariants are re-established atomically.
type Tracker struct {
	mu sync.Mutex

	clock clock.Clock
	newID func() string
	loc   *time.Location

	habits        []models.Habit
	completions   []models.HabitCompletion
	dailyProgress map[string]models.DailyProgress
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the time source used for "now".
func WithClock(c clock.Clock) Option {
	return func(t *Tracker) {
		t.clock = c
	}
}

// WithIDGenerator sets the function used to mint habit and completion ids.
func WithIDGenerator(fn func() string) Option {
	return func(t *Tracker) {
		t.newID = fn
	}
}

// WithLocation sets the timezone that defines calendar days.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// New creates an empty tracker.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		clock:         clock.RealClock{},
		newID:         uuid.NewString,
		loc:           time.Local,
		habits:        []models.Habit{},
		completions:   []models.HabitCompletion{},
		dailyProgress: make(map[string]models.DailyProgress),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Location returns the timezone that defines calendar days.
func (t *Tracker) Location() *time.Location {
	return t.loc
}

// Now returns the current time in the tracker's timezone.
func (t *Tracker) Now() time.Time {
	return t.now()
}

func (t *Tracker) now() time.Time {
	return t.clock.Now().In(t.loc)
}

func (t *Tracker) findHabit(id string) int {
	for i := range t.habits {
		if t.habits[i].ID == id {
			return i
		}
	}
	return -1
}

// AddHabit creates a habit from validated input and appends it.
func (t *Tracker) AddHabit(in models.HabitInput) models.Habit {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	h := models.Habit{
		ID:           t.newID(),
		Name:         in.Name,
		Description:  in.Description,
		Color:        in.Color,
		Icon:         in.Icon,
		Frequency:    in.Frequency,
		TargetDays:   in.TargetDays,
		ReminderTime: in.ReminderTime,
		CreatedAt:    now,
		UpdatedAt:    now,
		IsActive:     true,
	}
	t.habits = append(t.habits, h)

	logger.Debug("Habit added", "habit_id", h.ID, "name", h.Name)
	return h
}

// UpdateHabit merges the set fields of u into the habit and bumps UpdatedAt.
// It reports false, changing nothing, when the id is unknown.
func (t *Tracker) UpdateHabit(id string, u models.HabitUpdate) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.findHabit(id)
	if i < 0 {
		return false
	}
	u.Apply(&t.habits[i])
	t.habits[i].UpdatedAt = t.now()

	logger.Debug("Habit updated", "habit_id", id)
	return true
}

// DeleteHabit removes the habit, all of its completions and its entries in
// every progress record.
func (t *Tracker) DeleteHabit(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.findHabit(id)
	if i < 0 {
		return false
	}
	t.habits = append(t.habits[:i:i], t.habits[i+1:]...)

	kept := t.completions[:0:0]
	for _, c := range t.completions {
		if c.HabitID != id {
			kept = append(kept, c)
		}
	}
	removed := len(t.completions) - len(kept)
	t.completions = kept

	for key, p := range t.dailyProgress {
		entries := make([]models.HabitProgress, 0, len(p.Habits))
		for _, e := range p.Habits {
			if e.HabitID != id {
				entries = append(entries, e)
			}
		}
		p.Habits = entries
		t.dailyProgress[key] = p
	}

	logger.Debug("Habit deleted", "habit_id", id, "completions_removed", removed)
	return true
}

// ToggleHabitActive flips the habit's active flag. Statistics are untouched.
func (t *Tracker) ToggleHabitActive(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.findHabit(id)
	if i < 0 {
		return false
	}
	t.habits[i].IsActive = !t.habits[i].IsActive

	logger.Debug("Habit active toggled", "habit_id", id, "active", t.habits[i].IsActive)
	return true
}

// Habits returns every habit in insertion order.
func (t *Tracker) Habits() []models.Habit {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]models.Habit, len(t.habits))
	copy(out, t.habits)
	return out
}

// ActiveHabits returns the active habits in insertion order.
func (t *Tracker) ActiveHabits() []models.Habit {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.activeHabits()
}

func (t *Tracker) activeHabits() []models.Habit {
	out := []models.Habit{}
	for _, h := range t.habits {
		if h.IsActive {
			out = append(out, h)
		}
	}
	return out
}

// Habit looks up a habit by id.
func (t *Tracker) Habit(id string) (models.Habit, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.findHabit(id)
	if i < 0 {
		return models.Habit{}, false
	}
	return t.habits[i], true
}

// Snapshot returns a deep copy of the tracker state, with progress records
// ordered by date.
func (t *Tracker) Snapshot() models.HabitState {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.snapshot()
}

func (t *Tracker) snapshot() models.HabitState {
	state := models.HabitState{
		Habits:        make([]models.Habit, len(t.habits)),
		Completions:   make([]models.HabitCompletion, len(t.completions)),
		DailyProgress: make([]models.DailyProgress, 0, len(t.dailyProgress)),
	}
	copy(state.Habits, t.habits)
	copy(state.Completions, t.completions)

	keys := make([]string, 0, len(t.dailyProgress))
	for key := range t.dailyProgress {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		state.DailyProgress = append(state.DailyProgress, copyProgress(t.dailyProgress[key]))
	}
	return state
}

// Restore replaces the tracker state with a deep copy of state.
func (t *Tracker) Restore(state models.HabitState) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.restore(state)
}

func (t *Tracker) restore(state models.HabitState) {
	t.habits = make([]models.Habit, len(state.Habits))
	copy(t.habits, state.Habits)
	t.completions = make([]models.HabitCompletion, len(state.Completions))
	copy(t.completions, state.Completions)
	t.dailyProgress = make(map[string]models.DailyProgress, len(state.DailyProgress))
	for _, p := range state.DailyProgress {
		t.dailyProgress[p.Date] = copyProgress(p)
	}
}

func copyProgress(p models.DailyProgress) models.DailyProgress {
	out := models.DailyProgress{Date: p.Date, Habits: make([]models.HabitProgress, len(p.Habits))}
	for i, e := range p.Habits {
		out.Habits[i] = e
		if e.CompletedAt != nil {
			ts := *e.CompletedAt
			out.Habits[i].CompletedAt = &ts
		}
	}
	return out
}

func emptyProgress(day time.Time) models.DailyProgress {
	return models.DailyProgress{Date: utils.DayKey(day), Habits: []models.HabitProgress{}}
}

// Reset discards every habit, completion and progress record.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.restore(models.HabitState{})
	logger.Info("Habit data reset")
}
