// Package progression ties the habit tracker to the town: it applies a
// completion to both engines and persists the pair as one unit.
package progression

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/julianstephens/habitown/internal/constants"
	"github.com/julianstephens/habitown/internal/logger"
	"github.com/julianstephens/habitown/internal/models"
	"github.com/julianstephens/habitown/internal/storage"
	"github.com/julianstephens/habitown/internal/town"
	"github.com/julianstephens/habitown/internal/tracker"
	"github.com/julianstephens/habitown/internal/validation"
)

var (
	// ErrHabitNotFound is returned when an operation names an unknown habit
	ErrHabitNotFound = errors.New("habit not found")
	// ErrUnsupportedVersion is returned when a stored blob is newer than this build
	ErrUnsupportedVersion = errors.New("unsupported blob version")
)

// Result is what a recorded completion did to both engines.
type Result struct {
	Completion models.HabitCompletion
	// Rewarded is false when the habit was already done that day; the
	// completion is replaced but the town is not paid twice.
	Rewarded bool
	Outcome  town.Outcome
}

// Service owns a tracker and a town and keeps the store in step with them.
// Every mutating method either changes both engines and the store or none.
type Service struct {
	mu      sync.Mutex
	tracker *tracker.Tracker
	town    *town.Town
	store   storage.Provider
}

func New(store storage.Provider, tr *tracker.Tracker, tw *town.Town) *Service {
	return &Service{
		tracker: tr,
		town:    tw,
		store:   store,
	}
}

// Tracker exposes the habit engine for read-only queries.
func (s *Service) Tracker() *tracker.Tracker {
	return s.tracker
}

// Town exposes the town engine for read-only queries.
func (s *Service) Town() *town.Town {
	return s.town
}

// Load restores both engines from the store. Missing blobs leave the
// corresponding engine at its initial state.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var habits models.HabitState
	foundHabits, err := s.readBlob(ctx, constants.HabitBlobName, constants.HabitBlobVersion, &habits)
	if err != nil {
		return err
	}
	var townState models.TownState
	foundTown, err := s.readBlob(ctx, constants.TownBlobName, constants.TownBlobVersion, &townState)
	if err != nil {
		return err
	}

	if foundHabits {
		s.tracker.Restore(habits)
	} else {
		s.tracker.Reset()
	}
	if foundTown {
		s.town.Restore(townState)
	} else {
		s.town.Reset()
	}

	logger.Debug("State loaded", "habits", len(habits.Habits), "completions", len(habits.Completions), "town", foundTown)
	return nil
}

func (s *Service) readBlob(ctx context.Context, name string, maxVersion int, v any) (bool, error) {
	blob, err := s.store.GetBlob(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load %s: %w", name, err)
	}
	if blob.Version > maxVersion {
		return false, fmt.Errorf("%w: %s is version %d, this build reads up to %d", ErrUnsupportedVersion, name, blob.Version, maxVersion)
	}
	if err := json.Unmarshal(blob.Data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return true, nil
}

// Save writes both engines to the store in one transaction.
func (s *Service) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx)
}

func (s *Service) persist(ctx context.Context) error {
	habits, err := json.Marshal(s.tracker.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode habit state: %w", err)
	}
	townState, err := json.Marshal(s.town.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode town state: %w", err)
	}

	now := s.tracker.Now().UTC()
	err = s.store.PutBlobs(ctx,
		storage.Blob{Name: constants.HabitBlobName, Version: constants.HabitBlobVersion, Data: habits, UpdatedAt: now},
		storage.Blob{Name: constants.TownBlobName, Version: constants.TownBlobVersion, Data: townState, UpdatedAt: now},
	)
	if err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

// mutate runs fn against both engines and persists the result. If fn
// reports no change nothing is written; if persisting fails both engines
// are rolled back.
func (s *Service) mutate(ctx context.Context, fn func() (bool, error)) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	habits := s.tracker.Snapshot()
	townState := s.town.Snapshot()

	changed, err := fn()
	if err != nil || !changed {
		return changed, err
	}

	if err := s.persist(ctx); err != nil {
		s.tracker.Restore(habits)
		s.town.Restore(townState)
		logger.Warn("Rolled back after failed save", "error", err)
		return false, err
	}
	return true, nil
}

// RecordHabitCompletion marks habitID done on date, derives the habit's
// current streak and feeds it to the town together with the best current
// streak of any habit. A zero date means now.
func (s *Service) RecordHabitCompletion(ctx context.Context, habitID string, date time.Time, notes string) (Result, error) {
	var res Result
	_, err := s.mutate(ctx, func() (bool, error) {
		if _, ok := s.tracker.Habit(habitID); !ok {
			return false, fmt.Errorf("%w: %s", ErrHabitNotFound, habitID)
		}
		if date.IsZero() {
			date = s.tracker.Now()
		}

		already := s.tracker.IsHabitCompleted(habitID, date)
		completion, ok := s.tracker.CompleteHabit(habitID, date, notes)
		if !ok {
			return false, fmt.Errorf("%w: %s", ErrHabitNotFound, habitID)
		}
		res.Completion = completion

		if !already {
			streak := s.tracker.HabitStats(habitID).CurrentStreak
			res.Outcome = s.town.CompleteHabit(habitID, streak, s.tracker.MaxCurrentStreak())
			res.Rewarded = true
		}
		return true, nil
	})
	if err != nil {
		return Result{}, err
	}

	logger.Debug("Habit completion recorded", "habit", habitID, "rewarded", res.Rewarded, "streak", res.Outcome.Streak)
	return res, nil
}

// RecordHabitUncompletion removes the completion for habitID on date. Town
// experience already granted is kept.
func (s *Service) RecordHabitUncompletion(ctx context.Context, habitID string, date time.Time) (bool, error) {
	return s.mutate(ctx, func() (bool, error) {
		if _, ok := s.tracker.Habit(habitID); !ok {
			return false, fmt.Errorf("%w: %s", ErrHabitNotFound, habitID)
		}
		if date.IsZero() {
			date = s.tracker.Now()
		}
		return s.tracker.UncompleteHabit(habitID, date), nil
	})
}

// AddHabit validates in and appends a new habit.
func (s *Service) AddHabit(ctx context.Context, in models.HabitInput) (models.Habit, error) {
	if err := validation.ValidateHabitInput(in); err != nil {
		return models.Habit{}, err
	}
	var habit models.Habit
	_, err := s.mutate(ctx, func() (bool, error) {
		habit = s.tracker.AddHabit(in)
		return true, nil
	})
	if err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

// UpdateHabit validates and applies a partial edit.
func (s *Service) UpdateHabit(ctx context.Context, id string, u models.HabitUpdate) (models.Habit, error) {
	if err := validation.ValidateHabitUpdate(u); err != nil {
		return models.Habit{}, err
	}
	_, err := s.mutate(ctx, func() (bool, error) {
		if !s.tracker.UpdateHabit(id, u) {
			return false, fmt.Errorf("%w: %s", ErrHabitNotFound, id)
		}
		return true, nil
	})
	if err != nil {
		return models.Habit{}, err
	}
	habit, _ := s.tracker.Habit(id)
	return habit, nil
}

// DeleteHabit removes a habit together with its completions and progress.
func (s *Service) DeleteHabit(ctx context.Context, id string) error {
	_, err := s.mutate(ctx, func() (bool, error) {
		if !s.tracker.DeleteHabit(id) {
			return false, fmt.Errorf("%w: %s", ErrHabitNotFound, id)
		}
		return true, nil
	})
	return err
}

// ToggleHabitActive flips a habit between active and paused and returns the
// updated habit.
func (s *Service) ToggleHabitActive(ctx context.Context, id string) (models.Habit, error) {
	_, err := s.mutate(ctx, func() (bool, error) {
		if !s.tracker.ToggleHabitActive(id) {
			return false, fmt.Errorf("%w: %s", ErrHabitNotFound, id)
		}
		return true, nil
	})
	if err != nil {
		return models.Habit{}, err
	}
	habit, _ := s.tracker.Habit(id)
	return habit, nil
}

// Import replaces the habit data with an export document. The town is left
// as is.
func (s *Service) Import(ctx context.Context, data []byte) error {
	_, err := s.mutate(ctx, func() (bool, error) {
		if err := s.tracker.Import(data); err != nil {
			return false, err
		}
		return true, nil
	})
	return err
}

// Export renders the habit data as an indented JSON export document.
func (s *Service) Export() ([]byte, error) {
	return s.tracker.ExportJSON()
}

// Reset clears every habit and returns the town to its starting state.
func (s *Service) Reset(ctx context.Context) error {
	_, err := s.mutate(ctx, func() (bool, error) {
		s.tracker.Reset()
		s.town.Reset()
		return true, nil
	})
	if err == nil {
		logger.Info("All data reset")
	}
	return err
}

// Integrity runs the consistency checks over both engines.
func (s *Service) Integrity() (habits, townReport validation.ValidationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return validation.CheckHabitState(s.tracker.Snapshot()), validation.CheckTownState(s.town.Snapshot())
}
