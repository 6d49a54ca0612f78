package tracker

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/habitown/internal/constants"
	"github.com/julianstephens/habitown/internal/logger"
	"github.com/julianstephens/habitown/internal/models"
	"github.com/julianstephens/habitown/internal/validation"
)

// Export returns the export document for the current state.
func (t *Tracker) Export() models.ExportDocument {
	t.mu.Lock()
	defer t.mu.Unlock()

	state := t.snapshot()
	return models.ExportDocument{
		Habits:        state.Habits,
		Completions:   state.Completions,
		DailyProgress: state.DailyProgress,
		ExportDate:    t.now(),
		Version:       constants.ExportVersion,
	}
}

// ExportJSON renders the export document as indented JSON.
func (t *Tracker) ExportJSON() ([]byte, error) {
	data, err := json.MarshalIndent(t.Export(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return data, nil
}

// Import replaces the tracker state with the document in data. The payload
// must carry a "habits" array; on any error the tracker is left unchanged.
func (t *Tracker) Import(data []byte) error {
	doc, err := validation.ParseImport(data)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.restore(models.HabitState{
		Habits:        doc.Habits,
		Completions:   doc.Completions,
		DailyProgress: doc.DailyProgress,
	})

	logger.Info("Habit data imported", "habits", len(doc.Habits), "completions", len(doc.Completions), "version", doc.Version)
	return nil
}
