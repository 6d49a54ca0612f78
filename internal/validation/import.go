package validation

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/habitown/internal/models"
	"github.com/julianstephens/habitown/internal/utils"
)

// ParseImport decodes an export document. The document must be a JSON object
// whose "habits" member is an array; completions and dailyProgress may be
// absent. Every dailyProgress date must be a YYYY-MM-DD key. Nothing is
// returned on failure so callers never apply a partial import.
func ParseImport(data []byte) (models.ExportDocument, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.ExportDocument{}, fmt.Errorf("%w: not a JSON object: %v", ErrInvalidImport, err)
	}

	habits, ok := raw["habits"]
	if !ok {
		return models.ExportDocument{}, fmt.Errorf("%w: missing \"habits\"", ErrInvalidImport)
	}
	var habitList []json.RawMessage
	if err := json.Unmarshal(habits, &habitList); err != nil || habitList == nil {
		return models.ExportDocument{}, fmt.Errorf("%w: \"habits\" must be an array", ErrInvalidImport)
	}

	var doc models.ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.ExportDocument{}, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	for i, p := range doc.DailyProgress {
		if _, err := utils.ParseDayKey(p.Date, time.UTC); err != nil {
			return models.ExportDocument{}, fmt.Errorf("%w: dailyProgress[%d] date %q is not YYYY-MM-DD", ErrInvalidImport, i, p.Date)
		}
	}
	if doc.Habits == nil {
		doc.Habits = []models.Habit{}
	}
	if doc.Completions == nil {
		doc.Completions = []models.HabitCompletion{}
	}
	if doc.DailyProgress == nil {
		doc.DailyProgress = []models.DailyProgress{}
	}

	return doc, nil
}
