package tracker

import (
	"time"

	"github.com/julianstephens/habitown/internal/models"
	"github.com/julianstephens/habitown/internal/utils"
)

// TodayProgress returns today's progress record, or an empty one.
func (t *Tracker) TodayProgress() models.DailyProgress {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.progressFor(t.now())
}

// WeekProgress returns seven records for start .. start+6 days.
func (t *Tracker) WeekProgress(start time.Time) []models.DailyProgress {
	t.mu.Lock()
	defer t.mu.Unlock()

	start = t.normalize(start)
	out := make([]models.DailyProgress, 0, 7)
	for i := 0; i < 7; i++ {
		out = append(out, t.progressFor(utils.AddDays(start, i)))
	}
	return out
}

// MonthProgress returns one record per day of the month. month is
// zero-indexed (0 = January).
func (t *Tracker) MonthProgress(year, month int) []models.DailyProgress {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.monthProgress(year, month)
}

func (t *Tracker) monthProgress(year, month int) []models.DailyProgress {
	days := utils.DaysInMonth(year, month)
	out := make([]models.DailyProgress, 0, days)
	for day := 1; day <= days; day++ {
		out = append(out, t.progressFor(time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, t.loc)))
	}
	return out
}

// YearProgress returns the number of completed progress entries in each
// month of year.
func (t *Tracker) YearProgress(year int) []models.MonthlyTotal {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]models.MonthlyTotal, 0, 12)
	for month := 0; month < 12; month++ {
		total := 0
		for _, p := range t.monthProgress(year, month) {
			total += p.CompletedCount()
		}
		out = append(out, models.MonthlyTotal{Month: month + 1, Completions: total})
	}
	return out
}

func (t *Tracker) progressFor(day time.Time) models.DailyProgress {
	if p, ok := t.dailyProgress[utils.DayKey(day)]; ok {
		return copyProgress(p)
	}
	return emptyProgress(day)
}
