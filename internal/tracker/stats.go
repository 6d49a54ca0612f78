package tracker

import (
	"math"
	"time"

	"github.com/julianstephens/habitown/internal/constants"
	"github.com/julianstephens/habitown/internal/models"
	"github.com/julianstephens/habitown/internal/utils"
)

// HabitStats derives statistics for habitID from its completions. Unknown
// habits yield zero statistics.
func (t *Tracker) HabitStats(habitID string) models.HabitStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.habitStats(habitID)
}

func (t *Tracker) habitStats(habitID string) models.HabitStats {
	completions := t.habitCompletions(habitID)
	now := t.now()

	stats := models.HabitStats{
		HabitID:          habitID,
		TotalCompletions: len(completions),
		CurrentStreak:    currentStreak(completions, now),
		LongestStreak:    longestStreak(completions),
		CompletionRate:   completionRate(completions, now),
	}
	if len(completions) > 0 {
		last := completions[0].CompletedAt
		stats.LastCompletedAt = &last
	}
	return stats
}

// currentStreak counts consecutive completed days ending today, or ending
// yesterday when today has not been completed yet. completions must be
// sorted newest first.
func currentStreak(completions []models.HabitCompletion, now time.Time) int {
	streak := 0
	cursor := utils.StartOfDay(now)

	for _, c := range completions {
		day := utils.StartOfDay(c.CompletedAt)
		switch {
		case utils.DayKey(day) > utils.DayKey(cursor) && streak == 0:
			// future-dated completions do not count toward the current streak
			continue
		case utils.IsSameDay(day, cursor):
		case streak == 0 && utils.IsSameDay(day, utils.AddDays(cursor, -1)):
		default:
			return streak
		}
		streak++
		cursor = utils.AddDays(day, -1)
	}
	return streak
}

// longestStreak returns the longest run of consecutive completed days.
// completions must be sorted newest first.
func longestStreak(completions []models.HabitCompletion) int {
	longest := 0
	running := 0
	var last *time.Time

	for i := range completions {
		day := completions[i].CompletedAt
		if last == nil || utils.IsSameDay(utils.AddDays(day, 1), *last) {
			running++
		} else {
			longest = max(longest, running)
			running = 1
		}
		last = &day
	}
	return max(longest, running)
}

// completionRate is the share of the last 30 days with a completion, as a
// rounded percentage capped at 100. Completions dated after today are not
// counted.
func completionRate(completions []models.HabitCompletion, now time.Time) int {
	since := utils.AddDays(now, -constants.CompletionRateWindowDays)
	today := utils.DayKey(now)
	recent := 0
	for _, c := range completions {
		if !c.CompletedAt.Before(since) && utils.DayKey(c.CompletedAt) <= today {
			recent++
		}
	}
	if recent == 0 {
		return 0
	}
	rate := int(math.Round(float64(recent) / float64(constants.CompletionRateWindowDays) * 100))
	return min(rate, 100)
}

// OverallStats aggregates statistics across the active habits.
func (t *Tracker) OverallStats() models.OverallStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	active := t.activeHabits()
	overall := models.OverallStats{TotalHabits: len(active)}
	if len(active) == 0 {
		return overall
	}

	rateSum := 0
	for _, h := range active {
		s := t.habitStats(h.ID)
		overall.TotalCompletions += s.TotalCompletions
		overall.TotalCurrentStreak += s.CurrentStreak
		overall.LongestStreak = max(overall.LongestStreak, s.LongestStreak)
		rateSum += s.CompletionRate
	}
	overall.AverageCompletionRate = int(math.Round(float64(rateSum) / float64(len(active))))
	return overall
}

// MaxCurrentStreak returns the highest current streak of any active habit.
func (t *Tracker) MaxCurrentStreak() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	best := 0
	for _, h := range t.activeHabits() {
		best = max(best, currentStreak(t.habitCompletions(h.ID), t.now()))
	}
	return best
}
