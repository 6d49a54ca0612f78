package models

import (
	"time"

	"github.com/julianstephens/habitown/internal/constants"
)

// Habit represents a recurring practice to track
type Habit struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description,omitempty"`
	Color        string              `json:"color"`
	Icon         string              `json:"icon"`
	Frequency    constants.Frequency `json:"frequency"`
	TargetDays   int                 `json:"targetDays"`
	ReminderTime string              `json:"reminderTime,omitempty"` // HH:MM format
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
	IsActive     bool                `json:"isActive"`
}

// HabitInput is the user-supplied part of a new habit.
type HabitInput struct {
	Name         string              `json:"name" validate:"required,notblank,max=100"`
	Description  string              `json:"description,omitempty" validate:"max=500"`
	Color        string              `json:"color" validate:"required,hexcolor"`
	Icon         string              `json:"icon" validate:"required,max=16"`
	Frequency    constants.Frequency `json:"frequency" validate:"required,oneof=daily weekly monthly"`
	TargetDays   int                 `json:"targetDays" validate:"min=1,max=31"`
	ReminderTime string              `json:"reminderTime,omitempty" validate:"omitempty,clock"`
}

// HabitUpdate carries a partial edit; nil fields are left untouched.
type HabitUpdate struct {
	Name         *string              `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Description  *string              `json:"description,omitempty" validate:"omitempty,max=500"`
	Color        *string              `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Icon         *string              `json:"icon,omitempty" validate:"omitempty,max=16"`
	Frequency    *constants.Frequency `json:"frequency,omitempty" validate:"omitempty,oneof=daily weekly monthly"`
	TargetDays   *int                 `json:"targetDays,omitempty" validate:"omitempty,min=1,max=31"`
	ReminderTime *string              `json:"reminderTime,omitempty" validate:"omitempty,clock"`
	IsActive     *bool                `json:"isActive,omitempty"`
}

// Apply merges the non-nil fields of u into h.
func (u HabitUpdate) Apply(h *Habit) {
	if u.Name != nil {
		h.Name = *u.Name
	}
	if u.Description != nil {
		h.Description = *u.Description
	}
	if u.Color != nil {
		h.Color = *u.Color
	}
	if u.Icon != nil {
		h.Icon = *u.Icon
	}
	if u.Frequency != nil {
		h.Frequency = *u.Frequency
	}
	if u.TargetDays != nil {
		h.TargetDays = *u.TargetDays
	}
	if u.ReminderTime != nil {
		h.ReminderTime = *u.ReminderTime
	}
	if u.IsActive != nil {
		h.IsActive = *u.IsActive
	}
}

// IsEmpty reports whether the update changes nothing.
func (u HabitUpdate) IsEmpty() bool {
	return u == HabitUpdate{}
}

// HabitCompletion is a single recorded instance of a habit being done
type HabitCompletion struct {
	ID          string    `json:"id"`
	HabitID     string    `json:"habitId"`
	CompletedAt time.Time `json:"completedAt"`
	Notes       string    `json:"notes,omitempty"`
}

// HabitProgress is one habit's state inside a DailyProgress record
type HabitProgress struct {
	HabitID     string     `json:"habitId"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// DailyProgress caches completion state for one calendar day
type DailyProgress struct {
	Date   string          `json:"date"` // YYYY-MM-DD format
	Habits []HabitProgress `json:"habits"`
}

// CompletedCount returns the number of completed entries for the day.
func (p DailyProgress) CompletedCount() int {
	n := 0
	for _, h := range p.Habits {
		if h.Completed {
			n++
		}
	}
	return n
}

// IsCompleted reports whether habitID is marked completed for the day.
func (p DailyProgress) IsCompleted(habitID string) bool {
	for _, h := range p.Habits {
		if h.HabitID == habitID {
			return h.Completed
		}
	}
	return false
}

// HabitStats are derived statistics for a single habit
type HabitStats struct {
	HabitID          string     `json:"habitId"`
	TotalCompletions int        `json:"totalCompletions"`
	CurrentStreak    int        `json:"currentStreak"`
	LongestStreak    int        `json:"longestStreak"`
	CompletionRate   int        `json:"completionRate"` // percentage of the last 30 days
	LastCompletedAt  *time.Time `json:"lastCompletedAt,omitempty"`
}

// OverallStats aggregates HabitStats across active habits
type OverallStats struct {
	TotalHabits           int `json:"totalHabits"`
	TotalCompletions      int `json:"totalCompletions"`
	TotalCurrentStreak    int `json:"totalCurrentStreak"`
	AverageCompletionRate int `json:"averageCompletionRate"`
	LongestStreak         int `json:"longestStreak"`
}

// MonthlyTotal is the number of completed progress entries in one month
type MonthlyTotal struct {
	Month       int `json:"month"` // 1-12
	Completions int `json:"completions"`
}

// HabitState is the persisted habit-tracker blob
type HabitState struct {
	Habits        []Habit           `json:"habits"`
	Completions   []HabitCompletion `json:"completions"`
	DailyProgress []DailyProgress   `json:"dailyProgress"`
}

// ExportDocument is the JSON document produced by data export
type ExportDocument struct {
	Habits        []Habit           `json:"habits"`
	Completions   []HabitCompletion `json:"completions"`
	DailyProgress []DailyProgress   `json:"dailyProgress"`
	ExportDate    time.Time         `json:"exportDate"`
	Version       string            `json:"version"`
}
