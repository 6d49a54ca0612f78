// Package forms holds the huh forms shared by the CLI wizard and the TUI.
package forms

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitown/internal/constants"
	"github.com/julianstephens/habitown/internal/models"
	"github.com/julianstephens/habitown/internal/utils"
	"github.com/julianstephens/habitown/internal/validation"
)

// HabitFormModel backs the habit form. Numeric fields are strings because
// huh inputs edit text.
type HabitFormModel struct {
	Name         string
	Description  string
	Color        string
	Icon         string
	Frequency    constants.Frequency
	TargetDays   string
	ReminderTime string
}

// NewHabitFormModel returns a model filled with the defaults.
func NewHabitFormModel() *HabitFormModel {
	return &HabitFormModel{
		Color:      constants.DefaultHabitColor,
		Icon:       constants.DefaultHabitIcon,
		Frequency:  constants.FrequencyDaily,
		TargetDays: strconv.Itoa(constants.DefaultTargetDays),
	}
}

// FromHabit pre-fills the model for editing h.
func FromHabit(h models.Habit) *HabitFormModel {
	return &HabitFormModel{
		Name:         h.Name,
		Description:  h.Description,
		Color:        h.Color,
		Icon:         h.Icon,
		Frequency:    h.Frequency,
		TargetDays:   strconv.Itoa(h.TargetDays),
		ReminderTime: h.ReminderTime,
	}
}

// Input converts the form into a validated HabitInput.
func (fm *HabitFormModel) Input() (models.HabitInput, error) {
	target, err := strconv.Atoi(strings.TrimSpace(fm.TargetDays))
	if err != nil {
		return models.HabitInput{}, fmt.Errorf("%w: target days must be a number", validation.ErrInvalidHabit)
	}
	in := models.HabitInput{
		Name:         strings.TrimSpace(fm.Name),
		Description:  strings.TrimSpace(fm.Description),
		Color:        fm.Color,
		Icon:         fm.Icon,
		Frequency:    fm.Frequency,
		TargetDays:   target,
		ReminderTime: strings.TrimSpace(fm.ReminderTime),
	}
	if err := validation.ValidateHabitInput(in); err != nil {
		return models.HabitInput{}, err
	}
	return in, nil
}

// Update converts the form into an update that sets every editable field.
func (fm *HabitFormModel) Update() (models.HabitUpdate, error) {
	in, err := fm.Input()
	if err != nil {
		return models.HabitUpdate{}, err
	}
	return models.HabitUpdate{
		Name:         &in.Name,
		Description:  &in.Description,
		Color:        &in.Color,
		Icon:         &in.Icon,
		Frequency:    &in.Frequency,
		TargetDays:   &in.TargetDays,
		ReminderTime: &in.ReminderTime,
	}, nil
}

func colorOptions(current string) []huh.Option[string] {
	opts := huh.NewOptions(constants.HabitColors...)
	for _, c := range constants.HabitColors {
		if c == current {
			return opts
		}
	}
	if current != "" {
		opts = append([]huh.Option[string]{huh.NewOption(current, current)}, opts...)
	}
	return opts
}

func iconOptions(current string) []huh.Option[string] {
	opts := huh.NewOptions(constants.HabitIcons...)
	for _, i := range constants.HabitIcons {
		if i == current {
			return opts
		}
	}
	if current != "" {
		opts = append([]huh.Option[string]{huh.NewOption(current, current)}, opts...)
	}
	return opts
}

// NewHabitForm creates the add/edit habit form.
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Value(&fm.Description),
			huh.NewSelect[string]().
				Title("Color").
				Options(colorOptions(fm.Color)...).
				Value(&fm.Color),
			huh.NewSelect[string]().
				Title("Icon").
				Options(iconOptions(fm.Icon)...).
				Value(&fm.Icon),
		),
		huh.NewGroup(
			huh.NewSelect[constants.Frequency]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", constants.FrequencyDaily),
					huh.NewOption("Weekly", constants.FrequencyWeekly),
					huh.NewOption("Monthly", constants.FrequencyMonthly),
				).
				Value(&fm.Frequency),
			huh.NewInput().
				Title("Target days").
				Value(&fm.TargetDays).
				Validate(func(s string) error {
					i, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return err
					}
					if i < 1 || i > 31 {
						return fmt.Errorf("target days must be 1-31")
					}
					return nil
				}),
			huh.NewInput().
				Title("Reminder (HH:MM, optional)").
				Value(&fm.ReminderTime).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" || utils.ValidateTimeFormat(strings.TrimSpace(s)) {
						return nil
					}
					return fmt.Errorf("reminder must be HH:MM")
				}),
		),
	).WithTheme(huh.ThemeDracula())
}
