package habits

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/habitown/internal/cli"
	"github.com/julianstephens/habitown/internal/constants"
	"github.com/julianstephens/habitown/internal/forms"
	"github.com/julianstephens/habitown/internal/models"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Add a new habit."`
	Edit   HabitEditCmd   `cmd:"" help:"Edit a habit."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit and its history."`
	Toggle HabitToggleCmd `cmd:"" help:"Pause or resume a habit."`
	List   HabitListCmd   `cmd:"" help:"List habits."`
	Done   HabitDoneCmd   `cmd:"" help:"Mark a habit as done for a day."`
	Undo   HabitUndoCmd   `cmd:"" help:"Remove a habit's completion for a day."`
	Stats  HabitStatsCmd  `cmd:"" help:"Show habit statistics."`
	Today  HabitTodayCmd  `cmd:"" help:"Show today's habit status."`
	Week   HabitWeekCmd   `cmd:"" help:"Show this week's progress."`
	Month  HabitMonthCmd  `cmd:"" help:"Show a month's progress calendar."`
	Year   HabitYearCmd   `cmd:"" help:"Show completions per month for a year."`
	Log    HabitLogCmd    `cmd:"" help:"Show a habit's completion history."`
}

type HabitAddCmd struct {
	Name        string `arg:"" optional:"" help:"Habit name."`
	Description string `help:"Optional description."`
	Color       string `help:"Hex color." default:"${default_color}"`
	Icon        string `help:"Icon (emoji)." default:"${default_icon}"`
	Frequency   string `help:"How often the habit is due." enum:"daily,weekly,monthly" default:"daily"`
	Target      int    `help:"Target days per period." default:"1"`
	Reminder    string `help:"Reminder time (HH:MM)."`
	Interactive bool   `short:"i" help:"Fill in the habit with an interactive form."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	var in models.HabitInput
	if c.Interactive || c.Name == "" {
		fm := forms.NewHabitFormModel()
		fm.Name = c.Name
		if err := forms.NewHabitForm(fm).Run(); err != nil {
			return err
		}
		if in, err = fm.Input(); err != nil {
			return err
		}
	} else {
		in = models.HabitInput{
			Name:         strings.TrimSpace(c.Name),
			Description:  c.Description,
			Color:        c.Color,
			Icon:         c.Icon,
			Frequency:    constants.Frequency(c.Frequency),
			TargetDays:   c.Target,
			ReminderTime: c.Reminder,
		}
	}

	habit, err := svc.AddHabit(context.Background(), in)
	if err != nil {
		return err
	}
	ctx.Printf("%s Added habit: %s %s (%s)\n", cli.SuccessStyle.Render("✓"), habit.Icon, habit.Name, habit.ID)
	return nil
}

type HabitEditCmd struct {
	Habit       string  `arg:"" help:"Habit id or name."`
	Name        *string `help:"New name."`
	Description *string `help:"New description."`
	Color       *string `help:"New hex color."`
	Icon        *string `help:"New icon."`
	Frequency   *string `help:"New frequency (daily, weekly, monthly)."`
	Target      *int    `help:"New target days per period."`
	Reminder    *string `help:"New reminder time (HH:MM), empty to clear."`
	Interactive bool    `short:"i" help:"Edit with an interactive form."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	habit, err := cli.ResolveHabit(svc.Tracker(), c.Habit)
	if err != nil {
		return err
	}

	var u models.HabitUpdate
	if c.Interactive {
		fm := forms.FromHabit(habit)
		if err := forms.NewHabitForm(fm).Run(); err != nil {
			return err
		}
		if u, err = fm.Update(); err != nil {
			return err
		}
	} else {
		u = models.HabitUpdate{
			Name:         c.Name,
			Description:  c.Description,
			Color:        c.Color,
			Icon:         c.Icon,
			TargetDays:   c.Target,
			ReminderTime: c.Reminder,
		}
		if c.Frequency != nil {
			f := constants.Frequency(*c.Frequency)
			u.Frequency = &f
		}
	}
	if u.IsEmpty() {
		return fmt.Errorf("nothing to change; pass at least one field or use -i")
	}

	updated, err := svc.UpdateHabit(context.Background(), habit.ID, u)
	if err != nil {
		return err
	}
	ctx.Printf("%s Updated habit: %s %s\n", cli.SuccessStyle.Render("✓"), updated.Icon, updated.Name)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Yes   bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	habit, err := cli.ResolveHabit(svc.Tracker(), c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete %q and all of its completions?", habit.Name))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	if err := svc.DeleteHabit(context.Background(), habit.ID); err != nil {
		return err
	}
	ctx.Printf("%s Deleted habit: %s\n", cli.SuccessStyle.Render("✓"), habit.Name)
	return nil
}

type HabitToggleCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
}

func (c *HabitToggleCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	habit, err := cli.ResolveHabit(svc.Tracker(), c.Habit)
	if err != nil {
		return err
	}
	updated, err := svc.ToggleHabitActive(context.Background(), habit.ID)
	if err != nil {
		return err
	}
	state := "paused"
	if updated.IsActive {
		state = "active"
	}
	ctx.Printf("%s %s is now %s\n", cli.SuccessStyle.Render("✓"), updated.Name, state)
	return nil
}

type HabitListCmd struct {
	All bool `help:"Include paused habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	habits := svc.Tracker().ActiveHabits()
	if c.All {
		habits = svc.Tracker().Habits()
	}
	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	for _, h := range habits {
		status := ""
		if !h.IsActive {
			status = " " + cli.MutedStyle.Render("[PAUSED]")
		}
		ctx.Printf("%s %s %s%s  %s  %s\n", cli.Swatch(h.Color), h.Icon, h.Name, status,
			cli.MutedStyle.Render(cli.FrequencyLabel(h)), cli.MutedStyle.Render(h.ID))
	}
	return nil
}
