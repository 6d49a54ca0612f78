package habits

import (
	"context"
	"strings"

	"github.com/julianstephens/habitown/internal/cli"
	"github.com/julianstephens/habitown/internal/town"
	"github.com/julianstephens/habitown/internal/utils"
)

type HabitDoneCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
	Note  string `help:"Optional note for this completion."`
}

func (c *HabitDoneCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	habit, err := cli.ResolveHabit(svc.Tracker(), c.Habit)
	if err != nil {
		return err
	}
	date, err := cli.ParseDate(c.Date, svc.Tracker().Location(), svc.Tracker().Now())
	if err != nil {
		return err
	}

	res, err := svc.RecordHabitCompletion(context.Background(), habit.ID, date, c.Note)
	if err != nil {
		return err
	}

	day := utils.DayKey(date)
	if !res.Rewarded {
		ctx.Printf("%s %s was already done on %s; note updated\n", cli.MutedStyle.Render("•"), habit.Name, day)
		return nil
	}
	ctx.Printf("%s %s %s done for %s\n", cli.SuccessStyle.Render("✓"), habit.Icon, habit.Name, day)
	printOutcome(ctx, res.Outcome)
	return nil
}

func printOutcome(ctx *cli.Context, out town.Outcome) {
	ctx.Printf("  Streak: %s  +%d XP  +%d coins\n", cli.FormatStreak(out.Streak), out.ExperienceGain, out.CoinsGain)
	if out.LeveledUp {
		ctx.Printf("  %s Your town reached level %d!\n", cli.HeaderStyle.Render("★"), out.Level)
	}
	if out.PopulationGain > 0 {
		ctx.Printf("  Population +%d\n", out.PopulationGain)
	}
	if len(out.UnlockedBuildings) > 0 {
		ctx.Printf("  Unlocked buildings: %s\n", strings.Join(out.UnlockedBuildings, ", "))
	}
	if len(out.UnlockedAreas) > 0 {
		ctx.Printf("  Unlocked areas: %s\n", strings.Join(out.UnlockedAreas, ", "))
	}
	if len(out.UnlockedSpecialBuildings) > 0 {
		ctx.Printf("  Unlocked special buildings: %s\n", strings.Join(out.UnlockedSpecialBuildings, ", "))
	}
}

type HabitUndoCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)."`
}

func (c *HabitUndoCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	habit, err := cli.ResolveHabit(svc.Tracker(), c.Habit)
	if err != nil {
		return err
	}
	date, err := cli.ParseDate(c.Date, svc.Tracker().Location(), svc.Tracker().Now())
	if err != nil {
		return err
	}

	changed, err := svc.RecordHabitUncompletion(context.Background(), habit.ID, date)
	if err != nil {
		return err
	}
	if !changed {
		ctx.Printf("%s was not done on %s\n", habit.Name, utils.DayKey(date))
		return nil
	}
	ctx.Printf("%s Unmarked %s for %s\n", cli.SuccessStyle.Render("✓"), habit.Name, utils.DayKey(date))
	return nil
}
