package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitown/internal/cli"
	"github.com/julianstephens/habitown/internal/constants"
	"github.com/julianstephens/habitown/internal/models"
	"github.com/julianstephens/habitown/internal/utils"
)

type HabitStatsCmd struct {
	Habit string `arg:"" optional:"" help:"Habit id or name (default: all active habits)."`
}

func (c *HabitStatsCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	tr := svc.Tracker()

	if c.Habit != "" {
		habit, err := cli.ResolveHabit(tr, c.Habit)
		if err != nil {
			return err
		}
		printHabitStats(ctx, habit, tr.HabitStats(habit.ID))
		return nil
	}

	overall := tr.OverallStats()
	ctx.Println(cli.HeaderStyle.Render("Overall"))
	ctx.Printf("  Active habits:        %d\n", overall.TotalHabits)
	ctx.Printf("  Total completions:    %d\n", overall.TotalCompletions)
	ctx.Printf("  Combined streaks:     %s\n", cli.FormatStreak(overall.TotalCurrentStreak))
	ctx.Printf("  Avg completion rate:  %d%%\n", overall.AverageCompletionRate)
	ctx.Printf("  Longest streak:       %s\n", cli.FormatStreak(overall.LongestStreak))

	for _, h := range tr.ActiveHabits() {
		ctx.Println()
		printHabitStats(ctx, h, tr.HabitStats(h.ID))
	}
	return nil
}

func printHabitStats(ctx *cli.Context, h models.Habit, s models.HabitStats) {
	ctx.Printf("%s %s\n", h.Icon, cli.HeaderStyle.Render(h.Name))
	ctx.Printf("  Current streak:   %s\n", cli.FormatStreak(s.CurrentStreak))
	ctx.Printf("  Longest streak:   %s\n", cli.FormatStreak(s.LongestStreak))
	ctx.Printf("  Completions:      %d\n", s.TotalCompletions)
	ctx.Printf("  Last %d days:     %d%%\n", constants.CompletionRateWindowDays, s.CompletionRate)
	if s.LastCompletedAt != nil {
		ctx.Printf("  Last completed:   %s\n", s.LastCompletedAt.Format(constants.DateFormat))
	}
}

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	tr := svc.Tracker()

	habits := tr.ActiveHabits()
	if len(habits) == 0 {
		ctx.Println("No active habits. Add one with 'habitown habit add'.")
		return nil
	}

	today := tr.TodayProgress()
	ctx.Printf("%s  %s\n", cli.HeaderStyle.Render("Today"), today.Date)
	done := 0
	for _, h := range habits {
		mark := cli.MutedStyle.Render("○")
		if today.IsCompleted(h.ID) {
			mark = cli.SuccessStyle.Render("✓")
			done++
		}
		ctx.Printf("  %s %s %s\n", mark, h.Icon, h.Name)
	}
	ctx.Printf("\n%d/%d done\n", done, len(habits))
	return nil
}

type HabitWeekCmd struct {
	Date string `help:"Any date in the week to show, YYYY-MM-DD (default: today)."`
}

func (c *HabitWeekCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	tr := svc.Tracker()
	date, err := cli.ParseDate(c.Date, tr.Location(), tr.Now())
	if err != nil {
		return err
	}

	habits := tr.ActiveHabits()
	week := tr.WeekProgress(utils.StartOfWeek(date))

	header := make([]string, len(week))
	for i, p := range week {
		d, _ := utils.ParseDayKey(p.Date, tr.Location())
		header[i] = d.Weekday().String()[:2]
	}
	ctx.Printf("%s  %s to %s\n", cli.HeaderStyle.Render("Week"), week[0].Date, week[len(week)-1].Date)
	ctx.Printf("  %-20s %s\n", "", strings.Join(header, " "))
	for _, h := range habits {
		cells := make([]string, len(week))
		for i, p := range week {
			cells[i] = cell(p.IsCompleted(h.ID))
		}
		ctx.Printf("  %-20s %s\n", truncate(h.Name, 20), strings.Join(cells, " "))
	}

	total := 0
	for _, p := range week {
		total += p.CompletedCount()
	}
	ctx.Printf("\n%d completions this week\n", total)
	return nil
}

type HabitMonthCmd struct {
	Month string `arg:"" optional:"" help:"Month to show, YYYY-MM (default: this month)."`
}

func (c *HabitMonthCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	tr := svc.Tracker()

	now := tr.Now()
	year, month := now.Year(), now.Month()
	if c.Month != "" {
		t, err := time.Parse("2006-01", c.Month)
		if err != nil {
			return fmt.Errorf("invalid month: %s (expected YYYY-MM)", c.Month)
		}
		year, month = t.Year(), t.Month()
	}

	days := tr.MonthProgress(year, int(month)-1)
	ctx.Printf("%s  %s %d\n", cli.HeaderStyle.Render("Month"), month, year)
	ctx.Println("  Mo Tu We Th Fr Sa Su")

	first := time.Date(year, month, 1, 0, 0, 0, 0, tr.Location())
	offset := (int(first.Weekday()) + 6) % 7
	var b strings.Builder
	b.WriteString("  " + strings.Repeat("   ", offset))
	active := len(tr.ActiveHabits())
	for i, p := range days {
		b.WriteString(dayCell(p.CompletedCount(), active, i+1))
		if (offset+i+1)%7 == 0 {
			ctx.Println(strings.TrimRight(b.String(), " "))
			b.Reset()
			b.WriteString("  ")
		} else {
			b.WriteString(" ")
		}
	}
	if rest := strings.TrimRight(b.String(), " "); rest != "" {
		ctx.Println(rest)
	}

	total := 0
	for _, p := range days {
		total += p.CompletedCount()
	}
	ctx.Printf("\n%d completions in %s\n", total, month)
	return nil
}

// dayCell renders a calendar day: bright when every active habit was done,
// dim when some were.
func dayCell(done, active, day int) string {
	label := fmt.Sprintf("%2d", day)
	switch {
	case done > 0 && done >= active:
		return cli.SuccessStyle.Render(label)
	case done > 0:
		return cli.WarningStyle.Render(label)
	default:
		return cli.MutedStyle.Render(label)
	}
}

type HabitYearCmd struct {
	Year int `arg:"" optional:"" help:"Year to show (default: this year)."`
}

func (c *HabitYearCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	tr := svc.Tracker()

	year := c.Year
	if year == 0 {
		year = tr.Now().Year()
	}

	totals := tr.YearProgress(year)
	most := 0
	for _, m := range totals {
		most = max(most, m.Completions)
	}

	ctx.Printf("%s  %d\n", cli.HeaderStyle.Render("Year"), year)
	for _, m := range totals {
		bar := ""
		if most > 0 {
			bar = strings.Repeat("█", m.Completions*30/most)
		}
		ctx.Printf("  %s %4d %s\n", time.Month(m.Month).String()[:3], m.Completions, cli.SuccessStyle.Render(bar))
	}
	return nil
}

type HabitLogCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Limit int    `help:"Maximum number of completions to show (0 for all)." default:"20"`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	tr := svc.Tracker()
	habit, err := cli.ResolveHabit(tr, c.Habit)
	if err != nil {
		return err
	}

	completions := tr.HabitCompletions(habit.ID)
	if len(completions) == 0 {
		ctx.Printf("No completions for %s yet.\n", habit.Name)
		return nil
	}
	if c.Limit > 0 && len(completions) > c.Limit {
		completions = completions[:c.Limit]
	}

	ctx.Printf("%s %s\n", habit.Icon, cli.HeaderStyle.Render(habit.Name))
	for _, comp := range completions {
		at := comp.CompletedAt.In(tr.Location())
		line := fmt.Sprintf("  %s %s", at.Format(constants.DateFormat), at.Format(constants.TimeFormat))
		if comp.Notes != "" {
			line += "  " + cli.MutedStyle.Render(comp.Notes)
		}
		ctx.Println(line)
	}
	return nil
}

func cell(done bool) string {
	if done {
		return cli.SuccessStyle.Render("✓ ")
	}
	return cli.MutedStyle.Render("· ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
