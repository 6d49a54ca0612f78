package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/habitown/internal/backup"
	"github.com/julianstephens/habitown/internal/clock"
	"github.com/julianstephens/habitown/internal/logger"
	"github.com/julianstephens/habitown/internal/models"
	"github.com/julianstephens/habitown/internal/progression"
	"github.com/julianstephens/habitown/internal/storage"
	"github.com/julianstephens/habitown/internal/town"
	"github.com/julianstephens/habitown/internal/tracker"
	"github.com/julianstephens/habitown/internal/utils"
)

type Context struct {
	Store storage.Provider
	// Timezone overrides the stored timezone setting when non-empty.
	Timezone string
	Clock    clock.Clock
	Out      io.Writer
	In       io.Reader

	service *progression.Service
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) in() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

// Writer is where command output goes.
func (c *Context) Writer() io.Writer {
	return c.out()
}

// Location resolves the timezone from the --timezone flag or the stored
// settings, defaulting to the system zone.
func (c *Context) Location() (*time.Location, error) {
	tz := c.Timezone
	if tz == "" {
		settings, err := c.Store.GetSettings()
		if err == nil {
			tz = settings.Timezone
		}
	}
	loc, err := utils.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
	}
	return loc, nil
}

// Service returns the progression service, loading it from the store on
// first use.
func (c *Context) Service() (*progression.Service, error) {
	if c.service != nil {
		return c.service, nil
	}
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}

	opts := []tracker.Option{tracker.WithLocation(loc)}
	if c.Clock != nil {
		opts = append(opts, tracker.WithClock(c.Clock))
	}
	svc := progression.New(c.Store, tracker.New(opts...), town.New())
	if err := svc.Load(context.Background()); err != nil {
		return nil, err
	}
	c.service = svc
	return svc, nil
}

// BackupManager returns a backup manager for file-based stores.
func (c *Context) BackupManager() (*backup.Manager, error) {
	if c.Store.GetConfigPath() == "postgresql" {
		return nil, fmt.Errorf("backups are only available for file-based storage; use pg_dump for PostgreSQL")
	}
	opts := []backup.Option{}
	if c.Clock != nil {
		opts = append(opts, backup.WithClock(c.Clock))
	}
	return backup.NewManager(c.Store.GetConfigPath(), opts...), nil
}

// PerformAutomaticBackup creates a backup and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.BackupManager()
	if err != nil {
		logger.Debug("Skipping automatic backup", "reason", err)
		return
	}
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Confirm asks a yes/no question on the command input.
func (c *Context) Confirm(prompt string) (bool, error) {
	c.Printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.in()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// ResolveHabit finds a habit by id or, failing that, by case-insensitive
// name.
func ResolveHabit(tr *tracker.Tracker, ref string) (models.Habit, error) {
	if h, ok := tr.Habit(ref); ok {
		return h, nil
	}
	var matches []models.Habit
	for _, h := range tr.Habits() {
		if strings.EqualFold(h.Name, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("%w: %q", progression.ErrHabitNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, fmt.Errorf("%d habits are named %q, use the id instead", len(matches), ref)
	}
}

// ParseDate turns a YYYY-MM-DD flag into a time on that day. An empty
// string means now.
func ParseDate(value string, loc *time.Location, now time.Time) (time.Time, error) {
	if value == "" {
		return now.In(loc), nil
	}
	day, err := utils.ParseDayKey(value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", value)
	}
	// noon keeps DST transitions from moving the completion to another day
	return day.Add(12 * time.Hour), nil
}

// FormatStreak renders a streak count for display.
func FormatStreak(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

// FrequencyLabel renders a habit's frequency and target.
func FrequencyLabel(h models.Habit) string {
	if h.TargetDays <= 1 {
		return string(h.Frequency)
	}
	return fmt.Sprintf("%s ×%d", h.Frequency, h.TargetDays)
}

// Now returns the clock's time, or the wall clock when none is set.
func (c *Context) Now() time.Time {
	if c.Clock != nil {
		return c.Clock.Now()
	}
	return time.Now()
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return home + strings.TrimPrefix(path, "~"), nil
}
