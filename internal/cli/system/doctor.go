package system

import (
	"errors"
	"fmt"
	"os"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitown/internal/cli"
	"github.com/julianstephens/habitown/internal/constants"
	"github.com/julianstephens/habitown/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(*cli.Context) error
	// needsDB checks are skipped when storage cannot be loaded
	needsDB bool
	// warnOnly failures are reported but do not fail the command
	warnOnly bool
}

// errNotApplicable marks a check that does not apply to the current store.
var errNotApplicable = errors.New("not applicable")

var checks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Settings", run: checkSettings, needsDB: true},
	{name: "Stored data readable", run: checkDataReadable, needsDB: true},
	{name: "Habit integrity", run: checkHabitIntegrity, needsDB: true},
	{name: "Town integrity", run: checkTownIntegrity, needsDB: true},
	{name: "Clock/timezone", run: checkClock},
	{name: "Other habitown processes", run: checkOtherProcesses, warnOnly: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true
	for i, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case errors.Is(err, errNotApplicable):
			ctx.Printf("⊘ %s: SKIPPED (%v)\n", c.name, err)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if i == 0 {
				dbReachable = false
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, err := ctx.Migrator()
	if err != nil {
		return fmt.Errorf("%w: %s storage has no schema", errNotApplicable, ctx.StoreKind())
	}
	current, latest, err := m.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	m, err := ctx.Migrator()
	if err != nil {
		return fmt.Errorf("%w: %s storage has no schema", errNotApplicable, ctx.StoreKind())
	}
	current, latest, err := m.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'habitown migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return fmt.Errorf("%w: backups are file-based only", errNotApplicable)
	}
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habitown backup create'")
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("stored timezone %q is not a valid IANA timezone", settings.Timezone)
	}
	return nil
}

func checkDataReadable(ctx *cli.Context) error {
	_, err := ctx.Service()
	return err
}

func checkHabitIntegrity(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return fmt.Errorf("%w: stored data unreadable", errNotApplicable)
	}
	habits, _ := svc.Integrity()
	if habits.HasConflicts() {
		return errors.New(habits.FormatReport())
	}
	return nil
}

func checkTownIntegrity(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return fmt.Errorf("%w: stored data unreadable", errNotApplicable)
	}
	_, town := svc.Integrity()
	if town.HasConflicts() {
		return errors.New(town.FormatReport())
	}
	return nil
}

func checkClock(ctx *cli.Context) error {
	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if _, err := ctx.Location(); err != nil {
		return err
	}
	return nil
}

func checkOtherProcesses(ctx *cli.Context) error {
	procs, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}
	others := countOthers(procs, os.Getpid())
	if others > 0 {
		return fmt.Errorf("%d other %s process(es) running; stop them before restoring backups or resetting data", others, constants.AppName)
	}
	return nil
}

func countOthers(procs []ps.Process, self int) int {
	n := 0
	for _, p := range procs {
		if p.Pid() != self && p.Executable() == constants.AppName {
			n++
		}
	}
	return n
}
