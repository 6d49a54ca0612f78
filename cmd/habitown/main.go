package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/habitown/internal/cli"
	"github.com/julianstephens/habitown/internal/cli/backups"
	"github.com/julianstephens/habitown/internal/cli/data"
	"github.com/julianstephens/habitown/internal/cli/habits"
	"github.com/julianstephens/habitown/internal/cli/system"
	"github.com/julianstephens/habitown/internal/cli/town"
	"github.com/julianstephens/habitown/internal/constants"
	"github.com/julianstephens/habitown/internal/errors"
	"github.com/julianstephens/habitown/internal/keyring"
	"github.com/julianstephens/habitown/internal/logger"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"Data file path (.db for SQLite, .json for plain JSON) or PostgreSQL connection string. Connection strings must NOT embed a password; use the keyring, HABITOWN_DB_CONNECTION or .pgpass instead." env:"HABITOWN_CONFIG"`
	Timezone string `help:"IANA timezone that decides calendar days (overrides the stored setting)."`
	Debug    bool   `help:"Log debug output to stderr." env:"HABITOWN_DEBUG"`

	Init     system.InitCmd    `cmd:"" help:"Initialize habitown storage."`
	Migrate  system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd     `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Habit    habits.HabitCmd   `cmd:"" help:"Manage and track habits."`
	Town     town.TownCmd      `cmd:"" help:"Look after your town."`
	Data     data.DataCmd      `cmd:"" help:"Export, import or reset data."`
	Backup   backups.BackupCmd `cmd:"" help:"Manage backups of the data file."`
	Settings system.ConfigCmd  `cmd:"" name:"config" help:"Manage the connection and settings."`
}

// commands that must run before the store exists or without it
var skipLoad = []string{"init", "doctor", "config set-connection", "config clear-connection"}

func main() {
	loadEnvFile(constants.DefaultEnvPath)

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Build habits, grow a town."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":       "v0.1.0",
			"default_color": constants.DefaultHabitColor,
			"default_icon":  constants.DefaultHabitIcon,
		},
	)

	target, trusted, keyringErr := resolveTarget(CLI.Config)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: logDir(target)}); err != nil {
		fmt.Fprintln(os.Stderr, errors.Formatf("failed to initialize logger: %v", err))
	}
	if keyringErr != nil {
		logger.Warn("Keyring lookup failed, using the default data file", "error", keyringErr)
	}

	store, err := cli.OpenStore(target, trusted)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Store:    store,
		Timezone: CLI.Timezone,
	}

	if needsLoad(ctx.Command()) {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

// resolveTarget picks the storage target: --config (or HABITOWN_CONFIG),
// then a connection string from the environment or keyring, then the
// default data file. Keyring and environment values are trusted to carry
// credentials. A keyring error falls back to the default file and is
// returned for logging.
func resolveTarget(flag string) (target string, trusted bool, keyringErr error) {
	if flag != "" {
		return flag, false, nil
	}
	connStr, source, err := keyring.ResolveConnectionString()
	if source != keyring.SourceNone {
		return connStr, true, nil
	}
	return constants.DefaultConfigPath, false, err
}

// loadEnvFile reads HABITOWN_* defaults from an optional dotenv file.
// Variables already set in the environment win.
func loadEnvFile(path string) {
	expanded, err := cli.ExpandPath(path)
	if err != nil {
		return
	}
	if _, err := os.Stat(expanded); err != nil {
		return
	}
	if err := godotenv.Load(expanded); err != nil {
		fmt.Fprintln(os.Stderr, errors.Formatf("failed to load %s: %v", expanded, err))
	}
}

func logDir(target string) string {
	path := target
	if strings.Contains(target, "://") || strings.Contains(target, "host=") {
		path = constants.DefaultConfigPath
	}
	expanded, err := cli.ExpandPath(path)
	if err != nil {
		return os.TempDir()
	}
	return filepath.Dir(expanded)
}

func needsLoad(command string) bool {
	for _, prefix := range skipLoad {
		if strings.HasPrefix(command, prefix) {
			return false
		}
	}
	return true
}
