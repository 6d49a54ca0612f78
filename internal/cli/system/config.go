package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitown/internal/cli"
	"github.com/julianstephens/habitown/internal/keyring"
	"github.com/julianstephens/habitown/internal/storage/postgres"
	"github.com/julianstephens/habitown/internal/utils"
)

type ConfigCmd struct {
	SetConnection   ConfigSetConnectionCmd   `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	ClearConnection ConfigClearConnectionCmd `cmd:"" help:"Remove the stored connection string from the OS keyring."`
	Show            ConfigShowCmd            `cmd:"" help:"Show the active storage and settings."`
	Timezone        ConfigTimezoneCmd        `cmd:"" help:"Set the timezone used to decide calendar days."`
}

// ConfigSetConnectionCmd stores database connection credentials in the OS keyring
type ConfigSetConnectionCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in the keyring."`
}

func (cmd *ConfigSetConnectionCmd) Run(ctx *cli.Context) error {
	if !postgres.IsConnString(cmd.ConnectionString) && !strings.Contains(cmd.ConnectionString, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// the keyring is encrypted, so embedded credentials are accepted here
		ctx.Println(cli.WarningStyle.Render("⚠ Connection string contains embedded credentials."))
		ctx.Println("  It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return err
	}
	ctx.Printf("%s Connection string stored in OS keyring\n", cli.SuccessStyle.Render("✓"))
	ctx.Println("  habitown will use it whenever --config is not given")
	return nil
}

// ConfigClearConnectionCmd removes database connection credentials from the OS keyring
type ConfigClearConnectionCmd struct{}

func (cmd *ConfigClearConnectionCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	ctx.Printf("%s Connection string deleted from OS keyring\n", cli.SuccessStyle.Render("✓"))
	return nil
}

type ConfigShowCmd struct{}

func (cmd *ConfigShowCmd) Run(ctx *cli.Context) error {
	ctx.Printf("Storage:   %s\n", ctx.StoreKind())
	if connStr, source, err := keyring.ResolveConnectionString(); err == nil && source != keyring.SourceNone {
		ctx.Printf("Database:  %s (from %s)\n", keyring.Mask(connStr), source)
	} else {
		ctx.Printf("Location:  %s\n", ctx.Store.GetConfigPath())
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	ctx.Printf("Timezone:  %s\n", settings.Timezone)
	if ctx.Timezone != "" && ctx.Timezone != settings.Timezone {
		ctx.Printf("           overridden by --timezone %s\n", ctx.Timezone)
	}

	if keyring.IsAvailable() {
		ctx.Println("Keyring:   available")
	} else {
		ctx.Println("Keyring:   unavailable")
	}
	return nil
}

type ConfigTimezoneCmd struct {
	Timezone string `arg:"" help:"IANA timezone name (e.g. America/New_York) or Local."`
}

func (cmd *ConfigTimezoneCmd) Run(ctx *cli.Context) error {
	if !utils.ValidateTimezone(cmd.Timezone) {
		return fmt.Errorf("invalid timezone: %s", cmd.Timezone)
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.Timezone = cmd.Timezone
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Printf("%s Timezone set to %s\n", cli.SuccessStyle.Render("✓"), cmd.Timezone)
	return nil
}
