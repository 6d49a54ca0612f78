package data

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/habitown/internal/cli"
)

type DataCmd struct {
	Export DataExportCmd `cmd:"" help:"Export habits and completions as JSON or YAML."`
	Import DataImportCmd `cmd:"" help:"Replace habit data with an exported JSON or YAML file."`
	Reset  DataResetCmd  `cmd:"" help:"Delete all habits and reset the town."`
}

type DataExportCmd struct {
	Output string `short:"o" help:"File to write (default: stdout)." type:"path"`
	Format string `short:"f" help:"Output format." enum:"json,yaml" default:"json"`
}

func (c *DataExportCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	data, err := svc.Export()
	if err != nil {
		return fmt.Errorf("failed to export data: %w", err)
	}
	if c.Format == formatYAML {
		if data, err = toYAML(data); err != nil {
			return err
		}
	}

	if c.Output == "" {
		ctx.Println(strings.TrimRight(string(data), "\n"))
		return nil
	}
	if err := os.WriteFile(c.Output, []byte(strings.TrimRight(string(data), "\n")+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	ctx.Printf("%s Exported %d habits to %s\n", cli.SuccessStyle.Render("✓"), len(svc.Tracker().Habits()), c.Output)
	return nil
}

type DataImportCmd struct {
	File string `arg:"" help:"Export file to import." type:"existingfile"`
	Yes  bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *DataImportCmd) Run(ctx *cli.Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}
	if isYAMLFile(c.File) {
		if data, err = fromYAML(data); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
	}
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.Confirm("Importing replaces all current habits and completions. Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Import cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := svc.Import(context.Background(), data); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	ctx.Printf("%s Imported %d habits\n", cli.SuccessStyle.Render("✓"), len(svc.Tracker().Habits()))
	return nil
}

type DataResetCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation."`
}

func (c *DataResetCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}

	if !c.Yes {
		ctx.Println(cli.DangerStyle.Render("This deletes every habit and completion and resets your town."))
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Reset cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := svc.Reset(context.Background()); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	ctx.Printf("%s All data has been reset\n", cli.SuccessStyle.Render("✓"))
	return nil
}
