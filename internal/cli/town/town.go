package town

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/habitown/internal/cli"
	"github.com/julianstephens/habitown/internal/constants"
	"github.com/julianstephens/habitown/internal/progression"
)

type TownCmd struct {
	Status    TownStatusCmd    `cmd:"" default:"1" help:"Show town level, experience and resources."`
	Buildings TownBuildingsCmd `cmd:"" help:"List buildings."`
	Areas     TownAreasCmd     `cmd:"" help:"List areas."`
	Residents TownResidentsCmd `cmd:"" help:"List residents."`
	Events    TownEventsCmd    `cmd:"" help:"List town events."`
	Specials  TownSpecialsCmd  `cmd:"" help:"List special buildings."`
	Unlock    TownUnlockCmd    `cmd:"" help:"Unlock a building, area or special building."`
	Upgrade   TownUpgradeCmd   `cmd:"" help:"Upgrade a building by one level."`
	Welcome   TownWelcomeCmd   `cmd:"" help:"Welcome a resident to town."`
	Trigger   TownTriggerCmd   `cmd:"" help:"Trigger a town event."`
}

type TownStatusCmd struct{}

func (c *TownStatusCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	tw := svc.Town()
	stats := tw.Stats()

	into := stats.Experience % constants.ExperiencePerLevel
	ctx.Printf("%s  Level %d\n", cli.HeaderStyle.Render("Town"), stats.Level)
	ctx.Printf("  Experience:  %d  %s %d/%d\n", stats.Experience, progressBar(into, constants.ExperiencePerLevel, 20), into, constants.ExperiencePerLevel)
	ctx.Printf("  Population:  %d\n", stats.Population)
	ctx.Printf("  Happiness:   %d/%d\n", stats.Happiness, constants.MaxHappiness)
	ctx.Printf("  Coins:       %d\n", stats.Coins)

	unlocked := 0
	buildings := tw.Buildings()
	for _, b := range buildings {
		if b.Unlocked {
			unlocked++
		}
	}
	ctx.Printf("  Buildings:   %d/%d unlocked\n", unlocked, len(buildings))
	ctx.Printf("  Areas:       %d/%d unlocked\n", len(tw.UnlockedAreas()), len(tw.Areas()))
	ctx.Printf("  Landmarks:   %d/%d unlocked\n", len(tw.SpecialBuildings()), len(tw.AllSpecialBuildings()))
	return nil
}

func progressBar(value, total, width int) string {
	if total <= 0 {
		return ""
	}
	filled := value * width / total
	return cli.SuccessStyle.Render(strings.Repeat("█", filled)) + cli.MutedStyle.Render(strings.Repeat("░", width-filled))
}

func lockLabel(unlocked bool) string {
	if unlocked {
		return cli.SuccessStyle.Render("unlocked")
	}
	return cli.MutedStyle.Render("locked")
}

type TownBuildingsCmd struct{}

func (c *TownBuildingsCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	for _, b := range svc.Town().Buildings() {
		ctx.Printf("%s %-10s %-8s lvl %d/%d  cost %d  %s\n", b.Icon, b.Name, lockLabel(b.Unlocked), b.Level, b.MaxLevel, b.Cost, cli.MutedStyle.Render(b.ID))
	}
	return nil
}

type TownAreasCmd struct{}

func (c *TownAreasCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	for _, a := range svc.Town().Areas() {
		ctx.Printf("%s %-12s %-8s level %d  [%s]  %s\n", a.Icon, a.Name, lockLabel(a.Unlocked), a.RequiredLevel, strings.Join(a.Buildings, ", "), cli.MutedStyle.Render(a.ID))
	}
	return nil
}

type TownResidentsCmd struct {
	All bool `help:"Include residents who have not moved in yet."`
}

func (c *TownResidentsCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	shown := 0
	for _, r := range svc.Town().Residents() {
		if !r.Unlocked && !c.All {
			continue
		}
		shown++
		ctx.Printf("%s %-12s %-9s %s  happiness %d  %s\n", r.Icon, r.Name, r.Type, r.Specialty, r.Happiness, cli.MutedStyle.Render(r.ID))
	}
	if shown == 0 {
		ctx.Println("No residents yet.")
	}
	return nil
}

type TownEventsCmd struct{}

func (c *TownEventsCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	for _, e := range svc.Town().Events() {
		state := cli.MutedStyle.Render("inactive")
		if e.Active {
			state = cli.SuccessStyle.Render("active")
		}
		ctx.Printf("%s %s (%s, %d days) %s  %s\n", e.Icon, e.Title, e.Type, e.Duration, state, cli.MutedStyle.Render(e.ID))
		ctx.Printf("    %s\n", e.Description)
	}
	return nil
}

type TownSpecialsCmd struct{}

func (c *TownSpecialsCmd) Run(ctx *cli.Context) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	for _, s := range svc.Town().AllSpecialBuildings() {
		ctx.Printf("%s %-14s %-8s needs a %s streak  %s\n", s.Icon, s.Name, lockLabel(s.Unlocked), cli.FormatStreak(s.RequiredStreak), cli.MutedStyle.Render(s.ID))
	}
	return nil
}

type TownUnlockCmd struct {
	Kind string `arg:"" enum:"building,area,special" help:"What to unlock (building, area, special)."`
	ID   string `arg:"" help:"Catalog id."`
}

func (c *TownUnlockCmd) Run(ctx *cli.Context) error {
	action := map[string]progression.TownAction{
		"building": progression.UnlockBuilding,
		"area":     progression.UnlockArea,
		"special":  progression.UnlockSpecialBuilding,
	}[c.Kind]
	if action == "" {
		return fmt.Errorf("unknown kind %q", c.Kind)
	}
	return apply(ctx, action, c.ID, "Unlocked %s", "%s is already unlocked or does not exist")
}

type TownUpgradeCmd struct {
	ID string `arg:"" help:"Building id."`
}

func (c *TownUpgradeCmd) Run(ctx *cli.Context) error {
	return apply(ctx, progression.UpgradeBuilding, c.ID, "Upgraded %s", "%s is at max level or does not exist")
}

type TownWelcomeCmd struct {
	ID string `arg:"" help:"Resident id."`
}

func (c *TownWelcomeCmd) Run(ctx *cli.Context) error {
	return apply(ctx, progression.AddResident, c.ID, "%s moved in", "%s already lives here or does not exist")
}

type TownTriggerCmd struct {
	ID string `arg:"" help:"Event id."`
}

func (c *TownTriggerCmd) Run(ctx *cli.Context) error {
	return apply(ctx, progression.TriggerEvent, c.ID, "%s started", "%s is already active or does not exist")
}

func apply(ctx *cli.Context, action progression.TownAction, id, changed, unchanged string) error {
	svc, err := ctx.Service()
	if err != nil {
		return err
	}
	ok, err := svc.ApplyTownAction(context.Background(), action, id)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Printf("%s "+unchanged+"\n", cli.WarningStyle.Render("⚠"), id)
		return nil
	}
	ctx.Printf("%s "+changed+"\n", cli.SuccessStyle.Render("✓"), id)
	return nil
}
