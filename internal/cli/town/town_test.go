package town

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/habitown/internal/cli"
	"github.com/julianstephens/habitown/internal/clock"
	"github.com/julianstephens/habitown/internal/storage"
)

func setupTestStore(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "habitown.json")
	store := storage.NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	out := &bytes.Buffer{}
	return &cli.Context{
		Store:    store,
		Timezone: "UTC",
		Clock:    clock.NewFakeClock(time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)),
		Out:      out,
	}, out
}

// reopen loads a fresh context over the same store file.
func reopen(t *testing.T, ctx *cli.Context) *cli.Context {
	t.Helper()
	store := storage.NewJSONStore(ctx.Store.GetConfigPath())
	if err := store.Load(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}
	return &cli.Context{Store: store, Timezone: "UTC", Clock: ctx.Clock, Out: ctx.Out}
}

func TestTownStatusCmd(t *testing.T) {
	ctx, out := setupTestStore(t)
	if err := (&TownStatusCmd{}).Run(ctx); err != nil {
		t.Fatalf("town status failed: %v", err)
	}
	for _, want := range []string{"Level 1", "Population:  10", "Coins:       100", "Buildings:   1/3 unlocked", "Areas:       1/3 unlocked"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestTownListings(t *testing.T) {
	ctx, out := setupTestStore(t)

	tests := []struct {
		name string
		cmd  interface{ Run(*cli.Context) error }
		want []string
	}{
		{"buildings", &TownBuildingsCmd{}, []string{"House", "Shop", "Park"}},
		{"areas", &TownAreasCmd{}, []string{"residential", "commercial", "recreation"}},
		{"residents", &TownResidentsCmd{}, []string{"Tanaka"}},
		{"all residents", &TownResidentsCmd{All: true}, []string{"Tanaka", "Shopkeeper"}},
		{"events", &TownEventsCmd{}, []string{"Festival", "inactive"}},
		{"specials", &TownSpecialsCmd{}, []string{"Golden Statue", "30 days"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			if err := tt.cmd.Run(ctx); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output missing %q:\n%s", w, out.String())
				}
			}
		})
	}

	out.Reset()
	if err := (&TownResidentsCmd{}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if strings.Contains(out.String(), "Shopkeeper") {
		t.Error("locked resident listed without --all")
	}
}

func TestTownActions(t *testing.T) {
	tests := []struct {
		name      string
		cmd       interface{ Run(*cli.Context) error }
		wantFirst string
	}{
		{"unlock building", &TownUnlockCmd{Kind: "building", ID: "shop"}, "Unlocked shop"},
		{"unlock area", &TownUnlockCmd{Kind: "area", ID: "commercial"}, "Unlocked commercial"},
		{"unlock special", &TownUnlockCmd{Kind: "special", ID: "golden_statue"}, "Unlocked golden_statue"},
		{"welcome", &TownWelcomeCmd{ID: "merchant1"}, "merchant1 moved in"},
		{"trigger", &TownTriggerCmd{ID: "festival"}, "festival started"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out := setupTestStore(t)
			if err := tt.cmd.Run(ctx); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !strings.Contains(out.String(), tt.wantFirst) {
				t.Errorf("output = %q, want %q", out.String(), tt.wantFirst)
			}

			// The change must survive a reload, and repeating it is a no-op.
			again := reopen(t, ctx)
			out.Reset()
			if err := tt.cmd.Run(again); err != nil {
				t.Fatalf("second Run() error = %v", err)
			}
			if !strings.Contains(out.String(), "⚠") {
				t.Errorf("repeat output = %q, want warning", out.String())
			}
		})
	}
}

func TestTownUpgradeCmd(t *testing.T) {
	ctx, out := setupTestStore(t)
	for i := 0; i < 4; i++ {
		if err := (&TownUpgradeCmd{ID: "house"}).Run(ctx); err != nil {
			t.Fatalf("upgrade %d failed: %v", i, err)
		}
	}
	svc, err := ctx.Service()
	if err != nil {
		t.Fatal(err)
	}
	if lvl := svc.Town().Buildings()[0].Level; lvl != 5 {
		t.Fatalf("house level = %d, want 5", lvl)
	}

	out.Reset()
	if err := (&TownUpgradeCmd{ID: "house"}).Run(ctx); err != nil {
		t.Fatalf("upgrade at max failed: %v", err)
	}
	if !strings.Contains(out.String(), "max level") {
		t.Errorf("output = %q, want max level warning", out.String())
	}
}

func TestTownUnlockCmd_UnknownID(t *testing.T) {
	ctx, out := setupTestStore(t)
	if err := (&TownUnlockCmd{Kind: "building", ID: "castle"}).Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "does not exist") {
		t.Errorf("output = %q, want warning", out.String())
	}
}
