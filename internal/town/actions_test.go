package town

import (
	"testing"

	"github.com/julianstephens/habitown/internal/models"
)

func TestUnlockBuilding(t *testing.T) {
	tw := New()
	pop := tw.Stats().Population

	if !tw.UnlockBuilding("shop") {
		t.Fatal("UnlockBuilding(shop) = false")
	}
	if tw.UnlockBuilding("shop") {
		t.Error("second UnlockBuilding(shop) = true")
	}
	if tw.UnlockBuilding("castle") {
		t.Error("UnlockBuilding(castle) = true for unknown id")
	}
	if got := tw.Stats().Population; got != pop+1 {
		t.Errorf("Population = %d, want %d", got, pop+1)
	}
}

func TestUpgradeBuilding(t *testing.T) {
	tw := New()

	for i := 0; i < 4; i++ {
		if !tw.UpgradeBuilding("house") {
			t.Fatalf("upgrade %d refused", i+1)
		}
	}
	if tw.UpgradeBuilding("house") {
		t.Error("upgrade beyond max level accepted")
	}
	for _, b := range tw.Buildings() {
		if b.ID == "house" && b.Level != b.MaxLevel {
			t.Errorf("house level = %d, want %d", b.Level, b.MaxLevel)
		}
	}
	if tw.UpgradeBuilding("missing") {
		t.Error("UpgradeBuilding() = true for unknown id")
	}
}

func TestDirectSetters(t *testing.T) {
	tests := []struct {
		name  string
		apply func(*Town, string) bool
		id    string
		check func(*Town) bool
	}{
		{
			name:  "area",
			apply: (*Town).UnlockArea,
			id:    "recreation",
			check: func(tw *Town) bool { return len(tw.UnlockedAreas()) == 2 },
		},
		{
			name:  "resident",
			apply: (*Town).AddResident,
			id:    "merchant1",
			check: func(tw *Town) bool {
				for _, r := range tw.Residents() {
					if r.ID == "merchant1" {
						return r.Unlocked
					}
				}
				return false
			},
		},
		{
			name:  "event",
			apply: (*Town).TriggerEvent,
			id:    "festival",
			check: func(tw *Town) bool { return tw.Events()[0].Active },
		},
		{
			name:  "special building",
			apply: (*Town).UnlockSpecialBuilding,
			id:    "golden_statue",
			check: func(tw *Town) bool { return len(tw.SpecialBuildings()) == 1 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := New()
			stats := tw.Stats()
			if !tt.apply(tw, tt.id) {
				t.Fatalf("first call returned false")
			}
			if tt.apply(tw, tt.id) {
				t.Error("second call returned true")
			}
			if tt.apply(tw, "missing") {
				t.Error("unknown id returned true")
			}
			if !tt.check(tw) {
				t.Error("state not updated")
			}
			if tt.name != "special building" && tw.Stats() != stats {
				t.Errorf("stats changed: %+v -> %+v", stats, tw.Stats())
			}
		})
	}
}

func TestTriggerEventDoesNotApplyEffects(t *testing.T) {
	tw := New()
	before := tw.Stats()
	tw.TriggerEvent("festival")
	if tw.Stats() != before {
		t.Errorf("event changed stats: %+v -> %+v", before, tw.Stats())
	}
}

func TestRestore_ReseedsMissingEntries(t *testing.T) {
	tw := New()
	tw.Restore(models.TownState{
		Stats:     models.TownStats{Level: 4, Experience: 300, Population: 12, Happiness: 70, Coins: 400},
		Buildings: []models.Building{{ID: "house", Unlocked: true, Level: 3, MaxLevel: 5}},
	})

	if got := tw.Stats().Level; got != 4 {
		t.Errorf("Level = %d, want 4", got)
	}
	buildings := tw.Buildings()
	if len(buildings) != 3 || buildings[0].Level != 3 {
		t.Errorf("Buildings() = %+v", buildings)
	}
	if len(tw.Areas()) != 3 || len(tw.Residents()) != 2 || len(tw.Events()) != 1 || len(tw.AllSpecialBuildings()) != 1 {
		t.Error("missing catalogs were not re-seeded")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	tw := New()
	tw.CompleteHabit("h1", 40, 40)
	tw.UpgradeBuilding("house")
	tw.AddResident("merchant1")
	snap := tw.Snapshot()

	snap.Areas[0].Buildings[0] = "mutated"
	if tw.Areas()[0].Buildings[0] != "house" {
		t.Fatal("snapshot shares area building slice")
	}
	snap.Areas[0].Buildings[0] = "house"

	other := New()
	other.Restore(snap)
	if other.Stats() != tw.Stats() {
		t.Errorf("stats differ: %+v vs %+v", other.Stats(), tw.Stats())
	}
	if len(other.SpecialBuildings()) != 1 {
		t.Error("special building unlock lost")
	}

	other.Reset()
	if other.Stats() != New().Stats() {
		t.Errorf("Reset() stats = %+v", other.Stats())
	}
}
