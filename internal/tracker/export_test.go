package tracker

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/julianstephens/habitown/internal/constants"
	"github.com/julianstephens/habitown/internal/validation"
)

func TestExportImportRoundTrip(t *testing.T) {
	src, _ := newTestTracker(t)
	a := src.AddHabit(habitInput("Read"))
	b := src.AddHabit(habitInput("Run"))
	src.CompleteHabit(a.ID, day(0), "chapter 3")
	src.CompleteHabit(a.ID, day(-1), "")
	src.CompleteHabit(b.ID, day(-1), "")
	src.UncompleteHabit(b.ID, day(-1))
	src.ToggleHabitActive(b.ID)

	data, err := src.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON() error: %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("export is not a JSON object: %v", err)
	}
	for _, key := range []string{"habits", "completions", "dailyProgress", "exportDate", "version"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("export missing %q", key)
		}
	}
	if string(doc["version"]) != `"`+constants.ExportVersion+`"` {
		t.Errorf("version = %s", doc["version"])
	}

	dst, _ := newTestTracker(t)
	if err := dst.Import(data); err != nil {
		t.Fatalf("Import() error: %v", err)
	}

	want, _ := json.Marshal(src.Snapshot())
	got, _ := json.Marshal(dst.Snapshot())
	if !bytes.Equal(want, got) {
		t.Errorf("round trip mismatch:\nwant %s\ngot  %s", want, got)
	}
	gotStats, wantStats := dst.HabitStats(a.ID), src.HabitStats(a.ID)
	if gotStats.CurrentStreak != wantStats.CurrentStreak ||
		gotStats.LongestStreak != wantStats.LongestStreak ||
		gotStats.TotalCompletions != wantStats.TotalCompletions {
		t.Errorf("stats differ after import: %+v vs %+v", gotStats, wantStats)
	}
}

func TestImport_DayStableAcrossZones(t *testing.T) {
	tr, _ := newTestTracker(t)
	payload := []byte(`{"habits":[{"id":"h1","name":"Read","isActive":true}],"completions":[{"id":"c1","habitId":"h1","completedAt":"2026-10-16T23:30:00-07:00"}]}`)

	if err := tr.Import(payload); err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if got := tr.HabitCompletions("h1")[0].CompletedAt.Format(constants.DateFormat); got != "2026-10-16" {
		t.Errorf("completion day = %s, want 2026-10-16", got)
	}
	if !tr.IsHabitCompleted("h1", time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)) {
		t.Error("completion moved to another day after import")
	}
}

func TestImport_InvalidLeavesStateUntouched(t *testing.T) {
	tr, _ := newTestTracker(t)
	h := tr.AddHabit(habitInput("Read"))
	tr.CompleteHabit(h.ID, day(0), "")
	before, _ := json.Marshal(tr.Snapshot())

	for _, payload := range []string{`{}`, `{"habits":"nope"}`, `[1,2]`, `garbage`} {
		err := tr.Import([]byte(payload))
		if !errors.Is(err, validation.ErrInvalidImport) {
			t.Errorf("Import(%s) error = %v, want ErrInvalidImport", payload, err)
		}
	}

	after, _ := json.Marshal(tr.Snapshot())
	if !bytes.Equal(before, after) {
		t.Error("failed import modified state")
	}
}
