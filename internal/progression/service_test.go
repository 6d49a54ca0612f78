package progression

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitown/internal/clock"
	"github.com/julianstephens/habitown/internal/constants"
	"github.com/julianstephens/habitown/internal/models"
	"github.com/julianstephens/habitown/internal/storage"
	"github.com/julianstephens/habitown/internal/town"
	"github.com/julianstephens/habitown/internal/tracker"
	"github.com/julianstephens/habitown/internal/validation"
)

var testNow = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)

var errDiskFull = errors.New("disk full")

// flakyStore fails PutBlobs while failPut is set.
type flakyStore struct {
	storage.Provider
	failPut bool
	puts    int
}

func (f *flakyStore) PutBlobs(ctx context.Context, blobs ...storage.Blob) error {
	f.puts++
	if f.failPut {
		return errDiskFull
	}
	return f.Provider.PutBlobs(ctx, blobs...)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestService(t *testing.T) (*Service, *flakyStore, *clock.FakeClock) {
	t.Helper()
	inner := storage.NewJSONStore(filepath.Join(t.TempDir(), "habitown.json"))
	if err := inner.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	store := &flakyStore{Provider: inner}
	fc := clock.NewFakeClock(testNow)
	tr := tracker.New(tracker.WithClock(fc), tracker.WithIDGenerator(sequentialIDs()), tracker.WithLocation(time.UTC))
	return New(store, tr, town.New()), store, fc
}

func habitInput(name string) models.HabitInput {
	return models.HabitInput{
		Name:       name,
		Color:      constants.DefaultHabitColor,
		Icon:       constants.DefaultHabitIcon,
		Frequency:  constants.FrequencyDaily,
		TargetDays: 1,
	}
}

func mustAddHabit(t *testing.T, s *Service, name string) models.Habit {
	t.Helper()
	h, err := s.AddHabit(context.Background(), habitInput(name))
	if err != nil {
		t.Fatalf("AddHabit(%q) error = %v", name, err)
	}
	return h
}

func TestRecordHabitCompletion(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()
	h := mustAddHabit(t, s, "Read")

	res, err := s.RecordHabitCompletion(ctx, h.ID, time.Time{}, "chapter 3")
	if err != nil {
		t.Fatalf("RecordHabitCompletion() error = %v", err)
	}
	if !res.Rewarded {
		t.Fatal("first completion of the day was not rewarded")
	}
	if res.Outcome.Streak != 1 {
		t.Errorf("Streak = %d, want 1", res.Outcome.Streak)
	}
	if res.Outcome.ExperienceGain != town.ExperienceGain(1) {
		t.Errorf("ExperienceGain = %d, want %d", res.Outcome.ExperienceGain, town.ExperienceGain(1))
	}
	if res.Completion.Notes != "chapter 3" {
		t.Errorf("Notes = %q", res.Completion.Notes)
	}
	if got := s.Town().Stats().Experience; got != town.ExperienceGain(1) {
		t.Errorf("town experience = %d, want %d", got, town.ExperienceGain(1))
	}
	if !s.Tracker().IsHabitCompleted(h.ID, testNow) {
		t.Error("habit not completed in tracker")
	}
}

func TestRecordHabitCompletion_StreakFeedsTown(t *testing.T) {
	s, _, fc := newTestService(t)
	ctx := context.Background()
	h := mustAddHabit(t, s, "Run")

	var last Result
	for i := 0; i < 3; i++ {
		res, err := s.RecordHabitCompletion(ctx, h.ID, time.Time{}, "")
		if err != nil {
			t.Fatalf("RecordHabitCompletion() day %d error = %v", i, err)
		}
		last = res
		fc.AdvanceDays(1)
	}
	if last.Outcome.Streak != 3 {
		t.Errorf("third day streak = %d, want 3", last.Outcome.Streak)
	}
	want := town.ExperienceGain(1) + town.ExperienceGain(2) + town.ExperienceGain(3)
	if got := s.Town().Stats().Experience; got != want {
		t.Errorf("experience = %d, want %d", got, want)
	}
}

func TestRecordHabitCompletion_SameDayNotRewardedTwice(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()
	h := mustAddHabit(t, s, "Read")

	if _, err := s.RecordHabitCompletion(ctx, h.ID, testNow, "first"); err != nil {
		t.Fatalf("RecordHabitCompletion() error = %v", err)
	}
	exp := s.Town().Stats().Experience

	res, err := s.RecordHabitCompletion(ctx, h.ID, testNow.Add(time.Hour), "second")
	if err != nil {
		t.Fatalf("RecordHabitCompletion() error = %v", err)
	}
	if res.Rewarded {
		t.Error("re-completion on the same day was rewarded")
	}
	if got := s.Town().Stats().Experience; got != exp {
		t.Errorf("experience = %d, want unchanged %d", got, exp)
	}
	completions := s.Tracker().HabitCompletions(h.ID)
	if len(completions) != 1 || completions[0].Notes != "second" {
		t.Errorf("completions = %+v, want one with the second note", completions)
	}
}

func TestRecordHabitCompletion_UnknownHabit(t *testing.T) {
	s, store, _ := newTestService(t)
	puts := store.puts

	_, err := s.RecordHabitCompletion(context.Background(), "missing", time.Time{}, "")
	if !errors.Is(err, ErrHabitNotFound) {
		t.Errorf("error = %v, want ErrHabitNotFound", err)
	}
	if store.puts != puts {
		t.Error("store written for an unknown habit")
	}
	if s.Town().Stats() != town.Seed().Stats {
		t.Error("town changed for an unknown habit")
	}
}

func TestRecordHabitCompletion_RollsBackOnSaveFailure(t *testing.T) {
	s, store, _ := newTestService(t)
	ctx := context.Background()
	h := mustAddHabit(t, s, "Read")

	trackerBefore, _ := json.Marshal(s.Tracker().Snapshot())
	townBefore := s.Town().Snapshot()

	store.failPut = true
	_, err := s.RecordHabitCompletion(ctx, h.ID, time.Time{}, "")
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("error = %v, want errDiskFull", err)
	}

	trackerAfter, _ := json.Marshal(s.Tracker().Snapshot())
	if string(trackerAfter) != string(trackerBefore) {
		t.Errorf("tracker not rolled back:\nbefore %s\nafter  %s", trackerBefore, trackerAfter)
	}
	if s.Town().Stats() != townBefore.Stats {
		t.Errorf("town stats = %+v, want %+v", s.Town().Stats(), townBefore.Stats)
	}

	store.failPut = false
	if _, err := s.RecordHabitCompletion(ctx, h.ID, time.Time{}, ""); err != nil {
		t.Fatalf("retry error = %v", err)
	}
}

func TestRecordHabitUncompletion(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()
	h := mustAddHabit(t, s, "Read")

	if _, err := s.RecordHabitCompletion(ctx, h.ID, testNow, ""); err != nil {
		t.Fatalf("RecordHabitCompletion() error = %v", err)
	}
	exp := s.Town().Stats().Experience

	changed, err := s.RecordHabitUncompletion(ctx, h.ID, testNow)
	if err != nil {
		t.Fatalf("RecordHabitUncompletion() error = %v", err)
	}
	if !changed {
		t.Error("RecordHabitUncompletion() = false, want true")
	}
	if s.Tracker().IsHabitCompleted(h.ID, testNow) {
		t.Error("habit still completed")
	}
	if got := s.Town().Stats().Experience; got != exp {
		t.Errorf("experience = %d, want %d kept", got, exp)
	}

	changed, err = s.RecordHabitUncompletion(ctx, h.ID, testNow)
	if err != nil || changed {
		t.Errorf("second RecordHabitUncompletion() = (%v, %v), want (false, nil)", changed, err)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	s, store, fc := newTestService(t)
	ctx := context.Background()
	h := mustAddHabit(t, s, "Read")
	if _, err := s.RecordHabitCompletion(ctx, h.ID, time.Time{}, ""); err != nil {
		t.Fatalf("RecordHabitCompletion() error = %v", err)
	}
	if _, err := s.ApplyTownAction(ctx, TriggerEvent, "festival"); err != nil {
		t.Fatalf("ApplyTownAction() error = %v", err)
	}

	fresh := New(store, tracker.New(tracker.WithClock(fc), tracker.WithLocation(time.UTC)), town.New())
	if err := fresh.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := fresh.Tracker().Habits(); len(got) != 1 || got[0].ID != h.ID {
		t.Errorf("loaded habits = %+v", got)
	}
	if !fresh.Tracker().IsHabitCompleted(h.ID, testNow) {
		t.Error("loaded completion missing")
	}
	if fresh.Town().Stats() != s.Town().Stats() {
		t.Errorf("loaded town stats = %+v, want %+v", fresh.Town().Stats(), s.Town().Stats())
	}
	if !fresh.Town().Events()[0].Active {
		t.Error("loaded festival not active")
	}
}

func TestLoad_EmptyStore(t *testing.T) {
	s, _, _ := newTestService(t)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(s.Tracker().Habits()) != 0 {
		t.Error("fresh store produced habits")
	}
	if s.Town().Stats() != town.Seed().Stats {
		t.Error("fresh store did not produce the seed town")
	}
}

func TestLoad_RejectsNewerBlob(t *testing.T) {
	s, store, _ := newTestService(t)
	ctx := context.Background()
	err := store.PutBlobs(ctx, storage.Blob{Name: constants.HabitBlobName, Version: constants.HabitBlobVersion + 1, Data: []byte(`{}`)})
	if err != nil {
		t.Fatalf("PutBlobs() error = %v", err)
	}
	if err := s.Load(ctx); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("Load() error = %v, want ErrUnsupportedVersion", err)
	}
}

func TestAddHabit_Validates(t *testing.T) {
	s, store, _ := newTestService(t)
	puts := store.puts

	in := habitInput("   ")
	if _, err := s.AddHabit(context.Background(), in); !errors.Is(err, validation.ErrInvalidHabit) {
		t.Errorf("AddHabit() error = %v, want ErrInvalidHabit", err)
	}
	if store.puts != puts || len(s.Tracker().Habits()) != 0 {
		t.Error("invalid habit was stored")
	}
}

func TestHabitLifecycle(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()
	h := mustAddHabit(t, s, "Read")

	name := "Read more"
	updated, err := s.UpdateHabit(ctx, h.ID, models.HabitUpdate{Name: &name})
	if err != nil {
		t.Fatalf("UpdateHabit() error = %v", err)
	}
	if updated.Name != name {
		t.Errorf("Name = %q, want %q", updated.Name, name)
	}
	if _, err := s.UpdateHabit(ctx, "missing", models.HabitUpdate{Name: &name}); !errors.Is(err, ErrHabitNotFound) {
		t.Errorf("UpdateHabit(missing) error = %v", err)
	}

	toggled, err := s.ToggleHabitActive(ctx, h.ID)
	if err != nil {
		t.Fatalf("ToggleHabitActive() error = %v", err)
	}
	if toggled.IsActive {
		t.Error("habit still active after toggle")
	}

	if err := s.DeleteHabit(ctx, h.ID); err != nil {
		t.Fatalf("DeleteHabit() error = %v", err)
	}
	if err := s.DeleteHabit(ctx, h.ID); !errors.Is(err, ErrHabitNotFound) {
		t.Errorf("second DeleteHabit() error = %v, want ErrHabitNotFound", err)
	}
}

func TestImportAndReset(t *testing.T) {
	s, store, _ := newTestService(t)
	ctx := context.Background()
	h := mustAddHabit(t, s, "Read")
	if _, err := s.RecordHabitCompletion(ctx, h.ID, time.Time{}, ""); err != nil {
		t.Fatalf("RecordHabitCompletion() error = %v", err)
	}

	exported, err := s.Export()
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if err := s.Import(ctx, []byte(`{"habits": 3}`)); !errors.Is(err, validation.ErrInvalidImport) {
		t.Errorf("Import(bad) error = %v, want ErrInvalidImport", err)
	}
	if len(s.Tracker().Habits()) != 1 {
		t.Error("failed import changed state")
	}

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if len(s.Tracker().Habits()) != 0 || s.Town().Stats() != town.Seed().Stats {
		t.Error("Reset() left data behind")
	}

	store.failPut = true
	if err := s.Import(ctx, exported); !errors.Is(err, errDiskFull) {
		t.Fatalf("Import() error = %v, want errDiskFull", err)
	}
	if len(s.Tracker().Habits()) != 0 {
		t.Error("import applied despite failed save")
	}

	store.failPut = false
	if err := s.Import(ctx, exported); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if !s.Tracker().IsHabitCompleted(h.ID, testNow) {
		t.Error("imported completion missing")
	}
}

func TestRecordHabitCompletion_ImportedStreakUnlocksSpecialBuilding(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	habit := func(id, name string) models.Habit {
		return models.Habit{
			ID:         id,
			Name:       name,
			Color:      constants.DefaultHabitColor,
			Icon:       constants.DefaultHabitIcon,
			Frequency:  constants.FrequencyDaily,
			TargetDays: 1,
			CreatedAt:  testNow.AddDate(0, -2, 0),
			UpdatedAt:  testNow.AddDate(0, -2, 0),
			IsActive:   true,
		}
	}
	doc := models.ExportDocument{
		Habits:  []models.Habit{habit("h1", "Meditate"), habit("h2", "Stretch")},
		Version: constants.ExportVersion,
	}
	// h1 was done on each of the 40 days before today
	for i := 1; i <= 40; i++ {
		doc.Completions = append(doc.Completions, models.HabitCompletion{
			ID:          fmt.Sprintf("c%d", i),
			HabitID:     "h1",
			CompletedAt: testNow.AddDate(0, 0, -i),
		})
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Import(ctx, data); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if best := s.Tracker().MaxCurrentStreak(); best != 40 {
		t.Fatalf("MaxCurrentStreak() = %d, want 40", best)
	}

	res, err := s.RecordHabitCompletion(ctx, "h2", time.Time{}, "")
	if err != nil {
		t.Fatalf("RecordHabitCompletion() error = %v", err)
	}
	if res.Outcome.Streak != 1 || res.Outcome.ExperienceGain != town.ExperienceGain(1) {
		t.Errorf("reward used streak %d, want the completed habit's streak 1", res.Outcome.Streak)
	}
	if len(res.Outcome.UnlockedSpecialBuildings) != 1 || res.Outcome.UnlockedSpecialBuildings[0] != "golden_statue" {
		t.Errorf("UnlockedSpecialBuildings = %v, want [golden_statue]", res.Outcome.UnlockedSpecialBuildings)
	}
}

func TestApplyTownAction(t *testing.T) {
	s, store, _ := newTestService(t)
	ctx := context.Background()

	changed, err := s.ApplyTownAction(ctx, UnlockBuilding, "shop")
	if err != nil || !changed {
		t.Fatalf("ApplyTownAction(unlock shop) = (%v, %v)", changed, err)
	}
	puts := store.puts
	changed, err = s.ApplyTownAction(ctx, UnlockBuilding, "shop")
	if err != nil || changed {
		t.Errorf("repeat unlock = (%v, %v), want (false, nil)", changed, err)
	}
	if store.puts != puts {
		t.Error("no-op action wrote to the store")
	}

	if _, err := s.ApplyTownAction(ctx, TownAction("demolish"), "shop"); err == nil {
		t.Error("unknown action accepted")
	}
}

func TestIntegrity(t *testing.T) {
	s, _, _ := newTestService(t)
	h := mustAddHabit(t, s, "Read")
	if _, err := s.RecordHabitCompletion(context.Background(), h.ID, time.Time{}, ""); err != nil {
		t.Fatalf("RecordHabitCompletion() error = %v", err)
	}
	habits, townReport := s.Integrity()
	if habits.HasConflicts() {
		t.Errorf("habit conflicts: %s", habits.FormatReport())
	}
	if townReport.HasConflicts() {
		t.Errorf("town conflicts: %s", townReport.FormatReport())
	}
}
