package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitown/internal/clock"
	"github.com/julianstephens/habitown/internal/constants"
	"github.com/julianstephens/habitown/internal/models"
	"github.com/julianstephens/habitown/internal/progression"
	"github.com/julianstephens/habitown/internal/storage"
	"github.com/julianstephens/habitown/internal/town"
	"github.com/julianstephens/habitown/internal/tracker"
	"github.com/julianstephens/habitown/internal/tui/components/habits"
)

func newTestModel(t *testing.T, names ...string) (Model, *progression.Service) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "habitown.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	fc := clock.NewFakeClock(time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC))
	svc := progression.New(store, tracker.New(tracker.WithClock(fc), tracker.WithLocation(time.UTC)), town.New())

	for _, name := range names {
		_, err := svc.AddHabit(context.Background(), models.HabitInput{
			Name:       name,
			Color:      constants.DefaultHabitColor,
			Icon:       constants.DefaultHabitIcon,
			Frequency:  constants.FrequencyDaily,
			TargetDays: 1,
		})
		if err != nil {
			t.Fatalf("AddHabit() error = %v", err)
		}
	}
	return NewModel(svc), svc
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTabsCycle(t *testing.T) {
	m, _ := newTestModel(t)

	tests := []struct {
		msg  tea.KeyMsg
		want SessionState
	}{
		{tea.KeyMsg{Type: tea.KeyTab}, StateTown},
		{tea.KeyMsg{Type: tea.KeyTab}, StateStats},
		{tea.KeyMsg{Type: tea.KeyTab}, StateHabits},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, StateStats},
	}
	for _, tt := range tests {
		m = update(t, m, tt.msg)
		if m.State() != tt.want {
			t.Fatalf("after %v state = %d, want %d", tt.msg, m.State(), tt.want)
		}
		if !strings.Contains(m.View(), tabTitles[tt.want]) {
			t.Errorf("view missing tab %q", tabTitles[tt.want])
		}
	}
}

func TestMarkAndUnmarkHabit(t *testing.T) {
	m, svc := newTestModel(t, "Read")
	id := svc.Tracker().Habits()[0].ID

	m = update(t, m, habits.MarkHabitMsg{ID: id})
	status, isErr := m.Status()
	if isErr || !strings.Contains(status, "+12 XP") {
		t.Fatalf("status = %q (error %v), want reward", status, isErr)
	}
	if items := m.habitsModel.Items(); !items[0].IsMarked || items[0].Streak != 1 {
		t.Errorf("item = %+v, want marked with streak 1", items[0])
	}
	if xp := svc.Town().Stats().Experience; xp != 12 {
		t.Errorf("town experience = %d, want 12", xp)
	}

	m = update(t, m, habits.MarkHabitMsg{ID: id})
	if status, _ := m.Status(); status != "Already done today" {
		t.Errorf("status after second mark = %q, want no reward", status)
	}
	if xp := svc.Town().Stats().Experience; xp != 12 {
		t.Errorf("town experience after second mark = %d, want 12", xp)
	}

	m = update(t, m, habits.UnmarkHabitMsg{ID: id})
	if items := m.habitsModel.Items(); items[0].IsMarked {
		t.Error("item still marked after unmark")
	}
}

func TestDeleteHabitConfirm(t *testing.T) {
	m, svc := newTestModel(t, "Read")
	id := svc.Tracker().Habits()[0].ID

	m = update(t, m, habits.DeleteHabitMsg{ID: id})
	if m.State() != StateConfirmDelete {
		t.Fatalf("state = %d, want confirm", m.State())
	}
	if !strings.Contains(m.View(), `Delete "Read"`) {
		t.Error("confirm view missing habit name")
	}

	m = update(t, m, keyRunes("n"))
	if m.State() != StateHabits || len(svc.Tracker().Habits()) != 1 {
		t.Fatal("cancel should keep the habit")
	}

	m = update(t, m, habits.DeleteHabitMsg{ID: id})
	m = update(t, m, keyRunes("y"))
	if len(svc.Tracker().Habits()) != 0 {
		t.Error("habit not deleted after confirm")
	}
	if len(m.habitsModel.Items()) != 0 {
		t.Error("list not refreshed after delete")
	}
}

func TestToggleHabit(t *testing.T) {
	m, svc := newTestModel(t, "Read")
	id := svc.Tracker().Habits()[0].ID

	m = update(t, m, habits.ToggleHabitMsg{ID: id})
	if status, _ := m.Status(); status != "Read paused" {
		t.Errorf("status = %q, want paused", status)
	}
	if h, _ := svc.Tracker().Habit(id); h.IsActive {
		t.Error("habit still active")
	}
}

func TestAddHabitOpensForm(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(t, m, habits.AddHabitMsg{})
	if m.State() != StateHabitForm {
		t.Fatalf("state = %d, want form", m.State())
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.State() != StateHabits {
		t.Errorf("esc should close the form, state = %d", m.State())
	}
}

func TestStatsView(t *testing.T) {
	m, svc := newTestModel(t, "Read")
	id := svc.Tracker().Habits()[0].ID
	m = update(t, m, habits.MarkHabitMsg{ID: id})
	m.state = StateStats

	view := m.View()
	for _, want := range []string{"Overall", "Total completions    1", "This week", "Fri 16"} {
		if !strings.Contains(view, want) {
			t.Errorf("stats view missing %q", want)
		}
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	next, cmd := m.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if next.(Model).View() != "" {
		t.Error("view should be empty after quitting")
	}
}
