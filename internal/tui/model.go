// Package tui is the interactive dashboard: today's habits, the town and
// statistics, all driven through the progression service.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitown/internal/forms"
	"github.com/julianstephens/habitown/internal/progression"
	"github.com/julianstephens/habitown/internal/tui/components/habits"
	"github.com/julianstephens/habitown/internal/tui/components/townview"
)

type SessionState int

const (
	StateHabits SessionState = iota
	StateTown
	StateStats
	StateHabitForm
	StateConfirmDelete
)

var tabTitles = []string{"Habits", "Town", "Stats"}

type Model struct {
	svc           *progression.Service
	state         SessionState
	keys          KeyMap
	help          help.Model
	habitsModel   habits.Model
	townModel     townview.Model
	form          *huh.Form
	habitForm     *forms.HabitFormModel
	editingID     string // empty while adding
	habitToDelete string
	status        string
	statusIsError bool
	// validationWarning summarizes integrity conflicts, empty when clean
	validationWarning string
	quitting          bool
	width             int
	height            int
}

func NewModel(svc *progression.Service) Model {
	m := Model{
		svc:         svc,
		state:       StateHabits,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		habitsModel: habits.New(0, 0),
		townModel:   townview.New(0, 0),
	}
	m.refresh()
	return m
}

// refresh reloads every view from the engines.
func (m *Model) refresh() {
	tr := m.svc.Tracker()
	all := tr.Habits()
	streaks := make(map[string]int, len(all))
	for _, h := range all {
		streaks[h.ID] = tr.HabitStats(h.ID).CurrentStreak
	}
	m.habitsModel.SetHabits(all, tr.TodayProgress(), streaks)
	m.townModel.SetTown(m.svc.Town().Snapshot())

	habitReport, townReport := m.svc.Integrity()
	if n := len(habitReport.Conflicts) + len(townReport.Conflicts); n > 0 {
		m.validationWarning = fmt.Sprintf("⚠ %d integrity warning(s), run 'habitown doctor'", n)
	} else {
		m.validationWarning = ""
	}
}

func (m *Model) setStatus(msg string, err error) {
	if err != nil {
		m.status = err.Error()
		m.statusIsError = true
		return
	}
	m.status = msg
	m.statusIsError = false
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case StateConfirmDelete:
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	case StateHabits:
		k := habits.DefaultKeyMap()
		return []key.Binding{m.keys.Tab, k.Add, k.Mark, k.Unmark, m.keys.Quit, m.keys.Help}
	default:
		return []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	}
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	if m.state == StateHabits {
		k := habits.DefaultKeyMap()
		actions = []key.Binding{k.Add, k.Edit, k.Mark, k.Unmark, k.Toggle, k.Delete}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// State reports which view is showing.
func (m Model) State() SessionState {
	return m.state
}

// Status returns the last status line and whether it is an error.
func (m Model) Status() (string, bool) {
	return m.status, m.statusIsError
}
