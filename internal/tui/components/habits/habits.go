package habits

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitown/internal/models"
)

type AddHabitMsg struct{}

type EditHabitMsg struct {
	Habit models.Habit
}

type MarkHabitMsg struct {
	ID string
}

type UnmarkHabitMsg struct {
	ID string
}

type ToggleHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID string
}

type Item struct {
	Habit    models.Habit
	IsMarked bool
	Streak   int
}

func (i Item) Title() string {
	title := i.Habit.Icon + " " + i.Habit.Name
	switch {
	case !i.Habit.IsActive:
		return "[PAUSED] " + title
	case i.IsMarked:
		return "✓ " + title
	default:
		return "○ " + title
	}
}

func (i Item) Description() string {
	if !i.Habit.IsActive {
		return "paused"
	}
	status := "not done today"
	if i.IsMarked {
		status = "done today"
	}
	return fmt.Sprintf("%s | streak %d", status, i.Streak)
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add    key.Binding
	Edit   key.Binding
	Mark   key.Binding
	Unmark key.Binding
	Toggle key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Mark: key.NewBinding(
			key.WithKeys("m", " "),
			key.WithHelp("m", "mark done"),
		),
		Unmark: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unmark"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause/resume"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Mark, keys.Unmark}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Mark, keys.Unmark, keys.Toggle, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

// SetHabits replaces the list contents. today marks which habits are done;
// streaks maps habit id to its current streak.
func (m *Model) SetHabits(habits []models.Habit, today models.DailyProgress, streaks map[string]int) {
	items := make([]list.Item, len(habits))
	for i, h := range habits {
		items[i] = Item{
			Habit:    h,
			IsMarked: h.IsActive && today.IsCompleted(h.ID),
			Streak:   streaks[h.ID],
		}
	}
	m.list.SetItems(items)
}

// Items returns the list items, mainly for tests.
func (m Model) Items() []Item {
	out := make([]Item, 0, len(m.list.Items()))
	for _, it := range m.list.Items() {
		out = append(out, it.(Item))
	}
	return out
}

// FilterState reports whether the user is typing a filter.
func (m Model) FilterState() list.FilterState {
	return m.list.FilterState()
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if key.Matches(msg, m.keys.Add) {
			return m, func() tea.Msg { return AddHabitMsg{} }
		}
		if i, ok := m.list.SelectedItem().(Item); ok {
			switch {
			case key.Matches(msg, m.keys.Edit):
				return m, func() tea.Msg { return EditHabitMsg{Habit: i.Habit} }
			case key.Matches(msg, m.keys.Mark):
				if i.Habit.IsActive && !i.IsMarked {
					return m, func() tea.Msg { return MarkHabitMsg{ID: i.Habit.ID} }
				}
				return m, nil
			case key.Matches(msg, m.keys.Unmark):
				if i.IsMarked {
					return m, func() tea.Msg { return UnmarkHabitMsg{ID: i.Habit.ID} }
				}
				return m, nil
			case key.Matches(msg, m.keys.Toggle):
				return m, func() tea.Msg { return ToggleHabitMsg{ID: i.Habit.ID} }
			case key.Matches(msg, m.keys.Delete):
				return m, func() tea.Msg { return DeleteHabitMsg{ID: i.Habit.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
