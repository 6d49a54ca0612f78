package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitown/internal/forms"
	"github.com/julianstephens/habitown/internal/town"
	"github.com/julianstephens/habitown/internal/tui/components/habits"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.habitsModel.SetSize(msg.Width-4, msg.Height-6)
		m.townModel.SetSize(msg.Width-4, msg.Height-6)
		return m, nil
	}

	switch m.state {
	case StateHabitForm:
		return m.updateForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if handled, cmd := m.handleHabitMessages(msg); handled {
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok && !m.filtering() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + SessionState(len(tabTitles))) % SessionState(len(tabTitles))
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	if m.state == StateHabits {
		var cmd tea.Cmd
		m.habitsModel, cmd = m.habitsModel.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) filtering() bool {
	return m.state == StateHabits && m.habitsModel.FilterState() == list.Filtering
}

func (m *Model) handleHabitMessages(msg tea.Msg) (bool, tea.Cmd) {
	ctx := context.Background()
	tr := m.svc.Tracker()

	switch msg := msg.(type) {
	case habits.AddHabitMsg:
		m.habitForm = forms.NewHabitFormModel()
		m.editingID = ""
		m.form = forms.NewHabitForm(m.habitForm)
		m.state = StateHabitForm
		return true, m.form.Init()

	case habits.EditHabitMsg:
		m.habitForm = forms.FromHabit(msg.Habit)
		m.editingID = msg.Habit.ID
		m.form = forms.NewHabitForm(m.habitForm)
		m.state = StateHabitForm
		return true, m.form.Init()

	case habits.MarkHabitMsg:
		res, err := m.svc.RecordHabitCompletion(ctx, msg.ID, tr.Now(), "")
		status := outcomeStatus(res.Outcome)
		if !res.Rewarded {
			status = "Already done today"
		}
		m.setStatus(status, err)
		m.refresh()
		return true, nil

	case habits.UnmarkHabitMsg:
		_, err := m.svc.RecordHabitUncompletion(ctx, msg.ID, tr.Now())
		m.setStatus("Completion removed", err)
		m.refresh()
		return true, nil

	case habits.ToggleHabitMsg:
		h, err := m.svc.ToggleHabitActive(ctx, msg.ID)
		state := "paused"
		if h.IsActive {
			state = "resumed"
		}
		m.setStatus(fmt.Sprintf("%s %s", h.Name, state), err)
		m.refresh()
		return true, nil

	case habits.DeleteHabitMsg:
		m.habitToDelete = msg.ID
		m.state = StateConfirmDelete
		return true, nil
	}
	return false, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateHabits
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.saveForm(); err != nil {
			// stay in the form so the user can correct the value
			m.setStatus("", err)
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.refresh()
		m.state = StateHabits
	case huh.StateAborted:
		m.state = StateHabits
	}
	return m, cmd
}

func (m *Model) saveForm() error {
	ctx := context.Background()
	if m.editingID == "" {
		in, err := m.habitForm.Input()
		if err != nil {
			return err
		}
		h, err := m.svc.AddHabit(ctx, in)
		if err != nil {
			return err
		}
		m.setStatus(fmt.Sprintf("Added %s %s", h.Icon, h.Name), nil)
		return nil
	}

	u, err := m.habitForm.Update()
	if err != nil {
		return err
	}
	h, err := m.svc.UpdateHabit(ctx, m.editingID, u)
	if err != nil {
		return err
	}
	m.setStatus(fmt.Sprintf("Updated %s %s", h.Icon, h.Name), nil)
	return nil
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		err := m.svc.DeleteHabit(context.Background(), m.habitToDelete)
		m.setStatus("Habit deleted", err)
		m.refresh()
		m.habitToDelete = ""
		m.state = StateHabits
	case key.Matches(keyMsg, m.keys.Cancel):
		m.habitToDelete = ""
		m.state = StateHabits
	}
	return m, nil
}

func outcomeStatus(out town.Outcome) string {
	s := fmt.Sprintf("✓ +%d XP, +%d coins (streak %d)", out.ExperienceGain, out.CoinsGain, out.Streak)
	if out.LeveledUp {
		s += fmt.Sprintf(" · town reached level %d!", out.Level)
	}
	if out.Unlocked() {
		s += " · something new was unlocked"
	}
	return s
}
