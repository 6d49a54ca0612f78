package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitown/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateHabits:
		content = docStyle.Render(m.habitsModel.View())
	case StateTown:
		content = docStyle.Render(m.townModel.View())
	case StateStats:
		content = docStyle.Render(m.viewStats())
	case StateHabitForm:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	var parts []string
	if m.status != "" {
		if m.statusIsError {
			parts = append(parts, dangerStyle.Render(m.status))
		} else {
			parts = append(parts, successStyle.Render(m.status))
		}
	}
	if m.validationWarning != "" {
		parts = append(parts, warningStyle.Render(m.validationWarning))
	}
	return strings.Join(parts, "  ")
}

func (m Model) viewStats() string {
	tr := m.svc.Tracker()
	overall := tr.OverallStats()

	var b strings.Builder
	b.WriteString(headerStyle.Render("Overall") + "\n")
	fmt.Fprintf(&b, "Active habits        %d\n", overall.TotalHabits)
	fmt.Fprintf(&b, "Total completions    %d\n", overall.TotalCompletions)
	fmt.Fprintf(&b, "Avg completion rate  %d%%\n", overall.AverageCompletionRate)
	fmt.Fprintf(&b, "Longest streak       %d\n\n", overall.LongestStreak)

	b.WriteString(headerStyle.Render("This week") + "\n")
	for _, day := range tr.WeekProgress(utils.StartOfWeek(tr.Now())) {
		d, err := utils.ParseDayKey(day.Date, tr.Location())
		label := day.Date
		if err == nil {
			label = d.Format("Mon 02")
		}
		n := day.CompletedCount()
		fmt.Fprintf(&b, "%s  %s %d\n", label, successStyle.Render(strings.Repeat("■", n)), n)
	}

	b.WriteString("\n" + headerStyle.Render("Per habit") + "\n")
	for _, h := range tr.ActiveHabits() {
		s := tr.HabitStats(h.ID)
		fmt.Fprintf(&b, "%s %-20s streak %-3d best %-3d %3d%%\n", h.Icon, h.Name, s.CurrentStreak, s.LongestStreak, s.CompletionRate)
	}
	if len(tr.ActiveHabits()) == 0 {
		b.WriteString(mutedStyle.Render("No active habits") + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewConfirmDelete() string {
	name := m.habitToDelete
	if h, ok := m.svc.Tracker().Habit(m.habitToDelete); ok {
		name = h.Name
	}
	return lipgloss.Place(m.width, max(m.height-4, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete %q and all of its completions?", name)),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
