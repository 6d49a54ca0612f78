package townview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitown/internal/constants"
	"github.com/julianstephens/habitown/internal/models"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	lockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	filledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	panelStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// Model renders the town: stats with an experience bar next to the
// building, area and landmark catalogs.
type Model struct {
	state  models.TownState
	width  int
	height int
}

const barWidth = 30

func New(width, height int) Model {
	return Model{width: width, height: height}
}

func (m *Model) SetTown(state models.TownState) {
	m.state = state
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) View() string {
	s := m.state.Stats
	into := s.Experience % constants.ExperiencePerLevel

	stats := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(fmt.Sprintf("Level %d", s.Level)),
		experienceBar(into),
		fmt.Sprintf("%d/%d XP to next level", into, constants.ExperiencePerLevel),
		"",
		fmt.Sprintf("👥 Population  %d", s.Population),
		fmt.Sprintf("😊 Happiness   %d/%d", s.Happiness, constants.MaxHappiness),
		fmt.Sprintf("🪙 Coins       %d", s.Coins),
	)

	var b strings.Builder
	b.WriteString(headerStyle.Render("Buildings") + "\n")
	for _, bld := range m.state.Buildings {
		b.WriteString(entry(bld.Unlocked, fmt.Sprintf("%s %s  lvl %d/%d", bld.Icon, bld.Name, bld.Level, bld.MaxLevel)))
	}
	b.WriteString("\n" + headerStyle.Render("Areas") + "\n")
	for _, a := range m.state.Areas {
		b.WriteString(entry(a.Unlocked, fmt.Sprintf("%s %s  (level %d)", a.Icon, a.Name, a.RequiredLevel)))
	}
	b.WriteString("\n" + headerStyle.Render("Landmarks") + "\n")
	for _, sb := range m.state.SpecialBuildings {
		b.WriteString(entry(sb.Unlocked, fmt.Sprintf("%s %s  (%d-day streak)", sb.Icon, sb.Name, sb.RequiredStreak)))
	}
	residents := 0
	for _, r := range m.state.Residents {
		if r.Unlocked {
			residents++
		}
	}
	b.WriteString(fmt.Sprintf("\n%d resident(s) in town", residents))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(stats),
		panelStyle.Render(strings.TrimRight(b.String(), "\n")),
	)
}

func entry(unlocked bool, label string) string {
	if unlocked {
		return "  " + label + "\n"
	}
	return lockedStyle.Render("  🔒 "+label) + "\n"
}

func experienceBar(into int) string {
	filled := into * barWidth / constants.ExperiencePerLevel
	return filledStyle.Render(strings.Repeat("█", filled)) + lockedStyle.Render(strings.Repeat("░", barWidth-filled))
}
