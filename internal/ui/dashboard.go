package ui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *model) updateDashboard(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.menuInput, cmd = m.menuInput.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		value := strings.TrimSpace(strings.ToLower(m.menuInput.Value()))
		m.menuInput.SetValue("")
		switch {
		case value == "r" || value == "refresh":
			m.statsDone = false
			cmds = append(cmds, m.fetchStats())
		case isBackCommand(value):
			m.popState()
			cmds = append(cmds, m.setMenuInput("Choose an option", 64))
		case isExitCommand(value):
			cmds = append(cmds, m.goHome())
		case value != "":
			m.errMessage = "Unknown choice"
		}
	}
	return batchCmds(cmds)
}

func (m *model) viewDashboard() string {
	lines := []string{m.theme.Title.Render("Dashboard"), ""}

	if !m.statsDone {
		lines = append(lines, m.theme.Faint.Render("Loading…"))
	} else {
		rows := []struct {
			label string
			count int
		}{
			{"Leads", m.stats.Leads},
			{"Opportunities", m.stats.Opportunities},
			{"Customers", m.stats.Customers},
			{"Employees", m.stats.Employees},
		}
		for _, row := range rows {
			count := m.theme.Highlight.Render(strconv.Itoa(row.count))
			lines = append(lines, m.theme.Secondary.Render(padRight(row.label, 16))+count)
		}
	}

	if m.errMessage != "" {
		lines = append(lines, "", m.theme.Danger.Render(m.errMessage))
	}
	lines = append(lines, "", m.theme.Accent.Render("> ")+m.menuInput.View())
	lines = append(lines, m.theme.Faint.Render("r refresh · / back · exit."))
	return strings.Join(lines, "\n") + "\n"
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
