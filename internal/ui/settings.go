package ui

import (
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type settingsField int

const (
	settingsNone settingsField = iota
	settingsName
	settingsTimezone
	settingsServer
	settingsPageSize
	settingsExportDir
)

type settingsModel struct {
	editing settingsField
}

func (m *model) openSettings() {
	m.settings = settingsModel{}
}

func (m *model) updateSettings(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.menuInput, cmd = m.menuInput.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return batchCmds(cmds)
	}
	if key.Type == tea.KeyEsc && m.settings.editing != settingsNone {
		m.settings.editing = settingsNone
		cmds = append(cmds, m.setMenuInput("1=Name 2=Timezone 3=Server 4=Page size 5=Export dir /=back", 96))
		return batchCmds(cmds)
	}
	if key.Type != tea.KeyEnter {
		return batchCmds(cmds)
	}

	value := m.menuInput.Value()
	m.menuInput.SetValue("")

	if m.settings.editing != settingsNone {
		if err := m.applySetting(m.settings.editing, value); err != "" {
			m.errMessage = err
			return batchCmds(cmds)
		}
		if err := m.cfg.Save(); err != nil {
			m.errMessage = "Could not save settings: " + err.Error()
			return batchCmds(cmds)
		}
		m.resetMessages()
		m.infoMessage = "Settings saved"
		m.settings.editing = settingsNone
		cmds = append(cmds, m.setMenuInput("1=Name 2=Timezone 3=Server 4=Page size 5=Export dir /=back", 96))
		return batchCmds(cmds)
	}

	choice := strings.TrimSpace(strings.ToLower(value))
	switch {
	case choice == "":
	case isBackCommand(choice):
		m.popState()
		cmds = append(cmds, m.setMenuInput("Choose an option", 64))
	case isExitCommand(choice):
		cmds = append(cmds, m.goHome())
	case choice == "1" || choice == "name":
		m.settings.editing = settingsName
		cmds = append(cmds, m.setMenuInput("Display name", 64))
	case choice == "2" || choice == "timezone":
		m.settings.editing = settingsTimezone
		cmds = append(cmds, m.setMenuInput("IANA timezone, e.g. America/Chicago", 64))
	case choice == "3" || choice == "server":
		m.settings.editing = settingsServer
		cmds = append(cmds, m.setMenuInput("Server base URL", 96))
	case choice == "4" || choice == "page size":
		m.settings.editing = settingsPageSize
		cmds = append(cmds, m.setMenuInput("Records per page", 8))
	case choice == "5" || choice == "export dir":
		m.settings.editing = settingsExportDir
		cmds = append(cmds, m.setMenuInput("Export directory", 96))
	default:
		m.errMessage = "Unknown choice"
	}
	return batchCmds(cmds)
}

// applySetting validates and stores one field, returning a user-facing
// message when the value is rejected.
func (m *model) applySetting(field settingsField, raw string) string {
	value := strings.TrimSpace(raw)
	switch field {
	case settingsName:
		if value == "" {
			return "Name cannot be empty"
		}
		m.cfg.Config.Name = value
	case settingsTimezone:
		if _, err := time.LoadLocation(value); err != nil {
			return "Unknown timezone: " + value
		}
		m.cfg.Config.Timezone = value
	case settingsServer:
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return "The server URL must start with http:// or https://"
		}
		m.cfg.Config.BaseURL = strings.TrimRight(value, "/")
		m.client.SetBaseURL(m.cfg.Config.BaseURL)
	case settingsPageSize:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 100 {
			return "Page size must be between 1 and 100"
		}
		m.cfg.Config.PageSize = n
		m.resizeLists(n)
	case settingsExportDir:
		if value == "" {
			return "Export directory cannot be empty"
		}
		m.cfg.Config.ExportDir = value
	}
	return ""
}

func (m *model) resizeLists(perPage int) {
	m.leads.SetPerPage(perPage)
	m.opps.SetPerPage(perPage)
	m.customers.SetPerPage(perPage)
	m.employees.SetPerPage(perPage)
	m.tickets.SetPerPage(perPage)
}

func (m *model) viewSettings() string {
	cfg := m.cfg.Config
	lines := []string{m.theme.Title.Render("Settings"), ""}

	rows := []struct {
		n, label, value string
	}{
		{"1", "Name", cfg.Name},
		{"2", "Timezone", cfg.Timezone},
		{"3", "Server", cfg.BaseURL},
		{"4", "Page size", strconv.Itoa(cfg.PageSize)},
		{"5", "Export dir", cfg.ExportDir},
	}
	for _, row := range rows {
		lines = append(lines, m.theme.Primary.Render(row.n+". "+padRight(row.label, 12))+m.theme.Secondary.Render(row.value))
	}

	if m.infoMessage != "" {
		lines = append(lines, "", m.theme.Success.Render(m.infoMessage))
	}
	if m.errMessage != "" {
		lines = append(lines, "", m.theme.Danger.Render(m.errMessage))
	}
	lines = append(lines, "", m.theme.Accent.Render("> ")+m.menuInput.View())
	if m.settings.editing == settingsNone {
		lines = append(lines, m.theme.Faint.Render("Pick a number to edit · / back"))
	} else {
		lines = append(lines, m.theme.Faint.Render("Enter to save · Esc to cancel"))
	}
	return strings.Join(lines, "\n") + "\n"
}
