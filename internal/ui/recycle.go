package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"crmdesk/internal/crm"
)

// The recycle bin lists soft-deleted leads and opportunities side by side.
// restore puts a record back in its collection; purge removes it for good.

func (m *model) updateRecycleBin(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.menuInput, cmd = m.menuInput.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok || key.Type != tea.KeyEnter {
		return batchCmds(cmds)
	}

	value := strings.TrimSpace(strings.ToLower(m.menuInput.Value()))
	m.menuInput.SetValue("")
	if value == "" {
		return batchCmds(cmds)
	}
	if isBackCommand(value) {
		m.popState()
		cmds = append(cmds, m.setMenuInput("Choose an option", 64))
		return batchCmds(cmds)
	}
	if isExitCommand(value) {
		cmds = append(cmds, m.goHome())
		return batchCmds(cmds)
	}
	if value == "r" || value == "refresh" {
		m.resetMessages()
		m.binLoading = true
		cmds = append(cmds, m.fetchRecycleBin())
		return batchCmds(cmds)
	}

	fields := strings.Fields(value)
	if len(fields) != 3 || (fields[0] != "restore" && fields[0] != "purge") {
		m.errMessage = "Use: restore l 2, purge o 1, r, /"
		return batchCmds(cmds)
	}
	verb, which := fields[0], fields[1]
	n, err := strconv.Atoi(fields[2])
	if err != nil || n < 1 || m.bin == nil {
		m.errMessage = "Use: restore l 2, purge o 1"
		return batchCmds(cmds)
	}

	client := m.client
	switch which {
	case "l", "lead":
		if n > len(m.bin.Leads) {
			m.errMessage = fmt.Sprintf("No deleted lead %d", n)
			return batchCmds(cmds)
		}
		id := m.bin.Leads[n-1].ID
		cmds = append(cmds, func() tea.Msg {
			ctx := context.Background()
			if verb == "restore" {
				return binActionMsg{verb: "restored", err: client.RestoreLead(ctx, id)}
			}
			return binActionMsg{verb: "purged", err: client.PurgeLead(ctx, id)}
		})
	case "o", "opp", "opportunity":
		if n > len(m.bin.Opportunities) {
			m.errMessage = fmt.Sprintf("No deleted opportunity %d", n)
			return batchCmds(cmds)
		}
		id := m.bin.Opportunities[n-1].ID
		cmds = append(cmds, func() tea.Msg {
			ctx := context.Background()
			if verb == "restore" {
				return binActionMsg{verb: "restored", err: client.RestoreOpportunity(ctx, id)}
			}
			return binActionMsg{verb: "purged", err: client.PurgeOpportunity(ctx, id)}
		})
	default:
		m.errMessage = "Say l for lead or o for opportunity"
	}
	return batchCmds(cmds)
}

func (m *model) viewRecycleBin() string {
	lines := []string{m.theme.Title.Render("Recycle bin"), ""}

	switch {
	case m.binLoading && m.bin == nil:
		lines = append(lines, m.theme.Faint.Render("Loading…"))
	case m.binErr != "" && m.bin == nil:
		lines = append(lines, m.theme.Danger.Render(m.binErr))
		lines = append(lines, m.theme.Faint.Render("Type r to retry"))
	case m.bin == nil || (len(m.bin.Leads) == 0 && len(m.bin.Opportunities) == 0):
		lines = append(lines, m.theme.Faint.Render("The recycle bin is empty"))
	default:
		lines = append(lines, m.theme.Subtitle.Render("Deleted leads"))
		if len(m.bin.Leads) == 0 {
			lines = append(lines, m.theme.Faint.Render("  none"))
		}
		for i, lead := range m.bin.Leads {
			row := fmt.Sprintf("  %d. %-24s %-14s %s", i+1, clip(lead.Name, 24), clip(lead.Phone, 14), crm.FormatCurrency(lead.ExpectedRevenue))
			lines = append(lines, m.theme.Primary.Render(row))
		}
		lines = append(lines, "", m.theme.Subtitle.Render("Deleted opportunities"))
		if len(m.bin.Opportunities) == 0 {
			lines = append(lines, m.theme.Faint.Render("  none"))
		}
		for i, opp := range m.bin.Opportunities {
			row := fmt.Sprintf("  %d. %-24s %-14s %s", i+1, clip(opp.Name, 24), clip(opp.Phone, 14), crm.FormatCurrency(opp.ExpectedRevenue))
			lines = append(lines, m.theme.Primary.Render(row))
		}
	}

	if m.infoMessage != "" {
		lines = append(lines, "", m.theme.Success.Render(m.infoMessage))
	}
	if m.errMessage != "" {
		lines = append(lines, "", m.theme.Danger.Render(m.errMessage))
	}
	lines = append(lines, "", m.theme.Accent.Render("> ")+m.menuInput.View())
	lines = append(lines, m.theme.Faint.Render("restore l|o N · purge l|o N · r · / back"))
	return strings.Join(lines, "\n") + "\n"
}
