package ui

import (
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"crmdesk/internal/convert"
	"crmdesk/internal/crm"
)

// The conversion screen confirms the revenue/probability terms before the
// lead is promoted. yes commits, no walks away.

func (m *model) updateConvert(msg tea.Msg) tea.Cmd {
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

	line := strings.TrimSpace(strings.ToLower(m.menuInput.Value()))
	m.menuInput.SetValue("")

	if m.converter.State() == convert.StateConverting {
		return batchCmds(cmds)
	}

	verb, arg := line, ""
	if i := strings.IndexByte(line, ' '); i >= 0 {
		verb, arg = line[:i], strings.TrimSpace(line[i+1:])
	}

	switch verb {
	case "no", "n", "/", "back", "cancel":
		if m.converter.State() == convert.StateFailed {
			m.converter.Reset()
		} else {
			m.converter.Cancel()
		}
		m.popState()
		cmds = append(cmds, m.setMenuInput("Search or enter a command", 96))
	case "yes", "y", "confirm":
		if m.converter.State() == convert.StateFailed {
			// Re-arm with the terms the user already confirmed.
			terms := m.converter.Terms()
			m.converter.Select(m.converter.Lead())
			m.converter.SetTerms(terms)
		}
		if call, ok := m.converter.Begin(); ok {
			cmds = append(cmds, func() tea.Msg {
				return convertedMsg{err: call(context.Background())}
			})
		}
	case "revenue", "rev":
		amount, err := strconv.ParseFloat(arg, 64)
		if err != nil || amount < 0 {
			m.errMessage = "Give an amount, e.g. revenue 25000"
			break
		}
		terms := m.converter.Terms()
		terms.ExpectedRevenue = amount
		m.converter.SetTerms(terms)
		m.errMessage = ""
	case "prob", "probability":
		pct, err := strconv.ParseFloat(arg, 64)
		if err != nil || pct < 0 || pct > 100 {
			m.errMessage = "Probability is a percentage between 0 and 100"
			break
		}
		terms := m.converter.Terms()
		terms.ConversionProbability = pct
		m.converter.SetTerms(terms)
		m.errMessage = ""
	default:
		if line != "" {
			m.errMessage = "Unknown choice"
		}
	}
	return batchCmds(cmds)
}

func (m *model) viewConvert() string {
	lead := m.converter.Lead()
	terms := m.converter.Terms()

	lines := []string{
		m.theme.Title.Render("Convert lead"),
		"",
		m.theme.Secondary.Render("Lead:      ") + m.theme.Primary.Render(lead.Name),
		m.theme.Secondary.Render("Contact:   ") + lead.Phone + "  " + lead.Email,
		m.theme.Secondary.Render("Assigned:  ") + lead.AssignedTo,
		"",
		m.theme.Secondary.Render("Expected revenue:       ") + m.theme.Highlight.Render(crm.FormatCurrency(terms.ExpectedRevenue)),
		m.theme.Secondary.Render("Conversion probability: ") + m.theme.Highlight.Render(crm.FormatPercent(terms.ConversionProbability)),
		"",
	}

	switch m.converter.State() {
	case convert.StateConverting:
		lines = append(lines, m.theme.Faint.Render("Converting…"))
	case convert.StateFailed:
		lines = append(lines, m.theme.Danger.Render(m.converter.Err()))
		lines = append(lines, m.theme.Faint.Render("yes to retry · no to cancel"))
	default:
		lines = append(lines, m.theme.Warning.Render("Promote this lead to an opportunity?"))
		lines = append(lines, m.theme.Faint.Render("yes · no · revenue <amount> · prob <percent>"))
	}
	if m.errMessage != "" {
		lines = append(lines, m.theme.Danger.Render(m.errMessage))
	}
	lines = append(lines, "", m.theme.Accent.Render("> ")+m.menuInput.View())
	return strings.Join(lines, "\n") + "\n"
}
