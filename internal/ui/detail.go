package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"crmdesk/internal/crm"
)

type detailStage int

const (
	detailStageView detailStage = iota
	detailStageCallSubject
	detailStageCallNotes
	detailStageCallTime
	detailStageNote
)

// detailModel shows one lead's or opportunity's activity: its call history
// and notes, with small wizards for logging a new call or note.
type detailModel struct {
	leadID  int64
	oppID   int64
	title   string
	calls   []crm.CallLog
	notes   []crm.Note
	loading bool
	errMsg  string

	stage       detailStage
	callSubject string
	callNotes   string
}

func (m *model) openDetail(kind entityKind, idx int) tea.Cmd {
	d := detailModel{loading: true}
	if kind == kindLead {
		lead := m.leads.Visible()[idx]
		d.leadID = lead.ID
		d.title = lead.Name
	} else {
		opp := m.opps.Visible()[idx]
		d.oppID = opp.ID
		d.title = opp.Name
	}
	m.detail = d
	m.pushState(stateDetail)
	return batchCmds([]tea.Cmd{
		m.fetchDetail(d.leadID, d.oppID),
		m.setMenuInput("call, note, delcall N, delnote N, r, /", 96),
	})
}

func (m *model) updateDetail(msg tea.Msg) tea.Cmd {
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
	if key.Type == tea.KeyEsc && m.detail.stage != detailStageView {
		m.detail.stage = detailStageView
		cmds = append(cmds, m.setMenuInput("call, note, delcall N, delnote N, r, /", 96))
		return batchCmds(cmds)
	}
	if key.Type != tea.KeyEnter {
		return batchCmds(cmds)
	}

	line := m.menuInput.Value()
	m.menuInput.SetValue("")

	switch m.detail.stage {
	case detailStageCallSubject:
		if strings.TrimSpace(line) == "" {
			m.detail.errMsg = "The call needs a subject"
			return batchCmds(cmds)
		}
		m.detail.errMsg = ""
		m.detail.callSubject = strings.TrimSpace(line)
		m.detail.stage = detailStageCallNotes
		cmds = append(cmds, m.setMenuInput("What was discussed?", 96))
		return batchCmds(cmds)
	case detailStageCallNotes:
		m.detail.callNotes = strings.TrimSpace(line)
		m.detail.stage = detailStageCallTime
		cmds = append(cmds, m.setMenuInput("When? YYYY-MM-DD HH:MM, blank for now", 32))
		return batchCmds(cmds)
	case detailStageCallTime:
		when := time.Now().In(m.cfg.Location())
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			parsed, err := time.ParseInLocation("2006-01-02 15:04", trimmed, m.cfg.Location())
			if err != nil {
				m.detail.errMsg = "Use YYYY-MM-DD HH:MM, or leave blank for now"
				return batchCmds(cmds)
			}
			when = parsed
		}
		m.detail.errMsg = ""
		cmds = append(cmds, m.createCallCmd(when))
		return batchCmds(cmds)
	case detailStageNote:
		content := strings.TrimSpace(line)
		if content == "" {
			m.detail.errMsg = "The note is empty"
			return batchCmds(cmds)
		}
		m.detail.errMsg = ""
		cmds = append(cmds, m.createNoteCmd(content))
		return batchCmds(cmds)
	}

	// View stage: command dispatch.
	value := strings.TrimSpace(strings.ToLower(line))
	if value == "" {
		return batchCmds(cmds)
	}
	if isBackCommand(value) {
		m.popState()
		cmds = append(cmds, m.setMenuInput("Search or enter a command", 96))
		return batchCmds(cmds)
	}
	if isExitCommand(value) {
		cmds = append(cmds, m.goHome())
		return batchCmds(cmds)
	}

	verb, arg := value, ""
	if i := strings.IndexByte(value, ' '); i >= 0 {
		verb, arg = value[:i], strings.TrimSpace(value[i+1:])
	}
	switch verb {
	case "r", "refresh":
		m.detail.loading = true
		m.detail.errMsg = ""
		cmds = append(cmds, m.fetchDetail(m.detail.leadID, m.detail.oppID))
	case "call":
		m.detail.stage = detailStageCallSubject
		m.detail.errMsg = ""
		cmds = append(cmds, m.setMenuInput("Call subject", 96))
	case "note":
		m.detail.stage = detailStageNote
		m.detail.errMsg = ""
		cmds = append(cmds, m.setMenuInput("Note text", 96))
	case "delcall":
		if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(m.detail.calls) {
			cmds = append(cmds, m.deleteCallCmd(m.detail.calls[n-1].ID))
		} else {
			m.detail.errMsg = "Give a call number, e.g. delcall 2"
		}
	case "delnote":
		if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(m.detail.notes) {
			cmds = append(cmds, m.deleteNoteCmd(m.detail.notes[n-1].ID))
		} else {
			m.detail.errMsg = "Give a note number, e.g. delnote 2"
		}
	default:
		m.detail.errMsg = "Unknown choice"
	}
	return batchCmds(cmds)
}

func (m *model) createCallCmd(when time.Time) tea.Cmd {
	client := m.client
	call := crm.CallLog{
		LeadID:        m.detail.leadID,
		OpportunityID: m.detail.oppID,
		Subject:       m.detail.callSubject,
		Notes:         m.detail.callNotes,
		CallTime:      crm.NewCallTimestamp(when),
	}
	return func() tea.Msg {
		_, err := client.CreateCallLog(context.Background(), call)
		return detailSavedMsg{what: "Call logged", err: err}
	}
}

func (m *model) createNoteCmd(content string) tea.Cmd {
	client := m.client
	note := crm.Note{
		LeadID:        m.detail.leadID,
		OpportunityID: m.detail.oppID,
		Content:       content,
		Creator:       m.cfg.Config.Name,
	}
	return func() tea.Msg {
		_, err := client.CreateNote(context.Background(), note)
		return detailSavedMsg{what: "Note saved", err: err}
	}
}

func (m *model) deleteCallCmd(id int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return detailSavedMsg{what: "Call log removed", err: client.DeleteCallLog(context.Background(), id)}
	}
}

func (m *model) deleteNoteCmd(id int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return detailSavedMsg{what: "Note removed", err: client.DeleteNote(context.Background(), id)}
	}
}

func (m *model) viewDetail() string {
	d := m.detail
	noun := "Lead"
	if d.oppID != 0 {
		noun = "Opportunity"
	}

	lines := []string{m.theme.Title.Render(noun + ": " + d.title), ""}

	switch {
	case d.loading:
		lines = append(lines, m.theme.Faint.Render("Loading…"))
	default:
		lines = append(lines, m.theme.Subtitle.Render("Call history"))
		if len(d.calls) == 0 {
			lines = append(lines, m.theme.Faint.Render("  No calls logged"))
		}
		for i, call := range d.calls {
			header := fmt.Sprintf("  %d. %s  %s", i+1, call.CallTime.String(), call.Subject)
			lines = append(lines, m.theme.Primary.Render(header))
			if call.Notes != "" {
				lines = append(lines, m.theme.Secondary.Render("     "+call.Notes))
			}
		}
		lines = append(lines, "", m.theme.Subtitle.Render("Notes"))
		if len(d.notes) == 0 {
			lines = append(lines, m.theme.Faint.Render("  No notes yet"))
		}
		for i, note := range d.notes {
			header := fmt.Sprintf("  %d. %s", i+1, note.Content)
			lines = append(lines, m.theme.Primary.Render(header))
			byline := "     — " + note.Creator + ", " + crm.FormatDate(note.CreatedAt)
			lines = append(lines, m.theme.Faint.Render(byline))
		}
	}

	if d.errMsg != "" {
		lines = append(lines, "", m.theme.Danger.Render(d.errMsg))
	}
	if m.infoMessage != "" {
		lines = append(lines, "", m.theme.Success.Render(m.infoMessage))
	}

	prompt := "> "
	switch d.stage {
	case detailStageCallSubject:
		prompt = "subject> "
	case detailStageCallNotes:
		prompt = "notes> "
	case detailStageCallTime:
		prompt = "when> "
	case detailStageNote:
		prompt = "note> "
	}
	lines = append(lines, "", m.theme.Accent.Render(prompt)+m.menuInput.View())
	if d.stage == detailStageView {
		lines = append(lines, m.theme.Faint.Render("call · note · delcall N · delnote N · r · / back"))
	} else {
		lines = append(lines, m.theme.Faint.Render("Esc to cancel"))
	}
	return strings.Join(lines, "\n") + "\n"
}
