package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"crmdesk/internal/api"
	"crmdesk/internal/crm"
	"crmdesk/internal/session"
)

// Data messages carry backend results back into the update loop. List
// messages include the fetch token so a stale response can be discarded.

type leadsMsg struct {
	token uint64
	items []crm.Lead
	err   error
}

type oppsMsg struct {
	token uint64
	items []crm.Opportunity
	err   error
}

type customersMsg struct {
	token uint64
	items []crm.Customer
	err   error
}

type employeesMsg struct {
	token uint64
	items []crm.Employee
	err   error
}

type ticketsMsg struct {
	token uint64
	items []crm.Ticket
	err   error
}

type statsMsg struct {
	stats api.Stats
}

type binMsg struct {
	bin *api.RecycleBin
	err error
}

type loginMsg struct {
	role session.Role
	err  error
}

type savedMsg struct {
	kind entityKind
	name string
	err  error
}

type deletedMsg struct {
	kind entityKind
	err  error
}

type convertedMsg struct {
	err error
}

type binActionMsg struct {
	verb string
	err  error
}

type exportedMsg struct {
	path string
	err  error
}

type detailMsg struct {
	leadID int64
	oppID  int64
	calls  []crm.CallLog
	notes  []crm.Note
	err    error
}

type detailSavedMsg struct {
	what string
	err  error
}

func (m *model) handleDataMsg(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case leadsMsg:
		if m.unauthorized(msg.err) {
			return nil, true
		}
		m.leads.Apply(msg.token, msg.items, msg.err)
		return nil, true
	case oppsMsg:
		if m.unauthorized(msg.err) {
			return nil, true
		}
		m.opps.Apply(msg.token, msg.items, msg.err)
		return nil, true
	case customersMsg:
		if m.unauthorized(msg.err) {
			return nil, true
		}
		m.customers.Apply(msg.token, msg.items, msg.err)
		return nil, true
	case employeesMsg:
		if m.unauthorized(msg.err) {
			return nil, true
		}
		m.employees.Apply(msg.token, msg.items, msg.err)
		return nil, true
	case ticketsMsg:
		if m.unauthorized(msg.err) {
			return nil, true
		}
		m.tickets.Apply(msg.token, msg.items, msg.err)
		return nil, true
	case statsMsg:
		m.stats = msg.stats
		m.statsDone = true
		return nil, true
	case binMsg:
		m.binLoading = false
		if m.unauthorized(msg.err) {
			return nil, true
		}
		if msg.err != nil {
			m.binErr = api.Message(msg.err)
			return nil, true
		}
		m.binErr = ""
		m.bin = msg.bin
		return nil, true
	case binActionMsg:
		if m.unauthorized(msg.err) {
			return nil, true
		}
		if msg.err != nil {
			m.errMessage = api.Message(msg.err)
			return nil, true
		}
		m.resetMessages()
		m.infoMessage = "Record " + msg.verb
		m.binLoading = true
		return m.fetchRecycleBin(), true
	case savedMsg:
		if m.unauthorized(msg.err) {
			return nil, true
		}
		if msg.err != nil {
			m.entityForm.saving = false
			m.entityForm.errMsg = api.Message(msg.err)
			return nil, true
		}
		m.resetMessages()
		m.infoMessage = msg.name + " saved"
		m.popState()
		return m.refetchKind(msg.kind), true
	case deletedMsg:
		if m.unauthorized(msg.err) {
			return nil, true
		}
		if msg.err != nil {
			m.errMessage = api.Message(msg.err)
			return nil, true
		}
		m.resetMessages()
		m.infoMessage = "Record moved to the recycle bin"
		return m.refetchKind(msg.kind), true
	case convertedMsg:
		if m.unauthorized(msg.err) {
			m.converter.Reset()
			return nil, true
		}
		m.converter.Finish(msg.err)
		if msg.err != nil {
			return nil, true
		}
		m.resetMessages()
		m.infoMessage = "Lead converted to opportunity"
		m.converter.Reset()
		m.popState()
		return batchCmds([]tea.Cmd{m.fetchLeads(), m.fetchOpportunities()}), true
	case exportedMsg:
		if msg.err != nil {
			m.errMessage = "Export failed: " + msg.err.Error()
			return nil, true
		}
		m.resetMessages()
		m.infoMessage = "Exported to " + msg.path
		return nil, true
	case loginMsg:
		m.login.busy = false
		if msg.err != nil {
			m.login.errMsg = api.Message(msg.err)
			return nil, true
		}
		m.resetMessages()
		m.prevStates = nil
		m.state = stateMainMenu
		m.infoMessage = "Signed in as " + string(msg.role)
		return m.setMenuInput("Choose an option", 64), true
	case detailMsg:
		if m.unauthorized(msg.err) {
			return nil, true
		}
		m.detail.loading = false
		if msg.err != nil {
			m.detail.errMsg = api.Message(msg.err)
			return nil, true
		}
		if msg.leadID == m.detail.leadID && msg.oppID == m.detail.oppID {
			m.detail.errMsg = ""
			m.detail.calls = msg.calls
			m.detail.notes = msg.notes
		}
		return nil, true
	case detailSavedMsg:
		if m.unauthorized(msg.err) {
			return nil, true
		}
		if msg.err != nil {
			m.detail.errMsg = api.Message(msg.err)
			return nil, true
		}
		m.detail.errMsg = ""
		m.infoMessage = msg.what
		m.detail.stage = detailStageView
		m.detail.loading = true
		return batchCmds([]tea.Cmd{
			m.fetchDetail(m.detail.leadID, m.detail.oppID),
			m.setMenuInput("call, note, delcall N, delnote N, r, /", 96),
		}), true
	}
	return nil, false
}

// unauthorized routes an expired-session error to the login screen. The API
// client has already dropped the stored session by the time this runs.
func (m *model) unauthorized(err error) bool {
	if err == nil || !errors.Is(err, api.ErrUnauthorized) {
		return false
	}
	m.log.Info("session rejected, returning to login")
	m.handleUnauthorized()
	return true
}

func (m *model) refetchKind(kind entityKind) tea.Cmd {
	switch kind {
	case kindLead:
		return m.fetchLeads()
	case kindOpportunity:
		return m.fetchOpportunities()
	case kindCustomer:
		return m.fetchCustomers()
	case kindEmployee:
		return m.fetchEmployees()
	default:
		return m.fetchTickets()
	}
}

// Fetch commands. Each one claims a token before the goroutine starts so the
// controller can tell the latest request from an abandoned one.

func (m *model) fetchLeads() tea.Cmd {
	token := m.leads.Begin()
	client := m.client
	return func() tea.Msg {
		items, err := client.ListLeads(context.Background())
		return leadsMsg{token: token, items: items, err: err}
	}
}

func (m *model) fetchOpportunities() tea.Cmd {
	token := m.opps.Begin()
	client := m.client
	return func() tea.Msg {
		items, err := client.ListOpportunities(context.Background())
		return oppsMsg{token: token, items: items, err: err}
	}
}

func (m *model) fetchCustomers() tea.Cmd {
	token := m.customers.Begin()
	client := m.client
	return func() tea.Msg {
		items, err := client.ListCustomers(context.Background())
		return customersMsg{token: token, items: items, err: err}
	}
}

func (m *model) fetchEmployees() tea.Cmd {
	token := m.employees.Begin()
	client := m.client
	return func() tea.Msg {
		items, err := client.ListEmployees(context.Background())
		return employeesMsg{token: token, items: items, err: err}
	}
}

func (m *model) fetchTickets() tea.Cmd {
	token := m.tickets.Begin()
	client := m.client
	return func() tea.Msg {
		items, err := client.ListResolvedTickets(context.Background())
		return ticketsMsg{token: token, items: items, err: err}
	}
}

func (m *model) fetchStats() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return statsMsg{stats: client.DashboardStats(context.Background())}
	}
}

func (m *model) fetchRecycleBin() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		bin, err := client.ListRecycleBin(context.Background())
		return binMsg{bin: bin, err: err}
	}
}

func (m *model) fetchDetail(leadID, oppID int64) tea.Cmd {
	client := m.client
	log := m.log
	return func() tea.Msg {
		ctx := context.Background()
		calls, err := client.ListCallLogs(ctx, leadID, oppID)
		if err != nil {
			log.Warn("call log fetch failed", zap.Error(err))
			return detailMsg{leadID: leadID, oppID: oppID, err: err}
		}
		notes, err := client.ListNotes(ctx, leadID, oppID)
		if err != nil {
			log.Warn("note fetch failed", zap.Error(err))
			return detailMsg{leadID: leadID, oppID: oppID, err: err}
		}
		return detailMsg{leadID: leadID, oppID: oppID, calls: calls, notes: notes}
	}
}

func (m *model) convertFunc() func(ctx context.Context, leadID int64, terms crm.ConversionTerms) error {
	client := m.client
	return func(ctx context.Context, leadID int64, terms crm.ConversionTerms) error {
		_, err := client.ConvertLead(ctx, leadID, terms)
		return err
	}
}
