package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"crmdesk/internal/crm"
	"crmdesk/internal/export"
	"crmdesk/internal/listview"
)

// The list screens share one input: typing filters the collection live, and
// Enter runs whatever command the line holds (add, edit 3, delete 2,
// convert 1, open 4, export, page 2, next, prev, r).

func (m *model) currentKind() entityKind {
	switch m.state {
	case stateLeads:
		return kindLead
	case stateOpportunities:
		return kindOpportunity
	case stateCustomers:
		return kindCustomer
	case stateEmployees:
		return kindEmployee
	default:
		return kindTicket
	}
}

func (m *model) updateList(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	kind := m.currentKind()

	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		line := m.filter.Value()
		if cmd, handled := m.runListCommand(kind, line); handled {
			m.filter.SetValue("")
			m.applyQuery(kind, "")
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			return batchCmds(cmds)
		}
		return nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	m.applyQuery(kind, m.filter.Value())
	return batchCmds(cmds)
}

func (m *model) applyQuery(kind entityKind, q string) {
	switch kind {
	case kindLead:
		m.leads.SetQuery(q)
	case kindOpportunity:
		m.opps.SetQuery(q)
	case kindCustomer:
		m.customers.SetQuery(q)
	case kindEmployee:
		m.employees.SetQuery(q)
	default:
		m.tickets.SetQuery(q)
	}
}

// runListCommand reports whether the line was a command. A false return
// leaves the line in place as a live filter.
func (m *model) runListCommand(kind entityKind, line string) (tea.Cmd, bool) {
	value := strings.TrimSpace(strings.ToLower(line))
	if value == "" {
		return nil, true
	}
	if isBackCommand(value) {
		m.popState()
		return m.setMenuInput("Choose an option", 64), true
	}
	if isExitCommand(value) {
		return m.goHome(), true
	}

	verb, arg := value, ""
	if i := strings.IndexByte(value, ' '); i >= 0 {
		verb, arg = value[:i], strings.TrimSpace(value[i+1:])
	}

	switch verb {
	case "r", "refresh":
		m.resetMessages()
		return m.refetchKind(kind), true
	case "n", "next":
		m.stepPage(kind, +1)
		return nil, true
	case "p", "prev":
		m.stepPage(kind, -1)
		return nil, true
	case "page":
		if p, err := strconv.Atoi(arg); err == nil {
			m.setListPage(kind, p)
		}
		return nil, true
	case "export":
		return m.exportCmd(kind), true
	case "add":
		if kind == kindLead || kind == kindOpportunity {
			m.resetMessages()
			m.openEntityForm(kind, -1)
			return m.entityForm.focusCmd(), true
		}
		m.errMessage = "Only leads and opportunities can be added here"
		return nil, true
	case "edit":
		if kind != kindLead && kind != kindOpportunity {
			m.errMessage = "Only leads and opportunities can be edited"
			return nil, true
		}
		idx, ok := m.rowArg(kind, arg)
		if !ok {
			return nil, true
		}
		m.resetMessages()
		m.openEntityForm(kind, idx)
		return m.entityForm.focusCmd(), true
	case "del", "delete":
		idx, ok := m.rowArg(kind, arg)
		if !ok {
			return nil, true
		}
		return m.deleteCmd(kind, idx), true
	case "convert":
		if kind != kindLead {
			m.errMessage = "Only leads can be converted"
			return nil, true
		}
		idx, ok := m.rowArg(kind, arg)
		if !ok {
			return nil, true
		}
		lead := m.leads.Visible()[idx]
		m.resetMessages()
		m.converter.Select(lead)
		m.pushState(stateConvert)
		return m.setMenuInput("revenue <amount>, prob <percent>, yes, no", 48), true
	case "open":
		if kind != kindLead && kind != kindOpportunity {
			m.errMessage = "Only leads and opportunities carry activity"
			return nil, true
		}
		idx, ok := m.rowArg(kind, arg)
		if !ok {
			return nil, true
		}
		m.resetMessages()
		cmd := m.openDetail(kind, idx)
		return cmd, true
	}
	return nil, false
}

// rowArg resolves a 1-based row number against the visible page.
func (m *model) rowArg(kind entityKind, arg string) (int, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		m.errMessage = "Give a row number, e.g. edit 2"
		return 0, false
	}
	count := m.visibleCount(kind)
	if n > count {
		m.errMessage = fmt.Sprintf("Row %d is not on this page", n)
		return 0, false
	}
	return n - 1, true
}

func (m *model) visibleCount(kind entityKind) int {
	switch kind {
	case kindLead:
		return len(m.leads.Visible())
	case kindOpportunity:
		return len(m.opps.Visible())
	case kindCustomer:
		return len(m.customers.Visible())
	case kindEmployee:
		return len(m.employees.Visible())
	default:
		return len(m.tickets.Visible())
	}
}

func (m *model) stepPage(kind entityKind, delta int) {
	switch kind {
	case kindLead:
		m.leads.SetPage(m.leads.Page() + delta)
	case kindOpportunity:
		m.opps.SetPage(m.opps.Page() + delta)
	case kindCustomer:
		m.customers.SetPage(m.customers.Page() + delta)
	case kindEmployee:
		m.employees.SetPage(m.employees.Page() + delta)
	default:
		m.tickets.SetPage(m.tickets.Page() + delta)
	}
}

func (m *model) setListPage(kind entityKind, p int) {
	switch kind {
	case kindLead:
		m.leads.SetPage(p)
	case kindOpportunity:
		m.opps.SetPage(p)
	case kindCustomer:
		m.customers.SetPage(p)
	case kindEmployee:
		m.employees.SetPage(p)
	default:
		m.tickets.SetPage(p)
	}
}

func (m *model) deleteCmd(kind entityKind, idx int) tea.Cmd {
	client := m.client
	switch kind {
	case kindLead:
		id := m.leads.Visible()[idx].ID
		return func() tea.Msg {
			return deletedMsg{kind: kind, err: client.DeleteLead(context.Background(), id)}
		}
	case kindOpportunity:
		id := m.opps.Visible()[idx].ID
		return func() tea.Msg {
			return deletedMsg{kind: kind, err: client.DeleteOpportunity(context.Background(), id)}
		}
	case kindCustomer:
		id := m.customers.Visible()[idx].ID
		return func() tea.Msg {
			return deletedMsg{kind: kind, err: client.DeleteCustomer(context.Background(), id)}
		}
	default:
		m.errMessage = "This collection is read only"
		return nil
	}
}

// exportCmd writes the whole unfiltered collection, not the current page.
func (m *model) exportCmd(kind entityKind) tea.Cmd {
	dir := m.cfg.Config.ExportDir
	now := time.Now().In(m.cfg.Location())
	switch kind {
	case kindLead:
		return exportListCmd(dir, "Leads", m.leads.Items(), crm.LeadColumns(), now)
	case kindOpportunity:
		return exportListCmd(dir, "Opportunities", m.opps.Items(), crm.OpportunityColumns(), now)
	case kindCustomer:
		return exportListCmd(dir, "Customers", m.customers.Items(), crm.CustomerColumns(), now)
	case kindEmployee:
		return exportListCmd(dir, "Employees", m.employees.Items(), crm.EmployeeColumns(), now)
	default:
		return exportListCmd(dir, "Tickets", m.tickets.Items(), crm.TicketColumns(), now)
	}
}

func exportListCmd[T any](dir, prefix string, records []T, cols []export.Column[T], now time.Time) tea.Cmd {
	return func() tea.Msg {
		path, err := export.Save(dir, prefix, records, cols, now)
		return exportedMsg{path: path, err: err}
	}
}

// Rendering

func (m *model) viewList(kind entityKind) string {
	var lines []string
	lines = append(lines, m.tabBar(kind))
	lines = append(lines, "")

	switch kind {
	case kindLead:
		lines = append(lines, listBody(m, m.leads, m.leadRow)...)
	case kindOpportunity:
		lines = append(lines, listBody(m, m.opps, m.oppRow)...)
	case kindCustomer:
		lines = append(lines, listBody(m, m.customers, m.customerRow)...)
	case kindEmployee:
		lines = append(lines, listBody(m, m.employees, m.employeeRow)...)
	default:
		lines = append(lines, listBody(m, m.tickets, m.ticketRow)...)
	}

	if m.infoMessage != "" {
		lines = append(lines, m.theme.Success.Render(m.infoMessage))
	}
	if m.errMessage != "" {
		lines = append(lines, m.theme.Danger.Render(m.errMessage))
	}
	lines = append(lines, "", m.theme.Accent.Render("find> ")+m.filter.View())
	lines = append(lines, m.theme.Faint.Render(m.listHelp(kind)))
	return strings.Join(lines, "\n") + "\n"
}

func (m *model) tabBar(active entityKind) string {
	kinds := []entityKind{kindLead, kindOpportunity, kindCustomer, kindEmployee, kindTicket}
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		if k == active {
			parts = append(parts, m.theme.TabActive.Render(k.title()))
		} else {
			parts = append(parts, m.theme.Tab.Render(k.title()))
		}
	}
	return strings.Join(parts, "  ")
}

func (m *model) listHelp(kind entityKind) string {
	switch kind {
	case kindLead:
		return "add · edit N · delete N · convert N · open N · export · page N · r · / back"
	case kindOpportunity:
		return "add · edit N · delete N · open N · export · page N · r · / back"
	case kindCustomer:
		return "delete N · export · page N · r · / back"
	default:
		return "export · page N · r · / back"
	}
}

// listBody renders one controller's records between the tab bar and the
// input. Free function because methods cannot take type parameters.
func listBody[T any](m *model, c *listview.Controller[T], row func(int, T) string) []string {
	switch c.State() {
	case listview.StateIdle, listview.StateLoading:
		if c.Len() == 0 {
			return []string{m.theme.Faint.Render("Loading…")}
		}
	case listview.StateFailed:
		if c.Len() == 0 {
			return []string{
				m.theme.Danger.Render(c.Err()),
				m.theme.Faint.Render("Type r to retry"),
			}
		}
	}

	visible := c.Visible()
	if len(visible) == 0 {
		lines := []string{m.theme.Faint.Render("No records found")}
		if c.Query() != "" {
			lines = append(lines, m.theme.Faint.Render("Clear the search or type r to refresh"))
		}
		return lines
	}

	lines := make([]string, 0, len(visible)+3)
	for i, item := range visible {
		lines = append(lines, row(i+1, item))
	}
	lines = append(lines, "")
	lines = append(lines, pageFooter(m, c))
	if c.State() == listview.StateFailed {
		lines = append(lines, m.theme.Warning.Render("Refresh failed: "+c.Err()+" (showing last results)"))
	}
	return lines
}

func pageFooter[T any](m *model, c *listview.Controller[T]) string {
	w := c.Window()
	if w.Hidden {
		return m.theme.Faint.Render(fmt.Sprintf("%d record(s)", len(c.Filtered())))
	}
	parts := make([]string, 0, len(w.Pages)+4)
	if w.First {
		parts = append(parts, m.theme.PageLink.Render("1 …"))
	}
	for _, p := range w.Pages {
		label := strconv.Itoa(p)
		if p == w.Current {
			parts = append(parts, m.theme.PageHere.Render("["+label+"]"))
		} else {
			parts = append(parts, m.theme.PageLink.Render(label))
		}
	}
	if w.Last {
		parts = append(parts, m.theme.PageLink.Render("… "+strconv.Itoa(w.TotalPages)))
	}
	parts = append(parts, m.theme.Faint.Render(fmt.Sprintf("(%d record(s))", len(c.Filtered()))))
	return strings.Join(parts, " ")
}

func (m *model) leadRow(n int, l crm.Lead) string {
	left := fmt.Sprintf("%2d. %-24s %-14s %-24s", n, clip(l.Name, 24), clip(l.Phone, 14), clip(l.Email, 24))
	right := fmt.Sprintf("%-12s %-16s %10s %6s", clip(l.Source, 12), clip(l.AssignedTo, 16),
		crm.FormatCurrency(l.ExpectedRevenue), crm.FormatPercent(l.ConversionProbability))
	return m.theme.Primary.Render(left) + " " + m.theme.Secondary.Render(right)
}

func (m *model) oppRow(n int, o crm.Opportunity) string {
	left := fmt.Sprintf("%2d. %-24s %-14s %-24s", n, clip(o.Name, 24), clip(o.Phone, 14), clip(o.Email, 24))
	right := fmt.Sprintf("%-16s %10s %6s", clip(o.AssignedTo, 16),
		crm.FormatCurrency(o.ExpectedRevenue), crm.FormatPercent(o.ConversionProbability))
	return m.theme.Primary.Render(left) + " " + m.theme.Secondary.Render(right)
}

func (m *model) customerRow(n int, c crm.Customer) string {
	left := fmt.Sprintf("%2d. %-24s %-14s %-24s", n, clip(c.Name, 24), clip(c.Phone, 14), clip(c.Email, 24))
	right := fmt.Sprintf("%-20s %-20s", clip(c.Company, 20), clip(c.Address, 20))
	return m.theme.Primary.Render(left) + " " + m.theme.Secondary.Render(right)
}

func (m *model) employeeRow(n int, e crm.Employee) string {
	left := fmt.Sprintf("%2d. %-24s %-24s", n, clip(e.Name, 24), clip(e.Email, 24))
	right := fmt.Sprintf("%-14s %-16s", clip(e.Phone, 14), clip(e.Role, 16))
	return m.theme.Primary.Render(left) + " " + m.theme.Secondary.Render(right)
}

func (m *model) ticketRow(n int, t crm.Ticket) string {
	left := fmt.Sprintf("%2d. %-20s %-28s", n, clip(t.Customer, 20), clip(t.Subject, 28))
	right := fmt.Sprintf("%-28s %s", clip(t.Resolution, 28), crm.FormatDate(t.ResolvedAt))
	return m.theme.Primary.Render(left) + " " + m.theme.Secondary.Render(right)
}

func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
