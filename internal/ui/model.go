package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"crmdesk/internal/api"
	"crmdesk/internal/config"
	"crmdesk/internal/convert"
	"crmdesk/internal/crm"
	"crmdesk/internal/listview"
	"crmdesk/internal/session"
	"crmdesk/internal/theme"
)

type viewState int

const (
	stateLogin viewState = iota
	stateMainMenu
	stateDashboard
	stateLeads
	stateOpportunities
	stateCustomers
	stateEmployees
	stateTickets
	stateRecycleBin
	stateForm
	stateConvert
	stateDetail
	stateSettings
)

type entityKind int

const (
	kindLead entityKind = iota
	kindOpportunity
	kindCustomer
	kindEmployee
	kindTicket
)

func (k entityKind) title() string {
	switch k {
	case kindLead:
		return "Leads"
	case kindOpportunity:
		return "Opportunities"
	case kindCustomer:
		return "Customers"
	case kindEmployee:
		return "Employees"
	default:
		return "Resolved Tickets"
	}
}

const (
	menuDashboard     = "dashboard"
	menuLeads         = "leads"
	menuOpportunities = "opportunities"
	menuCustomers     = "customers"
	menuEmployees     = "employees"
	menuTickets       = "tickets"
	menuRecycleBin    = "recycle-bin"
	menuSettings      = "settings"
	menuLogout        = "logout"
	menuQuit          = "quit"
)

type menuOption struct {
	id       string
	keywords []string
	synonyms []string
}

var mainMenuOptions = []menuOption{
	{id: menuDashboard, keywords: []string{"dashboard"}, synonyms: []string{"1", "d", "dash", "dashboard"}},
	{id: menuLeads, keywords: []string{"leads"}, synonyms: []string{"2", "l", "lead", "leads"}},
	{id: menuOpportunities, keywords: []string{"opportunities"}, synonyms: []string{"3", "o", "opp", "opps", "opportunities"}},
	{id: menuCustomers, keywords: []string{"customers"}, synonyms: []string{"4", "c", "customer", "customers"}},
	{id: menuEmployees, keywords: []string{"employees"}, synonyms: []string{"5", "e", "employee", "employees"}},
	{id: menuTickets, keywords: []string{"tickets"}, synonyms: []string{"6", "t", "ticket", "tickets"}},
	{id: menuRecycleBin, keywords: []string{"recycle", "bin", "trash"}, synonyms: []string{"7", "bin", "recycle", "recycle bin", "trash"}},
	{id: menuSettings, keywords: []string{"settings"}, synonyms: []string{"8", "settings"}},
	{id: menuLogout, keywords: []string{"logout"}, synonyms: []string{"9", "logout", "sign out"}},
	{id: menuQuit, keywords: []string{"quit", "exit"}, synonyms: []string{"0", "q", "quit", "exit", "exit."}},
}

type model struct {
	state      viewState
	prevStates []viewState

	client   *api.Client
	cfg      *config.Store
	sessions *session.Store
	theme    theme.Theme
	log      *zap.Logger

	width       int
	height      int
	infoMessage string
	errMessage  string

	menuInput textinput.Model
	filter    textinput.Model

	leads     *listview.Controller[crm.Lead]
	opps      *listview.Controller[crm.Opportunity]
	customers *listview.Controller[crm.Customer]
	employees *listview.Controller[crm.Employee]
	tickets   *listview.Controller[crm.Ticket]

	stats     api.Stats
	statsDone bool

	bin        *api.RecycleBin
	binErr     string
	binLoading bool

	entityForm entityForm
	converter  *convert.Workflow
	detail     detailModel
	login      loginModel
	settings   settingsModel
}

func newModel(client *api.Client, cfg *config.Store, sessions *session.Store, log *zap.Logger) *model {
	if log == nil {
		log = zap.NewNop()
	}
	menu := textinput.New()
	menu.Prompt = ""
	menu.Placeholder = "Choose an option"
	menu.CharLimit = 64
	menu.Focus()

	filter := textinput.New()
	filter.Prompt = ""
	filter.Placeholder = "Search or enter a command"
	filter.CharLimit = 96

	pageSize := cfg.Config.PageSize

	m := &model{
		state:     stateMainMenu,
		client:    client,
		cfg:       cfg,
		sessions:  sessions,
		theme:     theme.Default(),
		log:       log,
		menuInput: menu,
		filter:    filter,
		leads:     listview.New(pageSize, crm.Lead.SearchText),
		opps:      listview.New(pageSize, crm.Opportunity.SearchText),
		customers: listview.New(pageSize, crm.Customer.SearchText),
		employees: listview.New(pageSize, crm.Employee.SearchText),
		tickets:   listview.New(pageSize, crm.Ticket.SearchText),
		login:     newLoginModel(),
	}
	m.converter = convert.New(m.convertFunc())
	if sessions.Current() == nil {
		m.state = stateLogin
	}
	return m
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	if cmd, handled := m.handleDataMsg(msg); handled {
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.state {
	case stateLogin:
		cmd = m.updateLogin(msg)
	case stateMainMenu:
		cmd = m.updateMainMenu(msg)
	case stateDashboard:
		cmd = m.updateDashboard(msg)
	case stateLeads, stateOpportunities, stateCustomers, stateEmployees, stateTickets:
		cmd = m.updateList(msg)
	case stateRecycleBin:
		cmd = m.updateRecycleBin(msg)
	case stateForm:
		cmd = m.updateForm(msg)
	case stateConvert:
		cmd = m.updateConvert(msg)
	case stateDetail:
		cmd = m.updateDetail(msg)
	case stateSettings:
		cmd = m.updateSettings(msg)
	default:
		m.state = stateMainMenu
		cmd = m.updateMainMenu(msg)
	}
	return m, cmd
}

func (m *model) View() string {
	switch m.state {
	case stateLogin:
		return m.viewLogin()
	case stateMainMenu:
		return m.viewMainMenu()
	case stateDashboard:
		return m.viewDashboard()
	case stateLeads:
		return m.viewList(kindLead)
	case stateOpportunities:
		return m.viewList(kindOpportunity)
	case stateCustomers:
		return m.viewList(kindCustomer)
	case stateEmployees:
		return m.viewList(kindEmployee)
	case stateTickets:
		return m.viewList(kindTicket)
	case stateRecycleBin:
		return m.viewRecycleBin()
	case stateForm:
		return m.viewForm()
	case stateConvert:
		return m.viewConvert()
	case stateDetail:
		return m.viewDetail()
	case stateSettings:
		return m.viewSettings()
	default:
		return ""
	}
}

// Navigation helpers

func (m *model) pushState(next viewState) {
	m.prevStates = append(m.prevStates, m.state)
	m.state = next
}

func (m *model) popState() {
	if len(m.prevStates) == 0 {
		m.state = stateMainMenu
		return
	}
	idx := len(m.prevStates) - 1
	m.state = m.prevStates[idx]
	m.prevStates = m.prevStates[:idx]
}

func (m *model) goHome() tea.Cmd {
	m.prevStates = nil
	m.state = stateMainMenu
	return m.setMenuInput("Choose an option", 64)
}

func (m *model) resetMessages() {
	m.errMessage = ""
	m.infoMessage = ""
}

func (m *model) handleUnauthorized() {
	m.login = newLoginModel()
	m.prevStates = nil
	m.errMessage = "Session expired, please sign in again"
	m.state = stateLogin
}

func (m *model) setMenuInput(placeholder string, limit int) tea.Cmd {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = placeholder
	if limit > 0 {
		input.CharLimit = limit
	}
	cmd := input.Focus()
	m.menuInput = input
	return cmd
}

func (m *model) ensureMenuInput(placeholder string, limit int) tea.Cmd {
	if strings.TrimSpace(m.menuInput.Placeholder) == placeholder {
		if limit <= 0 || m.menuInput.CharLimit == limit {
			if !m.menuInput.Focused() {
				return m.menuInput.Focus()
			}
			return nil
		}
	}
	return m.setMenuInput(placeholder, limit)
}

func resolveMenuSelection(options []menuOption, input string) (string, bool) {
	value := strings.TrimSpace(strings.ToLower(input))
	if value == "" {
		return "", false
	}
	for _, option := range options {
		for _, syn := range option.synonyms {
			if value == syn {
				return option.id, true
			}
		}
	}
	matches := make(map[string]struct{})
	for _, option := range options {
		for _, keyword := range option.keywords {
			if strings.HasPrefix(keyword, value) {
				matches[option.id] = struct{}{}
				break
			}
		}
	}
	if len(matches) == 1 {
		for id := range matches {
			return id, true
		}
	}
	return "", false
}

func batchCmds(cmds []tea.Cmd) tea.Cmd {
	filtered := cmds[:0]
	for _, c := range cmds {
		if c != nil {
			filtered = append(filtered, c)
		}
	}
	switch len(filtered) {
	case 0:
		return nil
	case 1:
		return filtered[0]
	default:
		return tea.Batch(filtered...)
	}
}

func isExitCommand(value string) bool {
	v := strings.TrimSpace(strings.ToLower(value))
	return v == "exit." || v == "quit"
}

func isBackCommand(value string) bool {
	v := strings.TrimSpace(strings.ToLower(value))
	return v == "/" || v == "back"
}

// MAIN MENU

func (m *model) updateMainMenu(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	if focus := m.ensureMenuInput("Choose an option", 64); focus != nil {
		cmds = append(cmds, focus)
	}

	var cmd tea.Cmd
	m.menuInput, cmd = m.menuInput.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		choice := strings.TrimSpace(strings.ToLower(m.menuInput.Value()))
		m.menuInput.SetValue("")
		action, ok := resolveMenuSelection(mainMenuOptions, choice)
		if !ok {
			if choice != "" {
				m.errMessage = "Unknown choice"
			}
			return batchCmds(cmds)
		}
		m.resetMessages()
		switch action {
		case menuDashboard:
			m.pushState(stateDashboard)
			m.statsDone = false
			cmds = append(cmds, m.fetchStats())
			if focus := m.setMenuInput("r=refresh, /=back, exit.", 48); focus != nil {
				cmds = append(cmds, focus)
			}
		case menuLeads:
			cmds = append(cmds, m.openList(stateLeads, m.fetchLeads())...)
		case menuOpportunities:
			cmds = append(cmds, m.openList(stateOpportunities, m.fetchOpportunities())...)
		case menuCustomers:
			cmds = append(cmds, m.openList(stateCustomers, m.fetchCustomers())...)
		case menuEmployees:
			cmds = append(cmds, m.openList(stateEmployees, m.fetchEmployees())...)
		case menuTickets:
			cmds = append(cmds, m.openList(stateTickets, m.fetchTickets())...)
		case menuRecycleBin:
			m.pushState(stateRecycleBin)
			m.binLoading = true
			cmds = append(cmds, m.fetchRecycleBin())
			if focus := m.setMenuInput("restore l|o <n>, purge l|o <n>, r=refresh, /=back", 64); focus != nil {
				cmds = append(cmds, focus)
			}
		case menuSettings:
			m.openSettings()
			m.pushState(stateSettings)
			if focus := m.setMenuInput("1=Name 2=Timezone 3=Server 4=Page size 5=Export dir /=back", 96); focus != nil {
				cmds = append(cmds, focus)
			}
		case menuLogout:
			if err := m.sessions.Clear(); err != nil {
				m.errMessage = err.Error()
				return batchCmds(cmds)
			}
			m.login = newLoginModel()
			m.prevStates = nil
			m.state = stateLogin
		case menuQuit:
			cmds = append(cmds, tea.Quit)
		}
	}
	return batchCmds(cmds)
}

func (m *model) openList(next viewState, fetch tea.Cmd) []tea.Cmd {
	var cmds []tea.Cmd
	m.pushState(next)
	m.filter.SetValue("")
	if !m.filter.Focused() {
		if focus := m.filter.Focus(); focus != nil {
			cmds = append(cmds, focus)
		}
	}
	cmds = append(cmds, fetch)
	return cmds
}

func (m *model) viewMainMenu() string {
	lines := []string{
		m.theme.Title.Render("crmdesk"),
		m.theme.Secondary.Render("Customer relationships from the terminal"),
	}
	if sess := m.sessions.Current(); sess != nil {
		who := strings.TrimSpace(m.cfg.Config.Name)
		if who == "" {
			who = "you"
		}
		lines = append(lines, m.theme.Faint.Render("Signed in as "+who+" ("+string(sess.Role)+")"))
	}
	if m.infoMessage != "" {
		lines = append(lines, m.theme.Success.Render(m.infoMessage))
	}
	if m.errMessage != "" {
		lines = append(lines, m.theme.Danger.Render(m.errMessage))
	}
	menu := []string{
		"1. Dashboard",
		"2. Leads",
		"3. Opportunities",
		"4. Customers",
		"5. Employees",
		"6. Resolved tickets",
		"7. Recycle bin",
		"8. Settings",
		"9. Log out",
		"0. Quit",
	}
	lines = append(lines, "")
	for _, item := range menu {
		lines = append(lines, m.theme.Primary.Render(item))
	}
	lines = append(lines, "", m.theme.Accent.Render("> ")+m.menuInput.View())
	return strings.Join(lines, "\n") + "\n"
}
