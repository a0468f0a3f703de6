package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"crmdesk/internal/session"
)

type loginStage int

const (
	loginStageRole loginStage = iota
	loginStageUsername
	loginStagePassword
)

type loginModel struct {
	stage    loginStage
	role     session.Role
	username string
	input    textinput.Model
	busy     bool
	errMsg   string
}

func newLoginModel() loginModel {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "admin, employee or customer"
	input.CharLimit = 64
	input.Focus()
	return loginModel{stage: loginStageRole, input: input}
}

func parseRole(value string) (session.Role, bool) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "1", "a", "admin":
		return session.RoleAdmin, true
	case "2", "e", "employee":
		return session.RoleEmployee, true
	case "3", "c", "customer":
		return session.RoleCustomer, true
	}
	return "", false
}

func (m *model) updateLogin(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.login.input, cmd = m.login.input.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok || key.Type != tea.KeyEnter || m.login.busy {
		return batchCmds(cmds)
	}

	value := m.login.input.Value()
	m.login.input.SetValue("")

	switch m.login.stage {
	case loginStageRole:
		role, ok := parseRole(value)
		if !ok {
			m.login.errMsg = "Pick admin, employee or customer"
			return batchCmds(cmds)
		}
		m.login.errMsg = ""
		m.login.role = role
		m.login.stage = loginStageUsername
		m.login.input.Placeholder = "Username"
	case loginStageUsername:
		username := strings.TrimSpace(value)
		if username == "" {
			m.login.errMsg = "Username is required"
			return batchCmds(cmds)
		}
		m.login.errMsg = ""
		m.login.username = username
		m.login.stage = loginStagePassword
		m.login.input.Placeholder = "Password"
		m.login.input.EchoMode = textinput.EchoPassword
	case loginStagePassword:
		password := value
		if password == "" {
			m.login.errMsg = "Password is required"
			return batchCmds(cmds)
		}
		m.login.errMsg = ""
		m.login.busy = true
		m.login.input.EchoMode = textinput.EchoNormal
		client := m.client
		role := m.login.role
		username := m.login.username
		cmds = append(cmds, func() tea.Msg {
			err := client.Login(context.Background(), role, username, password)
			return loginMsg{role: role, err: err}
		})
	}
	return batchCmds(cmds)
}

func (m *model) viewLogin() string {
	lines := []string{
		m.theme.Title.Render("crmdesk"),
		m.theme.Secondary.Render("Sign in to continue"),
		"",
	}
	if m.errMessage != "" {
		lines = append(lines, m.theme.Warning.Render(m.errMessage), "")
	}

	var prompt string
	switch m.login.stage {
	case loginStageRole:
		lines = append(lines,
			m.theme.Primary.Render("1. Admin"),
			m.theme.Primary.Render("2. Employee"),
			m.theme.Primary.Render("3. Customer"),
			"")
		prompt = "role> "
	case loginStageUsername:
		lines = append(lines, m.theme.Faint.Render("Role: "+string(m.login.role)), "")
		prompt = "user> "
	case loginStagePassword:
		lines = append(lines,
			m.theme.Faint.Render("Role: "+string(m.login.role)),
			m.theme.Faint.Render("User: "+m.login.username),
			"")
		prompt = "pass> "
	}

	if m.login.busy {
		lines = append(lines, m.theme.Faint.Render("Signing in…"))
	} else if m.login.errMsg != "" {
		lines = append(lines, m.theme.Danger.Render(m.login.errMsg))
	}
	lines = append(lines, m.theme.Accent.Render(prompt)+m.login.input.View())
	return strings.Join(lines, "\n") + "\n"
}
