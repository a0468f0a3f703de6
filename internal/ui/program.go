package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"crmdesk/internal/api"
	"crmdesk/internal/config"
	"crmdesk/internal/session"
)

// Program wraps the Bubble Tea program lifecycle.
type Program struct {
	program *tea.Program
}

// NewProgram constructs a new interactive CRM session.
func NewProgram(client *api.Client, cfg *config.Store, sessions *session.Store, log *zap.Logger) *Program {
	m := newModel(client, cfg, sessions, log)
	return &Program{program: tea.NewProgram(m)}
}

// Start launches the Bubble Tea program.
func (p *Program) Start() error {
	if p == nil || p.program == nil {
		return fmt.Errorf("nil program")
	}
	return p.program.Start()
}
