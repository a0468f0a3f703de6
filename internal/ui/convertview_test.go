package ui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmdesk/internal/convert"
	"crmdesk/internal/crm"
)

func TestConfirmKeepsTheUpdateLoopFree(t *testing.T) {
	release := make(chan struct{})
	m := &model{
		menuInput: textinput.New(),
		converter: convert.New(func(ctx context.Context, leadID int64, terms crm.ConversionTerms) error {
			<-release
			return nil
		}),
	}
	m.converter.Select(crm.Lead{ID: 7, Name: "Acme", ExpectedRevenue: 5000})
	m.menuInput.SetValue("yes")

	start := time.Now()
	cmd := m.updateConvert(tea.KeyMsg{Type: tea.KeyEnter})
	require.Less(t, time.Since(start), 500*time.Millisecond,
		"confirming must not run the backend call inside the update loop")
	assert.Equal(t, convert.StateConverting, m.converter.State())
	require.NotNil(t, cmd)

	close(release)
	converted, ok := runUntilConverted(t, cmd)
	require.True(t, ok, "the command chain must deliver the conversion result")
	assert.NoError(t, converted.err)
	assert.Equal(t, convert.StateConverting, m.converter.State(),
		"the workflow settles only once the result message is handled")
}

func TestConfirmIgnoredWhileConverting(t *testing.T) {
	m := &model{
		menuInput: textinput.New(),
		converter: convert.New(func(ctx context.Context, leadID int64, terms crm.ConversionTerms) error {
			return nil
		}),
	}
	m.converter.Select(crm.Lead{ID: 7})
	_, ok := m.converter.Begin()
	require.True(t, ok)

	m.menuInput.SetValue("yes")
	cmd := m.updateConvert(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, convert.StateConverting, m.converter.State())
}

// runUntilConverted executes a command, flattening batches, until a
// convertedMsg surfaces.
func runUntilConverted(t *testing.T, cmd tea.Cmd) (convertedMsg, bool) {
	t.Helper()
	pending := []tea.Cmd{cmd}
	for len(pending) > 0 {
		next := pending[0]
		pending = pending[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case convertedMsg:
			return msg, true
		case tea.BatchMsg:
			pending = append(pending, msg...)
		}
	}
	return convertedMsg{}, false
}
