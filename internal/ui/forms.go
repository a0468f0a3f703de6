package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"crmdesk/internal/crm"
	"crmdesk/internal/form"
)

// entityForm walks the lead/opportunity fields one at a time. Enter commits
// the focused field and moves on; after the last field the draft is
// validated and submitted. Esc discards the draft.
type entityForm struct {
	kind     entityKind
	draft    *form.Draft
	index    int
	input    textinput.Model
	errMsg   string
	saving   bool
	baseLead crm.Lead
	baseOpp  crm.Opportunity
}

// openEntityForm prepares a create form (idx < 0) or an edit form seeded
// from the visible row at idx.
func (m *model) openEntityForm(kind entityKind, idx int) {
	f := entityForm{kind: kind}
	switch kind {
	case kindLead:
		var initial map[string]string
		if idx >= 0 {
			f.baseLead = m.leads.Visible()[idx]
			initial = crm.LeadValues(f.baseLead)
		}
		f.draft = form.New(crm.LeadFormFields(), initial)
	case kindOpportunity:
		var initial map[string]string
		if idx >= 0 {
			f.baseOpp = m.opps.Visible()[idx]
			initial = crm.OpportunityValues(f.baseOpp)
		}
		f.draft = form.New(crm.OpportunityFormFields(), initial)
	}
	f.input = textinput.New()
	f.input.Prompt = ""
	f.input.CharLimit = 96
	f.seedInput()
	m.entityForm = f
	m.pushState(stateForm)
}

func (f *entityForm) focusCmd() tea.Cmd {
	return f.input.Focus()
}

func (f *entityForm) currentField() form.Field {
	return f.draft.Fields()[f.index]
}

func (f *entityForm) seedInput() {
	field := f.currentField()
	f.input.SetValue(f.draft.Get(field.Name))
	f.input.CursorEnd()
	f.input.Placeholder = field.Label
}

func (m *model) updateForm(msg tea.Msg) tea.Cmd {
	f := &m.entityForm
	if f.draft == nil {
		m.popState()
		return nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEsc:
			m.popState()
			return nil
		case tea.KeyEnter:
			if f.saving {
				return nil
			}
			f.draft.Set(f.currentField().Name, f.input.Value())
			if f.index+1 < len(f.draft.Fields()) {
				f.index++
				f.seedInput()
				return nil
			}
			errs := f.draft.Validate()
			if len(errs) > 0 {
				for i, field := range f.draft.Fields() {
					if _, bad := errs[field.Name]; bad {
						f.index = i
						f.seedInput()
						break
					}
				}
				return nil
			}
			f.saving = true
			f.errMsg = ""
			return m.saveFormCmd()
		case tea.KeyUp:
			if f.index > 0 {
				f.draft.Set(f.currentField().Name, f.input.Value())
				f.index--
				f.seedInput()
			}
			return nil
		}
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

func (m *model) saveFormCmd() tea.Cmd {
	f := m.entityForm
	client := m.client
	values := f.draft.Values()
	editing := f.draft.Editing()
	switch f.kind {
	case kindLead:
		lead := crm.LeadFromValues(f.baseLead, values)
		return func() tea.Msg {
			ctx := context.Background()
			var err error
			if editing {
				err = client.UpdateLead(ctx, lead)
			} else {
				_, err = client.CreateLead(ctx, lead)
			}
			return savedMsg{kind: kindLead, name: "Lead", err: err}
		}
	default:
		opp := crm.OpportunityFromValues(f.baseOpp, values)
		return func() tea.Msg {
			ctx := context.Background()
			var err error
			if editing {
				err = client.UpdateOpportunity(ctx, opp)
			} else {
				_, err = client.CreateOpportunity(ctx, opp)
			}
			return savedMsg{kind: kindOpportunity, name: "Opportunity", err: err}
		}
	}
}

func (m *model) viewForm() string {
	f := m.entityForm
	if f.draft == nil {
		return ""
	}

	noun := "lead"
	if f.kind == kindOpportunity {
		noun = "opportunity"
	}
	verb := "New"
	if f.draft.Editing() {
		verb = "Edit"
	}

	lines := []string{m.theme.Title.Render(verb + " " + noun), ""}
	for i, field := range f.draft.Fields() {
		label := field.Label
		if field.Required {
			label += " *"
		}
		if i == f.index {
			lines = append(lines, m.theme.Accent.Render("› "+label+": ")+f.input.View())
		} else {
			value := f.draft.Get(field.Name)
			if value == "" {
				value = m.theme.Faint.Render("—")
			}
			lines = append(lines, m.theme.Secondary.Render("  "+label+": ")+value)
		}
		if msg := f.draft.Error(field.Name); msg != "" {
			lines = append(lines, m.theme.Danger.Render("    "+msg))
		}
	}

	lines = append(lines, "")
	switch {
	case f.saving:
		lines = append(lines, m.theme.Faint.Render("Saving…"))
	case f.errMsg != "":
		lines = append(lines, m.theme.Danger.Render(f.errMsg))
	default:
		lines = append(lines, m.theme.Faint.Render("Enter to continue · ↑ previous field · Esc to cancel"))
	}
	return strings.Join(lines, "\n") + "\n"
}
