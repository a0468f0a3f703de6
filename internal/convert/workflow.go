// Package convert drives the two-step lead→opportunity promotion: pick a
// lead, confirm the revenue/probability terms, then call the backend.
package convert

import (
	"context"

	"crmdesk/internal/crm"
)

// State is the workflow position.
type State int

const (
	StateIdle State = iota
	StateConfirmPending
	StateConverting
	StateDone
	StateFailed
)

// ConvertFunc performs the backend call. api.Client.ConvertLead satisfies it
// through a small closure.
type ConvertFunc func(ctx context.Context, leadID int64, terms crm.ConversionTerms) error

// Workflow holds one conversion in flight.
type Workflow struct {
	state   State
	lead    crm.Lead
	terms   crm.ConversionTerms
	convert ConvertFunc
	errMsg  string
}

// New builds an idle workflow around the given backend call.
func New(convert ConvertFunc) *Workflow {
	return &Workflow{state: StateIdle, convert: convert}
}

// Select enters ConfirmPending for a lead, seeding provisional terms from the
// lead's own estimates. A zero probability means the lead carries no estimate
// and defaults to 50; an intended 0% can still be set explicitly via SetTerms
// before confirming.
func (w *Workflow) Select(lead crm.Lead) {
	w.lead = lead
	w.terms = crm.ConversionTerms{
		ExpectedRevenue:       lead.ExpectedRevenue,
		ConversionProbability: lead.ConversionProbability,
	}
	if w.terms.ConversionProbability == 0 {
		w.terms.ConversionProbability = crm.DefaultConversionProbability
	}
	w.state = StateConfirmPending
	w.errMsg = ""
}

// SetTerms overrides the provisional figures before confirmation.
func (w *Workflow) SetTerms(terms crm.ConversionTerms) {
	if w.state == StateConfirmPending {
		w.terms = terms
	}
}

// Cancel abandons a pending confirmation without any API call.
func (w *Workflow) Cancel() {
	if w.state == StateConfirmPending {
		w.state = StateIdle
	}
}

// Begin moves a pending confirmation into Converting and hands back the
// backend call to run. The closure captures the lead ID and terms by value,
// so a caller may run it on another goroutine and report the result through
// Finish without touching the workflow concurrently.
func (w *Workflow) Begin() (func(ctx context.Context) error, bool) {
	if w.state != StateConfirmPending {
		return nil, false
	}
	w.state = StateConverting
	leadID, terms, call := w.lead.ID, w.terms, w.convert
	return func(ctx context.Context) error {
		return call(ctx, leadID, terms)
	}, true
}

// Finish records the outcome of the call issued by Begin. On success the
// caller refreshes its lead collection; on failure only a generic message is
// surfaced.
func (w *Workflow) Finish(err error) {
	if w.state != StateConverting {
		return
	}
	if err != nil {
		w.state = StateFailed
		w.errMsg = "conversion failed, please try again"
		return
	}
	w.state = StateDone
}

// Confirm runs the conversion in one step. Interactive callers prefer
// Begin/Finish so the call stays off their event loop.
func (w *Workflow) Confirm(ctx context.Context) error {
	call, ok := w.Begin()
	if !ok {
		return nil
	}
	err := call(ctx)
	w.Finish(err)
	return err
}

// Reset returns a finished or failed workflow to Idle.
func (w *Workflow) Reset() {
	w.state = StateIdle
	w.errMsg = ""
}

// State returns the workflow position.
func (w *Workflow) State() State { return w.state }

// Lead returns the lead selected for conversion.
func (w *Workflow) Lead() crm.Lead { return w.lead }

// Terms returns the current provisional terms.
func (w *Workflow) Terms() crm.ConversionTerms { return w.terms }

// Err returns the user-facing message after a failed conversion.
func (w *Workflow) Err() string { return w.errMsg }
