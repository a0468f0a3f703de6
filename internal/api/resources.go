package api

import (
	"context"
	"fmt"
	"net/http"

	"crmdesk/internal/crm"
)

// Leads

// ListLeads fetches active leads, newest first.
func (c *Client) ListLeads(ctx context.Context) ([]crm.Lead, error) {
	var leads []crm.Lead
	if err := c.do(ctx, http.MethodGet, "/leads", nil, &leads); err != nil {
		return nil, err
	}
	return reverse(leads), nil
}

func (c *Client) GetLead(ctx context.Context, id int64) (*crm.Lead, error) {
	var lead crm.Lead
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/leads/%d", id), nil, &lead); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (c *Client) CreateLead(ctx context.Context, lead crm.Lead) (*crm.Lead, error) {
	var created crm.Lead
	if err := c.do(ctx, http.MethodPost, "/leads", lead, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateLead(ctx context.Context, lead crm.Lead) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/leads/%d", lead.ID), lead, nil)
}

func (c *Client) DeleteLead(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/leads/%d", id), nil, nil)
}

// ConvertLead promotes a lead into an opportunity carrying the confirmed
// revenue and probability figures.
func (c *Client) ConvertLead(ctx context.Context, leadID int64, terms crm.ConversionTerms) (*crm.Opportunity, error) {
	var opp crm.Opportunity
	path := fmt.Sprintf("/opportunities/from-lead/%d", leadID)
	if err := c.do(ctx, http.MethodPost, path, terms, &opp); err != nil {
		return nil, err
	}
	return &opp, nil
}

// Opportunities

// ListOpportunities fetches active opportunities, newest first.
func (c *Client) ListOpportunities(ctx context.Context) ([]crm.Opportunity, error) {
	var opps []crm.Opportunity
	if err := c.do(ctx, http.MethodGet, "/opportunities", nil, &opps); err != nil {
		return nil, err
	}
	return reverse(opps), nil
}

func (c *Client) CreateOpportunity(ctx context.Context, opp crm.Opportunity) (*crm.Opportunity, error) {
	var created crm.Opportunity
	if err := c.do(ctx, http.MethodPost, "/opportunities", opp, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateOpportunity(ctx context.Context, opp crm.Opportunity) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/opportunities/%d", opp.ID), opp, nil)
}

func (c *Client) DeleteOpportunity(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/opportunities/%d", id), nil, nil)
}

// Customers

func (c *Client) ListCustomers(ctx context.Context) ([]crm.Customer, error) {
	var customers []crm.Customer
	if err := c.do(ctx, http.MethodGet, "/customers", nil, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/customers/%d", id), nil, nil)
}

// Employees

func (c *Client) ListEmployees(ctx context.Context) ([]crm.Employee, error) {
	var employees []crm.Employee
	if err := c.do(ctx, http.MethodGet, "/employees", nil, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// EmployeeNames fetches just the assignable names for form pickers.
func (c *Client) EmployeeNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.do(ctx, http.MethodGet, "/employees/names", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// Call logs and notes

func (c *Client) ListCallLogs(ctx context.Context, leadID, opportunityID int64) ([]crm.CallLog, error) {
	path := "/call-logs"
	switch {
	case leadID != 0:
		path = fmt.Sprintf("/call-logs/lead/%d", leadID)
	case opportunityID != 0:
		path = fmt.Sprintf("/call-logs/opportunity/%d", opportunityID)
	}
	var logs []crm.CallLog
	if err := c.do(ctx, http.MethodGet, path, nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *Client) CreateCallLog(ctx context.Context, log crm.CallLog) (*crm.CallLog, error) {
	var created crm.CallLog
	if err := c.do(ctx, http.MethodPost, "/call-logs", log, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateCallLog(ctx context.Context, log crm.CallLog) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/call-logs/%d", log.ID), log, nil)
}

func (c *Client) DeleteCallLog(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/call-logs/%d", id), nil, nil)
}

func (c *Client) ListNotes(ctx context.Context, leadID, opportunityID int64) ([]crm.Note, error) {
	path := "/notes"
	switch {
	case leadID != 0:
		path = fmt.Sprintf("/notes/lead/%d", leadID)
	case opportunityID != 0:
		path = fmt.Sprintf("/notes/opportunity/%d", opportunityID)
	}
	var notes []crm.Note
	if err := c.do(ctx, http.MethodGet, path, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) CreateNote(ctx context.Context, note crm.Note) (*crm.Note, error) {
	var created crm.Note
	if err := c.do(ctx, http.MethodPost, "/notes", note, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteNote(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/notes/%d", id), nil, nil)
}

// Tickets

func (c *Client) ListResolvedTickets(ctx context.Context) ([]crm.Ticket, error) {
	var tickets []crm.Ticket
	if err := c.do(ctx, http.MethodGet, "/resolved-tickets", nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (c *Client) CreateResolvedTicket(ctx context.Context, t crm.Ticket) (*crm.Ticket, error) {
	var created crm.Ticket
	if err := c.do(ctx, http.MethodPost, "/resolved-tickets", t, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Recycle bin

// RecycleBin holds soft-deleted leads and opportunities.
type RecycleBin struct {
	Leads         []crm.Lead        `json:"leads"`
	Opportunities []crm.Opportunity `json:"opportunities"`
}

func (c *Client) ListRecycleBin(ctx context.Context) (*RecycleBin, error) {
	var bin RecycleBin
	if err := c.do(ctx, http.MethodGet, "/recycle-bin", nil, &bin); err != nil {
		return nil, err
	}
	return &bin, nil
}

// RestoreLead moves a soft-deleted lead back to the active list.
func (c *Client) RestoreLead(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/recycle-bin/leads/%d/restore", id), nil, nil)
}

func (c *Client) RestoreOpportunity(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/recycle-bin/opportunities/%d/restore", id), nil, nil)
}

// PurgeLead permanently removes a soft-deleted lead.
func (c *Client) PurgeLead(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/recycle-bin/leads/%d", id), nil, nil)
}

func (c *Client) PurgeOpportunity(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/recycle-bin/opportunities/%d", id), nil, nil)
}
