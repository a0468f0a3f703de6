package crm

import (
	"crmdesk/internal/export"
	"crmdesk/internal/form"
)

// Per-entity view configuration. Search, forms, and export all read from the
// same definitions instead of keeping private per-screen field lists.

// SearchText returns the stringified fields the lead list matches against.
func (l Lead) SearchText() []string {
	return []string{
		l.Name, l.Phone, l.Email, l.Source, l.AssignedTo,
		FormatCurrency(l.ExpectedRevenue),
	}
}

func (o Opportunity) SearchText() []string {
	return []string{
		o.Name, o.Phone, o.Email, o.Source, o.AssignedTo,
		FormatCurrency(o.ExpectedRevenue),
	}
}

func (c Customer) SearchText() []string {
	return []string{c.Name, c.Phone, c.Email, c.Address, c.Company}
}

func (e Employee) SearchText() []string {
	return []string{e.Name, e.Email, e.Phone, e.Role}
}

func (t Ticket) SearchText() []string {
	return []string{t.Customer, t.Subject, t.Resolution}
}

// LeadFormFields lists the lead create/edit fields in entry order.
func LeadFormFields() []form.Field {
	return []form.Field{
		{Name: "name", Label: "Name", Required: true},
		{Name: "phone", Label: "Phone", Required: true},
		{Name: "email", Label: "Email", Required: true},
		{Name: "source", Label: "Source", Required: true},
		{Name: "assignedTo", Label: "Assigned to", Required: true},
		{Name: "expectedRevenue", Label: "Expected revenue"},
		{Name: "conversionProbability", Label: "Conversion probability (%)"},
	}
}

// OpportunityFormFields lists the opportunity create/edit fields.
func OpportunityFormFields() []form.Field {
	return []form.Field{
		{Name: "name", Label: "Name", Required: true},
		{Name: "phone", Label: "Phone", Required: true},
		{Name: "email", Label: "Email", Required: true},
		{Name: "source", Label: "Source", Required: true},
		{Name: "assignedTo", Label: "Assigned to", Required: true},
		{Name: "expectedRevenue", Label: "Expected revenue"},
		{Name: "conversionProbability", Label: "Conversion probability (%)"},
	}
}

// LeadColumns defines the export layout for leads.
func LeadColumns() []export.Column[Lead] {
	return []export.Column[Lead]{
		{Header: "ID", Value: func(l Lead) string { return FormatID(l.ID) }},
		{Header: "Name", Value: func(l Lead) string { return l.Name }},
		{Header: "Phone", Value: func(l Lead) string { return l.Phone }},
		{Header: "Email", Value: func(l Lead) string { return l.Email }},
		{Header: "Source", Value: func(l Lead) string { return l.Source }},
		{Header: "Assigned To", Value: func(l Lead) string { return l.AssignedTo }},
		{Header: "Expected Revenue", Value: func(l Lead) string { return FormatCurrency(l.ExpectedRevenue) }},
		{Header: "Conversion Probability", Value: func(l Lead) string { return FormatPercent(l.ConversionProbability) }},
		{Header: "Created", Value: func(l Lead) string { return FormatDate(l.CreatedAt) }},
	}
}

// OpportunityColumns defines the export layout for opportunities.
func OpportunityColumns() []export.Column[Opportunity] {
	return []export.Column[Opportunity]{
		{Header: "ID", Value: func(o Opportunity) string { return FormatID(o.ID) }},
		{Header: "Name", Value: func(o Opportunity) string { return o.Name }},
		{Header: "Phone", Value: func(o Opportunity) string { return o.Phone }},
		{Header: "Email", Value: func(o Opportunity) string { return o.Email }},
		{Header: "Source", Value: func(o Opportunity) string { return o.Source }},
		{Header: "Assigned To", Value: func(o Opportunity) string { return o.AssignedTo }},
		{Header: "Expected Revenue", Value: func(o Opportunity) string { return FormatCurrency(o.ExpectedRevenue) }},
		{Header: "Conversion Probability", Value: func(o Opportunity) string { return FormatPercent(o.ConversionProbability) }},
		{Header: "Quotation", Value: func(o Opportunity) string { return FormatID(o.QuotationID) }},
		{Header: "Created", Value: func(o Opportunity) string { return FormatDate(o.CreatedAt) }},
	}
}

// CustomerColumns defines the export layout for customers.
func CustomerColumns() []export.Column[Customer] {
	return []export.Column[Customer]{
		{Header: "ID", Value: func(c Customer) string { return FormatID(c.ID) }},
		{Header: "Name", Value: func(c Customer) string { return c.Name }},
		{Header: "Phone", Value: func(c Customer) string { return c.Phone }},
		{Header: "Email", Value: func(c Customer) string { return c.Email }},
		{Header: "Address", Value: func(c Customer) string { return c.Address }},
		{Header: "Company", Value: func(c Customer) string { return c.Company }},
		{Header: "Created", Value: func(c Customer) string { return FormatDate(c.CreatedAt) }},
	}
}

// EmployeeColumns defines the export layout for employees.
func EmployeeColumns() []export.Column[Employee] {
	return []export.Column[Employee]{
		{Header: "ID", Value: func(e Employee) string { return FormatID(e.ID) }},
		{Header: "Name", Value: func(e Employee) string { return e.Name }},
		{Header: "Email", Value: func(e Employee) string { return e.Email }},
		{Header: "Phone", Value: func(e Employee) string { return e.Phone }},
		{Header: "Role", Value: func(e Employee) string { return e.Role }},
	}
}

// TicketColumns defines the export layout for resolved tickets.
func TicketColumns() []export.Column[Ticket] {
	return []export.Column[Ticket]{
		{Header: "ID", Value: func(t Ticket) string { return FormatID(t.ID) }},
		{Header: "Customer", Value: func(t Ticket) string { return t.Customer }},
		{Header: "Subject", Value: func(t Ticket) string { return t.Subject }},
		{Header: "Resolution", Value: func(t Ticket) string { return t.Resolution }},
		{Header: "Resolved", Value: func(t Ticket) string { return FormatDate(t.ResolvedAt) }},
	}
}

// LeadFromValues builds a lead from submitted form values over a base record.
func LeadFromValues(base Lead, values map[string]string) Lead {
	l := base
	l.Name = values["name"]
	l.Phone = values["phone"]
	l.Email = values["email"]
	l.Source = values["source"]
	l.AssignedTo = values["assignedTo"]
	l.ExpectedRevenue = parseAmount(values["expectedRevenue"])
	l.ConversionProbability = parseAmount(values["conversionProbability"])
	return l
}

// LeadValues flattens a lead into form values for editing.
func LeadValues(l Lead) map[string]string {
	return map[string]string{
		"name":                  l.Name,
		"phone":                 l.Phone,
		"email":                 l.Email,
		"source":                l.Source,
		"assignedTo":            l.AssignedTo,
		"expectedRevenue":       trimZero(l.ExpectedRevenue),
		"conversionProbability": trimZero(l.ConversionProbability),
	}
}

// OpportunityFromValues builds an opportunity from submitted form values.
func OpportunityFromValues(base Opportunity, values map[string]string) Opportunity {
	o := base
	o.Name = values["name"]
	o.Phone = values["phone"]
	o.Email = values["email"]
	o.Source = values["source"]
	o.AssignedTo = values["assignedTo"]
	o.ExpectedRevenue = parseAmount(values["expectedRevenue"])
	o.ConversionProbability = parseAmount(values["conversionProbability"])
	return o
}

// OpportunityValues flattens an opportunity into form values for editing.
func OpportunityValues(o Opportunity) map[string]string {
	return map[string]string{
		"name":                  o.Name,
		"phone":                 o.Phone,
		"email":                 o.Email,
		"source":                o.Source,
		"assignedTo":            o.AssignedTo,
		"expectedRevenue":       trimZero(o.ExpectedRevenue),
		"conversionProbability": trimZero(o.ConversionProbability),
	}
}
