package crm

import "time"

// Lead is a prospective customer record.
type Lead struct {
	ID                    int64     `json:"id" db:"id"`
	Name                  string    `json:"name" db:"name"`
	Phone                 string    `json:"phone" db:"phone"`
	Email                 string    `json:"email" db:"email"`
	Source                string    `json:"source" db:"source"`
	AssignedTo            string    `json:"assignedTo" db:"assigned_to"`
	ExpectedRevenue       float64   `json:"expectedRevenue" db:"expected_revenue"`
	ConversionProbability float64   `json:"conversionProbability" db:"conversion_probability"`
	Converted             bool      `json:"converted" db:"converted"`
	Deleted               bool      `json:"deleted" db:"deleted"`
	CreatedAt             time.Time `json:"createdAt" db:"created_at"`
}

// Opportunity is a lead promoted into an active sales pursuit.
type Opportunity struct {
	ID                    int64     `json:"id" db:"id"`
	Name                  string    `json:"name" db:"name"`
	Phone                 string    `json:"phone" db:"phone"`
	Email                 string    `json:"email" db:"email"`
	Source                string    `json:"source" db:"source"`
	AssignedTo            string    `json:"assignedTo" db:"assigned_to"`
	ExpectedRevenue       float64   `json:"expectedRevenue" db:"expected_revenue"`
	ConversionProbability float64   `json:"conversionProbability" db:"conversion_probability"`
	QuotationID           int64     `json:"quotationId,omitempty" db:"quotation_id"`
	LeadID                int64     `json:"leadId,omitempty" db:"lead_id"`
	Deleted               bool      `json:"deleted" db:"deleted"`
	CreatedAt             time.Time `json:"createdAt" db:"created_at"`
}

// Customer is an account that has completed at least one sale.
type Customer struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	Email     string    `json:"email" db:"email"`
	Address   string    `json:"address" db:"address"`
	Company   string    `json:"company" db:"company"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Employee is a staff member leads and opportunities are assigned to.
type Employee struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CallLog records a phone interaction against a lead or an opportunity.
// Exactly one of LeadID/OpportunityID is set.
type CallLog struct {
	ID            int64         `json:"id" db:"id"`
	LeadID        int64         `json:"leadId,omitempty" db:"lead_id"`
	OpportunityID int64         `json:"opportunityId,omitempty" db:"opportunity_id"`
	Subject       string        `json:"subject" db:"subject"`
	Notes         string        `json:"notes" db:"notes"`
	CallTime      CallTimestamp `json:"callTime" db:"-"`
}

// Note is a free-form note against a lead or an opportunity.
type Note struct {
	ID            int64     `json:"id" db:"id"`
	LeadID        int64     `json:"leadId,omitempty" db:"lead_id"`
	OpportunityID int64     `json:"opportunityId,omitempty" db:"opportunity_id"`
	Content       string    `json:"content" db:"content"`
	Creator       string    `json:"creator" db:"creator"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}

// Ticket is a resolved support ticket.
type Ticket struct {
	ID         int64     `json:"id" db:"id"`
	Customer   string    `json:"customer" db:"customer"`
	Subject    string    `json:"subject" db:"subject"`
	Resolution string    `json:"resolution" db:"resolution"`
	ResolvedAt time.Time `json:"resolvedAt" db:"resolved_at"`
}

// ConversionTerms carries the figures confirmed when promoting a lead.
type ConversionTerms struct {
	ExpectedRevenue       float64 `json:"expectedRevenue"`
	ConversionProbability float64 `json:"conversionProbability"`
}

// DefaultConversionProbability is assumed when a lead carries no estimate.
const DefaultConversionProbability = 50
