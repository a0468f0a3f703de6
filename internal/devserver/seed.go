package devserver

import (
	"context"
	"fmt"
	"time"

	"crmdesk/internal/crm"
)

// Seed loads a small demo dataset so a fresh database has something to show.
func Seed(ctx context.Context, s *Store) error {
	leads := []crm.Lead{
		{Name: "Harriet Vane", Phone: "555-0101", Email: "harriet@meridian.example", Source: "Referral", AssignedTo: "Dana Cole", ExpectedRevenue: 12000, ConversionProbability: 60},
		{Name: "Tom Okafor", Phone: "555-0102", Email: "tom@brightline.example", Source: "Web", AssignedTo: "Ravi Patel", ExpectedRevenue: 4500},
		{Name: "Mei Lindqvist", Phone: "555-0103", Email: "mei@northglass.example", Source: "Trade show", AssignedTo: "Dana Cole", ExpectedRevenue: 30000, ConversionProbability: 80},
	}
	for i := range leads {
		if err := s.CreateLead(ctx, &leads[i]); err != nil {
			return fmt.Errorf("seed leads: %w", err)
		}
	}

	employees := []crm.Employee{
		{Name: "Dana Cole", Email: "dana@crm.example", Phone: "555-0201", Role: "Sales"},
		{Name: "Ravi Patel", Email: "ravi@crm.example", Phone: "555-0202", Role: "Sales"},
		{Name: "Iris Moreno", Email: "iris@crm.example", Phone: "555-0203", Role: "Support"},
	}
	for i := range employees {
		if err := s.CreateEmployee(ctx, &employees[i]); err != nil {
			return fmt.Errorf("seed employees: %w", err)
		}
	}

	customers := []crm.Customer{
		{Name: "Meridian Foods", Phone: "555-0301", Email: "ops@meridian.example", Address: "12 Canal St", Company: "Meridian Foods Ltd"},
		{Name: "Northglass", Phone: "555-0302", Email: "hello@northglass.example", Address: "4 Harbour Way", Company: "Northglass AB"},
	}
	for i := range customers {
		if err := s.CreateCustomer(ctx, &customers[i]); err != nil {
			return fmt.Errorf("seed customers: %w", err)
		}
	}

	tickets := []crm.Ticket{
		{Customer: "Meridian Foods", Subject: "Invoice mismatch", Resolution: "Reissued corrected invoice", ResolvedAt: time.Now().Add(-48 * time.Hour)},
	}
	for i := range tickets {
		if err := s.CreateTicket(ctx, &tickets[i]); err != nil {
			return fmt.Errorf("seed tickets: %w", err)
		}
	}
	return nil
}
