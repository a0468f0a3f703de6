package api

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Stats are the headline counts on the dashboard.
type Stats struct {
	Leads         int
	Opportunities int
	Customers     int
	Employees     int
}

// DashboardStats fans out the four collection fetches concurrently and joins
// when all complete. An individual failure substitutes a zero count instead
// of failing the whole join.
func (c *Client) DashboardStats(ctx context.Context) Stats {
	var stats Stats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if leads, err := c.ListLeads(ctx); err == nil {
			stats.Leads = len(leads)
		}
		return nil
	})
	g.Go(func() error {
		if opps, err := c.ListOpportunities(ctx); err == nil {
			stats.Opportunities = len(opps)
		}
		return nil
	})
	g.Go(func() error {
		if customers, err := c.ListCustomers(ctx); err == nil {
			stats.Customers = len(customers)
		}
		return nil
	})
	g.Go(func() error {
		if employees, err := c.ListEmployees(ctx); err == nil {
			stats.Employees = len(employees)
		}
		return nil
	})

	_ = g.Wait()
	return stats
}
