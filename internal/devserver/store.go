package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"crmdesk/internal/crm"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store wraps the SQLite database backing the dev server.
type Store struct {
	db *sqlx.DB
}

// OpenStore bootstraps the store at path; ":memory:" gives a throwaway DB.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if strings.Contains(path, ":memory:") {
		// each pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases DB resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS leads (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            source TEXT NOT NULL DEFAULT '',
            assigned_to TEXT NOT NULL DEFAULT '',
            expected_revenue REAL NOT NULL DEFAULT 0,
            conversion_probability REAL NOT NULL DEFAULT 0,
            converted INTEGER NOT NULL DEFAULT 0,
            deleted INTEGER NOT NULL DEFAULT 0,
            created_at DATETIME NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS opportunities (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            source TEXT NOT NULL DEFAULT '',
            assigned_to TEXT NOT NULL DEFAULT '',
            expected_revenue REAL NOT NULL DEFAULT 0,
            conversion_probability REAL NOT NULL DEFAULT 0,
            quotation_id INTEGER NOT NULL DEFAULT 0,
            lead_id INTEGER NOT NULL DEFAULT 0,
            deleted INTEGER NOT NULL DEFAULT 0,
            created_at DATETIME NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS customers (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            phone TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            address TEXT NOT NULL DEFAULT '',
            company TEXT NOT NULL DEFAULT '',
            created_at DATETIME NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS employees (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            email TEXT NOT NULL DEFAULT '',
            phone TEXT NOT NULL DEFAULT '',
            role TEXT NOT NULL DEFAULT '',
            created_at DATETIME NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS call_logs (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            lead_id INTEGER NOT NULL DEFAULT 0,
            opportunity_id INTEGER NOT NULL DEFAULT 0,
            subject TEXT NOT NULL DEFAULT '',
            notes TEXT NOT NULL DEFAULT '',
            call_time DATETIME NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS notes (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            lead_id INTEGER NOT NULL DEFAULT 0,
            opportunity_id INTEGER NOT NULL DEFAULT 0,
            content TEXT NOT NULL,
            creator TEXT NOT NULL DEFAULT '',
            created_at DATETIME NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS tickets (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            customer TEXT NOT NULL DEFAULT '',
            subject TEXT NOT NULL DEFAULT '',
            resolution TEXT NOT NULL DEFAULT '',
            resolved_at DATETIME NOT NULL
        );`,
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migrations: %w", err)
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("migrate: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}

// Leads

func (s *Store) ListLeads(ctx context.Context, deleted bool) ([]crm.Lead, error) {
	leads := []crm.Lead{}
	err := s.db.SelectContext(ctx, &leads,
		`SELECT * FROM leads WHERE deleted = ? AND converted = 0 ORDER BY id`, deleted)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	return leads, nil
}

func (s *Store) GetLead(ctx context.Context, id int64) (*crm.Lead, error) {
	var lead crm.Lead
	err := s.db.GetContext(ctx, &lead, `SELECT * FROM leads WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return &lead, nil
}

func (s *Store) CreateLead(ctx context.Context, lead *crm.Lead) error {
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.NamedExecContext(ctx,
		`INSERT INTO leads (name, phone, email, source, assigned_to, expected_revenue, conversion_probability, converted, deleted, created_at)
         VALUES (:name, :phone, :email, :source, :assigned_to, :expected_revenue, :conversion_probability, 0, 0, :created_at)`, lead)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	lead.ID, _ = res.LastInsertId()
	return nil
}

func (s *Store) UpdateLead(ctx context.Context, lead *crm.Lead) error {
	res, err := s.db.NamedExecContext(ctx,
		`UPDATE leads SET name = :name, phone = :phone, email = :email, source = :source,
            assigned_to = :assigned_to, expected_revenue = :expected_revenue,
            conversion_probability = :conversion_probability
         WHERE id = :id`, lead)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	return requireRow(res)
}

func (s *Store) SetLeadDeleted(ctx context.Context, id int64, deleted bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE leads SET deleted = ? WHERE id = ?`, deleted, id)
	if err != nil {
		return fmt.Errorf("flag lead: %w", err)
	}
	return requireRow(res)
}

func (s *Store) PurgeLead(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM leads WHERE id = ? AND deleted = 1`, id)
	if err != nil {
		return fmt.Errorf("purge lead: %w", err)
	}
	return requireRow(res)
}

// ConvertLead marks the lead converted and inserts the opportunity carrying
// the confirmed terms, inside one transaction.
func (s *Store) ConvertLead(ctx context.Context, id int64, terms crm.ConversionTerms) (*crm.Opportunity, error) {
	lead, err := s.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin conversion: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE leads SET converted = 1 WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("mark converted: %w", err)
	}
	opp := crm.Opportunity{
		Name:                  lead.Name,
		Phone:                 lead.Phone,
		Email:                 lead.Email,
		Source:                lead.Source,
		AssignedTo:            lead.AssignedTo,
		ExpectedRevenue:       terms.ExpectedRevenue,
		ConversionProbability: terms.ConversionProbability,
		LeadID:                lead.ID,
		CreatedAt:             time.Now().UTC(),
	}
	res, err := tx.NamedExecContext(ctx,
		`INSERT INTO opportunities (name, phone, email, source, assigned_to, expected_revenue, conversion_probability, quotation_id, lead_id, deleted, created_at)
         VALUES (:name, :phone, :email, :source, :assigned_to, :expected_revenue, :conversion_probability, 0, :lead_id, 0, :created_at)`, opp)
	if err != nil {
		return nil, fmt.Errorf("insert opportunity: %w", err)
	}
	opp.ID, _ = res.LastInsertId()
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit conversion: %w", err)
	}
	return &opp, nil
}

// Opportunities

func (s *Store) ListOpportunities(ctx context.Context, deleted bool) ([]crm.Opportunity, error) {
	opps := []crm.Opportunity{}
	err := s.db.SelectContext(ctx, &opps,
		`SELECT * FROM opportunities WHERE deleted = ? ORDER BY id`, deleted)
	if err != nil {
		return nil, fmt.Errorf("query opportunities: %w", err)
	}
	return opps, nil
}

func (s *Store) CreateOpportunity(ctx context.Context, opp *crm.Opportunity) error {
	if opp.CreatedAt.IsZero() {
		opp.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.NamedExecContext(ctx,
		`INSERT INTO opportunities (name, phone, email, source, assigned_to, expected_revenue, conversion_probability, quotation_id, lead_id, deleted, created_at)
         VALUES (:name, :phone, :email, :source, :assigned_to, :expected_revenue, :conversion_probability, :quotation_id, :lead_id, 0, :created_at)`, opp)
	if err != nil {
		return fmt.Errorf("insert opportunity: %w", err)
	}
	opp.ID, _ = res.LastInsertId()
	return nil
}

func (s *Store) UpdateOpportunity(ctx context.Context, opp *crm.Opportunity) error {
	res, err := s.db.NamedExecContext(ctx,
		`UPDATE opportunities SET name = :name, phone = :phone, email = :email, source = :source,
            assigned_to = :assigned_to, expected_revenue = :expected_revenue,
            conversion_probability = :conversion_probability, quotation_id = :quotation_id
         WHERE id = :id`, opp)
	if err != nil {
		return fmt.Errorf("update opportunity: %w", err)
	}
	return requireRow(res)
}

func (s *Store) SetOpportunityDeleted(ctx context.Context, id int64, deleted bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE opportunities SET deleted = ? WHERE id = ?`, deleted, id)
	if err != nil {
		return fmt.Errorf("flag opportunity: %w", err)
	}
	return requireRow(res)
}

func (s *Store) PurgeOpportunity(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM opportunities WHERE id = ? AND deleted = 1`, id)
	if err != nil {
		return fmt.Errorf("purge opportunity: %w", err)
	}
	return requireRow(res)
}

// Customers and employees

func (s *Store) ListCustomers(ctx context.Context) ([]crm.Customer, error) {
	customers := []crm.Customer{}
	if err := s.db.SelectContext(ctx, &customers, `SELECT * FROM customers ORDER BY name COLLATE NOCASE`); err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	return customers, nil
}

func (s *Store) CreateCustomer(ctx context.Context, c *crm.Customer) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.NamedExecContext(ctx,
		`INSERT INTO customers (name, phone, email, address, company, created_at)
         VALUES (:name, :phone, :email, :address, :company, :created_at)`, c)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	c.ID, _ = res.LastInsertId()
	return nil
}

func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	return requireRow(res)
}

func (s *Store) ListEmployees(ctx context.Context) ([]crm.Employee, error) {
	employees := []crm.Employee{}
	if err := s.db.SelectContext(ctx, &employees, `SELECT * FROM employees ORDER BY name COLLATE NOCASE`); err != nil {
		return nil, fmt.Errorf("query employees: %w", err)
	}
	return employees, nil
}

func (s *Store) CreateEmployee(ctx context.Context, e *crm.Employee) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.NamedExecContext(ctx,
		`INSERT INTO employees (name, email, phone, role, created_at)
         VALUES (:name, :email, :phone, :role, :created_at)`, e)
	if err != nil {
		return fmt.Errorf("insert employee: %w", err)
	}
	e.ID, _ = res.LastInsertId()
	return nil
}

func (s *Store) EmployeeNames(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := s.db.SelectContext(ctx, &names, `SELECT name FROM employees ORDER BY name COLLATE NOCASE`); err != nil {
		return nil, fmt.Errorf("query employee names: %w", err)
	}
	return names, nil
}

// Call logs. call_time is stored as a native timestamp; the 5-int wire form
// exists only at the HTTP boundary.

type callLogRow struct {
	ID            int64     `db:"id"`
	LeadID        int64     `db:"lead_id"`
	OpportunityID int64     `db:"opportunity_id"`
	Subject       string    `db:"subject"`
	Notes         string    `db:"notes"`
	CallTime      time.Time `db:"call_time"`
}

func (r callLogRow) toCallLog() crm.CallLog {
	return crm.CallLog{
		ID:            r.ID,
		LeadID:        r.LeadID,
		OpportunityID: r.OpportunityID,
		Subject:       r.Subject,
		Notes:         r.Notes,
		CallTime:      crm.NewCallTimestamp(r.CallTime.UTC()),
	}
}

func (s *Store) ListCallLogs(ctx context.Context, leadID, opportunityID int64) ([]crm.CallLog, error) {
	query := `SELECT * FROM call_logs ORDER BY call_time DESC`
	args := []any{}
	switch {
	case leadID != 0:
		query = `SELECT * FROM call_logs WHERE lead_id = ? ORDER BY call_time DESC`
		args = append(args, leadID)
	case opportunityID != 0:
		query = `SELECT * FROM call_logs WHERE opportunity_id = ? ORDER BY call_time DESC`
		args = append(args, opportunityID)
	}
	rows := []callLogRow{}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query call logs: %w", err)
	}
	logs := make([]crm.CallLog, len(rows))
	for i, r := range rows {
		logs[i] = r.toCallLog()
	}
	return logs, nil
}

func (s *Store) CreateCallLog(ctx context.Context, log *crm.CallLog) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO call_logs (lead_id, opportunity_id, subject, notes, call_time) VALUES (?, ?, ?, ?, ?)`,
		log.LeadID, log.OpportunityID, log.Subject, log.Notes, log.CallTime.Time(time.UTC))
	if err != nil {
		return fmt.Errorf("insert call log: %w", err)
	}
	log.ID, _ = res.LastInsertId()
	return nil
}

func (s *Store) UpdateCallLog(ctx context.Context, log *crm.CallLog) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE call_logs SET subject = ?, notes = ?, call_time = ? WHERE id = ?`,
		log.Subject, log.Notes, log.CallTime.Time(time.UTC), log.ID)
	if err != nil {
		return fmt.Errorf("update call log: %w", err)
	}
	return requireRow(res)
}

func (s *Store) DeleteCallLog(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM call_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete call log: %w", err)
	}
	return requireRow(res)
}

// Notes

func (s *Store) ListNotes(ctx context.Context, leadID, opportunityID int64) ([]crm.Note, error) {
	query := `SELECT * FROM notes ORDER BY created_at DESC`
	args := []any{}
	switch {
	case leadID != 0:
		query = `SELECT * FROM notes WHERE lead_id = ? ORDER BY created_at DESC`
		args = append(args, leadID)
	case opportunityID != 0:
		query = `SELECT * FROM notes WHERE opportunity_id = ? ORDER BY created_at DESC`
		args = append(args, opportunityID)
	}
	notes := []crm.Note{}
	if err := s.db.SelectContext(ctx, &notes, query, args...); err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	return notes, nil
}

func (s *Store) CreateNote(ctx context.Context, note *crm.Note) error {
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.NamedExecContext(ctx,
		`INSERT INTO notes (lead_id, opportunity_id, content, creator, created_at)
         VALUES (:lead_id, :opportunity_id, :content, :creator, :created_at)`, note)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	note.ID, _ = res.LastInsertId()
	return nil
}

func (s *Store) DeleteNote(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return requireRow(res)
}

// Tickets

func (s *Store) ListTickets(ctx context.Context) ([]crm.Ticket, error) {
	tickets := []crm.Ticket{}
	if err := s.db.SelectContext(ctx, &tickets, `SELECT * FROM tickets ORDER BY resolved_at DESC`); err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	return tickets, nil
}

func (s *Store) CreateTicket(ctx context.Context, t *crm.Ticket) error {
	if t.ResolvedAt.IsZero() {
		t.ResolvedAt = time.Now().UTC()
	}
	res, err := s.db.NamedExecContext(ctx,
		`INSERT INTO tickets (customer, subject, resolution, resolved_at)
         VALUES (:customer, :subject, :resolution, :resolved_at)`, t)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	t.ID, _ = res.LastInsertId()
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
