package devserver

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmdesk/internal/api"
	"crmdesk/internal/crm"
	"crmdesk/internal/session"
)

// harness boots the dev backend in-process and returns a logged-in client.
func harness(t *testing.T) (*api.Client, *Store) {
	t.Helper()
	ctx := context.Background()

	store, err := OpenStore(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := httptest.NewServer(New(store, nil))
	t.Cleanup(srv.Close)

	sessions, err := session.OpenPath(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	client := api.New(srv.URL+"/api", sessions)
	require.NoError(t, client.Login(ctx, session.RoleAdmin, "admin", "admin"))
	return client, store
}

func TestHealthIsOpen(t *testing.T) {
	ctx := context.Background()
	store, err := OpenStore(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	srv := httptest.NewServer(New(store, nil))
	defer srv.Close()

	sessions, err := session.OpenPath(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	client := api.New(srv.URL+"/api", sessions)
	assert.NoError(t, client.Health(ctx), "health must not require auth")
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	ctx := context.Background()
	store, err := OpenStore(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	srv := httptest.NewServer(New(store, nil))
	defer srv.Close()

	sessions, err := session.OpenPath(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	client := api.New(srv.URL+"/api", sessions)

	_, err = client.ListLeads(ctx)
	require.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestLeadLifecycle(t *testing.T) {
	ctx := context.Background()
	client, _ := harness(t)

	created, err := client.CreateLead(ctx, crm.Lead{
		Name: "Acme", Phone: "555-1", Email: "a@acme.io", Source: "Web", AssignedTo: "Dana",
		ExpectedRevenue: 900,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	created.Phone = "555-2"
	require.NoError(t, client.UpdateLead(ctx, *created))

	got, err := client.GetLead(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "555-2", got.Phone)

	leads, err := client.ListLeads(ctx)
	require.NoError(t, err)
	assert.Len(t, leads, 1)

	// soft delete moves it to the recycle bin
	require.NoError(t, client.DeleteLead(ctx, created.ID))
	leads, err = client.ListLeads(ctx)
	require.NoError(t, err)
	assert.Empty(t, leads)

	bin, err := client.ListRecycleBin(ctx)
	require.NoError(t, err)
	require.Len(t, bin.Leads, 1)

	// restore brings it back
	require.NoError(t, client.RestoreLead(ctx, created.ID))
	leads, err = client.ListLeads(ctx)
	require.NoError(t, err)
	assert.Len(t, leads, 1)

	// purge is permanent
	require.NoError(t, client.DeleteLead(ctx, created.ID))
	require.NoError(t, client.PurgeLead(ctx, created.ID))
	bin, err = client.ListRecycleBin(ctx)
	require.NoError(t, err)
	assert.Empty(t, bin.Leads)
}

func TestConversionRemovesLeadFromActiveList(t *testing.T) {
	ctx := context.Background()
	client, _ := harness(t)

	lead, err := client.CreateLead(ctx, crm.Lead{
		Name: "Globex", Phone: "555-3", Email: "g@globex.com", Source: "Referral", AssignedTo: "Ravi",
		ExpectedRevenue: 5000, ConversionProbability: 70,
	})
	require.NoError(t, err)

	opp, err := client.ConvertLead(ctx, lead.ID, crm.ConversionTerms{
		ExpectedRevenue: 5000, ConversionProbability: 70,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(5000), opp.ExpectedRevenue)
	assert.Equal(t, float64(70), opp.ConversionProbability)
	assert.Equal(t, lead.ID, opp.LeadID)

	leads, err := client.ListLeads(ctx)
	require.NoError(t, err)
	assert.Empty(t, leads, "converted lead leaves the active list")

	opps, err := client.ListOpportunities(ctx)
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, "Globex", opps[0].Name)
}

func TestCallLogTimestampRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, _ := harness(t)

	lead, err := client.CreateLead(ctx, crm.Lead{Name: "Initech", Phone: "1", Email: "i@i.io", Source: "Web", AssignedTo: "Dana"})
	require.NoError(t, err)

	want := crm.CallTimestamp{Year: 2026, Month: 8, Day: 14, Hour: 9, Minute: 30}
	created, err := client.CreateCallLog(ctx, crm.CallLog{
		LeadID:   lead.ID,
		Subject:  "Intro call",
		Notes:    "left voicemail",
		CallTime: want,
	})
	require.NoError(t, err)
	assert.Equal(t, want, created.CallTime)

	logs, err := client.ListCallLogs(ctx, lead.ID, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, want, logs[0].CallTime)
	assert.Equal(t, "Intro call", logs[0].Subject)
}

func TestNotesAndTickets(t *testing.T) {
	ctx := context.Background()
	client, _ := harness(t)

	lead, err := client.CreateLead(ctx, crm.Lead{Name: "N", Phone: "1", Email: "n@n.io", Source: "Web", AssignedTo: "Dana"})
	require.NoError(t, err)

	note, err := client.CreateNote(ctx, crm.Note{LeadID: lead.ID, Content: "called twice", Creator: "dana"})
	require.NoError(t, err)
	require.NotZero(t, note.ID)

	notes, err := client.ListNotes(ctx, lead.ID, 0)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "called twice", notes[0].Content)

	require.NoError(t, client.DeleteNote(ctx, note.ID))
	notes, err = client.ListNotes(ctx, lead.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, notes)

	_, err = client.CreateResolvedTicket(ctx, crm.Ticket{
		Customer: "Meridian", Subject: "Login issue", Resolution: "Reset password",
		ResolvedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	tickets, err := client.ListResolvedTickets(ctx)
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
}

func TestSeedPopulates(t *testing.T) {
	ctx := context.Background()
	client, store := harness(t)

	require.NoError(t, Seed(ctx, store))

	stats := client.DashboardStats(ctx)
	assert.Equal(t, 3, stats.Leads)
	assert.Equal(t, 3, stats.Employees)
	assert.Equal(t, 2, stats.Customers)

	names, err := client.EmployeeNames(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "Dana Cole")
}
