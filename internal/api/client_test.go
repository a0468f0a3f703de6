package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmdesk/internal/crm"
	"crmdesk/internal/session"
)

func testSessions(t *testing.T) *session.Store {
	t.Helper()
	s, err := session.OpenPath(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	require.NoError(t, s.Save(session.Session{Role: session.RoleAdmin, Token: "test-token"}))
	return s
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]crm.Lead{})
	}))
	defer srv.Close()

	c := New(srv.URL, testSessions(t))
	_, err := c.ListLeads(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestLeadsReversedNewestFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]crm.Lead{{ID: 1}, {ID: 2}, {ID: 3}})
	}))
	defer srv.Close()

	c := New(srv.URL, testSessions(t))
	leads, err := c.ListLeads(context.Background())
	require.NoError(t, err)
	require.Len(t, leads, 3)
	assert.Equal(t, int64(3), leads[0].ID)
	assert.Equal(t, int64(1), leads[2].ID)
}

func TestSetBaseURLRepointsSubsequentRequests(t *testing.T) {
	old := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]crm.Lead{{ID: 1}})
	}))
	defer old.Close()
	next := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]crm.Lead{{ID: 2}})
	}))
	defer next.Close()

	c := New(old.URL, testSessions(t))
	leads, err := c.ListLeads(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), leads[0].ID)

	c.SetBaseURL(next.URL + "/")
	assert.Equal(t, next.URL, c.BaseURL())

	leads, err = c.ListLeads(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), leads[0].ID)
}

func TestUnauthorizedClearsSessionAndFiresHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sessions := testSessions(t)
	hooked := false
	c := New(srv.URL, sessions, WithUnauthorizedHook(func() { hooked = true }))

	_, err := c.ListLeads(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, hooked)
	assert.Nil(t, sessions.Current())
}

func TestForbiddenKeepsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	sessions := testSessions(t)
	c := New(srv.URL, sessions)

	_, err := c.ListCustomers(context.Background())
	require.ErrorIs(t, err, ErrForbidden)
	assert.NotNil(t, sessions.Current())
}

func TestServerErrorClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, testSessions(t))
	_, err := c.ListEmployees(context.Background())
	require.ErrorIs(t, err, ErrServer)
	assert.Equal(t, "server error, please try again later", Message(err))
}

func TestNetworkFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(srv.URL, testSessions(t))
	_, err := c.ListLeads(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "backend server is not available", Message(err))
}

func TestConvertLeadSendsTerms(t *testing.T) {
	var gotPath string
	var gotTerms crm.ConversionTerms
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotTerms))
		json.NewEncoder(w).Encode(crm.Opportunity{ID: 9, LeadID: 12})
	}))
	defer srv.Close()

	c := New(srv.URL, testSessions(t))
	opp, err := c.ConvertLead(context.Background(), 12, crm.ConversionTerms{
		ExpectedRevenue:       5000,
		ConversionProbability: 70,
	})
	require.NoError(t, err)
	assert.Equal(t, "/opportunities/from-lead/12", gotPath)
	assert.Equal(t, float64(5000), gotTerms.ExpectedRevenue)
	assert.Equal(t, float64(70), gotTerms.ConversionProbability)
	assert.Equal(t, int64(9), opp.ID)
}

func TestDashboardStatsTolerateFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/leads":
			json.NewEncoder(w).Encode([]crm.Lead{{ID: 1}, {ID: 2}})
		case "/customers":
			json.NewEncoder(w).Encode([]crm.Customer{{ID: 1}})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, testSessions(t))
	stats := c.DashboardStats(context.Background())
	assert.Equal(t, 2, stats.Leads)
	assert.Equal(t, 1, stats.Customers)
	assert.Equal(t, 0, stats.Opportunities, "failed fetch falls back to zero")
	assert.Equal(t, 0, stats.Employees)
}
