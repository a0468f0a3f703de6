// Package devserver is a self-contained CRM backend for local demos and
// integration tests. It speaks the same REST surface the client consumes,
// backed by a throwaway SQLite database. It is a development double, not a
// production server.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"crmdesk/internal/crm"
	"crmdesk/internal/session"
)

// tokenTTL bounds how long an issued bearer token stays valid.
const tokenTTL = 12 * time.Hour

// Server routes the REST API over a Store.
type Server struct {
	store  *Store
	log    *zap.Logger
	router *mux.Router

	mu     sync.Mutex
	tokens map[string]issuedToken
}

type issuedToken struct {
	role    session.Role
	expires time.Time
}

// New wires the router. A nil logger is replaced with a no-op one.
func New(store *Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		store:  store,
		log:    log,
		tokens: map[string]issuedToken{},
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.requireToken)

	authed.HandleFunc("/leads", s.handleListLeads).Methods(http.MethodGet)
	authed.HandleFunc("/leads", s.handleCreateLead).Methods(http.MethodPost)
	authed.HandleFunc("/leads/{id}", s.handleGetLead).Methods(http.MethodGet)
	authed.HandleFunc("/leads/{id}", s.handleUpdateLead).Methods(http.MethodPut)
	authed.HandleFunc("/leads/{id}", s.handleDeleteLead).Methods(http.MethodDelete)

	authed.HandleFunc("/opportunities", s.handleListOpportunities).Methods(http.MethodGet)
	authed.HandleFunc("/opportunities", s.handleCreateOpportunity).Methods(http.MethodPost)
	authed.HandleFunc("/opportunities/from-lead/{id}", s.handleConvertLead).Methods(http.MethodPost)
	authed.HandleFunc("/opportunities/{id}", s.handleUpdateOpportunity).Methods(http.MethodPut)
	authed.HandleFunc("/opportunities/{id}", s.handleDeleteOpportunity).Methods(http.MethodDelete)

	authed.HandleFunc("/customers", s.handleListCustomers).Methods(http.MethodGet)
	authed.HandleFunc("/customers/{id}", s.handleDeleteCustomer).Methods(http.MethodDelete)

	authed.HandleFunc("/employees", s.handleListEmployees).Methods(http.MethodGet)
	authed.HandleFunc("/employees/names", s.handleEmployeeNames).Methods(http.MethodGet)

	authed.HandleFunc("/call-logs", s.handleListCallLogs).Methods(http.MethodGet)
	authed.HandleFunc("/call-logs", s.handleCreateCallLog).Methods(http.MethodPost)
	authed.HandleFunc("/call-logs/lead/{id}", s.handleListCallLogs).Methods(http.MethodGet)
	authed.HandleFunc("/call-logs/opportunity/{id}", s.handleListCallLogs).Methods(http.MethodGet)
	authed.HandleFunc("/call-logs/{id}", s.handleUpdateCallLog).Methods(http.MethodPut)
	authed.HandleFunc("/call-logs/{id}", s.handleDeleteCallLog).Methods(http.MethodDelete)

	authed.HandleFunc("/notes", s.handleListNotes).Methods(http.MethodGet)
	authed.HandleFunc("/notes", s.handleCreateNote).Methods(http.MethodPost)
	authed.HandleFunc("/notes/lead/{id}", s.handleListNotes).Methods(http.MethodGet)
	authed.HandleFunc("/notes/opportunity/{id}", s.handleListNotes).Methods(http.MethodGet)
	authed.HandleFunc("/notes/{id}", s.handleDeleteNote).Methods(http.MethodDelete)

	authed.HandleFunc("/resolved-tickets", s.handleListTickets).Methods(http.MethodGet)
	authed.HandleFunc("/resolved-tickets", s.handleCreateTicket).Methods(http.MethodPost)

	authed.HandleFunc("/recycle-bin", s.handleRecycleBin).Methods(http.MethodGet)
	authed.HandleFunc("/recycle-bin/leads/{id}/restore", s.handleRestoreLead).Methods(http.MethodPost)
	authed.HandleFunc("/recycle-bin/leads/{id}", s.handlePurgeLead).Methods(http.MethodDelete)
	authed.HandleFunc("/recycle-bin/opportunities/{id}/restore", s.handleRestoreOpportunity).Methods(http.MethodPost)
	authed.HandleFunc("/recycle-bin/opportunities/{id}", s.handlePurgeOpportunity).Methods(http.MethodDelete)

	return r
}

// Auth

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "Bearer "
		header := r.Header.Get("Authorization")
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		s.mu.Lock()
		tok, ok := s.tokens[header[len(prefix):]]
		s.mu.Unlock()
		if !ok || time.Now().After(tok.expires) {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role     session.Role `json:"role"`
		Username string       `json:"username"`
		Password string       `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if body.Username == "" || body.Password == "" {
		http.Error(w, "credentials required", http.StatusUnauthorized)
		return
	}
	token := uuid.NewString()
	expires := time.Now().Add(tokenTTL)
	s.mu.Lock()
	s.tokens[token] = issuedToken{role: body.Role, expires: expires}
	s.mu.Unlock()
	s.log.Info("issued token", zap.String("role", string(body.Role)), zap.String("user", body.Username))
	writeJSON(w, map[string]string{
		"token":     token,
		"expiresAt": expires.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// Leads

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := s.store.ListLeads(r.Context(), false)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, leads)
}

func (s *Server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	var lead crm.Lead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := s.store.CreateLead(r.Context(), &lead); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, lead)
}

func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	lead, err := s.store.GetLead(r.Context(), pathID(r))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, lead)
}

func (s *Server) handleUpdateLead(w http.ResponseWriter, r *http.Request) {
	var lead crm.Lead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	lead.ID = pathID(r)
	if err := s.store.UpdateLead(r.Context(), &lead); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, lead)
}

func (s *Server) handleDeleteLead(w http.ResponseWriter, r *http.Request) {
	// deletes are soft; the record moves to the recycle bin
	if err := s.store.SetLeadDeleted(r.Context(), pathID(r), true); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleConvertLead(w http.ResponseWriter, r *http.Request) {
	var terms crm.ConversionTerms
	if err := json.NewDecoder(r.Body).Decode(&terms); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	opp, err := s.store.ConvertLead(r.Context(), pathID(r), terms)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, opp)
}

// Opportunities

func (s *Server) handleListOpportunities(w http.ResponseWriter, r *http.Request) {
	opps, err := s.store.ListOpportunities(r.Context(), false)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, opps)
}

func (s *Server) handleCreateOpportunity(w http.ResponseWriter, r *http.Request) {
	var opp crm.Opportunity
	if err := json.NewDecoder(r.Body).Decode(&opp); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := s.store.CreateOpportunity(r.Context(), &opp); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, opp)
}

func (s *Server) handleUpdateOpportunity(w http.ResponseWriter, r *http.Request) {
	var opp crm.Opportunity
	if err := json.NewDecoder(r.Body).Decode(&opp); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	opp.ID = pathID(r)
	if err := s.store.UpdateOpportunity(r.Context(), &opp); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, opp)
}

func (s *Server) handleDeleteOpportunity(w http.ResponseWriter, r *http.Request) {
	if err := s.store.SetOpportunityDeleted(r.Context(), pathID(r), true); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Customers and employees

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := s.store.ListCustomers(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, customers)
}

func (s *Server) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCustomer(r.Context(), pathID(r)); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := s.store.ListEmployees(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, employees)
}

func (s *Server) handleEmployeeNames(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.EmployeeNames(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, names)
}

// Call logs and notes

func (s *Server) handleListCallLogs(w http.ResponseWriter, r *http.Request) {
	leadID, oppID := parentIDs(r)
	logs, err := s.store.ListCallLogs(r.Context(), leadID, oppID)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, logs)
}

func (s *Server) handleCreateCallLog(w http.ResponseWriter, r *http.Request) {
	var log crm.CallLog
	if err := json.NewDecoder(r.Body).Decode(&log); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := s.store.CreateCallLog(r.Context(), &log); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, log)
}

func (s *Server) handleUpdateCallLog(w http.ResponseWriter, r *http.Request) {
	var log crm.CallLog
	if err := json.NewDecoder(r.Body).Decode(&log); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	log.ID = pathID(r)
	if err := s.store.UpdateCallLog(r.Context(), &log); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, log)
}

func (s *Server) handleDeleteCallLog(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCallLog(r.Context(), pathID(r)); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	leadID, oppID := parentIDs(r)
	notes, err := s.store.ListNotes(r.Context(), leadID, oppID)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, notes)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var note crm.Note
	if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := s.store.CreateNote(r.Context(), &note); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, note)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteNote(r.Context(), pathID(r)); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Tickets

func (s *Server) handleListTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := s.store.ListTickets(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, tickets)
}

func (s *Server) handleCreateTicket(w http.ResponseWriter, r *http.Request) {
	var ticket crm.Ticket
	if err := json.NewDecoder(r.Body).Decode(&ticket); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if err := s.store.CreateTicket(r.Context(), &ticket); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, ticket)
}

// Recycle bin

func (s *Server) handleRecycleBin(w http.ResponseWriter, r *http.Request) {
	leads, err := s.store.ListLeads(r.Context(), true)
	if err != nil {
		s.fail(w, err)
		return
	}
	opps, err := s.store.ListOpportunities(r.Context(), true)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, map[string]any{"leads": leads, "opportunities": opps})
}

func (s *Server) handleRestoreLead(w http.ResponseWriter, r *http.Request) {
	if err := s.store.SetLeadDeleted(r.Context(), pathID(r), false); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePurgeLead(w http.ResponseWriter, r *http.Request) {
	if err := s.store.PurgeLead(r.Context(), pathID(r)); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRestoreOpportunity(w http.ResponseWriter, r *http.Request) {
	if err := s.store.SetOpportunityDeleted(r.Context(), pathID(r), false); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePurgeOpportunity(w http.ResponseWriter, r *http.Request) {
	if err := s.store.PurgeOpportunity(r.Context(), pathID(r)); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Helpers

func (s *Server) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	s.log.Error("request failed", zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func parentIDs(r *http.Request) (leadID, opportunityID int64) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	switch {
	case strings.Contains(r.URL.Path, "/lead/"):
		return id, 0
	case strings.Contains(r.URL.Path, "/opportunity/"):
		return 0, id
	}
	return 0, 0
}

// Listen runs the server until ctx is cancelled.
func Listen(ctx context.Context, addr string, store *Store, log *zap.Logger) error {
	srv := &http.Server{Addr: addr, Handler: New(store, log)}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
