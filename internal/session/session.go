// Package session holds the process-wide auth state: one typed session with
// an explicit load/save/clear lifecycle, replacing the four parallel ad-hoc
// token slots older builds kept.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Role identifies which auth kind produced the token.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleCustomer Role = "customer"
)

// Session is the single persisted auth record.
type Session struct {
	Role      Role      `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

// legacyKeys maps the old per-role token slots, checked once at load time so
// existing installs migrate into the single session form.
var legacyKeys = []struct {
	key  string
	role Role
}{
	{"adminAuth", RoleAdmin},
	{"employeeAuth", RoleEmployee},
	{"customerAuth", RoleCustomer},
	{"authToken", RoleEmployee},
}

// Store manages the session file on disk.
type Store struct {
	path    string
	current *Session
}

// Open loads any persisted session from the app config dir.
func Open() (*Store, error) {
	path, err := resolvePath()
	if err != nil {
		return nil, err
	}
	return OpenPath(path)
}

// OpenPath loads a session store rooted at an explicit file, used by tests.
func OpenPath(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func resolvePath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		base = os.Getenv("HOME")
		if base == "" {
			return "", fmt.Errorf("cannot resolve session directory: %w", err)
		}
	}
	dir := filepath.Join(base, "crmdesk")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}
	return filepath.Join(dir, "session.json"), nil
}

func (s *Store) load() error {
	bytes, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(bytes, &sess); err != nil {
		return fmt.Errorf("parse session: %w", err)
	}
	if sess.Token != "" {
		s.current = &sess
		return nil
	}

	// Legacy multi-key form: a JSON object with per-role token fields. The
	// first populated slot wins and the file is rewritten in the new shape.
	var legacy map[string]string
	if err := json.Unmarshal(bytes, &legacy); err != nil {
		return nil
	}
	for _, lk := range legacyKeys {
		if tok := legacy[lk.key]; tok != "" {
			s.current = &Session{Role: lk.role, Token: tok}
			return s.Save(*s.current)
		}
	}
	return nil
}

// Current returns the active session, or nil when logged out. An expired
// session reads as logged out.
func (s *Store) Current() *Session {
	if s.current == nil {
		return nil
	}
	if !s.current.ExpiresAt.IsZero() && time.Now().After(s.current.ExpiresAt) {
		return nil
	}
	return s.current
}

// Token returns the bearer token to attach, empty when logged out.
func (s *Store) Token() string {
	if cur := s.Current(); cur != nil {
		return cur.Token
	}
	return ""
}

// Save persists a new session.
func (s *Store) Save(sess Session) error {
	bytes, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(s.path, bytes, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	s.current = &sess
	return nil
}

// Clear forgets the session, used on logout and on a 401.
func (s *Store) Clear() error {
	s.current = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
