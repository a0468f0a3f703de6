package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeAt(t *testing.T) *Store {
	t.Helper()
	s, err := OpenPath(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	return s
}

func TestSaveLoadClear(t *testing.T) {
	s := storeAt(t)
	assert.Nil(t, s.Current())

	require.NoError(t, s.Save(Session{Role: RoleAdmin, Token: "tok-1"}))
	require.NotNil(t, s.Current())
	assert.Equal(t, "tok-1", s.Token())

	reopened, err := OpenPath(s.path)
	require.NoError(t, err)
	require.NotNil(t, reopened.Current())
	assert.Equal(t, RoleAdmin, reopened.Current().Role)

	require.NoError(t, reopened.Clear())
	assert.Nil(t, reopened.Current())
	_, err = os.Stat(s.path)
	assert.True(t, os.IsNotExist(err))
}

func TestExpiredSessionReadsAsLoggedOut(t *testing.T) {
	s := storeAt(t)
	require.NoError(t, s.Save(Session{
		Role:      RoleEmployee,
		Token:     "tok",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))
	assert.Nil(t, s.Current())
	assert.Empty(t, s.Token())
}

func TestLegacyKeysMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"employeeAuth":"legacy-tok"}`), 0o600))

	s, err := OpenPath(path)
	require.NoError(t, err)
	require.NotNil(t, s.Current())
	assert.Equal(t, RoleEmployee, s.Current().Role)
	assert.Equal(t, "legacy-tok", s.Token())

	// the file is rewritten in the single-session shape
	reopened, err := OpenPath(path)
	require.NoError(t, err)
	require.NotNil(t, reopened.Current())
	assert.Equal(t, "legacy-tok", reopened.Token())
}
