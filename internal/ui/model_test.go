package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"crmdesk/internal/session"
)

func TestResolveMenuSelection(t *testing.T) {
	cases := []struct {
		input string
		want  string
		ok    bool
	}{
		{"2", menuLeads, true},
		{"leads", menuLeads, true},
		{"LEADS", menuLeads, true},
		{"lea", menuLeads, true},
		{"opp", menuOpportunities, true},
		{"recycle bin", menuRecycleBin, true},
		{"exit.", menuQuit, true},
		{"", "", false},
		{"zzz", "", false},
	}
	for _, tc := range cases {
		got, ok := resolveMenuSelection(mainMenuOptions, tc.input)
		assert.Equal(t, tc.ok, ok, "input %q", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestParseRole(t *testing.T) {
	role, ok := parseRole(" Admin ")
	assert.True(t, ok)
	assert.Equal(t, session.RoleAdmin, role)

	role, ok = parseRole("2")
	assert.True(t, ok)
	assert.Equal(t, session.RoleEmployee, role)

	_, ok = parseRole("manager")
	assert.False(t, ok)
}

func TestClipRespectsRuneBoundaries(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "exact", clip("exact", 5))
	assert.Equal(t, "long…", clip("longer value", 5))
	assert.Equal(t, "héll…", clip("héllo wörld", 5))
}

func TestExitAndBackCommands(t *testing.T) {
	assert.True(t, isExitCommand("exit."))
	assert.True(t, isExitCommand(" QUIT "))
	assert.False(t, isExitCommand("exit there"))

	assert.True(t, isBackCommand("/"))
	assert.True(t, isBackCommand("back"))
	assert.False(t, isBackCommand("backward"))
}
