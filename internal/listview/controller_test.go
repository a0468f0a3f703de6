package listview

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rec struct {
	Name  string
	Email string
}

func newTestController(perPage int) *Controller[rec] {
	return New(perPage, func(r rec) []string { return []string{r.Name, r.Email} })
}

func seed(n int) []rec {
	out := make([]rec, n)
	for i := range out {
		out[i] = rec{Name: fmt.Sprintf("Record %02d", i), Email: fmt.Sprintf("r%02d@example.com", i)}
	}
	return out
}

func TestEmptyQueryIsIdentityFilter(t *testing.T) {
	c := newTestController(10)
	items := seed(7)
	require.True(t, c.Apply(c.Begin(), items, nil))

	assert.Equal(t, StateReady, c.State())
	assert.Equal(t, items, c.Filtered())

	c.SetQuery("record")
	c.SetQuery("")
	assert.Equal(t, items, c.Filtered())
}

func TestFilterSoundAndComplete(t *testing.T) {
	c := newTestController(10)
	items := []rec{
		{Name: "Acme Corp", Email: "sales@acme.io"},
		{Name: "Globex", Email: "info@globex.com"},
		{Name: "Initech", Email: "acme-reseller@initech.com"},
	}
	require.True(t, c.Apply(c.Begin(), items, nil))

	c.SetQuery("ACME")
	got := c.Filtered()
	require.Len(t, got, 2)
	for _, r := range got {
		match := strings.Contains(strings.ToLower(r.Name), "acme") ||
			strings.Contains(strings.ToLower(r.Email), "acme")
		assert.True(t, match)
	}
}

func TestMissingFieldsNeverMatch(t *testing.T) {
	assert.False(t, Matches("x", []string{"", ""}))
	assert.True(t, Matches("", []string{"", ""}))
}

func TestVisibleSliceEqualsPageBounds(t *testing.T) {
	c := newTestController(10)
	items := seed(23)
	require.True(t, c.Apply(c.Begin(), items, nil))

	c.SetPage(2)
	assert.Equal(t, items[10:20], c.Visible())

	c.SetPage(3)
	assert.Equal(t, items[20:23], c.Visible())
}

func TestSetPageClamps(t *testing.T) {
	c := newTestController(10)
	require.True(t, c.Apply(c.Begin(), seed(23), nil))

	c.SetPage(99)
	assert.Equal(t, 3, c.Page())
	c.SetPage(-1)
	assert.Equal(t, 1, c.Page())
}

func TestQueryShrinkReclampsPage(t *testing.T) {
	c := newTestController(5)
	require.True(t, c.Apply(c.Begin(), seed(50), nil))
	c.SetPage(5)

	c.SetQuery("record 01")
	assert.Equal(t, 1, c.Page())
	assert.NotEmpty(t, c.Visible(), "narrowed view must stay visible")
}

func TestStaleResponseDiscarded(t *testing.T) {
	c := newTestController(10)
	old := c.Begin()
	newer := c.Begin()

	assert.False(t, c.Apply(old, seed(3), nil), "superseded token must be dropped")
	assert.Equal(t, StateLoading, c.State())

	require.True(t, c.Apply(newer, seed(5), nil))
	assert.Equal(t, 5, c.Len())
}

func TestFailureThenManualRefresh(t *testing.T) {
	c := newTestController(10)
	require.True(t, c.Apply(c.Begin(), nil, errors.New("backend server is not available")))
	assert.Equal(t, StateFailed, c.State())
	assert.Equal(t, "backend server is not available", c.Err())

	require.True(t, c.Apply(c.Begin(), seed(4), nil))
	assert.Equal(t, StateReady, c.State())
	assert.Empty(t, c.Err())
	assert.Equal(t, 4, c.Len())
}

func TestFailureKeepsStaleCollection(t *testing.T) {
	c := newTestController(10)
	require.True(t, c.Apply(c.Begin(), seed(4), nil))
	require.True(t, c.Apply(c.Begin(), nil, errors.New("boom")))

	assert.Equal(t, StateFailed, c.State())
	assert.Equal(t, 4, c.Len(), "previously loaded data stays visible")
}

func TestSetPerPageReclampsPage(t *testing.T) {
	c := newTestController(5)
	require.True(t, c.Apply(c.Begin(), seed(23), nil))
	c.SetPage(5)
	require.Equal(t, 5, c.Page())

	c.SetPerPage(10)
	assert.Equal(t, 3, c.Page(), "page snaps back inside the new range")
	assert.Len(t, c.Visible(), 3)

	c.SetPerPage(0)
	assert.Equal(t, 10, c.PerPage(), "non-positive sizes are ignored")
}
