package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowSinglePageHidden(t *testing.T) {
	w := Window(1, 7, 10, 5)
	assert.True(t, w.Hidden)
	assert.Equal(t, 1, w.TotalPages)

	w = Window(1, 0, 10, 5)
	assert.True(t, w.Hidden)
}

func TestWindowFewPagesShowsAll(t *testing.T) {
	// totalPages <= maxLinks: the window is exactly [1..totalPages].
	w := Window(2, 25, 10, 5)
	require.False(t, w.Hidden)
	assert.Equal(t, []int{1, 2, 3}, w.Pages)
	assert.False(t, w.First)
	assert.False(t, w.Last)
}

func TestWindowInteriorCentered(t *testing.T) {
	// 20 pages, current in the interior: exactly maxLinks entries centered.
	w := Window(10, 200, 10, 5)
	assert.Equal(t, []int{8, 9, 10, 11, 12}, w.Pages)
	assert.True(t, w.First)
	assert.True(t, w.Last)
	assert.Contains(t, w.Pages, w.Current)
}

func TestWindowClampedAtEdges(t *testing.T) {
	w := Window(1, 200, 10, 5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, w.Pages)
	assert.False(t, w.First)
	assert.True(t, w.Last)

	w = Window(20, 200, 10, 5)
	assert.Equal(t, []int{16, 17, 18, 19, 20}, w.Pages)
	assert.True(t, w.First)
	assert.False(t, w.Last)
}

func TestWindowOutOfRangeCurrentClampsSilently(t *testing.T) {
	w := Window(99, 30, 10, 5)
	assert.Equal(t, 3, w.Current)
	assert.Contains(t, w.Pages, 3)

	w = Window(-4, 30, 10, 5)
	assert.Equal(t, 1, w.Current)
}

func TestPageSlice(t *testing.T) {
	lo, hi := PageSlice(1, 23, 10)
	assert.Equal(t, 0, lo)
	assert.Equal(t, 10, hi)

	lo, hi = PageSlice(3, 23, 10)
	assert.Equal(t, 20, lo)
	assert.Equal(t, 23, hi)

	// every interior page is exactly perPage long
	for p := 1; p <= 2; p++ {
		lo, hi = PageSlice(p, 23, 10)
		assert.Equal(t, 10, hi-lo)
	}
}
