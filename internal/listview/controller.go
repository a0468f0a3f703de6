package listview

// State is the lifecycle of one list screen.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
)

// Controller owns the per-tab list state: the fetched collection, the
// search-narrowed view, and the current page. Fetches are identified by a
// monotonically increasing token so a slow response can never overwrite the
// state a newer request already produced.
type Controller[T any] struct {
	state      State
	items      []T
	filtered   []T
	query      string
	page       int
	perPage    int
	searchText func(T) []string
	token      uint64
	errMsg     string
}

// New builds a controller. searchText stringifies the fields a record is
// matched against; perPage must be positive.
func New[T any](perPage int, searchText func(T) []string) *Controller[T] {
	if perPage <= 0 {
		perPage = 10
	}
	return &Controller[T]{
		state:      StateIdle,
		page:       1,
		perPage:    perPage,
		searchText: searchText,
	}
}

// Begin marks a fetch in flight and returns its token. Any previously loaded
// collection stays visible while loading.
func (c *Controller[T]) Begin() uint64 {
	c.token++
	c.state = StateLoading
	return c.token
}

// Apply delivers a fetch result. It reports false, changing nothing, when the
// token has been superseded by a newer Begin. On failure the error message is
// recorded and stale data, if any, remains. On success the collection is
// replaced, the filter reapplied, and the page reclamped.
func (c *Controller[T]) Apply(token uint64, items []T, err error) bool {
	if token != c.token {
		return false
	}
	if err != nil {
		c.state = StateFailed
		c.errMsg = err.Error()
		return true
	}
	c.state = StateReady
	c.errMsg = ""
	c.items = items
	c.refilter()
	return true
}

// SetQuery updates the free-text filter and recomputes the filtered view.
func (c *Controller[T]) SetQuery(q string) {
	if q == c.query {
		return
	}
	c.query = q
	c.refilter()
}

// SetPage stores a page, clamped into the valid range.
func (c *Controller[T]) SetPage(p int) {
	c.page = ClampPage(p, TotalPages(len(c.filtered), c.perPage))
}

// SetPerPage changes the page size and reclamps the current page.
func (c *Controller[T]) SetPerPage(n int) {
	if n <= 0 {
		return
	}
	c.perPage = n
	c.page = ClampPage(c.page, TotalPages(len(c.filtered), c.perPage))
}

// NextPage and PrevPage step the current page, clamped at the edges.
func (c *Controller[T]) NextPage() { c.SetPage(c.page + 1) }
func (c *Controller[T]) PrevPage() { c.SetPage(c.page - 1) }

func (c *Controller[T]) refilter() {
	if c.query == "" {
		c.filtered = c.items
	} else {
		filtered := make([]T, 0, len(c.items))
		for _, it := range c.items {
			if Matches(c.query, c.searchText(it)) {
				filtered = append(filtered, it)
			}
		}
		c.filtered = filtered
	}
	// Reclamping here keeps a shrinking result set from stranding the user on
	// a page past the end.
	c.page = ClampPage(c.page, TotalPages(len(c.filtered), c.perPage))
}

// State returns the current lifecycle state.
func (c *Controller[T]) State() State { return c.state }

// Err returns the user-facing message recorded by the last failed fetch.
func (c *Controller[T]) Err() string { return c.errMsg }

// Query returns the active filter text.
func (c *Controller[T]) Query() string { return c.query }

// Page returns the current 1-based page.
func (c *Controller[T]) Page() int { return c.page }

// PerPage returns the configured page size.
func (c *Controller[T]) PerPage() int { return c.perPage }

// Len returns the size of the full collection.
func (c *Controller[T]) Len() int { return len(c.items) }

// Items returns the full, unfiltered collection (what export serializes).
func (c *Controller[T]) Items() []T { return c.items }

// Filtered returns the search-narrowed view.
func (c *Controller[T]) Filtered() []T { return c.filtered }

// Visible returns the slice of the filtered view for the current page.
func (c *Controller[T]) Visible() []T {
	lo, hi := PageSlice(c.page, len(c.filtered), c.perPage)
	return c.filtered[lo:hi]
}

// Window computes the pagination footer for the current state.
func (c *Controller[T]) Window() PageWindow {
	return Window(c.page, len(c.filtered), c.perPage, DefaultMaxLinks)
}
