package listview

// DefaultMaxLinks is the widest run of page links a footer shows.
const DefaultMaxLinks = 5

// PageWindow is the computed pagination footer for one list state.
type PageWindow struct {
	// Hidden is set when a single page (or none) holds everything.
	Hidden bool
	// Pages is the run of page numbers to display, always containing the
	// clamped current page.
	Pages []int
	// First/Last signal the leading "1 …" and trailing "… N" affordances when
	// the window does not already include those pages.
	First bool
	Last  bool
	// TotalPages is ceil(totalItems/perPage), at least 1.
	TotalPages int
	// Current is the in-range page the window was built around.
	Current int
}

// TotalPages computes the page count for a collection, never less than 1.
func TotalPages(totalItems, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	n := (totalItems + perPage - 1) / perPage
	if n < 1 {
		n = 1
	}
	return n
}

// ClampPage forces p into [1, totalPages].
func ClampPage(p, totalPages int) int {
	if p < 1 {
		return 1
	}
	if p > totalPages {
		return totalPages
	}
	return p
}

// Window computes the run of page links to display: a span of up to maxLinks
// numbers centered on the current page and clamped to [1, totalPages]. An
// out-of-range current page is clamped silently.
func Window(current, totalItems, perPage, maxLinks int) PageWindow {
	if maxLinks <= 0 {
		maxLinks = DefaultMaxLinks
	}
	total := TotalPages(totalItems, perPage)
	current = ClampPage(current, total)

	w := PageWindow{TotalPages: total, Current: current}
	if total <= 1 {
		w.Hidden = true
		w.Pages = []int{1}
		return w
	}

	start := current - maxLinks/2
	if start < 1 {
		start = 1
	}
	end := start + maxLinks - 1
	if end > total {
		end = total
		start = end - maxLinks + 1
		if start < 1 {
			start = 1
		}
	}
	for p := start; p <= end; p++ {
		w.Pages = append(w.Pages, p)
	}
	w.First = start > 1
	w.Last = end < total
	return w
}

// PageSlice returns the bounds of the visible slice for a page: the
// half-open interval [lo, hi) into the filtered view.
func PageSlice(current, totalItems, perPage int) (lo, hi int) {
	total := TotalPages(totalItems, perPage)
	current = ClampPage(current, total)
	lo = (current - 1) * perPage
	hi = lo + perPage
	if lo > totalItems {
		lo = totalItems
	}
	if hi > totalItems {
		hi = totalItems
	}
	return lo, hi
}
