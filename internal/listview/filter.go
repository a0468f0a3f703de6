// Package listview holds the shared list-screen machinery: free-text
// filtering, client-side pagination, and the fetch/filter/page controller
// every entity tab runs on.
package listview

import "strings"

// Matches reports whether any of the stringified field values contains the
// query as a case-insensitive substring. An empty query matches everything.
func Matches(query string, fields []string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, f := range fields {
		if f == "" {
			continue
		}
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
