package crm

import (
	"fmt"
	"strconv"
	"time"
)

// Display formatting shared by search and export so the two never drift:
// a value is searchable in exactly the form it would be exported in.

// FormatCurrency renders a monetary amount with two decimals.
func FormatCurrency(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// FormatPercent renders a percentage with a trailing % sign.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// FormatDate renders a date for lists and export columns.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// FormatID renders a backend identifier.
func FormatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}
