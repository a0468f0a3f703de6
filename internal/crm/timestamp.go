package crm

import (
	"encoding/json"
	"fmt"
	"time"
)

// CallTimestamp is the wire encoding used for call-log times: a 5-element
// integer array [year, month, day, hour, minute] rather than ISO-8601.
type CallTimestamp struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
}

// NewCallTimestamp truncates t to minute precision.
func NewCallTimestamp(t time.Time) CallTimestamp {
	return CallTimestamp{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
	}
}

// Time converts the timestamp to a native time in loc. A nil loc means UTC.
func (ts CallTimestamp) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(ts.Year, time.Month(ts.Month), ts.Day, ts.Hour, ts.Minute, 0, 0, loc)
}

// IsZero reports whether no fields are set.
func (ts CallTimestamp) IsZero() bool {
	return ts == CallTimestamp{}
}

func (ts CallTimestamp) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d", ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute)
}

// MarshalJSON emits the 5-int array form.
func (ts CallTimestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal([5]int{ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute})
}

// UnmarshalJSON accepts the 5-int array form.
func (ts *CallTimestamp) UnmarshalJSON(data []byte) error {
	var parts []int
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("parse call timestamp: %w", err)
	}
	if len(parts) != 5 {
		return fmt.Errorf("call timestamp: want 5 elements, got %d", len(parts))
	}
	ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute = parts[0], parts[1], parts[2], parts[3], parts[4]
	return nil
}
