package crm

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallTimestampWireForm(t *testing.T) {
	ts := CallTimestamp{Year: 2026, Month: 8, Day: 14, Hour: 9, Minute: 5}

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.JSONEq(t, `[2026,8,14,9,5]`, string(data))

	var back CallTimestamp
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, ts, back)
}

func TestCallTimestampRejectsWrongArity(t *testing.T) {
	var ts CallTimestamp
	assert.Error(t, json.Unmarshal([]byte(`[2026,8,14]`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`"2026-08-14T09:05:00Z"`), &ts))
}

func TestCallTimestampTimeConversion(t *testing.T) {
	at := time.Date(2026, 8, 14, 9, 5, 33, 0, time.UTC)
	ts := NewCallTimestamp(at)
	assert.Equal(t, CallTimestamp{Year: 2026, Month: 8, Day: 14, Hour: 9, Minute: 5}, ts)

	// seconds truncate away on the way through
	assert.Equal(t, at.Truncate(time.Minute), ts.Time(time.UTC))
	assert.Equal(t, "2026-08-14 09:05", ts.String())
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "1200.50", FormatCurrency(1200.5))
	assert.Equal(t, "0.00", FormatCurrency(0))
	assert.Equal(t, "70%", FormatPercent(70))
	assert.Equal(t, "62.5%", FormatPercent(62.5))
	assert.Equal(t, "", FormatDate(time.Time{}))
	assert.Equal(t, "", FormatID(0))
	assert.Equal(t, "41", FormatID(41))
}

func TestLeadFormRoundTrip(t *testing.T) {
	l := Lead{ID: 3, Name: "Acme", Phone: "555", Email: "a@a.io", Source: "Web",
		AssignedTo: "Dana", ExpectedRevenue: 5000, ConversionProbability: 70}

	vals := LeadValues(l)
	rebuilt := LeadFromValues(Lead{ID: 3}, vals)
	assert.Equal(t, l, rebuilt)
}

func TestSearchTextIncludesFormattedRevenue(t *testing.T) {
	l := Lead{Name: "Acme", ExpectedRevenue: 1200.5}
	assert.Contains(t, l.SearchText(), "1200.50", "search sees the same string export writes")
}
