package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type sale struct {
	Name    string
	Revenue float64
}

func saleColumns() []Column[sale] {
	return []Column[sale]{
		{Header: "Name", Value: func(s sale) string { return s.Name }},
		{Header: "Revenue", Value: func(s sale) string { return fmt.Sprintf("%.2f", s.Revenue) }},
	}
}

func TestWorkbookRowsMatchRecords(t *testing.T) {
	records := []sale{
		{Name: "Acme", Revenue: 1200.5},
		{Name: "Globex"},
		{Name: "Initech", Revenue: 88},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records, saleColumns()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, len(records)+1, "header plus one row per record")
	assert.Equal(t, []string{"Name", "Revenue"}, rows[0])

	// currency cells carry exactly two decimals, zero included
	assert.Equal(t, "1200.50", rows[1][1])
	assert.Equal(t, "0.00", rows[2][1])
	assert.Equal(t, "88.00", rows[3][1])
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 3, 9, 15, 4, 0, 0, time.UTC)
	assert.Equal(t, "Leads_Export_2026-03-09.xlsx", Filename("Leads", now))
}

func TestSaveWritesFile(t *testing.T) {
	dir := t.TempDir()
	path, err := Save(dir, "Leads", []sale{{Name: "Acme", Revenue: 10}}, saleColumns(), time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Leads_Export_2026-03-09.xlsx"), path)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestEmptyColumnSpecRejected(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []sale{{Name: "Acme"}}, nil)
	require.Error(t, err)
	assert.Zero(t, buf.Len(), "no partial output on failure")
}
