package history

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeaderMapping(t *testing.T) {
	// Column order and casing in exports varies; the header drives the mapping.
	csv := strings.Join([]string{
		"Status, Count, Timestamp",
		"approved, 90, 2025-07-12 13:00:00",
		"failed, 10, 2025-07-12T13:01:00Z",
	}, "\n")

	observations, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, observations, 2)

	assert.Equal(t, "approved", observations[0].Status)
	assert.Equal(t, 90, observations[0].Count)
	assert.Equal(t, time.Date(2025, 7, 12, 13, 0, 0, 0, time.UTC), observations[0].Timestamp)
	assert.Equal(t, time.Date(2025, 7, 12, 13, 1, 0, 0, time.UTC), observations[1].Timestamp)
}

func TestParseSkipsInvalidRows(t *testing.T) {
	csv := strings.Join([]string{
		"timestamp,status,count",
		"2025-07-12 13:00:00,approved,90",
		"not-a-timestamp,failed,10",
		"2025-07-12 13:02:00,denied,not-a-number",
		"2025-07-12 13:03:00,,5",
		"2025-07-12 13:04:00,reversed,-1",
		"2025-07-12 13:05:00,failed,2",
	}, "\n")

	observations, err := Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, observations, 2)
	assert.Equal(t, "approved", observations[0].Status)
	assert.Equal(t, "failed", observations[1].Status)
}

func TestParseMissingRequiredColumn(t *testing.T) {
	csv := "timestamp,status\n2025-07-12 13:00:00,approved\n"
	_, err := Parse(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count")
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV("/nonexistent/transactions.csv")
	require.Error(t, err)
}
