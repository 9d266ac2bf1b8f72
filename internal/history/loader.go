// Package history loads historical transaction observations from CSV exports.
// Used only to seed the baseline model when no persisted baseline exists.
package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/paywatch/paywatch-backend/internal/models"
)

// Timestamp layouts accepted in exports, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// LoadCSV reads observations from a CSV file with a header row containing at
// least timestamp, status, and count columns.
func LoadCSV(path string) ([]models.Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open historical data: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads observations from CSV data. Rows that fail validation are
// skipped rather than aborting the load; a baseline built from the valid rows
// is better than none.
func Parse(r io.Reader) ([]models.Observation, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"timestamp", "status", "count"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("historical CSV missing %q column", required)
		}
	}

	var observations []models.Observation
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		ts, err := parseTimestamp(record[cols["timestamp"]])
		if err != nil {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(record[cols["count"]]))
		if err != nil {
			continue
		}

		obs := models.Observation{
			Timestamp: ts,
			Status:    strings.TrimSpace(record[cols["status"]]),
			Count:     count,
		}
		if obs.Validate() != nil {
			continue
		}
		observations = append(observations, obs)
	}
	return observations, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
