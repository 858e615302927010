// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audience derives the browser share distribution a scan measures
// coverage against, either from an analytics export or from a
// browserslist-style selection query over a bundled usage table.
package audience

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Distribution maps lowercased browser names to their share of the audience.
// Shares are relative weights; they do not need to sum to 100.
type Distribution map[string]float64

// Total returns the sum of all shares.
func (d Distribution) Total() float64 {
	var t float64
	for _, share := range d {
		t += share
	}
	return t
}

// ParseAnalyticsCSV reads `browser,share` rows. A header row is tolerated,
// rows with a non-numeric share are skipped with a warning rather than
// failing the scan, and duplicate browser rows accumulate.
func ParseAnalyticsCSV(r io.Reader) (Distribution, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	dist := Distribution{}
	var warnings []string

	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		if len(record) < 2 {
			warnings = append(warnings, fmt.Sprintf("row %d: expected browser,share", line))
			continue
		}
		name := strings.ToLower(strings.TrimSpace(record[0]))
		share, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			if line == 1 {
				continue // header row
			}
			warnings = append(warnings, fmt.Sprintf("row %d: non-numeric share %q", line, record[1]))
			continue
		}
		if name == "" || share < 0 {
			warnings = append(warnings, fmt.Sprintf("row %d: invalid row", line))
			continue
		}
		dist[name] += share
	}
	return dist, warnings, nil
}

// FromFile loads an analytics CSV from disk.
func FromFile(path string) (Distribution, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening analytics source: %w", err)
	}
	defer f.Close()
	return ParseAnalyticsCSV(f)
}
