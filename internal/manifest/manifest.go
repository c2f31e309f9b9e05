// Package manifest loads the fund manifest file: a CSV with one header line
// and one `name,lookupCode,simplifiedName` line per fund.
package manifest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Entry is one fund from the manifest. Simplified is the column header used
// in the report; it defaults to Name when the manifest leaves it blank.
type Entry struct {
	Name       string
	Lookup     string
	Simplified string
}

// Load reads the manifest at path. Order is preserved; the report renders
// fund columns in manifest order.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads manifest entries from r.
func Parse(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3

	// header line
	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("manifest is empty")
		}
		return nil, fmt.Errorf("failed to read manifest header: %w", err)
	}

	var entries []Entry
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest line: %w", err)
		}

		e := Entry{
			Name:       strings.TrimSpace(record[0]),
			Lookup:     strings.TrimSpace(record[1]),
			Simplified: strings.TrimSpace(record[2]),
		}
		if e.Name == "" || e.Lookup == "" {
			return nil, fmt.Errorf("manifest line %d: name and lookup code are required", len(entries)+2)
		}
		if e.Simplified == "" {
			e.Simplified = e.Name
		}
		entries = append(entries, e)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("manifest has no funds")
	}
	return entries, nil
}
