// Package roster turns an uploaded attendee list (loosely structured
// CSV text) into validated attendee records. Header roles are inferred
// by substring heuristics so organizers can upload exports from
// whatever tool they already have.
package roster

import (
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyInput = errors.New("CSV file is empty")

// Record is one validated attendee row.
type Record struct {
	Name       string
	ExternalID string
}

// column roles resolved from the header line. -1 means absent.
type columnMap struct {
	name      int
	firstName int
	lastName  int
	id        int
	email     int
}

// Parse reads raw CSV content and returns the valid attendee records
// plus a list of per-row error strings. Row errors are non-fatal: a
// bad row is reported and skipped, the scan continues. An empty result
// with a non-empty error list is a valid outcome; only an entirely
// empty input is a top-level error.
func Parse(content string) ([]Record, []string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, nil, ErrEmptyInput
	}

	lines := strings.Split(trimmed, "\n")

	headers := parseRow(lines[0])
	for i, h := range headers {
		headers[i] = strings.ToLower(h)
	}
	cols := classifyHeaders(headers)

	var records []Record
	var rowErrors []string

	for i := 1; i < len(lines); i++ {
		// Line numbers in errors are 1-indexed including the header.
		lineNo := i + 1
		row := parseRow(lines[i])

		if len(row) != len(headers) {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: Column count mismatch (expected %d, got %d)", lineNo, len(headers), len(row)))
			continue
		}

		name := deriveName(row, cols)
		if name == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("Row %d: No name found", lineNo))
			continue
		}

		rec := Record{Name: name}
		if cols.id >= 0 && row[cols.id] != "" {
			rec.ExternalID = row[cols.id]
		}
		records = append(records, rec)
	}

	return records, rowErrors, nil
}

// parseRow splits one line into fields with quote awareness: fields
// may be wrapped in double quotes, a doubled quote inside a quoted
// field is a literal quote, and commas inside quotes do not split.
// Each field is trimmed of surrounding whitespace.
func parseRow(line string) []string {
	var result []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && !inQuotes:
			inQuotes = true
		case c == '"' && inQuotes:
			if i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = false
			}
		case c == ',' && !inQuotes:
			result = append(result, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}

	result = append(result, strings.TrimSpace(current.String()))
	return result
}

// classifyHeaders assigns each lower-cased header to at most one
// semantic role. Rules run in precedence order; the first header
// matching a rule wins that role, later duplicates are ignored.
func classifyHeaders(headers []string) columnMap {
	cols := columnMap{name: -1, firstName: -1, lastName: -1, id: -1, email: -1}

	for i, h := range headers {
		switch {
		case isNameHeader(h):
			if cols.name < 0 {
				cols.name = i
			}
		case strings.Contains(h, "first"):
			if cols.firstName < 0 {
				cols.firstName = i
			}
		case strings.Contains(h, "last") || strings.Contains(h, "family") || strings.Contains(h, "surname"):
			if cols.lastName < 0 {
				cols.lastName = i
			}
		case strings.Contains(h, "id") && !strings.Contains(h, "email"):
			if cols.id < 0 {
				cols.id = i
			}
		case strings.Contains(h, "email"):
			// Detected but not consumed downstream.
			if cols.email < 0 {
				cols.email = i
			}
		}
	}

	return cols
}

func isNameHeader(h string) bool {
	if h == "name" {
		return true
	}
	if !strings.Contains(h, "name") {
		return false
	}
	for _, qualifier := range []string{"first", "last", "given", "family"} {
		if strings.Contains(h, qualifier) {
			return false
		}
	}
	return true
}

// deriveName prefers the dedicated name column, then first+last, then
// first name alone. Returns "" when no name can be derived.
func deriveName(row []string, cols columnMap) string {
	if cols.name >= 0 && row[cols.name] != "" {
		return row[cols.name]
	}
	if cols.firstName >= 0 && cols.lastName >= 0 {
		return strings.TrimSpace(row[cols.firstName] + " " + row[cols.lastName])
	}
	if cols.firstName >= 0 {
		return row[cols.firstName]
	}
	return ""
}
