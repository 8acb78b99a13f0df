package roster_test

import (
	"testing"

	"github.com/dlane/event-checkin/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantRecords []roster.Record
		wantErrors  []string
	}{
		{
			name:  "dedicated name column with external id",
			input: "Full Name,ID\nJane Doe,42",
			wantRecords: []roster.Record{
				{Name: "Jane Doe", ExternalID: "42"},
			},
		},
		{
			name:  "first and last name columns concatenated",
			input: "first_name,last_name\nJane,Doe",
			wantRecords: []roster.Record{
				{Name: "Jane Doe"},
			},
		},
		{
			name:  "first name only",
			input: "First Name\nJane\nJohn",
			wantRecords: []roster.Record{
				{Name: "Jane"},
				{Name: "John"},
			},
		},
		{
			name:  "quoted field with embedded comma",
			input: "Name,Notes\n\"Doe, Jane\",vip",
			wantRecords: []roster.Record{
				{Name: "Doe, Jane"},
			},
		},
		{
			name:  "doubled quote decodes to literal quote",
			input: "Name\n\"She said \"\"hello\"\"\"",
			wantRecords: []roster.Record{
				{Name: `She said "hello"`},
			},
		},
		{
			name:  "column count mismatch reported with display line number",
			input: "Name,ID\nJane Doe,42\nBob",
			wantRecords: []roster.Record{
				{Name: "Jane Doe", ExternalID: "42"},
			},
			wantErrors: []string{
				"Row 3: Column count mismatch (expected 2, got 1)",
			},
		},
		{
			name:  "empty name field fails at row level",
			input: "Name,ID\n,42\nJane,7",
			wantRecords: []roster.Record{
				{Name: "Jane", ExternalID: "7"},
			},
			wantErrors: []string{
				"Row 2: No name found",
			},
		},
		{
			name:       "all rows invalid still returns row errors not failure",
			input:      "Name\n\n",
			wantErrors: nil,
		},
		{
			name:  "email column detected but not consumed",
			input: "Name,Email\nJane Doe,jane@example.com",
			wantRecords: []roster.Record{
				{Name: "Jane Doe"},
			},
		},
		{
			name:  "email header does not claim the id role",
			input: "Name,Email Address,Badge ID\nJane,jane@example.com,B7",
			wantRecords: []roster.Record{
				{Name: "Jane", ExternalID: "B7"},
			},
		},
		{
			name:  "first matching header wins the role",
			input: "Name,Nickname\nJane Doe,JD",
			wantRecords: []roster.Record{
				{Name: "Jane Doe"},
			},
		},
		{
			name:  "qualified name headers do not claim the name role",
			input: "Given Name,Family Name\nJane,Doe",
			wantRecords: []roster.Record{
				{Name: "Jane Doe"},
			},
		},
		{
			name:  "fields are trimmed",
			input: "Name , ID\n  Jane Doe ,  42 ",
			wantRecords: []roster.Record{
				{Name: "Jane Doe", ExternalID: "42"},
			},
		},
		{
			name:  "crlf line endings",
			input: "Name,ID\r\nJane Doe,42\r\n",
			wantRecords: []roster.Record{
				{Name: "Jane Doe", ExternalID: "42"},
			},
		},
		{
			name:  "missing external id leaves record without one",
			input: "Name,ID\nJane Doe,",
			wantRecords: []roster.Record{
				{Name: "Jane Doe"},
			},
		},
		{
			name:  "first name used when last column absent and name column empty",
			input: "Description Name,First\n,Jane",
			wantRecords: []roster.Record{
				{Name: "Jane"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, rowErrors, err := roster.Parse(tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.wantRecords, records)
			assert.Equal(t, tt.wantErrors, rowErrors)

			for _, rec := range records {
				assert.NotEmpty(t, rec.Name)
			}
		})
	}
}

func TestParse_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n", "\r\n"} {
		_, _, err := roster.Parse(input)
		assert.ErrorIs(t, err, roster.ErrEmptyInput, "input %q", input)
	}
}
