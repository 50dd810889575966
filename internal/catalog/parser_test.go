package catalog

import (
	"errors"
	"strings"
	"testing"

	"fantamatto_bot/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantEntries []model.CatalogEntry
		wantSkipped []string
	}{
		{
			name:        "basic",
			input:       "A,10\nB, 3\n",
			wantEntries: []model.CatalogEntry{{Name: "A", Points: 10}, {Name: "B", Points: 3}},
		},
		{
			name:        "blank lines and padding",
			input:       "\n   \n  Gino  ,  20  \n\n",
			wantEntries: []model.CatalogEntry{{Name: "Gino", Points: 20}},
		},
		{
			name:        "split on first comma only",
			input:       "Tizio, detto Caio,5",
			wantSkipped: []string{ReasonBadPoints},
		},
		{
			name:        "byte order mark",
			input:       "\ufeffA,1\r\nB,2\r\n",
			wantEntries: []model.CatalogEntry{{Name: "A", Points: 1}, {Name: "B", Points: 2}},
		},
		{
			name:        "missing comma",
			input:       "no comma here\nA,1",
			wantEntries: []model.CatalogEntry{{Name: "A", Points: 1}},
			wantSkipped: []string{ReasonNoComma},
		},
		{
			name:        "empty name",
			input:       " ,4",
			wantSkipped: []string{ReasonEmptyName},
		},
		{
			name:        "bad and non positive points",
			input:       "A,abc\nB,0\nC,-3\nD,2.5\nE,7",
			wantEntries: []model.CatalogEntry{{Name: "E", Points: 7}},
			wantSkipped: []string{ReasonBadPoints, ReasonNonPositive, ReasonNonPositive, ReasonBadPoints},
		},
		{
			name:        "duplicate keeps first",
			input:       "A,10\nB,3\nA,99",
			wantEntries: []model.CatalogEntry{{Name: "A", Points: 10}, {Name: "B", Points: 3}},
			wantSkipped: []string{ReasonDuplicateName},
		},
		{
			name:        "over-long name",
			input:       strings.Repeat("è", MaxNameLen+1) + ",5\n" + strings.Repeat("è", MaxNameLen) + ",6",
			wantEntries: []model.CatalogEntry{{Name: strings.Repeat("è", MaxNameLen), Points: 6}},
			wantSkipped: []string{ReasonNameTooLong},
		},
		{
			name:        "names are case sensitive",
			input:       "gino,1\nGino,2",
			wantEntries: []model.CatalogEntry{{Name: "gino", Points: 1}, {Name: "Gino", Points: 2}},
		},
		{
			name:  "empty input",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParseString(tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.wantEntries, res.Entries)

			reasons := make([]string, 0, len(res.Skipped))
			for _, s := range res.Skipped {
				reasons = append(reasons, s.Reason)
			}
			if tt.wantSkipped == nil {
				assert.Empty(t, reasons)
			} else {
				assert.Equal(t, tt.wantSkipped, reasons)
			}
		})
	}
}

func TestParse_SkippedLineNumbers(t *testing.T) {
	res, err := ParseString("A,1\n\nbroken\nA,2")
	require.NoError(t, err)

	require.Len(t, res.Skipped, 2)
	assert.Equal(t, SkippedLine{Line: 3, Text: "broken", Reason: ReasonNoComma}, res.Skipped[0])
	assert.Equal(t, 4, res.Skipped[1].Line)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestParse_ReadError(t *testing.T) {
	_, err := Parse(failingReader{})
	assert.ErrorContains(t, err, "disk on fire")
}

func TestParse_LineTooLong(t *testing.T) {
	_, err := ParseString(strings.Repeat("x", maxLineSize+1) + ",1")
	assert.Error(t, err)
}
