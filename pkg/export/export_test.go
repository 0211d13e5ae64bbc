package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Programmes",
		Headers: []string{"Course", "Code", "Points"},
		Rows: [][]string{
			{"Computer Science", "BSC-CS", "12"},
			{"History, Modern", "BA-HIST"},
		},
	}
}

func TestCSVExporterAlignsRows(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "Course,Code,Points\nComputer Science,BSC-CS,12\n\"History, Modern\",BA-HIST,\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRendersDocument(t *testing.T) {
	data := sampleDataset()
	for i := 0; i < 80; i++ {
		data.Rows = append(data.Rows, []string{strings.Repeat("x", 70), "CODE", "1"})
	}
	out, err := NewPDFExporter().Render(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestColumnWidthsFillTotal(t *testing.T) {
	widths := columnWidths(sampleDataset(), 190)
	require.Len(t, widths, 3)
	var sum float64
	for _, w := range widths {
		sum += w
	}
	assert.InDelta(t, 190, sum, 0.001)
	assert.Greater(t, widths[0], widths[2])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate(" abc ", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
}
