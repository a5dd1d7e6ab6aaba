package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVRender(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"student", "total"},
		Rows:    []map[string]string{{"student": "Rahim, A", "total": "850"}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, utf8BOM))
	assert.Equal(t, "student,total\n\"Rahim, A\",850\n", string(out[len(utf8BOM):]))

	_, err = NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFRender(t *testing.T) {
	doc := Document{
		Landscape: true,
		Pages: []Page{{
			Header: []string{"School", "Class: Five | Year: ২০২৫"},
			Corner: "Card 1",
			Tables: []Table{{
				Headers: []string{"SL", "Name", "January"},
				Widths:  []float64{1, 4, 2},
				Rows: [][]Cell{
					{Text("১"), Left("Rahim", "Karim"), Text("500", "0", "0", "0")},
				},
			}},
			Footer: []string{"Accountant", "Principal"},
		}},
	}
	out, err := NewPDFExporter("").Render(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewPDFExporter("").Render(Document{})
	assert.Error(t, err)
}

func TestPDFMissingFont(t *testing.T) {
	_, err := NewPDFExporter("/nonexistent/font.ttf").Render(Document{Pages: []Page{{Header: []string{"x"}}}})
	assert.Error(t, err)
}

func TestTextFallback(t *testing.T) {
	assert.Equal(t, "2025 ?", NewPDFExporter("").text("২০২৫ ক"))
	assert.Equal(t, "২০২৫", NewPDFExporter("font.ttf").text("২০২৫"))
}

func TestScaleWidths(t *testing.T) {
	w := scaleWidths([]float64{1, 3}, 2, 200)
	assert.InDelta(t, 50, w[0], 0.001)
	assert.InDelta(t, 150, w[1], 0.001)
	eq := scaleWidths(nil, 4, 100)
	assert.InDelta(t, 25, eq[3], 0.001)
}
