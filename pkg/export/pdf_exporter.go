package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/noah-isme/school-ledger-api/pkg/numeral"
)

const (
	bodyFont   = "body"
	lineHeight = 4.0
	minRow     = 6.0
)

// Cell is one table cell. Several lines are stacked top to bottom.
type Cell struct {
	Lines []string
	Bold  bool
	Align string
}

// Text builds a centred cell.
func Text(lines ...string) Cell { return Cell{Lines: lines, Align: "C"} }

// Left builds a left aligned cell.
func Left(lines ...string) Cell { return Cell{Lines: lines, Align: "L"} }

// Table is a bordered grid. Widths are relative and scaled to the printable width; nil means equal
// columns. LineHeight is the height of one stacked line in mm.
type Table struct {
	Headers    []string
	Widths     []float64
	Rows       [][]Cell
	LineHeight float64
}

// Page is one printed sheet.
type Page struct {
	Header []string
	Corner string
	Tables []Table
	Footer []string
}

// Document is a sequence of pages in one orientation.
type Document struct {
	Landscape bool
	Pages     []Page
}

// PDFExporter renders documents with gofpdf. Without a UTF-8 font only ASCII can be drawn, so
// Bengali digits are folded back to ASCII and other non-ASCII runes become '?'.
type PDFExporter struct {
	fontPath string
}

// NewPDFExporter constructs a PDF exporter. fontPath points at a UTF-8 TrueType font with Bengali
// glyphs and may be empty.
func NewPDFExporter(fontPath string) *PDFExporter {
	return &PDFExporter{fontPath: fontPath}
}

// Unicode reports whether Bengali text can be drawn.
func (e *PDFExporter) Unicode() bool { return e.fontPath != "" }

// Render creates the PDF bytes of doc.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("pdf requires at least one page")
	}
	orientation := "P"
	if doc.Landscape {
		orientation = "L"
	}
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)

	family := "Arial"
	if e.Unicode() {
		pdf.AddUTF8Font(bodyFont, "", e.fontPath)
		pdf.AddUTF8Font(bodyFont, "B", e.fontPath)
		family = bodyFont
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("load pdf font: %w", err)
	}

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	for _, page := range doc.Pages {
		pdf.AddPage()
		e.header(pdf, family, page, usable)
		for _, table := range page.Tables {
			e.table(pdf, family, table, usable)
			pdf.Ln(4)
		}
		e.footer(pdf, family, page.Footer, usable)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) header(pdf *gofpdf.Fpdf, family string, page Page, usable float64) {
	if page.Corner != "" {
		x, y := pdf.GetXY()
		pdf.SetFont(family, "B", 9)
		w := pdf.GetStringWidth(e.text(page.Corner)) + 4
		pdf.SetXY(x+usable-w, y)
		pdf.CellFormat(w, 6, e.text(page.Corner), "1", 0, "C", false, 0, "")
		pdf.SetXY(x, y)
	}
	for i, line := range page.Header {
		if i == 0 {
			pdf.SetFont(family, "B", 14)
			pdf.CellFormat(usable, 8, e.text(line), "", 1, "C", false, 0, "")
			continue
		}
		pdf.SetFont(family, "B", 10)
		pdf.CellFormat(usable, 6, e.text(line), "", 1, "C", false, 0, "")
	}
	if len(page.Header) > 0 {
		pdf.Ln(3)
	}
}

func (e *PDFExporter) table(pdf *gofpdf.Fpdf, family string, table Table, usable float64) {
	cols := len(table.Headers)
	if cols == 0 && len(table.Rows) > 0 {
		cols = len(table.Rows[0])
	}
	if cols == 0 {
		return
	}
	widths := scaleWidths(table.Widths, cols, usable)
	lh := table.LineHeight
	if lh <= 0 {
		lh = lineHeight
	}

	if len(table.Headers) > 0 {
		pdf.SetFont(family, "B", 8)
		pdf.SetFillColor(235, 235, 235)
		for i, h := range table.Headers {
			pdf.CellFormat(widths[i], minRow, e.text(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	for _, row := range table.Rows {
		height := minRow
		for _, cell := range row {
			if h := float64(len(cell.Lines)) * lh; h > height {
				height = h
			}
		}
		_, pageHeight := pdf.GetPageSize()
		_, _, _, bottom := pdf.GetMargins()
		if pdf.GetY()+height > pageHeight-bottom {
			pdf.AddPage()
		}
		x, y := pdf.GetXY()
		for i := 0; i < cols; i++ {
			pdf.Rect(x, y, widths[i], height, "D")
			if i < len(row) {
				e.cell(pdf, family, row[i], x, y, widths[i], height, lh)
			}
			x += widths[i]
		}
		pdf.SetXY(pdf.GetX(), y+height)
		left, _, _, _ := pdf.GetMargins()
		pdf.SetX(left)
	}
}

func (e *PDFExporter) cell(pdf *gofpdf.Fpdf, family string, cell Cell, x, y, w, h, lh float64) {
	style := ""
	if cell.Bold {
		style = "B"
	}
	pdf.SetFont(family, style, 7)
	align := cell.Align
	if align == "" {
		align = "C"
	}
	if len(cell.Lines) == 1 {
		lh = h
	}
	for i, line := range cell.Lines {
		pdf.SetXY(x, y+float64(i)*lh)
		pdf.CellFormat(w, lh, e.text(line), "", 0, align, false, 0, "")
	}
}

func (e *PDFExporter) footer(pdf *gofpdf.Fpdf, family string, labels []string, usable float64) {
	if len(labels) == 0 {
		return
	}
	pdf.Ln(14)
	pdf.SetFont(family, "B", 9)
	w := usable / float64(len(labels))
	for _, label := range labels {
		pdf.CellFormat(w, 6, e.text(label), "T", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
}

// text makes s drawable with the active font.
func (e *PDFExporter) text(s string) string {
	if e.Unicode() {
		return s
	}
	return strings.Map(func(r rune) rune {
		if r > 127 {
			return '?'
		}
		return r
	}, numeral.ToArabic(s))
}

func scaleWidths(relative []float64, cols int, usable float64) []float64 {
	widths := make([]float64, cols)
	var sum float64
	for i := 0; i < cols; i++ {
		w := 1.0
		if i < len(relative) && relative[i] > 0 {
			w = relative[i]
		}
		widths[i] = w
		sum += w
	}
	for i := range widths {
		widths[i] = widths[i] / sum * usable
	}
	return widths
}
