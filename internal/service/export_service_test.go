package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-ledger-api/internal/grading"
	"github.com/noah-isme/school-ledger-api/internal/ledger"
	"github.com/noah-isme/school-ledger-api/internal/models"
	appErrors "github.com/noah-isme/school-ledger-api/pkg/errors"
	"github.com/noah-isme/school-ledger-api/pkg/export"
)

type capturePDF struct {
	doc export.Document
	err error
}

func (c *capturePDF) Render(doc export.Document) ([]byte, error) {
	c.doc = doc
	if c.err != nil {
		return nil, c.err
	}
	return []byte("%PDF-fake"), nil
}

func gridFixture(n int) *ledger.Grid {
	students := make([]models.Student, n)
	for i := range students {
		students[i] = models.Student{ID: fmt.Sprintf("s%d", i), SLNo: fmt.Sprint(i + 1), NameEnglish: fmt.Sprintf("Student %d", i+1), Class: "Five", Section: "A"}
	}
	payments := []models.Payment{
		{StudentID: "s0", Year: "2025", Month: "January", Salary: amount(500)},
		{StudentID: "s0", Year: "2025", Month: "February", Salary: amount(300), Backdue: amount(50)},
	}
	filter := ledger.Filter{Class: "Five", Section: "A", Year: "2025"}
	var ps []models.Payment
	if n > 0 {
		ps = payments
	}
	grid := ledger.BuildGrid(filter, students, ledger.Aggregate("2025", students, ps), 10)
	return &grid
}

func TestExportServiceLedgerPDFLayout(t *testing.T) {
	pdf := &capturePDF{}
	metrics := NewMetricsService()
	svc := NewExportService(ExportConfig{SchoolName: "Model School"}, metrics, nil, nil, pdf)

	out, err := svc.LedgerPDF(gridFixture(23))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(out))

	doc := pdf.doc
	assert.True(t, doc.Landscape)
	require.Len(t, doc.Pages, 3)
	assert.Equal(t, "Model School", doc.Pages[0].Header[0])
	assert.Equal(t, "Card ১", doc.Pages[0].Corner)

	table := doc.Pages[0].Tables[0]
	assert.Len(t, table.Headers, 19)
	assert.Len(t, table.Rows, 10)
	jan := table.Rows[0][4]
	require.Len(t, jan.Lines, 5)
	assert.Equal(t, "Sal ৫০০", jan.Lines[2])
	assert.Equal(t, "৮৫০", table.Rows[0][16].Lines[0])

	last := doc.Pages[2]
	assert.Len(t, last.Tables[0].Rows, 3)
	require.Len(t, last.Tables, 2)
	assert.Equal(t, "Due ৫০", last.Tables[1].Rows[0][5].Lines[1])
	assert.Equal(t, []string{"Accountant", "Head Teacher"}, last.Footer)
	assert.Empty(t, doc.Pages[0].Footer)
	assert.Equal(t, uint64(1), metrics.Snapshot().DocumentsRendered)
}

func TestExportServiceLedgerPDFEmptyCohort(t *testing.T) {
	pdf := &capturePDF{}
	svc := NewExportService(ExportConfig{}, nil, nil, nil, pdf)

	_, err := svc.LedgerPDF(gridFixture(0))
	require.NoError(t, err)
	require.Len(t, pdf.doc.Pages, 1)
	assert.Len(t, pdf.doc.Pages[0].Tables, 2)
}

func TestExportServiceLedgerPDFRendersRealDocument(t *testing.T) {
	svc := NewExportService(ExportConfig{SchoolName: "Model School"}, nil, nil, nil, nil)

	out, err := svc.LedgerPDF(gridFixture(3))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestExportServiceLedgerCSV(t *testing.T) {
	svc := NewExportService(ExportConfig{}, nil, nil, nil, nil)

	out, err := svc.LedgerCSV(gridFixture(2))
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(out, []byte{0xEF, 0xBB, 0xBF}))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	header := records[0]
	assert.Len(t, header, 6+12*5+1)
	assert.Equal(t, "January admission_fee", header[6])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "500.00", records[1][8])
	assert.Equal(t, "850.00", records[1][len(header)-1])
	assert.Equal(t, "0.00", records[2][len(header)-1])
}

func TestExportServiceResultCardPDF(t *testing.T) {
	pdf := &capturePDF{}
	svc := NewExportService(ExportConfig{SchoolName: "Model School"}, nil, nil, nil, pdf)
	catalogue := []models.Subject{{Name: "Math", TotalMarks: 100}, {Name: "Drawing", TotalMarks: 50}}
	rows := []models.ResultCard{{Subject: "Math", ExamType: models.ExamAnnual, TotalMarks: 82, Grade: "A+", GradePoint: 5}}
	card := &ResultCardView{
		Student: models.Student{NameEnglish: "Rahim", Class: "Seven", SLNo: "4"},
		Session: "2025",
		Rows:    grading.Card(rows, catalogue),
		Summary: grading.Summarize(rows, catalogue),
		Legend:  grading.GradingIndex(grading.CohortSenior),
	}

	_, err := svc.ResultCardPDF(card)
	require.NoError(t, err)
	require.Len(t, pdf.doc.Pages, 1)
	page := pdf.doc.Pages[0]
	assert.False(t, pdf.doc.Landscape)
	require.Len(t, page.Tables, 4)

	marks := page.Tables[1]
	assert.Len(t, marks.Headers, 11)
	require.Len(t, marks.Rows, 2)
	assert.Equal(t, "-", marks.Rows[0][2].Lines[0])
	assert.Equal(t, "৮২", marks.Rows[0][8].Lines[0])
	assert.Equal(t, "A+", marks.Rows[0][9].Lines[0])

	summary := page.Tables[2]
	assert.Equal(t, "২.৫০", summary.Rows[2][3].Lines[0])

	legend := page.Tables[3]
	assert.Equal(t, "৮০-১০০", legend.Rows[0][0].Lines[0])
	assert.Equal(t, "৭০-৭৯", legend.Rows[1][0].Lines[0])
	assert.Equal(t, "০-৩২", legend.Rows[6][0].Lines[0])
}

func TestExportServiceAdmissionFormPDF(t *testing.T) {
	pdf := &capturePDF{}
	svc := NewExportService(ExportConfig{}, nil, nil, nil, pdf)

	_, err := svc.AdmissionFormPDF(&models.Student{NameBengali: "রহিম", DateOfBirth: "2015-03-04", Session: "2025", SLNo: "12"})
	require.NoError(t, err)
	page := pdf.doc.Pages[0]
	assert.Equal(t, "SL ১২", page.Corner)
	assert.Equal(t, "২০১৫-০৩-০৪", page.Tables[0].Rows[10][1].Lines[0])
}

func TestExportServiceRenderFailure(t *testing.T) {
	svc := NewExportService(ExportConfig{}, nil, nil, nil, &capturePDF{err: errors.New("font missing")})

	_, err := svc.AdmissionFormPDF(&models.Student{})
	assert.Equal(t, http.StatusInternalServerError, appErrors.FromError(err).Status)
}
