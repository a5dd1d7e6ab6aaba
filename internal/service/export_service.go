package service

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/school-ledger-api/internal/ledger"
	"github.com/noah-isme/school-ledger-api/internal/models"
	appErrors "github.com/noah-isme/school-ledger-api/pkg/errors"
	"github.com/noah-isme/school-ledger-api/pkg/export"
	"github.com/noah-isme/school-ledger-api/pkg/numeral"
)

// Document kinds for metrics.
const (
	DocumentLedgerPDF     = "ledger_pdf"
	DocumentLedgerCSV     = "ledger_csv"
	DocumentResultCard    = "result_card"
	DocumentAdmissionForm = "admission_form"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// ExportConfig tunes printed documents.
type ExportConfig struct {
	SchoolName string
}

// ExportService lays out ledgers, result cards and admission forms as printable documents.
type ExportService struct {
	csv     csvRenderer
	pdf     pdfRenderer
	metrics *MetricsService
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService. Nil renderers fall back to the default exporters.
func NewExportService(cfg ExportConfig, metrics *MetricsService, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter("")
	}
	if cfg.SchoolName == "" {
		cfg.SchoolName = "School"
	}
	return &ExportService{csv: csv, pdf: pdf, metrics: metrics, logger: logger, cfg: cfg}
}

var categoryLabels = map[models.PaymentField]string{
	models.FieldAdmissionFee:  "Adm",
	models.FieldBackdue:       "Due",
	models.FieldSalary:        "Sal",
	models.FieldExamFee:       "Exam",
	models.FieldMiscellaneous: "Misc",
}

// LedgerPDF prints one A4 landscape page per ledger card. Every month cell stacks the five
// categories; the last page closes with the month totals of the cohort.
func (s *ExportService) LedgerPDF(grid *ledger.Grid) ([]byte, error) {
	headers := []string{"SL", "Name / Father", "Class", "Address"}
	widths := []float64{5, 20, 8, 16}
	for _, m := range models.Months {
		headers = append(headers, m[:3])
		widths = append(widths, 10)
	}
	headers = append(headers, "Total", "ID", "Signature")
	widths = append(widths, 11, 9, 12)

	title := fmt.Sprintf("Fee Ledger - Class %s %s - Year %s", grid.Filter.Class, grid.Filter.Section, numeral.ToBengali(grid.Filter.Year))
	doc := export.Document{Landscape: true}
	for _, card := range grid.Cards {
		rows := make([][]export.Cell, 0, len(card.Rows))
		for _, row := range card.Rows {
			cells := []export.Cell{
				export.Text(row.SerialDisplay),
				export.Left(studentName(row.Student), row.Student.FatherName),
				export.Text(row.Student.Class, row.Student.Section),
				export.Left(row.Student.PresentAddress),
			}
			for _, m := range models.Months {
				cells = append(cells, monthCell(row.Totals.Months[m]))
			}
			cells = append(cells, export.Cell{Lines: []string{row.GrandTotalDisplay}, Bold: true, Align: "C"}, export.Text(numeral.ToBengali(row.Student.SLNo)), export.Text(""))
			rows = append(rows, cells)
		}
		doc.Pages = append(doc.Pages, export.Page{
			Header: []string{s.cfg.SchoolName, title},
			Corner: "Card " + card.NumberDisplay,
			Tables: []export.Table{{Headers: headers, Widths: widths, Rows: rows, LineHeight: 3}},
		})
	}

	totals := []export.Cell{export.Text(""), export.Cell{Lines: []string{"Month total"}, Bold: true, Align: "L"}, export.Text(""), export.Text("")}
	for _, m := range models.Months {
		totals = append(totals, monthCell(grid.Months[m].Categories))
	}
	totals = append(totals, export.Cell{Lines: []string{grid.GrandTotalDisplay}, Bold: true, Align: "C"}, export.Text(""), export.Text(""))
	if len(doc.Pages) == 0 {
		doc.Pages = append(doc.Pages, export.Page{
			Header: []string{s.cfg.SchoolName, title},
			Tables: []export.Table{{Headers: headers, Widths: widths, LineHeight: 3}},
		})
	}
	last := &doc.Pages[len(doc.Pages)-1]
	last.Tables = append(last.Tables, export.Table{Widths: widths, Rows: [][]export.Cell{totals}, LineHeight: 3})
	last.Footer = []string{"Accountant", "Head Teacher"}

	return s.renderPDF(DocumentLedgerPDF, doc)
}

// LedgerCSV exports one line per student with every month and category as ASCII decimals.
func (s *ExportService) LedgerCSV(grid *ledger.Grid) ([]byte, error) {
	headers := []string{"serial", "sl_no", "name_bengali", "name_english", "class", "section"}
	for _, m := range models.Months {
		for _, f := range models.PaymentFields {
			headers = append(headers, m+" "+string(f))
		}
	}
	headers = append(headers, "total")

	data := export.Dataset{Headers: headers}
	for _, card := range grid.Cards {
		for _, row := range card.Rows {
			record := map[string]string{
				"serial":       strconv.Itoa(row.Serial),
				"sl_no":        row.Student.SLNo,
				"name_bengali": row.Student.NameBengali,
				"name_english": row.Student.NameEnglish,
				"class":        row.Student.Class,
				"section":      row.Student.Section,
				"total":        row.Totals.GrandTotal.StringFixed(2),
			}
			for _, m := range models.Months {
				amounts := row.Totals.Months[m]
				for _, f := range models.PaymentFields {
					record[m+" "+string(f)] = amounts.Get(f).StringFixed(2)
				}
			}
			data.Rows = append(data.Rows, record)
		}
	}

	payload, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render ledger csv")
	}
	s.metrics.RecordDocument(DocumentLedgerCSV)
	return payload, nil
}

// ResultCardPDF prints the cumulative card of a session on A4 portrait, with the exam summaries
// and the grading legend of the student's cohort.
func (s *ExportService) ResultCardPDF(card *ResultCardView) ([]byte, error) {
	st := card.Student
	info := export.Table{
		Widths: []float64{1, 3, 1, 3},
		Rows: [][]export.Cell{
			{export.Left("Name"), export.Left(studentName(st)), export.Left("Roll"), export.Left(numeral.ToBengali(st.SLNo))},
			{export.Left("Father"), export.Left(st.FatherName), export.Left("Mother"), export.Left(st.MotherName)},
			{export.Left("Class"), export.Left(st.Class), export.Left("Section"), export.Left(st.Section)},
		},
	}

	headers := []string{"Subject", "Max"}
	widths := []float64{6, 1.5}
	for _, exam := range models.ExamTypes {
		headers = append(headers, exam+" Marks", "Grade", "GP")
		widths = append(widths, 2, 1.2, 1.2)
	}
	marks := export.Table{Headers: headers, Widths: widths}
	for _, row := range card.Rows {
		cells := []export.Cell{export.Left(row.Subject), export.Text(formatMark(row.MaxMarks))}
		for _, exam := range models.ExamTypes {
			r := row.Exams[exam]
			if r == nil {
				cells = append(cells, export.Text("-"), export.Text("-"), export.Text("-"))
				continue
			}
			cells = append(cells, export.Text(formatMark(r.TotalMarks)), export.Text(r.Grade), export.Text(formatPoint(r.GradePoint)))
		}
		marks.Rows = append(marks.Rows, cells)
	}

	summary := export.Table{Headers: []string{"Exam", "Total Marks", "Total Grade Points", "GPA"}}
	for _, sum := range card.Summary {
		summary.Rows = append(summary.Rows, []export.Cell{
			export.Left(sum.ExamType),
			export.Text(formatMark(sum.TotalMarks)),
			export.Text(formatPoint(sum.TotalGradePoints)),
			{Lines: []string{formatPoint(sum.GPA)}, Bold: true, Align: "C"},
		})
	}

	legend := export.Table{Headers: []string{"Marks (%)", "Grade", "Point"}}
	upper := 100.0
	for _, tier := range card.Legend {
		legend.Rows = append(legend.Rows, []export.Cell{
			export.Text(formatMark(tier.MinPercent) + "-" + formatMark(upper)),
			export.Text(tier.Grade),
			export.Text(formatPoint(tier.Point)),
		})
		upper = tier.MinPercent - 1
	}

	doc := export.Document{Pages: []export.Page{{
		Header: []string{s.cfg.SchoolName, "Progress Report", "Session " + numeral.ToBengali(card.Session)},
		Tables: []export.Table{info, marks, summary, legend},
		Footer: []string{"Class Teacher", "Guardian", "Head Teacher"},
	}}}
	return s.renderPDF(DocumentResultCard, doc)
}

// AdmissionFormPDF prints the admission record of a student on A4 portrait.
func (s *ExportService) AdmissionFormPDF(st *models.Student) ([]byte, error) {
	field := func(label, value string) []export.Cell {
		return []export.Cell{{Lines: []string{label}, Bold: true, Align: "L"}, export.Left(value)}
	}
	form := export.Table{
		Widths: []float64{1, 3},
		Rows: [][]export.Cell{
			field("Name (Bengali)", st.NameBengali),
			field("Name (English)", st.NameEnglish),
			field("Father's name", st.FatherName),
			field("Father's occupation", st.FatherOccupation),
			field("Mother's name", st.MotherName),
			field("Mother's occupation", st.MotherOccupation),
			field("Present address", st.PresentAddress),
			field("Present phone", numeral.ToBengali(st.PresentPhone)),
			field("Permanent address", st.PermanentAddress),
			field("Permanent phone", numeral.ToBengali(st.PermanentPhone)),
			field("Date of birth", numeral.ToBengali(st.DateOfBirth)),
			field("Class", st.Class),
			field("Section", st.Section),
			field("Shift", st.Shift),
			field("Previous institute", st.PreviousInstitute),
			field("Previous address", st.PreviousAddress),
			field("Previous class", st.PreviousClass),
		},
	}
	doc := export.Document{Pages: []export.Page{{
		Header: []string{s.cfg.SchoolName, "Admission Form", "Session " + numeral.ToBengali(st.Session)},
		Corner: "SL " + numeral.ToBengali(st.SLNo),
		Tables: []export.Table{form},
		Footer: []string{"Guardian", "Head Teacher"},
	}}}
	return s.renderPDF(DocumentAdmissionForm, doc)
}

func (s *ExportService) renderPDF(kind string, doc export.Document) ([]byte, error) {
	payload, err := s.pdf.Render(doc)
	if err != nil {
		s.logger.Error("pdf render failed", zap.String("kind", kind), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render document")
	}
	s.metrics.RecordDocument(kind)
	return payload, nil
}

func monthCell(a ledger.Amounts) export.Cell {
	lines := make([]string, len(models.PaymentFields))
	for i, f := range models.PaymentFields {
		lines[i] = categoryLabels[f] + " " + numeral.FormatCurrency(a.Get(f))
	}
	return export.Cell{Lines: lines, Align: "L"}
}

func studentName(st models.Student) string {
	if st.NameBengali != "" {
		return st.NameBengali
	}
	return st.NameEnglish
}

func formatMark(v float64) string {
	return numeral.ToBengali(strings.TrimSuffix(strings.TrimRight(strconv.FormatFloat(v, 'f', 2, 64), "0"), "."))
}

func formatPoint(v float64) string {
	return numeral.ToBengali(strconv.FormatFloat(v, 'f', 2, 64))
}
