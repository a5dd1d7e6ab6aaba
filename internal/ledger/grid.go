package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/school-ledger-api/internal/models"
	"github.com/noah-isme/school-ledger-api/pkg/numeral"
)

// DefaultCardSize is the number of students printed per ledger card.
const DefaultCardSize = 10

// Chunk splits items into consecutive groups of size. The last group may be shorter.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = DefaultCardSize
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[i:end])
	}
	return chunks
}

// Row is one student line of a ledger card.
type Row struct {
	Serial            int            `json:"serial"`
	SerialDisplay     string         `json:"serial_display"`
	Student           models.Student `json:"student"`
	Totals            StudentTotals  `json:"totals"`
	GrandTotalDisplay string         `json:"grand_total_display"`
}

// Card is one printed page of the ledger.
type Card struct {
	Number        int    `json:"number"`
	NumberDisplay string `json:"number_display"`
	Rows          []Row  `json:"rows"`
}

// Grid is the renderable ledger for a cohort and year.
type Grid struct {
	Filter            Filter                 `json:"filter"`
	Cards             []Card                 `json:"cards"`
	Months            map[string]MonthTotals `json:"months"`
	Categories        Amounts                `json:"categories"`
	GrandTotal        decimal.Decimal        `json:"grand_total"`
	GrandTotalDisplay string                 `json:"grand_total_display"`
}

// BuildGrid lays the summary out in cards of cardSize students, numbering rows across cards.
func BuildGrid(filter Filter, students []models.Student, summary Summary, cardSize int) Grid {
	if cardSize <= 0 {
		cardSize = DefaultCardSize
	}
	grid := Grid{
		Filter:            filter,
		Cards:             []Card{},
		Months:            summary.Months,
		Categories:        summary.Categories,
		GrandTotal:        summary.GrandTotal,
		GrandTotalDisplay: numeral.FormatCurrency(summary.GrandTotal),
	}
	for cardIdx, chunk := range Chunk(students, cardSize) {
		card := Card{Number: cardIdx + 1, NumberDisplay: numeral.FormatInt(cardIdx + 1), Rows: make([]Row, len(chunk))}
		for i, s := range chunk {
			serial := cardIdx*cardSize + i + 1
			totals := summary.Students[s.ID]
			card.Rows[i] = Row{
				Serial:            serial,
				SerialDisplay:     numeral.FormatInt(serial),
				Student:           s,
				Totals:            totals,
				GrandTotalDisplay: numeral.FormatCurrency(totals.GrandTotal),
			}
		}
		grid.Cards = append(grid.Cards, card)
	}
	return grid
}
