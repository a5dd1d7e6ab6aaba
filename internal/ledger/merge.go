package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/school-ledger-api/internal/models"
)

// CellEdit is a committed value for one category of one payment row.
type CellEdit struct {
	Key   models.PaymentKey
	Field models.PaymentField
	Value decimal.Decimal
}

// Merge builds the row to upsert for edit. The store replaces whole rows, so the payload carries
// every sibling category of existing and overwrites only the edited field. A missing row starts
// from zeros and is always written so the month becomes known. write is false when existing already
// holds the value.
func Merge(existing *models.Payment, edit CellEdit) (row models.Payment, write bool) {
	if existing == nil {
		base := models.Payment{StudentID: edit.Key.StudentID, Year: edit.Key.Year, Month: edit.Key.Month}
		return base.WithAmount(edit.Field, edit.Value), true
	}
	if existing.Amount(edit.Field).Equal(edit.Value) {
		return *existing, false
	}
	return existing.WithAmount(edit.Field, edit.Value), true
}

// Find returns the row with key, or nil.
func Find(payments []models.Payment, key models.PaymentKey) *models.Payment {
	for i := range payments {
		if payments[i].Key() == key {
			p := payments[i]
			return &p
		}
	}
	return nil
}

// Splice returns a new slice where row replaces every previous row with the same key.
func Splice(payments []models.Payment, row models.Payment) []models.Payment {
	key := row.Key()
	out := make([]models.Payment, 0, len(payments)+1)
	for _, p := range payments {
		if p.Key() == key {
			continue
		}
		out = append(out, p)
	}
	return append(out, row)
}
