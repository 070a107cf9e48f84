package ledger

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry is one recorded delivery of tea and coffee. Entries are append-only.
type Entry struct {
	ID          uuid.UUID
	OfficeID    uuid.UUID
	Office      string // office name when the entry was recorded
	Tea         int
	Coffee      int
	TeaPrice    decimal.Decimal
	CoffeePrice decimal.Decimal
	Date        string // YYYY-MM-DD
	CreatedAt   time.Time
}

// Amount is tea×tea price + coffee×coffee price, without rounding.
func (e *Entry) Amount() decimal.Decimal {
	tea := decimal.NewFromInt(int64(e.Tea)).Mul(e.TeaPrice)
	coffee := decimal.NewFromInt(int64(e.Coffee)).Mul(e.CoffeePrice)

	return tea.Add(coffee)
}

// Cups is the number of tea and coffee cups delivered.
func (e *Entry) Cups() int {
	return e.Tea + e.Coffee
}

// Validate rejects entries that cannot be billed.
func (e *Entry) Validate() error {
	switch {
	case e.Tea < 0:
		return malformed("tea", "must not be negative")
	case e.Coffee < 0:
		return malformed("coffee", "must not be negative")
	case e.TeaPrice.IsNegative():
		return malformed("tea_price", "must not be negative")
	case e.CoffeePrice.IsNegative():
		return malformed("coffee_price", "must not be negative")
	case e.Date == "":
		return malformed("date", "is missing")
	}

	if _, err := time.Parse(time.DateOnly, e.Date); err != nil {
		return malformed("date", "must be YYYY-MM-DD")
	}

	return nil
}

func malformed(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrMalformedEntry, field, reason)
}

// entryJSON keeps the keys of the legacy entries file; quantities and prices
// are pointers so that a missing field is told apart from a zero.
type entryJSON struct {
	ID          uuid.UUID        `json:"id"`
	OfficeID    uuid.UUID        `json:"office_id"`
	Office      string           `json:"office"`
	Tea         *int             `json:"tea"`
	Coffee      *int             `json:"coffee"`
	TeaPrice    *decimal.Decimal `json:"tea_price"`
	CoffeePrice *decimal.Decimal `json:"coffee_price"`
	Date        *string          `json:"date"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{
		ID:          e.ID,
		OfficeID:    e.OfficeID,
		Office:      e.Office,
		Tea:         &e.Tea,
		Coffee:      &e.Coffee,
		TeaPrice:    &e.TeaPrice,
		CoffeePrice: &e.CoffeePrice,
		Date:        &e.Date,
		CreatedAt:   e.CreatedAt,
	})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedEntry, err)
	}

	switch {
	case raw.Tea == nil:
		return malformed("tea", "is missing")
	case raw.Coffee == nil:
		return malformed("coffee", "is missing")
	case raw.TeaPrice == nil:
		return malformed("tea_price", "is missing")
	case raw.CoffeePrice == nil:
		return malformed("coffee_price", "is missing")
	case raw.Date == nil:
		return malformed("date", "is missing")
	}

	*e = Entry{
		ID:          raw.ID,
		OfficeID:    raw.OfficeID,
		Office:      raw.Office,
		Tea:         *raw.Tea,
		Coffee:      *raw.Coffee,
		TeaPrice:    *raw.TeaPrice,
		CoffeePrice: *raw.CoffeePrice,
		Date:        *raw.Date,
		CreatedAt:   raw.CreatedAt,
	}

	return nil
}
