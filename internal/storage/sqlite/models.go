package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
)

type accountRow struct {
	ID              string `gorm:"primaryKey"`
	Secret          string `gorm:"not null"`
	Role            string `gorm:"size:16;not null"`
	SubscriptionEnd *time.Time
	MaxOffices      int    `gorm:"not null;default:0"`
	Address         string `gorm:"not null;default:''"`
	CreatedAt       time.Time
}

func (accountRow) TableName() string { return "accounts" }

func toAccountRow(a *account.Account) accountRow {
	row := accountRow{
		ID:         a.ID,
		Secret:     a.Secret,
		Role:       string(a.Role),
		MaxOffices: a.MaxOffices,
		Address:    a.Address,
	}

	if a.IsVendor() && !a.SubscriptionEnd.IsZero() {
		end := a.SubscriptionEnd.UTC()
		row.SubscriptionEnd = &end
	}

	return row
}

func (r accountRow) toAccount() *account.Account {
	a := &account.Account{
		ID:         r.ID,
		Secret:     r.Secret,
		Role:       account.Role(r.Role),
		MaxOffices: r.MaxOffices,
		Address:    r.Address,
	}

	if r.SubscriptionEnd != nil {
		a.SubscriptionEnd = r.SubscriptionEnd.UTC()
	}

	return a
}

// Seq keeps insertion order; ids are random.
type officeRow struct {
	Seq       uint   `gorm:"primaryKey;autoIncrement"`
	ID        string `gorm:"size:36;uniqueIndex;not null"`
	VendorID  string `gorm:"index;not null"`
	Name      string `gorm:"not null"`
	Email     string
	Mobile    string
	Logins    string `gorm:"not null;default:'[]'"`
	Secret    string `gorm:"not null"`
	CreatedAt time.Time
}

func (officeRow) TableName() string { return "offices" }

func toOfficeRow(vendorID string, o *ledger.Office) (officeRow, error) {
	logins, err := json.Marshal(o.Credential.Logins)
	if err != nil {
		return officeRow{}, fmt.Errorf("encoding logins: %w", err)
	}

	return officeRow{
		ID:        o.ID.String(),
		VendorID:  vendorID,
		Name:      o.Name,
		Email:     o.Email,
		Mobile:    o.Mobile,
		Logins:    string(logins),
		Secret:    o.Credential.Secret,
		CreatedAt: o.CreatedAt,
	}, nil
}

func (r officeRow) toOffice() (*ledger.Office, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("office id %q: %w", r.ID, err)
	}

	o := &ledger.Office{
		ID:        id,
		Name:      r.Name,
		Email:     r.Email,
		Mobile:    r.Mobile,
		CreatedAt: r.CreatedAt,
	}
	o.Credential.Secret = r.Secret

	if err := json.Unmarshal([]byte(r.Logins), &o.Credential.Logins); err != nil {
		return nil, fmt.Errorf("decoding logins: %w", err)
	}

	return o, nil
}

// Prices are stored as decimal strings.
type entryRow struct {
	Seq         uint   `gorm:"primaryKey;autoIncrement"`
	ID          string `gorm:"size:36;uniqueIndex;not null"`
	VendorID    string `gorm:"index;not null"`
	OfficeID    string `gorm:"size:36;index;not null"`
	OfficeName  string `gorm:"not null"`
	Tea         int    `gorm:"not null"`
	Coffee      int    `gorm:"not null"`
	TeaPrice    string `gorm:"not null"`
	CoffeePrice string `gorm:"not null"`
	Date        string `gorm:"size:10;not null"`
	CreatedAt   time.Time
}

func (entryRow) TableName() string { return "entries" }

func toEntryRow(vendorID string, e *ledger.Entry) entryRow {
	return entryRow{
		ID:          e.ID.String(),
		VendorID:    vendorID,
		OfficeID:    e.OfficeID.String(),
		OfficeName:  e.Office,
		Tea:         e.Tea,
		Coffee:      e.Coffee,
		TeaPrice:    e.TeaPrice.String(),
		CoffeePrice: e.CoffeePrice.String(),
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
	}
}

func (r entryRow) toEntry() (*ledger.Entry, error) {
	var (
		e   = &ledger.Entry{Office: r.OfficeName, Tea: r.Tea, Coffee: r.Coffee, Date: r.Date, CreatedAt: r.CreatedAt}
		err error
	)

	if e.ID, err = uuid.Parse(r.ID); err != nil {
		return nil, fmt.Errorf("entry id %q: %w", r.ID, err)
	}

	if e.OfficeID, err = uuid.Parse(r.OfficeID); err != nil {
		return nil, fmt.Errorf("entry office id %q: %w", r.OfficeID, err)
	}

	if e.TeaPrice, err = decimal.NewFromString(r.TeaPrice); err != nil {
		return nil, fmt.Errorf("entry %s tea price: %w", r.ID, err)
	}

	if e.CoffeePrice, err = decimal.NewFromString(r.CoffeePrice); err != nil {
		return nil, fmt.Errorf("entry %s coffee price: %w", r.ID, err)
	}

	return e, nil
}

type paymentRow struct {
	VendorID string `gorm:"primaryKey"`
	OfficeID string `gorm:"primaryKey;size:36"`
	Amount   string `gorm:"not null"`
}

func (paymentRow) TableName() string { return "paid_status" }

func autoMigrate() []any {
	return []any{&accountRow{}, &officeRow{}, &entryRow{}, &paymentRow{}}
}
