package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	// ListOffices returns the vendor's offices in creation order.
	ListOffices(ctx context.Context, vendorID string) ([]*Office, error)
	// CreateOffice appends the office unless the vendor already has limit offices,
	// in which case it returns ErrCapacityExceeded and leaves the list unchanged.
	CreateOffice(ctx context.Context, vendorID string, o *Office, limit int) error

	// ListEntries returns the vendor's entries in recording order.
	ListEntries(ctx context.Context, vendorID string) ([]*Entry, error)
	// AppendEntries stores all entries or none.
	AppendEntries(ctx context.Context, vendorID string, entries []*Entry) error

	PaidStatus(ctx context.Context, vendorID string) (PaidStatus, error)
	AddPayment(ctx context.Context, vendorID string, officeID uuid.UUID, amount decimal.Decimal) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type OfficeParams struct {
	Name   string
	Email  string
	Mobile string
}

func (p OfficeParams) validate() error {
	if p.Name == "" || p.Email == "" || p.Mobile == "" {
		return fmt.Errorf("%w: name, email and mobile are required", ErrInvalidOffice)
	}

	return nil
}

// AddOffice registers a new office for the vendor, bounded by its office limit.
func (s *Service) AddOffice(ctx context.Context, vendor *account.Account, params OfficeParams) (*Office, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Email = strings.TrimSpace(params.Email)
	params.Mobile = strings.TrimSpace(params.Mobile)

	if err := params.validate(); err != nil {
		return nil, err
	}

	o := &Office{
		ID:         uuid.New(),
		Name:       params.Name,
		Email:      params.Email,
		Mobile:     params.Mobile,
		Credential: NewCredential(params.Email, params.Mobile),
		CreatedAt:  s.now(),
	}

	if err := s.repo.CreateOffice(ctx, vendor.ID, o, vendor.MaxOffices); err != nil {
		return nil, err
	}

	slog.Info("office added", "vendor", vendor.ID, "office", o.Name, "office_id", o.ID)

	return o, nil
}

func (s *Service) Offices(ctx context.Context, vendorID string) ([]*Office, error) {
	return s.repo.ListOffices(ctx, vendorID)
}

func (s *Service) Office(ctx context.Context, vendorID string, officeID uuid.UUID) (*Office, error) {
	offices, err := s.repo.ListOffices(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	o, ok := FindOffice(offices, officeID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", officeID, ErrOfficeNotFound)
	}

	return o, nil
}

type EntryParams struct {
	OfficeID    uuid.UUID
	OfficeName  string // used when OfficeID is unset, e.g. for imported rows
	Tea         int
	Coffee      int
	TeaPrice    decimal.Decimal
	CoffeePrice decimal.Decimal
	Date        string // YYYY-MM-DD, today when empty
}

// RecordEntry appends a single delivery to the vendor's ledger.
func (s *Service) RecordEntry(ctx context.Context, vendorID string, params EntryParams) (*Entry, error) {
	entries, err := s.ImportEntries(ctx, vendorID, []EntryParams{params})
	if err != nil {
		return nil, err
	}

	return entries[0], nil
}

// ImportEntries validates every row before storing any of them.
func (s *Service) ImportEntries(ctx context.Context, vendorID string, params []EntryParams) ([]*Entry, error) {
	if len(params) == 0 {
		return nil, nil
	}

	offices, err := s.repo.ListOffices(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("listing offices: %w", err)
	}

	now := s.now()
	entries := make([]*Entry, 0, len(params))

	for i, p := range params {
		e, err := s.buildEntry(offices, p, now)
		if err != nil {
			if len(params) == 1 {
				return nil, err
			}

			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		entries = append(entries, e)
	}

	if err := s.repo.AppendEntries(ctx, vendorID, entries); err != nil {
		return nil, fmt.Errorf("appending entries: %w", err)
	}

	slog.Info("entries recorded", "vendor", vendorID, "count", len(entries))

	return entries, nil
}

func (s *Service) buildEntry(offices []*Office, p EntryParams, now time.Time) (*Entry, error) {
	var (
		office *Office
		ok     bool
	)

	if p.OfficeID != uuid.Nil {
		office, ok = FindOffice(offices, p.OfficeID)
	} else {
		office, ok = FindOfficeByName(offices, strings.TrimSpace(p.OfficeName))
	}

	if !ok {
		return nil, ErrOfficeNotFound
	}

	date := p.Date
	if date == "" {
		date = now.Format(time.DateOnly)
	}

	e := &Entry{
		ID:          uuid.New(),
		OfficeID:    office.ID,
		Office:      office.Name,
		Tea:         p.Tea,
		Coffee:      p.Coffee,
		TeaPrice:    p.TeaPrice,
		CoffeePrice: p.CoffeePrice,
		Date:        date,
		CreatedAt:   now,
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Entries(ctx context.Context, vendorID string) ([]*Entry, error) {
	return s.repo.ListEntries(ctx, vendorID)
}

func (s *Service) PaidStatus(ctx context.Context, vendorID string) (PaidStatus, error) {
	return s.repo.PaidStatus(ctx, vendorID)
}

// AddPayment increases the cumulative amount paid by an office.
func (s *Service) AddPayment(ctx context.Context, vendorID string, officeID uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("payment must not be negative: %s", amount)
	}

	if err := s.repo.AddPayment(ctx, vendorID, officeID, amount); err != nil {
		return fmt.Errorf("recording payment: %w", err)
	}

	slog.Info("payment recorded", "vendor", vendorID, "office_id", officeID, "amount", amount.StringFixed(2))

	return nil
}
