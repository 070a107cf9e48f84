package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
)

// ErrNoData marks an empty report or entry list. Callers show it as information.
var ErrNoData = errors.New("no data found")

// Service derives reports, dues and bills from a vendor's ledger.
type Service struct {
	ledger *ledger.Service
}

func NewService(l *ledger.Service) *Service {
	return &Service{ledger: l}
}

// Report aggregates the office entries selected by f.
func (s *Service) Report(ctx context.Context, vendorID string, f Filter) (*Report, error) {
	if _, err := s.ledger.Office(ctx, vendorID, f.OfficeID); err != nil {
		return nil, err
	}

	entries, err := s.ledger.Entries(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	return Summarize(entries, f)
}

// MarkPaid adds the report total to the office's cumulative payments and returns
// the new paid amount. The report's date filter is not remembered, so marking
// overlapping ranges twice counts the same entries twice.
func (s *Service) MarkPaid(ctx context.Context, vendorID string, r *Report) (decimal.Decimal, error) {
	if r == nil || r.Empty() {
		return decimal.Zero, ErrNoData
	}

	if err := s.ledger.AddPayment(ctx, vendorID, r.Filter.OfficeID, r.Total); err != nil {
		return decimal.Zero, err
	}

	paid, err := s.ledger.PaidStatus(ctx, vendorID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("reading paid status: %w", err)
	}

	return paid.Paid(r.Filter.OfficeID), nil
}

// Dashboard is the vendor's overview.
type Dashboard struct {
	Offices int
	Entries int
	Dues    []Due
}

func (s *Service) Dashboard(ctx context.Context, vendorID string) (*Dashboard, error) {
	offices, err := s.ledger.Offices(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("listing offices: %w", err)
	}

	entries, err := s.ledger.Entries(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	paid, err := s.ledger.PaidStatus(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("reading paid status: %w", err)
	}

	dues, err := Dues(offices, entries, paid)
	if err != nil {
		return nil, err
	}

	return &Dashboard{Offices: len(offices), Entries: len(entries), Dues: dues}, nil
}

// Bill is what an office sees: every entry it was served plus its balance.
type Bill struct {
	Office *ledger.Office
	Report *Report
	Paid   decimal.Decimal
	Due    decimal.Decimal
}

func (b *Bill) Empty() bool {
	return b.Report.Empty()
}

func (s *Service) OfficeBill(ctx context.Context, vendorID string, officeID uuid.UUID) (*Bill, error) {
	office, err := s.ledger.Office(ctx, vendorID, officeID)
	if err != nil {
		return nil, err
	}

	entries, err := s.ledger.Entries(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	report, err := Summarize(entries, Filter{OfficeID: officeID})
	if err != nil {
		return nil, err
	}

	paid, err := s.ledger.PaidStatus(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("reading paid status: %w", err)
	}

	p := paid.Paid(officeID)

	return &Bill{
		Office: office,
		Report: report,
		Paid:   p,
		Due:    report.Total.Sub(p),
	}, nil
}
