package file

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
)

// legacyNamespace seeds the ids given to records written before offices and
// entries carried their own. Derived ids are stable across reads.
var legacyNamespace = uuid.MustParse("6f1c7e0a-5b7d-4c2e-9a53-0c6b7d1e2f40")

func legacyID(vendorID, kind string, index int, name string) uuid.UUID {
	return uuid.NewSHA1(legacyNamespace, []byte(vendorID+"/"+kind+"/"+strconv.Itoa(index)+"/"+name))
}

func (s *Store) ListOffices(ctx context.Context, vendorID string) ([]*ledger.Office, error) {
	dir, err := s.vendorDir(vendorID)
	if err != nil {
		return nil, err
	}

	return loadOffices(vendorID, dir)
}

func loadOffices(vendorID, dir string) ([]*ledger.Office, error) {
	var offices []*ledger.Office
	if err := readJSON(filepath.Join(dir, officesFile), &offices); err != nil {
		return nil, err
	}

	for i, o := range offices {
		if o.ID == uuid.Nil {
			o.ID = legacyID(vendorID, "office", i, o.Name)
		}

		if len(o.Credential.Logins) == 0 && o.Credential.Secret == "" {
			o.Credential = ledger.NewCredential(o.Email, o.Mobile)
		}
	}

	return offices, nil
}

func (s *Store) CreateOffice(ctx context.Context, vendorID string, o *ledger.Office, limit int) error {
	return s.withVendor(ctx, vendorID, func(dir string) error {
		offices, err := loadOffices(vendorID, dir)
		if err != nil {
			return err
		}

		if len(offices) >= limit {
			return fmt.Errorf("%d of %d offices: %w", len(offices), limit, ledger.ErrCapacityExceeded)
		}

		return writeJSON(filepath.Join(dir, officesFile), append(offices, o))
	})
}

func (s *Store) ListEntries(ctx context.Context, vendorID string) ([]*ledger.Entry, error) {
	dir, err := s.vendorDir(vendorID)
	if err != nil {
		return nil, err
	}

	offices, err := loadOffices(vendorID, dir)
	if err != nil {
		return nil, err
	}

	return loadEntries(vendorID, dir, offices)
}

// loadEntries resolves entries recorded by office name to the first office with
// that name.
func loadEntries(vendorID, dir string, offices []*ledger.Office) ([]*ledger.Entry, error) {
	var entries []*ledger.Entry
	if err := readJSON(filepath.Join(dir, entriesFile), &entries); err != nil {
		return nil, err
	}

	for i, e := range entries {
		if e.ID == uuid.Nil {
			e.ID = legacyID(vendorID, "entry", i, e.Office)
		}

		if e.OfficeID == uuid.Nil {
			if o, ok := ledger.FindOfficeByName(offices, e.Office); ok {
				e.OfficeID = o.ID
			}
		}
	}

	return entries, nil
}

func (s *Store) AppendEntries(ctx context.Context, vendorID string, entries []*ledger.Entry) error {
	return s.withVendor(ctx, vendorID, func(dir string) error {
		offices, err := loadOffices(vendorID, dir)
		if err != nil {
			return err
		}

		existing, err := loadEntries(vendorID, dir, offices)
		if err != nil {
			return err
		}

		return writeJSON(filepath.Join(dir, entriesFile), append(existing, entries...))
	})
}

func (s *Store) PaidStatus(ctx context.Context, vendorID string) (ledger.PaidStatus, error) {
	dir, err := s.vendorDir(vendorID)
	if err != nil {
		return nil, err
	}

	offices, err := loadOffices(vendorID, dir)
	if err != nil {
		return nil, err
	}

	return loadPaid(vendorID, dir, offices)
}

// loadPaid accepts keys that are office ids or, in older files, office names.
func loadPaid(vendorID, dir string, offices []*ledger.Office) (ledger.PaidStatus, error) {
	raw := map[string]decimal.Decimal{}
	if err := readJSON(filepath.Join(dir, paidFile), &raw); err != nil {
		return nil, err
	}

	paid := make(ledger.PaidStatus, len(raw))

	for key, amount := range raw {
		id, err := uuid.Parse(key)
		if err != nil {
			o, ok := ledger.FindOfficeByName(offices, key)
			if !ok {
				slog.Warn("dropping payment of unknown office", "vendor", vendorID, "office", key)
				continue
			}

			id = o.ID
		}

		paid[id] = paid.Paid(id).Add(amount)
	}

	return paid, nil
}

func (s *Store) AddPayment(ctx context.Context, vendorID string, officeID uuid.UUID, amount decimal.Decimal) error {
	return s.withVendor(ctx, vendorID, func(dir string) error {
		offices, err := loadOffices(vendorID, dir)
		if err != nil {
			return err
		}

		if _, ok := ledger.FindOffice(offices, officeID); !ok {
			return fmt.Errorf("%s: %w", officeID, ledger.ErrOfficeNotFound)
		}

		paid, err := loadPaid(vendorID, dir, offices)
		if err != nil {
			return err
		}

		paid[officeID] = paid.Paid(officeID).Add(amount)

		out := make(map[string]decimal.Decimal, len(paid))
		for id, v := range paid {
			out[id.String()] = v
		}

		return writeJSON(filepath.Join(dir, paidFile), out)
	})
}
