// Package sqlite is a single-file SQL backend for installations without a
// database server.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	sqlitedriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
)

type Store struct {
	db *gorm.DB
}

// Open creates the database file if needed and migrates the schema.
func Open(path string, logSQL bool) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	gormLogger := logger.Default
	if !logSQL {
		gormLogger = gormLogger.LogMode(logger.Silent)
	}

	db, err := gorm.Open(sqlitedriver.Open(path), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db: %w", err)
	}

	// A single long-lived connection serialises writers and keeps the
	// per-connection pragmas below in effect.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA foreign_keys = ON;",
	} {
		if err := db.Exec(pragma).Error; err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}

	if err := db.AutoMigrate(autoMigrate()...); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func (s *Store) GetAccount(ctx context.Context, id string) (*account.Account, error) {
	var row accountRow

	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", id, account.ErrNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}

	return row.toAccount(), nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]*account.Account, error) {
	var rows []accountRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}

	accounts := make([]*account.Account, 0, len(rows))
	for _, r := range rows {
		accounts = append(accounts, r.toAccount())
	}

	return accounts, nil
}

func (s *Store) CreateAccount(ctx context.Context, a *account.Account) error {
	row := toAccountRow(a)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&accountRow{}).Where("id = ?", a.ID).Count(&n).Error; err != nil {
			return fmt.Errorf("checking account: %w", err)
		}

		if n > 0 {
			return fmt.Errorf("%s: %w", a.ID, account.ErrDuplicateIdentifier)
		}

		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("creating account: %w", err)
		}

		return nil
	})
}

func (s *Store) UpdateAccount(ctx context.Context, a *account.Account) error {
	row := toAccountRow(a)

	res := s.db.WithContext(ctx).Model(&accountRow{}).Where("id = ?", a.ID).Updates(map[string]any{
		"secret":           row.Secret,
		"subscription_end": row.SubscriptionEnd,
		"max_offices":      row.MaxOffices,
		"address":          row.Address,
	})
	if res.Error != nil {
		return fmt.Errorf("updating account: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", a.ID, account.ErrNotFound)
	}

	return nil
}

// DeleteVendor drops the account and its ledger in one transaction.
func (s *Store) DeleteVendor(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireVendor(tx, id); err != nil {
			return err
		}

		for _, model := range []any{&paymentRow{}, &entryRow{}, &officeRow{}} {
			if err := tx.Where("vendor_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("deleting ledger: %w", err)
			}
		}

		if err := tx.Where("id = ?", id).Delete(&accountRow{}).Error; err != nil {
			return fmt.Errorf("deleting vendor: %w", err)
		}

		return nil
	})
}

func requireVendor(tx *gorm.DB, vendorID string) error {
	var n int64

	err := tx.Model(&accountRow{}).
		Where("id = ? AND role = ?", vendorID, string(account.RoleVendor)).
		Count(&n).Error
	if err != nil {
		return fmt.Errorf("checking vendor: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("vendor %s: %w", vendorID, account.ErrNotFound)
	}

	return nil
}

func (s *Store) ListOffices(ctx context.Context, vendorID string) ([]*ledger.Office, error) {
	var rows []officeRow
	if err := s.db.WithContext(ctx).Where("vendor_id = ?", vendorID).Order("seq").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing offices: %w", err)
	}

	offices := make([]*ledger.Office, 0, len(rows))

	for _, r := range rows {
		o, err := r.toOffice()
		if err != nil {
			return nil, err
		}

		offices = append(offices, o)
	}

	return offices, nil
}

func (s *Store) CreateOffice(ctx context.Context, vendorID string, o *ledger.Office, limit int) error {
	row, err := toOfficeRow(vendorID, o)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireVendor(tx, vendorID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&officeRow{}).Where("vendor_id = ?", vendorID).Count(&count).Error; err != nil {
			return fmt.Errorf("counting offices: %w", err)
		}

		if count >= int64(limit) {
			return fmt.Errorf("%d of %d offices: %w", count, limit, ledger.ErrCapacityExceeded)
		}

		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("inserting office: %w", err)
		}

		return nil
	})
}

func (s *Store) ListEntries(ctx context.Context, vendorID string) ([]*ledger.Entry, error) {
	var rows []entryRow
	if err := s.db.WithContext(ctx).Where("vendor_id = ?", vendorID).Order("seq").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	entries := make([]*ledger.Entry, 0, len(rows))

	for _, r := range rows {
		e, err := r.toEntry()
		if err != nil {
			return nil, err
		}

		entries = append(entries, e)
	}

	return entries, nil
}

func (s *Store) AppendEntries(ctx context.Context, vendorID string, entries []*ledger.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	rows := make([]entryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, toEntryRow(vendorID, e))
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireVendor(tx, vendorID); err != nil {
			return err
		}

		if err := tx.CreateInBatches(&rows, 100).Error; err != nil {
			return fmt.Errorf("inserting entries: %w", err)
		}

		return nil
	})
}

func (s *Store) PaidStatus(ctx context.Context, vendorID string) (ledger.PaidStatus, error) {
	var rows []paymentRow
	if err := s.db.WithContext(ctx).Where("vendor_id = ?", vendorID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("reading paid status: %w", err)
	}

	paid := ledger.PaidStatus{}

	for _, r := range rows {
		id, err := uuid.Parse(r.OfficeID)
		if err != nil {
			return nil, fmt.Errorf("paid status office id %q: %w", r.OfficeID, err)
		}

		amount, err := decimal.NewFromString(r.Amount)
		if err != nil {
			return nil, fmt.Errorf("paid status amount %q: %w", r.Amount, err)
		}

		paid[id] = amount
	}

	return paid, nil
}

func (s *Store) AddPayment(ctx context.Context, vendorID string, officeID uuid.UUID, amount decimal.Decimal) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireVendor(tx, vendorID); err != nil {
			return err
		}

		var n int64

		err := tx.Model(&officeRow{}).
			Where("id = ? AND vendor_id = ?", officeID.String(), vendorID).
			Count(&n).Error
		if err != nil {
			return fmt.Errorf("checking office: %w", err)
		}

		if n == 0 {
			return fmt.Errorf("%s: %w", officeID, ledger.ErrOfficeNotFound)
		}

		row := paymentRow{VendorID: vendorID, OfficeID: officeID.String(), Amount: decimal.Zero.String()}

		err = tx.Where("vendor_id = ? AND office_id = ?", vendorID, row.OfficeID).FirstOrInit(&row).Error
		if err != nil {
			return fmt.Errorf("reading payment: %w", err)
		}

		current, err := decimal.NewFromString(row.Amount)
		if err != nil {
			return fmt.Errorf("paid status amount %q: %w", row.Amount, err)
		}

		row.Amount = current.Add(amount).String()

		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("adding payment: %w", err)
		}

		return nil
	})
}
