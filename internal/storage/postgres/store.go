package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const accountColumns = `id, secret, role, subscription_end, max_offices, address`

func scanAccount(sc scanner) (*account.Account, error) {
	var (
		a    account.Account
		role string
		end  sql.NullTime
	)

	if err := sc.Scan(&a.ID, &a.Secret, &role, &end, &a.MaxOffices, &a.Address); err != nil {
		return nil, err
	}

	a.Role = account.Role(role)
	if end.Valid {
		a.SubscriptionEnd = end.Time
	}

	return &a, nil
}

func subscriptionEnd(a *account.Account) any {
	if !a.IsVendor() || a.SubscriptionEnd.IsZero() {
		return nil
	}

	return a.SubscriptionEnd
}

func (s *Store) GetAccount(ctx context.Context, id string) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	a, err := scanAccount(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", id, account.ErrNotFound)
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	return a, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account

	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

func (s *Store) CreateAccount(ctx context.Context, a *account.Account) error {
	query := `
		INSERT INTO accounts (id, secret, role, subscription_end, max_offices, address)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`

	res, err := s.db.ExecContext(ctx, query, a.ID, a.Secret, string(a.Role), subscriptionEnd(a), a.MaxOffices, a.Address)
	if err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", a.ID, account.ErrDuplicateIdentifier)
	}

	return nil
}

func (s *Store) UpdateAccount(ctx context.Context, a *account.Account) error {
	query := `
		UPDATE accounts
		SET secret = $2, subscription_end = $3, max_offices = $4, address = $5
		WHERE id = $1
	`

	res, err := s.db.ExecContext(ctx, query, a.ID, a.Secret, subscriptionEnd(a), a.MaxOffices, a.Address)
	if err != nil {
		return fmt.Errorf("updating account: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", a.ID, account.ErrNotFound)
	}

	return nil
}

// DeleteVendor relies on ON DELETE CASCADE to drop the vendor's ledger in the
// same statement.
func (s *Store) DeleteVendor(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1 AND role = 'vendor'`, id)
	if err != nil {
		return fmt.Errorf("deleting vendor: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("vendor %s: %w", id, account.ErrNotFound)
	}

	return nil
}

// lockVendor serialises ledger writers of one vendor for the rest of the
// transaction.
func lockVendor(ctx context.Context, tx *sql.Tx, vendorID string) error {
	var id string

	err := tx.QueryRowContext(ctx, `SELECT id FROM accounts WHERE id = $1 AND role = 'vendor' FOR UPDATE`, vendorID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("vendor %s: %w", vendorID, account.ErrNotFound)
	}

	if err != nil {
		return fmt.Errorf("locking vendor: %w", err)
	}

	return nil
}

const officeColumns = `id, name, email, mobile, logins, secret, created_at`

func scanOffice(sc scanner) (*ledger.Office, error) {
	var (
		o      ledger.Office
		logins []byte
	)

	if err := sc.Scan(&o.ID, &o.Name, &o.Email, &o.Mobile, &logins, &o.Credential.Secret, &o.CreatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(logins, &o.Credential.Logins); err != nil {
		return nil, fmt.Errorf("decoding logins: %w", err)
	}

	return &o, nil
}

func (s *Store) ListOffices(ctx context.Context, vendorID string) ([]*ledger.Office, error) {
	query := `SELECT ` + officeColumns + ` FROM offices WHERE vendor_id = $1 ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("listing offices: %w", err)
	}
	defer rows.Close()

	var offices []*ledger.Office

	for rows.Next() {
		o, err := scanOffice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning office: %w", err)
		}

		offices = append(offices, o)
	}

	return offices, rows.Err()
}

func (s *Store) CreateOffice(ctx context.Context, vendorID string, o *ledger.Office, limit int) error {
	logins, err := json.Marshal(o.Credential.Logins)
	if err != nil {
		return fmt.Errorf("encoding logins: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockVendor(ctx, tx, vendorID); err != nil {
		return err
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM offices WHERE vendor_id = $1`, vendorID).Scan(&count); err != nil {
		return fmt.Errorf("counting offices: %w", err)
	}

	if count >= limit {
		return fmt.Errorf("%d of %d offices: %w", count, limit, ledger.ErrCapacityExceeded)
	}

	query := `
		INSERT INTO offices (id, vendor_id, name, email, mobile, logins, secret, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if _, err := tx.ExecContext(ctx, query,
		o.ID, vendorID, o.Name, o.Email, o.Mobile, string(logins), o.Credential.Secret, o.CreatedAt,
	); err != nil {
		return fmt.Errorf("inserting office: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing office: %w", err)
	}

	return nil
}

func (s *Store) ListEntries(ctx context.Context, vendorID string) ([]*ledger.Entry, error) {
	query := `
		SELECT id, office_id, office_name, tea, coffee, tea_price, coffee_price, date, created_at
		FROM entries
		WHERE vendor_id = $1
		ORDER BY seq
	`

	rows, err := s.db.QueryContext(ctx, query, vendorID)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.Entry

	for rows.Next() {
		var e ledger.Entry

		if err := rows.Scan(
			&e.ID, &e.OfficeID, &e.Office, &e.Tea, &e.Coffee, &e.TeaPrice, &e.CoffeePrice, &e.Date, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}

		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

func (s *Store) AppendEntries(ctx context.Context, vendorID string, entries []*ledger.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockVendor(ctx, tx, vendorID); err != nil {
		return err
	}

	query := `
		INSERT INTO entries (id, vendor_id, office_id, office_name, tea, coffee, tea_price, coffee_price, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, query,
			e.ID, vendorID, e.OfficeID, e.Office, e.Tea, e.Coffee, e.TeaPrice, e.CoffeePrice, e.Date, e.CreatedAt,
		); err != nil {
			return fmt.Errorf("inserting entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing entries: %w", err)
	}

	return nil
}

func (s *Store) PaidStatus(ctx context.Context, vendorID string) (ledger.PaidStatus, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT office_id, amount FROM paid_status WHERE vendor_id = $1`, vendorID)
	if err != nil {
		return nil, fmt.Errorf("reading paid status: %w", err)
	}
	defer rows.Close()

	paid := ledger.PaidStatus{}

	for rows.Next() {
		var (
			id     uuid.UUID
			amount decimal.Decimal
		)

		if err := rows.Scan(&id, &amount); err != nil {
			return nil, fmt.Errorf("scanning paid status: %w", err)
		}

		paid[id] = amount
	}

	return paid, rows.Err()
}

func (s *Store) AddPayment(ctx context.Context, vendorID string, officeID uuid.UUID, amount decimal.Decimal) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockVendor(ctx, tx, vendorID); err != nil {
		return err
	}

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM offices WHERE id = $1 AND vendor_id = $2)`, officeID, vendorID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("checking office: %w", err)
	}

	if !exists {
		return fmt.Errorf("%s: %w", officeID, ledger.ErrOfficeNotFound)
	}

	query := `
		INSERT INTO paid_status (vendor_id, office_id, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (vendor_id, office_id) DO UPDATE SET amount = paid_status.amount + EXCLUDED.amount
	`

	if _, err := tx.ExecContext(ctx, query, vendorID, officeID, amount); err != nil {
		return fmt.Errorf("adding payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing payment: %w", err)
	}

	return nil
}
