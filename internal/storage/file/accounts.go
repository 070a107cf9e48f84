package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
)

// accountRecord is a credentials.json value.
type accountRecord struct {
	Password     string       `json:"password"`
	Role         account.Role `json:"role"`
	Subscription string       `json:"subscription,omitempty"`
	MaxOffices   int          `json:"max_offices,omitempty"`
	Address      string       `json:"address,omitempty"`
}

func toRecord(a *account.Account) accountRecord {
	rec := accountRecord{Password: a.Secret, Role: a.Role}

	if a.IsVendor() {
		rec.Subscription = a.SubscriptionEnd.Format(time.DateOnly)
		rec.MaxOffices = a.MaxOffices
		rec.Address = a.Address
	}

	return rec
}

func fromRecord(id string, rec accountRecord) (*account.Account, error) {
	a := &account.Account{
		ID:         id,
		Secret:     rec.Password,
		Role:       rec.Role,
		MaxOffices: rec.MaxOffices,
		Address:    rec.Address,
	}

	if !a.IsVendor() {
		return a, nil
	}

	if a.MaxOffices == 0 {
		a.MaxOffices = account.DefaultMaxOffices
	}

	if rec.Subscription != "" {
		end, err := time.Parse(time.DateOnly, rec.Subscription)
		if err != nil {
			return nil, fmt.Errorf("vendor %s: subscription %q: %w", id, rec.Subscription, err)
		}

		a.SubscriptionEnd = end
	}

	return a, nil
}

func (s *Store) readCredentials() (map[string]accountRecord, error) {
	creds := map[string]accountRecord{}
	if err := readJSON(filepath.Join(s.dir, credentialsFile), &creds); err != nil {
		return nil, err
	}

	return creds, nil
}

func (s *Store) withCredentials(ctx context.Context, fn func(map[string]accountRecord) error) error {
	s.credMu.Lock()
	defer s.credMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	creds, err := s.readCredentials()
	if err != nil {
		return err
	}

	if err := fn(creds); err != nil {
		return err
	}

	return writeJSON(filepath.Join(s.dir, credentialsFile), creds)
}

func (s *Store) GetAccount(ctx context.Context, id string) (*account.Account, error) {
	s.credMu.RLock()
	defer s.credMu.RUnlock()

	creds, err := s.readCredentials()
	if err != nil {
		return nil, err
	}

	rec, ok := creds[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, account.ErrNotFound)
	}

	return fromRecord(id, rec)
}

func (s *Store) ListAccounts(ctx context.Context) ([]*account.Account, error) {
	s.credMu.RLock()
	defer s.credMu.RUnlock()

	creds, err := s.readCredentials()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(creds))
	for id := range creds {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	accounts := make([]*account.Account, 0, len(ids))

	for _, id := range ids {
		a, err := fromRecord(id, creds[id])
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, a)
	}

	return accounts, nil
}

func (s *Store) CreateAccount(ctx context.Context, a *account.Account) error {
	if a.IsVendor() && !account.ValidIdentifier(a.ID) {
		return fmt.Errorf("%w: %q cannot name a vendor directory", account.ErrInvalidAccount, a.ID)
	}

	return s.withCredentials(ctx, func(creds map[string]accountRecord) error {
		if _, exists := creds[a.ID]; exists {
			return fmt.Errorf("%s: %w", a.ID, account.ErrDuplicateIdentifier)
		}

		creds[a.ID] = toRecord(a)

		return nil
	})
}

func (s *Store) UpdateAccount(ctx context.Context, a *account.Account) error {
	return s.withCredentials(ctx, func(creds map[string]accountRecord) error {
		if _, ok := creds[a.ID]; !ok {
			return fmt.Errorf("%s: %w", a.ID, account.ErrNotFound)
		}

		creds[a.ID] = toRecord(a)

		return nil
	})
}

// DeleteVendor moves the vendor directory aside, drops the account and only
// then removes the directory. If the account cannot be dropped the directory is
// moved back, so the vendor is either fully present or fully gone.
func (s *Store) DeleteVendor(ctx context.Context, id string) error {
	dir, err := s.vendorDir(id)
	if err != nil {
		return err
	}

	m := s.vendorLock(id)
	m.Lock()
	defer m.Unlock()

	grave := tombstone(dir)

	moved := true
	if err := os.Rename(dir, grave); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("moving vendor dir: %w", err)
		}

		moved = false
	}

	err = s.withCredentials(ctx, func(creds map[string]accountRecord) error {
		if rec, ok := creds[id]; !ok || rec.Role != account.RoleVendor {
			return fmt.Errorf("vendor %s: %w", id, account.ErrNotFound)
		}

		delete(creds, id)

		return nil
	})
	if err != nil {
		if moved {
			if rerr := os.Rename(grave, dir); rerr != nil {
				slog.Error("failed to restore vendor dir", "vendor", id, "error", rerr)
			}
		}

		return err
	}

	if moved {
		if err := os.RemoveAll(grave); err != nil {
			slog.Error("failed to remove deleted vendor data", "vendor", id, "path", grave, "error", err)
		}
	}

	return nil
}
