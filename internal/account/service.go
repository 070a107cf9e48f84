package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/chaibook/internal/subscription"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=account
type Repository interface {
	GetAccount(ctx context.Context, id string) (*Account, error)
	// ListAccounts returns every account ordered by identifier.
	ListAccounts(ctx context.Context) ([]*Account, error)
	CreateAccount(ctx context.Context, a *Account) error
	UpdateAccount(ctx context.Context, a *Account) error
	// DeleteVendor removes the vendor account together with its whole ledger.
	DeleteVendor(ctx context.Context, id string) error
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9._@+-]+$`)

type Service struct {
	repo Repository
	gate subscription.Gate
}

func NewService(repo Repository, gate subscription.Gate) *Service {
	return &Service{repo: repo, gate: gate}
}

// SeedAdmin creates the admin account on first run. An existing admin is left
// untouched so that ADMIN_PASSWORD only matters for a fresh store.
func (s *Service) SeedAdmin(ctx context.Context, secret string) error {
	_, err := s.repo.GetAccount(ctx, AdminID)
	if err == nil {
		return nil
	}

	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("looking up admin: %w", err)
	}

	if secret == "" {
		return fmt.Errorf("%w: ADMIN_PASSWORD is required to seed the admin account", ErrInvalidAccount)
	}

	if err := s.repo.CreateAccount(ctx, &Account{ID: AdminID, Secret: secret, Role: RoleAdmin}); err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}

	slog.Info("seeded admin account")

	return nil
}

type VendorParams struct {
	ID              string
	Secret          string
	SubscriptionEnd time.Time
	MaxOffices      int
	Address         string
}

func (p VendorParams) validate() error {
	if !ValidIdentifier(p.ID) {
		return fmt.Errorf("%w: identifier must use letters, digits or ._@+-", ErrInvalidAccount)
	}

	if p.Secret == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidAccount)
	}

	if p.SubscriptionEnd.IsZero() {
		return fmt.Errorf("%w: subscription end date is required", ErrInvalidAccount)
	}

	if p.MaxOffices < 1 {
		return fmt.Errorf("%w: max offices must be at least 1", ErrInvalidAccount)
	}

	return nil
}

// reservedIdentifiers name files that share the data directory with vendor
// directories.
var reservedIdentifiers = []string{"credentials.json"}

// ValidIdentifier reports whether id can name a vendor. Names starting with a
// dot are kept for temporary files.
func ValidIdentifier(id string) bool {
	if !identifierPattern.MatchString(id) || strings.HasPrefix(id, ".") {
		return false
	}

	for _, r := range reservedIdentifiers {
		if strings.EqualFold(id, r) {
			return false
		}
	}

	return true
}

func (s *Service) AddVendor(ctx context.Context, params VendorParams) (*Account, error) {
	params.ID = strings.TrimSpace(params.ID)
	if params.MaxOffices == 0 {
		params.MaxOffices = DefaultMaxOffices
	}

	if err := params.validate(); err != nil {
		return nil, err
	}

	a := &Account{
		ID:              params.ID,
		Secret:          params.Secret,
		Role:            RoleVendor,
		SubscriptionEnd: params.SubscriptionEnd,
		MaxOffices:      params.MaxOffices,
		Address:         strings.TrimSpace(params.Address),
	}

	if err := s.repo.CreateAccount(ctx, a); err != nil {
		return nil, err
	}

	slog.Info("vendor added", "vendor", a.ID, "subscription_end", a.SubscriptionEnd.Format(time.DateOnly))

	return a, nil
}

// UpdateVendor changes the subscription end and office limit of a vendor.
func (s *Service) UpdateVendor(ctx context.Context, id string, end time.Time, maxOffices int) (*Account, error) {
	a, err := s.Vendor(ctx, id)
	if err != nil {
		return nil, err
	}

	if end.IsZero() {
		return nil, fmt.Errorf("%w: subscription end date is required", ErrInvalidAccount)
	}

	if maxOffices < 1 {
		return nil, fmt.Errorf("%w: max offices must be at least 1", ErrInvalidAccount)
	}

	a.SubscriptionEnd = end
	a.MaxOffices = maxOffices

	if err := s.repo.UpdateAccount(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

// DeleteVendor irreversibly removes a vendor and all of its ledger data.
func (s *Service) DeleteVendor(ctx context.Context, id string) error {
	if _, err := s.Vendor(ctx, id); err != nil {
		return err
	}

	if err := s.repo.DeleteVendor(ctx, id); err != nil {
		return fmt.Errorf("deleting vendor %s: %w", id, err)
	}

	slog.Info("vendor deleted", "vendor", id)

	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Account, error) {
	return s.repo.GetAccount(ctx, id)
}

// Vendor returns the account only if it belongs to a vendor.
func (s *Service) Vendor(ctx context.Context, id string) (*Account, error) {
	a, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if !a.IsVendor() {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}

	return a, nil
}

func (s *Service) ListVendors(ctx context.Context) ([]*Account, error) {
	all, err := s.repo.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	vendors := make([]*Account, 0, len(all))

	for _, a := range all {
		if a.IsVendor() {
			vendors = append(vendors, a)
		}
	}

	return vendors, nil
}

// Expiring pairs a vendor with its gate verdict.
type Expiring struct {
	Vendor  *Account
	Verdict subscription.Verdict
}

type Overview struct {
	TotalVendors int
	Expiring     []Expiring
}

// Overview backs the admin dashboard: vendor count and plans close to expiry.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	vendors, err := s.ListVendors(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing vendors: %w", err)
	}

	ov := &Overview{TotalVendors: len(vendors)}

	for _, v := range vendors {
		verdict := s.gate.Check(v.SubscriptionEnd)
		if verdict.Status == subscription.StatusExpiringSoon {
			ov.Expiring = append(ov.Expiring, Expiring{Vendor: v, Verdict: verdict})
		}
	}

	return ov, nil
}
