package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
	"github.com/MrJamesThe3rd/chaibook/internal/subscription"
)

// ErrInvalidCredentials does not tell an unknown identifier from a wrong secret.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Accounts interface {
	Get(ctx context.Context, id string) (*account.Account, error)
	ListVendors(ctx context.Context) ([]*account.Account, error)
}

type Offices interface {
	Offices(ctx context.Context, vendorID string) ([]*ledger.Office, error)
}

// Resolver turns an identifier and secret into a Session.
type Resolver struct {
	accounts Accounts
	offices  Offices
	gate     subscription.Gate
	now      func() time.Time
}

func NewResolver(accounts Accounts, offices Offices, gate subscription.Gate) *Resolver {
	return &Resolver{accounts: accounts, offices: offices, gate: gate, now: time.Now}
}

// Authenticate checks the credential store first and falls back to the office
// credentials of every vendor, vendors in identifier order and offices in the
// order they were added. The first match wins.
func (r *Resolver) Authenticate(ctx context.Context, identifier, secret string) (Session, error) {
	if identifier == "" || secret == "" {
		return Session{}, ErrInvalidCredentials
	}

	a, err := r.accounts.Get(ctx, identifier)

	switch {
	case err == nil && a.Secret == secret:
		return newAccountSession(a, r.now()), nil
	case err != nil && !errors.Is(err, account.ErrNotFound):
		return Session{}, fmt.Errorf("looking up account: %w", err)
	}

	vendors, err := r.accounts.ListVendors(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("listing vendors: %w", err)
	}

	for _, v := range vendors {
		offices, err := r.offices.Offices(ctx, v.ID)
		if err != nil {
			return Session{}, fmt.Errorf("listing offices of %s: %w", v.ID, err)
		}

		for _, o := range offices {
			if o.Credential.Matches(identifier, secret) {
				return newOfficeSession(identifier, v.ID, o.ID, r.now()), nil
			}
		}
	}

	return Session{}, ErrInvalidCredentials
}

// Login authenticates and, for vendors, applies the subscription gate. The
// returned verdict carries the expiry warning, if any.
func (r *Resolver) Login(ctx context.Context, identifier, secret string) (Session, subscription.Verdict, error) {
	s, err := r.Authenticate(ctx, identifier, secret)
	if err != nil {
		slog.Warn("login rejected", "identifier", identifier)
		return Session{}, subscription.Verdict{}, err
	}

	var verdict subscription.Verdict

	if s.Role() == account.RoleVendor {
		verdict, err = r.Admit(ctx, s)
		if err != nil {
			return Session{}, verdict, err
		}
	}

	slog.Info("login", "identifier", identifier, "role", s.Role())

	return s, verdict, nil
}

// Admit re-evaluates the subscription of a vendor session. Other roles pass.
func (r *Resolver) Admit(ctx context.Context, s Session) (subscription.Verdict, error) {
	if s.Role() != account.RoleVendor {
		return subscription.Verdict{}, nil
	}

	a, err := r.accounts.Get(ctx, s.VendorID())
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return subscription.Verdict{}, ErrInvalidCredentials
		}

		return subscription.Verdict{}, fmt.Errorf("looking up vendor: %w", err)
	}

	verdict := r.gate.Check(a.SubscriptionEnd)

	return verdict, verdict.Err()
}
