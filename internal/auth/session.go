package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
)

// Session is the identity established at login. It is immutable; logging out
// simply drops it.
type Session struct {
	role       account.Role
	identifier string
	vendorID   string
	officeID   uuid.UUID
	issuedAt   time.Time
}

func newAccountSession(a *account.Account, at time.Time) Session {
	s := Session{role: a.Role, identifier: a.ID, issuedAt: at}
	if a.IsVendor() {
		s.vendorID = a.ID
	}

	return s
}

func newOfficeSession(identifier, vendorID string, officeID uuid.UUID, at time.Time) Session {
	return Session{
		role:       account.RoleOffice,
		identifier: identifier,
		vendorID:   vendorID,
		officeID:   officeID,
		issuedAt:   at,
	}
}

func (s Session) Role() account.Role { return s.role }

// Identifier is the login the session was opened with.
func (s Session) Identifier() string { return s.identifier }

// VendorID is the vendor whose ledger the session may touch. Empty for admins.
func (s Session) VendorID() string { return s.vendorID }

// OfficeID is set for office sessions only.
func (s Session) OfficeID() uuid.UUID { return s.officeID }

func (s Session) IssuedAt() time.Time { return s.issuedAt }

func (s Session) IsZero() bool { return s.role == "" }

type sessionKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
