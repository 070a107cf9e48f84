package ledger

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrCapacityExceeded = errors.New("office limit reached")
	ErrOfficeNotFound   = errors.New("office not found")
	ErrInvalidOffice    = errors.New("invalid office")
	ErrMalformedEntry   = errors.New("malformed entry")
)

// Credential is the login record of an office. It is captured when the office is
// created and is not derived from the contact fields afterwards.
type Credential struct {
	Logins []string `json:"logins"`
	Secret string   `json:"secret"`
}

// NewCredential builds the default office credential: the office logs in with its
// email or mobile number, and the mobile number is the secret.
func NewCredential(email, mobile string) Credential {
	var logins []string

	for _, l := range []string{strings.TrimSpace(email), strings.TrimSpace(mobile)} {
		if l != "" && !slices.Contains(logins, l) {
			logins = append(logins, l)
		}
	}

	return Credential{Logins: logins, Secret: strings.TrimSpace(mobile)}
}

// Matches reports whether identifier and secret open this credential.
func (c Credential) Matches(identifier, secret string) bool {
	if c.Secret == "" || secret != c.Secret {
		return false
	}

	return slices.Contains(c.Logins, identifier)
}

// Office is a client location served by a vendor.
type Office struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Mobile     string     `json:"mobile"`
	Credential Credential `json:"credential"`
	CreatedAt  time.Time  `json:"created_at"`
}

// PaidStatus holds the cumulative amount paid per office.
type PaidStatus map[uuid.UUID]decimal.Decimal

// Paid returns the amount paid by the office, zero when nothing was recorded.
func (p PaidStatus) Paid(officeID uuid.UUID) decimal.Decimal {
	if amount, ok := p[officeID]; ok {
		return amount
	}

	return decimal.Zero
}

// FindOffice returns the office with the given id.
func FindOffice(offices []*Office, id uuid.UUID) (*Office, bool) {
	for _, o := range offices {
		if o.ID == id {
			return o, true
		}
	}

	return nil, false
}

// FindOfficeByName returns the first office with the given name.
func FindOfficeByName(offices []*Office, name string) (*Office, bool) {
	for _, o := range offices {
		if strings.EqualFold(o.Name, name) {
			return o, true
		}
	}

	return nil, false
}
