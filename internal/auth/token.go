package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
)

type claims struct {
	Role     account.Role `json:"role"`
	VendorID string       `json:"vendor_id,omitempty"`
	OfficeID string       `json:"office_id,omitempty"`
	jwt.RegisteredClaims
}

// Tokens carries sessions across HTTP requests as HS256 JWTs.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock makes t read the current time from now when issuing and validating.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	t.now = now
	return t
}

func (t *Tokens) Issue(s Session) (string, time.Time, error) {
	if s.IsZero() {
		return "", time.Time{}, errors.New("issuing token: empty session")
	}

	now := t.now()
	expires := now.Add(t.ttl)

	c := &claims{
		Role:     s.Role(),
		VendorID: s.VendorID(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.Identifier(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	if s.OfficeID() != uuid.Nil {
		c.OfficeID = s.OfficeID().String()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}

	return signed, expires, nil
}

// Parse validates a token and rebuilds its session. Any failure is reported as
// ErrInvalidCredentials.
func (t *Tokens) Parse(token string) (Session, error) {
	c := &claims{}

	parsed, err := jwt.ParseWithClaims(token, c, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !parsed.Valid {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	s := Session{
		role:       c.Role,
		identifier: c.Subject,
		vendorID:   c.VendorID,
	}

	if c.IssuedAt != nil {
		s.issuedAt = c.IssuedAt.Time
	}

	switch c.Role {
	case account.RoleAdmin:
	case account.RoleVendor:
		if s.vendorID == "" {
			return Session{}, fmt.Errorf("%w: vendor token without vendor", ErrInvalidCredentials)
		}
	case account.RoleOffice:
		id, err := uuid.Parse(c.OfficeID)
		if err != nil || s.vendorID == "" {
			return Session{}, fmt.Errorf("%w: malformed office token", ErrInvalidCredentials)
		}

		s.officeID = id
	default:
		return Session{}, fmt.Errorf("%w: unknown role %q", ErrInvalidCredentials, c.Role)
	}

	return s, nil
}
