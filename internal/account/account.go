package account

import (
	"errors"
	"time"
)

var (
	ErrNotFound            = errors.New("account not found")
	ErrDuplicateIdentifier = errors.New("identifier already exists")
	ErrInvalidAccount      = errors.New("invalid account")
)

// Role is the kind of identity behind a login.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleVendor Role = "vendor"
	// RoleOffice never appears on a stored account; offices log in through
	// credentials kept in their vendor's ledger.
	RoleOffice Role = "office"
)

// AdminID is the identifier of the singleton admin account.
const AdminID = "admin"

// DefaultMaxOffices applies when a vendor is created without an explicit limit.
const DefaultMaxOffices = 5

// Account is an entry of the credential store.
type Account struct {
	ID     string
	Secret string
	Role   Role

	// Vendor-only fields.
	SubscriptionEnd time.Time
	MaxOffices      int
	Address         string
}

func (a *Account) IsVendor() bool {
	return a.Role == RoleVendor
}
