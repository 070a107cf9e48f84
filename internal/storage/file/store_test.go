package file_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
	"github.com/MrJamesThe3rd/chaibook/internal/storage/file"
)

var ctx = context.Background()

func newStore(t *testing.T) (*file.Store, string) {
	t.Helper()

	dir := t.TempDir()

	s, err := file.Open(dir)
	require.NoError(t, err)

	return s, dir
}

func addVendor(t *testing.T, s *file.Store, id string) *account.Account {
	t.Helper()

	v := &account.Account{
		ID:              id,
		Secret:          "pw",
		Role:            account.RoleVendor,
		SubscriptionEnd: time.Date(2030, 1, 31, 0, 0, 0, 0, time.UTC),
		MaxOffices:      2,
		Address:         "MG Road",
	}
	require.NoError(t, s.CreateAccount(ctx, v))

	return v
}

func newOffice(name string) *ledger.Office {
	return &ledger.Office{ID: uuid.New(), Name: name, Email: name + "@x.com", Mobile: "1", Credential: ledger.NewCredential(name+"@x.com", "1")}
}

func TestStore_Accounts(t *testing.T) {
	s, _ := newStore(t)

	require.NoError(t, s.CreateAccount(ctx, &account.Account{ID: "admin", Secret: "root", Role: account.RoleAdmin}))
	addVendor(t, s, "zeta")
	v := addVendor(t, s, "alpha")

	err := s.CreateAccount(ctx, &account.Account{ID: "alpha", Role: account.RoleVendor})
	assert.ErrorIs(t, err, account.ErrDuplicateIdentifier)

	got, err := s.GetAccount(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, v, got)

	all, err := s.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"admin", "alpha", "zeta"}, []string{all[0].ID, all[1].ID, all[2].ID})

	v.MaxOffices = 9
	require.NoError(t, s.UpdateAccount(ctx, v))

	got, err = s.GetAccount(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, 9, got.MaxOffices)

	_, err = s.GetAccount(ctx, "missing")
	assert.ErrorIs(t, err, account.ErrNotFound)
}

func TestStore_ReadsLegacyCredentials(t *testing.T) {
	dir := t.TempDir()
	creds := `{
    "admin": {"password": "root", "role": "admin"},
    "V1": {"password": "pw", "role": "vendor", "subscription": "2024-03-15", "max_offices": 3, "address": "Lane 4"}
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credentials.json"), []byte(creds), 0o600))

	s, err := file.Open(dir)
	require.NoError(t, err)

	v, err := s.GetAccount(ctx, "V1")
	require.NoError(t, err)

	assert.Equal(t, account.RoleVendor, v.Role)
	assert.Equal(t, "pw", v.Secret)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), v.SubscriptionEnd)
	assert.Equal(t, 3, v.MaxOffices)
	assert.Equal(t, "Lane 4", v.Address)
}

func TestStore_CreateOffice_Capacity(t *testing.T) {
	s, _ := newStore(t)
	addVendor(t, s, "V1")

	require.NoError(t, s.CreateOffice(ctx, "V1", newOffice("Acme"), 2))
	require.NoError(t, s.CreateOffice(ctx, "V1", newOffice("Globex"), 2))

	for range 2 {
		err := s.CreateOffice(ctx, "V1", newOffice("Initech"), 2)
		assert.ErrorIs(t, err, ledger.ErrCapacityExceeded)
	}

	offices, err := s.ListOffices(ctx, "V1")
	require.NoError(t, err)
	require.Len(t, offices, 2)
	assert.Equal(t, "Acme", offices[0].Name)
	assert.Equal(t, "Globex", offices[1].Name)
}

func TestStore_CreateOffice_ConcurrentWritersRespectLimit(t *testing.T) {
	s, _ := newStore(t)
	addVendor(t, s, "V1")

	var wg sync.WaitGroup

	for range 10 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			_ = s.CreateOffice(ctx, "V1", newOffice("Acme"), 2)
		}()
	}

	wg.Wait()

	offices, err := s.ListOffices(ctx, "V1")
	require.NoError(t, err)
	assert.Len(t, offices, 2)
}

func TestStore_EntriesAndPayments(t *testing.T) {
	s, _ := newStore(t)
	addVendor(t, s, "V1")

	acme := newOffice("Acme")
	require.NoError(t, s.CreateOffice(ctx, "V1", acme, 2))

	e := &ledger.Entry{
		ID:          uuid.New(),
		OfficeID:    acme.ID,
		Office:      "Acme",
		Tea:         2,
		TeaPrice:    decimal.NewFromInt(10),
		CoffeePrice: decimal.NewFromInt(15),
		Date:        "2024-01-01",
	}
	require.NoError(t, s.AppendEntries(ctx, "V1", []*ledger.Entry{e}))

	entries, err := s.ListEntries(ctx, "V1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, e.ID, entries[0].ID)
	assert.True(t, decimal.NewFromInt(20).Equal(entries[0].Amount()))

	require.NoError(t, s.AddPayment(ctx, "V1", acme.ID, decimal.NewFromInt(20)))
	require.NoError(t, s.AddPayment(ctx, "V1", acme.ID, decimal.RequireFromString("2.5")))

	paid, err := s.PaidStatus(ctx, "V1")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("22.5").Equal(paid.Paid(acme.ID)))

	err = s.AddPayment(ctx, "V1", uuid.New(), decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ledger.ErrOfficeNotFound)
}

func TestStore_UpgradesLegacyLedger(t *testing.T) {
	s, dir := newStore(t)
	addVendor(t, s, "V1")

	vdir := filepath.Join(dir, "V1")
	require.NoError(t, os.MkdirAll(vdir, 0o755))

	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(vdir, name), []byte(body), 0o600))
	}

	write("offices.json", `[{"name": "Acme", "email": "a@x.com", "mobile": "9990001111"}]`)
	write("entries.json", `[
        {"office": "Acme", "tea": 2, "coffee": 0, "tea_price": 10, "coffee_price": 15, "date": "2024-01-01"},
        {"office": "Acme", "tea": 1, "coffee": 1, "tea_price": 10, "coffee_price": 15, "date": "2024-01-05"}
    ]`)
	write("paid_status.json", `{"Acme": 20.0, "Gone": 5}`)

	offices, err := s.ListOffices(ctx, "V1")
	require.NoError(t, err)
	require.Len(t, offices, 1)

	acme := offices[0]
	assert.NotEqual(t, uuid.Nil, acme.ID)
	assert.True(t, acme.Credential.Matches("a@x.com", "9990001111"))

	again, err := s.ListOffices(ctx, "V1")
	require.NoError(t, err)
	assert.Equal(t, acme.ID, again[0].ID, "legacy ids are stable")

	entries, err := s.ListEntries(ctx, "V1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, acme.ID, entries[0].OfficeID)
	assert.Equal(t, acme.ID, entries[1].OfficeID)

	paid, err := s.PaidStatus(ctx, "V1")
	require.NoError(t, err)
	assert.Len(t, paid, 1)
	assert.True(t, decimal.NewFromInt(20).Equal(paid.Paid(acme.ID)))

	// A write persists the upgraded form and keeps the payment.
	require.NoError(t, s.AddPayment(ctx, "V1", acme.ID, decimal.NewFromInt(25)))

	paid, err = s.PaidStatus(ctx, "V1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(45).Equal(paid.Paid(acme.ID)))
}

func TestStore_LegacyNamesMatchIgnoringCase(t *testing.T) {
	s, dir := newStore(t)
	addVendor(t, s, "V1")

	vdir := filepath.Join(dir, "V1")
	require.NoError(t, os.MkdirAll(vdir, 0o755))

	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(vdir, name), []byte(body), 0o600))
	}

	write("offices.json", `[{"name": "Acme", "email": "a@x.com", "mobile": "1"}, {"name": "ACME", "email": "b@x.com", "mobile": "2"}]`)
	write("entries.json", `[{"office": "acme", "tea": 1, "coffee": 0, "tea_price": 10, "coffee_price": 15, "date": "2024-01-01"}]`)
	write("paid_status.json", `{"ACME": 5, "acme": 7}`)

	offices, err := s.ListOffices(ctx, "V1")
	require.NoError(t, err)
	require.Len(t, offices, 2)

	first := offices[0]

	entries, err := s.ListEntries(ctx, "V1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, first.ID, entries[0].OfficeID)

	paid, err := s.PaidStatus(ctx, "V1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(12).Equal(paid.Paid(first.ID)))
	assert.True(t, paid.Paid(offices[1].ID).IsZero())
}

func TestStore_MalformedEntryFile(t *testing.T) {
	s, dir := newStore(t)
	addVendor(t, s, "V1")

	vdir := filepath.Join(dir, "V1")
	require.NoError(t, os.MkdirAll(vdir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(vdir, "entries.json"),
		[]byte(`[{"office": "Acme", "coffee": 0, "tea_price": 10, "coffee_price": 15, "date": "2024-01-01"}]`), 0o600))

	_, err := s.ListEntries(ctx, "V1")
	assert.ErrorIs(t, err, ledger.ErrMalformedEntry)
}

func TestStore_DeleteVendor(t *testing.T) {
	s, dir := newStore(t)
	addVendor(t, s, "V1")
	addVendor(t, s, "V2")

	require.NoError(t, s.CreateOffice(ctx, "V1", newOffice("Acme"), 2))
	require.NoError(t, s.CreateOffice(ctx, "V2", newOffice("Globex"), 2))

	require.NoError(t, s.DeleteVendor(ctx, "V1"))

	_, err := s.GetAccount(ctx, "V1")
	assert.ErrorIs(t, err, account.ErrNotFound)

	_, err = os.Stat(filepath.Join(dir, "V1"))
	assert.True(t, os.IsNotExist(err))

	offices, err := s.ListOffices(ctx, "V1")
	require.NoError(t, err)
	assert.Empty(t, offices)

	// Writes for a deleted vendor do not bring its directory back.
	err = s.CreateOffice(ctx, "V1", newOffice("Acme"), 2)
	assert.ErrorIs(t, err, account.ErrNotFound)

	// Other vendors are untouched.
	offices, err = s.ListOffices(ctx, "V2")
	require.NoError(t, err)
	assert.Len(t, offices, 1)

	assert.ErrorIs(t, s.DeleteVendor(ctx, "V1"), account.ErrNotFound)

	leftovers, err := filepath.Glob(filepath.Join(dir, ".V1.deleted-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestStore_DeleteVendor_RefusesAdmin(t *testing.T) {
	s, _ := newStore(t)
	require.NoError(t, s.CreateAccount(ctx, &account.Account{ID: "admin", Secret: "root", Role: account.RoleAdmin}))

	assert.ErrorIs(t, s.DeleteVendor(ctx, "admin"), account.ErrNotFound)

	_, err := s.GetAccount(ctx, "admin")
	assert.NoError(t, err)
}

func TestStore_RejectsPathLikeVendor(t *testing.T) {
	s, _ := newStore(t)

	_, err := s.ListOffices(ctx, "../escape")
	assert.ErrorIs(t, err, account.ErrNotFound)
}

func TestStore_RejectsReservedVendorNames(t *testing.T) {
	s, dir := newStore(t)
	addVendor(t, s, "V1")

	for _, id := range []string{"credentials.json", ".V1.deleted-1", ".credentials.json.tmp-1"} {
		t.Run(id, func(t *testing.T) {
			err := s.CreateAccount(ctx, &account.Account{ID: id, Secret: "pw", Role: account.RoleVendor, MaxOffices: 1})
			assert.ErrorIs(t, err, account.ErrInvalidAccount)

			assert.ErrorIs(t, s.CreateOffice(ctx, id, newOffice("Acme"), 1), account.ErrNotFound)
			assert.ErrorIs(t, s.DeleteVendor(ctx, id), account.ErrNotFound)
		})
	}

	// The credential file is untouched and still holds the real vendor.
	_, err := os.Stat(filepath.Join(dir, "credentials.json"))
	require.NoError(t, err)

	_, err = s.GetAccount(ctx, "V1")
	assert.NoError(t, err)
}
