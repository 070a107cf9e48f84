package account_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
	"github.com/MrJamesThe3rd/chaibook/internal/subscription"
)

var today = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func newService(repo account.Repository) *account.Service {
	return account.NewService(repo, subscription.Gate{WarnDays: 7, Now: func() time.Time { return today }})
}

func TestService_AddVendor(t *testing.T) {
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		params    account.VendorParams
		setupMock func(m *account.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: account.VendorParams{ID: " V1 ", Secret: "pw", SubscriptionEnd: end, Address: "MG Road"},
			setupMock: func(m *account.MockRepository) {
				m.EXPECT().
					CreateAccount(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, a *account.Account) error {
						assert.Equal(t, "V1", a.ID)
						assert.Equal(t, account.RoleVendor, a.Role)
						assert.Equal(t, account.DefaultMaxOffices, a.MaxOffices)
						return nil
					})
			},
		},
		{
			name:   "Duplicate",
			params: account.VendorParams{ID: "V1", Secret: "pw", SubscriptionEnd: end, MaxOffices: 2},
			setupMock: func(m *account.MockRepository) {
				m.EXPECT().
					CreateAccount(gomock.Any(), gomock.Any()).
					Return(account.ErrDuplicateIdentifier)
			},
			wantErr: account.ErrDuplicateIdentifier,
		},
		{
			name:    "PathLikeIdentifier",
			params:  account.VendorParams{ID: "../etc", Secret: "pw", SubscriptionEnd: end},
			wantErr: account.ErrInvalidAccount,
		},
		{
			name:    "CredentialsFileName",
			params:  account.VendorParams{ID: "credentials.json", Secret: "pw", SubscriptionEnd: end},
			wantErr: account.ErrInvalidAccount,
		},
		{
			name:    "HiddenName",
			params:  account.VendorParams{ID: ".V1.deleted-1", Secret: "pw", SubscriptionEnd: end},
			wantErr: account.ErrInvalidAccount,
		},
		{
			name:    "MissingSecret",
			params:  account.VendorParams{ID: "V2", SubscriptionEnd: end},
			wantErr: account.ErrInvalidAccount,
		},
		{
			name:    "MissingSubscription",
			params:  account.VendorParams{ID: "V2", Secret: "pw"},
			wantErr: account.ErrInvalidAccount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := account.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := newService(repo).AddVendor(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "V1", got.ID)
		})
	}
}

func TestService_SeedAdmin(t *testing.T) {
	t.Run("Existing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := account.NewMockRepository(ctrl)
		repo.EXPECT().GetAccount(gomock.Any(), account.AdminID).
			Return(&account.Account{ID: account.AdminID, Role: account.RoleAdmin}, nil)

		require.NoError(t, newService(repo).SeedAdmin(context.Background(), ""))
	})

	t.Run("FirstRun", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := account.NewMockRepository(ctrl)
		repo.EXPECT().GetAccount(gomock.Any(), account.AdminID).Return(nil, account.ErrNotFound)
		repo.EXPECT().CreateAccount(gomock.Any(), &account.Account{
			ID:     account.AdminID,
			Secret: "root",
			Role:   account.RoleAdmin,
		}).Return(nil)

		require.NoError(t, newService(repo).SeedAdmin(context.Background(), "root"))
	})

	t.Run("FirstRunWithoutSecret", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := account.NewMockRepository(ctrl)
		repo.EXPECT().GetAccount(gomock.Any(), account.AdminID).Return(nil, account.ErrNotFound)

		err := newService(repo).SeedAdmin(context.Background(), "")
		assert.ErrorIs(t, err, account.ErrInvalidAccount)
	})
}

func TestService_DeleteVendor(t *testing.T) {
	t.Run("Vendor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := account.NewMockRepository(ctrl)
		repo.EXPECT().GetAccount(gomock.Any(), "V1").
			Return(&account.Account{ID: "V1", Role: account.RoleVendor}, nil)
		repo.EXPECT().DeleteVendor(gomock.Any(), "V1").Return(nil)

		require.NoError(t, newService(repo).DeleteVendor(context.Background(), "V1"))
	})

	t.Run("AdminIsNotAVendor", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := account.NewMockRepository(ctrl)
		repo.EXPECT().GetAccount(gomock.Any(), account.AdminID).
			Return(&account.Account{ID: account.AdminID, Role: account.RoleAdmin}, nil)

		err := newService(repo).DeleteVendor(context.Background(), account.AdminID)
		assert.ErrorIs(t, err, account.ErrNotFound)
	})
}

func TestService_UpdateVendor(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := account.NewMockRepository(ctrl)

	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	repo.EXPECT().GetAccount(gomock.Any(), "V1").
		Return(&account.Account{ID: "V1", Role: account.RoleVendor, MaxOffices: 5}, nil).Times(2)
	repo.EXPECT().UpdateAccount(gomock.Any(), gomock.Any()).Return(nil)

	svc := newService(repo)

	got, err := svc.UpdateVendor(context.Background(), "V1", end, 9)
	require.NoError(t, err)
	assert.Equal(t, 9, got.MaxOffices)
	assert.Equal(t, end, got.SubscriptionEnd)

	_, err = svc.UpdateVendor(context.Background(), "V1", end, 0)
	assert.ErrorIs(t, err, account.ErrInvalidAccount)
}

func TestService_Overview(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := account.NewMockRepository(ctrl)

	repo.EXPECT().ListAccounts(gomock.Any()).Return([]*account.Account{
		{ID: account.AdminID, Role: account.RoleAdmin},
		{ID: "active", Role: account.RoleVendor, SubscriptionEnd: today.AddDate(0, 1, 0)},
		{ID: "expired", Role: account.RoleVendor, SubscriptionEnd: today.AddDate(0, 0, -1)},
		{ID: "soon", Role: account.RoleVendor, SubscriptionEnd: today.AddDate(0, 0, 3)},
	}, nil)

	ov, err := newService(repo).Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, ov.TotalVendors)
	require.Len(t, ov.Expiring, 1)
	assert.Equal(t, "soon", ov.Expiring[0].Vendor.ID)
	assert.Equal(t, 3, ov.Expiring[0].Verdict.DaysLeft)
}

func TestValidIdentifier(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{id: "V1", want: true},
		{id: "chai.wala@x.com", want: true},
		{id: "credentials.json.bak", want: true},
		{id: "", want: false},
		{id: ".", want: false},
		{id: "..", want: false},
		{id: ".hidden", want: false},
		{id: ".V1.tmp-123", want: false},
		{id: "credentials.json", want: false},
		{id: "Credentials.JSON", want: false},
		{id: "a/b", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, account.ValidIdentifier(tt.id))
		})
	}
}
