package ledger_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
)

func TestService_AddOffice(t *testing.T) {
	vendor := &account.Account{ID: "V1", Role: account.RoleVendor, MaxOffices: 1}

	type testCase struct {
		name      string
		params    ledger.OfficeParams
		setupMock func(m *ledger.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: ledger.OfficeParams{Name: "Acme", Email: "a@x.com", Mobile: " 9990001111 "},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					CreateOffice(gomock.Any(), "V1", gomock.Any(), 1).
					DoAndReturn(func(_ context.Context, _ string, o *ledger.Office, _ int) error {
						assert.Equal(t, "9990001111", o.Mobile)
						assert.True(t, o.Credential.Matches("9990001111", "9990001111"))
						return nil
					})
			},
		},
		{
			name:   "CapacityExceeded",
			params: ledger.OfficeParams{Name: "Beta", Email: "b@x.com", Mobile: "1"},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					CreateOffice(gomock.Any(), "V1", gomock.Any(), 1).
					Return(ledger.ErrCapacityExceeded)
			},
			wantErr: ledger.ErrCapacityExceeded,
		},
		{
			name:    "MissingMobile",
			params:  ledger.OfficeParams{Name: "Beta", Email: "b@x.com"},
			wantErr: ledger.ErrInvalidOffice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := ledger.NewService(repo).AddOffice(context.Background(), vendor, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
		})
	}
}

func TestService_RecordEntry(t *testing.T) {
	acme := &ledger.Office{ID: uuid.New(), Name: "Acme"}

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := ledger.NewMockRepository(ctrl)

		repo.EXPECT().ListOffices(gomock.Any(), "V1").Return([]*ledger.Office{acme}, nil)
		repo.EXPECT().AppendEntries(gomock.Any(), "V1", gomock.Len(1)).Return(nil)

		e, err := ledger.NewService(repo).RecordEntry(context.Background(), "V1", ledger.EntryParams{
			OfficeID: acme.ID,
			Tea:      2,
			TeaPrice: decimal.NewFromInt(10),
			Date:     "2024-01-01",
		})
		require.NoError(t, err)

		assert.Equal(t, acme.ID, e.OfficeID)
		assert.Equal(t, "Acme", e.Office)
		assert.True(t, decimal.NewFromInt(20).Equal(e.Amount()))
	})

	t.Run("DefaultsToToday", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := ledger.NewMockRepository(ctrl)

		repo.EXPECT().ListOffices(gomock.Any(), "V1").Return([]*ledger.Office{acme}, nil)
		repo.EXPECT().AppendEntries(gomock.Any(), "V1", gomock.Any()).Return(nil)

		e, err := ledger.NewService(repo).RecordEntry(context.Background(), "V1", ledger.EntryParams{OfficeID: acme.ID})
		require.NoError(t, err)
		assert.Len(t, e.Date, len("2006-01-02"))
	})

	t.Run("UnknownOffice", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := ledger.NewMockRepository(ctrl)

		repo.EXPECT().ListOffices(gomock.Any(), "V1").Return([]*ledger.Office{acme}, nil)

		_, err := ledger.NewService(repo).RecordEntry(context.Background(), "V1", ledger.EntryParams{OfficeID: uuid.New()})
		assert.ErrorIs(t, err, ledger.ErrOfficeNotFound)
	})

	t.Run("NegativeQuantityIsNotStored", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := ledger.NewMockRepository(ctrl)

		repo.EXPECT().ListOffices(gomock.Any(), "V1").Return([]*ledger.Office{acme}, nil)

		_, err := ledger.NewService(repo).RecordEntry(context.Background(), "V1", ledger.EntryParams{
			OfficeID: acme.ID,
			Tea:      -1,
			Date:     "2024-01-01",
		})
		assert.ErrorIs(t, err, ledger.ErrMalformedEntry)
	})
}

func TestService_ImportEntries_AllOrNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)

	acme := &ledger.Office{ID: uuid.New(), Name: "Acme"}
	repo.EXPECT().ListOffices(gomock.Any(), "V1").Return([]*ledger.Office{acme}, nil)

	_, err := ledger.NewService(repo).ImportEntries(context.Background(), "V1", []ledger.EntryParams{
		{OfficeName: "acme", Tea: 1, Date: "2024-01-01"},
		{OfficeName: "Globex", Tea: 1, Date: "2024-01-01"},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrOfficeNotFound)
	assert.Contains(t, err.Error(), "row 2")
}

func TestService_AddPayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)

	office := uuid.New()
	repo.EXPECT().AddPayment(gomock.Any(), "V1", office, decimal.NewFromInt(45)).Return(nil)

	svc := ledger.NewService(repo)
	require.NoError(t, svc.AddPayment(context.Background(), "V1", office, decimal.NewFromInt(45)))
	assert.Error(t, svc.AddPayment(context.Background(), "V1", office, decimal.NewFromInt(-1)))
}
