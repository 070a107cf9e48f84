package billing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/chaibook/internal/billing"
	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
)

func TestService_MarkPaidThenDues(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	svc := billing.NewService(ledger.NewService(repo))
	ctx := context.Background()

	entries := []*ledger.Entry{
		entry(acme, 2, 0, 10, 15, "2024-01-01"),
		entry(acme, 1, 1, 10, 15, "2024-01-05"),
		entry(acme, 3, 0, 10, 15, "2024-02-01"),
	}
	paid := ledger.PaidStatus{}

	repo.EXPECT().ListOffices(gomock.Any(), "V1").Return([]*ledger.Office{acme}, nil).AnyTimes()
	repo.EXPECT().ListEntries(gomock.Any(), "V1").Return(entries, nil).AnyTimes()
	repo.EXPECT().PaidStatus(gomock.Any(), "V1").Return(paid, nil).AnyTimes()
	repo.EXPECT().
		AddPayment(gomock.Any(), "V1", acme.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ any, amount decimal.Decimal) error {
			paid[acme.ID] = paid.Paid(acme.ID).Add(amount)
			return nil
		})

	report, err := svc.Report(ctx, "V1", billing.Filter{OfficeID: acme.ID, From: "2024-01-01", To: "2024-01-31"})
	require.NoError(t, err)
	require.True(t, dec("45").Equal(report.Total))

	newPaid, err := svc.MarkPaid(ctx, "V1", report)
	require.NoError(t, err)
	assert.True(t, dec("45").Equal(newPaid))

	dash, err := svc.Dashboard(ctx, "V1")
	require.NoError(t, err)

	assert.Equal(t, 1, dash.Offices)
	assert.Equal(t, 3, dash.Entries)
	require.Len(t, dash.Dues, 1)
	assert.True(t, dec("75").Equal(dash.Dues[0].Total))
	assert.True(t, dec("30").Equal(dash.Dues[0].Due), "only the February entry stays due, got %s", dash.Dues[0].Due)
}

func TestService_MarkPaid_EmptyReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)
	svc := billing.NewService(ledger.NewService(repo))

	_, err := svc.MarkPaid(context.Background(), "V1", &billing.Report{Filter: billing.Filter{OfficeID: acme.ID}})
	assert.ErrorIs(t, err, billing.ErrNoData)
}

func TestService_Report_UnknownOffice(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().ListOffices(gomock.Any(), "V1").Return([]*ledger.Office{globex}, nil)

	_, err := billing.NewService(ledger.NewService(repo)).
		Report(context.Background(), "V1", billing.Filter{OfficeID: acme.ID})
	assert.ErrorIs(t, err, ledger.ErrOfficeNotFound)
}

func TestService_OfficeBill(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)

	repo.EXPECT().ListOffices(gomock.Any(), "V1").Return([]*ledger.Office{acme, globex}, nil)
	repo.EXPECT().ListEntries(gomock.Any(), "V1").Return([]*ledger.Entry{
		entry(acme, 2, 0, 10, 15, "2024-01-01"),
		entry(globex, 5, 0, 10, 15, "2024-01-01"),
	}, nil)
	repo.EXPECT().PaidStatus(gomock.Any(), "V1").Return(ledger.PaidStatus{acme.ID: dec("5")}, nil)

	bill, err := billing.NewService(ledger.NewService(repo)).OfficeBill(context.Background(), "V1", acme.ID)
	require.NoError(t, err)

	assert.False(t, bill.Empty())
	assert.Len(t, bill.Report.Lines, 1)
	assert.True(t, dec("20").Equal(bill.Report.Total))
	assert.True(t, dec("15").Equal(bill.Due))
}
