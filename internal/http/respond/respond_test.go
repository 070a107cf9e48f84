package respond_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
	"github.com/MrJamesThe3rd/chaibook/internal/auth"
	"github.com/MrJamesThe3rd/chaibook/internal/billing"
	"github.com/MrJamesThe3rd/chaibook/internal/http/respond"
	"github.com/MrJamesThe3rd/chaibook/internal/importer"
	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
	"github.com/MrJamesThe3rd/chaibook/internal/subscription"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "InvalidCredentials", err: auth.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "Expired", err: subscription.ErrExpired, want: http.StatusForbidden},
		{name: "Duplicate", err: account.ErrDuplicateIdentifier, want: http.StatusConflict},
		{name: "Capacity", err: fmt.Errorf("adding office: %w", ledger.ErrCapacityExceeded), want: http.StatusConflict},
		{name: "NoData", err: billing.ErrNoData, want: http.StatusNotFound},
		{name: "OfficeNotFound", err: ledger.ErrOfficeNotFound, want: http.StatusNotFound},
		{name: "MalformedEntry", err: ledger.ErrMalformedEntry, want: http.StatusUnprocessableEntity},
		{name: "InvalidCSV", err: importer.ErrInvalidCSV, want: http.StatusUnprocessableEntity},
		{name: "Unknown", err: errors.New("disk on fire"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, respond.Status(tt.err))
		})
	}
}

func TestError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.Error(rec, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq:")

	rec = httptest.NewRecorder()
	respond.Error(rec, fmt.Errorf("%w: Globex", ledger.ErrOfficeNotFound))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Globex")
}
