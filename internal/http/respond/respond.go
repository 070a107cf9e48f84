// Package respond writes JSON bodies and maps domain errors to status codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
	"github.com/MrJamesThe3rd/chaibook/internal/auth"
	"github.com/MrJamesThe3rd/chaibook/internal/billing"
	"github.com/MrJamesThe3rd/chaibook/internal/importer"
	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
	"github.com/MrJamesThe3rd/chaibook/internal/subscription"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Status returns the HTTP status for err. Unknown errors are internal.
func Status(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, subscription.ErrExpired):
		return http.StatusForbidden
	case errors.Is(err, account.ErrDuplicateIdentifier),
		errors.Is(err, ledger.ErrCapacityExceeded):
		return http.StatusConflict
	case errors.Is(err, account.ErrNotFound),
		errors.Is(err, ledger.ErrOfficeNotFound),
		errors.Is(err, billing.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, account.ErrInvalidAccount),
		errors.Is(err, ledger.ErrInvalidOffice),
		errors.Is(err, ledger.ErrMalformedEntry),
		errors.Is(err, importer.ErrInvalidCSV):
		return http.StatusUnprocessableEntity
	}

	return http.StatusInternalServerError
}

// Error writes err as plain text. Internal errors are logged and not echoed.
func Error(w http.ResponseWriter, err error) {
	status := Status(err)

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", status)

		return
	}

	http.Error(w, err.Error(), status)
}
