// Package service implements the portal's business operations over the
// collection store: the proposal lifecycle, vote tabulation, the
// comment ledger, proposal-request intake, membership applications and
// the admin console.
package service

import (
	"errors"
	"strings"

	"oha-portal/pkg/apperr"
)

// wrapStore converts a raw store failure into a store-typed AppError
// while letting errors that already carry a taxonomy pass through.
func wrapStore(message string, err error) error {
	if err == nil {
		return nil
	}
	var ae *apperr.AppError
	if errors.As(err, &ae) {
		return err
	}
	return apperr.NewStoreError(message, err)
}

// fullName joins the self-reported first and last name into the
// display name stored on the user record.
func fullName(firstName, lastName string) string {
	return strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName)
}

// blank reports whether s is empty after trimming.
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// trimmed is shorthand for strings.TrimSpace.
func trimmed(s string) string {
	return strings.TrimSpace(s)
}
