package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/pdf-chat/internal/model"
)

// AccountStore is the persistence contract shared by the file and MySQL
// backends.  Emails are normalized to lowercase before use as keys; every
// mutation is persisted synchronously before the method returns.
type AccountStore interface {
	// Get returns the record for the given email or ErrUnknownAccount.
	Get(ctx context.Context, email string) (model.Account, error)

	// Create inserts a new record.  Returns ErrDuplicateAccount when the
	// email is already registered; the existing record is left untouched.
	Create(ctx context.Context, email string, acct model.Account) error

	// Update overwrites the record for an existing email.  Returns
	// ErrUnknownAccount when no record exists.
	Update(ctx context.Context, email string, acct model.Account) error
}

// NormalizeEmail lowercases and trims an email so that lookups are
// case-insensitive regardless of backend.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
