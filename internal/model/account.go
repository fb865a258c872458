package model

import "time"

// DateLayout is the calendar-date format used for subscription windows.
// Windows are date-only on purpose: expiry is inclusive of the final day,
// so anything finer than a day would only invite timezone bugs.
const DateLayout = "2006-01-02"

// Account represents one registered user keyed by email.  The email itself
// is not stored on the record; it is the key of the persisted mapping (file
// driver) or the primary key column (mysql driver).
//
// Fields:
//
//	PasswordHash     – bcrypt hash of the user's password.  The raw secret
//	                   is never persisted or logged.
//	Verified         – nil on records written before the verification flow
//	                   existed.  Such legacy records are treated as verified,
//	                   see IsVerified.
//	VerificationCode – six-digit numeric code, present only while the
//	                   account is unverified.
//	SubscriptionEnd  – last valid calendar day ("YYYY-MM-DD"), empty until
//	                   the subscription window has been activated.
//	CreatedAt        – timestamp of registration.
type Account struct {
	PasswordHash     string    `json:"password_hash"`
	Verified         *bool     `json:"verified,omitempty"`
	VerificationCode string    `json:"verification_code,omitempty"`
	SubscriptionEnd  string    `json:"subscription_end,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// IsVerified reports whether the account has completed email verification.
// A nil Verified field means the record predates the verification flow and
// is implicitly verified.
func (a Account) IsVerified() bool {
	return a.Verified == nil || *a.Verified
}

// BoolPtr is a small helper for populating the Verified field.
func BoolPtr(b bool) *bool { return &b }
