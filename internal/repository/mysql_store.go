package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/pdf-chat/internal/model"
)

// MySQLStore persists accounts in a `users` table.  Schema:
//
//	CREATE TABLE users (
//	    email             VARCHAR(255) PRIMARY KEY,
//	    password_hash     VARCHAR(255) NOT NULL,
//	    verified          TINYINT(1)   NOT NULL DEFAULT 0,
//	    verification_code VARCHAR(6)   NULL,
//	    subscription_end  DATE         NULL,
//	    created_at        DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP
//	);
type MySQLStore struct{ DB *sql.DB }

func NewMySQLStore(db *sql.DB) *MySQLStore { return &MySQLStore{DB: db} }

func (s *MySQLStore) Get(ctx context.Context, email string) (model.Account, error) {
	var (
		acct     model.Account
		verified bool
		code     sql.NullString
		end      sql.NullTime
	)
	err := s.DB.QueryRowContext(ctx,
		"SELECT password_hash, verified, verification_code, subscription_end, created_at FROM users WHERE email=? LIMIT 1",
		NormalizeEmail(email)).
		Scan(&acct.PasswordHash, &verified, &code, &end, &acct.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Account{}, ErrUnknownAccount
		}
		return model.Account{}, err
	}
	acct.Verified = model.BoolPtr(verified)
	if code.Valid {
		acct.VerificationCode = code.String
	}
	if end.Valid {
		acct.SubscriptionEnd = end.Time.Format(model.DateLayout)
	}
	return acct, nil
}

func (s *MySQLStore) Create(ctx context.Context, email string, acct model.Account) error {
	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, verified, verification_code, subscription_end, created_at) VALUES (?,?,?,?,?,?)",
		NormalizeEmail(email), acct.PasswordHash, acct.IsVerified(),
		nullStr(acct.VerificationCode), nullStr(acct.SubscriptionEnd), acct.CreatedAt)
	if err != nil {
		// 1062 is MySQL's duplicate-key error code.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateAccount
		}
		return err
	}
	return nil
}

func (s *MySQLStore) Update(ctx context.Context, email string, acct model.Account) error {
	res, err := s.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, verified=?, verification_code=?, subscription_end=? WHERE email=?",
		acct.PasswordHash, acct.IsVerified(),
		nullStr(acct.VerificationCode), nullStr(acct.SubscriptionEnd), NormalizeEmail(email))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the email is unknown or the record already holds these
		// values; re-check so a no-op update is not reported as missing.
		if _, getErr := s.Get(ctx, email); getErr != nil {
			return getErr
		}
	}
	return nil
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
