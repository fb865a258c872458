package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iliyamo/pdf-chat/internal/model"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "accounts.json"))
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	return s
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	_, err := s.Get(context.Background(), "nobody@x.com")
	if err != ErrUnknownAccount {
		t.Fatalf("Get on missing file: got %v, want ErrUnknownAccount", err)
	}
}

func TestFileStore_CreateGetRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	acct := model.Account{
		PasswordHash:     "hash",
		Verified:         model.BoolPtr(false),
		VerificationCode: "123456",
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.Create(context.Background(), "A@X.com", acct); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// Lookup is case-insensitive.
	got, err := s.Get(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.PasswordHash != "hash" || got.VerificationCode != "123456" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.IsVerified() {
		t.Fatalf("account should be unverified")
	}
}

func TestFileStore_DuplicateCreateLeavesFirstRecord(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	first := model.Account{PasswordHash: "first-hash"}
	if err := s.Create(context.Background(), "a@x.com", first); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	err := s.Create(context.Background(), "a@x.com", model.Account{PasswordHash: "second-hash"})
	if err != ErrDuplicateAccount {
		t.Fatalf("second Create: got %v, want ErrDuplicateAccount", err)
	}

	got, err := s.Get(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.PasswordHash != "first-hash" {
		t.Fatalf("first record was overwritten: %+v", got)
	}
}

func TestFileStore_UpdateUnknown(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	err := s.Update(context.Background(), "nobody@x.com", model.Account{})
	if err != ErrUnknownAccount {
		t.Fatalf("Update unknown: got %v, want ErrUnknownAccount", err)
	}
}

func TestFileStore_UpdatePersistsSynchronously(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "accounts.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	if err := s.Create(context.Background(), "a@x.com", model.Account{PasswordHash: "h"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	acct, _ := s.Get(context.Background(), "a@x.com")
	acct.SubscriptionEnd = "2027-03-15"
	if err := s.Update(context.Background(), "a@x.com", acct); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	// A second store over the same file sees the mutation immediately.
	s2, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	got, err := s2.Get(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.SubscriptionEnd != "2027-03-15" {
		t.Fatalf("mutation not persisted: %+v", got)
	}
}

func TestFileStore_LegacyRecordWithoutVerifiedField(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "accounts.json")
	legacy := map[string]map[string]any{
		"old@x.com": {
			"password_hash":    "h",
			"subscription_end": "2027-01-01",
		},
	}
	b, err := json.Marshal(legacy)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	got, err := s.Get(context.Background(), "old@x.com")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	// Records written before the verification flow are implicitly verified.
	if !got.IsVerified() {
		t.Fatalf("legacy record should be treated as verified")
	}
	if got.SubscriptionEnd != "2027-01-01" {
		t.Fatalf("legacy subscription window lost: %+v", got)
	}
}
