package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/pdf-chat/internal/config"
	"github.com/iliyamo/pdf-chat/internal/middleware"
	"github.com/iliyamo/pdf-chat/internal/model"
	"github.com/iliyamo/pdf-chat/internal/queue"
	"github.com/iliyamo/pdf-chat/internal/repository"
	"github.com/iliyamo/pdf-chat/internal/session"
	"github.com/iliyamo/pdf-chat/internal/subscription"
	"github.com/iliyamo/pdf-chat/internal/utils"
)

// fakeNotifier records every dispatched event so tests can count mails.
type fakeNotifier struct {
	events []queue.NotificationEvent
}

func (f *fakeNotifier) Notify(ev queue.NotificationEvent) {
	f.events = append(f.events, ev)
}

func testCfg(mode string) config.Config {
	return config.Config{
		Env:              "test",
		Port:             "0",
		AuthMode:         mode,
		JWTSecret:        "test-secret",
		AccessTTLMin:     15,
		BcryptCost:       bcrypt.MinCost,
		SubscriptionDays: 365,
		ReminderDays:     10,
		AccountDriver:    "file",
	}
}

func newAuthEnv(t *testing.T, mode string) (*AuthHandler, *fakeNotifier, repository.AccountStore) {
	t.Helper()
	store, err := repository.NewFileStore(filepath.Join(t.TempDir(), "accounts.json"))
	if err != nil {
		t.Fatalf("NewFileStore error: %v", err)
	}
	n := &fakeNotifier{}
	return NewAuthHandler(testCfg(mode), store, n), n, store
}

func postJSON(t *testing.T, h echo.HandlerFunc, body string, sess *session.Session) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if sess != nil {
		c.Set(middleware.SessionKey, sess)
	}
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func seedAccount(t *testing.T, store repository.AccountStore, email, password string, mutate func(*model.Account)) {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	acct := model.Account{PasswordHash: hash, CreatedAt: time.Now().UTC()}
	if mutate != nil {
		mutate(&acct)
	}
	if err := store.Create(context.Background(), email, acct); err != nil {
		t.Fatalf("seed account: %v", err)
	}
}

func TestRegister_OpenModeGrantsWindowImmediately(t *testing.T) {
	t.Parallel()

	h, n, store := newAuthEnv(t, config.ModeOpen)
	rec := postJSON(t, h.Register, `{"email":"a@x.com","password":"pw1"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", rec.Code)
	}
	if len(n.events) != 0 {
		t.Fatalf("open mode should not send mail, got %d events", len(n.events))
	}

	acct, err := store.Get(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !acct.IsVerified() {
		t.Fatalf("open-mode account should be verified")
	}
	want := subscription.EndDateAfter(time.Now(), 365)
	if acct.SubscriptionEnd != want {
		t.Fatalf("subscription_end = %q, want %q", acct.SubscriptionEnd, want)
	}
}

func TestRegister_DuplicateLeavesFirstAccount(t *testing.T) {
	t.Parallel()

	h, _, store := newAuthEnv(t, config.ModeOpen)
	if rec := postJSON(t, h.Register, `{"email":"a@x.com","password":"pw1"}`, nil); rec.Code != http.StatusCreated {
		t.Fatalf("first register status = %d", rec.Code)
	}
	rec := postJSON(t, h.Register, `{"email":"a@x.com","password":"other"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", rec.Code)
	}

	acct, err := store.Get(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !utils.VerifyPassword(acct.PasswordHash, "pw1") {
		t.Fatalf("first account's credential was overwritten")
	}
}

func TestVerificationScenario(t *testing.T) {
	t.Parallel()

	h, n, store := newAuthEnv(t, config.ModeVerified)
	ctx := context.Background()

	// Register: unverified, no window, one code mail.
	rec := postJSON(t, h.Register, `{"email":"a@x.com","password":"pw1"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", rec.Code)
	}
	if len(n.events) != 1 || n.events[0].Kind != queue.KindVerificationCode {
		t.Fatalf("expected exactly one verification mail, got %+v", n.events)
	}

	acct, err := store.Get(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if acct.IsVerified() || acct.SubscriptionEnd != "" {
		t.Fatalf("fresh registration must be unverified with no window: %+v", acct)
	}
	code := acct.VerificationCode
	if len(code) != 6 {
		t.Fatalf("stored code = %q, want six digits", code)
	}

	// Confirm for an unknown account.
	rec = postJSON(t, h.Confirm, `{"email":"b@x.com","code":"123456"}`, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("confirm unknown status = %d, want 404", rec.Code)
	}

	// Confirm with the wrong code: no transition, no window.
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	rec = postJSON(t, h.Confirm, `{"email":"a@x.com","code":"`+wrong+`"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("confirm wrong code status = %d, want 400", rec.Code)
	}
	acct, _ = store.Get(ctx, "a@x.com")
	if acct.IsVerified() || acct.SubscriptionEnd != "" {
		t.Fatalf("wrong code must not mutate the account: %+v", acct)
	}

	// Confirm with the right code: verified, window stamped.
	rec = postJSON(t, h.Confirm, `{"email":"a@x.com","code":"`+code+`"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm status = %d, want 200", rec.Code)
	}
	acct, _ = store.Get(ctx, "a@x.com")
	wantEnd := subscription.EndDateAfter(time.Now(), 365)
	if !acct.IsVerified() || acct.SubscriptionEnd != wantEnd {
		t.Fatalf("confirm did not activate the window: %+v", acct)
	}

	// Second confirm is idempotent: no re-stamp, no new mail.
	rec = postJSON(t, h.Confirm, `{"email":"a@x.com","code":"`+code+`"}`, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "already_verified") {
		t.Fatalf("second confirm = %d %s", rec.Code, rec.Body.String())
	}
	if len(n.events) != 1 {
		t.Fatalf("second confirm must not resend mail, got %d events", len(n.events))
	}
	again, _ := store.Get(ctx, "a@x.com")
	if again.SubscriptionEnd != wantEnd {
		t.Fatalf("second confirm regenerated the window: %q", again.SubscriptionEnd)
	}

	// Login succeeds with 365 days remaining and no reminder.
	sess := &session.Session{}
	rec = postJSON(t, h.Login, `{"email":"a@x.com","password":"pw1"}`, sess)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d body=%s", rec.Code, rec.Body.String())
	}
	var resp loginResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.DaysRemaining != 365 {
		t.Fatalf("days_remaining = %d, want 365", resp.DaysRemaining)
	}
	if resp.Access.Token == "" {
		t.Fatalf("login did not issue an access token")
	}
	if len(n.events) != 1 {
		t.Fatalf("fresh subscription must not trigger a reminder")
	}
	if sess.Identity() != "a@x.com" {
		t.Fatalf("login did not bind the session identity")
	}
}

func TestLogin_Failures(t *testing.T) {
	t.Parallel()

	h, _, store := newAuthEnv(t, config.ModeVerified)

	seedAccount(t, store, "unverified@x.com", "pw", func(a *model.Account) {
		a.Verified = model.BoolPtr(false)
		a.VerificationCode = "111111"
	})
	seedAccount(t, store, "nosub@x.com", "pw", func(a *model.Account) {
		a.Verified = model.BoolPtr(true)
	})
	seedAccount(t, store, "expired@x.com", "pw", func(a *model.Account) {
		a.Verified = model.BoolPtr(true)
		a.SubscriptionEnd = subscription.EndDateAfter(time.Now(), -1)
	})

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"unknown account", `{"email":"nobody@x.com","password":"pw"}`, http.StatusUnauthorized, "unknown account"},
		{"wrong password", `{"email":"nosub@x.com","password":"bad"}`, http.StatusUnauthorized, "wrong password"},
		{"not verified", `{"email":"unverified@x.com","password":"pw"}`, http.StatusForbidden, "not verified"},
		{"no subscription", `{"email":"nosub@x.com","password":"pw"}`, http.StatusForbidden, "no subscription"},
		{"expired", `{"email":"expired@x.com","password":"pw"}`, http.StatusForbidden, "subscription expired"},
	}
	for _, tc := range tests {
		rec := postJSON(t, h.Login, tc.body, nil)
		if rec.Code != tc.wantCode {
			t.Fatalf("%s: status = %d, want %d", tc.name, rec.Code, tc.wantCode)
		}
		if !strings.Contains(rec.Body.String(), tc.wantErr) {
			t.Fatalf("%s: body = %s, want %q", tc.name, rec.Body.String(), tc.wantErr)
		}
	}
}

func TestLogin_ExpiryReminderBoundary(t *testing.T) {
	t.Parallel()

	h, n, store := newAuthEnv(t, config.ModeOpen)

	seedAccount(t, store, "nine@x.com", "pw", func(a *model.Account) {
		a.Verified = model.BoolPtr(true)
		a.SubscriptionEnd = subscription.EndDateAfter(time.Now(), 9)
	})
	seedAccount(t, store, "ten@x.com", "pw", func(a *model.Account) {
		a.Verified = model.BoolPtr(true)
		a.SubscriptionEnd = subscription.EndDateAfter(time.Now(), 10)
	})

	rec := postJSON(t, h.Login, `{"email":"nine@x.com","password":"pw"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d", rec.Code)
	}
	if len(n.events) != 1 || n.events[0].Kind != queue.KindExpiryReminder {
		t.Fatalf("nine days left should trigger exactly one reminder, got %+v", n.events)
	}

	rec = postJSON(t, h.Login, `{"email":"ten@x.com","password":"pw"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d", rec.Code)
	}
	if len(n.events) != 1 {
		t.Fatalf("ten days left should not trigger a reminder, got %d events", len(n.events))
	}
}

func TestLogout_PreservesWorkspace(t *testing.T) {
	t.Parallel()

	h, _, _ := newAuthEnv(t, config.ModeOpen)
	sess := &session.Session{}
	sess.BindIdentity("a@x.com")
	sess.AddFragments([]model.Fragment{{Source: "a.pdf", Page: 1, Text: "alpha"}})

	rec := postJSON(t, h.Logout, "", sess)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d, want 204", rec.Code)
	}
	if sess.Identity() != "" {
		t.Fatalf("logout did not clear the identity")
	}
	if sess.FragmentCount() != 1 {
		t.Fatalf("logout cleared the document collection")
	}
}
