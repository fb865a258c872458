package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/pdf-chat/internal/config"     // app configuration
	"github.com/iliyamo/pdf-chat/internal/middleware" // session extraction
	"github.com/iliyamo/pdf-chat/internal/model"      // account record
	"github.com/iliyamo/pdf-chat/internal/queue"      // notification events
	"github.com/iliyamo/pdf-chat/internal/repository" // account stores
	"github.com/iliyamo/pdf-chat/internal/subscription"
	"github.com/iliyamo/pdf-chat/internal/utils" // hashing, tokens, codes
)

// Notifier dispatches a notification event, fire-and-forget.  The
// production implementation publishes to the broker or sends mail
// directly; tests substitute a counter.
type Notifier interface {
	Notify(ev queue.NotificationEvent)
}

// AuthHandler bundles dependencies for account endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Accounts repository.AccountStore
	Notifier Notifier
}

func NewAuthHandler(cfg config.Config, accounts repository.AccountStore, n Notifier) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Accounts: accounts, Notifier: n}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type confirmReq struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type loginResp struct {
	Email         string    `json:"email"`
	Access        tokenPart `json:"access"`
	DaysRemaining int       `json:"days_remaining"`
}

// Register creates an account.  In open mode the subscription window is
// granted immediately; in verified mode the account starts unverified and
// a one-time code is mailed out.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := repository.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
	}
	acct := model.Account{PasswordHash: hash, CreatedAt: time.Now().UTC()}

	var code string
	if h.Cfg.AuthMode == config.ModeVerified {
		code, err = utils.NewVerificationCode()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
		}
		acct.Verified = model.BoolPtr(false)
		acct.VerificationCode = code
	} else {
		acct.Verified = model.BoolPtr(true)
		acct.SubscriptionEnd = subscription.EndDateAfter(time.Now(), h.Cfg.SubscriptionDays)
	}

	if err := h.Accounts.Create(ctx, email, acct); err != nil {
		if err == repository.ErrDuplicateAccount {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
	}

	if h.Cfg.AuthMode == config.ModeVerified {
		h.Notifier.Notify(queue.NewVerificationCodeEvent(email, code))
		return c.JSON(http.StatusCreated, echo.Map{
			"email":  email,
			"status": "pending_verification",
		})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"email":            email,
		"status":           "active",
		"subscription_end": acct.SubscriptionEnd,
	})
}

// Confirm checks the one-time code and activates the subscription window.
// A second confirm on an already verified account is a no-op: no new
// window, no new mail.
func (h *AuthHandler) Confirm(c echo.Context) error {
	var req confirmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := repository.NormalizeEmail(req.Email)
	code := strings.TrimSpace(req.Code)
	if email == "" || code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/code required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	acct, err := h.Accounts.Get(ctx, email)
	if err != nil {
		if err == repository.ErrUnknownAccount {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown account"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}

	if acct.IsVerified() {
		return c.JSON(http.StatusOK, echo.Map{
			"status":           "already_verified",
			"subscription_end": acct.SubscriptionEnd,
		})
	}
	if code != acct.VerificationCode {
		// No state change on a mismatch.
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid code"})
	}

	acct.Verified = model.BoolPtr(true)
	acct.VerificationCode = ""
	acct.SubscriptionEnd = subscription.EndDateAfter(time.Now(), h.Cfg.SubscriptionDays)
	if err := h.Accounts.Update(ctx, email, acct); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "activate failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":           "verified",
		"subscription_end": acct.SubscriptionEnd,
	})
}

// Login verifies credentials and the subscription window, binds the
// session identity and returns an access token.  When fewer than
// Cfg.ReminderDays days remain an expiry reminder is dispatched as a
// side effect, best-effort.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	email := repository.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	acct, err := h.Accounts.Get(ctx, email)
	if err != nil {
		if err == repository.ErrUnknownAccount {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown account"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	if !utils.VerifyPassword(acct.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "wrong password"})
	}
	if !acct.IsVerified() {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "account not verified"})
	}
	if acct.SubscriptionEnd == "" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "no subscription"})
	}
	now := time.Now()
	if !subscription.IsValid(acct.SubscriptionEnd, now) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "subscription expired"})
	}

	days, err := subscription.DaysRemaining(acct.SubscriptionEnd, now)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "invalid subscription record"})
	}

	if sess := middleware.CurrentSession(c); sess != nil {
		sess.BindIdentity(email)
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, email, h.Cfg.AuthMode, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}

	if days < h.Cfg.ReminderDays {
		h.Notifier.Notify(queue.NewExpiryReminderEvent(email, days))
	}

	return c.JSON(http.StatusOK, loginResp{
		Email:         email,
		Access:        tokenPart{Token: access.Token, Expires: access.Exp},
		DaysRemaining: days,
	})
}

// Logout clears the session's bound identity.  The document collection,
// pipeline and conversation memory are deliberately kept so a re-login
// within the same process resumes the workspace.
func (h *AuthHandler) Logout(c echo.Context) error {
	if sess := middleware.CurrentSession(c); sess != nil {
		sess.ClearIdentity()
	}
	return c.NoContent(http.StatusNoContent)
}

// Me is a simple protected endpoint returning the authenticated email.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"email": c.Get("email")})
}
