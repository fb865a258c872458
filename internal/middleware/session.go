package middleware

// session.go issues the opaque cookie that keys per-visitor workspace state
// (documents, pipeline, memory).  The cookie is independent of
// authentication on purpose: a visitor gets a workspace before logging in,
// and the workspace survives logout.

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/pdf-chat/internal/session"
)

// SessionCookieName is the cookie carrying the workspace token.
const SessionCookieName = "chat_session"

// SessionKey is the context key under which the *session.Session is stored.
const SessionKey = "session"

// Session returns middleware that resolves the visitor's session from the
// cookie, creating a fresh session (and setting the cookie) when the
// cookie is absent or stale.  Handlers read the session via
// CurrentSession.
func Session(store *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sess *session.Session
			if ck, err := c.Cookie(SessionCookieName); err == nil && ck.Value != "" {
				sess = store.Get(ck.Value)
			}
			if sess == nil {
				token, fresh, err := store.New()
				if err != nil {
					return c.JSON(http.StatusInternalServerError, echo.Map{"error": "session init failed"})
				}
				c.SetCookie(&http.Cookie{
					Name:     SessionCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				sess = fresh
			}
			c.Set(SessionKey, sess)
			return next(c)
		}
	}
}

// CurrentSession extracts the session placed in context by Session.
func CurrentSession(c echo.Context) *session.Session {
	if s, ok := c.Get(SessionKey).(*session.Session); ok {
		return s
	}
	return nil
}
