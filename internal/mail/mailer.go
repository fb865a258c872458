// Package mail provides the SMTP client used to deliver verification codes
// and expiry reminders.  Delivery is best-effort: callers log failures and
// move on, nothing here blocks or fails a user-facing action.
package mail

import (
	"crypto/tls"
	"fmt"
	"net/url"

	"github.com/dajohi/goemail"

	"github.com/iliyamo/pdf-chat/internal/config"
)

// Mailer sends one message per call over SMTPS.  A disabled mailer (no
// SMTP_HOST configured) accepts every send as a no-op so the rest of the
// system does not need to care whether mail is set up.
type Mailer struct {
	smtp     *goemail.SMTP
	from     string
	name     string
	disabled bool
}

// NewMailer connects the SMTP client from config.  Credentials are encoded
// into an smtps URL; the connection itself is established lazily per send
// by the underlying client.
func NewMailer(cfg config.MailConfig) (*Mailer, error) {
	if !cfg.Enabled {
		return &Mailer{disabled: true}, nil
	}

	h := fmt.Sprintf("smtps://%s:%s@%s",
		url.QueryEscape(cfg.User), url.QueryEscape(cfg.Pass), cfg.Host)
	u, err := url.Parse(h)
	if err != nil {
		return nil, fmt.Errorf("parse smtp host: %w", err)
	}
	tlsConfig := &tls.Config{
		ServerName:         u.Hostname(),
		InsecureSkipVerify: cfg.SkipVerify,
	}
	smtp, err := goemail.NewSMTP(u.String(), tlsConfig)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &Mailer{smtp: smtp, from: cfg.From, name: cfg.Name}, nil
}

// Enabled reports whether mail delivery is configured.
func (m *Mailer) Enabled() bool { return !m.disabled }

// Send transmits a single message to one recipient.  The connection is
// established, authenticated and released by the underlying client on
// every call, success or failure.
func (m *Mailer) Send(to, subject, body string) error {
	if m.disabled {
		return nil
	}
	msg := goemail.NewMessage(m.from, subject, body)
	msg.SetName(m.name)
	msg.AddTo(to)
	return m.smtp.Send(msg)
}
