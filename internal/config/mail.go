package config

import "os"

// MailConfig defines the SMTP settings used by the notifier.  Mail is an
// optional subsystem: when SMTP_HOST is unset the mailer is disabled and
// every send becomes a logged no-op, which keeps local development free of
// a mail server dependency.
type MailConfig struct {
	Enabled    bool
	Host       string // host:port of the SMTPS server
	User       string // SMTP username
	Pass       string // SMTP password
	From       string // From address on outgoing mail
	Name       string // human readable From name
	SkipVerify bool   // skip TLS certificate verification (dev only)
}

// LoadMailConfig reads SMTP settings from environment variables.  Only
// SMTP_HOST decides whether mail is enabled; the remaining values default
// to sensible development placeholders.
func LoadMailConfig() MailConfig {
	host := os.Getenv("SMTP_HOST")
	return MailConfig{
		Enabled:    host != "",
		Host:       host,
		User:       os.Getenv("SMTP_USER"),
		Pass:       os.Getenv("SMTP_PASS"),
		From:       envStr("MAIL_FROM", "noreply@pdf-chat.local"),
		Name:       envStr("MAIL_NAME", "PDF Chat"),
		SkipVerify: envBool("SMTP_SKIP_VERIFY", false),
	}
}
