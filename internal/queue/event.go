// Package queue defines message payloads exchanged over the message broker
// and the background consumer that delivers them as email.
package queue

import (
	"fmt"
	"time"
)

// Notification kinds.
const (
	KindVerificationCode = "verification_code"
	KindExpiryReminder   = "expiry_reminder"
)

// NotificationEvent is published when the application wants an email sent.
// The subject and body are composed at publish time so the consumer stays
// a dumb delivery loop.
type NotificationEvent struct {
	Kind     string `json:"kind"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	QueuedAt string `json:"queued_at"`
}

// NewVerificationCodeEvent builds the mail carrying a one-time code.
func NewVerificationCodeEvent(to, code string) NotificationEvent {
	return NotificationEvent{
		Kind:    KindVerificationCode,
		To:      to,
		Subject: "Your verification code",
		Body: fmt.Sprintf("Your verification code is %s.\n\n"+
			"Enter it to activate your account. If you did not register, ignore this mail.\n", code),
		QueuedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// NewExpiryReminderEvent builds the mail warning that a subscription is
// about to run out.
func NewExpiryReminderEvent(to string, daysLeft int) NotificationEvent {
	day := "days"
	if daysLeft == 1 {
		day = "day"
	}
	return NotificationEvent{
		Kind:    KindExpiryReminder,
		To:      to,
		Subject: "Your subscription expires soon",
		Body: fmt.Sprintf("Your subscription ends in %d %s.\n\n"+
			"Renew it to keep asking questions about your documents.\n", daysLeft, day),
		QueuedAt: time.Now().UTC().Format(time.RFC3339),
	}
}
