package core

import "net/mail"

type (
	// Notification is a plain-text message for an applicant or guardian.
	Notification struct {
		To      []mail.Address
		Subject string
		Body    string
	}

	// Notifier is any service that can deliver notifications.
	Notifier interface {
		// SendNotifications delivers messages concurrently; failures are logged, never returned.
		SendNotifications(messages ...*Notification)
	}
)

func (n *Notification) HasRecipients() bool {
	return len(n.To) > 0
}
