package domain

import (
	"time"

	"conversationscheduler/internal/scheduling"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WeeklyDigestEmailData holds data for the weekly scheduling digest email.
type WeeklyDigestEmailData struct {
	Email     string
	FirstName string
	WeekStart time.Time
	Moments   []scheduling.Moment
}
