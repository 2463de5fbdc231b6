package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// TicketEmailData holds data for the registration ticket email. Token is the
// signed string the frontend renders as a QR code.
type TicketEmailData struct {
	Name       string
	EventTitle string
	EventDate  string
	EventTime  string
	EventVenue string
	Token      string
}

// EmailService defines the contract for sending domain-level emails.
// Ticket delivery is best-effort: a send failure never fails a registration.
type EmailService interface {
	SendTicket(ctx context.Context, to string, data *TicketEmailData) error
}
