// internal/adapters/out/mail/booking_mailer.go
package mail

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	bkdom "devevent/internal/domain/booking"
)

// EmailClient は実際のメール送信クライアント（SendGrid など）を抽象化したインターフェースです。
type EmailClient interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// BookingMailer implements booking.Mailer on top of an EmailClient.
type BookingMailer struct {
	client      EmailClient
	fromAddress string
	siteBaseURL string // 例: "https://devevent.example.com"
}

var _ bkdom.Mailer = (*BookingMailer)(nil)

func NewBookingMailer(client EmailClient, fromAddress, siteBaseURL string) *BookingMailer {
	return &BookingMailer{
		client:      client,
		fromAddress: strings.TrimSpace(fromAddress),
		siteBaseURL: strings.TrimRight(strings.TrimSpace(siteBaseURL), "/"),
	}
}

func (m *BookingMailer) SendBookingConfirmation(
	ctx context.Context,
	b bkdom.Booking,
	eventTitle, eventDate, eventTime, location string,
) error {
	if m == nil || m.client == nil {
		return errors.New("mail: booking mailer not configured")
	}
	subject, body := BookingConfirmation(b, eventTitle, eventDate, eventTime, location, m.siteBaseURL)
	return m.client.Send(ctx, m.fromAddress, b.Email, subject, body)
}

// BookingConfirmation renders subject and plain-text body.
func BookingConfirmation(b bkdom.Booking, eventTitle, eventDate, eventTime, location, siteBaseURL string) (string, string) {
	subject := fmt.Sprintf("You're booked: %s", eventTitle)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Thanks for booking your spot at %s.\n\n", eventTitle)
	fmt.Fprintf(&sb, "Date:     %s\n", eventDate)
	fmt.Fprintf(&sb, "Time:     %s\n", eventTime)
	fmt.Fprintf(&sb, "Location: %s\n", location)
	if siteBaseURL != "" && b.Slug != "" {
		fmt.Fprintf(&sb, "\nEvent page: %s/events/%s\n", siteBaseURL, b.Slug)
	}
	sb.WriteString("\nSee you there!\n")
	return subject, sb.String()
}

// LogMailer is wired when SendGrid is not configured; it only logs.
type LogMailer struct{}

var _ bkdom.Mailer = LogMailer{}

func (LogMailer) SendBookingConfirmation(_ context.Context, b bkdom.Booking, eventTitle, _, _, _ string) error {
	log.Printf("[mail] SendGrid not configured; skip confirmation to=%s event=%q", b.Email, eventTitle)
	return nil
}
