package mail

import (
	"context"
	"fmt"
	"html"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridClient implements EmailClient interface
type SendGridClient struct {
	apiKey   string
	fromName string
}

func NewSendGridClient(apiKey, fromName string) *SendGridClient {
	if fromName == "" {
		fromName = "DevEvent"
	}
	return &SendGridClient{apiKey: apiKey, fromName: fromName}
}

// Send sends an email using SendGrid
func (c *SendGridClient) Send(ctx context.Context, from, to, subject, body string) error {
	if c.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if from == "" {
		return fmt.Errorf("from address is empty")
	}
	if to == "" {
		return fmt.Errorf("to address is empty")
	}

	fromEmail := mail.NewEmail(c.fromName, from)
	toEmail := mail.NewEmail("", to)

	// HTML は最低限整形
	htmlContent := fmt.Sprintf("<pre>%s</pre>", html.EscapeString(body))

	message := mail.NewSingleEmail(fromEmail, subject, toEmail, body, htmlContent)

	client := sendgrid.NewSendClient(c.apiKey)

	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}

	if response.StatusCode >= 400 {
		log.Printf("[sendgrid] error status=%d, body=%s", response.StatusCode, response.Body)
		return fmt.Errorf(
			"sendgrid send failed: status=%d, body=%s",
			response.StatusCode,
			response.Body,
		)
	}

	log.Printf("[sendgrid] mail sent: status=%d to=%s subject=%s",
		response.StatusCode, to, subject)

	return nil
}
