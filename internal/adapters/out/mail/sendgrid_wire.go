package mail

import (
	"context"
	"errors"
	"log"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"

	bkdom "devevent/internal/domain/booking"
)

// SendGridSettings are resolved from config.
type SendGridSettings struct {
	APIKey       string
	APIKeySecret string // Secret Manager secret id, used when APIKey is empty
	ProjectID    string
	From         string
	FromName     string
	SiteBaseURL  string
}

// NewBookingMailerWithSendGrid は SendGrid を使った booking.Mailer を生成します。
// API key / from が無い場合は LogMailer を返します。
func NewBookingMailerWithSendGrid(ctx context.Context, sm *secretmanager.Client, s SendGridSettings) bkdom.Mailer {
	apiKey := strings.TrimSpace(s.APIKey)
	if apiKey == "" && strings.TrimSpace(s.APIKeySecret) != "" {
		v, err := AccessSecret(ctx, sm, s.ProjectID, s.APIKeySecret)
		if err != nil {
			log.Printf("[mail] WARN: SendGrid key from Secret Manager failed: %v", err)
		} else {
			apiKey = v
		}
	}

	if apiKey == "" {
		log.Printf("[mail] WARN: SENDGRID_API_KEY is empty. booking confirmations are logged only.")
		return LogMailer{}
	}
	if strings.TrimSpace(s.From) == "" {
		log.Printf("[mail] WARN: MAIL_FROM is empty. booking confirmations are logged only.")
		return LogMailer{}
	}

	client := NewSendGridClient(apiKey, s.FromName)
	log.Printf("[mail] SendGrid booking mailer initialized from=%s", s.From)
	return NewBookingMailer(client, s.From, s.SiteBaseURL)
}

// AccessSecret reads projects/{projectID}/secrets/{secretID}/versions/latest.
func AccessSecret(ctx context.Context, sm *secretmanager.Client, projectID, secretID string) (string, error) {
	if sm == nil {
		return "", errors.New("secretmanager client is nil")
	}
	prj := strings.TrimSpace(projectID)
	if prj == "" {
		return "", errors.New("projectID is empty")
	}
	name := "projects/" + prj + "/secrets/" + strings.TrimSpace(secretID) + "/versions/latest"

	resp, err := sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", errors.New("AccessSecretVersion failed (" + name + "): " + err.Error())
	}
	if resp == nil || resp.Payload == nil {
		return "", errors.New("empty payload (" + name + ")")
	}
	return strings.TrimSpace(string(resp.Payload.Data)), nil
}
