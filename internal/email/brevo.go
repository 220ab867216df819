package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"jobguinee_backend/platform/config"
)

// Sender delivers the transactional emails the B2B workflow produces. All of
// them go to the sales inbox; nothing here emails leads directly.
type Sender interface {
	SendLeadAlertEmail(ctx context.Context, toEmail, organizationName, contactName, primaryNeed, urgency string) error
	SendFollowUpReminderEmail(ctx context.Context, toEmail, organizationName, followUpDate string) error
	SendQuoteCreatedEmail(ctx context.Context, toEmail, quoteNumber, title string, totalGNF int64) error
	SendMissionCreatedEmail(ctx context.Context, toEmail, missionNumber, clientCompany string) error
}

type NoopSender struct{}

func (NoopSender) SendLeadAlertEmail(ctx context.Context, toEmail, organizationName, contactName, primaryNeed, urgency string) error {
	return nil
}

func (NoopSender) SendFollowUpReminderEmail(ctx context.Context, toEmail, organizationName, followUpDate string) error {
	return nil
}

func (NoopSender) SendQuoteCreatedEmail(ctx context.Context, toEmail, quoteNumber, title string, totalGNF int64) error {
	return nil
}

func (NoopSender) SendMissionCreatedEmail(ctx context.Context, toEmail, missionNumber, clientCompany string) error {
	return nil
}

// BrevoSender delivers via the Brevo transactional email HTTP API.
type BrevoSender struct {
	apiKey    string
	fromName  string
	fromEmail string
	client    *http.Client
}

type brevoEmailRequest struct {
	Sender struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"sender"`
	To []struct {
		Email string `json:"email"`
	} `json:"to"`
	Subject     string `json:"subject"`
	HTMLContent string `json:"htmlContent"`
}

// NewSender selects the configured provider. Email disabled means NoopSender;
// provider "smtp" uses a direct SMTP connection, anything else goes to Brevo.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	if cfg.GetEmailProvider() == "smtp" {
		return NewSMTPSender(
			cfg.GetSMTPHost(), cfg.GetSMTPPort(),
			cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(), cfg.GetEmailFromName(),
		), nil
	}

	if cfg.GetBrevoAPIKey() == "" {
		return nil, fmt.Errorf("brevo provider selected but BREVO_API_KEY is empty")
	}
	return &BrevoSender{
		apiKey:    cfg.GetBrevoAPIKey(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
		client:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

func (b *BrevoSender) SendLeadAlertEmail(ctx context.Context, toEmail, organizationName, contactName, primaryNeed, urgency string) error {
	content, err := renderEmailTemplate("lead_alert.html", leadAlertEmailData{
		baseEmailData: baseEmailData{
			Title:   "Nouvelle demande B2B",
			Heading: "Nouvelle demande B2B",
		},
		OrganizationName: organizationName,
		ContactName:      contactName,
		PrimaryNeed:      primaryNeed,
		Urgency:          urgency,
	})
	if err != nil {
		return err
	}
	return b.send(ctx, toEmail, fmt.Sprintf(subjectLeadAlertFmt, organizationName), content)
}

func (b *BrevoSender) SendFollowUpReminderEmail(ctx context.Context, toEmail, organizationName, followUpDate string) error {
	content, err := renderEmailTemplate("follow_up_reminder.html", followUpReminderEmailData{
		baseEmailData: baseEmailData{
			Title:   "Relance prévue",
			Heading: "Relance prévue",
		},
		OrganizationName: organizationName,
		FollowUpDate:     followUpDate,
	})
	if err != nil {
		return err
	}
	return b.send(ctx, toEmail, fmt.Sprintf(subjectFollowUpFmt, organizationName), content)
}

func (b *BrevoSender) SendQuoteCreatedEmail(ctx context.Context, toEmail, quoteNumber, title string, totalGNF int64) error {
	content, err := renderEmailTemplate("quote_created.html", quoteCreatedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Devis émis",
			Heading: "Devis émis",
		},
		QuoteNumber:    quoteNumber,
		QuoteTitle:     title,
		TotalFormatted: formatCurrencyGNF(totalGNF),
	})
	if err != nil {
		return err
	}
	return b.send(ctx, toEmail, fmt.Sprintf(subjectQuoteCreatedFmt, quoteNumber), content)
}

func (b *BrevoSender) SendMissionCreatedEmail(ctx context.Context, toEmail, missionNumber, clientCompany string) error {
	content, err := renderEmailTemplate("mission_created.html", missionCreatedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Mission créée",
			Heading: "Mission créée",
		},
		MissionNumber: missionNumber,
		ClientCompany: clientCompany,
	})
	if err != nil {
		return err
	}
	return b.send(ctx, toEmail, fmt.Sprintf(subjectMissionCreatedFmt, missionNumber), content)
}

func (b *BrevoSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	payload := brevoEmailRequest{
		Subject:     subject,
		HTMLContent: htmlContent,
	}
	payload.Sender.Name = b.fromName
	payload.Sender.Email = b.fromEmail
	payload.To = []struct {
		Email string `json:"email"`
	}{{Email: toEmail}}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.brevo.com/v3/smtp/email", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", b.apiKey)
	req.Header.Set("content-type", "application/json")
	req.Header.Set("accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo send failed: status %d: %s", resp.StatusCode, string(data))
	}
	return nil
}
