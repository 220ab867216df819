package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
// It renders the same HTML templates as BrevoSender.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTPSender) SendLeadAlertEmail(ctx context.Context, toEmail, organizationName, contactName, primaryNeed, urgency string) error {
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
	return s.send(ctx, toEmail, fmt.Sprintf(subjectLeadAlertFmt, organizationName), content)
}

func (s *SMTPSender) SendFollowUpReminderEmail(ctx context.Context, toEmail, organizationName, followUpDate string) error {
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
	return s.send(ctx, toEmail, fmt.Sprintf(subjectFollowUpFmt, organizationName), content)
}

func (s *SMTPSender) SendQuoteCreatedEmail(ctx context.Context, toEmail, quoteNumber, title string, totalGNF int64) error {
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
	return s.send(ctx, toEmail, fmt.Sprintf(subjectQuoteCreatedFmt, quoteNumber), content)
}

func (s *SMTPSender) SendMissionCreatedEmail(ctx context.Context, toEmail, missionNumber, clientCompany string) error {
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
	return s.send(ctx, toEmail, fmt.Sprintf(subjectMissionCreatedFmt, missionNumber), content)
}
