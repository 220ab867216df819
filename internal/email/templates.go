package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title   string
	Heading string
}

type leadAlertEmailData struct {
	baseEmailData
	OrganizationName string
	ContactName      string
	PrimaryNeed      string
	Urgency          string
}

type followUpReminderEmailData struct {
	baseEmailData
	OrganizationName string
	FollowUpDate     string
}

type quoteCreatedEmailData struct {
	baseEmailData
	QuoteNumber    string
	QuoteTitle     string
	TotalFormatted string
}

type missionCreatedEmailData struct {
	baseEmailData
	MissionNumber string
	ClientCompany string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

// formatCurrencyGNF renders a Guinean franc amount. GNF has no minor unit;
// values are whole francs.
func formatCurrencyGNF(amount int64) string {
	return fmt.Sprintf("%d GNF", amount)
}
