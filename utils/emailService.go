package utils

import (
	"fmt"

	sendgrid "github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends transactional mail through SendGrid
type Mailer struct {
	apiKey string
	sender string
}

func NewMailer(apiKey, sender string) *Mailer {
	return &Mailer{apiKey: apiKey, sender: sender}
}

func (m *Mailer) Configured() bool {
	return m.apiKey != "" && m.sender != ""
}

// SendEnrollmentEmail confirms a successful course enrollment
func (m *Mailer) SendEnrollmentEmail(toEmail, toName, courseTitle string) error {
	if !m.Configured() {
		return fmt.Errorf("mailer is not configured")
	}

	from := mail.NewEmail("LMS", m.sender)
	to := mail.NewEmail(toName, toEmail)
	subject := "You are enrolled: " + courseTitle

	plain := fmt.Sprintf("Hi %s,\n\nYour payment was received and you now have full access to \"%s\".\n\nHappy learning!", toName, courseTitle)
	html := fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2>Enrollment confirmed</h2>
		<p>Hi %s,</p>
		<p>Your payment was received and you now have full access to <strong>%s</strong>.</p>
		<p>Happy learning!</p>
	</div>`, toName, courseTitle)

	message := mail.NewSingleEmail(from, subject, to, plain, html)
	client := sendgrid.NewSendClient(m.apiKey)

	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
