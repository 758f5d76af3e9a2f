package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"strconv"
	"strings"
	texttemplate "text/template"
	"time"

	"busbooking/internal/shared/config"
	"busbooking/pkg/logger"
)

// EmailService delivers booking events to the traveller's inbox
type EmailService interface {
	SendBookingEvent(ctx context.Context, event *BookingEvent) error
	SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
}

func NewSMTPConfig(cfg config.EmailConfig) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
		UseTLS:    true,
	}
}

func validateSMTPConfig(cfg *SMTPConfig) error {
	if cfg == nil {
		return fmt.Errorf("SMTP config is nil")
	}
	if cfg.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if cfg.Username == "" {
		return fmt.Errorf("SMTP username is required")
	}
	if cfg.FromEmail == "" {
		return fmt.Errorf("From email is required")
	}
	return nil
}

var htmlTemplates = template.Must(template.New("confirmed").Parse(`
<h2>Booking Confirmed</h2>
<p>Your trip from <strong>{{.Source}}</strong> to <strong>{{.Destination}}</strong> is booked.</p>
<p>Booking code: <strong>{{.BookingCode}}</strong></p>
<p>Departure: {{.Departure.Format "02 Jan 2006 15:04"}}</p>
<table>
{{range .Passengers}}<tr><td>{{.Seat}}</td><td>{{.Name}}</td><td>{{.Age}}</td><td>{{.Gender}}</td></tr>
{{end}}</table>
<p>Base fare: &#8377;{{.Fare.BaseFare}}<br>Service fee: &#8377;{{.Fare.ServiceFee}}<br>GST: &#8377;{{.Fare.GSTAmount}}<br><strong>Total: &#8377;{{.Fare.TotalAmount}}</strong></p>
`))

func init() {
	template.Must(htmlTemplates.New("cancelled").Parse(`
<h2>Booking Cancelled</h2>
<p>Booking <strong>{{.BookingCode}}</strong> from {{.Source}} to {{.Destination}} has been cancelled.</p>
<p>Seats released: {{range $i, $s := .Seats}}{{if $i}}, {{end}}{{$s}}{{end}}</p>
<p>A refund of &#8377;{{.Fare.TotalAmount}} has been initiated.</p>
`))
}

var textTemplate = texttemplate.Must(texttemplate.New("text").Parse(
	`{{.Subject}}

Route: {{.Source}} -> {{.Destination}}
Seats: {{range $i, $s := .Seats}}{{if $i}}, {{end}}{{$s}}{{end}}
Total: Rs {{.Fare.TotalAmount}}
`))

// RenderEmail produces the HTML and plain text bodies for event.
func RenderEmail(event *BookingEvent) (string, string, error) {
	name := "confirmed"
	if event.Type == EventTypeBookingCancelled {
		name = "cancelled"
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&htmlBuf, name, event); err != nil {
		return "", "", fmt.Errorf("failed to render email: %w", err)
	}
	if err := textTemplate.Execute(&textBuf, event); err != nil {
		return "", "", fmt.Errorf("failed to render email: %w", err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}

type SMTPEmailService struct {
	config *SMTPConfig
}

func NewSMTPEmailService(cfg *SMTPConfig) (*SMTPEmailService, error) {
	if err := validateSMTPConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}
	return &SMTPEmailService{config: cfg}, nil
}

func (s *SMTPEmailService) SendBookingEvent(ctx context.Context, event *BookingEvent) error {
	if event.UserEmail == "" {
		return fmt.Errorf("booking event %s has no recipient", event.ID)
	}
	htmlBody, textBody, err := RenderEmail(event)
	if err != nil {
		return err
	}
	return s.SendHTML(ctx, event.UserEmail, event.Subject(), htmlBody, textBody)
}

func (s *SMTPEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	message := s.buildMessage(to, subject, htmlBody, textBody)

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var err error
	if s.config.UseTLS {
		err = s.sendWithSTARTTLS(addr, auth, to, message)
	} else {
		err = smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	}
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.GetDefault().InfoWithContext(ctx, "email sent", map[string]interface{}{"to": to, "subject": subject})
	return nil
}

func (s *SMTPEmailService) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	if err = client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Close()
}

func (s *SMTPEmailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := "boundary_" + strconv.FormatInt(time.Now().UnixNano(), 10)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	if textBody != "" {
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, textBody)
	}
	if htmlBody != "" {
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, htmlBody)
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return []byte(b.String())
}

// LogEmailService writes emails to the log instead of sending them. Used when SMTP is not configured.
type LogEmailService struct{}

func (LogEmailService) SendBookingEvent(ctx context.Context, event *BookingEvent) error {
	htmlBody, textBody, err := RenderEmail(event)
	if err != nil {
		return err
	}
	return LogEmailService{}.SendHTML(ctx, event.UserEmail, event.Subject(), htmlBody, textBody)
}

func (LogEmailService) SendHTML(ctx context.Context, to, subject, _, textBody string) error {
	logger.GetDefault().InfoWithContext(ctx, "email (not sent)", map[string]interface{}{
		"to":      to,
		"subject": subject,
		"body":    strings.TrimSpace(textBody),
	})
	return nil
}
