package notification

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"net"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	gomail "github.com/wneessen/go-mail"

	"booking_portal_backend/platform/config"
	"booking_portal_backend/platform/logger"
)

// SMTPSink sends booking confirmation emails over SMTP.
type SMTPSink struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
	log       *logger.Logger
}

var _ Sink = (*SMTPSink)(nil)

// NewSMTPSink creates an email sink from SMTP configuration.
func NewSMTPSink(cfg config.SMTPConfig, log *logger.Logger) *SMTPSink {
	return &SMTPSink{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
		log:       log,
	}
}

// NotifySubmission emails the operations inbox a confirmation with a QR code
// linking to the created quotation.
func (s *SMTPSink) NotifySubmission(ctx context.Context, sub Submission) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	// Confirmations go back to the configured sender inbox. Customer
	// addresses are not collected by the wizard.
	if err := msg.To(s.fromEmail); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	msg.Subject(fmt.Sprintf("Booking confirmed: quotation %s", sub.QuotationID))
	msg.SetBodyString(gomail.TypeTextHTML, confirmationBody(sub))

	if sub.QuotationURL != "" {
		png, err := qrcode.Encode(sub.QuotationURL, qrcode.Medium, 256)
		if err != nil {
			s.log.Warn("qr code generation failed", "error", err)
		} else {
			msg.AttachReader("quotation-qr.png", bytes.NewReader(png))
		}
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(ctx context.Context, _, addr string) (net.Conn, error) {
			d := net.Dialer{Timeout: 15 * time.Second}
			return d.DialContext(ctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send confirmation: %w", err)
	}
	return nil
}

func confirmationBody(sub Submission) string {
	return fmt.Sprintf(`<h2>Booking submitted</h2>
<p>A new %s booking for <strong>%s</strong> was submitted and quotation <strong>%s</strong> was created.</p>
<table>
<tr><td>Destination</td><td>%s</td></tr>
<tr><td>Total amount</td><td>%.2f</td></tr>
</table>
<p><a href="%s">Open the quotation</a> or scan the attached QR code.</p>`,
		html.EscapeString(sub.ServiceCategory),
		html.EscapeString(sub.Customer),
		html.EscapeString(sub.QuotationID),
		html.EscapeString(sub.Destination),
		sub.TotalAmount,
		html.EscapeString(sub.QuotationURL),
	)
}
