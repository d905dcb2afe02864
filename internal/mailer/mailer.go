// Package mailer delivers transactional email over SMTP. Delivery is
// best-effort; callers decide whether a failure matters.
package mailer

import (
	"context"
	"fmt"

	mail "github.com/wneessen/go-mail"

	"github.com/swiftdrop/courier-api/internal/domain"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Mailer struct {
	cfg Config
}

func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) ShipmentRegistered(ctx context.Context, to, name, trackingCode string, status domain.ShipmentStatus) error {
	body := fmt.Sprintf(shipmentRegisteredHTML, name, trackingCode, status)
	if err := m.send(ctx, to, "Your Shipment Tracking Code", body); err != nil {
		return fmt.Errorf("ShipmentRegistered: %w", err)
	}
	return nil
}

func (m *Mailer) PasswordReset(ctx context.Context, to, resetLink string) error {
	body := fmt.Sprintf(passwordResetHTML, resetLink)
	if err := m.send(ctx, to, "Password Reset Request", body); err != nil {
		return fmt.Errorf("PasswordReset: %w", err)
	}
	return nil
}

func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("send: from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("send: to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("send: client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

const shipmentRegisteredHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #555;">
  <div style="max-width: 600px; margin: 20px auto; border: 1px solid #ddd; border-radius: 8px; padding: 20px;">
    <h2 style="color: #333; text-align: center;">Hello, %s</h2>
    <p>Your shipment has been registered. Your tracking code is:</p>
    <p style="font-size: 18px; font-weight: bold; color: #82ca9d; text-align: center;">%s</p>
    <p>Current status: %s</p>
    <p>Thank you for using our service!</p>
  </div>
</body>
</html>`

const passwordResetHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #555;">
  <div style="max-width: 600px; margin: 20px auto; border: 1px solid #ddd; border-radius: 8px; padding: 20px;">
    <p>Click <a href="%s">here</a> to reset your password.</p>
    <p>This link will expire in 15 minutes. If you did not request a reset, you can ignore this email.</p>
  </div>
</body>
</html>`
