package notifier

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/swasthyaid/health-api/internal/config"
)

// OTPNotifier dispatches a login code to a worker. Delivery is best-effort:
// issuance never fails because a notification could not be sent.
type OTPNotifier interface {
	SendOTP(email, name, code string) error
}

type emailNotifier struct {
	dialer *gomail.Dialer
	from   string
}

// NewEmailNotifier returns a gomail-backed notifier, or a no-op one when SMTP
// is disabled in config.
func NewEmailNotifier(cfg config.SMTPConfig) OTPNotifier {
	if !cfg.Enabled {
		return noopNotifier{}
	}
	return &emailNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (n *emailNotifier) SendOTP(email, name, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your SwasthyaID login code")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nYour SwasthyaID OTP is: %s. It is valid for 10 minutes.\n", name, code))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	return nil
}

type noopNotifier struct{}

func (noopNotifier) SendOTP(string, string, string) error { return nil }
