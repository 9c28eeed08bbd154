package mail

import (
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/spec-kit/complaint-service/internal/config"
)

// Mailer sends templated plain-text mail over SMTP. Delivery internals are a
// thin wrapper: failures are logged and never retried.
type Mailer struct {
	cfg    config.MailConfig
	logger *zap.Logger
	send   func(m *gomail.Message) error
}

// NewMailer builds a mailer from SMTP configuration.
func NewMailer(cfg config.MailConfig, logger *zap.Logger) *Mailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &Mailer{
		cfg:    cfg,
		logger: logger,
		send: func(m *gomail.Message) error {
			return dialer.DialAndSend(m)
		},
	}
}

// Send delivers one plain-text message to the recipients.
func (m *Mailer) Send(to []string, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.send(msg); err != nil {
		m.logger.Error("mail delivery failed", zap.Error(err), zap.String("subject", subject))
		return err
	}
	m.logger.Info("mail sent", zap.String("subject", subject), zap.Int("recipients", len(to)))
	return nil
}
