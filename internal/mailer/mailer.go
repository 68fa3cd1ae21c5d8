package mailer

import (
	"context"
	"fmt"

	"github.com/adboard/adverts-service/internal/config"
	"github.com/adboard/adverts-service/internal/platform/logger"
	"gopkg.in/gomail.v2"
)

// Sender delivers owner notifications over SMTP. When SMTP is not configured
// the sender is disabled and Send becomes a no-op; notification mail is
// best-effort everywhere it is used.
type Sender struct {
	cfg     config.SMTPConfig
	dialer  *gomail.Dialer
	log     logger.Logger
	enabled bool
}

func NewSender(cfg config.SMTPConfig, log logger.Logger) *Sender {
	s := &Sender{cfg: cfg, log: log}
	if cfg.Host == "" || cfg.SenderEmail == "" {
		log.Warn("SMTP not configured, owner notifications disabled")
		return s
	}
	s.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	s.enabled = true
	return s
}

func (s *Sender) SendAdvertArchived(ctx context.Context, toEmail, advertTitle string) error {
	if !s.enabled {
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.SenderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your advert was moved to the archive")
	m.SetBody("text/plain", fmt.Sprintf("Your advert %q has been moved to the archive. You can restore it from your profile.", advertTitle))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send archive notification to %s: %w", toEmail, err)
	}
	return nil
}
