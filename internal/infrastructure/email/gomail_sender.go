// Package email implementa el canal transaccional de notificaciones sobre SMTP.
package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/Consola-api/internal/application/notification"
	"github.com/jhoicas/Consola-api/pkg/config"
)

var _ notification.EmailSender = (*GomailSender)(nil)

// GomailSender implementa notification.EmailSender usando gomail sobre SMTP.
type GomailSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewGomailSender construye el emisor con la configuración SMTP de la app.
func NewGomailSender(cfg config.SMTPConfig) *GomailSender {
	return &GomailSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

// Send envía un mensaje HTML. gomail no acepta contexto, así que el envío se
// corre en una goroutine y se respeta la cancelación/timeout del despachador.
func (s *GomailSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
