// Package notification implementa el despacho dual-canal de eventos:
// email transaccional + mensaje alterno vía webhook. Cada canal se intenta y
// evalúa de forma independiente; el fallo de uno nunca impide ni cancela el
// otro, y ningún fallo se propaga como error a la operación de negocio.
package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Consola-api/internal/application/dto"
	"github.com/jhoicas/Consola-api/pkg/logger"
)

// Nombres de plantilla de los eventos emitidos por provisioning.
const (
	TemplateWelcome = "user_welcome"
	TemplateGoodbye = "tenant_goodbye"
)

// DefaultChannelTimeout límite por intento de canal si la config no define otro.
const DefaultChannelTimeout = 10 * time.Second

// EmailSender puerto del emisor de mensajes transaccionales.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// WebhookSender puerto del emisor del canal alterno (entrega vía webhook).
type WebhookSender interface {
	Send(ctx context.Context, target, locale, template string, vars []string) error
}

// Request evento lógico a notificar. Efímero, nunca se persiste.
type Request struct {
	Email        string   // destinatario del canal email
	EmailSubject string
	EmailBody    string   // HTML
	Target       string   // destino del canal webhook (número o identificador)
	Locale       string
	Template     string   // ver constantes Template*
	Vars         []string // variables de cuerpo de la plantilla
}

// Dispatcher intenta la entrega por ambos canales en paralelo y reúne el
// resultado tri-estado. Bloquea hasta que ambos intentos resuelvan.
type Dispatcher struct {
	email   EmailSender
	webhook WebhookSender
	timeout time.Duration
	log     *logger.Logger
}

// NewDispatcher construye el despachador. timeout <= 0 usa DefaultChannelTimeout.
func NewDispatcher(email EmailSender, webhook WebhookSender, timeout time.Duration, log *logger.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultChannelTimeout
	}
	return &Dispatcher{email: email, webhook: webhook, timeout: timeout, log: log}
}

// Dispatch ejecuta ambos canales concurrentemente, cada uno con su propio
// timeout, y espera a los dos (join). Cancelar o agotar un canal no afecta al
// otro: cada goroutine deriva su contexto de forma independiente.
//
// Nunca devuelve error: los fallos quedan en el resultado por canal y
// OverallSuccess refleja si TODOS los canales intentados tuvieron éxito.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) dto.NotificationResult {
	emailCh := make(chan dto.ChannelResult, 1)
	webhookCh := make(chan dto.ChannelResult, 1)

	go func() {
		emailCh <- d.attempt(ctx, "email", func(cctx context.Context) error {
			return d.email.Send(cctx, req.Email, req.EmailSubject, req.EmailBody)
		})
	}()
	go func() {
		webhookCh <- d.attempt(ctx, "webhook", func(cctx context.Context) error {
			return d.webhook.Send(cctx, req.Target, req.Locale, req.Template, req.Vars)
		})
	}()

	result := dto.NotificationResult{
		Email:   <-emailCh,
		Webhook: <-webhookCh,
	}
	result.OverallSuccess = result.Email.OK && result.Webhook.OK

	if !result.OverallSuccess {
		d.log.Warn().
			Str("template", req.Template).
			Bool("email_ok", result.Email.OK).
			Bool("webhook_ok", result.Webhook.OK).
			Str("email_reason", result.Email.Reason).
			Str("webhook_reason", result.Webhook.Reason).
			Msg("despacho de notificación con fallos parciales")
	}
	return result
}

// attempt ejecuta un canal con timeout propio y traduce el error a ChannelResult.
func (d *Dispatcher) attempt(ctx context.Context, channel string, send func(context.Context) error) dto.ChannelResult {
	cctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err := send(cctx)
	if err == nil {
		return dto.ChannelResult{OK: true}
	}
	reason := err.Error()
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(cctx.Err(), context.DeadlineExceeded) {
		reason = fmt.Sprintf("timeout tras %s", d.timeout)
	}
	return dto.ChannelResult{OK: false, Reason: channel + ": " + strings.TrimSpace(reason)}
}
