// Package webhook implementa el canal alterno de notificaciones: un POST al
// servicio de mensajería que entrega la plantilla en el destino indicado.
package webhook

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/Consola-api/internal/application/notification"
	"github.com/jhoicas/Consola-api/pkg/config"
)

var _ notification.WebhookSender = (*RestySender)(nil)

// payload cuerpo del POST al webhook de mensajería.
type payload struct {
	Target        string   `json:"target"`
	Locale        string   `json:"locale"`
	TemplateName  string   `json:"templateName"`
	BodyVariables []string `json:"bodyVariables"`
}

// errorBody respuesta de error del servicio de mensajería.
type errorBody struct {
	Message string `json:"message"`
}

// RestySender implementa notification.WebhookSender con un cliente resty.
type RestySender struct {
	client *resty.Client
}

// NewRestySender construye el emisor. El timeout por intento lo gobierna el
// contexto del despachador; el cliente no fija timeout propio.
func NewRestySender(cfg config.WebhookConfig) *RestySender {
	client := resty.New().
		SetBaseURL(cfg.URL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}
	return &RestySender{client: client}
}

// Send hace el POST y trata cualquier respuesta no-2xx como fallo del canal,
// con el mensaje del cuerpo de error si el servicio lo devuelve.
func (s *RestySender) Send(ctx context.Context, target, locale, template string, vars []string) error {
	var errResp errorBody
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(payload{
			Target:        target,
			Locale:        locale,
			TemplateName:  template,
			BodyVariables: vars,
		}).
		SetError(&errResp).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	if resp.IsError() {
		if errResp.Message != "" {
			return fmt.Errorf("webhook: %s (HTTP %d)", errResp.Message, resp.StatusCode())
		}
		return fmt.Errorf("webhook: HTTP %d", resp.StatusCode())
	}
	return nil
}
