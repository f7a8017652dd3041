package notification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Consola-api/internal/application/notification"
	"github.com/jhoicas/Consola-api/pkg/logger"
)

// fakeEmail emisor de email controlable por test.
type fakeEmail struct {
	err   error
	delay time.Duration
	sent  int
}

func (f *fakeEmail) Send(ctx context.Context, to, subject, htmlBody string) error {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.sent++
	return f.err
}

// fakeWebhook emisor de webhook controlable por test.
type fakeWebhook struct {
	err   error
	delay time.Duration
	sent  int
}

func (f *fakeWebhook) Send(ctx context.Context, target, locale, template string, vars []string) error {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.sent++
	return f.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "development", Level: "error"})
}

func testRequest() notification.Request {
	return notification.Request{
		Email:        "ana@acme.com",
		EmailSubject: "Bienvenida",
		EmailBody:    "<p>Hola Ana</p>",
		Target:       "+573001112233",
		Locale:       "es",
		Template:     notification.TemplateWelcome,
		Vars:         []string{"Ana", "Acme"},
	}
}

// ── Resultado tri-estado ──────────────────────────────────────────────────────

func TestDispatch_AmbosCanalesExitosos(t *testing.T) {
	email := &fakeEmail{}
	webhook := &fakeWebhook{}
	d := notification.NewDispatcher(email, webhook, time.Second, testLogger())

	res := d.Dispatch(context.Background(), testRequest())

	assert.True(t, res.Email.OK)
	assert.True(t, res.Webhook.OK)
	assert.True(t, res.OverallSuccess)
	assert.Empty(t, res.Email.Reason)
	assert.Empty(t, res.Webhook.Reason)
	assert.Equal(t, 1, email.sent)
	assert.Equal(t, 1, webhook.sent)
}

func TestDispatch_FalloParcialEmail(t *testing.T) {
	email := &fakeEmail{err: errors.New("smtp: conexión rechazada")}
	webhook := &fakeWebhook{}
	d := notification.NewDispatcher(email, webhook, time.Second, testLogger())

	res := d.Dispatch(context.Background(), testRequest())

	assert.False(t, res.Email.OK)
	assert.Contains(t, res.Email.Reason, "email:")
	assert.Contains(t, res.Email.Reason, "smtp: conexión rechazada")
	assert.True(t, res.Webhook.OK, "El fallo del email no debe afectar al webhook")
	assert.False(t, res.OverallSuccess, "Un solo canal fallido baja el resultado global")
}

func TestDispatch_FalloParcialWebhook(t *testing.T) {
	email := &fakeEmail{}
	webhook := &fakeWebhook{err: errors.New("HTTP 500")}
	d := notification.NewDispatcher(email, webhook, time.Second, testLogger())

	res := d.Dispatch(context.Background(), testRequest())

	assert.True(t, res.Email.OK)
	assert.False(t, res.Webhook.OK)
	assert.Contains(t, res.Webhook.Reason, "webhook:")
	assert.False(t, res.OverallSuccess)
}

func TestDispatch_AmbosFallan(t *testing.T) {
	email := &fakeEmail{err: errors.New("smtp caído")}
	webhook := &fakeWebhook{err: errors.New("gateway caído")}
	d := notification.NewDispatcher(email, webhook, time.Second, testLogger())

	res := d.Dispatch(context.Background(), testRequest())

	assert.False(t, res.Email.OK)
	assert.False(t, res.Webhook.OK)
	assert.False(t, res.OverallSuccess)
}

// ── Timeout por canal, aislado ────────────────────────────────────────────────

func TestDispatch_TimeoutDeUnCanalNoArrastraAlOtro(t *testing.T) {
	email := &fakeEmail{delay: 500 * time.Millisecond} // supera el timeout
	webhook := &fakeWebhook{}
	d := notification.NewDispatcher(email, webhook, 50*time.Millisecond, testLogger())

	res := d.Dispatch(context.Background(), testRequest())

	assert.False(t, res.Email.OK)
	assert.Contains(t, res.Email.Reason, "timeout", "El vencimiento debe reportarse como timeout")
	assert.True(t, res.Webhook.OK, "El canal rápido completa aunque el otro agote su timeout")
	assert.False(t, res.OverallSuccess)
}

func TestDispatch_EsperaAAmbosCanales(t *testing.T) {
	// Ambos canales con demora corta: Dispatch debe bloquear hasta el join.
	email := &fakeEmail{delay: 30 * time.Millisecond}
	webhook := &fakeWebhook{delay: 30 * time.Millisecond}
	d := notification.NewDispatcher(email, webhook, time.Second, testLogger())

	start := time.Now()
	res := d.Dispatch(context.Background(), testRequest())

	require.True(t, res.OverallSuccess)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond,
		"Dispatch no retorna antes de que ambos canales resuelvan")
	// Concurrentes: la espera total no es la suma de ambas demoras.
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestNewDispatcher_TimeoutNoPositivoUsaElDefault(t *testing.T) {
	d := notification.NewDispatcher(&fakeEmail{}, &fakeWebhook{}, 0, testLogger())
	require.NotNil(t, d)
	res := d.Dispatch(context.Background(), testRequest())
	assert.True(t, res.OverallSuccess)
}
