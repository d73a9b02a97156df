// Package mail envía los correos de recuperación de contraseña.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	texttemplate "text/template"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/sgpme-api/internal/application/auth"
	"github.com/jhoicas/sgpme-api/pkg/config"
	"github.com/jhoicas/sgpme-api/pkg/logger"
)

var (
	_ auth.Mailer = (*SMTPMailer)(nil)
	_ auth.Mailer = (*LogMailer)(nil)
)

const resetSubject = "Código de Recuperación de Contraseña - SGPME"

var resetText = texttemplate.Must(texttemplate.New("text").Parse(`Hola,

Has solicitado recuperar tu contraseña en el Sistema SGPME.

Tu código de verificación es: {{.Code}}

Este código es válido por {{.Minutes}} minutos.

Si no solicitaste este código, puedes ignorar este mensaje.

Saludos,
Equipo SGPME
`))

var resetHTML = template.Must(template.New("html").Parse(`<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9f9f9; border-radius: 10px;">
    <h2>Recuperación de Contraseña</h2>
    <p>Has solicitado recuperar tu contraseña en el Sistema SGPME.</p>
    <p>Tu código de verificación es:</p>
    <p style="font-size: 32px; font-weight: bold; letter-spacing: 8px;">{{.Code}}</p>
    <p>Este código es válido por <strong>{{.Minutes}} minutos</strong>.</p>
    <p style="color: #888;">Si no solicitaste este código, puedes ignorar este mensaje.</p>
  </div>
</body>
</html>
`))

type resetData struct {
	Code    string
	Minutes int
}

// Sender abstrae el envío SMTP; lo cumple *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer envía correos vía SMTP con gomail.
type SMTPMailer struct {
	sender   Sender
	from     string
	fromName string
}

// NewSMTPMailer construye el mailer desde la configuración SMTP.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &SMTPMailer{
		sender:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:     from,
		fromName: cfg.FromName,
	}
}

// SendPasswordReset envía el código en texto plano y HTML.
func (m *SMTPMailer) SendPasswordReset(_ context.Context, to, code string, ttl time.Duration) error {
	msg, err := m.resetMessage(to, code, ttl)
	if err != nil {
		return err
	}
	if err := m.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}

func (m *SMTPMailer) resetMessage(to, code string, ttl time.Duration) (*gomail.Message, error) {
	data := resetData{Code: code, Minutes: int(ttl.Minutes())}
	var text, html bytes.Buffer
	if err := resetText.Execute(&text, data); err != nil {
		return nil, err
	}
	if err := resetHTML.Execute(&html, data); err != nil {
		return nil, err
	}
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, m.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", resetSubject)
	msg.SetBody("text/plain", text.String())
	msg.AddAlternative("text/html", html.String())
	return msg, nil
}

// LogMailer se usa sin SMTP configurado: deja el código en el log.
type LogMailer struct {
	log *logger.Logger
}

// NewLogMailer construye el mailer de desarrollo.
func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log.Component("mail")}
}

// SendPasswordReset registra el código a nivel warn.
func (m *LogMailer) SendPasswordReset(_ context.Context, to, code string, ttl time.Duration) error {
	m.log.Warn().Str("email", to).Str("code", code).Dur("ttl", ttl).Msg("SMTP no configurado, código de recuperación sólo en log")
	return nil
}

// New elige SMTPMailer o LogMailer según la configuración.
func New(cfg config.SMTPConfig, log *logger.Logger) auth.Mailer {
	if cfg.Enabled() {
		return NewSMTPMailer(cfg)
	}
	return NewLogMailer(log)
}
