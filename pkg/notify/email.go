// Package notify sends the registration welcome email over SMTP and
// relays push notifications to the Expo push service.
package notify

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
)

// Registration is the signup payload the welcome email is built from.
// Phone, City and Avatar are optional.
type Registration struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	City      string `json:"city,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
}

type MailerConfig struct {
	Host     string
	Port     int
	Secure   bool
	Username string
	Password string
	From     string
}

// Mailer sends the templated welcome email.
type Mailer struct {
	cfg    MailerConfig
	logger *slog.Logger
}

func NewMailer(cfg MailerConfig, logger *slog.Logger) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("notify: smtp host is required")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("notify: smtp credentials are required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Mailer{cfg: cfg, logger: logger}, nil
}

// SendRegistration delivers the welcome email and returns the message id.
func (m *Mailer) SendRegistration(ctx context.Context, reg Registration) (string, error) {
	if reg.FirstName == "" || reg.LastName == "" || reg.Email == "" {
		return "", fmt.Errorf("notify: first_name, last_name and email are required")
	}

	data := welcomeData{Registration: reg, Year: time.Now().Year()}
	data.Avatar = strings.ToUpper(data.Avatar)

	var html bytes.Buffer
	if err := welcomeTemplate.Execute(&html, data); err != nil {
		return "", fmt.Errorf("notify: render welcome email: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.FromFormat("Mr. Cool Cat Craft Beer", m.cfg.From); err != nil {
		return "", fmt.Errorf("notify: invalid from address: %w", err)
	}
	if err := msg.To(reg.Email); err != nil {
		return "", fmt.Errorf("notify: invalid recipient: %w", err)
	}
	messageID := fmt.Sprintf("%s@barkeep", randHex(12))
	msg.SetMessageIDWithValue(messageID)
	msg.Subject("¡Bienvenido! Confirmación de Pre-registro")
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf("Hola %s %s, ¡Gracias por registrarte!", reg.FirstName, reg.LastName))
	msg.AddAlternativeString(mail.TypeTextHTML, html.String())

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
	}
	if m.cfg.Secure {
		opts = append(opts, mail.WithSSLPort(false))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return "", fmt.Errorf("notify: smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return "", fmt.Errorf("notify: send welcome email: %w", err)
	}

	m.logger.Info("welcome email sent", "to", reg.Email, "message_id", messageID)
	return messageID, nil
}

func randHex(nbytes int) string {
	b := make([]byte, nbytes)
	if _, err := rand.Read(b); err != nil {
		return hex.EncodeToString([]byte(time.Now().Format("20060102150405.000000000")))
	}
	return hex.EncodeToString(b)
}

type welcomeData struct {
	Registration
	Year int
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <style>
    body { font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 0; }
    .email-container { max-width: 600px; margin: 20px auto; background-color: #ffffff; border-radius: 10px; overflow: hidden; box-shadow: 0 4px 8px rgba(0, 0, 0, 0.1); }
    .header { background: linear-gradient(135deg, #1A1A1A, #2C2C2C); color: #ffffff; padding: 30px; text-align: center; }
    .header h1 { margin: 0; font-size: 28px; color: #FF6B35; }
    .content { padding: 30px; color: #333333; }
    .content h2 { color: #FF6B35; font-size: 24px; margin-top: 0; }
    .info-box { background-color: #f9f9f9; border-left: 4px solid #FF6B35; padding: 15px; margin: 20px 0; }
    .info-box p { margin: 8px 0; font-size: 16px; }
    .info-box strong { color: #FF6B35; }
    .footer { background-color: #2C2C2C; color: #ffffff; text-align: center; padding: 20px; font-size: 14px; }
    .avatar-section { text-align: center; margin: 20px 0; }
    .avatar-section p { font-size: 18px; color: #FF6B35; font-weight: bold; }
  </style>
</head>
<body>
  <div class="email-container">
    <div class="header" style="padding-top:24px;padding-bottom:8px;">
      <h1>¡Bienvenido a Mr. Cool Cat Craft Beer!</h1>
    </div>
    <div class="content">
      <h2>Hola {{.FirstName}} {{.LastName}},</h2>
      <p>¡Gracias por registrarte en nuestra aplicación! Estamos emocionados de tenerte con nosotros.</p>

      <div class="info-box">
        <p><strong>Nombre:</strong> {{.FirstName}} {{.LastName}}</p>
        <p><strong>Email:</strong> {{.Email}}</p>
        {{if .Phone}}<p><strong>Teléfono:</strong> {{.Phone}}</p>{{end}}
        {{if .City}}<p><strong>Ciudad:</strong> {{.City}}</p>{{end}}
      </div>

      {{if .Avatar}}
      <div class="avatar-section">
        <p>Tu avatar seleccionado: {{.Avatar}}</p>
      </div>
      {{end}}

      <p>Tu registro ha sido completado exitosamente. Te mantendremos informado sobre las novedades y actualizaciones de nuestra aplicación.</p>
      <p>Si tienes alguna pregunta, no dudes en contactarnos.</p>
      <p>¡Nos vemos pronto!</p>
    </div>
    <div class="footer">
      <p>Este es un correo automático, por favor no respondas a este mensaje.</p>
      <p>&copy; {{.Year}} Mr. Cool Cat Craft Beer. Todos los derechos reservados.</p>
    </div>
  </div>
</body>
</html>
`))
