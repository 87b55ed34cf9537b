package auth

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"github.com/kidandcat/firmportal/internal/config"
)

// Mailer delivers an HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// NewMailer picks SMTP when enabled, the Resend API when a key is set and a
// log-only mailer otherwise.
func NewMailer(ecfg config.EmailConfig) Mailer {
	switch {
	case ecfg.SMTPEnabled:
		return smtpMailer{cfg: ecfg}
	case ecfg.ResendAPIKey != "":
		return NewResendMailer(ecfg, "https://api.resend.com")
	default:
		return logMailer{}
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type ResendMailer struct {
	from   string
	client *resty.Client
}

func NewResendMailer(ecfg config.EmailConfig, baseURL string) *ResendMailer {
	return &ResendMailer{
		from: ecfg.FromEmail,
		client: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10*time.Second).
			SetAuthToken(ecfg.ResendAPIKey).
			SetHeader("Content-Type", "application/json"),
	}
}

func (m *ResendMailer) Send(ctx context.Context, to, subject, html string) error {
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(resendRequest{From: m.from, To: []string{to}, Subject: subject, HTML: html}).
		Post("/emails")
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("resend API error: status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

type smtpMailer struct {
	cfg config.EmailConfig
}

func (m smtpMailer) Send(_ context.Context, to, subject, html string) error {
	addr := m.cfg.SMTPHost + ":" + m.cfg.SMTPPort

	msg := "From: " + m.cfg.FromEmail + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		html

	var a smtp.Auth
	if m.cfg.SMTPUser != "" {
		a = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	}
	if err := smtp.SendMail(addr, a, m.cfg.SMTPUser, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

type logMailer struct{}

func (logMailer) Send(_ context.Context, to, subject, html string) error {
	log.Warn().Str("to", to).Str("subject", subject).Str("body", html).Msg("no mail transport configured, email not sent")
	return nil
}

func resetEmail(baseURL, token string, ttl time.Duration) (subject, html string) {
	link := fmt.Sprintf("%s/reset-password?token=%s", baseURL, token)
	subject = "Atur ulang kata sandi portal"
	html = fmt.Sprintf(
		`<p>Kami menerima permintaan untuk mengatur ulang kata sandi Anda.</p>`+
			`<p><a href="%s">Atur ulang kata sandi</a></p>`+
			`<p>Tautan ini berlaku selama %d menit. Abaikan email ini jika Anda tidak memintanya.</p>`,
		link, int(ttl.Minutes()),
	)
	return subject, html
}
