package services

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"

	"github.com/heistgames/tournament-hub/config"
)

//go:embed templates/*.html
var emailTemplates embed.FS

var parsedEmailTemplates = template.Must(template.ParseFS(emailTemplates, "templates/*.html"))

// PasswordResetEmail содержит данные письма со ссылкой для сброса пароля.
type PasswordResetEmail struct {
	Email        string
	FirstName    string
	ResetLink    string
	ValidMinutes int
}

type Mailer interface {
	SendPasswordResetEmail(data PasswordResetEmail) error
}

type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) SendEmail(to []string, subject string, body string) error {
	if s.cfg.SMTPHost == "" {
		return fmt.Errorf("SMTP host is not configured")
	}
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	msg := []byte("To: " + to[0] + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	tlsconfig := &tls.Config{ServerName: s.cfg.SMTPHost}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		// Прямое TLS-соединение
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("smtp tls dial: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("smtp client: %w", err)
		}
	} else {
		// STARTTLS
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("smtp dial: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	defer client.Quit()

	if s.cfg.SMTPUser != "" {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("smtp RCPT TO: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("smtp write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("smtp close DATA: %w", err)
	}
	return nil
}

func GenerateEmailBody(name string, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := parsedEmailTemplates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return body.String(), nil
}

func (s *EmailService) SendPasswordResetEmail(data PasswordResetEmail) error {
	htmlBody, err := GenerateEmailBody("password_reset_email.html", data)
	if err != nil {
		return err
	}
	return s.SendEmail([]string{data.Email}, "Reset Your Password", htmlBody)
}

// LogMailer пишет ссылку сброса в лог вместо отправки. Используется, когда SMTP не настроен.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) SendPasswordResetEmail(data PasswordResetEmail) error {
	m.Logger.Warn("SMTP is not configured, password reset email not sent",
		slog.String("email", data.Email),
		slog.String("reset_link", data.ResetLink),
	)
	return nil
}
