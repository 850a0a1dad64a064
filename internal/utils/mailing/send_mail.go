package mailing

import (
	"Compliance-Shield/internal/utils"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/gomail.v2"
)

type (
	MailConfig struct {
		SMTPHost     string
		SMTPPort     string
		SMTPSender   string
		SMTPEmail    string
		SMTPPassword string
	}

	Attachment struct {
		Name        string
		ContentType string
		Data        []byte
	}

	Mailer interface {
		SendMail(toEmail string, subject string, body string, attachments ...Attachment) error
	}

	smtpMailer struct {
		config MailConfig
	}
)

func LoadMailConfig() MailConfig {
	return MailConfig{
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

func NewMailer(config MailConfig) Mailer {
	return &smtpMailer{config: config}
}

func (m *smtpMailer) SendMail(toEmail string, subject string, body string, attachments ...Attachment) error {
	if m.config.SMTPHost == "" {
		return errors.New("SMTP_HOST is not set")
	}
	port, err := strconv.Atoi(m.config.SMTPPort)
	if err != nil {
		return fmt.Errorf("invalid SMTP_PORT %q: %w", m.config.SMTPPort, err)
	}

	dialer := gomail.NewDialer(
		m.config.SMTPHost,
		port,
		m.config.SMTPEmail,
		m.config.SMTPPassword,
	)

	return dialer.DialAndSend(buildMessage(m.config, toEmail, subject, body, attachments))
}

func buildMessage(config MailConfig, toEmail, subject, body string, attachments []Attachment) *gomail.Message {
	mailer := gomail.NewMessage()
	if config.SMTPSender != "" {
		mailer.SetAddressHeader("From", config.SMTPEmail, config.SMTPSender)
	} else {
		mailer.SetHeader("From", config.SMTPEmail)
	}
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)

	for _, a := range attachments {
		data := a.Data
		mailer.Attach(a.Name,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
		)
	}

	return mailer
}
