package services

import (
	"bytes"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"

	"listaai/pkg/utils"
)

type IMailService interface {
	// SendClaimNotification tells a list owner that an item was reserved.
	SendClaimNotification(to, ownerName, listTitle, itemName, claimerName, listURL string) error
	SendSubscriptionConfirmation(to, name, planName string, expiry time.Time) error
}

type SMTPConfig struct {
	Host       string
	Port       int // 587 STARTTLS, 465 SMTPS
	Username   string
	Password   string
	From       string
	FromName   string
	UseSSL     bool
	RequireTLS bool

	AppName    string
	AppBaseURL string
}

type smtpMailService struct {
	cfg     SMTPConfig
	htmlTpl *template.Template
	textTpl *template.Template
}

// NewSMTPMailService returns a mailer that only logs when no SMTP host is set.
func NewSMTPMailService(cfg SMTPConfig) IMailService {
	if cfg.AppName == "" {
		cfg.AppName = "ListaAi"
	}
	if cfg.Port == 465 {
		cfg.UseSSL = true
	}
	if cfg.Host == "" {
		return &logMailService{}
	}
	return &smtpMailService{
		cfg:     cfg,
		htmlTpl: template.Must(template.New("html").Parse(baseHTMLTemplate)),
		textTpl: template.Must(template.New("text").Parse(plainTextTemplate)),
	}
}

func (s *smtpMailService) SendClaimNotification(to, ownerName, listTitle, itemName, claimerName, listURL string) error {
	subject := fmt.Sprintf("Item reservado: %s", itemName)
	return s.sendTemplate(to, subject, EmailData{
		Title:     subject,
		Intro:     fmt.Sprintf("Olá %s, %s reservou \"%s\" da sua lista \"%s\".", ownerName, claimerName, itemName, listTitle),
		ButtonURL: listURL,
		ButtonTxt: "Ver lista",
	})
}

func (s *smtpMailService) SendSubscriptionConfirmation(to, name, planName string, expiry time.Time) error {
	subject := "Assinatura confirmada"
	return s.sendTemplate(to, subject, EmailData{
		Title:     subject,
		Intro:     fmt.Sprintf("Olá %s, seu plano %s está ativo até %s.", name, planName, utils.FormatDisplayBR(expiry)),
		ButtonURL: strings.TrimRight(s.cfg.AppBaseURL, "/") + "/dashboard",
		ButtonTxt: "Minhas listas",
	})
}

func (s *smtpMailService) sendTemplate(to, subject string, data EmailData) error {
	data.AppName = s.cfg.AppName
	data.Year = time.Now().Year()
	html, text, err := renderEmail(s.htmlTpl, s.textTpl, data)
	if err != nil {
		return err
	}
	return s.send(to, subject, html, text)
}

type EmailData struct {
	Title     string
	Intro     string
	ButtonURL string
	ButtonTxt string
	AppName   string
	Year      int
}

const baseHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; padding: 0; background: #f8fafc; color: #0f172a; font-family: Inter, -apple-system, "Segoe UI", Roboto, Arial, sans-serif; }
    .container { max-width: 560px; margin: 32px auto; background: #ffffff; border-radius: 16px; overflow: hidden; box-shadow: 0 10px 30px rgba(0,0,0,.06); }
    .header { padding: 24px 28px; border-bottom: 1px solid #e2e8f0; font-weight: 700; font-size: 20px; color: #0078ff; }
    .hero { padding: 28px; }
    h1 { margin: 0 0 12px; font-size: 24px; }
    p { margin: 0 0 16px; line-height: 1.6; color: #475569; }
    .btn { display: inline-block; padding: 14px 28px; background: #0078ff; color: #ffffff !important; text-decoration: none; border-radius: 12px; font-weight: 600; }
    .footer { padding: 20px 28px; color: #94a3b8; font-size: 12px; text-align: center; border-top: 1px solid #e2e8f0; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">{{.AppName}}</div>
    <div class="hero">
      <h1>{{.Title}}</h1>
      <p>{{.Intro}}</p>
      {{if .ButtonURL}}<p><a class="btn" href="{{.ButtonURL}}">{{.ButtonTxt}}</a></p>{{end}}
    </div>
    <div class="footer">© {{.Year}} {{.AppName}}</div>
  </div>
</body>
</html>`

const plainTextTemplate = `{{.Title}}

{{.Intro}}
{{if .ButtonURL}}
{{.ButtonTxt}}: {{.ButtonURL}}
{{end}}
{{.AppName}} (c) {{.Year}}
`

func renderEmail(htmlTpl, textTpl *template.Template, data EmailData) (html string, text string, err error) {
	var hb, tb bytes.Buffer
	if err = htmlTpl.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err = textTpl.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

func buildMessage(from, to, subject, htmlBody, textBody string) []byte {
	boundary := fmt.Sprintf("alt_%d", time.Now().UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = fmt.Fprintf(&msg, format, a...) }

	write("From: %s\r\n", from)
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", mimeQuote(subject))
	write("Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	write("--%s--\r\n", boundary)
	return msg.Bytes()
}

func (s *smtpMailService) send(to, subject, htmlBody, textBody string) error {
	msg := buildMessage(s.formatFromHeader(), to, subject, htmlBody, textBody)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}

	var conn net.Conn
	var err error
	if s.cfg.UseSSL {
		conn, err = tls.DialWithDialer(&net.Dialer{Timeout: 10 * time.Second}, "tcp", addr, tlsCfg)
	} else {
		conn, err = (&net.Dialer{Timeout: 10 * time.Second}).Dial("tcp", addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if !s.cfg.UseSSL {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err = c.StartTLS(tlsCfg); err != nil {
				return err
			}
		} else if s.cfg.RequireTLS {
			return fmt.Errorf("server does not support STARTTLS and RequireTLS=true")
		}
	}

	if s.cfg.Username != "" {
		if err = c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return err
		}
	}
	if err = c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpMailService) formatFromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mimeQuote(name), s.cfg.From)
}

// RFC 2047 encoded-word for non-ASCII header values.
func mimeQuote(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return "=?UTF-8?B?" + base64.StdEncoding.EncodeToString([]byte(s)) + "?="
		}
	}
	return s
}

type logMailService struct{}

func (logMailService) SendClaimNotification(to, ownerName, listTitle, itemName, claimerName, listURL string) error {
	slog.Info("mail disabled: claim notification", "to", to, "list", listTitle, "item", itemName, "claimer", claimerName)
	return nil
}

func (logMailService) SendSubscriptionConfirmation(to, name, planName string, expiry time.Time) error {
	slog.Info("mail disabled: subscription confirmation", "to", to, "plan", planName, "expiry", expiry)
	return nil
}
