package mail

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"text/template"
)

// TemplateOrderApproved is sent once an order completes.
const TemplateOrderApproved = "order_approved"

// Message is a templated email addressed to a single recipient.
type Message struct {
	To       string
	Template string
	Data     any
}

// OrderApprovedData feeds the order_approved template.
type OrderApprovedData struct {
	Login        string
	OrderID      int64
	ProductTitle string
	LicenseKey   string
	DownloadURL  string
}

// Sender delivers templated emails.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var templates = template.Must(template.New(TemplateOrderApproved).Parse(
	`Subject: Your order #{{.OrderID}} is ready

Hi {{.Login}},

Your purchase of "{{.ProductTitle}}" has been approved.
{{if .LicenseKey}}License key: {{.LicenseKey}}
{{end}}Download: {{.DownloadURL}}
`))

func render(msg Message) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, msg.Template, msg.Data); err != nil {
		return nil, fmt.Errorf("render %s: %w", msg.Template, err)
	}
	return buf.Bytes(), nil
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender delivers mail through an SMTP relay.
type SMTPSender struct {
	addr     string
	from     string
	auth     smtp.Auth
	sendMail sendMailFunc
	logger   *slog.Logger
}

// NewSMTPSender builds a sender for addr. Credentials are optional.
func NewSMTPSender(addr, username, password, from string, logger *slog.Logger) *SMTPSender {
	s := &SMTPSender{addr: addr, from: from, sendMail: smtp.SendMail, logger: logger}
	if username != "" {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}
		s.auth = smtp.PlainAuth("", username, password, host)
	}
	return s
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("mail %s: empty recipient", msg.Template)
	}
	body, err := render(msg)
	if err != nil {
		return err
	}

	header := fmt.Sprintf("From: %s\r\nTo: %s\r\n", s.from, msg.To)
	if err := s.sendMail(s.addr, s.auth, s.from, []string{msg.To}, append([]byte(header), body...)); err != nil {
		return fmt.Errorf("send %s: %w", msg.Template, err)
	}
	s.logger.Info("mail sent", slog.String("template", msg.Template), slog.String("to", msg.To))
	return nil
}

// LogSender renders messages and writes them to the log instead of sending.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	body, err := render(msg)
	if err != nil {
		return err
	}
	s.logger.Info("mail delivery disabled",
		slog.String("template", msg.Template),
		slog.String("to", msg.To),
		slog.Int("bytes", len(body)))
	return nil
}
