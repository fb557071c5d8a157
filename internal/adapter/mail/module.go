package mail

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/digistore/internal/config"
)

// Module provides the mail sender. Without SMTP_ADDRESS mail is only logged.
var Module = fx.Provide(newSender)

type senderParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newSender(p senderParams) Sender {
	if p.Config.SMTPAddress == "" {
		return NewLogSender(p.Logger)
	}
	return NewSMTPSender(p.Config.SMTPAddress, p.Config.SMTPUsername, p.Config.SMTPPassword, p.Config.MailFrom, p.Logger)
}
