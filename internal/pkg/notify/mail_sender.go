package notify

import (
	"Scribe/internal/api/config"
	"context"

	"github.com/wneessen/go-mail"
)

// MailSender SMTP 通道
type MailSender struct {
	cfg  config.MailConfig
	opts []mail.Option
}

func NewMailSender(cfg config.MailConfig) *MailSender {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	return &MailSender{cfg: cfg, opts: opts}
}

func (s *MailSender) Name() string { return "smtp" }

func (s *MailSender) Send(ctx context.Context, msg *Message) error {
	if msg.To == "" {
		return ErrSkip
	}

	m := mail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return err
	}
	if err := m.To(msg.To); err != nil {
		// 地址非法，重试无意义
		return ErrSkip
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.Body)

	client, err := mail.NewClient(s.cfg.Host, s.opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, m)
}
