package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/linemk/artisan-store/internal/config"
	"github.com/wneessen/go-mail"
)

// SMTPSender отправляет письма через аутентифицированный SMTP-релей
type SMTPSender struct {
	host     string
	port     int
	user     string
	password string
	from     string
	to       []string
}

// NewSenderFromConfig возвращает nil, если SMTP не настроен: уведомления выключены, это не ошибка
func NewSenderFromConfig(cfg config.NotifyConfig) Sender {
	if !cfg.Enabled() {
		return nil
	}
	return &SMTPSender{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.From,
		to:       splitAddresses(cfg.To),
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	const op = "notify.SMTPSender.Send"

	m, err := s.buildMessage(msg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	client, err := mail.NewClient(s.host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("%s: failed to create smtp client: %w", op, err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("%s: failed to send mail: %w", op, err)
	}
	return nil
}

func (s *SMTPSender) buildMessage(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(s.to...); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	return m, nil
}

func (s *SMTPSender) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(s.port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	// 465 - неявный TLS
	if s.port == 465 {
		opts = append(opts, mail.WithSSL())
	}
	if s.user != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.user),
			mail.WithPassword(s.password),
		)
	}
	return opts
}

func splitAddresses(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
