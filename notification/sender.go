package notification

import (
	"context"
	"fmt"
	"io"

	"github.com/lithammer/shortuuid/v3"
	gomail "gopkg.in/gomail.v2"
)

const (
	ProviderSMTP     = "smtp"
	ProviderEthereal = "ethereal"

	etherealPreviewBase = "https://ethereal.email/message/"
)

type Attachment struct {
	Filename string
	Data     []byte
}

type SendResult struct {
	MessageID  string
	PreviewURL string
}

// Sender is the transactional mail channel. Exactly one implementation is
// active at a time; the fallback channel is selected by configuration, never
// raced against the primary.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string, attachments []Attachment) (SendResult, error)
}

type SMTPConfig struct {
	Provider string // ProviderSMTP or ProviderEthereal
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender delivers through a single SMTP relay via gomail. Ethereal-backed
// senders additionally report a preview URL for the captured message.
type SMTPSender struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string, attachments []Attachment) (SendResult, error) {
	messageID := fmt.Sprintf("<%s@gatepass>", shortuuid.New())

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetHeader("Message-ID", messageID)
	m.SetBody("text/html", htmlBody)

	for _, a := range attachments {
		data := a.Data
		m.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}))
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return SendResult{}, fmt.Errorf("could not send mail via %s: %w", s.cfg.Provider, err)
	}

	result := SendResult{MessageID: messageID}
	if s.cfg.Provider == ProviderEthereal {
		result.PreviewURL = etherealPreviewBase + shortMessageID(messageID)
	}
	return result, nil
}

func shortMessageID(messageID string) string {
	id := messageID
	if len(id) > 2 && id[0] == '<' {
		id = id[1 : len(id)-1]
	}
	return id
}
