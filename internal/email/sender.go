package email

import (
	"context"
	"fmt"
	"tradedesk/internal/common"
)

// Outgoing is a single notification addressed to one or more people
type Outgoing struct {
	To    []User
	Title string
	Body  string
}

// Sender delivers notifications, the reminder cycle and invitations
// depend on this rather than on SMTP directly
type Sender interface {
	Send(ctx context.Context, message Outgoing) error
}

// NewSender returns an SMTP sender when config is usable and a
// LogSender otherwise
func NewSender(config SmtpConfig, from User, serviceLogs chan<- common.ServiceLog) Sender {
	if serviceLogs == nil {
		serviceLogs = common.GetNoopServiceLog()
	}
	if !config.IsSet() || from.Address == "" {
		serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "smtp is not configured, emails will only be logged")
		return &LogSender{ServiceLogs: serviceLogs}
	}
	return &SmtpSender{
		Config:      config,
		From:        from,
		ServiceLogs: serviceLogs,
	}
}

type SmtpSender struct {
	Config      SmtpConfig
	From        User
	ServiceLogs chan<- common.ServiceLog
}

func (s *SmtpSender) Send(ctx context.Context, message Outgoing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return SendSmtp(SendSmtpOpts{
		To:     message.To,
		Sender: s.From,
		Smtp:   s.Config,
		Message: Message{
			Title: message.Title,
			Body:  []byte(renderHtml(message.Title, message.Body)),
		},
		ServiceLogs: s.ServiceLogs,
	})
}

// LogSender writes a preview of every message to the service logs
type LogSender struct {
	ServiceLogs chan<- common.ServiceLog
}

func (s *LogSender) Send(ctx context.Context, message Outgoing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	recipients := make([]string, 0, len(message.To))
	for _, to := range message.To {
		recipients = append(recipients, to.Address)
	}
	s.ServiceLogs <- common.ServiceLogf(common.LogLevelInfo, "email preview to%v: [%s] %s", recipients, message.Title, message.Body)
	return nil
}

func renderHtml(title, body string) string {
	return fmt.Sprintf(
		"<html><body><h2>%s</h2><p>%s</p></body></html>",
		htmlEscaper.Replace(title),
		htmlEscaper.Replace(body),
	)
}
