package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"go.uber.org/zap"
)

type EmailConfig struct {
	Host       string
	Port       string
	User       string
	Password   string
	From       string
	TLSEnabled bool
}

// EmailChannel delivers over SMTP. When the client is not configured the
// channel logs and skips instead of failing, so local setups work without a
// mail server.
type EmailChannel struct {
	cfg    EmailConfig
	logger *zap.Logger
}

func NewEmailChannel(cfg EmailConfig, logger ...*zap.Logger) *EmailChannel {
	l := zap.L().Named("notification.email")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.email")
	}
	return &EmailChannel{cfg: cfg, logger: l}
}

func (e *EmailChannel) Name() string { return "email" }

func (e *EmailChannel) Send(_ context.Context, item WorkItem) error {
	if item.RecipientEmail == "" {
		return nil
	}
	if e.cfg.Host == "" || e.cfg.Port == "" || e.cfg.User == "" {
		e.logger.Warn("smtp client not configured, skipping email",
			zap.String("recipient_id", item.RecipientID),
		)
		return nil
	}

	auth := sasl.NewPlainClient("", e.cfg.User, e.cfg.Password)

	contentType := "text/plain"
	content := item.Body
	if item.HTMLBody != "" {
		contentType = "text/html"
		content = item.HTMLBody
	}

	msg := strings.NewReader(fmt.Sprintf(
		"To: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: %s; charset=\"UTF-8\";\r\n\r\n%s\r\n",
		item.RecipientEmail, item.Subject, contentType, content,
	))

	addr := e.cfg.Host + ":" + e.cfg.Port
	to := []string{item.RecipientEmail}

	var err error
	if e.cfg.TLSEnabled {
		err = smtp.SendMailTLS(addr, auth, e.cfg.From, to, msg)
	} else {
		err = smtp.SendMail(addr, auth, e.cfg.From, to, msg)
	}
	if err != nil {
		return fmt.Errorf("send email to %s: %w", item.RecipientEmail, err)
	}

	e.logger.Info("email sent",
		zap.String("recipient_id", item.RecipientID),
		zap.String("subject", item.Subject),
	)
	return nil
}
