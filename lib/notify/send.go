package notify

import (
	"context"
	"fmt"
	"grantsync-backend/lib/grantstore"
	"net/smtp"
	"strings"
	"time"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

func (c SmtpConfig) addr() string {
	return fmt.Sprintf("%s:%d", c.Server, c.Port)
}

// SendDigest emails the deadline digest of `grants` to `to`.
func SendDigest(ctx context.Context, config SmtpConfig, to string, grants []grantstore.Grant, now time.Time) error {
	ctx, span := tracer.Start(ctx, "SendDigest")
	defer span.End()

	span.SetAttributes(attribute.Int("grants", len(grants)))

	text, html, err := RenderDigest(grants, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to render digest")
		return err
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("GrantSync <%s>", config.EmailAddress)
	mail.To = []string{to}
	mail.Subject = Subject(len(grants))
	mail.Text = []byte(text)
	mail.HTML = []byte(html)

	err = mail.Send(
		config.addr(),
		smtp.PlainAuth("", config.EmailAddress, config.Password, config.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(config.addr(), nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}
	return nil
}
