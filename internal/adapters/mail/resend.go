// Package mail delivers activation codes. ResendMailer talks to the Resend
// API; LogMailer writes the code to the log for local development.
package mail

import (
	"context"
	"fmt"
	"html"

	"github.com/resend/resend-go/v3"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/elearning/internal/core/domain"
	"github.com/vncsmyrnk/elearning/internal/core/ports"
)

const activationSubject = "Activate your account"

type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(client *resend.Client, from string) *ResendMailer {
	return &ResendMailer{client: client, from: from}
}

var _ ports.Mailer = (*ResendMailer)(nil)

func (m *ResendMailer) SendActivationCode(ctx context.Context, toEmail, name, code string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{toEmail},
		Subject: activationSubject,
		Html:    activationHTML(name, code),
		Text:    activationText(name, code),
	}
	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMailDelivery, err)
	}
	return nil
}

func activationText(name, code string) string {
	return fmt.Sprintf("Hello %s,\n\nUse the code below to activate your account. It expires in a few minutes.\n\n%s\n", name, code)
}

func activationHTML(name, code string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin:0;padding:24px;font-family:Arial,Helvetica,sans-serif;background:#f4f4f7;">
  <table width="480" cellpadding="0" cellspacing="0" style="margin:0 auto;background:#ffffff;border-radius:8px;padding:32px;">
    <tr><td>
      <h2 style="margin:0 0 16px 0;color:#1f2937;">Welcome, %s</h2>
      <p style="color:#4b5563;font-size:15px;line-height:1.6;">Use the code below to activate your account. It expires in a few minutes.</p>
      <p style="font-size:32px;letter-spacing:8px;font-weight:700;color:#111827;margin:24px 0;">%s</p>
      <p style="color:#9ca3af;font-size:13px;">If you did not create an account, you can ignore this email.</p>
    </td></tr>
  </table>
</body>
</html>`, html.EscapeString(name), html.EscapeString(code))
}

// LogMailer is used when no Resend API key is configured.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

var _ ports.Mailer = (*LogMailer)(nil)

func (m *LogMailer) SendActivationCode(_ context.Context, toEmail, name, code string) error {
	m.logger.Info("activation code",
		zap.String("to", toEmail),
		zap.String("name", name),
		zap.String("code", code),
	)
	return nil
}
