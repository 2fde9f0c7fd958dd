package notifications

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Mailer envia e-mails. Uma falha de envio é retornada ao chamador, que decide o que fazer.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer apenas registra o envio. Usado quando o SES não está configurado.
type LogMailer struct {
	log         *zap.Logger
	includeBody bool
}

// NewLogMailer cria o mailer de fallback. O corpo (que pode conter o link de reset)
// só é logado quando includeBody é true, ou seja, em desenvolvimento.
func NewLogMailer(log *zap.Logger, includeBody bool) *LogMailer {
	return &LogMailer{log: log.Named("mail"), includeBody: includeBody}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	if to == "" {
		return errors.New("email recipient must not be empty")
	}
	fields := []zap.Field{zap.String("to", to), zap.String("subject", subject)}
	if m.includeBody {
		fields = append(fields, zap.String("body", body))
	}
	m.log.Info("--- SIMULATING EMAIL SEND ---", fields...)
	return nil
}

// PasswordResetEmail monta o assunto e o corpo do e-mail de redefinição de senha.
func PasswordResetEmail(frontendURL, rawToken string) (subject, body string) {
	resetURL := fmt.Sprintf("%s/reset-password/%s", frontendURL, rawToken)
	subject = "Password Reset Token"
	body = fmt.Sprintf("You are receiving this email because you (or someone else) requested a password reset for your InnovaTube account.\n\n"+
		"Open the link below to choose a new password. It expires in 10 minutes.\n\n%s\n\n"+
		"If you did not request this, you can safely ignore this email.", resetURL)
	return subject, body
}
