package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifica as falhas da camada de serviço. Os handlers mapeiam cada tipo para um status HTTP.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindInvalidCredentials
	KindInvalidOrExpiredToken
	KindConflict
	KindUnauthenticated
	KindNotFound
	KindDependencyFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindInvalidOrExpiredToken:
		return "invalid_or_expired_token"
	case KindConflict:
		return "conflict"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not_found"
	case KindDependencyFailure:
		return "dependency_failure"
	default:
		return "unknown"
	}
}

// FieldError é uma mensagem de validação associada a um campo do payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError carrega a mensagem pública (Message) e a causa interna (Err), que nunca vai para o cliente.
type AppError struct {
	Kind    ErrorKind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Mensagens públicas compartilhadas entre serviço e handlers.
const (
	MsgValidation            = "Validation error"
	MsgCaptchaFailed         = "reCAPTCHA verification failed"
	MsgEmailTaken            = "Email already registered"
	MsgUsernameTaken         = "Username already taken"
	MsgInvalidCredentials    = "Invalid credentials"
	MsgInvalidOrExpiredToken = "Invalid or expired token"
	MsgResetLinkSent         = "If the email exists, a password reset link has been sent"
	MsgUserNotFound          = "User not found"
	MsgAlreadyFavorite       = "Video already in favorites"
	MsgFavoriteNotFound      = "Favorite not found"
	MsgInternal              = "Internal server error"
)

func newError(kind ErrorKind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func dependencyFailure(err error) *AppError {
	return newError(KindDependencyFailure, MsgInternal, err)
}

// KindOf retorna o tipo de um erro da camada de serviço, ou 0 se não for um AppError.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}
