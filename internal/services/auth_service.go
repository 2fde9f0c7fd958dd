package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"innovatube/backend/internal/auth"
	"innovatube/backend/internal/captcha"
	"innovatube/backend/internal/models"
	"innovatube/backend/internal/notifications"
	"innovatube/backend/internal/repository"
	"innovatube/backend/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Operações reportadas em metrics.AuthEvents.
const (
	opRegister       = "register"
	opLogin          = "login"
	opForgotPassword = "forgot_password"
	opResetPassword  = "reset_password"
)

// TokenIssuer é satisfeito por *auth.TokenManager.
type TokenIssuer interface {
	GenerateToken(userID uuid.UUID) (string, error)
}

type RegisterInput struct {
	FirstName      string
	LastName       string
	Username       string
	Email          string
	Password       string
	RecaptchaToken string
}

// AuthResult é a sessão emitida junto com o perfil público do usuário.
type AuthResult struct {
	Token string               `json:"token"`
	User  models.PublicProfile `json:"user"`
}

// AuthService orquestra cadastro, login e redefinição de senha.
type AuthService struct {
	users       repository.UserRepository
	hasher      auth.PasswordHasher
	codec       auth.ResetTokenCodec
	tokens      TokenIssuer
	verifier    captcha.Verifier
	mailer      notifications.Mailer
	frontendURL string
	now         func() time.Time
	log         *zap.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens TokenIssuer,
	verifier captcha.Verifier,
	mailer notifications.Mailer,
	frontendURL string,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		hasher:      auth.NewPasswordHasher(),
		codec:       auth.NewResetTokenCodec(),
		tokens:      tokens,
		verifier:    verifier,
		mailer:      mailer,
		frontendURL: strings.TrimSuffix(frontendURL, "/"),
		now:         time.Now,
		log:         log.Named("auth"),
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if !s.verifier.Verify(ctx, in.RecaptchaToken) {
		metrics.RecordAuthEvent(opRegister, metrics.OutcomeRejected)
		return nil, newError(KindValidation, MsgCaptchaFailed, nil)
	}

	user := &models.User{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Username:  normalize(in.Username),
		Email:     normalize(in.Email),
	}

	if err := s.ensureAvailable(ctx, user.Email, user.Username); err != nil {
		return nil, s.fail(opRegister, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, s.fail(opRegister, dependencyFailure(err))
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		// Outra requisição pode ter criado o mesmo email/username depois da verificação acima.
		var dupErr *repository.DuplicateError
		if errors.As(err, &dupErr) {
			return nil, s.fail(opRegister, conflictFor(dupErr.Field, err))
		}
		return nil, s.fail(opRegister, dependencyFailure(err))
	}

	result, err := s.issueSession(user)
	if err != nil {
		return nil, s.fail(opRegister, err)
	}
	s.log.Info("User registered", zap.String("user_id", user.ID.String()))
	metrics.RecordAuthEvent(opRegister, metrics.OutcomeSuccess)
	return result, nil
}

// ensureAvailable confere o email primeiro, depois o username.
func (s *AuthService) ensureAvailable(ctx context.Context, email, username string) error {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return newError(KindConflict, MsgEmailTaken, nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return dependencyFailure(err)
	}
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return newError(KindConflict, MsgUsernameTaken, nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return dependencyFailure(err)
	}
	return nil
}

func conflictFor(field string, err error) *AppError {
	if field == repository.FieldUsername {
		return newError(KindConflict, MsgUsernameTaken, err)
	}
	return newError(KindConflict, MsgEmailTaken, err)
}

// Login não distingue usuário inexistente de senha incorreta.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	user, err := s.users.FindByIdentifier(ctx, normalize(identifier))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.fail(opLogin, newError(KindInvalidCredentials, MsgInvalidCredentials, nil))
		}
		return nil, s.fail(opLogin, dependencyFailure(err))
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, s.fail(opLogin, newError(KindInvalidCredentials, MsgInvalidCredentials, nil))
	}

	result, err := s.issueSession(user)
	if err != nil {
		return nil, s.fail(opLogin, err)
	}
	metrics.RecordAuthEvent(opLogin, metrics.OutcomeSuccess)
	return result, nil
}

// ForgotPassword retorna nil tanto para emails cadastrados quanto para desconhecidos.
// Se o envio do e-mail falhar, o ticket é removido e a falha fica apenas nos logs e métricas.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalize(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.RecordAuthEvent(opForgotPassword, metrics.OutcomeSuccess)
			return nil
		}
		return s.fail(opForgotPassword, dependencyFailure(err))
	}

	ticket, err := s.codec.Issue(s.now())
	if err != nil {
		return s.fail(opForgotPassword, dependencyFailure(err))
	}
	if err := s.users.SetResetTicket(ctx, user.ID, ticket.Digest, ticket.ExpiresAt); err != nil {
		return s.fail(opForgotPassword, dependencyFailure(err))
	}

	subject, body := notifications.PasswordResetEmail(s.frontendURL, ticket.Raw)
	if err := s.mailer.Send(ctx, user.Email, subject, body); err != nil {
		metrics.MailDispatchFailures.Inc()
		metrics.RecordAuthEvent(opForgotPassword, metrics.OutcomeError)
		s.log.Error("Password reset email could not be sent, clearing reset ticket",
			zap.String("user_id", user.ID.String()), zap.Error(err))

		rollbackCtx := context.WithoutCancel(ctx)
		if clearErr := s.users.ClearResetTicket(rollbackCtx, user.ID, ticket.Digest); clearErr != nil && !errors.Is(clearErr, repository.ErrNotFound) {
			s.log.Error("Failed to clear reset ticket after dispatch failure",
				zap.String("user_id", user.ID.String()), zap.Error(clearErr))
		}
		return nil
	}

	metrics.RecordAuthEvent(opForgotPassword, metrics.OutcomeSuccess)
	return nil
}

// ResetPassword consome o ticket (uso único), troca a senha e emite uma nova sessão.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) (*AuthResult, error) {
	invalid := newError(KindInvalidOrExpiredToken, MsgInvalidOrExpiredToken, nil)
	digest := s.codec.Digest(rawToken)

	user, err := s.users.FindByResetDigest(ctx, digest)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.fail(opResetPassword, invalid)
		}
		return nil, s.fail(opResetPassword, dependencyFailure(err))
	}
	if !user.HasResetTicket() || !s.codec.Match(rawToken, *user.ResetPasswordToken, *user.ResetPasswordExpire, s.now()) {
		return nil, s.fail(opResetPassword, invalid)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, s.fail(opResetPassword, dependencyFailure(err))
	}
	if err := s.users.ConsumeResetTicket(ctx, user.ID, digest, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.fail(opResetPassword, invalid)
		}
		return nil, s.fail(opResetPassword, dependencyFailure(err))
	}
	user.PasswordHash = hash
	user.ResetPasswordToken = nil
	user.ResetPasswordExpire = nil

	result, err := s.issueSession(user)
	if err != nil {
		return nil, s.fail(opResetPassword, err)
	}
	s.log.Info("Password reset completed", zap.String("user_id", user.ID.String()))
	metrics.RecordAuthEvent(opResetPassword, metrics.OutcomeSuccess)
	return result, nil
}

func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.PublicProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFound, MsgUserNotFound, err)
		}
		return nil, dependencyFailure(err)
	}
	profile := user.Profile()
	return &profile, nil
}

func (s *AuthService) issueSession(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, dependencyFailure(err)
	}
	return &AuthResult{Token: token, User: user.Profile()}, nil
}

// fail registra a métrica e loga dependências indisponíveis. Rejeições comuns não são logadas como erro.
func (s *AuthService) fail(operation string, err error) error {
	if KindOf(err) == KindDependencyFailure {
		metrics.RecordAuthEvent(operation, metrics.OutcomeError)
		s.log.Error("Auth operation failed", zap.String("operation", operation), zap.Error(err))
		return err
	}
	metrics.RecordAuthEvent(operation, metrics.OutcomeRejected)
	return err
}
