package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"innovatube/backend/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrNotFound é retornado quando nenhum registro corresponde ao filtro.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate é retornado quando uma restrição de unicidade rejeita a escrita.
	ErrDuplicate = errors.New("duplicate record")
)

// DuplicateError identifica qual campo único foi violado.
// errors.Is(err, ErrDuplicate) é verdadeiro para qualquer DuplicateError.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s", e.Field)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// Campos reportados em DuplicateError.
const (
	FieldEmail    = "email"
	FieldUsername = "username"
	FieldVideoID  = "videoId"
)

// UserRepository acessa os registros de credenciais.
// Email e username devem chegar já normalizados em minúsculas.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// FindByIdentifier procura por email OU username.
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	FindByResetDigest(ctx context.Context, digest string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	SetResetTicket(ctx context.Context, userID uuid.UUID, digest string, expiresAt time.Time) error
	// ClearResetTicket remove o ticket somente se digest ainda for o ticket atual.
	ClearResetTicket(ctx context.Context, userID uuid.UUID, digest string) error
	// ConsumeResetTicket troca o hash da senha e limpa o ticket em uma única escrita condicional.
	// Retorna ErrNotFound se o ticket já foi consumido ou substituído.
	ConsumeResetTicket(ctx context.Context, userID uuid.UUID, digest, newPasswordHash string) error
}

// FavoriteRepository acessa os vídeos favoritos dos usuários.
type FavoriteRepository interface {
	Create(ctx context.Context, fav *models.Favorite) error
	Delete(ctx context.Context, userID uuid.UUID, videoID string) error
	Find(ctx context.Context, userID uuid.UUID, videoID string) (*models.Favorite, error)
	// List retorna os favoritos mais recentes primeiro; search filtra por título, canal e descrição.
	List(ctx context.Context, userID uuid.UUID, search string) ([]models.Favorite, error)
}
