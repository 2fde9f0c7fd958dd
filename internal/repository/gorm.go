package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"innovatube/backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// Nomes dos índices únicos criados pelas migrações.
var constraintFields = map[string]string{
	"idx_users_email":          FieldEmail,
	"idx_users_username":       FieldUsername,
	"idx_favorites_user_video": FieldVideoID,
}

// translateError converte erros do gorm/pgx nos erros do pacote.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		field, ok := constraintFields[pgErr.ConstraintName]
		if !ok {
			field = pgErr.ConstraintName
		}
		return &DuplicateError{Field: field}
	}
	return fmt.Errorf("db error: %w", err)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *GormUserRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return r.findOne(ctx, "email = ? OR username = ?", identifier, identifier)
}

func (r *GormUserRepository) FindByResetDigest(ctx context.Context, digest string) (*models.User, error) {
	return r.findOne(ctx, "reset_password_token = ?", digest)
}

func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return translateError(r.db.WithContext(ctx).Create(user).Error)
}

func (r *GormUserRepository) SetResetTicket(ctx context.Context, userID uuid.UUID, digest string, expiresAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_password_token":  digest,
			"reset_password_expire": expiresAt,
		})
	return affectedOrNotFound(result)
}

func (r *GormUserRepository) ClearResetTicket(ctx context.Context, userID uuid.UUID, digest string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND reset_password_token = ?", userID, digest).
		Updates(map[string]interface{}{
			"reset_password_token":  nil,
			"reset_password_expire": nil,
		})
	return affectedOrNotFound(result)
}

func (r *GormUserRepository) ConsumeResetTicket(ctx context.Context, userID uuid.UUID, digest, newPasswordHash string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND reset_password_token = ?", userID, digest).
		Updates(map[string]interface{}{
			"password_hash":         newPasswordHash,
			"reset_password_token":  nil,
			"reset_password_expire": nil,
		})
	return affectedOrNotFound(result)
}

func affectedOrNotFound(result *gorm.DB) error {
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type GormFavoriteRepository struct {
	db *gorm.DB
}

func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

func (r *GormFavoriteRepository) Create(ctx context.Context, fav *models.Favorite) error {
	return translateError(r.db.WithContext(ctx).Create(fav).Error)
}

func (r *GormFavoriteRepository) Delete(ctx context.Context, userID uuid.UUID, videoID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Delete(&models.Favorite{})
	return affectedOrNotFound(result)
}

func (r *GormFavoriteRepository) Find(ctx context.Context, userID uuid.UUID, videoID string) (*models.Favorite, error) {
	var fav models.Favorite
	err := r.db.WithContext(ctx).Where("user_id = ? AND video_id = ?", userID, videoID).First(&fav).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &fav, nil
}

func (r *GormFavoriteRepository) List(ctx context.Context, userID uuid.UUID, search string) ([]models.Favorite, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + escapeLike(search) + "%"
		query = query.Where("(video_title ILIKE ? OR channel_title ILIKE ? OR description ILIKE ?)", pattern, pattern, pattern)
	}
	var favorites []models.Favorite
	if err := query.Order("added_at DESC").Find(&favorites).Error; err != nil {
		return nil, translateError(err)
	}
	return favorites, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike faz o termo de busca ser tratado literalmente pelo ILIKE.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
