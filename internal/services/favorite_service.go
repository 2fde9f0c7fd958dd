package services

import (
	"context"
	"errors"
	"strings"

	"innovatube/backend/internal/models"
	"innovatube/backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AddFavoriteInput struct {
	VideoID        string
	VideoTitle     string
	VideoThumbnail string
	ChannelTitle   string
	Description    string
	PublishedAt    string
}

type FavoriteService struct {
	favorites repository.FavoriteRepository
	log       *zap.Logger
}

func NewFavoriteService(favorites repository.FavoriteRepository, log *zap.Logger) *FavoriteService {
	return &FavoriteService{favorites: favorites, log: log.Named("favorites")}
}

// normalizeVideoID vale para Add, Remove e IsFavorite.
func normalizeVideoID(id string) string {
	return strings.TrimSpace(id)
}

func (s *FavoriteService) Add(ctx context.Context, userID uuid.UUID, in AddFavoriteInput) (*models.Favorite, error) {
	fav := &models.Favorite{
		UserID:         userID,
		VideoID:        normalizeVideoID(in.VideoID),
		VideoTitle:     in.VideoTitle,
		VideoThumbnail: in.VideoThumbnail,
		ChannelTitle:   in.ChannelTitle,
		Description:    in.Description,
		PublishedAt:    in.PublishedAt,
	}
	if err := s.favorites.Create(ctx, fav); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(KindConflict, MsgAlreadyFavorite, err)
		}
		return nil, s.dependency("add", err)
	}
	return fav, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID uuid.UUID, videoID string) error {
	if err := s.favorites.Delete(ctx, userID, normalizeVideoID(videoID)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(KindNotFound, MsgFavoriteNotFound, err)
		}
		return s.dependency("remove", err)
	}
	return nil
}

func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID, search string) ([]models.Favorite, error) {
	favorites, err := s.favorites.List(ctx, userID, search)
	if err != nil {
		return nil, s.dependency("list", err)
	}
	if favorites == nil {
		favorites = []models.Favorite{}
	}
	return favorites, nil
}

func (s *FavoriteService) IsFavorite(ctx context.Context, userID uuid.UUID, videoID string) (bool, error) {
	_, err := s.favorites.Find(ctx, userID, normalizeVideoID(videoID))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	default:
		return false, s.dependency("check", err)
	}
}

func (s *FavoriteService) dependency(operation string, err error) error {
	s.log.Error("Favorites operation failed", zap.String("operation", operation), zap.Error(err))
	return dependencyFailure(err)
}
