package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"innovatube/backend/internal/models"

	"github.com/google/uuid"
)

// MemoryUserRepository guarda usuários em memória com as mesmas regras de unicidade do PostgreSQL.
// Usado com DATABASE_DRIVER=memory e nos testes.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[uuid.UUID]models.User)}
}

func (r *MemoryUserRepository) find(match func(u *models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if match(&u) {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username == username })
}

func (r *MemoryUserRepository) FindByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == identifier || u.Username == identifier })
}

func (r *MemoryUserRepository) FindByResetDigest(_ context.Context, digest string) (*models.User, error) {
	return r.find(func(u *models.User) bool {
		return u.ResetPasswordToken != nil && *u.ResetPasswordToken == digest
	})
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	usernameTaken := false
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return &DuplicateError{Field: FieldEmail}
		}
		usernameTaken = usernameTaken || existing.Username == user.Username
	}
	if usernameTaken {
		return &DuplicateError{Field: FieldUsername}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	stored.Favorites = nil
	r.users[user.ID] = stored
	return nil
}

// update aplica fn ao usuário se cond for satisfeita; caso contrário retorna ErrNotFound.
func (r *MemoryUserRepository) update(userID uuid.UUID, cond func(u *models.User) bool, fn func(u *models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok || !cond(&u) {
		return ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = time.Now().UTC()
	r.users[userID] = u
	return nil
}

func always(*models.User) bool { return true }

func holdsTicket(digest string) func(u *models.User) bool {
	return func(u *models.User) bool {
		return u.ResetPasswordToken != nil && *u.ResetPasswordToken == digest
	}
}

func (r *MemoryUserRepository) SetResetTicket(_ context.Context, userID uuid.UUID, digest string, expiresAt time.Time) error {
	return r.update(userID, always, func(u *models.User) {
		d, exp := digest, expiresAt
		u.ResetPasswordToken = &d
		u.ResetPasswordExpire = &exp
	})
}

func (r *MemoryUserRepository) ClearResetTicket(_ context.Context, userID uuid.UUID, digest string) error {
	return r.update(userID, holdsTicket(digest), func(u *models.User) {
		u.ResetPasswordToken = nil
		u.ResetPasswordExpire = nil
	})
}

func (r *MemoryUserRepository) ConsumeResetTicket(_ context.Context, userID uuid.UUID, digest, newPasswordHash string) error {
	return r.update(userID, holdsTicket(digest), func(u *models.User) {
		u.PasswordHash = newPasswordHash
		u.ResetPasswordToken = nil
		u.ResetPasswordExpire = nil
	})
}

type favoriteKey struct {
	userID  uuid.UUID
	videoID string
}

// MemoryFavoriteRepository guarda favoritos em memória; (usuário, vídeo) é único.
type MemoryFavoriteRepository struct {
	mu        sync.RWMutex
	favorites map[favoriteKey]models.Favorite
}

func NewMemoryFavoriteRepository() *MemoryFavoriteRepository {
	return &MemoryFavoriteRepository{favorites: make(map[favoriteKey]models.Favorite)}
}

func (r *MemoryFavoriteRepository) Create(_ context.Context, fav *models.Favorite) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := favoriteKey{fav.UserID, fav.VideoID}
	if _, exists := r.favorites[key]; exists {
		return &DuplicateError{Field: FieldVideoID}
	}
	if fav.ID == uuid.Nil {
		fav.ID = uuid.New()
	}
	if fav.AddedAt.IsZero() {
		fav.AddedAt = time.Now().UTC()
	}
	r.favorites[key] = *fav
	return nil
}

func (r *MemoryFavoriteRepository) Delete(_ context.Context, userID uuid.UUID, videoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := favoriteKey{userID, videoID}
	if _, exists := r.favorites[key]; !exists {
		return ErrNotFound
	}
	delete(r.favorites, key)
	return nil
}

func (r *MemoryFavoriteRepository) Find(_ context.Context, userID uuid.UUID, videoID string) (*models.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fav, exists := r.favorites[favoriteKey{userID, videoID}]
	if !exists {
		return nil, ErrNotFound
	}
	return &fav, nil
}

func (r *MemoryFavoriteRepository) List(_ context.Context, userID uuid.UUID, search string) ([]models.Favorite, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	term := strings.ToLower(strings.TrimSpace(search))
	favorites := []models.Favorite{}
	for key, fav := range r.favorites {
		if key.userID != userID {
			continue
		}
		if term != "" && !containsFold(term, fav.VideoTitle, fav.ChannelTitle, fav.Description) {
			continue
		}
		favorites = append(favorites, fav)
	}
	sort.Slice(favorites, func(i, j int) bool {
		return favorites[i].AddedAt.After(favorites[j].AddedAt)
	})
	return favorites, nil
}

func containsFold(term string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
