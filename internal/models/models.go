package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User é o registro de credenciais. Username e Email são únicos e sempre armazenados em minúsculas.
// ResetPasswordToken guarda apenas o digest do token de reset; ele e ResetPasswordExpire
// são ambos nil ou ambos preenchidos.
type User struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primary_key;"`
	FirstName           string     `gorm:"size:50;not null"`
	LastName            string     `gorm:"size:50;not null"`
	Username            string     `gorm:"size:30;not null;uniqueIndex"`
	Email               string     `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash        string     `gorm:"size:255;not null"`
	ResetPasswordToken  *string    `gorm:"size:64;index"`
	ResetPasswordExpire *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Favorites           []Favorite `gorm:"foreignKey:UserID"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}

// HasResetTicket indica se há um ticket de reset pendente.
func (user *User) HasResetTicket() bool {
	return user.ResetPasswordToken != nil && user.ResetPasswordExpire != nil
}

// PublicProfile são os campos do usuário que podem ser devolvidos ao cliente (nunca o hash).
type PublicProfile struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

func (user *User) Profile() PublicProfile {
	return PublicProfile{
		ID:        user.ID.String(),
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Username:  user.Username,
		Email:     user.Email,
	}
}

// Favorite é um vídeo salvo por um usuário. (UserID, VideoID) é único.
type Favorite struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_video" json:"userId"`
	VideoID        string    `gorm:"size:64;not null;uniqueIndex:idx_favorites_user_video" json:"videoId"`
	VideoTitle     string    `gorm:"size:255;not null" json:"videoTitle"`
	VideoThumbnail string    `gorm:"size:512;not null" json:"videoThumbnail"`
	ChannelTitle   string    `gorm:"size:255;not null" json:"channelTitle"`
	Description    string    `gorm:"type:text" json:"description,omitempty"`
	PublishedAt    string    `gorm:"size:64" json:"publishedAt,omitempty"`
	AddedAt        time.Time `gorm:"not null;index" json:"addedAt"`
}

func (fav *Favorite) BeforeCreate(tx *gorm.DB) (err error) {
	if fav.ID == uuid.Nil {
		fav.ID = uuid.New()
	}
	if fav.AddedAt.IsZero() {
		fav.AddedAt = time.Now().UTC()
	}
	return
}
