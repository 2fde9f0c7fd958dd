package handlers

import (
	"net/http"

	"innovatube/backend/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AddFavoritePayload struct {
	VideoID        string `json:"videoId" binding:"required,max=64"`
	VideoTitle     string `json:"videoTitle" binding:"required,max=255"`
	VideoThumbnail string `json:"videoThumbnail" binding:"required,max=512"`
	ChannelTitle   string `json:"channelTitle" binding:"required,max=255"`
	Description    string `json:"description"`
	PublishedAt    string `json:"publishedAt" binding:"max=64"`
}

type FavoritesHandler struct {
	favorites *services.FavoriteService
	log       *zap.Logger
}

func NewFavoritesHandler(favorites *services.FavoriteService, log *zap.Logger) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites, log: log.Named("favorites_handler")}
}

func (h *FavoritesHandler) Add(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var payload AddFavoritePayload
	if !bindJSON(c, &payload) {
		return
	}

	fav, err := h.favorites.Add(c.Request.Context(), userID, services.AddFavoriteInput{
		VideoID:        payload.VideoID,
		VideoTitle:     payload.VideoTitle,
		VideoThumbnail: payload.VideoThumbnail,
		ChannelTitle:   payload.ChannelTitle,
		Description:    payload.Description,
		PublishedAt:    payload.PublishedAt,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusCreated, "Video added to favorites", fav)
}

func (h *FavoritesHandler) Remove(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.favorites.Remove(c.Request.Context(), userID, c.Param("videoId")); err != nil {
		respondError(c, h.log, err)
		return
	}
	respondMessage(c, http.StatusOK, "Video removed from favorites")
}

// List aceita ?search= para filtrar por título, canal ou descrição.
func (h *FavoritesHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	favorites, err := h.favorites.List(c.Request.Context(), userID, c.Query("search"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": favorites, "count": len(favorites)})
}

func (h *FavoritesHandler) Check(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	isFavorite, err := h.favorites.IsFavorite(c.Request.Context(), userID, c.Param("videoId"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "isFavorite": isFavorite})
}
