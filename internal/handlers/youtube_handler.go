package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"innovatube/backend/internal/youtube"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VideoSearcher é a parte do cliente do YouTube usada pelos handlers.
type VideoSearcher interface {
	Search(ctx context.Context, query, pageToken string, maxResults int) (*youtube.SearchResult, error)
	GetVideo(ctx context.Context, id string) (*youtube.Video, error)
}

type YouTubeHandler struct {
	videos VideoSearcher
	log    *zap.Logger
}

func NewYouTubeHandler(videos VideoSearcher, log *zap.Logger) *YouTubeHandler {
	return &YouTubeHandler{videos: videos, log: log.Named("youtube_handler")}
}

// Search repassa q, pageToken e maxResults para a API do YouTube.
func (h *YouTubeHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondMessage(c, http.StatusBadRequest, "Search query is required")
		return
	}

	maxResults := 0
	if raw := c.Query("maxResults"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondMessage(c, http.StatusBadRequest, "maxResults must be a number")
			return
		}
		maxResults = n
	}

	result, err := h.videos.Search(c.Request.Context(), query, c.Query("pageToken"), maxResults)
	if err != nil {
		h.log.Error("YouTube search failed", zap.String("query", query), zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to search videos")
		return
	}
	respondOK(c, http.StatusOK, "", result)
}

func (h *YouTubeHandler) GetVideo(c *gin.Context) {
	id := c.Param("id")
	video, err := h.videos.GetVideo(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, youtube.ErrVideoNotFound) {
			respondMessage(c, http.StatusNotFound, "Video not found")
			return
		}
		h.log.Error("YouTube video lookup failed", zap.String("video_id", id), zap.Error(err))
		respondMessage(c, http.StatusInternalServerError, "Failed to get video")
		return
	}
	respondOK(c, http.StatusOK, "", video)
}
