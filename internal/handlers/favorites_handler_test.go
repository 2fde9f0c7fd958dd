package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoritesHandlers(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAnn(t)

	favorite := map[string]string{
		"videoId":        "dQw4w9WgXcQ",
		"videoTitle":     "Never Gonna Give You Up",
		"videoThumbnail": "https://i.ytimg.com/vi/dQw4w9WgXcQ/hqdefault.jpg",
		"channelTitle":   "Rick Astley",
		"description":    "Official video",
	}

	rr := s.do(t, http.MethodPost, "/api/favorites", favorite, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/favorites", map[string]string{"videoId": "abc"}, token)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Len(t, decodeEnvelope(t, rr).Errors, 3)

	oversized := map[string]string{}
	for k, v := range favorite {
		oversized[k] = v
	}
	oversized["videoId"] = strings.Repeat("x", 65)
	rr = s.do(t, http.MethodPost, "/api/favorites", oversized, token)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	env := decodeEnvelope(t, rr)
	require.Len(t, env.Errors, 1, rr.Body.String())
	assert.Equal(t, "videoId", env.Errors[0].Field)
	assert.Equal(t, "Video ID must be at most 64 characters", env.Errors[0].Message)

	rr = s.do(t, http.MethodPost, "/api/favorites", favorite, token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	env = decodeEnvelope(t, rr)
	assert.Equal(t, "Video added to favorites", env.Message)
	var created struct {
		VideoID string `json:"videoId"`
		AddedAt string `json:"addedAt"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "dQw4w9WgXcQ", created.VideoID)
	assert.NotEmpty(t, created.AddedAt)

	rr = s.do(t, http.MethodPost, "/api/favorites", favorite, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Video already in favorites", decodeEnvelope(t, rr).Message)

	var list struct {
		Success bool              `json:"success"`
		Data    []json.RawMessage `json:"data"`
		Count   int               `json:"count"`
	}
	rr = s.do(t, http.MethodGet, "/api/favorites?search=rick", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.True(t, list.Success)
	assert.Equal(t, 1, list.Count)
	assert.Len(t, list.Data, 1)

	rr = s.do(t, http.MethodGet, "/api/favorites?search=zzz", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"data":[],"count":0}`, rr.Body.String())

	var check struct {
		IsFavorite bool `json:"isFavorite"`
	}
	rr = s.do(t, http.MethodGet, "/api/favorites/check/dQw4w9WgXcQ", nil, token)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &check))
	assert.True(t, check.IsFavorite)

	rr = s.do(t, http.MethodDelete, "/api/favorites/dQw4w9WgXcQ", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Video removed from favorites", decodeEnvelope(t, rr).Message)

	rr = s.do(t, http.MethodDelete, "/api/favorites/dQw4w9WgXcQ", nil, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Favorite not found", decodeEnvelope(t, rr).Message)

	rr = s.do(t, http.MethodGet, "/api/favorites/check/dQw4w9WgXcQ", nil, token)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &check))
	assert.False(t, check.IsFavorite)
}
