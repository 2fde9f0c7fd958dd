package youtube

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"innovatube/backend/pkg/features"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

const (
	DefaultMaxResults = 12
	MaxMaxResults     = 50
)

// ErrVideoNotFound é retornado por GetVideo quando a API não devolve nenhum item.
var ErrVideoNotFound = errors.New("video not found")

type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Thumbnail    string `json:"thumbnail"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
	ViewCount    string `json:"viewCount,omitempty"`
	LikeCount    string `json:"likeCount,omitempty"`
}

type SearchResult struct {
	Videos        []Video `json:"videos"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
	PrevPageToken string  `json:"prevPageToken,omitempty"`
	TotalResults  int64   `json:"totalResults"`
}

// Client consulta a YouTube Data API v3.
type Client struct {
	svc       *yt.Service
	withStats bool
	log       *zap.Logger
}

// NewClient cria o cliente autenticado por API key. opts extras (endpoint, http client)
// são repassados ao serviço.
func NewClient(ctx context.Context, apiKey string, toggles features.Set, log *zap.Logger, opts ...option.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("YouTube API key must not be empty")
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Client{
		svc:       svc,
		withStats: toggles.IsEnabledOr(features.VideoStatistics, true),
		log:       log.Named("youtube"),
	}, nil
}

// ClampMaxResults aplica o default e os limites aceitos pela API.
func ClampMaxResults(n int) int64 {
	switch {
	case n <= 0:
		return DefaultMaxResults
	case n > MaxMaxResults:
		return MaxMaxResults
	default:
		return int64(n)
	}
}

// Search busca vídeos e, se habilitado, completa com estatísticas numa segunda chamada.
func (c *Client) Search(ctx context.Context, query, pageToken string, maxResults int) (*SearchResult, error) {
	call := c.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		Order("relevance").
		MaxResults(ClampMaxResults(maxResults)).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		c.log.Error("YouTube search failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("failed to search videos: %w", err)
	}

	result := &SearchResult{
		Videos:        make([]Video, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
		PrevPageToken: resp.PrevPageToken,
	}
	if resp.PageInfo != nil {
		result.TotalResults = resp.PageInfo.TotalResults
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		ids = append(ids, item.Id.VideoId)
		result.Videos = append(result.Videos, fromSearchResult(item))
	}

	if !c.withStats || len(ids) == 0 {
		return result, nil
	}

	details, err := c.svc.Videos.List([]string{"snippet", "statistics"}).Id(ids...).Context(ctx).Do()
	if err != nil {
		c.log.Error("YouTube video details failed", zap.Strings("ids", ids), zap.Error(err))
		return nil, fmt.Errorf("failed to search videos: %w", err)
	}

	byID := make(map[string]*yt.Video, len(details.Items))
	for _, v := range details.Items {
		byID[v.Id] = v
	}
	for i := range result.Videos {
		if v, ok := byID[result.Videos[i].ID]; ok {
			result.Videos[i] = fromVideo(v)
		}
	}
	return result, nil
}

func (c *Client) GetVideo(ctx context.Context, id string) (*Video, error) {
	resp, err := c.svc.Videos.List([]string{"snippet", "statistics"}).Id(id).Context(ctx).Do()
	if err != nil {
		c.log.Error("YouTube get video failed", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get video details: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, ErrVideoNotFound
	}
	video := fromVideo(resp.Items[0])
	return &video, nil
}

func fromSearchResult(item *yt.SearchResult) Video {
	v := Video{ID: item.Id.VideoId}
	if s := item.Snippet; s != nil {
		v.Title = s.Title
		v.Description = s.Description
		v.ChannelTitle = s.ChannelTitle
		v.PublishedAt = s.PublishedAt
		v.Thumbnail = pickThumbnail(s.Thumbnails)
	}
	return v
}

func fromVideo(item *yt.Video) Video {
	v := Video{ID: item.Id}
	if s := item.Snippet; s != nil {
		v.Title = s.Title
		v.Description = s.Description
		v.ChannelTitle = s.ChannelTitle
		v.PublishedAt = s.PublishedAt
		v.Thumbnail = pickThumbnail(s.Thumbnails)
	}
	if st := item.Statistics; st != nil {
		v.ViewCount = strconv.FormatUint(st.ViewCount, 10)
		v.LikeCount = strconv.FormatUint(st.LikeCount, 10)
	}
	return v
}

// pickThumbnail prefere high, depois medium, depois default.
func pickThumbnail(t *yt.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, thumb := range []*yt.Thumbnail{t.High, t.Medium, t.Default} {
		if thumb != nil && thumb.Url != "" {
			return thumb.Url
		}
	}
	return ""
}
