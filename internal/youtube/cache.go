package youtube

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "innovatube:yt"

// Searcher é satisfeito por *Client e por *CachedClient.
type Searcher interface {
	Search(ctx context.Context, query, pageToken string, maxResults int) (*SearchResult, error)
	GetVideo(ctx context.Context, id string) (*Video, error)
}

// CachedClient guarda respostas da API no Redis por ttl para economizar cota.
// Falhas do Redis nunca derrubam a busca: a chamada segue direto para a API.
type CachedClient struct {
	next  Searcher
	redis *redis.Client
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedClient(next Searcher, rdb *redis.Client, ttl time.Duration, log *zap.Logger) *CachedClient {
	return &CachedClient{next: next, redis: rdb, ttl: ttl, log: log.Named("youtube_cache")}
}

func searchKey(query, pageToken string, maxResults int) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query)) + "\x00" + pageToken + "\x00" +
		strconv.FormatInt(ClampMaxResults(maxResults), 10)))
	return cacheKeyPrefix + ":search:" + hex.EncodeToString(sum[:])
}

func videoKey(id string) string {
	return cacheKeyPrefix + ":video:" + id
}

func (c *CachedClient) Search(ctx context.Context, query, pageToken string, maxResults int) (*SearchResult, error) {
	key := searchKey(query, pageToken, maxResults)
	var cached SearchResult
	if c.load(ctx, key, &cached) {
		return &cached, nil
	}

	result, err := c.next.Search(ctx, query, pageToken, maxResults)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, result)
	return result, nil
}

func (c *CachedClient) GetVideo(ctx context.Context, id string) (*Video, error) {
	key := videoKey(id)
	var cached Video
	if c.load(ctx, key, &cached) {
		return &cached, nil
	}

	video, err := c.next.GetVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, video)
	return video, nil
}

func (c *CachedClient) load(ctx context.Context, key string, dst interface{}) bool {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.log.Warn("Discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *CachedClient) store(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// NewRedisClient abre o cliente a partir de uma URL redis:// e confirma com PING.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
