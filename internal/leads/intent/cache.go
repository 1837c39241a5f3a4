package intent

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lead_triage_backend/internal/leads/domain"
	"lead_triage_backend/platform/config"
	"lead_triage_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "lead-triage:intent:v1:"

// NewRedisClient connects to REDIS_URL and verifies the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.GetRedisTLSInsecure() {
		if opt.TLSConfig != nil {
			opt.TLSConfig = opt.TLSConfig.Clone()
			opt.TLSConfig.InsecureSkipVerify = true
		} else {
			opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
		}
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Cache stores successful classifications in Redis keyed by a digest of the
// lead fields. Cache errors are logged and treated as misses.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewCache returns a cache over client. log may be nil.
func NewCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *Cache {
	if log == nil {
		log = logger.Nop()
	}
	return &Cache{client: client, ttl: ttl, log: log}
}

// Key returns the cache key for fields under a backend namespace.
func Key(backend string, f domain.Fields) string {
	h := sha256.New()
	h.Write([]byte(backend))
	for _, name := range domain.CanonicalFields {
		h.Write([]byte{0x1f})
		h.Write([]byte(f.Get(name)))
	}
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// Get looks up a cached analysis.
func (c *Cache) Get(ctx context.Context, key string) (domain.AIAnalysis, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.WithContext(ctx).Warn("intent cache read failed", "error", err)
		}
		return domain.AIAnalysis{}, false
	}

	var a domain.AIAnalysis
	if err := json.Unmarshal(raw, &a); err != nil || !domain.IsIntentLabel(a.IntentLabel) {
		return domain.AIAnalysis{}, false
	}
	return a, true
}

// Set stores an analysis under key with the cache TTL.
func (c *Cache) Set(ctx context.Context, key string, a domain.AIAnalysis) {
	raw, err := json.Marshal(a)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.WithContext(ctx).Warn("intent cache write failed", "error", err)
	}
}

// CachedClassifier consults the cache before delegating to the wrapped classifier.
type CachedClassifier struct {
	next    Classifier
	cache   *Cache
	backend string
}

// WithCache wraps next with cache.
func WithCache(next Classifier, cache *Cache) *CachedClassifier {
	return &CachedClassifier{next: next, cache: cache, backend: BackendName(next)}
}

// Backend reports the wrapped classifier's backend.
func (c *CachedClassifier) Backend() string { return c.backend }

// Classify returns a cached verdict when present, otherwise classifies and
// caches the result. Failures are never cached.
func (c *CachedClassifier) Classify(ctx context.Context, f domain.Fields) (domain.AIAnalysis, error) {
	key := Key(c.backend, f)
	if a, ok := c.cache.Get(ctx, key); ok {
		return a, nil
	}

	a, err := c.next.Classify(ctx, f)
	if err != nil {
		return domain.AIAnalysis{}, err
	}
	c.cache.Set(ctx, key, a)
	return a, nil
}
