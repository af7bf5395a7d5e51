package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andresuchdata/tabloide-insight/internal/config"
	"github.com/andresuchdata/tabloide-insight/internal/domain"
)

const insightReportKeyPrefix = "insight:report"

// InsightCache stores built reports. Reports go through JSON on both sides,
// so callers never share an instance with the cache or with each other.
type InsightCache interface {
	GetReport(ctx context.Context, start, end time.Time, promotion string) (*domain.InsightReport, bool, error)
	SetReport(ctx context.Context, report *domain.InsightReport) error
	InvalidateAll(ctx context.Context) error
}

type redisInsightCache struct {
	client *redis.Client
	ttl    time.Duration
}

type memoryInsightCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

type memoryEntry struct {
	payload []byte
	expires time.Time
}

type noopInsightCache struct{}

func NewInsightCache(cfg config.CacheConfig) (InsightCache, error) {
	if !cfg.Enabled {
		return &noopInsightCache{}, nil
	}

	if cfg.Backend == "memory" {
		return NewMemoryInsightCache(cacheTTL(cfg)), nil
	}

	client, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisInsightCache{
		client: client,
		ttl:    cacheTTL(cfg),
	}, nil
}

func NewNoopInsightCache() InsightCache {
	return &noopInsightCache{}
}

// NewMemoryInsightCache keeps reports in process, for a single dashboard
// instance without Redis.
func NewMemoryInsightCache(ttl time.Duration) InsightCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &memoryInsightCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (c *redisInsightCache) GetReport(ctx context.Context, start, end time.Time, promotion string) (*domain.InsightReport, bool, error) {
	payload, err := c.client.Get(ctx, buildInsightReportKey(start, end, promotion)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	report, err := decodeReport(payload)
	if err != nil {
		return nil, false, err
	}
	return report, true, nil
}

func (c *redisInsightCache) SetReport(ctx context.Context, report *domain.InsightReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode insight report cache: %w", err)
	}

	key := buildInsightReportKey(report.Start, report.End, report.PromotionName)
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisInsightCache) InvalidateAll(ctx context.Context) error {
	_, err := deleteKeysWithPrefix(ctx, c.client, insightReportKeyPrefix)
	return err
}

func (c *memoryInsightCache) GetReport(_ context.Context, start, end time.Time, promotion string) (*domain.InsightReport, bool, error) {
	key := buildInsightReportKey(start, end, promotion)

	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && c.now().After(entry.expires) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		return nil, false, nil
	}
	report, err := decodeReport(entry.payload)
	if err != nil {
		return nil, false, err
	}
	return report, true, nil
}

func (c *memoryInsightCache) SetReport(_ context.Context, report *domain.InsightReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode insight report cache: %w", err)
	}

	key := buildInsightReportKey(report.Start, report.End, report.PromotionName)
	c.mu.Lock()
	c.entries[key] = memoryEntry{payload: payload, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

func (c *memoryInsightCache) InvalidateAll(context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}

func (n *noopInsightCache) GetReport(context.Context, time.Time, time.Time, string) (*domain.InsightReport, bool, error) {
	return nil, false, nil
}

func (n *noopInsightCache) SetReport(context.Context, *domain.InsightReport) error {
	return nil
}

func (n *noopInsightCache) InvalidateAll(context.Context) error {
	return nil
}

func decodeReport(payload []byte) (*domain.InsightReport, error) {
	var report domain.InsightReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("decode insight report cache: %w", err)
	}
	return &report, nil
}

func buildInsightReportKey(start, end time.Time, promotion string) string {
	raw := strings.Join([]string{
		start.Format(time.DateOnly),
		end.Format(time.DateOnly),
		strings.TrimSpace(promotion),
	}, "|")
	hash := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%s", insightReportKeyPrefix, hex.EncodeToString(hash[:]))
}
