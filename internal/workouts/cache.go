package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/coocood/freecache"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/ridesmap/internal/telemetry/metrics"
)

const (
	layerCacheKeyPrefix = "ridesmap::layer::"
	datasetVersionKey   = "ridesmap::dataset::version"
	statsCacheSize      = 10 * 1024 * 1024

	cacheNameLayers = "layers"
	cacheNameStats  = "stats"
)

// LayerCache keeps the rendered GeoJSON of each layer in Redis
type LayerCache struct {
	redisClient    *redis.Client
	ttl            time.Duration
	metricsManager *metrics.Manager
}

func NewLayerCache(redisClient *redis.Client, ttl time.Duration, metricsManager *metrics.Manager) *LayerCache {
	return &LayerCache{
		redisClient:    redisClient,
		ttl:            ttl,
		metricsManager: metricsManager,
	}
}

func layerCacheKey(layerKey string) string {
	return layerCacheKeyPrefix + layerKey + "::geojson"
}

// Get returns the cached layer GeoJSON, ok is false on a miss
func (c *LayerCache) Get(ctx context.Context, layerKey string) (_ []byte, ok bool, err error) {
	data, err := c.redisClient.Get(ctx, layerCacheKey(layerKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.metricsManager.CounterCacheMisses.WithLabelValues(cacheNameLayers).Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	c.metricsManager.CounterCacheHits.WithLabelValues(cacheNameLayers).Inc()
	return data, true, nil
}

func (c *LayerCache) Set(ctx context.Context, layerKey string, data []byte) error {
	return c.redisClient.Set(ctx, layerCacheKey(layerKey), data, c.ttl).Err()
}

// Invalidate drops the cached layers and bumps the dataset version,
// so stats cached by other processes stop matching
func (c *LayerCache) Invalidate(ctx context.Context) error {
	keys := make([]string, 0, len(Layers))
	for _, l := range Layers {
		keys = append(keys, layerCacheKey(l.Key))
	}
	if err := c.redisClient.Del(ctx, keys...).Err(); err != nil {
		return err
	}
	if err := c.redisClient.Incr(ctx, datasetVersionKey).Err(); err != nil {
		return fmt.Errorf("bump dataset version: %w", err)
	}
	return nil
}

// DatasetVersion is 0 until the first invalidation
func (c *LayerCache) DatasetVersion(ctx context.Context) (int64, error) {
	version, err := c.redisClient.Get(ctx, datasetVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return version, err
}

type datasetVersioner interface {
	DatasetVersion(ctx context.Context) (int64, error)
}

// StatsCache keeps computed stats per visible-layer set in process memory.
// Entries are keyed by the dataset version when a versioner is given.
type StatsCache struct {
	cache          *freecache.Cache
	ttlSeconds     int
	versions       datasetVersioner
	metricsManager *metrics.Manager
}

func NewStatsCache(ttl time.Duration, versions datasetVersioner, metricsManager *metrics.Manager) *StatsCache {
	return &StatsCache{
		cache:          freecache.NewCache(statsCacheSize),
		ttlSeconds:     int(ttl.Seconds()),
		versions:       versions,
		metricsManager: metricsManager,
	}
}

// statsCacheKey is independent of the order of the layers
func statsCacheKey(version int64, layers []Layer) []byte {
	keys := make([]string, 0, len(layers))
	for _, l := range layers {
		keys = append(keys, l.Key)
	}
	sort.Strings(keys)
	return []byte(fmt.Sprintf("stats::v%d::%s", version, strings.Join(keys, ",")))
}

func (c *StatsCache) key(ctx context.Context, layers []Layer) ([]byte, error) {
	var version int64
	if c.versions != nil {
		v, err := c.versions.DatasetVersion(ctx)
		if err != nil {
			return nil, err
		}
		version = v
	}
	return statsCacheKey(version, layers), nil
}

func (c *StatsCache) Get(ctx context.Context, layers []Layer) (Stats, bool) {
	key, err := c.key(ctx, layers)
	if err != nil {
		log.Errorf("stats cache: get dataset version: %s", err)
		c.metricsManager.CounterCacheMisses.WithLabelValues(cacheNameStats).Inc()
		return Stats{}, false
	}

	data, err := c.cache.Get(key)
	if err != nil {
		c.metricsManager.CounterCacheMisses.WithLabelValues(cacheNameStats).Inc()
		return Stats{}, false
	}

	var stats Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		log.Errorf("stats cache: unmarshal cached stats: %s", err)
		return Stats{}, false
	}

	c.metricsManager.CounterCacheHits.WithLabelValues(cacheNameStats).Inc()
	return stats, true
}

func (c *StatsCache) Set(ctx context.Context, layers []Layer, stats Stats) {
	key, err := c.key(ctx, layers)
	if err != nil {
		log.Errorf("stats cache: get dataset version: %s", err)
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		log.Errorf("stats cache: marshal stats: %s", err)
		return
	}
	if err := c.cache.Set(key, data, c.ttlSeconds); err != nil {
		log.Errorf("stats cache: set: %s", err)
	}
}

func (c *StatsCache) Invalidate(_ context.Context) error {
	c.cache.Clear()
	return nil
}

// DatasetCaches invalidates every cache derived from the stored records
type DatasetCaches struct {
	Layers *LayerCache
	Stats  *StatsCache
}

func (d *DatasetCaches) Invalidate(ctx context.Context) error {
	if d.Stats != nil {
		_ = d.Stats.Invalidate(ctx)
	}
	if d.Layers != nil {
		return d.Layers.Invalidate(ctx)
	}
	return nil
}
