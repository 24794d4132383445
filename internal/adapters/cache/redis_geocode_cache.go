package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/platform/obs"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisGeocodePrefix = "geocode:"
	DefaultGeocodeTTL  = 30 * 24 * time.Hour
)

// RedisGeocodeCache stores coordinates as "[lon,lat]" strings under
// geocode:<address>. Entries expire after TTL; zero means never.
type RedisGeocodeCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{Client: client, TTL: ttl}
}

// Fetch cached coordinates for the given addresses in one MGET.
func (r *RedisGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.redis.GetMany")(&err)

	if r.Client == nil {
		return nil, errors.New("geocode cache: redis client is nil")
	}

	uniq := uniqueAddresses(addresses)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	keys := make([]string, 0, len(uniq))
	for _, a := range uniq {
		keys = append(keys, redisGeocodePrefix+a)
	}

	vals, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: mget: %w", err)
	}

	out := make(map[string]domain.Coordinates, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}

		var pair []float64
		if err := json.Unmarshal([]byte(s), &pair); err != nil || len(pair) != 2 {
			// A corrupt entry is treated as a miss and overwritten on the next put.
			log.Printf("geocode cache: bad redis entry key=%q", keys[i])
			continue
		}
		out[uniq[i]] = domain.Coordinates{Lon: pair[0], Lat: pair[1]}
	}

	return out, nil
}

// Store address -> coordinate mappings using a single pipeline.
func (r *RedisGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
	if r.Client == nil {
		return errors.New("geocode cache: redis client is nil")
	}

	if len(results) == 0 {
		return nil
	}

	for addr := range results {
		if strings.TrimSpace(addr) == "" {
			return errors.New("insert geocode cache: empty address key")
		}
	}

	_, err := r.Client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for addr, c := range results {
			b, err := json.Marshal(c.CoordsToList())
			if err != nil {
				return fmt.Errorf("marshal coord=%q: %w", addr, err)
			}
			pipe.Set(ctx, redisGeocodePrefix+addr, string(b), r.TTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert geocode cache: pipeline: %w", err)
	}

	return nil
}
