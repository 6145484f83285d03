package geo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"kartvizit.link/configs/configslog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "geo:"

// CachedResolver başka bir Resolver'ın sonuçlarını Redis'te saklar. İstemci nil ise
// doğrudan alttaki çözümleyiciye gider. Önbellek hataları sorguyu asla başarısız kılmaz.
type CachedResolver struct {
	next   Resolver
	client *redis.Client
	ttl    time.Duration
}

func NewCachedResolver(next Resolver, client *redis.Client, ttl time.Duration) *CachedResolver {
	return &CachedResolver{next: next, client: client, ttl: ttl}
}

func (c *CachedResolver) Lookup(ctx context.Context, addr string) (Location, error) {
	if c.client == nil {
		return c.next.Lookup(ctx, addr)
	}

	key := cacheKeyPrefix + addr
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var loc Location
		if jsonErr := json.Unmarshal(raw, &loc); jsonErr == nil {
			return loc, nil
		}
		configslog.Log.Warn("Geo önbellek kaydı çözülemedi", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		configslog.Log.Warn("Geo önbellek okunamadı", zap.String("key", key), zap.Error(err))
	}

	loc, err := c.next.Lookup(ctx, addr)
	if err != nil {
		// Bulunamayan adresler de önbelleğe alınır ki aynı adres her scan'de tekrar sorgulanmasın.
		if !errors.Is(err, ErrNotFound) {
			return loc, err
		}
		loc = Unknown()
	}

	if payload, jsonErr := json.Marshal(loc); jsonErr == nil {
		if setErr := c.client.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			configslog.Log.Warn("Geo önbelleğe yazılamadı", zap.String("key", key), zap.Error(setErr))
		}
	}
	return loc, err
}
