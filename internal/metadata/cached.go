package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// CachedProvider wraps a Provider with the sqlite-backed response cache.
// Search results and detail records are cached under deterministic keys so
// repeated scans of the same library don't hammer the upstream service.
type CachedProvider struct {
	inner Provider
	cache *Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewCachedProvider wraps a provider. TTL <= 0 defaults to 24 hours.
func NewCachedProvider(inner Provider, cache *Cache, ttl time.Duration, log *slog.Logger) *CachedProvider {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if log == nil {
		log = slog.Default()
	}
	return &CachedProvider{inner: inner, cache: cache, ttl: ttl, log: log}
}

// SearchByTitle returns cached candidates when available.
func (p *CachedProvider) SearchByTitle(ctx context.Context, title string, year int) ([]Candidate, error) {
	key := fmt.Sprintf("search:%s:%d", title, year)

	if raw, ok := p.cache.Get(ctx, key); ok {
		var cands []Candidate
		if err := json.Unmarshal(raw, &cands); err == nil {
			return cands, nil
		}
		// Corrupt entry: drop it and fall through to the provider.
		_ = p.cache.Delete(ctx, key)
	}

	cands, err := p.inner.SearchByTitle(ctx, title, year)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(cands); err == nil {
		if err := p.cache.Set(ctx, key, raw, p.ttl); err != nil {
			p.log.Warn("metadata cache write failed", "key", key, "error", err)
		}
	}
	return cands, nil
}

// GetDetailsByID returns the cached record when available.
func (p *CachedProvider) GetDetailsByID(ctx context.Context, id string) (*Record, error) {
	key := "details:" + id

	if raw, ok := p.cache.Get(ctx, key); ok {
		var rec Record
		if err := json.Unmarshal(raw, &rec); err == nil {
			return &rec, nil
		}
		_ = p.cache.Delete(ctx, key)
	}

	rec, err := p.inner.GetDetailsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}

	if raw, err := json.Marshal(rec); err == nil {
		if err := p.cache.Set(ctx, key, raw, p.ttl); err != nil {
			p.log.Warn("metadata cache write failed", "key", key, "error", err)
		}
	}
	return rec, nil
}
