package registrystore

import (
	"context"
	"encoding/json"

	"github.com/nat20/combatcore/backend/internal/cache"
)

// CachedStore wraps a backing Store with a redis/go-redis read-through
// cache, grounded on backend/internal/cache.CacheService's
// GetDefinition/SetDefinition/InvalidateDefinition — the concrete
// consumer that cache.DefinitionCacheStrategy was shaped for.
type CachedStore struct {
	backing Store
	cache   *cache.CacheService
}

// NewCachedStore wraps backing with a read-through cache.
func NewCachedStore(backing Store, cacheService *cache.CacheService) *CachedStore {
	return &CachedStore{backing: backing, cache: cacheService}
}

func (c *CachedStore) Get(ctx context.Context, kind, id string) (json.RawMessage, bool, error) {
	var cached json.RawMessage
	if hit, err := c.cache.GetDefinition(ctx, kind, id, &cached); err == nil && hit {
		return cached, true, nil
	}

	data, found, err := c.backing.Get(ctx, kind, id)
	if err != nil || !found {
		return data, found, err
	}

	_ = c.cache.SetDefinition(ctx, kind, id, data)
	return data, true, nil
}

func (c *CachedStore) Put(ctx context.Context, kind, id string, data json.RawMessage) error {
	if err := c.backing.Put(ctx, kind, id, data); err != nil {
		return err
	}
	return c.cache.SetDefinition(ctx, kind, id, data)
}

func (c *CachedStore) Delete(ctx context.Context, kind, id string) error {
	if err := c.backing.Delete(ctx, kind, id); err != nil {
		return err
	}
	return c.cache.InvalidateDefinition(ctx, kind, id)
}

// List always defers to the backing store — listing by kind has no
// single-key cache entry to read through.
func (c *CachedStore) List(ctx context.Context, kind string) ([]json.RawMessage, error) {
	return c.backing.List(ctx, kind)
}
