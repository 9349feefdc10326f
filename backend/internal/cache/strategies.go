package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/nat20/combatcore/backend/pkg/logger"
)

// CacheStrategy defines cache behavior for a kind of cached value: its
// key shape, how long it lives, and which patterns to sweep on
// invalidation.
type CacheStrategy interface {
	GetKey(id string, params ...string) string
	GetTTL() time.Duration
	GetInvalidationPatterns(id string) []string
}

// DefinitionCacheStrategy caches marshaled registry content definitions
// (actions, effects, spells, items, ...) keyed by their namespaced id
// string, in front of a DB-backed registrystore.
type DefinitionCacheStrategy struct {
	// Kind names the content kind this strategy caches ("action",
	// "effect", "spell", "item", ...), used to namespace keys so two
	// kinds never collide even if a namespace:path id string does.
	Kind string
}

func (s *DefinitionCacheStrategy) GetKey(id string, params ...string) string {
	return fmt.Sprintf("definition:%s:%s", s.Kind, id)
}

func (s *DefinitionCacheStrategy) GetTTL() time.Duration {
	// Content definitions are immutable once loaded (spec.md §4.12), so a
	// long TTL only guards against a definition outliving a registry
	// reload that dropped it.
	return 24 * time.Hour
}

func (s *DefinitionCacheStrategy) GetInvalidationPatterns(id string) []string {
	return []string{fmt.Sprintf("definition:%s:%s", s.Kind, id)}
}

// EncounterLogCacheStrategy caches a marshaled snapshot of an
// encounter's event log, read-through for the websocket observer feed's
// reconnect-and-replay path.
type EncounterLogCacheStrategy struct{}

func (s *EncounterLogCacheStrategy) GetKey(id string, params ...string) string {
	return fmt.Sprintf("encounter_log:%s", id)
}

func (s *EncounterLogCacheStrategy) GetTTL() time.Duration {
	return 5 * time.Minute
}

func (s *EncounterLogCacheStrategy) GetInvalidationPatterns(id string) []string {
	return []string{fmt.Sprintf("encounter_log:%s", id)}
}

// CacheService provides high-level, strategy-driven caching operations
// over a RedisClient.
type CacheService struct {
	client     *RedisClient
	logger     *logger.Logger
	strategies map[string]CacheStrategy
}

// NewCacheService creates a cache service with one strategy per known
// content kind plus the encounter log strategy.
func NewCacheService(client *RedisClient, log *logger.Logger, definitionKinds ...string) *CacheService {
	strategies := make(map[string]CacheStrategy, len(definitionKinds)+1)
	for _, kind := range definitionKinds {
		strategies[kind] = &DefinitionCacheStrategy{Kind: kind}
	}
	strategies["encounter_log"] = &EncounterLogCacheStrategy{}

	return &CacheService{
		client:     client,
		logger:     log,
		strategies: strategies,
	}
}

// GetDefinition retrieves a cached, marshaled definition of kind by id
// into dest, reporting whether it was found.
func (cs *CacheService) GetDefinition(ctx context.Context, kind, id string, dest interface{}) (bool, error) {
	strategy, ok := cs.strategies[kind]
	if !ok {
		return false, fmt.Errorf("cache: unknown definition kind %q", kind)
	}
	key := strategy.GetKey(id)

	if err := cs.client.GetJSON(ctx, key, dest); err != nil {
		return false, err
	}
	cs.logCacheHit(kind, id)
	return true, nil
}

func (cs *CacheService) logCacheHit(kind, id string) {
	if cs.logger != nil {
		cs.logger.Debug().Str("kind", kind).Str("id", id).Msg("cache hit")
	}
}

// SetDefinition caches a marshaled definition of kind by id.
func (cs *CacheService) SetDefinition(ctx context.Context, kind, id string, definition interface{}) error {
	strategy, ok := cs.strategies[kind]
	if !ok {
		return fmt.Errorf("cache: unknown definition kind %q", kind)
	}
	return cs.client.SetJSON(ctx, strategy.GetKey(id), definition, strategy.GetTTL())
}

// InvalidateDefinition evicts a cached definition of kind by id.
func (cs *CacheService) InvalidateDefinition(ctx context.Context, kind, id string) error {
	strategy, ok := cs.strategies[kind]
	if !ok {
		return fmt.Errorf("cache: unknown definition kind %q", kind)
	}
	for _, pattern := range strategy.GetInvalidationPatterns(id) {
		if err := cs.invalidatePattern(ctx, pattern); err != nil {
			return err
		}
	}
	return nil
}

// GetEncounterLog retrieves a cached encounter event log snapshot.
func (cs *CacheService) GetEncounterLog(ctx context.Context, encounterID string, dest interface{}) (bool, error) {
	return cs.GetDefinition(ctx, "encounter_log", encounterID, dest)
}

// SetEncounterLog caches an encounter event log snapshot.
func (cs *CacheService) SetEncounterLog(ctx context.Context, encounterID string, log interface{}) error {
	return cs.SetDefinition(ctx, "encounter_log", encounterID, log)
}

// invalidatePattern deletes a single known key. Unlike a teacher-style
// pattern scan, registry cache keys are always addressed by exact id, so
// there is never a glob to sweep here.
func (cs *CacheService) invalidatePattern(ctx context.Context, key string) error {
	if err := cs.client.Delete(ctx, key); err != nil {
		if cs.logger != nil {
			cs.logger.Error().Err(err).Str("key", key).Msg("failed to invalidate cache key")
		}
		return err
	}
	if cs.logger != nil {
		cs.logger.Debug().Str("key", key).Msg("cache invalidated")
	}
	return nil
}

// CacheWarmer runs periodic cache warming for registry content so the
// read-through cache starts warm after a deploy instead of forcing the
// first request for every definition to miss.
type CacheWarmer struct {
	service  *CacheService
	logger   *logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewCacheWarmer creates a new cache warmer.
func NewCacheWarmer(service *CacheService, log *logger.Logger, interval time.Duration) *CacheWarmer {
	return &CacheWarmer{
		service:  service,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the cache warming process, calling warmupFunc to load
// (kind -> id -> marshaled definition) at each tick until Stop is called
// or ctx is cancelled.
func (cw *CacheWarmer) Start(ctx context.Context, warmupFunc func(context.Context) (map[string]map[string]interface{}, error)) {
	ticker := time.NewTicker(cw.interval)
	defer ticker.Stop()

	cw.performWarmup(ctx, warmupFunc)

	for {
		select {
		case <-ticker.C:
			cw.performWarmup(ctx, warmupFunc)
		case <-cw.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop stops the cache warmer.
func (cw *CacheWarmer) Stop() {
	close(cw.stopCh)
}

func (cw *CacheWarmer) performWarmup(ctx context.Context, warmupFunc func(context.Context) (map[string]map[string]interface{}, error)) {
	start := time.Now()

	data, err := warmupFunc(ctx)
	if err != nil {
		cw.logger.Error().Err(err).Msg("failed to load data for cache warming")
		return
	}

	for kind, byID := range data {
		for id, def := range byID {
			if err := cw.service.SetDefinition(ctx, kind, id, def); err != nil {
				cw.logger.Error().Err(err).Str("kind", kind).Str("id", id).Msg("failed to warm cache entry")
			}
		}
	}

	cw.logger.Info().Dur("duration", time.Since(start)).Msg("cache warming completed")
}
