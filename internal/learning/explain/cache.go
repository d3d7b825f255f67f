package explain

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yungbote/tutorbridge-backend/internal/platform/logger"
)

const DefaultLoadTimeout = 90 * time.Second

type Lookup string

const (
	LookupHit    Lookup = "hit"
	LookupMiss   Lookup = "miss"
	LookupShared Lookup = "shared"
)

// LoadFunc produces the payload for a missing key. Returned bytes are stored as-is.
type LoadFunc func(ctx context.Context) ([]byte, error)

type LookupRecorder interface {
	ObserveCacheLookup(result string)
}

// Cache fronts a Store and collapses concurrent misses on one key into a single load.
type Cache struct {
	log         *logger.Logger
	store       Store
	group       singleflight.Group
	loadTimeout time.Duration
	recorder    LookupRecorder
}

type CacheOption func(*Cache)

func WithLoadTimeout(d time.Duration) CacheOption {
	return func(c *Cache) {
		if d > 0 {
			c.loadTimeout = d
		}
	}
}

func WithLookupRecorder(r LookupRecorder) CacheOption {
	return func(c *Cache) { c.recorder = r }
}

func NewCache(log *logger.Logger, store Store, opts ...CacheOption) (*Cache, error) {
	if log == nil {
		return nil, errors.New("explain: logger required")
	}
	if store == nil {
		return nil, errors.New("explain: store required")
	}
	c := &Cache{
		log:         log.With("service", "ExplanationCache"),
		store:       store,
		loadTimeout: DefaultLoadTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetOrLoad returns the stored payload for key, calling load on a miss. Only a
// successful load is stored. The load runs detached from ctx so one caller
// going away does not fail the others waiting on it; ctx still bounds this caller's wait.
func (c *Cache) GetOrLoad(ctx context.Context, key string, load LoadFunc) ([]byte, Lookup, error) {
	if payload, ok := c.lookup(ctx, key); ok {
		c.observe(LookupHit)
		return payload, LookupHit, nil
	}

	leader := false
	ch := c.group.DoChan(key, func() (any, error) {
		leader = true
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()

		// A flight that finished between our lookup and DoChan already stored the key.
		if payload, ok := c.lookup(loadCtx, key); ok {
			return payload, nil
		}
		payload, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		if err := c.store.Set(loadCtx, key, payload); err != nil {
			c.log.Warn("explanation cache store failed", "key", key, "error", err)
		}
		return payload, nil
	})

	select {
	case <-ctx.Done():
		return nil, LookupMiss, ctx.Err()
	case res := <-ch:
		result := LookupMiss
		if !leader {
			result = LookupShared
		}
		c.observe(result)
		if res.Err != nil {
			return nil, result, res.Err
		}
		payload := res.Val.([]byte)
		if res.Shared {
			payload = append([]byte(nil), payload...)
		}
		return payload, result, nil
	}
}

func (c *Cache) lookup(ctx context.Context, key string) ([]byte, bool) {
	payload, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn("explanation cache lookup failed", "key", key, "error", err)
		return nil, false
	}
	return payload, ok
}

func (c *Cache) observe(l Lookup) {
	if c.recorder != nil {
		c.recorder.ObserveCacheLookup(string(l))
	}
}
