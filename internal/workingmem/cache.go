// Package workingmem implements the companion's bounded in-process
// cache: recent interactions, latest sensor readings, TTL-cached
// reasoning results, and the current context state. Nothing in this
// package touches disk; everything is lost on process exit.
package workingmem

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/soulkit/companion/internal/model"
)

// Options configures a Cache. Zero fields use the defaults.
type Options struct {
	// InteractionCapacity bounds the interaction ring buffer (default 100).
	InteractionCapacity int
	// MaxEntries bounds the reasoning cache for OptimizeMemory (default 1000).
	MaxEntries int
	// Retention is how long sensor readings are kept (default 1h).
	Retention time.Duration
}

type reasoningEntry struct {
	value    any
	captured time.Time
	ttl      time.Duration
}

type contextEntry struct {
	value     any
	updatedAt time.Time
}

// Cache is the working memory. Safe for use from multiple goroutines;
// all collections are bounded.
type Cache struct {
	mu      sync.Mutex
	opts    Options
	now     func() time.Time
	entropy *rand.Rand

	interactions []model.InteractionLog
	sensors      map[string]model.SensorReading
	reasoning    map[string]reasoningEntry
	context      map[string]contextEntry

	hits   int
	misses int
}

// New creates an empty cache.
func New(opts Options) *Cache {
	if opts.InteractionCapacity <= 0 {
		opts.InteractionCapacity = 100
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = 1000
	}
	if opts.Retention <= 0 {
		opts.Retention = time.Hour
	}
	return &Cache{
		opts:      opts,
		now:       time.Now,
		entropy:   rand.New(rand.NewSource(time.Now().UnixNano())),
		sensors:   map[string]model.SensorReading{},
		reasoning: map[string]reasoningEntry{},
		context:   map[string]contextEntry{},
	}
}

// StoreInteraction appends an interaction to the ring buffer, evicting
// the oldest entry when full (FIFO on insertion order, not access).
// A missing id or timestamp is filled in; the stored entry is returned.
// Expired sensor and reasoning entries are purged opportunistically.
func (c *Cache) StoreInteraction(entry model.InteractionLog) model.InteractionLog {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = c.now()
	}
	if entry.ID == "" {
		entry.ID = ulid.MustNew(ulid.Timestamp(entry.Timestamp), c.entropy).String()
	}

	c.interactions = append(c.interactions, entry)
	if len(c.interactions) > c.opts.InteractionCapacity {
		// Reallocate rather than reslice so evicted entries are freed.
		trimmed := make([]model.InteractionLog, c.opts.InteractionCapacity)
		copy(trimmed, c.interactions[len(c.interactions)-c.opts.InteractionCapacity:])
		c.interactions = trimmed
	}

	c.purgeExpiredLocked()
	return entry
}

// RecentInteractions returns up to limit of the most recent
// interactions, oldest first. limit <= 0 means 10.
func (c *Cache) RecentInteractions(limit int) []model.InteractionLog {
	if limit <= 0 {
		limit = 10
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	start := len(c.interactions) - limit
	if start < 0 {
		start = 0
	}
	out := make([]model.InteractionLog, len(c.interactions)-start)
	copy(out, c.interactions[start:])
	return out
}

// StoreSensorReading records the latest reading for a sensor,
// last write wins.
func (c *Cache) StoreSensorReading(name string, r model.SensorReading) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r.Timestamp.IsZero() {
		r.Timestamp = c.now()
	}
	c.sensors[name] = r
}

// LastSensorReading returns the most recent reading for a sensor.
func (c *Cache) LastSensorReading(name string) (model.SensorReading, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.sensors[name]
	return r, ok
}

// CacheReasoningResult stores a reasoning result with a TTL.
func (c *Cache) CacheReasoningResult(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reasoning[key] = reasoningEntry{value: value, captured: c.now(), ttl: ttl}
}

// CachedReasoning returns a cached reasoning result if still within its
// TTL. An expired entry is evicted and reported as a miss; misses are a
// normal outcome, never an error.
func (c *Cache) CachedReasoning(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.reasoning[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if c.now().Sub(entry.captured) > entry.ttl {
		delete(c.reasoning, key)
		c.misses++
		return nil, false
	}
	c.hits++
	return entry.value, true
}

// SetContext stores a context value with its update time.
func (c *Cache) SetContext(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.context[key] = contextEntry{value: value, updatedAt: c.now()}
}

// UpdateContext applies several context values at once.
func (c *Cache) UpdateContext(updates map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, value := range updates {
		c.context[key] = contextEntry{value: value, updatedAt: now}
	}
}

// Context returns the current value for a context key.
func (c *Cache) Context(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.context[key]
	if !ok {
		return nil, false
	}
	return entry.value, true
}

// FullContext returns a copy of the whole context state.
func (c *Cache) FullContext() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]any, len(c.context))
	for key, entry := range c.context {
		out[key] = entry.value
	}
	return out
}

// PurgeExpired removes sensor readings older than the retention window
// and reasoning entries past their TTL. Called inline after each
// interaction store; there is no background timer.
func (c *Cache) PurgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.purgeExpiredLocked()
}

func (c *Cache) purgeExpiredLocked() {
	now := c.now()
	cutoff := now.Add(-c.opts.Retention)

	for name, r := range c.sensors {
		if r.Timestamp.Before(cutoff) {
			delete(c.sensors, name)
		}
	}
	for key, entry := range c.reasoning {
		if now.Sub(entry.captured) > entry.ttl {
			delete(c.reasoning, key)
		}
	}
}

// OptimizeMemory shrinks the reasoning cache when it grows past half of
// MaxEntries, evicting oldest-captured entries down to a quarter. The
// two-stage bounds avoid thrashing at a single threshold.
func (c *Cache) OptimizeMemory() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.reasoning) <= c.opts.MaxEntries/2 {
		return
	}

	type keyed struct {
		key      string
		captured time.Time
	}
	entries := make([]keyed, 0, len(c.reasoning))
	for key, entry := range c.reasoning {
		entries = append(entries, keyed{key: key, captured: entry.captured})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].captured.Before(entries[j].captured)
	})

	evict := len(entries) - c.opts.MaxEntries/4
	for _, e := range entries[:evict] {
		delete(c.reasoning, e.key)
	}
}

// Clear discards all working memory.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interactions = nil
	c.sensors = map[string]model.SensorReading{}
	c.reasoning = map[string]reasoningEntry{}
	c.context = map[string]contextEntry{}
}

// Stats reports cache occupancy and hit/miss counters.
type Stats struct {
	CacheHits        int     `json:"cache_hits"`
	CacheMisses      int     `json:"cache_misses"`
	HitRatePercent   float64 `json:"hit_rate_percent"`
	Interactions     int     `json:"interactions_stored"`
	SensorEntries    int     `json:"sensor_entries"`
	ReasoningEntries int     `json:"reasoning_cache_size"`
	ContextEntries   int     `json:"context_entries"`
}

// PerformanceStats returns current cache statistics.
func (c *Cache) PerformanceStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := Stats{
		CacheHits:        c.hits,
		CacheMisses:      c.misses,
		Interactions:     len(c.interactions),
		SensorEntries:    len(c.sensors),
		ReasoningEntries: len(c.reasoning),
		ContextEntries:   len(c.context),
	}
	if total := c.hits + c.misses; total > 0 {
		st.HitRatePercent = float64(c.hits) / float64(total) * 100
	}
	return st
}
