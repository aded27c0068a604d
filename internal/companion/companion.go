// Package companion wires the heart, working cache, and lifecycle
// controller into one event surface. Every user event flows through
// here: a durable write to the heart, a fast write to the cache, and a
// lifecycle tick.
package companion

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/soulkit/companion/internal/config"
	"github.com/soulkit/companion/internal/heart"
	"github.com/soulkit/companion/internal/lifecycle"
	"github.com/soulkit/companion/internal/model"
	"github.com/soulkit/companion/internal/workingmem"
)

// Companion bundles the three core components.
type Companion struct {
	Heart *heart.Heart
	Cache *workingmem.Cache
	Life  *lifecycle.Controller

	log *slog.Logger
}

// New builds a companion from configuration. The heart is loaded (or
// seeded) immediately; cache and lifecycle start empty.
func New(cfg config.Config, logger *slog.Logger) (*Companion, error) {
	if logger == nil {
		logger = slog.Default()
	}

	h, err := heart.New(cfg.HeartPath, HeartOptions(cfg))
	if err != nil {
		return nil, err
	}

	c := &Companion{
		Heart: h,
		Cache: workingmem.New(CacheOptions(cfg)),
		Life:  lifecycle.New(),
		log:   logger,
	}
	c.Life.OnBirth()
	return c, nil
}

// HeartOptions maps configuration onto heart construction options.
func HeartOptions(cfg config.Config) heart.Options {
	return heart.Options{
		SeedTraits: cfg.Seed.Traits,
		SeedEmotion: model.EmotionalProfile{
			Trust:           cfg.Seed.Emotion.Trust,
			Affinity:        cfg.Seed.Emotion.Affinity,
			BondStrength:    cfg.Seed.Emotion.BondStrength,
			DominantEmotion: model.EmotionalState(cfg.Seed.Emotion.DominantEmotion),
		},
		CompactAge:     time.Duration(cfg.Compaction.AgeDays) * 24 * time.Hour,
		CompactMin:     cfg.Compaction.MinEntries,
		PruneOriginals: cfg.Compaction.PruneOriginals,
	}
}

// CacheOptions maps configuration onto working cache options.
func CacheOptions(cfg config.Config) workingmem.Options {
	return workingmem.Options{
		InteractionCapacity: cfg.Cache.InteractionCapacity,
		MaxEntries:          cfg.Cache.MaxEntries,
		Retention:           time.Duration(cfg.Cache.RetentionSeconds) * time.Second,
	}
}

// HandleInteraction processes one user interaction: cache it, persist a
// conversation memory (importance scaled by bond strength), bump the
// shared-experience counter, and advance the lifecycle.
func (c *Companion) HandleInteraction(kind, content, response string) (model.InteractionLog, error) {
	entry := c.Cache.StoreInteraction(model.InteractionLog{
		Kind:     kind,
		Content:  content,
		Response: response,
	})

	profile := c.Heart.EmotionalProfile()
	importance := 0.4 + 0.4*profile.BondStrength

	memContent := fmt.Sprintf("user: %s | companion: %s", content, response)
	if _, err := c.Heart.StoreMemory("conversation", memContent, importance, []string{kind}); err != nil {
		return entry, err
	}

	shared := profile.SharedExperiences + 1
	if err := c.Heart.UpdateEmotions(heart.EmotionUpdate{SharedExperiences: &shared}); err != nil {
		return entry, err
	}

	before := c.Life.Stage()
	c.Life.OnInteraction()
	if after := c.Life.Stage(); after != before {
		c.log.Debug("lifecycle stage advanced", "from", string(before), "to", string(after))
	}
	return entry, nil
}

// ObserveSensor records a sensor reading in the working cache.
func (c *Companion) ObserveSensor(name string, r model.SensorReading) {
	c.Cache.StoreSensorReading(name, r)
}

// Status merges the three collaborator-facing status reads.
type Status struct {
	Lifecycle lifecycle.Status `json:"lifecycle"`
	Memory    heart.Stats      `json:"memory"`
	Cache     workingmem.Stats `json:"cache"`
}

// Status returns the combined snapshot.
func (c *Companion) Status() Status {
	return Status{
		Lifecycle: c.Life.Status(),
		Memory:    c.Heart.Stats(),
		Cache:     c.Cache.PerformanceStats(),
	}
}
