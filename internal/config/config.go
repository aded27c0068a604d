// Package config loads companion configuration from YAML, with all
// defaults held in one named place.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full companion configuration.
type Config struct {
	HeartPath  string           `yaml:"heart_path"`
	Cache      CacheConfig      `yaml:"cache"`
	Compaction CompactionConfig `yaml:"compaction"`
	Seed       SeedConfig       `yaml:"seed"`
}

// CacheConfig bounds the working cache.
type CacheConfig struct {
	InteractionCapacity int `yaml:"interaction_capacity"`
	MaxEntries          int `yaml:"max_entries"`
	RetentionSeconds    int `yaml:"retention_seconds"`
}

// CompactionConfig tunes memory compaction.
type CompactionConfig struct {
	AgeDays        int  `yaml:"age_days"`
	MinEntries     int  `yaml:"min_entries"`
	PruneOriginals bool `yaml:"prune_originals"`
}

// SeedConfig is the initial state for a freshly created heart.
type SeedConfig struct {
	Traits  map[string]float64 `yaml:"traits"`
	Emotion EmotionSeed        `yaml:"emotion"`
}

// EmotionSeed is the initial emotional profile.
type EmotionSeed struct {
	Trust           float64 `yaml:"trust"`
	Affinity        float64 `yaml:"affinity"`
	BondStrength    float64 `yaml:"bond_strength"`
	DominantEmotion string  `yaml:"dominant_emotion"`
}

// Default returns the built-in configuration: the base personality
// weights and the neutral-curious emotional profile.
func Default() Config {
	return Config{
		Cache: CacheConfig{
			InteractionCapacity: 100,
			MaxEntries:          1000,
			RetentionSeconds:    3600,
		},
		Compaction: CompactionConfig{
			AgeDays:    7,
			MinEntries: 10,
		},
		Seed: SeedConfig{
			Traits: map[string]float64{
				"helpfulness":  0.9,
				"curiosity":    0.8,
				"empathy":      0.7,
				"playfulness":  0.6,
				"caution":      0.5,
				"adaptability": 0.8,
			},
			Emotion: EmotionSeed{
				Trust:           0.5,
				Affinity:        0.5,
				BondStrength:    0.0,
				DominantEmotion: "curious",
			},
		},
	}
}

// Load reads a YAML config file over the defaults. A missing file is
// not an error and yields the defaults; a malformed file is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Cache.InteractionCapacity < 0 {
		return fmt.Errorf("cache.interaction_capacity must not be negative")
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must not be negative")
	}
	if c.Cache.RetentionSeconds < 0 {
		return fmt.Errorf("cache.retention_seconds must not be negative")
	}
	if c.Compaction.AgeDays < 0 {
		return fmt.Errorf("compaction.age_days must not be negative")
	}
	for name, value := range c.Seed.Traits {
		if value < 0 || value > 1 {
			return fmt.Errorf("seed trait %q must be in [0,1]", name)
		}
	}
	return nil
}
