package app

import (
	"time"

	"github.com/louisbranch/missionkit/internal/platform/config"
	"github.com/louisbranch/missionkit/internal/services/missions/activity"
)

// Config holds env-parsed configuration for the mission service.
type Config struct {
	DefinitionsDir string `env:"MISSIONKIT_DEFINITIONS_DIR" envDefault:"missions"`
	WalkBatch      int    `env:"MISSIONKIT_WALK_BATCH" envDefault:"5"`
	TargetSplitter string `env:"MISSIONKIT_TARGET_SPLITTER" envDefault:", "`

	BrewCacheTimeout time.Duration `env:"MISSIONKIT_BREW_CACHE_TIMEOUT" envDefault:"5m"`

	RecentPlacementEnabled bool          `env:"MISSIONKIT_RECENT_PLACEMENT_ENABLED" envDefault:"true"`
	RecentPlacementSize    int           `env:"MISSIONKIT_RECENT_PLACEMENT_SIZE" envDefault:"120"`
	RecentPlacementTimeout time.Duration `env:"MISSIONKIT_RECENT_PLACEMENT_TIMEOUT" envDefault:"60s"`

	RecentStepEnabled bool          `env:"MISSIONKIT_RECENT_STEP_ENABLED" envDefault:"true"`
	RecentStepSize    int           `env:"MISSIONKIT_RECENT_STEP_SIZE" envDefault:"5"`
	RecentStepTimeout time.Duration `env:"MISSIONKIT_RECENT_STEP_TIMEOUT" envDefault:"10m"`
}

// LoadConfig reads the service configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Settings converts the cache and batching fields to activity settings.
func (c Config) Settings() activity.Settings {
	return activity.Settings{
		WalkBatch:              c.WalkBatch,
		RecentPlacementEnabled: c.RecentPlacementEnabled,
		RecentPlacementSize:    c.RecentPlacementSize,
		RecentPlacementTimeout: c.RecentPlacementTimeout,
		RecentStepEnabled:      c.RecentStepEnabled,
		RecentStepSize:         c.RecentStepSize,
		RecentStepTimeout:      c.RecentStepTimeout,
		BrewTimeout:            c.BrewCacheTimeout,
	}
}
