// Package activity translates gameplay actions reported by a host into
// mission engine calls, applying the anti-abuse caches on the way.
package activity

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/louisbranch/missionkit/internal/services/missions/domain/cache"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/engine"
)

// Settings tunes the adapter and its caches.
type Settings struct {
	// WalkBatch is the number of steps credited at once.
	WalkBatch int

	RecentPlacementEnabled bool
	RecentPlacementSize    int
	RecentPlacementTimeout time.Duration

	RecentStepEnabled bool
	RecentStepSize    int
	// RecentStepTimeout forgets idle holders.
	RecentStepTimeout time.Duration

	BrewTimeout time.Duration
}

// DefaultSettings returns the stock tuning.
func DefaultSettings() Settings {
	return Settings{
		WalkBatch:              5,
		RecentPlacementEnabled: true,
		RecentPlacementSize:    120,
		RecentPlacementTimeout: 60 * time.Second,
		RecentStepEnabled:      true,
		RecentStepSize:         5,
		RecentStepTimeout:      10 * time.Minute,
		BrewTimeout:            300 * time.Second,
	}
}

// HolderLookup resolves a holder by id, for actions such as brewing that
// complete after the holder walked away.
type HolderLookup interface {
	Holder(id uuid.UUID) (engine.Holder, bool)
}

// Observer is told about every action that reached a mission.
type Observer interface {
	Progressed(holder engine.Holder, outcome engine.Outcome)
}

// ObserverFunc adapts a function into an Observer.
type ObserverFunc func(holder engine.Holder, outcome engine.Outcome)

// Progressed calls f.
func (f ObserverFunc) Progressed(holder engine.Holder, outcome engine.Outcome) { f(holder, outcome) }

// Option configures an Adapter.
type Option func(*Adapter)

// WithObserver sets the progress observer.
func WithObserver(o Observer) Option {
	return func(a *Adapter) { a.observer = o }
}

// WithHolders sets the holder lookup used for brewing.
func WithHolders(h HolderLookup) Option {
	return func(a *Adapter) { a.holders = h }
}

// WithCacheClock overrides the clock of the anti-abuse caches.
func WithCacheClock(now func() time.Time) Option {
	return func(a *Adapter) {
		if now != nil {
			a.cacheClock = now
		}
	}
}

// Adapter routes host actions to the engine.
type Adapter struct {
	engine     *engine.Engine
	holders    HolderLookup
	observer   Observer
	cacheClock func() time.Time

	mu       sync.RWMutex
	settings Settings
	places   *cache.RecentPlace
	steps    *cache.RecentStep
	brewers  *cache.Brewers
}

// New creates an adapter over e.
func New(e *engine.Engine, settings Settings, opts ...Option) *Adapter {
	a := &Adapter{engine: e, cacheClock: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	a.settings = settings
	clock := cache.WithClock(a.cacheClock)
	if settings.RecentPlacementEnabled {
		a.places = cache.NewRecentPlace(settings.RecentPlacementSize, settings.RecentPlacementTimeout, clock)
	}
	a.steps = cache.NewRecentStep(stepRing(settings), settings.RecentStepTimeout, clock)
	a.brewers = cache.NewBrewers(settings.BrewTimeout, clock)
	return a
}

// Reconfigure applies new settings, carrying live cache entries over.
func (a *Adapter) Reconfigure(settings Settings) {
	a.mu.Lock()
	defer a.mu.Unlock()

	clock := cache.WithClock(a.cacheClock)
	switch {
	case !settings.RecentPlacementEnabled:
		a.places = nil
	case a.places == nil:
		a.places = cache.NewRecentPlace(settings.RecentPlacementSize, settings.RecentPlacementTimeout, clock)
	default:
		a.places = a.places.Rebuild(settings.RecentPlacementSize, settings.RecentPlacementTimeout)
	}
	a.steps = a.steps.Rebuild(stepRing(settings), settings.RecentStepTimeout)
	a.brewers = a.brewers.Rebuild(settings.BrewTimeout)
	a.settings = settings
}

// Settings returns the active settings.
func (a *Adapter) Settings() Settings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.settings
}

func stepRing(settings Settings) int {
	if !settings.RecentStepEnabled {
		return 0
	}
	return settings.RecentStepSize
}

func (a *Adapter) caches() (*cache.RecentPlace, *cache.RecentStep, *cache.Brewers, Settings) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.places, a.steps, a.brewers, a.settings
}

// Act credits amount progress to the first mission of typeID accepting
// target. The target is canonicalized by the mission type first.
// Non-positive amounts are ignored.
func (a *Adapter) Act(holder engine.Holder, typeID, target string, amount int) error {
	if holder == nil || amount <= 0 {
		return nil
	}
	if t, ok := a.engine.Definitions().Types().Get(typeID); ok && target != "" {
		target = t.Normalize(target)
	}
	out, err := a.engine.Advance(holder, engine.Match{Type: typeID, Target: target}, amount)
	if err != nil {
		return err
	}
	if out.Kind != engine.NoEligibleMission && a.observer != nil {
		a.observer.Progressed(holder, out)
	}
	return nil
}
