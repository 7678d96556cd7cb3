package engine

import (
	"errors"
	"io"
	"log"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	apperrors "github.com/louisbranch/missionkit/internal/platform/errors"
	"github.com/louisbranch/missionkit/internal/random"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/definition"
)

var (
	// ErrDefinitionsRequired indicates a missing definition table.
	ErrDefinitionsRequired = errors.New("definition table is required")
	// ErrNotFound indicates a carrier without a mission record.
	ErrNotFound = apperrors.New(apperrors.CodeMissionNotFound, "carrier holds no mission")
	// ErrNotCompleted indicates a claim on an unfinished mission.
	ErrNotCompleted = apperrors.New(apperrors.CodeMissionNotCompleted, "mission is not completed")
	// ErrBrokenConfig indicates a record whose config id does not resolve.
	ErrBrokenConfig = apperrors.New(apperrors.CodeMissionBrokenConfig, "mission config is missing")
	// ErrClaimVetoed indicates the claim gate rejected a claim.
	ErrClaimVetoed = apperrors.New(apperrors.CodeMissionClaimVetoed, "mission claim was vetoed")
)

// ExpiredReason is the failure reason for a record past its expiry.
const ExpiredReason = "ran out of time"

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithRand sets the random source used for selection and requirements.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithProgressGate sets the collaborator that may veto progress changes.
func WithProgressGate(g ProgressGate) Option {
	return func(e *Engine) { e.gate = g }
}

// WithFailureSink sets the collaborator notified of failures.
func WithFailureSink(s FailureSink) Option {
	return func(e *Engine) { e.failures = s }
}

// WithClaimGate sets the collaborator that may veto claims.
func WithClaimGate(g ClaimGate) Option {
	return func(e *Engine) { e.claims = g }
}

// WithRewardRunner sets the collaborator that executes rewards.
func WithRewardRunner(r RewardRunner) Option {
	return func(e *Engine) { e.rewards = r }
}

// WithLogger sets the logger for broken-config reports.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine runs mission rules against holders.
type Engine struct {
	defs     atomic.Pointer[definition.Table]
	now      func() time.Time
	rngMu    sync.Mutex
	rng      *rand.Rand
	gate     ProgressGate
	failures FailureSink
	claims   ClaimGate
	rewards  RewardRunner
	logger   *log.Logger
}

// New creates an engine over defs.
func New(defs *definition.Table, opts ...Option) (*Engine, error) {
	if defs == nil {
		return nil, ErrDefinitionsRequired
	}
	e := &Engine{
		now:    time.Now,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		r, err := random.New()
		if err != nil {
			return nil, err
		}
		e.rng = r
	}
	e.defs.Store(defs)
	return e, nil
}

// Reload swaps the definition table. Records referencing keys that no
// longer exist are marked broken the next time they are scanned.
func (e *Engine) Reload(defs *definition.Table) error {
	if defs == nil {
		return ErrDefinitionsRequired
	}
	e.defs.Store(defs)
	return nil
}

// Definitions returns the current definition table.
func (e *Engine) Definitions() *definition.Table {
	return e.defs.Load()
}

func (e *Engine) intN(n int) int {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.IntN(n)
}
