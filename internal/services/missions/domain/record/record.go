package record

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/louisbranch/missionkit/internal/platform/errors"
	"github.com/louisbranch/missionkit/internal/platform/id"
)

// MaxRequirement is the largest requirement the wire format can carry.
const MaxRequirement = math.MaxInt32

var (
	// ErrInvariantViolation indicates a negative progress delta.
	ErrInvariantViolation = apperrors.New(apperrors.CodeMissionInvariantViolation, "progress delta must not be negative")
	// ErrRequirementInvalid indicates a requirement outside [1, MaxRequirement]
	// at creation.
	ErrRequirementInvalid = apperrors.New(apperrors.CodeMissionRequirementInvalid, "requirement must be between 1 and 2147483647")
	// ErrConfigIDRequired indicates a missing config id.
	ErrConfigIDRequired = apperrors.New(apperrors.CodeMissionConfigIDEmpty, "config id is required")
)

// Record is the serializable mission state stored on a carrier.
//
// Fields are unexported so every write goes through the clamping setters and
// the 0 <= progress <= requirement invariant cannot be broken from outside.
type Record struct {
	id          uuid.UUID
	configID    string
	progress    int
	requirement int
	completed   bool
	expiresAt   time.Time
}

// New creates an active record with zero progress and a fresh id.
// A zero expiresAt means the record never expires.
func New(configID string, requirement int, expiresAt time.Time) (Record, error) {
	configID = strings.TrimSpace(configID)
	if configID == "" {
		return Record{}, ErrConfigIDRequired
	}
	if requirement < 1 || requirement > MaxRequirement {
		return Record{}, ErrRequirementInvalid
	}
	recordID, err := id.New()
	if err != nil {
		return Record{}, err
	}
	return Record{
		id:          recordID,
		configID:    configID,
		requirement: requirement,
		expiresAt:   normalizeExpiry(expiresAt),
	}, nil
}

// Restore rebuilds a record from previously persisted fields. The values
// are clamped to the record invariants.
func Restore(recordID uuid.UUID, configID string, requirement, progress int, completed bool, expiresAt time.Time) Record {
	r := Record{
		id:        recordID,
		configID:  configID,
		completed: completed,
		expiresAt: normalizeExpiry(expiresAt),
	}
	r.SetRequirement(requirement)
	r.SetProgress(progress)
	return r
}

// ID returns the record identity.
func (r Record) ID() uuid.UUID { return r.id }

// DisplayID returns the identity in its short printable form.
func (r Record) DisplayID() string { return id.Encode(r.id) }

// ConfigID returns the definition key the record was created from.
func (r Record) ConfigID() string { return r.configID }

// Progress returns the current progress.
func (r Record) Progress() int { return r.progress }

// Requirement returns the progress needed to complete.
func (r Record) Requirement() int { return r.requirement }

// Completed reports the stored completion flag.
func (r Record) Completed() bool { return r.completed }

// ExpiresAt returns the expiry time; zero means never.
func (r Record) ExpiresAt() time.Time { return r.expiresAt }

// Expires reports whether the record has an expiry at all.
func (r Record) Expires() bool { return !r.expiresAt.IsZero() }

// Expired reports whether the expiry has passed at now.
func (r Record) Expired(now time.Time) bool {
	return r.Expires() && now.After(r.expiresAt)
}

// Remaining returns the time left before expiry, or zero when the record has
// no expiry or has already expired.
func (r Record) Remaining(now time.Time) time.Duration {
	if !r.Expires() {
		return 0
	}
	left := r.expiresAt.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Percent returns progress as a whole percentage of the requirement.
func (r Record) Percent() int {
	if r.requirement <= 0 {
		return 0
	}
	return r.progress * 100 / r.requirement
}

// ReachedRequirement reports whether progress meets the requirement,
// independent of the stored completion flag.
func (r Record) ReachedRequirement() bool {
	return r.progress >= r.requirement
}

// SetProgress sets progress, clamped to [0, requirement].
func (r *Record) SetProgress(progress int) {
	r.progress = max(0, min(progress, r.requirement))
}

// Increment adds n to progress, capped at the requirement.
func (r *Record) Increment(n int) error {
	if n < 0 {
		return ErrInvariantViolation
	}
	r.SetProgress(r.progress + n)
	return nil
}

// Decrement subtracts n from progress, floored at zero.
func (r *Record) Decrement(n int) error {
	if n < 0 {
		return ErrInvariantViolation
	}
	r.SetProgress(r.progress - n)
	return nil
}

// SetRequirement changes the requirement, clamped to [1, MaxRequirement].
// Progress above the new requirement is lowered to it.
func (r *Record) SetRequirement(requirement int) {
	r.requirement = max(1, min(requirement, MaxRequirement))
	if r.progress > r.requirement {
		r.progress = r.requirement
	}
}

// SetCompleted forces the completion flag.
func (r *Record) SetCompleted(completed bool) {
	r.completed = completed
}

// SetConfigID points the record at another definition. Intended for admin
// migration of broken records.
func (r *Record) SetConfigID(configID string) {
	r.configID = strings.TrimSpace(configID)
}

// normalizeExpiry truncates to the millisecond precision of the wire format
// so a decoded record compares equal to the one that was encoded.
func normalizeExpiry(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return time.UnixMilli(t.UnixMilli()).UTC()
}
