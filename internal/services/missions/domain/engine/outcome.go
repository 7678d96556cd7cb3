package engine

import (
	"github.com/google/uuid"

	"github.com/louisbranch/missionkit/internal/services/missions/domain/definition"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/record"
)

// OutcomeKind reports what FindAndMutate did.
type OutcomeKind uint8

const (
	// NoEligibleMission means no carried mission accepted the action.
	NoEligibleMission OutcomeKind = iota
	// Applied means a mission was mutated and the change kept.
	Applied
	// Vetoed means the progress gate rejected the change and the record
	// was left as it was.
	Vetoed
)

// String returns the outcome name.
func (k OutcomeKind) String() string {
	switch k {
	case Applied:
		return "applied"
	case Vetoed:
		return "vetoed"
	default:
		return "no_eligible_mission"
	}
}

// Outcome describes the result of FindAndMutate.
type Outcome struct {
	Kind        OutcomeKind
	Slot        int
	RecordID    uuid.UUID
	ConfigID    string
	OldProgress int
	NewProgress int
	Completed   bool
	// Persisted reports whether the carrier was rewritten.
	Persisted bool
}

// ProgressChange is offered to the ProgressGate before a change is kept.
type ProgressChange struct {
	Holder      Holder
	Carrier     Carrier
	Record      record.Record
	Definition  definition.Definition
	OldProgress int
	NewProgress int
}

// ProgressGate lets the host veto or override a progress change. Returning
// allowed=false discards the change; otherwise newProgress is adopted.
type ProgressGate interface {
	ReviewProgress(change ProgressChange) (newProgress int, allowed bool)
}

// ProgressGateFunc adapts a function into a ProgressGate.
type ProgressGateFunc func(change ProgressChange) (int, bool)

// ReviewProgress calls f.
func (f ProgressGateFunc) ReviewProgress(change ProgressChange) (int, bool) { return f(change) }

// Failure describes a mission that failed and whose carrier was removed.
type Failure struct {
	Holder  Holder
	Carrier Carrier
	Record  record.Record
	Reason  string
}

// FailureSink is notified after a mission fails.
type FailureSink interface {
	MissionFailed(failure Failure)
}

// FailureSinkFunc adapts a function into a FailureSink.
type FailureSinkFunc func(failure Failure)

// MissionFailed calls f.
func (f FailureSinkFunc) MissionFailed(failure Failure) { f(failure) }

// ClaimRequest is offered to the ClaimGate before rewards are handed out.
type ClaimRequest struct {
	Holder     Holder
	Carrier    Carrier
	Record     record.Record
	Definition definition.Definition
	Rewards    []definition.Reward
}

// ClaimGate lets the host veto a reward claim.
type ClaimGate interface {
	AllowClaim(request ClaimRequest) bool
}

// ClaimGateFunc adapts a function into a ClaimGate.
type ClaimGateFunc func(request ClaimRequest) bool

// AllowClaim calls f.
func (f ClaimGateFunc) AllowClaim(request ClaimRequest) bool { return f(request) }

// RewardRunner executes the rewards of an accepted claim.
type RewardRunner interface {
	RunRewards(holder Holder, rewards []definition.Reward)
}

// RewardRunnerFunc adapts a function into a RewardRunner.
type RewardRunnerFunc func(holder Holder, rewards []definition.Reward)

// RunRewards calls f.
func (f RewardRunnerFunc) RunRewards(holder Holder, rewards []definition.Reward) { f(holder, rewards) }

// ClaimOutcome describes the result of Claim.
type ClaimOutcome struct {
	Claimed bool
	Record  record.Record
	Rewards []definition.Reward
}
