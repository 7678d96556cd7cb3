package engine

import (
	"strings"

	"github.com/louisbranch/missionkit/internal/services/missions/domain/definition"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/missiontype"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/record"
)

// Match selects the missions an action applies to.
type Match struct {
	// Type is the mission type id, compared case-insensitively.
	Type string
	// Target is the action's target; empty means the action has none.
	Target string
}

// Mutation changes a record in place. Returning an error discards the
// change.
type Mutation func(r *record.Record) error

// Increment returns a mutation adding n to progress.
func Increment(n int) Mutation {
	return func(r *record.Record) error { return r.Increment(n) }
}

// Decrement returns a mutation subtracting n from progress.
func Decrement(n int) Mutation {
	return func(r *record.Record) error { return r.Decrement(n) }
}

// Advance adds n progress to the first mission matching m.
func (e *Engine) Advance(holder Holder, m Match, n int) (Outcome, error) {
	if n < 0 {
		return Outcome{}, record.ErrInvariantViolation
	}
	return e.FindAndMutate(holder, m, Increment(n))
}

// FindAndMutate applies mutate to the first carried mission that accepts m.
//
// Main slots are scanned in the holder's order, then the off-hand; equipment
// is skipped. Carriers that fail to decode or hold completed missions are
// passed over. A record whose definition is missing marks its carrier
// broken, and an expired record fails; both let the scan continue. The first
// mission of the matching type that accepts the target and is not excluded
// at the holder's location is mutated and offered to the progress gate.
// At most one mission changes per call.
//
// When mutate returns an error the record is left untouched and the error is
// returned with a zero Outcome.
func (e *Engine) FindAndMutate(holder Holder, m Match, mutate Mutation) (Outcome, error) {
	if holder == nil || mutate == nil {
		return Outcome{Kind: NoEligibleMission}, nil
	}
	defs := e.defs.Load()
	now := e.now()
	typeID := missiontype.CanonicalID(m.Type)
	tgt := strings.ToLower(strings.TrimSpace(m.Target))
	location := holder.Location()

	for _, slot := range scanOrder(holder.Slots()) {
		carrier := slot.Carrier
		if empty(carrier) {
			continue
		}
		data, ok := carrier.MissionData()
		if !ok {
			continue
		}
		rec, err := record.Decode(data)
		if err != nil || rec.Completed() {
			continue
		}
		def, ok := defs.Get(rec.ConfigID())
		if !ok {
			e.markBroken(carrier, rec)
			continue
		}
		if rec.Expired(now) {
			e.Fail(holder, carrier, rec, ExpiredReason)
			continue
		}
		if missiontype.CanonicalID(def.Type.ID()) != typeID {
			continue
		}
		if !def.Accepts(tgt) || def.Excludes(location) {
			continue
		}
		return e.apply(holder, slot, rec, def, mutate)
	}
	return Outcome{Kind: NoEligibleMission}, nil
}

func (e *Engine) apply(holder Holder, slot Slot, rec record.Record, def definition.Definition, mutate Mutation) (Outcome, error) {
	oldProgress := rec.Progress()
	oldCompleted := rec.Completed()
	out := Outcome{
		Slot:        slot.Index,
		RecordID:    rec.ID(),
		ConfigID:    rec.ConfigID(),
		OldProgress: oldProgress,
	}

	working := rec
	if err := mutate(&working); err != nil {
		return Outcome{}, err
	}

	newProgress, allowed := working.Progress(), true
	if e.gate != nil {
		newProgress, allowed = e.gate.ReviewProgress(ProgressChange{
			Holder:      holder,
			Carrier:     slot.Carrier,
			Record:      working,
			Definition:  def,
			OldProgress: oldProgress,
			NewProgress: working.Progress(),
		})
	}
	if !allowed {
		out.Kind = Vetoed
		out.NewProgress = oldProgress
		out.Completed = oldCompleted
		return out, nil
	}

	working.SetProgress(newProgress)
	if working.ReachedRequirement() {
		working.SetCompleted(true)
	}
	out.Kind = Applied
	out.NewProgress = working.Progress()
	out.Completed = working.Completed()
	if working.Progress() != oldProgress || working.Completed() != oldCompleted {
		e.persist(slot.Carrier, working)
		out.Persisted = true
	}
	return out, nil
}

func (e *Engine) persist(carrier Carrier, rec record.Record) {
	carrier.SetMissionData(record.Encode(rec))
	if carrier.Broken() {
		carrier.ClearBroken()
	}
}

func (e *Engine) markBroken(carrier Carrier, rec record.Record) {
	if carrier.Broken() {
		return
	}
	carrier.MarkBroken()
	e.logger.Printf("mission config %q is missing or invalid (record %s)", rec.ConfigID(), rec.DisplayID())
}
