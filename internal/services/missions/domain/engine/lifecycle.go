package engine

import (
	"fmt"
	"time"

	apperrors "github.com/louisbranch/missionkit/internal/platform/errors"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/definition"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/record"
)

// Mission is a decoded carrier found in a holder's inventory.
type Mission struct {
	Slot       Slot
	Record     record.Record
	Definition definition.Definition
	// Resolved reports whether the record's config id has a definition.
	Resolved bool
}

// Create builds a fresh record for def with a requirement drawn uniformly
// from the definition's range.
func (e *Engine) Create(def definition.Definition) (record.Record, error) {
	reqMin := max(1, def.RequirementMin)
	reqMax := max(reqMin, def.RequirementMax)
	requirement := reqMin + e.intN(reqMax-reqMin+1)

	var expiresAt time.Time
	if def.Duration > 0 {
		expiresAt = e.now().Add(def.Duration)
	}
	return record.New(def.Key, requirement, expiresAt)
}

// Grant creates a record for def and writes it into carrier.
func (e *Engine) Grant(carrier Carrier, def definition.Definition) (record.Record, error) {
	rec, err := e.Create(def)
	if err != nil {
		return record.Record{}, err
	}
	carrier.SetMissionData(record.Encode(rec))
	if carrier.Broken() {
		carrier.ClearBroken()
	}
	return rec, nil
}

// Fail removes carrier from holder and notifies the failure sink.
func (e *Engine) Fail(holder Holder, carrier Carrier, rec record.Record, reason string) {
	holder.Remove(carrier)
	if e.failures != nil {
		e.failures.MissionFailed(Failure{Holder: holder, Carrier: carrier, Record: rec, Reason: reason})
	}
}

// FailOn fails every unfinished mission in any slot of holder whose
// definition lists trigger as a fail condition. It returns the number of
// missions failed.
func (e *Engine) FailOn(holder Holder, trigger, reason string) int {
	if holder == nil {
		return 0
	}
	defs := e.defs.Load()
	failed := 0
	for _, slot := range holder.Slots() {
		if empty(slot.Carrier) {
			continue
		}
		data, ok := slot.Carrier.MissionData()
		if !ok {
			continue
		}
		rec, err := record.Decode(data)
		if err != nil || rec.Completed() {
			continue
		}
		def, ok := defs.Get(rec.ConfigID())
		if !ok || !def.FailsOn(trigger) {
			continue
		}
		e.Fail(holder, slot.Carrier, rec, reason)
		failed++
	}
	return failed
}

// Edit applies an administrative mutation to the record in carrier and
// writes it back. Unless the mutation itself changed the completion flag,
// completion is reconciled with progress in both directions. It reports
// false when the carrier holds no record.
func (e *Engine) Edit(carrier Carrier, mutate Mutation) (bool, error) {
	if empty(carrier) || mutate == nil {
		return false, nil
	}
	data, ok := carrier.MissionData()
	if !ok {
		return false, nil
	}
	rec, err := record.Decode(data)
	if err != nil {
		return false, err
	}

	oldCompleted := rec.Completed()
	if err := mutate(&rec); err != nil {
		return false, err
	}
	if rec.Completed() == oldCompleted {
		rec.SetCompleted(rec.ReachedRequirement())
	}

	carrier.SetMissionData(record.Encode(rec))
	if _, ok := e.defs.Load().Get(rec.ConfigID()); ok && carrier.Broken() {
		carrier.ClearBroken()
	}
	return true, nil
}

// Claim hands out the rewards of a completed mission. The claim gate may
// veto, in which case nothing changes and Claimed is false. On acceptance
// the carrier is removed and the rewards go to the reward runner.
func (e *Engine) Claim(holder Holder, carrier Carrier) (ClaimOutcome, error) {
	if holder == nil || empty(carrier) {
		return ClaimOutcome{}, ErrNotFound
	}
	data, ok := carrier.MissionData()
	if !ok {
		return ClaimOutcome{}, ErrNotFound
	}
	rec, err := record.Decode(data)
	if err != nil {
		return ClaimOutcome{}, err
	}
	if !rec.Completed() {
		return ClaimOutcome{Record: rec}, apperrors.WrapWithMetadata(apperrors.CodeMissionNotCompleted,
			fmt.Sprintf("mission %s is not completed", rec.ConfigID()),
			map[string]string{"ConfigID": rec.ConfigID()}, ErrNotCompleted)
	}
	def, ok := e.defs.Load().Get(rec.ConfigID())
	if !ok {
		return ClaimOutcome{Record: rec}, apperrors.WrapWithMetadata(apperrors.CodeMissionBrokenConfig,
			fmt.Sprintf("mission config %q is missing", rec.ConfigID()),
			map[string]string{"ConfigID": rec.ConfigID()}, ErrBrokenConfig)
	}

	rewards := definition.ExpandRewards(def.Rewards, holder.Name())
	if e.claims != nil && !e.claims.AllowClaim(ClaimRequest{
		Holder:     holder,
		Carrier:    carrier,
		Record:     rec,
		Definition: def,
		Rewards:    rewards,
	}) {
		return ClaimOutcome{Record: rec, Rewards: rewards}, nil
	}

	holder.Remove(carrier)
	if e.rewards != nil {
		e.rewards.RunRewards(holder, rewards)
	}
	return ClaimOutcome{Claimed: true, Record: rec, Rewards: rewards}, nil
}

// Inspect decodes the mission in carrier and resolves its definition.
func (e *Engine) Inspect(carrier Carrier) (Mission, error) {
	if empty(carrier) {
		return Mission{}, ErrNotFound
	}
	data, ok := carrier.MissionData()
	if !ok {
		return Mission{}, ErrNotFound
	}
	rec, err := record.Decode(data)
	if err != nil {
		return Mission{}, err
	}
	def, resolved := e.defs.Load().Get(rec.ConfigID())
	return Mission{
		Slot:       Slot{Carrier: carrier},
		Record:     rec,
		Definition: def,
		Resolved:   resolved,
	}, nil
}

// Missions returns every decodable mission in holder, in slot order,
// keeping those for which keep returns true. A nil keep keeps all.
func (e *Engine) Missions(holder Holder, keep func(Mission) bool) []Mission {
	if holder == nil {
		return nil
	}
	defs := e.defs.Load()
	var missions []Mission
	for _, slot := range holder.Slots() {
		if empty(slot.Carrier) {
			continue
		}
		data, ok := slot.Carrier.MissionData()
		if !ok {
			continue
		}
		rec, err := record.Decode(data)
		if err != nil {
			continue
		}
		def, resolved := defs.Get(rec.ConfigID())
		m := Mission{Slot: slot, Record: rec, Definition: def, Resolved: resolved}
		if keep == nil || keep(m) {
			missions = append(missions, m)
		}
	}
	return missions
}
