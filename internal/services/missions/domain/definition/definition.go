// Package definition holds mission definitions: the read-only configuration
// a record's config id resolves to, and the immutable table that indexes
// them alongside the category weights.
package definition

import (
	"slices"
	"strings"
	"time"

	"github.com/louisbranch/missionkit/internal/services/missions/domain/missiontype"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/wildcard"
)

// Fail condition triggers understood by the activity adapter.
const (
	TriggerDeath      = "death"
	TriggerTakeDamage = "take_damage"
)

// Definition is a compiled mission definition.
type Definition struct {
	Key               string
	Name              string
	CompletedName     string
	Lore              []string
	CompletedLore     []string
	Category          string
	Type              missiontype.Type
	RequirementMin    int
	RequirementMax    int
	Targets           []string
	ExcludedLocations []string
	Rewards           []string
	Duration          time.Duration
	FailConditions    []string
}

// Accepts reports whether an action on tgt can advance the mission. An empty
// tgt means the action carries no target.
func (d Definition) Accepts(tgt string) bool {
	if !d.Type.Targeted() || tgt == "" {
		return true
	}
	tgt = strings.ToLower(tgt)
	if slices.Contains(d.Targets, wildcard.Any) || slices.Contains(d.Targets, tgt) {
		return true
	}
	return wildcard.MatchAny(d.Targets, tgt)
}

// Excludes reports whether progress is disabled at location.
func (d Definition) Excludes(location string) bool {
	location = strings.TrimSpace(location)
	if location == "" {
		return false
	}
	for _, excluded := range d.ExcludedLocations {
		if strings.EqualFold(excluded, location) {
			return true
		}
	}
	return false
}

// FailsOn reports whether trigger fails the mission.
func (d Definition) FailsOn(trigger string) bool {
	trigger = strings.TrimSpace(trigger)
	for _, condition := range d.FailConditions {
		if strings.EqualFold(condition, trigger) {
			return true
		}
	}
	return false
}

// DisplayName returns the name matching the completion state.
func (d Definition) DisplayName(completed bool) string {
	if completed {
		return d.CompletedName
	}
	return d.Name
}

// DisplayLore returns the lore matching the completion state.
func (d Definition) DisplayLore(completed bool) []string {
	if completed {
		return d.CompletedLore
	}
	return d.Lore
}
