package definition

import (
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/louisbranch/missionkit/internal/platform/errors"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/missiontype"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/record"
)

// Placeholders expanded while compiling a definition.
const (
	// NamePlaceholder in a completed name is replaced by the mission name.
	NamePlaceholder = "[NAME]"
	// LorePlaceholder as the first completed lore line reuses the lore
	// struck through.
	LorePlaceholder = "[LORE!]"
)

var (
	// ErrInvalidDefinition indicates a definition that fails validation.
	ErrInvalidDefinition = apperrors.New(apperrors.CodeMissionDefinitionInvalid, "invalid mission definition")
	// ErrDuplicateDefinition indicates two definitions with the same key.
	ErrDuplicateDefinition = apperrors.New(apperrors.CodeMissionDefinitionDuplicate, "duplicate mission definition")
	// ErrUnknownType indicates a definition naming an unregistered type.
	ErrUnknownType = apperrors.New(apperrors.CodeMissionTypeUnknown, "unknown mission type")
	// ErrUnknownCategory indicates a definition naming an unknown category.
	ErrUnknownCategory = apperrors.New(apperrors.CodeMissionCategoryUnknown, "unknown category")
	// ErrTypeRegistryRequired indicates compilation without a type registry.
	ErrTypeRegistryRequired = errors.New("mission type registry is required")
)

// Input is an uncompiled definition as read from configuration.
type Input struct {
	Key               string
	Name              string
	CompletedName     string
	Lore              []string
	CompletedLore     []string
	Category          string
	Type              string
	RequirementMin    int
	RequirementMax    int
	Targets           []string
	ExcludedLocations []string
	Rewards           []string
	Duration          time.Duration
	FailConditions    []string
	// Source names where the input came from, for error messages.
	Source string
}

// Compile validates inputs against the type registry and category weights
// and builds a table. Every invalid input is reported; no table is returned
// unless all inputs compile.
func Compile(types *missiontype.Registry, categories []CategoryWeight, inputs []Input) (*Table, error) {
	if types == nil {
		return nil, ErrTypeRegistryRequired
	}
	if err := validateCategories(categories); err != nil {
		return nil, err
	}

	categoryNames := make([]string, 0, len(categories))
	for _, category := range categories {
		categoryNames = append(categoryNames, category.Name)
	}

	var errs []error
	defs := make([]Definition, 0, len(inputs))
	for _, in := range inputs {
		def, err := build(types, categoryNames, in)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		defs = append(defs, def)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return NewTable(types, categories, defs)
}

func build(types *missiontype.Registry, categories []string, in Input) (Definition, error) {
	key := strings.ToLower(strings.TrimSpace(in.Key))
	if key == "" {
		return Definition{}, invalid(in, "key is required")
	}

	typeID := strings.TrimSpace(in.Type)
	missionType, ok := types.Get(typeID)
	if !ok {
		suggestion := Suggest(missiontype.CanonicalID(typeID), types.IDs())
		msg := fmt.Sprintf("mission %s: unknown type %q", key, typeID)
		if suggestion != "" {
			msg += fmt.Sprintf(", did you mean %q?", suggestion)
		}
		return Definition{}, apperrors.WrapWithMetadata(apperrors.CodeMissionTypeUnknown, msg,
			map[string]string{"Key": key, "Type": typeID, "Suggestion": suggestion}, ErrUnknownType)
	}

	category, ok := resolveCategory(in.Category, categories)
	if !ok {
		suggestion := Suggest(in.Category, categories)
		msg := fmt.Sprintf("mission %s: unknown category %q", key, in.Category)
		if suggestion != "" {
			msg += fmt.Sprintf(", did you mean %q?", suggestion)
		}
		return Definition{}, apperrors.WrapWithMetadata(apperrors.CodeMissionCategoryUnknown, msg,
			map[string]string{"Key": key, "Category": in.Category, "Suggestion": suggestion}, ErrUnknownCategory)
	}

	reqMin := in.RequirementMin
	if reqMin <= 0 {
		reqMin = 1
	}
	reqMax := in.RequirementMax
	if reqMax == 0 {
		reqMax = reqMin
	}
	if reqMax > record.MaxRequirement {
		return Definition{}, invalid(in, fmt.Sprintf("requirement_max %d exceeds %d", reqMax, record.MaxRequirement))
	}
	if reqMax < reqMin {
		return Definition{}, invalid(in, fmt.Sprintf("requirement_max %d is below requirement_min %d", reqMax, reqMin))
	}
	if in.Duration < 0 {
		return Definition{}, invalid(in, "duration must not be negative")
	}

	targets, err := compileTargets(missionType, in)
	if err != nil {
		return Definition{}, err
	}

	name := in.Name
	completedName := strings.ReplaceAll(in.CompletedName, NamePlaceholder, name)
	if completedName == "" {
		completedName = name
	}

	return Definition{
		Key:               key,
		Name:              name,
		CompletedName:     completedName,
		Lore:              cloneStrings(in.Lore),
		CompletedLore:     completedLore(in.Lore, in.CompletedLore),
		Category:          category,
		Type:              missionType,
		RequirementMin:    reqMin,
		RequirementMax:    reqMax,
		Targets:           targets,
		ExcludedLocations: trimAll(in.ExcludedLocations),
		Rewards:           cloneStrings(in.Rewards),
		Duration:          in.Duration,
		FailConditions:    lowerAll(in.FailConditions),
	}, nil
}

func compileTargets(missionType missiontype.Type, in Input) ([]string, error) {
	seen := make(map[string]struct{}, len(in.Targets))
	targets := make([]string, 0, len(in.Targets))
	for _, raw := range in.Targets {
		tgt := strings.ToLower(strings.TrimSpace(raw))
		if tgt == "" {
			continue
		}
		if missionType.Targeted() {
			tgt = strings.ToLower(missionType.Normalize(tgt))
			if err := missionType.Check(tgt); err != nil {
				return nil, apperrors.WrapWithMetadata(apperrors.CodeMissionDefinitionInvalid,
					fmt.Sprintf("mission %s: invalid target %q", strings.ToLower(in.Key), raw),
					map[string]string{"Key": strings.ToLower(in.Key), "Reason": "invalid target " + raw}, err)
			}
		}
		if _, ok := seen[tgt]; ok {
			continue
		}
		seen[tgt] = struct{}{}
		targets = append(targets, tgt)
	}
	return targets, nil
}

func resolveCategory(name string, categories []string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, category := range categories {
		if strings.EqualFold(category, name) {
			return category, true
		}
	}
	return "", false
}

func completedLore(lore, completed []string) []string {
	if len(completed) > 0 && strings.TrimSpace(completed[0]) == LorePlaceholder {
		struck := make([]string, len(lore))
		for i, line := range lore {
			struck[i] = "<st>" + line + "</st>"
		}
		return struck
	}
	return cloneStrings(completed)
}

func invalid(in Input, reason string) error {
	key := strings.ToLower(strings.TrimSpace(in.Key))
	label := key
	if label == "" {
		label = in.Source
	}
	return apperrors.WrapWithMetadata(apperrors.CodeMissionDefinitionInvalid,
		fmt.Sprintf("mission %s: %s", label, reason),
		map[string]string{"Key": label, "Reason": reason}, ErrInvalidDefinition)
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return append([]string(nil), values...)
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}

func lowerAll(values []string) []string {
	out := trimAll(values)
	for i := range out {
		out[i] = strings.ToLower(out[i])
	}
	return out
}
