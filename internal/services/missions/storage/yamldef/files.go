package yamldef

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/louisbranch/missionkit/internal/platform/errors"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/definition"
)

// defaults holds the fallback fields of default.yml.
type defaults struct {
	Name              *string  `yaml:"name"`
	CompletedName     *string  `yaml:"completed_name"`
	Lore              []string `yaml:"lore"`
	CompletedLore     []string `yaml:"completed_lore"`
	Category          *string  `yaml:"category"`
	BlacklistedWorlds []string `yaml:"blacklisted_worlds"`
}

type defaultsFile struct {
	Default *defaults `yaml:"default"`
}

// mission is one entry of a mission file. Pointer and slice-pointer
// fields distinguish an absent key from an empty value.
type mission struct {
	Name              *string   `yaml:"name"`
	CompletedName     *string   `yaml:"completed_name"`
	Lore              *[]string `yaml:"lore"`
	CompletedLore     *[]string `yaml:"completed_lore"`
	Category          *string   `yaml:"category"`
	Type              string    `yaml:"type"`
	RequirementMin    int       `yaml:"requirement_min"`
	RequirementMax    int       `yaml:"requirement_max"`
	Targets           []string  `yaml:"targets"`
	BlacklistedWorlds *[]string `yaml:"blacklisted_worlds"`
	Rewards           []string  `yaml:"rewards"`
	Duration          string    `yaml:"duration"`
	FailConditions    []string  `yaml:"fail_conditions"`
}

func parseDefaults(source string, data []byte) (defaults, error) {
	var file defaultsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return defaults{}, invalidFile(source, fmt.Sprintf("parse yaml: %v", err))
	}
	if file.Default == nil {
		return defaults{}, invalidFile(source, `missing "default" section`)
	}
	d := *file.Default
	required := []struct {
		field string
		value *string
	}{{"name", d.Name}, {"completed_name", d.CompletedName}, {"category", d.Category}}
	for _, r := range required {
		if r.value == nil {
			return defaults{}, invalidFile(source, fmt.Sprintf("missing default %s", r.field))
		}
	}
	return d, nil
}

// parseCategories reads an ordered name: weight mapping.
func parseCategories(source string, data []byte) ([]definition.CategoryWeight, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, invalidFile(source, fmt.Sprintf("parse yaml: %v", err))
	}
	root := documentRoot(&doc)
	if root == nil {
		return nil, definition.ErrNoCategories
	}
	if root.Kind != yaml.MappingNode {
		return nil, invalidFile(source, "categories must be a mapping of name to weight")
	}
	categories := make([]definition.CategoryWeight, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		var weight int
		if err := root.Content[i+1].Decode(&weight); err != nil {
			return nil, invalidFile(source, fmt.Sprintf("category %q: weight must be an integer", name))
		}
		categories = append(categories, definition.CategoryWeight{Name: name, Weight: weight})
	}
	return categories, nil
}

// parseMissions reads every mission of a file in document order.
func parseMissions(source string, data []byte, d defaults) ([]definition.Input, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, invalidFile(source, fmt.Sprintf("parse yaml: %v", err))
	}
	root := documentRoot(&doc)
	if root == nil {
		return nil, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, invalidFile(source, "expected a mapping of mission key to fields")
	}

	inputs := make([]definition.Input, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		value := root.Content[i+1]
		if value.Kind != yaml.MappingNode {
			continue
		}
		var m mission
		if err := value.Decode(&m); err != nil {
			return nil, invalidFile(source, fmt.Sprintf("mission %q: %v", key, err))
		}
		in, err := m.input(key, source, d)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func (m mission) input(key, source string, d defaults) (definition.Input, error) {
	in := definition.Input{
		Key:            key,
		Name:           orDefault(m.Name, d.Name),
		CompletedName:  orDefault(m.CompletedName, d.CompletedName),
		Lore:           orDefaultList(m.Lore, d.Lore),
		CompletedLore:  orDefaultList(m.CompletedLore, d.CompletedLore),
		Category:       orDefault(m.Category, d.Category),
		Type:           m.Type,
		RequirementMin: m.RequirementMin,
		RequirementMax: m.RequirementMax,
		Targets:        m.Targets,
		Rewards:        m.Rewards,
		FailConditions: m.FailConditions,
		Source:         fmt.Sprintf("%s:%s", source, key),
	}
	in.ExcludedLocations = orDefaultList(m.BlacklistedWorlds, d.BlacklistedWorlds)
	if raw := strings.TrimSpace(m.Duration); raw != "" {
		duration, err := time.ParseDuration(raw)
		if err != nil {
			return definition.Input{}, invalidFile(in.Source, fmt.Sprintf("invalid duration %q", raw))
		}
		in.Duration = duration
	}
	return in, nil
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	return doc.Content[0]
}

func orDefault(value, fallback *string) string {
	if value != nil {
		return *value
	}
	if fallback != nil {
		return *fallback
	}
	return ""
}

func orDefaultList(value *[]string, fallback []string) []string {
	if value != nil {
		return *value
	}
	return fallback
}

func invalidFile(source, reason string) error {
	return apperrors.WrapWithMetadata(apperrors.CodeMissionDefinitionInvalid,
		fmt.Sprintf("%s: %s", source, reason),
		map[string]string{"Key": source, "Reason": reason}, definition.ErrInvalidDefinition)
}
