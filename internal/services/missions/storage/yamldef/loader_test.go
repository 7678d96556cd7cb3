package yamldef

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/louisbranch/missionkit/internal/services/missions/domain/definition"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/missiontype"
)

const categoriesYAML = `
common: 70
rare: 25
legendary: 5
`

const defaultsYAML = `
default:
  name: "<yellow>Mission"
  completed_name: "[NAME] <green>(done)"
  lore:
    - "Progress: <progress>/<requirement>"
  completed_lore:
    - "[LORE!]"
  category: common
`

const minersYAML = `
miner:
  name: "Miner"
  type: break
  requirement_min: 10
  requirement_max: 20
  targets: [STONE, "*_ore"]
  blacklisted_worlds: [world_nether]
  rewards:
    - "give <player> diamond 1"
    - "say well done <player>"
lumberjack:
  type: BREAK
  category: rare
  targets: [oak_log]
`

const walkersYAML = `
marathon:
  name: "Marathon"
  type: walk
  requirement_min: 500
  duration: 2h
  fail_conditions: [death]
  lore: []
`

func testTypes(t *testing.T) *missiontype.Registry {
	t.Helper()
	types, err := missiontype.DefaultRegistry(missiontype.DefaultVocabulary())
	if err != nil {
		t.Fatalf("types: %v", err)
	}
	return types
}

func testFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, body := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return fsys
}

func TestLoad(t *testing.T) {
	fsys := testFS(map[string]string{
		CategoriesFile: categoriesYAML,
		DefaultsFile:   defaultsYAML,
		"miners.yml":   minersYAML,
		"walkers.yml":  walkersYAML,
		"notes.txt":    "not yaml: [",
	})

	table, err := New(fsys, testTypes(t), WithConcurrency(2)).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("expected 3 definitions, got %d", table.Len())
	}

	categories := table.Categories()
	if len(categories) != 3 || categories[0].Name != "common" || categories[2].Weight != 5 {
		t.Fatalf("expected categories in file order, got %+v", categories)
	}

	miner, ok := table.Get("miner")
	if !ok {
		t.Fatal("expected miner")
	}
	if miner.CompletedName != "Miner <green>(done)" {
		t.Fatalf("unexpected completed name %q", miner.CompletedName)
	}
	if len(miner.CompletedLore) != 1 || miner.CompletedLore[0] != "<st>Progress: <progress>/<requirement></st>" {
		t.Fatalf("unexpected completed lore %v", miner.CompletedLore)
	}
	if miner.Category != "common" || miner.RequirementMin != 10 || miner.RequirementMax != 20 {
		t.Fatalf("unexpected miner %+v", miner)
	}
	if !miner.Accepts("stone") || !miner.Accepts("iron_ore") || miner.Accepts("dirt") {
		t.Fatal("unexpected miner targets")
	}
	if !miner.Excludes("world_nether") {
		t.Fatal("expected blacklisted world to be excluded")
	}
	if len(miner.Rewards) != 2 {
		t.Fatalf("expected two rewards, got %v", miner.Rewards)
	}

	lumberjack, _ := table.Get("lumberjack")
	if lumberjack.Name != "<yellow>Mission" || lumberjack.Category != "rare" {
		t.Fatalf("expected defaults applied, got %+v", lumberjack)
	}
	if lumberjack.RequirementMin != 1 || lumberjack.RequirementMax != 1 {
		t.Fatalf("expected default requirement of 1, got %d..%d", lumberjack.RequirementMin, lumberjack.RequirementMax)
	}

	marathon, _ := table.Get("marathon")
	if marathon.Duration != 2*time.Hour {
		t.Fatalf("expected 2h duration, got %v", marathon.Duration)
	}
	if !marathon.FailsOn(definition.TriggerDeath) {
		t.Fatal("expected death fail condition")
	}
	if len(marathon.Lore) != 0 {
		t.Fatalf("expected explicit empty lore, got %v", marathon.Lore)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  error
		text  string
	}{
		{
			name:  "unknown type",
			files: map[string]string{"bad.yml": "oops:\n  type: braek\n"},
			want:  definition.ErrUnknownType,
			text:  `did you mean "break"?`,
		},
		{
			name:  "unknown category",
			files: map[string]string{"bad.yml": "oops:\n  type: walk\n  category: comon\n"},
			want:  definition.ErrUnknownCategory,
			text:  `did you mean "common"?`,
		},
		{
			name:  "invalid target",
			files: map[string]string{"bad.yml": "oops:\n  type: kill\n  targets: [dragon_king]\n"},
			want:  definition.ErrInvalidDefinition,
		},
		{
			name:  "invalid duration",
			files: map[string]string{"bad.yml": "oops:\n  type: walk\n  duration: forever\n"},
			want:  definition.ErrInvalidDefinition,
			text:  "bad.yml:oops",
		},
		{
			name:  "duplicate across files",
			files: map[string]string{"a.yml": "dup:\n  type: walk\n", "b.yml": "DUP:\n  type: swim\n"},
			want:  definition.ErrDuplicateDefinition,
		},
		{
			name:  "missing default section",
			files: map[string]string{DefaultsFile: "other: {}\n"},
			want:  definition.ErrInvalidDefinition,
		},
		{
			name:  "empty categories",
			files: map[string]string{CategoriesFile: ""},
			want:  definition.ErrNoCategories,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := map[string]string{CategoriesFile: categoriesYAML, DefaultsFile: defaultsYAML}
			for name, body := range tt.files {
				files[name] = body
			}
			table, err := New(testFS(files), testTypes(t)).Load(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if table != nil {
				t.Fatal("expected no table on error")
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if tt.text != "" && !strings.Contains(err.Error(), tt.text) {
				t.Fatalf("expected %q in %q", tt.text, err.Error())
			}
		})
	}
}

func TestLoadRequiresTypes(t *testing.T) {
	if _, err := New(fstest.MapFS{}, nil).Load(context.Background()); !errors.Is(err, ErrTypesRequired) {
		t.Fatalf("expected ErrTypesRequired, got %v", err)
	}
}

func TestLoadMissingFiles(t *testing.T) {
	fsys := testFS(map[string]string{DefaultsFile: defaultsYAML})
	_, err := New(fsys, testTypes(t)).Load(context.Background())
	if err == nil || !strings.Contains(err.Error(), CategoriesFile) {
		t.Fatalf("expected missing categories error, got %v", err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		CategoriesFile: categoriesYAML,
		DefaultsFile:   defaultsYAML,
		"walkers.yml":  walkersYAML,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "archive.yml"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	table, err := LoadDir(context.Background(), dir, testTypes(t))
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	if _, ok := table.Get("marathon"); !ok {
		t.Fatal("expected marathon")
	}
}

func TestLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fsys := testFS(map[string]string{
		CategoriesFile: categoriesYAML,
		DefaultsFile:   defaultsYAML,
		"walkers.yml":  walkersYAML,
	})
	if _, err := New(fsys, testTypes(t)).Load(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
