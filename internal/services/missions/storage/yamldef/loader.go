package yamldef

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/louisbranch/missionkit/internal/services/missions/domain/definition"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/missiontype"
)

const (
	// CategoriesFile names the category weight file.
	CategoriesFile = "categories.yml"
	// DefaultsFile names the fallback field file.
	DefaultsFile = "default.yml"

	extension          = ".yml"
	defaultConcurrency = 8
)

// ErrTypesRequired indicates a loader without a type registry.
var ErrTypesRequired = errors.New("mission type registry is required")

// Loader reads definition tables from a file system.
type Loader struct {
	fsys        fs.FS
	types       *missiontype.Registry
	concurrency int
}

// Option configures a Loader.
type Option func(*Loader)

// WithConcurrency caps how many mission files are parsed at once.
func WithConcurrency(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// New creates a loader over fsys.
func New(fsys fs.FS, types *missiontype.Registry, opts ...Option) *Loader {
	l := &Loader{fsys: fsys, types: types, concurrency: defaultConcurrency}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadDir loads the definitions directory at dir.
func LoadDir(ctx context.Context, dir string, types *missiontype.Registry) (*definition.Table, error) {
	return New(os.DirFS(dir), types).Load(ctx)
}

// Load reads and compiles every definition file.
func (l *Loader) Load(ctx context.Context) (*definition.Table, error) {
	if l == nil || l.types == nil {
		return nil, ErrTypesRequired
	}

	categoryData, err := fs.ReadFile(l.fsys, CategoriesFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", CategoriesFile, err)
	}
	categories, err := parseCategories(CategoriesFile, categoryData)
	if err != nil {
		return nil, err
	}

	defaultData, err := fs.ReadFile(l.fsys, DefaultsFile)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", DefaultsFile, err)
	}
	d, err := parseDefaults(DefaultsFile, defaultData)
	if err != nil {
		return nil, err
	}

	names, err := l.missionFiles()
	if err != nil {
		return nil, err
	}

	parsed := make([][]definition.Input, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := fs.ReadFile(l.fsys, name)
			if err != nil {
				return fmt.Errorf("read %s: %w", name, err)
			}
			inputs, err := parseMissions(name, data, d)
			if err != nil {
				return err
			}
			parsed[i] = inputs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var inputs []definition.Input
	for _, batch := range parsed {
		inputs = append(inputs, batch...)
	}
	return definition.Compile(l.types, categories, inputs)
}

// missionFiles lists mission files in name order.
func (l *Loader) missionFiles() ([]string, error) {
	entries, err := fs.ReadDir(l.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}
	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || path.Ext(name) != extension {
			continue
		}
		if name == CategoriesFile || name == DefaultsFile || strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
