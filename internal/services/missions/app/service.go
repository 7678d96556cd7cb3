package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/missionkit/internal/platform/errors"
	"github.com/louisbranch/missionkit/internal/services/missions/activity"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/definition"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/engine"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/missiontype"
	"github.com/louisbranch/missionkit/internal/services/missions/domain/record"
	"github.com/louisbranch/missionkit/internal/services/missions/storage/yamldef"
)

const tracerName = "github.com/louisbranch/missionkit/missions"

var (
	// ErrUnknownMission indicates a mission key missing from the table.
	ErrUnknownMission = apperrors.New(apperrors.CodeMissionNotFound, "unknown mission")
	// ErrEmptyCategory indicates a category with no definitions to draw from.
	ErrEmptyCategory = apperrors.New(apperrors.CodeMissionNotFound, "no mission found in category")
)

// Option configures a Service.
type Option func(*options)

type options struct {
	types        *missiontype.Registry
	engineOpts   []engine.Option
	activityOpts []activity.Option
	tracer       trace.Tracer
	logger       *log.Logger
}

// WithTypes sets the mission type registry used to load definitions.
func WithTypes(types *missiontype.Registry) Option {
	return func(o *options) {
		o.types = types
	}
}

// WithEngineOptions passes options through to the engine.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(o *options) {
		o.engineOpts = append(o.engineOpts, opts...)
	}
}

// WithActivityOptions passes options through to the activity adapter.
func WithActivityOptions(opts ...activity.Option) Option {
	return func(o *options) {
		o.activityOpts = append(o.activityOpts, opts...)
	}
}

// WithTracer sets the tracer used for service spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Service is the host-facing mission facade.
type Service struct {
	mu       sync.RWMutex
	cfg      Config
	types    *missiontype.Registry
	engine   *engine.Engine
	activity *activity.Adapter
	tracer   trace.Tracer
	logger   *log.Logger
}

func collect(opts []Option) options {
	o := options{tracer: otel.Tracer(tracerName), logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open loads the definitions directory named by cfg and builds a service.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Service, error) {
	o := collect(opts)
	if o.types == nil {
		types, err := missiontype.DefaultRegistry(missiontype.DefaultVocabulary())
		if err != nil {
			return nil, fmt.Errorf("build mission types: %w", err)
		}
		o.types = types
	}

	ctx, span := o.tracer.Start(ctx, "missions.Open",
		trace.WithAttributes(attribute.String("missions.dir", cfg.DefinitionsDir)))
	table, err := yamldef.LoadDir(ctx, cfg.DefinitionsDir, o.types)
	finish(span, err)
	if err != nil {
		return nil, fmt.Errorf("load definitions from %s: %w", cfg.DefinitionsDir, err)
	}
	o.logger.Printf("loaded %d mission definitions from %s", table.Len(), cfg.DefinitionsDir)
	return build(table, cfg, o)
}

// New builds a service over an already compiled table.
func New(table *definition.Table, cfg Config, opts ...Option) (*Service, error) {
	o := collect(opts)
	if o.types == nil && table != nil {
		o.types = table.Types()
	}
	return build(table, cfg, o)
}

func build(table *definition.Table, cfg Config, o options) (*Service, error) {
	e, err := engine.New(table, append([]engine.Option{engine.WithLogger(o.logger)}, o.engineOpts...)...)
	if err != nil {
		return nil, err
	}
	return &Service{
		cfg:      cfg,
		types:    o.types,
		engine:   e,
		activity: activity.New(e, cfg.Settings(), o.activityOpts...),
		tracer:   o.tracer,
		logger:   o.logger,
	}, nil
}

// Config returns the active configuration.
func (s *Service) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Engine returns the underlying engine.
func (s *Service) Engine() *engine.Engine { return s.engine }

// Activity returns the activity adapter hosts feed gameplay events to.
func (s *Service) Activity() *activity.Adapter { return s.activity }

// Types returns the mission type registry.
func (s *Service) Types() *missiontype.Registry { return s.types }

// Definitions returns the active definition table.
func (s *Service) Definitions() *definition.Table { return s.engine.Definitions() }

// Reload reads definitions from cfg's directory and applies cfg. A failed
// load leaves the running table and settings untouched.
func (s *Service) Reload(ctx context.Context, cfg Config) (err error) {
	ctx, span := s.start(ctx, "Reload", attribute.String("missions.dir", cfg.DefinitionsDir))
	defer func() { finish(span, err) }()

	table, err := yamldef.LoadDir(ctx, cfg.DefinitionsDir, s.types)
	if err != nil {
		return fmt.Errorf("load definitions from %s: %w", cfg.DefinitionsDir, err)
	}
	if err := s.engine.Reload(table); err != nil {
		return err
	}
	s.activity.Reconfigure(cfg.Settings())

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	span.SetAttributes(attribute.Int("missions.count", table.Len()))
	s.logger.Printf("reloaded %d mission definitions", table.Len())
	return nil
}

// Grant writes a fresh mission of key into carrier.
func (s *Service) Grant(ctx context.Context, carrier engine.Carrier, key string) (rec record.Record, err error) {
	_, span := s.start(ctx, "Grant", attribute.String("mission.key", key))
	defer func() { finish(span, err) }()

	defs := s.engine.Definitions()
	def, ok := defs.Get(key)
	if !ok {
		return record.Record{}, unknownMission(defs, key)
	}
	rec, err = s.engine.Grant(carrier, def)
	if err != nil {
		return record.Record{}, err
	}
	span.SetAttributes(attribute.String("mission.id", rec.DisplayID()))
	return rec, nil
}

// GrantRandom writes a random mission into carrier. An empty category
// draws a category by weight first.
func (s *Service) GrantRandom(ctx context.Context, carrier engine.Carrier, category string) (def definition.Definition, rec record.Record, err error) {
	_, span := s.start(ctx, "GrantRandom", attribute.String("mission.category", category))
	defer func() { finish(span, err) }()

	category = strings.TrimSpace(category)
	defs := s.engine.Definitions()
	var ok bool
	if category == "" {
		def, ok = s.engine.WeightedRandomDefault()
	} else {
		if !defs.HasCategory(category) {
			return definition.Definition{}, record.Record{}, unknownCategory(defs, category)
		}
		def, ok = s.engine.CategoryRandom(category)
	}
	if !ok {
		return definition.Definition{}, record.Record{}, apperrors.WrapWithMetadata(apperrors.CodeMissionNotFound,
			fmt.Sprintf("no mission found in category %q", category),
			map[string]string{"Category": category}, ErrEmptyCategory)
	}
	rec, err = s.engine.Grant(carrier, def)
	if err != nil {
		return definition.Definition{}, record.Record{}, err
	}
	span.SetAttributes(attribute.String("mission.key", def.Key))
	return def, rec, nil
}

// Claim claims the completed mission in carrier. A vetoed claim returns
// engine.ErrClaimVetoed with the outcome.
func (s *Service) Claim(ctx context.Context, holder engine.Holder, carrier engine.Carrier) (out engine.ClaimOutcome, err error) {
	_, span := s.start(ctx, "Claim")
	defer func() { finish(span, err) }()

	out, err = s.engine.Claim(holder, carrier)
	if err != nil {
		return out, err
	}
	span.SetAttributes(attribute.String("mission.key", out.Record.ConfigID()))
	if !out.Claimed {
		return out, apperrors.WrapWithMetadata(apperrors.CodeMissionClaimVetoed,
			fmt.Sprintf("claim of mission %s was vetoed", out.Record.ConfigID()),
			map[string]string{"ConfigID": out.Record.ConfigID()}, engine.ErrClaimVetoed)
	}
	return out, nil
}

// Edit applies an administrative mutation to the mission in carrier.
func (s *Service) Edit(ctx context.Context, carrier engine.Carrier, mutate engine.Mutation) (changed bool, err error) {
	_, span := s.start(ctx, "Edit")
	defer func() { finish(span, err) }()
	return s.engine.Edit(carrier, mutate)
}

// Inspect decodes the mission in carrier with its presentation tags.
func (s *Service) Inspect(ctx context.Context, carrier engine.Carrier) (mission engine.Mission, tags map[string]string, err error) {
	_, span := s.start(ctx, "Inspect")
	defer func() { finish(span, err) }()

	mission, err = s.engine.Inspect(carrier)
	if err != nil {
		return engine.Mission{}, nil, err
	}
	span.SetAttributes(
		attribute.String("mission.key", mission.Record.ConfigID()),
		attribute.Bool("mission.resolved", mission.Resolved),
	)
	return mission, s.engine.Tags(mission.Record, s.Config().TargetSplitter), nil
}

func (s *Service) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return s.tracer.Start(ctx, "missions."+name, trace.WithAttributes(attrs...))
}

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	}
	span.End()
}

func unknownMission(defs *definition.Table, key string) error {
	suggestion := defs.SuggestKey(key)
	msg := fmt.Sprintf("unknown mission %q", key)
	if suggestion != "" {
		msg += fmt.Sprintf(", did you mean %q?", suggestion)
	}
	return apperrors.WrapWithMetadata(apperrors.CodeMissionNotFound, msg,
		map[string]string{"Key": key, "Suggestion": suggestion}, ErrUnknownMission)
}

func unknownCategory(defs *definition.Table, category string) error {
	names := make([]string, 0, len(defs.Categories()))
	for _, c := range defs.Categories() {
		names = append(names, c.Name)
	}
	suggestion := definition.Suggest(category, names)
	msg := fmt.Sprintf("unknown category %q", category)
	if suggestion != "" {
		msg += fmt.Sprintf(", did you mean %q?", suggestion)
	}
	return apperrors.WrapWithMetadata(apperrors.CodeMissionCategoryUnknown, msg,
		map[string]string{"Category": category, "Suggestion": suggestion}, definition.ErrUnknownCategory)
}
