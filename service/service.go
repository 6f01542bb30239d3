package service

import (
	"context"

	featuregate "github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-masker"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-activitylog/batch"
	"github.com/goliatone/go-activitylog/command"
	"github.com/goliatone/go-activitylog/export"
	"github.com/goliatone/go-activitylog/pkg/types"
	"github.com/goliatone/go-activitylog/query"
	"github.com/goliatone/go-activitylog/store"
)

// Service is the entry point for go-activitylog. It wires the store, batcher,
// and command/query facades from dependencies supplied by the host application.
type Service struct {
	cfg      Config
	settings Settings
	store    types.Store
	batcher  *batch.Batcher
	commands Commands
	queries  Queries
	exporter *export.CSVExporter
}

// Commands exposes the service command handlers.
type Commands struct {
	Log     *command.LogCommand
	Cleanup *command.CleanupCommand
}

// Queries exposes read-model helpers.
type Queries struct {
	Feed       *query.FeedQuery
	Stats      *query.StatsQuery
	Suspicious *query.SuspiciousQuery
}

// Config captures all dependencies so callers can provide their own instances
// (bun.DB, cached repositories, hooks, feature gates, etc.). Either DB or
// Store must be set; everything else has working defaults.
type Config struct {
	DB    *bun.DB
	Store types.Store

	Logger      types.Logger
	Clock       types.Clock
	IDGenerator types.IDGenerator
	Hooks       types.Hooks
	Gate        featuregate.FeatureGate
	Enricher    store.Enricher
	Masker      *masker.Masker

	// Settings overrides the built-in batching/retention defaults. Keys are
	// the Setting* constants; values merge over defaults via go-options.
	Settings map[string]any

	// CacheEnabled wraps the repository with go-repository-cache.
	CacheEnabled bool
}

// New constructs a Service from the supplied configuration.
func New(cfg Config) (*Service, error) {
	norm := normalizeConfig(cfg)

	st := norm.Store
	if st == nil {
		if norm.DB == nil {
			return nil, types.ErrMissingStore
		}
		var repoOpts []store.RepositoryOption
		if norm.CacheEnabled {
			repoOpts = append(repoOpts, store.WithCache(true))
		}
		repo, err := store.NewRepository(store.RepositoryConfig{
			DB:     norm.DB,
			Clock:  norm.Clock,
			IDGen:  norm.IDGenerator,
			Masker: norm.Masker,
		}, repoOpts...)
		if err != nil {
			return nil, err
		}
		st = repo
	}

	settings, err := resolveSettings(norm.Settings)
	if err != nil {
		return nil, err
	}

	batcher, err := batch.New(batch.Config{
		Store:      st,
		Logger:     norm.Logger,
		IDGen:      norm.IDGenerator,
		Hooks:      norm.Hooks,
		Enricher:   norm.Enricher,
		Gate:       norm.Gate,
		FlushSize:  settings.FlushSize,
		FlushDelay: settings.FlushDelay,
	})
	if err != nil {
		return nil, err
	}

	s := &Service{
		cfg:      norm,
		settings: settings,
		store:    st,
		batcher:  batcher,
	}
	s.commands = Commands{
		Log: command.NewLogCommand(command.LogConfig{
			Recorder: batcher,
			Hooks:    norm.Hooks,
		}),
		Cleanup: command.NewCleanupCommand(command.CleanupConfig{
			Repository:    st,
			Clock:         norm.Clock,
			Logger:        norm.Logger,
			Hooks:         norm.Hooks,
			RetentionDays: settings.RetentionDays,
		}),
	}
	s.queries = Queries{
		Feed:  query.NewFeedQuery(st),
		Stats: query.NewStatsQuery(st),
		Suspicious: query.NewSuspiciousQuery(query.SuspiciousQueryConfig{
			Repository: st,
			Clock:      norm.Clock,
			Gate:       norm.Gate,
		}),
	}
	s.exporter = export.NewCSVExporter(s.queries.Feed)
	return s, nil
}

func normalizeConfig(cfg Config) Config {
	if cfg.Clock == nil {
		cfg.Clock = types.SystemClock{}
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = types.UUIDGenerator{}
	}
	if cfg.Logger == nil {
		cfg.Logger = types.NopLogger{}
	}
	if cfg.Enricher == nil {
		cfg.Enricher = store.ClientContextEnricher()
	}
	return cfg
}

// Commands returns the command facade.
func (s *Service) Commands() Commands {
	return s.commands
}

// Queries returns the query facade.
func (s *Service) Queries() Queries {
	return s.queries
}

// Recorder returns the buffered recorder hosts hand to their middleware.
func (s *Service) Recorder() types.Recorder {
	return s.batcher
}

// Store returns the underlying persistence layer.
func (s *Service) Store() types.Store {
	return s.store
}

// Exporter returns the CSV export helper.
func (s *Service) Exporter() *export.CSVExporter {
	return s.exporter
}

// Settings returns the effective batching and retention configuration.
func (s *Service) Settings() Settings {
	return s.settings
}

// Log buffers an entry for eventual persistence. It never blocks on storage.
func (s *Service) Log(ctx context.Context, entry types.Entry) {
	s.batcher.Log(ctx, entry)
}

// Flush drains the pending buffer synchronously.
func (s *Service) Flush(ctx context.Context) error {
	return s.batcher.Flush(ctx)
}

// Close flushes pending entries and stops the flush timer. The service must
// not be used after Close.
func (s *Service) Close(ctx context.Context) error {
	return s.batcher.Close(ctx)
}

// Ready reports whether the service has the required dependencies wired in.
func (s *Service) Ready() bool {
	return s != nil && s.store != nil && s.batcher != nil
}

// HealthCheck surfaces missing configuration to upstream transports.
func (s *Service) HealthCheck(ctx context.Context) error {
	if !s.Ready() {
		return types.ErrMissingStore
	}
	return nil
}
