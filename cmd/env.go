package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/resure-ai/resure/internal/decision"
	"github.com/resure-ai/resure/internal/metrics"
	"github.com/resure-ai/resure/internal/pipeline"
	"github.com/resure-ai/resure/internal/ratetable"
	"github.com/resure-ai/resure/internal/resilience"
	"github.com/resure-ai/resure/internal/store"
)

// engineEnv holds the loaded tables, the pipeline, the decision engine and,
// when requested, an open store.
type engineEnv struct {
	Tables   *ratetable.Tables
	Pipeline *pipeline.Pipeline
	Decider  *decision.Engine
	Recorder *metrics.Recorder
	Store    store.Store // may be nil
}

// Close releases resources held by the environment.
func (e *engineEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// loadTables reads the --rates override, falling back to the configured path
// and then the built-in tables.
func loadTables() (*ratetable.Tables, error) {
	path := ratesPath
	if path == "" {
		path = cfg.Engine.RateTablesPath
	}
	tables, err := ratetable.LoadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "load rate tables")
	}
	if path != "" {
		zap.L().Info("loaded rate-table override", zap.String("path", path))
	}
	return tables, nil
}

// initEngine builds the pipeline and decision engine. With withStore set it
// also opens and migrates the configured store. Callers should defer
// env.Close().
func initEngine(ctx context.Context, withStore bool) (*engineEnv, error) {
	tables, err := loadTables()
	if err != nil {
		return nil, err
	}

	rec := metrics.NewRecorder()
	env := &engineEnv{
		Tables:   tables,
		Pipeline: pipeline.New(cfg.Engine, tables, rec),
		Decider:  decision.New(cfg.Decision),
		Recorder: rec,
	}

	if withStore {
		st, err := openStore(ctx)
		if err != nil {
			return nil, err
		}
		env.Store = st
	}
	return env, nil
}

// openStore opens and migrates the configured store.
func openStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("runs"); err != nil {
		return nil, err
	}
	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = cfg.Store.OpenAttempts
	retry.OnRetry = resilience.RetryLogger("store", "open")
	st, err := resilience.DoVal(ctx, retry, initStore)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}
