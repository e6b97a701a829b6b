package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/hupe1980/wikidex"
	"github.com/hupe1980/wikidex/blobstore"
	"github.com/hupe1980/wikidex/blobstore/minio"
	"github.com/hupe1980/wikidex/blobstore/s3"
	"github.com/hupe1980/wikidex/config"
	"github.com/hupe1980/wikidex/counter"
	"github.com/hupe1980/wikidex/counter/ddb"
	"github.com/hupe1980/wikidex/source"
	"github.com/hupe1980/wikidex/util"
)

// loadConfig reads --config, then $WIKIDEX_CONFIG, then falls back to
// defaults.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case configPath != "":
		cfg, err = config.LoadFile(configPath)
	default:
		cfg, err = config.Load()
		if errors.Is(err, config.ErrNoConfig) {
			cfg, err = config.Default(), nil
		}
	}
	if err != nil {
		return nil, err
	}

	if verbose {
		cfg.Log.Level = "debug"
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config) *wikidex.Logger {
	level, err := cfg.LogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	if cfg.Log.Format == "json" {
		return wikidex.NewJSONLogger(level)
	}
	return wikidex.NewTextLogger(level)
}

func openStore(ctx context.Context, cfg *config.Config) (blobstore.Store, error) {
	var (
		store blobstore.Store
		err   error
	)
	sc := cfg.Store
	switch sc.Kind {
	case config.StoreLocal:
		store = blobstore.NewLocalStore(sc.Root)
	case config.StoreMemory:
		store = blobstore.NewMemoryStore()
	case config.StoreS3:
		store, err = s3.New(ctx, sc.Bucket, sc.Prefix)
	case config.StoreMinio:
		store, err = minio.Connect(sc.Endpoint, os.Getenv(sc.AccessKeyEnv), os.Getenv(sc.SecretKeyEnv), sc.Secure, sc.Bucket, sc.Prefix)
	default:
		err = fmt.Errorf("unknown store kind %q", sc.Kind)
	}
	if err != nil {
		return nil, err
	}

	if sc.CacheSize > 0 {
		cs, err := blobstore.NewCachingStore(store, sc.CacheSize)
		if err != nil {
			return nil, err
		}
		return cs, nil
	}
	return store, nil
}

// sources lists the configured sources in the order they take precedence.
func sources(cfg *config.Config, store blobstore.Store) []source.Source {
	var out []source.Source
	if blob := cfg.Sources.Commons; blob != "" {
		out = append(out,
			source.Commons(store, blob, source.SectionCommons),
			source.Commons(store, blob, source.SectionPrimitives),
		)
	}
	if blob := cfg.Sources.Functions; blob != "" {
		out = append(out, source.Functions(store, blob))
	}
	if prefix := cfg.Sources.Structs; prefix != "" {
		out = append(out, source.Structs(store, prefix))
	}
	return out
}

func persister(ctx context.Context, cfg *config.Config, store blobstore.Store) (counter.Persister, error) {
	if cfg.Counter.Backend == config.CounterDynamoDB {
		p, err := ddb.NewFromConfig(ctx, cfg.Counter.Table, cfg.Counter.ID)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return counter.NewBlobPersister(store, cfg.Counter.Blob), nil
}

// openIndex builds the index described by the configuration.
func openIndex(ctx context.Context) (*wikidex.Index, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	p, err := persister(ctx, cfg, store)
	if err != nil {
		return nil, fmt.Errorf("open counter: %w", err)
	}
	codecOpts, err := cfg.CodecOptions()
	if err != nil {
		return nil, err
	}
	interval, err := cfg.FlushInterval()
	if err != nil {
		return nil, err
	}

	b := wikidex.New().
		Sources(sources(cfg, store)...).
		Codec(codecOpts).
		Logger(newLogger(cfg)).
		Store(store).
		Counter(cfg.Counter.Blob, interval, cfg.Counter.Milestones...).
		CounterPersister(p).
		Cutoff(cfg.Fuzzy.Cutoff).
		Limit(cfg.Fuzzy.Limit).
		Scorer(cfg.Scorer()).
		CacheSize(cfg.Fuzzy.CacheSize).
		SkipFailedSources(cfg.SkipFailedSources)
	if seed != 0 {
		b = b.Rand(util.NewRNG(seed))
	}
	return b.Build(ctx)
}
