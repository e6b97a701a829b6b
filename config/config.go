// Package config provides configuration loading for wikidex.
//
// Configuration is loaded from a single YAML file specified by:
//   - WIKIDEX_CONFIG environment variable, or
//   - --config flag passed to the command
//
// Values missing from the file keep their Default. ${VAR} and
// ${VAR:-default} are expanded in paths, bucket names and endpoints.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/wikidex/codec"
	"github.com/hupe1980/wikidex/fuzzy"
)

// EnvConfig names the environment variable Load reads the path from.
const EnvConfig = "WIKIDEX_CONFIG"

// ErrNoConfig is returned by Load when EnvConfig is not set.
var ErrNoConfig = errors.New(EnvConfig + " environment variable not set")

// Store kinds.
const (
	StoreLocal  = "local"
	StoreMemory = "memory"
	StoreS3     = "s3"
	StoreMinio  = "minio"
)

// Counter backends.
const (
	CounterBlob     = "blob"
	CounterDynamoDB = "dynamodb"
)

// Config is the wikidex configuration.
type Config struct {
	// Store configures where sources, dumps and the query count live.
	Store StoreConfig `yaml:"store"`

	// Sources names the blobs the index is built from.
	Sources SourcesConfig `yaml:"sources"`

	// Codec is the record codec: cbor or json.
	// Default: cbor
	Codec string `yaml:"codec"`

	// Compression is the record compression: none, lz4 or zstd.
	// Default: lz4
	Compression string `yaml:"compression"`

	// SkipFailedSources builds from the remaining sources when one fails.
	SkipFailedSources bool `yaml:"skip_failed_sources"`

	Fuzzy   FuzzyConfig   `yaml:"fuzzy"`
	Counter CounterConfig `yaml:"counter"`
	Log     LogConfig     `yaml:"log"`
}

// StoreConfig configures the blob store.
type StoreConfig struct {
	// Kind is local, memory, s3 or minio.
	// Default: local
	Kind string `yaml:"kind"`

	// Root is the directory of a local store.
	// Default: ./wiki
	Root string `yaml:"root"`

	// Bucket and Prefix locate blobs in s3 and minio stores.
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`

	// Endpoint is the minio server, e.g. localhost:9000.
	Endpoint string `yaml:"endpoint"`
	Secure   bool   `yaml:"secure"`

	// AccessKeyEnv and SecretKeyEnv name the environment variables holding
	// minio credentials. Credentials never live in the file.
	// Default: MINIO_ACCESS_KEY, MINIO_SECRET_KEY
	AccessKeyEnv string `yaml:"access_key_env"`
	SecretKeyEnv string `yaml:"secret_key_env"`

	// CacheSize is the number of blobs kept in memory after a read.
	// Zero disables the cache.
	CacheSize int `yaml:"cache_size"`
}

// SourcesConfig names the source blobs. Empty names are skipped.
type SourcesConfig struct {
	// Commons is the common searches file, YAML or JSON by extension.
	// Both its commons and primitives sections are read.
	// Default: commons.yaml
	Commons string `yaml:"commons"`

	// Functions is the saved Lua functions wiki page.
	// Default: functions.wiki
	Functions string `yaml:"functions"`

	// Structs is the prefix of the saved userdata structure pages.
	// Default: structs/
	Structs string `yaml:"structs"`
}

// FuzzyConfig configures approximate matching.
type FuzzyConfig struct {
	// Cutoff is the minimum score, 0 to 100.
	// Default: 90
	Cutoff int `yaml:"cutoff"`

	// Limit is the number of top candidates considered.
	// Default: 5
	Limit int `yaml:"limit"`

	// Scorer is weighted, ratio, partial, token_sort, token_set or levenshtein.
	// Default: weighted
	Scorer string `yaml:"scorer"`

	// CacheSize is the number of resolved queries remembered.
	// Default: 1024
	CacheSize int `yaml:"cache_size"`
}

// CounterConfig configures the query counter.
type CounterConfig struct {
	// Backend is blob or dynamodb.
	// Default: blob
	Backend string `yaml:"backend"`

	// Blob is the store blob the count is kept in.
	// Default: querycount
	Blob string `yaml:"blob"`

	// Table and ID locate the DynamoDB item.
	Table string `yaml:"table"`
	ID    string `yaml:"id"`

	// FlushInterval is the minimum time between saves.
	// Default: 5m
	FlushInterval string `yaml:"flush_interval"`

	// Milestones replace the default milestone set when not empty.
	Milestones []uint64 `yaml:"milestones"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	// Default: info
	Level string `yaml:"level"`

	// Format is text or json.
	// Default: text
	Format string `yaml:"format"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Kind:         StoreLocal,
			Root:         "./wiki",
			AccessKeyEnv: "MINIO_ACCESS_KEY",
			SecretKeyEnv: "MINIO_SECRET_KEY",
		},
		Sources: SourcesConfig{
			Commons:   "commons.yaml",
			Functions: "functions.wiki",
			Structs:   "structs/",
		},
		Codec:       "cbor",
		Compression: "lz4",
		Fuzzy: FuzzyConfig{
			Cutoff:    fuzzy.DefaultCutoff,
			Limit:     fuzzy.DefaultLimit,
			Scorer:    "weighted",
			CacheSize: 1024,
		},
		Counter: CounterConfig{
			Backend:       CounterBlob,
			Blob:          "querycount",
			FlushInterval: "5m",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from the file named by WIKIDEX_CONFIG.
func Load() (*Config, error) {
	path := os.Getenv(EnvConfig)
	if path == "" {
		return nil, ErrNoConfig
	}
	return LoadFile(path)
}

// LoadFile loads and validates configuration from path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse reads configuration from YAML data on top of Default.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.expandVariables()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) expandVariables() {
	c.Store.Root = expandVars(c.Store.Root)
	c.Store.Bucket = expandVars(c.Store.Bucket)
	c.Store.Prefix = expandVars(c.Store.Prefix)
	c.Store.Endpoint = expandVars(c.Store.Endpoint)
	c.Counter.Table = expandVars(c.Counter.Table)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	kinds := []string{StoreLocal, StoreMemory, StoreS3, StoreMinio}
	if !slices.Contains(kinds, c.Store.Kind) {
		errs = append(errs, fmt.Errorf("store.kind must be one of: %v", kinds))
	}
	switch c.Store.Kind {
	case StoreLocal:
		if c.Store.Root == "" {
			errs = append(errs, errors.New("store.root is required for a local store"))
		}
	case StoreS3, StoreMinio:
		if c.Store.Bucket == "" {
			errs = append(errs, fmt.Errorf("store.bucket is required for a %s store", c.Store.Kind))
		}
	}
	if c.Store.Kind == StoreMinio && c.Store.Endpoint == "" {
		errs = append(errs, errors.New("store.endpoint is required for a minio store"))
	}
	if c.Store.CacheSize < 0 {
		errs = append(errs, errors.New("store.cache_size must not be negative"))
	}

	if _, err := c.CodecOptions(); err != nil {
		errs = append(errs, err)
	}

	if c.Fuzzy.Cutoff < 0 || c.Fuzzy.Cutoff > 100 {
		errs = append(errs, fmt.Errorf("fuzzy.cutoff must be between 0 and 100, got %d", c.Fuzzy.Cutoff))
	}
	if c.Fuzzy.Limit < 1 {
		errs = append(errs, fmt.Errorf("fuzzy.limit must be at least 1, got %d", c.Fuzzy.Limit))
	}
	if _, ok := fuzzy.ScorerByName(c.Fuzzy.Scorer); !ok {
		errs = append(errs, fmt.Errorf("fuzzy.scorer: unknown scorer %q", c.Fuzzy.Scorer))
	}

	switch c.Counter.Backend {
	case CounterBlob:
	case CounterDynamoDB:
		if c.Counter.Table == "" {
			errs = append(errs, errors.New("counter.table is required for the dynamodb backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("counter.backend must be one of: %v", []string{CounterBlob, CounterDynamoDB}))
	}
	if _, err := c.FlushInterval(); err != nil {
		errs = append(errs, err)
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	if f := c.Log.Format; f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", f))
	}

	return errors.Join(errs...)
}

// CodecOptions returns the configured codec and compression.
func (c *Config) CodecOptions() (codec.Options, error) {
	cd, ok := codec.ByName(strings.ToLower(c.Codec))
	if !ok {
		return codec.Options{}, fmt.Errorf("codec: unknown codec %q", c.Codec)
	}
	comp, err := codec.ParseCompression(c.Compression)
	if err != nil {
		return codec.Options{}, fmt.Errorf("compression: %w", err)
	}
	return codec.Options{Codec: cd, Compression: comp}, nil
}

// Scorer returns the configured similarity function.
func (c *Config) Scorer() fuzzy.Scorer {
	s, ok := fuzzy.ScorerByName(c.Fuzzy.Scorer)
	if !ok {
		return fuzzy.WeightedRatio
	}
	return s
}

// FlushInterval parses Counter.FlushInterval. Empty means save on every query.
func (c *Config) FlushInterval() (time.Duration, error) {
	if c.Counter.FlushInterval == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Counter.FlushInterval)
	if err != nil {
		return 0, fmt.Errorf("counter.flush_interval: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("counter.flush_interval must not be negative, got %s", d)
	}
	return d, nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}
