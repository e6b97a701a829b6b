package wikidex

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/wikidex/blobstore"
	"github.com/hupe1980/wikidex/codec"
	"github.com/hupe1980/wikidex/record"
	"github.com/hupe1980/wikidex/source"
)

func TestBuilder_Immutable(t *testing.T) {
	base := New().Cutoff(80)
	a := base.Sources(source.Slice("a"))
	b := base.Sources(source.Slice("b")).Limit(3)

	assert.Empty(t, base.sources)
	require.Len(t, a.sources, 1)
	require.Len(t, b.sources, 1)
	assert.Equal(t, "a", a.sources[0].Name())
	assert.Equal(t, "b", b.sources[0].Name())
	assert.Len(t, base.fuzzyFns, 1)
	assert.Len(t, b.fuzzyFns, 2)
}

func TestBuilder_Options(t *testing.T) {
	store := blobstore.NewMemoryStore()
	l := NoopLogger()

	opts := defaultOptions()
	for _, fn := range New().
		Codec(codec.Options{Codec: codec.JSON{}, Compression: codec.CompressionZSTD}).
		Logger(l).
		Store(store).
		Counter("hits", time.Minute, 10).
		Cutoff(70).
		CacheSize(0).
		SkipFailedSources(true).
		Options() {
		fn(&opts)
	}

	assert.Equal(t, "json", opts.codec.Codec.Name())
	assert.Equal(t, codec.CompressionZSTD, opts.codec.Compression)
	assert.Same(t, l, opts.logger)
	assert.Same(t, store, opts.store)
	assert.NotNil(t, opts.persister)
	assert.Len(t, opts.counterOptions, 2)
	assert.Len(t, opts.fuzzyOptions, 1)
	assert.Equal(t, 0, opts.cacheSize)
	assert.True(t, opts.skipFailedSources)
}

func TestBuilder_Defaults(t *testing.T) {
	opts := defaultOptions()
	for _, fn := range New().Options() {
		fn(&opts)
	}
	assert.Nil(t, opts.store)
	assert.Nil(t, opts.persister)
	assert.Equal(t, DefaultCacheSize, opts.cacheSize)
	assert.IsType(t, NoopMetricsCollector{}, opts.metricsCollector)
}

func TestBuilder_CodecRoundTrip(t *testing.T) {
	ctx := context.Background()
	fn := &record.Function{Entry: record.Entry{Name: "P_Example"}, Signature: "P_Example()"}

	for _, o := range []codec.Options{
		{Codec: codec.CBOR{}, Compression: codec.CompressionNone},
		{Codec: codec.JSON{}, Compression: codec.CompressionLZ4},
		{Codec: codec.CBOR{}, Compression: codec.CompressionZSTD},
	} {
		t.Run(o.String(), func(t *testing.T) {
			idx, err := New().
				Sources(source.Slice("f", record.Pair{Query: "P_Example", Record: fn})).
				Codec(o).
				Build(ctx)
			require.NoError(t, err)

			got, ok := idx.TryGet("P_Example")
			require.True(t, ok)
			assert.Equal(t, fn, got)
		})
	}
}

func TestBuilder_MustBuildPanics(t *testing.T) {
	assert.Panics(t, func() {
		New().MustBuild(context.Background())
	})
}
