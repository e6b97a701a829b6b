package dictionary

import (
	"fmt"
	"slices"
	"testing"

	"github.com/hupe1980/wikidex/codec"
	"github.com/hupe1980/wikidex/record"
	"github.com/hupe1980/wikidex/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIntegrity(t *testing.T) {
	b := NewBuilder()
	want := map[string]record.Record{
		"mobj_t":              testutil.Struct("mobj_t", "General"),
		"mobj_t x":            testutil.Field("mobj_t", "x"),
		"functions p_example": testutil.Function("P_Example"),
		"soc":                 testutil.Common("SOC", "Object configuration."),
	}
	for k, r := range want {
		require.NoError(t, b.Add(k, r))
	}

	for k, r := range want {
		got, ok := b.TryGet(k)
		require.True(t, ok, k)
		assert.Equal(t, r, got, k)
	}

	d := b.Close()
	for k, r := range want {
		got, ok := d.TryGet(k)
		require.True(t, ok, k)
		assert.Equal(t, r, got, k)

		got, ok = b.TryGet(k)
		require.True(t, ok, k)
		assert.Equal(t, r, got, k)
	}
	assert.Equal(t, len(want), d.Count())

	_, ok := d.TryGet("never added")
	assert.False(t, ok)
}

func TestDedup(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add("mobj_t x", testutil.Field("mobj_t", "x")))
	require.NoError(t, b.Add("mobj x", testutil.Field("mobj_t", "x")))
	require.NoError(t, b.Add("object x", testutil.Field("mobj_t", "x")))

	assert.Equal(t, 3, b.Count())
	assert.Equal(t, 1, b.DistinctValues())
	assert.Equal(t, 2, b.Stats().DedupHits)

	require.NoError(t, b.Add("mobj_t y", testutil.Field("mobj_t", "y")))
	assert.Equal(t, 2, b.DistinctValues())

	d := b.Close()
	assert.Equal(t, 2, d.DistinctValues())
	assert.Equal(t, 4, d.Count())
}

func TestFreeze(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add("a", testutil.Function("A")))
	d := b.Close()

	assert.True(t, b.Closed())
	assert.Same(t, d, b.Close())

	err := b.Add("b", testutil.Function("B"))
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, 1, b.Count())
	assert.Equal(t, 1, d.Count())

	_, ok := d.TryGet("b")
	assert.False(t, ok)
	_, ok = b.TryGet("b")
	assert.False(t, ok)
}

func TestAddNilRecord(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add("x", testutil.Function("X")))

	assert.ErrorIs(t, b.Add("y", nil), codec.ErrNilRecord)
	assert.ErrorIs(t, b.Add("x", (*record.Function)(nil)), codec.ErrNilRecord, "checked before the duplicate key short-cut")
	assert.Equal(t, 1, b.Count())
}

func TestFirstWriterWins(t *testing.T) {
	b := NewBuilder()
	first := testutil.Function("First")
	require.NoError(t, b.Add("k", first))
	require.NoError(t, b.Add("k", testutil.Common("Second", "other")))

	got, ok := b.TryGet("k")
	require.True(t, ok)
	assert.Equal(t, first, got)
	assert.Equal(t, 1, b.Stats().Collisions)
	assert.Equal(t, 1, b.DistinctValues())
}

func TestKeysAndTags(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add("z", testutil.Function("Z")))
	require.NoError(t, b.Add("a", testutil.Common("A", "")))
	d := b.Close()

	assert.Equal(t, []string{"z", "a"}, slices.Collect(d.Keys()))

	tags := map[string]record.Tag{}
	for k, tag := range d.Tags() {
		tags[k] = tag
	}
	assert.Equal(t, map[string]record.Tag{"z": record.TagFunction, "a": record.TagCommon}, tags)
}

func TestCodecOptions(t *testing.T) {
	for _, o := range []codec.Options{
		{Codec: codec.CBOR{}, Compression: codec.CompressionNone},
		{Codec: codec.JSON{}, Compression: codec.CompressionZSTD},
	} {
		t.Run(o.String(), func(t *testing.T) {
			b := NewBuilder(WithCodec(o), WithSizeHint(8))
			require.NoError(t, b.Add("k", testutil.Function("K")))
			got, ok := b.Close().TryGet("k")
			require.True(t, ok)
			assert.Equal(t, testutil.Function("K"), got)
		})
	}
}

func TestAddUnregistered(t *testing.T) {
	b := NewBuilder()
	err := b.Add("k", &bogus{})
	assert.ErrorIs(t, err, codec.ErrUnknownTag)
	assert.Equal(t, 0, b.Count())
}

type bogus struct{ record.Entry }

func (*bogus) Tag() record.Tag { return record.Tag(240) }

func TestDump(t *testing.T) {
	b := NewBuilder()
	for i := range 20 {
		require.NoError(t, b.Add(fmt.Sprintf("mobj_t f%d", i), testutil.Field("mobj_t", fmt.Sprintf("f%d", i%5))))
	}
	d := b.Close()

	data, err := d.SerializeAll()
	require.NoError(t, err)

	info, err := ReadDump(data)
	require.NoError(t, err)
	assert.Equal(t, 20, info.Keys)
	assert.Equal(t, 5, info.Values)
	assert.Equal(t, "cbor", info.Codec)
	assert.Equal(t, codec.CompressionLZ4, info.Compression)

	loaded, err := Load(data)
	require.NoError(t, err)
	assert.Equal(t, d.Count(), loaded.Count())
	for k := range d.Keys() {
		want, _ := d.TryGet(k)
		got, ok := loaded.TryGet(k)
		require.True(t, ok, k)
		assert.Equal(t, want, got)
	}

	t.Run("deterministic", func(t *testing.T) {
		again, err := d.SerializeAll()
		require.NoError(t, err)
		assert.Equal(t, data, again)
	})

	t.Run("damaged", func(t *testing.T) {
		bad := slices.Clone(data)
		bad[len(bad)/2] ^= 0xff
		_, err := ReadDump(bad)
		assert.ErrorIs(t, err, ErrBadDump)

		_, err = ReadDump(data[:10])
		assert.ErrorIs(t, err, ErrBadDump)

		_, err = Load([]byte("nope"))
		assert.ErrorIs(t, err, ErrBadDump)
	})
}
