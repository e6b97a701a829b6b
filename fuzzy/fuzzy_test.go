package fuzzy

import (
	"slices"
	"testing"

	"github.com/hupe1980/wikidex/index/lookup"
	"github.com/hupe1980/wikidex/record"
	"github.com/hupe1980/wikidex/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "functions p example", Normalize("  Functions P_Example!! "))
	assert.Equal(t, "", Normalize("--__--"))
	assert.Equal(t, "mobj t", Normalize("mobj_t"))
}

func TestScorers(t *testing.T) {
	tests := []struct {
		name   string
		scorer Scorer
		a, b   string
		want   int
	}{
		{"ratio identical", Ratio, "apple", "apple", 100},
		{"ratio typo", Ratio, "aple", "apple", 95},
		{"ratio empty", Ratio, "", "apple", 0},
		{"levenshtein", LevenshteinRatio, "kitten", "sitting", 57},
		{"partial", PartialRatio, "example", "functions p example", 100},
		{"token sort", TokenSortRatio, "b a", "a b", 100},
		{"token set", TokenSetRatio, "p example", "example p thing", 100},
		{"weighted typo", WeightedRatio, "aple", "apple", 95},
		{"weighted partial", WeightedRatio, "p example", "functions p example", 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scorer(tt.a, tt.b))
		})
	}
}

func TestRatioRunes(t *testing.T) {
	assert.Equal(t, Ratio("cafx", "cafe"), Ratio("café", "cafe"))
	assert.Equal(t, Ratio("xa", "ya"), Ratio("éa", "èa"), "runes sharing a leading byte still differ")
	assert.Equal(t, 100, Ratio("über", "über"))
	assert.Equal(t, 100, PartialRatio("café", "le café noir"))
}

func TestScoreNormalizes(t *testing.T) {
	assert.Equal(t, 100, Score(Ratio, "P_Example", "p example"))
}

func TestScorerByName(t *testing.T) {
	for _, name := range []string{"", "weighted", "ratio", "partial", "token_sort", "token_set", "levenshtein"} {
		s, ok := ScorerByName(name)
		assert.True(t, ok, name)
		assert.NotNil(t, s, name)
	}
	_, ok := ScorerByName("soundex")
	assert.False(t, ok)
}

func TestExtractTop(t *testing.T) {
	keys := slices.Values([]string{"banana", "apple", "apples", "apple!"})
	got := ExtractTop("apple", keys, 2, 90, nil)
	require.Len(t, got, 2)
	assert.Equal(t, Candidate{Key: "apple", Score: 100}, got[0])
	assert.Equal(t, Candidate{Key: "apple!", Score: 100}, got[1])
	assert.Len(t, Best(got), 2)
	assert.Nil(t, Best(nil))
}

func newLookup(t *testing.T, pairs ...record.Pair) *lookup.Lookup {
	t.Helper()
	l, err := lookup.New(pairs)
	require.NoError(t, err)
	return l
}

func TestResolveTypo(t *testing.T) {
	a := testutil.Common("A", "")
	b := testutil.Common("B", "")
	l := newLookup(t, record.Pair{Query: "apple", Record: a}, record.Pair{Query: "banana", Record: b})

	m, err := NewResolver(l).Resolve("aple")
	require.NoError(t, err)
	assert.Equal(t, a, m.Record)
	assert.Equal(t, "apple", m.Key)
	assert.Equal(t, 95, m.Score)
	assert.Equal(t, 1, m.TieSize)
}

func TestResolvePicksAmongRecords(t *testing.T) {
	a := testutil.Common("A", "")
	b := testutil.Common("B", "")
	l := newLookup(t, record.Pair{Query: "x", Record: a}, record.Pair{Query: "x", Record: b})

	seq := testutil.NewSequence(0, 1)
	r := NewResolver(l, WithRand(seq))

	m, err := r.Resolve("x")
	require.NoError(t, err)
	assert.Equal(t, a, m.Record)
	assert.Equal(t, 2, m.Choices)

	m, err = r.Resolve("x")
	require.NoError(t, err)
	assert.Equal(t, b, m.Record)
	assert.Equal(t, []int{2, 2}, seq.Calls())
}

func TestResolveDistribution(t *testing.T) {
	a := testutil.Common("A", "")
	b := testutil.Common("B", "")
	l := newLookup(t, record.Pair{Query: "x", Record: a}, record.Pair{Query: "x", Record: b})
	r := NewResolver(l, WithRand(testutil.NewRNG(7)))

	seen := map[record.Record]int{}
	for range 200 {
		m, err := r.Resolve("x")
		require.NoError(t, err)
		seen[m.Record]++
	}
	assert.Positive(t, seen[a])
	assert.Positive(t, seen[b])
}

func TestResolveSingleRecordSkipsRand(t *testing.T) {
	l := newLookup(t, record.Pair{Query: "apple", Record: testutil.Common("A", "")})
	seq := testutil.NewSequence()
	_, err := NewResolver(l, WithRand(seq)).Resolve("apple")
	require.NoError(t, err)
	assert.Empty(t, seq.Calls())
}

func TestResolveTieTakesFirstKey(t *testing.T) {
	first := testutil.Common("First", "")
	second := testutil.Common("Second", "")
	l := newLookup(t,
		record.Pair{Query: "apple!", Record: first},
		record.Pair{Query: "apple", Record: second},
	)
	m, err := NewResolver(l).Resolve("apple")
	require.NoError(t, err)
	assert.Equal(t, first, m.Record)
	assert.Equal(t, 2, m.TieSize)
}

func TestResolveNoMatch(t *testing.T) {
	l := newLookup(t, record.Pair{Query: "apple", Record: testutil.Common("A", "")})
	_, err := NewResolver(l).Resolve("zzzz")
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = NewResolver(newLookup(t)).Resolve("apple")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestResolveTags(t *testing.T) {
	fn := testutil.Function("apple")
	common := testutil.Common("apples", "")
	l := newLookup(t, record.Pair{Query: "apple", Record: fn}, record.Pair{Query: "apples", Record: common})

	r := NewResolver(l)
	m, err := r.Resolve("apple", record.TagCommon)
	require.NoError(t, err)
	assert.Equal(t, common, m.Record)

	_, err = r.Resolve("apple", record.TagFlag)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestResolveKey(t *testing.T) {
	l := newLookup(t, record.Pair{Query: "apple", Record: testutil.Common("A", "")})
	c, ties, err := NewResolver(l).ResolveKey("APPLE")
	require.NoError(t, err)
	assert.Equal(t, Candidate{Key: "apple", Score: 100}, c)
	assert.Equal(t, 1, ties)
}

func TestSubsequence(t *testing.T) {
	a := testutil.Function("P_MobjThinker")
	l := newLookup(t,
		record.Pair{Query: "function p_mobjthinker", Record: a},
		record.Pair{Query: "banana", Record: testutil.Common("B", "")},
	)
	s := NewSubsequence(l, nil)

	m, err := s.Resolve("mobjthink")
	require.NoError(t, err)
	assert.Equal(t, a, m.Record)

	_, err = s.Resolve("qqq")
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = s.Resolve("mobjthink", record.TagCommon)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestChain(t *testing.T) {
	a := testutil.Common("A", "")
	l := newLookup(t, record.Pair{Query: "apple", Record: a})

	strict := NewResolver(l, WithCutoff(100))
	_, err := strict.Resolve("aple")
	require.ErrorIs(t, err, ErrNoMatch)

	m, err := Chain(strict, NewSubsequence(l, nil)).Resolve("aple")
	require.NoError(t, err)
	assert.Equal(t, a, m.Record)

	_, err = Chain(strict).Resolve("zzz")
	assert.ErrorIs(t, err, ErrNoMatch)
}
