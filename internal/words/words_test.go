package words

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func TestEncode_Cat(t *testing.T) {
	got, err := Encode("Cat")
	require.NoError(t, err)
	assert.Equal(t, "01000011 01100001 01110100", got)
}

func TestEncode_Empty(t *testing.T) {
	got, err := Encode("")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestEncode_RejectsWideRunes(t *testing.T) {
	_, err := Encode("héllo€")
	assert.ErrorIs(t, err, ErrNotEncodable)

	// Latin-1 still fits in a byte.
	got, err := Encode("é")
	require.NoError(t, err)
	assert.Equal(t, "11101001", got)
}

func TestDecode_RoundTripsEveryTier(t *testing.T) {
	table, err := DefaultTable()
	require.NoError(t, err)

	for _, tier := range Tiers() {
		spec, ok := table.Spec(tier)
		require.True(t, ok)
		for _, w := range spec.Words {
			bin, err := Encode(w)
			require.NoError(t, err)
			assert.Len(t, strings.Fields(bin), len(w))
			back, err := Decode(bin)
			require.NoError(t, err)
			assert.Equal(t, w, back, "tier %s", tier)
		}
	}
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode("0100001")
	assert.Error(t, err)
	_, err = Decode("0100001x")
	assert.Error(t, err)
}

func TestParseTier(t *testing.T) {
	for _, s := range []string{"easy", "medium", "hard"} {
		tier, ok := ParseTier(s)
		assert.True(t, ok)
		assert.Equal(t, Tier(s), tier)
	}
	for _, s := range []string{"", "EASY", "expert", " hard"} {
		_, ok := ParseTier(s)
		assert.False(t, ok, s)
	}
}

func TestDefaultTable_Scoring(t *testing.T) {
	table, err := DefaultTable()
	require.NoError(t, err)

	assert.Equal(t, 2, table.Points(Easy))
	assert.Equal(t, 5, table.Points(Medium))
	assert.Equal(t, 10, table.Points(Hard))
	assert.Equal(t, 1, table.Penalty(Easy))
	assert.Equal(t, 2, table.Penalty(Medium))
	assert.Equal(t, 3, table.Penalty(Hard))
	assert.Equal(t, map[Tier]int{Easy: 5, Medium: 5, Hard: 5}, table.Stats())
}

func TestNewTable_Validation(t *testing.T) {
	ok := TierSpec{Words: []string{"cat"}, Points: 1, Penalty: 1}

	cases := map[string]map[Tier]TierSpec{
		"missing tier": {Easy: ok, Medium: ok},
		"empty pool":   {Easy: ok, Medium: ok, Hard: {Points: 1}},
		"empty word":   {Easy: ok, Medium: ok, Hard: {Words: []string{" "}}},
		"wide rune":    {Easy: ok, Medium: ok, Hard: {Words: []string{"日本"}}},
		"negative":     {Easy: ok, Medium: ok, Hard: {Words: []string{"x"}, Penalty: -1}},
		"unknown tier": {Easy: ok, Medium: ok, Hard: ok, "expert": ok},
	}
	for name, specs := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewTable(specs)
			assert.Error(t, err)
		})
	}
}

func TestSpec_ReturnsCopy(t *testing.T) {
	table, err := NewTable(map[Tier]TierSpec{
		Easy:   {Words: []string{"cat"}},
		Medium: {Words: []string{"dog"}},
		Hard:   {Words: []string{"eel"}},
	})
	require.NoError(t, err)

	s, _ := table.Spec(Easy)
	s.Words[0] = "mutated"
	again, _ := table.Spec(Easy)
	assert.Equal(t, "cat", again.Words[0])
}

func TestParseTable_Invalid(t *testing.T) {
	_, err := ParseTable([]byte("easy: [not, a, map"))
	assert.Error(t, err)
	_, err = ParseTable([]byte(""))
	assert.Error(t, err)
}

func TestSampleRounds_DistinctAndEncoded(t *testing.T) {
	table, err := DefaultTable()
	require.NoError(t, err)
	rng := seeded()

	for _, tier := range Tiers() {
		for _, n := range []int{1, 3, 5, 8} {
			rounds := table.SampleRounds(tier, n, rng)
			require.Len(t, rounds, min(n, table.PoolSize(tier)))

			seen := map[string]bool{}
			for _, r := range rounds {
				assert.False(t, seen[r.Word], "duplicate %s", r.Word)
				seen[r.Word] = true
				want, _ := Encode(r.Word)
				assert.Equal(t, want, r.Binary)
			}
		}
	}
}

func TestSampleRounds_NonPositive(t *testing.T) {
	table, err := DefaultTable()
	require.NoError(t, err)
	assert.Empty(t, table.SampleRounds(Easy, 0, seeded()))
}

func TestPickWord_FromPool(t *testing.T) {
	table, err := DefaultTable()
	require.NoError(t, err)
	spec, _ := table.Spec(Hard)

	for i := 0; i < 50; i++ {
		assert.Contains(t, spec.Words, table.PickWord(Hard, GlobalRand))
	}
}
