package words

import "math/rand/v2"

// Round pairs a word with its binary encoding.
type Round struct {
	Binary string `json:"binary"`
	Word   string `json:"word"`
}

// Rand is the subset of *rand.Rand used for word selection.
// Tests inject a seeded generator; the server uses GlobalRand.
type Rand interface {
	IntN(n int) int
	Perm(n int) []int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }
func (globalRand) Perm(n int) []int { return rand.Perm(n) }

// GlobalRand draws from the process-wide source and is safe for concurrent use.
var GlobalRand Rand = globalRand{}

// PickWord returns a uniformly random word from tier's pool.
func (t *Table) PickWord(tier Tier, rng Rand) string {
	pool := t.specs[tier].Words
	if len(pool) == 0 {
		return ""
	}
	return pool[rng.IntN(len(pool))]
}

// SampleRounds draws min(maxRounds, pool size) distinct words from tier's
// pool, in random order, each paired with its encoding.
func (t *Table) SampleRounds(tier Tier, maxRounds int, rng Rand) []Round {
	pool := t.specs[tier].Words
	k := min(maxRounds, len(pool))
	if k <= 0 {
		return nil
	}
	perm := rng.Perm(len(pool))
	out := make([]Round, 0, k)
	for _, i := range perm[:k] {
		w := pool[i]
		// Pools are validated by NewTable, so encoding cannot fail here.
		bin, _ := Encode(w)
		out = append(out, Round{Binary: bin, Word: w})
	}
	return out
}
