// internal/words/words.go
//
// Tier table for the game engine.
//
// Responsibilities:
//   - Define the closed set of difficulty tiers (easy, medium, hard).
//   - Hold the immutable tier → {pool, points, penalty} lookup table.
//   - Load the embedded default table, or build one from configuration.
//
// Constraints:
//   • Every tier must be present with a non-empty pool.
//   • Words must be non-empty and encodable (each character fits in 8 bits).
//   • Points and penalties are non-negative.
//   • The default table is parsed once (sync.Once).

package words

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/robalobadob/binword/assets"
)

// Tier is a difficulty level.
type Tier string

const (
	Easy   Tier = "easy"
	Medium Tier = "medium"
	Hard   Tier = "hard"
)

// Tiers lists every recognized tier in ascending difficulty.
func Tiers() []Tier { return []Tier{Easy, Medium, Hard} }

// ParseTier recognizes exactly "easy", "medium" and "hard".
func ParseTier(s string) (Tier, bool) {
	switch t := Tier(s); t {
	case Easy, Medium, Hard:
		return t, true
	}
	return "", false
}

// TierSpec is the configuration of a single tier.
type TierSpec struct {
	Words   []string `yaml:"words"`
	Points  int      `yaml:"points"`
	Penalty int      `yaml:"penalty"`
}

// Table maps each tier to its spec. A Table is read-only after NewTable.
type Table struct {
	specs map[Tier]TierSpec
}

// NewTable validates specs and returns an immutable table.
func NewTable(specs map[Tier]TierSpec) (*Table, error) {
	t := &Table{specs: make(map[Tier]TierSpec, len(specs))}
	for _, tier := range Tiers() {
		spec, ok := specs[tier]
		if !ok {
			return nil, fmt.Errorf("words: tier %q missing", tier)
		}
		if len(spec.Words) == 0 {
			return nil, fmt.Errorf("words: tier %q has no words", tier)
		}
		if spec.Points < 0 || spec.Penalty < 0 {
			return nil, fmt.Errorf("words: tier %q has negative points or penalty", tier)
		}
		pool := make([]string, 0, len(spec.Words))
		for _, w := range spec.Words {
			w = strings.TrimSpace(w)
			if w == "" {
				return nil, fmt.Errorf("words: tier %q contains an empty word", tier)
			}
			if _, err := Encode(w); err != nil {
				return nil, fmt.Errorf("words: tier %q word %q: %w", tier, w, err)
			}
			pool = append(pool, w)
		}
		t.specs[tier] = TierSpec{Words: pool, Points: spec.Points, Penalty: spec.Penalty}
	}
	for tier := range specs {
		if _, ok := ParseTier(string(tier)); !ok {
			return nil, fmt.Errorf("words: unknown tier %q", tier)
		}
	}
	return t, nil
}

// ParseTable builds a table from YAML shaped like assets/words.yaml.
func ParseTable(data []byte) (*Table, error) {
	var raw map[Tier]TierSpec
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("words: parse table: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("words: table is empty")
	}
	return NewTable(raw)
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// DefaultTable returns the embedded default tier table.
func DefaultTable() (*Table, error) {
	defaultOnce.Do(func() {
		data, err := assets.WordsYAML()
		if err != nil {
			defaultErr = err
			return
		}
		defaultTable, defaultErr = ParseTable(data)
	})
	return defaultTable, defaultErr
}

// Spec returns a copy of the tier's spec.
func (t *Table) Spec(tier Tier) (TierSpec, bool) {
	s, ok := t.specs[tier]
	if !ok {
		return TierSpec{}, false
	}
	s.Words = append([]string(nil), s.Words...)
	return s, true
}

// Points awarded for a correct guess in tier.
func (t *Table) Points(tier Tier) int { return t.specs[tier].Points }

// Penalty subtracted for a wrong guess in tier.
func (t *Table) Penalty(tier Tier) int { return t.specs[tier].Penalty }

// PoolSize is the number of words in tier.
func (t *Table) PoolSize(tier Tier) int { return len(t.specs[tier].Words) }

// Stats returns the pool size of every tier.
func (t *Table) Stats() map[Tier]int {
	out := make(map[Tier]int, len(t.specs))
	for tier, s := range t.specs {
		out[tier] = len(s.Words)
	}
	return out
}
