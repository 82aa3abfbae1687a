// Package training aggregates the parsed battles of one training session
// into matchup trees, per-pokemon performance breakdowns and key-action
// tracking.
package training

import (
	"slices"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/samber/lo"

	"github.com/vgclab/battlelab/pkmn"
)

// ResultCount is one bucket of a result tally. Battles without a
// determinable outcome land in the "unknown" bucket; they are counted, not
// dropped.
type ResultCount struct {
	Result pkmn.Result `json:"result"`
	Count  int         `json:"count"`
}

// MatchupAnalytics is one node of the matchup tree: a pokemon grouping,
// its usage count and result tally, and optionally finer-grained pairings
// one level down.
type MatchupAnalytics struct {
	Pokemon    []string            `json:"pokemon"`
	Results    []ResultCount       `json:"results"`
	Pairings   []*MatchupAnalytics `json:"pairings,omitempty"`
	UsageCount int                 `json:"usageCount"`
}

// MatchupTracker groups battles by a pokemon set and tallies their results.
// Nested pairings group by the opposing subset within the same top-level
// grouping; the recursion is general but one extra level deep in practice.
type MatchupTracker struct {
	pokemon      []string
	results      map[pkmn.Result]int
	resultOrder  []pkmn.Result
	count        int
	pairings     map[uint64]*MatchupTracker
	pairingOrder []uint64
}

func NewMatchupTracker(pokemon []string) *MatchupTracker {
	return &MatchupTracker{
		pokemon:  pokemon,
		results:  map[pkmn.Result]int{},
		pairings: map[uint64]*MatchupTracker{},
	}
}

// setKey is an order-independent identity for a pokemon set. Grouping keys
// stay internal, so a fast non-cryptographic hash is enough here.
func setKey(pokemon []string) uint64 {
	sorted := slices.Clone(pokemon)
	slices.Sort(sorted)
	return xxhash.Sum64String(strings.Join(sorted, "|"))
}

// Track records one battle outcome, optionally descending into the pairing
// subtree for the given opposing subset.
func (m *MatchupTracker) Track(result pkmn.Result, pairing []string) {
	m.count++
	if _, ok := m.results[result]; !ok {
		m.resultOrder = append(m.resultOrder, result)
	}
	m.results[result]++

	if len(pairing) == 0 {
		return
	}
	key := setKey(pairing)
	child, ok := m.pairings[key]
	if !ok {
		child = NewMatchupTracker(pairing)
		m.pairings[key] = child
		m.pairingOrder = append(m.pairingOrder, key)
	}
	child.Track(result, nil)
}

func (m *MatchupTracker) AnalysisResult() *MatchupAnalytics {
	results := lo.Map(m.resultOrder, func(result pkmn.Result, _ int) ResultCount {
		return ResultCount{Result: result, Count: m.results[result]}
	})
	pairings := lo.Map(m.pairingOrder, func(key uint64, _ int) *MatchupAnalytics {
		return m.pairings[key].AnalysisResult()
	})
	return &MatchupAnalytics{
		Pokemon:    m.pokemon,
		Results:    results,
		Pairings:   pairings,
		UsageCount: m.count,
	}
}
