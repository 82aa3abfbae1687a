package analytics

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/vgclab/battlelab/pkmn"
)

// CoreUsage is one distinct core and how many teams ran it.
type CoreUsage struct {
	Usage   int      `json:"usage"`
	Pokemon []string `json:"pokemon"`
}

// CoreAnalysis counts occurrences of unordered species subsets of a fixed
// size. Identity is by species multiset: two subsets with the same species
// in different order count as one core.
type CoreAnalysis struct {
	size   int
	counts map[string]int
	cores  [][]string
}

func NewCoreAnalysis(size int) *CoreAnalysis {
	return &CoreAnalysis{size: size, counts: map[string]int{}}
}

func (c *CoreAnalysis) Size() int {
	return c.size
}

// AddCoreUsage records one occurrence of the core. Every set must have a
// known species; callers filter incomplete subsets before reaching here.
func (c *CoreAnalysis) AddCoreUsage(core []*pkmn.PokemonSet) {
	species := lo.Map(core, func(set *pkmn.PokemonSet, _ int) string {
		return set.Species
	})
	hash := coreHash(species)
	if _, ok := c.counts[hash]; !ok {
		c.cores = append(c.cores, species)
	}
	c.counts[hash]++
}

// coreHash canonicalizes a species list into a hash key: sort a copy
// lexically, join with "|", SHA-256 hex digest. Collisions between distinct
// species multisets are assumed impossible.
func coreHash(species []string) string {
	sorted := slices.Clone(species)
	slices.Sort(sorted)
	sum := sha256.Sum256([]byte(strings.Join(sorted, "|")))
	return hex.EncodeToString(sum[:])
}

// AnalysisResult lists every distinct core in first-seen order with its
// usage count. Callers wanting a ranking sort by usage themselves.
func (c *CoreAnalysis) AnalysisResult() []CoreUsage {
	return lo.Map(c.cores, func(core []string, _ int) CoreUsage {
		return CoreUsage{
			Usage:   c.counts[coreHash(core)],
			Pokemon: core,
		}
	})
}
