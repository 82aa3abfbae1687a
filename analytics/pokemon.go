package analytics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/vgclab/battlelab/pkmn"
)

// EvUsage is the distribution of one EV stat's observed values plus their
// weighted average.
type EvUsage struct {
	Stat    pkmn.Stat    `json:"stat"`
	Values  []Usage[int] `json:"values"`
	Average float64      `json:"average"`
}

// PokemonAnalytics is the aggregated usage breakdown for one species.
type PokemonAnalytics struct {
	Species   string          `json:"species"`
	Abilities []Usage[string] `json:"abilities"`
	Items     []Usage[string] `json:"items"`
	Moves     []Usage[string] `json:"moves"`
	TeraTypes []Usage[string] `json:"teraTypes"`
	Evs       []EvUsage       `json:"evs"`
	Usage     int             `json:"usage"`
}

// PokemonAnalysis aggregates set appearances for a single species. Ability,
// item and tera type are single-valued per appearance and use their own
// totals as denominators; moves are multi-valued, so their percentages are
// computed against the overall appearance count instead.
type PokemonAnalysis struct {
	species  string
	count    int
	ability  *UsageAnalysis[string]
	item     *UsageAnalysis[string]
	moves    *UsageAnalysis[string]
	teraType *UsageAnalysis[string]
	evs      map[pkmn.Stat]*UsageAnalysis[int]
}

func NewPokemonAnalysis(species string) *PokemonAnalysis {
	evs := make(map[pkmn.Stat]*UsageAnalysis[int], len(pkmn.Stats))
	for _, st := range pkmn.Stats {
		evs[st] = NewUsageAnalysis[int]()
	}
	return &PokemonAnalysis{
		species:  species,
		ability:  NewUsageAnalysis[string](),
		item:     NewUsageAnalysis[string](),
		moves:    NewUsageAnalysis[string](),
		teraType: NewUsageAnalysis[string](),
		evs:      evs,
	}
}

// AddUsage records one appearance of the species with the given set.
func (p *PokemonAnalysis) AddUsage(set *pkmn.PokemonSet) {
	p.count++
	if set.Ability != "" {
		p.ability.AddUsage(set.Ability)
	}
	if set.Item != "" {
		p.item.AddUsage(set.Item)
	}
	if set.TeraType != "" {
		p.teraType.AddUsage(set.TeraType)
	}
	for _, move := range set.Moves {
		p.moves.AddUsage(move)
	}
	for _, st := range pkmn.Stats {
		// Zero EVs are indistinguishable from unspecified ones; skip both.
		if value := set.Evs[st]; value != 0 {
			p.evs[st].AddUsage(value)
		}
	}
}

func (p *PokemonAnalysis) AnalysisResult() *PokemonAnalytics {
	return &PokemonAnalytics{
		Species:   p.species,
		Abilities: p.ability.AnalysisResult(),
		Items:     p.item.AnalysisResult(),
		Moves:     p.moves.AnalysisResultWithTotal(p.count),
		TeraTypes: p.teraType.AnalysisResult(),
		Evs:       p.evsResult(),
		Usage:     p.count,
	}
}

func (p *PokemonAnalysis) evsResult() []EvUsage {
	result := make([]EvUsage, 0, len(pkmn.Stats))
	for _, st := range pkmn.Stats {
		values := p.evs[st].AnalysisResult()
		result = append(result, EvUsage{
			Stat:    st,
			Values:  values,
			Average: evAverage(values),
		})
	}
	return result
}

// evAverage is the mean of the stat's values weighted by their share of the
// distribution.
func evAverage(values []Usage[int]) float64 {
	if len(values) == 0 {
		return 0
	}
	xs := make([]float64, len(values))
	weights := make([]float64, len(values))
	for i, v := range values {
		xs[i] = float64(v.Value)
		weights[i] = v.Percentage
	}
	return stat.Mean(xs, weights)
}
