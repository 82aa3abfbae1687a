package analytics

import (
	"slices"

	"github.com/vgclab/battlelab/pkmn"
)

// Response aggregates a tournament's analytics. TotalTeamsCount is exposed
// as the global denominator for display-layer percentage formatting; the
// service itself never divides by it.
type Response struct {
	Pokemon         []*PokemonAnalytics `json:"pokemon"`
	Cores           map[int][]CoreUsage `json:"cores"`
	TotalTeamsCount int                 `json:"totalTeamsCount"`
}

type analysisContext struct {
	pokemon      map[string]*PokemonAnalysis
	pokemonOrder []string
	cores        map[int]*CoreAnalysis
}

// Service computes tournament-wide analytics over team rosters.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Analytics enumerates every subset of every team and feeds each into the
// matching aggregator: single pokemon into a PokemonAnalysis, larger
// subsets into the CoreAnalysis for their size. Enumeration is a brute
// force 2^N include/exclude recursion per team; rosters are small (six at
// most) and the aggregation depends on exhaustive coverage, so this stays
// deliberately unoptimized.
func (s *Service) Analytics(teams []*pkmn.TournamentTeam) *Response {
	ctx := &analysisContext{
		pokemon: map[string]*PokemonAnalysis{},
		cores:   map[int]*CoreAnalysis{},
	}
	for _, team := range teams {
		s.enumerateCores(team.Team, nil, 0, ctx)
	}
	response := &Response{
		Cores:           make(map[int][]CoreUsage, len(ctx.cores)),
		TotalTeamsCount: len(teams),
	}
	for _, species := range ctx.pokemonOrder {
		response.Pokemon = append(response.Pokemon, ctx.pokemon[species].AnalysisResult())
	}
	for size, analysis := range ctx.cores {
		response.Cores[size] = analysis.AnalysisResult()
	}
	return response
}

func (s *Service) enumerateCores(team, core []*pkmn.PokemonSet, index int, ctx *analysisContext) {
	if index == len(team) {
		s.analyzeCore(core, ctx)
		return
	}
	s.enumerateCores(team, append(slices.Clip(core), team[index]), index+1, ctx)
	s.enumerateCores(team, core, index+1, ctx)
}

// analyzeCore dispatches one subset. Subsets with unknown species are
// dropped silently: a data-completeness filter, not an error.
func (s *Service) analyzeCore(core []*pkmn.PokemonSet, ctx *analysisContext) {
	switch {
	case len(core) == 0:
		return
	case len(core) == 1:
		set := core[0]
		if set.Species == "" {
			return
		}
		s.pokemonAnalysis(set.Species, ctx).AddUsage(set)
	default:
		for _, set := range core {
			if set.Species == "" {
				return
			}
		}
		s.coreAnalysis(len(core), ctx).AddCoreUsage(core)
	}
}

func (s *Service) pokemonAnalysis(species string, ctx *analysisContext) *PokemonAnalysis {
	analysis, ok := ctx.pokemon[species]
	if !ok {
		analysis = NewPokemonAnalysis(species)
		ctx.pokemon[species] = analysis
		ctx.pokemonOrder = append(ctx.pokemonOrder, species)
	}
	return analysis
}

func (s *Service) coreAnalysis(size int, ctx *analysisContext) *CoreAnalysis {
	analysis, ok := ctx.cores[size]
	if !ok {
		analysis = NewCoreAnalysis(size)
		ctx.cores[size] = analysis
	}
	return analysis
}
