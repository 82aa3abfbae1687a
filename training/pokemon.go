package training

import (
	"github.com/samber/lo"

	"github.com/vgclab/battlelab/stats"
)

// PokemonCount counts occurrences per opposing pokemon.
type PokemonCount struct {
	Pokemon string `json:"pokemon"`
	Count   int    `json:"count"`
}

// KoOrFaintAnalytics is a KO or faint total with its per-opponent
// breakdown.
type KoOrFaintAnalytics struct {
	Matchups []PokemonCount `json:"matchups"`
	Count    int            `json:"count"`
}

// PerformanceAnalytics groups a pokemon's KO and faint breakdowns.
type PerformanceAnalytics struct {
	Ko    KoOrFaintAnalytics `json:"ko"`
	Faint KoOrFaintAnalytics `json:"faint"`
}

// MoveAnalytics reports two averages with different denominators:
// AverageUsage is battles-featuring-the-move over battles-using-the-
// pokemon, AverageUsageByMatch is uses per battle featuring the move.
type MoveAnalytics struct {
	Move                string  `json:"move"`
	AverageUsage        float64 `json:"averageUsage"`
	AverageUsageByMatch float64 `json:"averageUsageByMatch"`
}

// BattlePokemonAnalytics is the per-pokemon breakdown across a training's
// battles.
type BattlePokemonAnalytics struct {
	Pokemon     string               `json:"pokemon"`
	Performance PerformanceAnalytics `json:"performance"`
	UsageCount  int                  `json:"usageCount"`
	Moves       []MoveAnalytics      `json:"moves"`
}

// PokemonTracker accumulates one own-side pokemon's usage, moves, KOs and
// faints across battles.
type PokemonTracker struct {
	pokemon    string
	koCount    int
	kos        map[string]int
	koOrder    []string
	faintCount int
	faints     map[string]int
	faintOrder []string
	usageCount int
	moveOrder  []string
	// move name -> battle index -> uses within that battle
	moveBattles map[string]map[int]int
}

func NewPokemonTracker(pokemon string) *PokemonTracker {
	return &PokemonTracker{
		pokemon:     pokemon,
		kos:         map[string]int{},
		faints:      map[string]int{},
		moveBattles: map[string]map[int]int{},
	}
}

// Track records one battle featuring this pokemon.
func (p *PokemonTracker) Track() {
	p.usageCount++
}

// TrackKo records a knockout against the given opposing pokemon.
func (p *PokemonTracker) TrackKo(koedPokemon string) {
	p.koCount++
	if _, ok := p.kos[koedPokemon]; !ok {
		p.koOrder = append(p.koOrder, koedPokemon)
	}
	p.kos[koedPokemon]++
}

// TrackFaint records this pokemon fainting to the given opposing pokemon.
func (p *PokemonTracker) TrackFaint(faintedBy string) {
	p.faintCount++
	if _, ok := p.faints[faintedBy]; !ok {
		p.faintOrder = append(p.faintOrder, faintedBy)
	}
	p.faints[faintedBy]++
}

// TrackMoveUsage records one use of a move within the given battle.
func (p *PokemonTracker) TrackMoveUsage(move string, battle int) {
	battles, ok := p.moveBattles[move]
	if !ok {
		battles = map[int]int{}
		p.moveBattles[move] = battles
		p.moveOrder = append(p.moveOrder, move)
	}
	battles[battle]++
}

func (p *PokemonTracker) AnalysisResult() *BattlePokemonAnalytics {
	moves := lo.Map(p.moveOrder, func(move string, _ int) MoveAnalytics {
		perBattle := &stats.Running{}
		for _, uses := range p.moveBattles[move] {
			perBattle.Push(float64(uses))
		}
		return MoveAnalytics{
			Move:                move,
			AverageUsage:        float64(perBattle.Count()) / float64(p.usageCount),
			AverageUsageByMatch: perBattle.Mean(),
		}
	})
	return &BattlePokemonAnalytics{
		Pokemon: p.pokemon,
		Performance: PerformanceAnalytics{
			Ko: KoOrFaintAnalytics{
				Matchups: countsFor(p.koOrder, p.kos),
				Count:    p.koCount,
			},
			Faint: KoOrFaintAnalytics{
				Matchups: countsFor(p.faintOrder, p.faints),
				Count:    p.faintCount,
			},
		},
		UsageCount: p.usageCount,
		Moves:      moves,
	}
}

func countsFor(order []string, counts map[string]int) []PokemonCount {
	return lo.Map(order, func(pokemon string, _ int) PokemonCount {
		return PokemonCount{Pokemon: pokemon, Count: counts[pokemon]}
	})
}
