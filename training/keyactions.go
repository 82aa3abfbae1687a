package training

import (
	"github.com/samber/lo"
)

// Key-action group labels.
const (
	KeyActionSpeedControl   = "speed control"
	KeyActionWeatherControl = "weather control"
	KeyActionFieldControl   = "field control"
	KeyActionTera           = "tera"
)

// TurnCount counts events on a given turn.
type TurnCount struct {
	Turn  int `json:"turn"`
	Count int `json:"count"`
}

// ActionCount counts uses of a specific action name.
type ActionCount struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

// KeyActionAnalytics is one key-action group: which pokemon performed a
// matching action and which specific action names were used.
type KeyActionAnalytics struct {
	Name         string         `json:"name"`
	PokemonUsage []PokemonCount `json:"pokemonUsage"`
	ActionUsage  []ActionCount  `json:"actionUsage"`
}

// PokemonKeyActions splits key-action groups by side.
type PokemonKeyActions struct {
	ByMe    []*KeyActionAnalytics `json:"byMe"`
	ByRival []*KeyActionAnalytics `json:"byRival"`
}

// KeyActionsAnalytics is the turn-indexed and per-group key-action summary
// of a training.
type KeyActionsAnalytics struct {
	Kos               []TurnCount       `json:"kos"`
	Faints            []TurnCount       `json:"faints"`
	Switches          []TurnCount       `json:"switches"`
	PokemonKeyActions PokemonKeyActions `json:"pokemonKeyActions"`
}

// groupTracker tallies one key-action group.
type groupTracker struct {
	name         string
	pokemon      map[string]int
	pokemonOrder []string
	actions      map[string]int
	actionOrder  []string
}

func newGroupTracker(name string) *groupTracker {
	return &groupTracker{
		name:    name,
		pokemon: map[string]int{},
		actions: map[string]int{},
	}
}

func (g *groupTracker) track(pokemon, action string) {
	if _, ok := g.pokemon[pokemon]; !ok {
		g.pokemonOrder = append(g.pokemonOrder, pokemon)
	}
	g.pokemon[pokemon]++
	if _, ok := g.actions[action]; !ok {
		g.actionOrder = append(g.actionOrder, action)
	}
	g.actions[action]++
}

func (g *groupTracker) analysisResult() *KeyActionAnalytics {
	return &KeyActionAnalytics{
		Name:         g.name,
		PokemonUsage: countsFor(g.pokemonOrder, g.pokemon),
		ActionUsage: lo.Map(g.actionOrder, func(action string, _ int) ActionCount {
			return ActionCount{Action: action, Count: g.actions[action]}
		}),
	}
}

// turnTally is an insertion-ordered turn -> count map.
type turnTally struct {
	counts map[int]int
	order  []int
}

func newTurnTally() *turnTally {
	return &turnTally{counts: map[int]int{}}
}

func (t *turnTally) track(turn int) {
	if _, ok := t.counts[turn]; !ok {
		t.order = append(t.order, turn)
	}
	t.counts[turn]++
}

func (t *turnTally) analysisResult() []TurnCount {
	return lo.Map(t.order, func(turn int, _ int) TurnCount {
		return TurnCount{Turn: turn, Count: t.counts[turn]}
	})
}

// KeyActionsTracker accumulates turn-indexed counts plus the per-side
// key-action groups of a training.
type KeyActionsTracker struct {
	kos          *turnTally
	faints       *turnTally
	switches     *turnTally
	myActions    map[string]*groupTracker
	myOrder      []string
	rivalActions map[string]*groupTracker
	rivalOrder   []string
}

func NewKeyActionsTracker() *KeyActionsTracker {
	return &KeyActionsTracker{
		kos:          newTurnTally(),
		faints:       newTurnTally(),
		switches:     newTurnTally(),
		myActions:    map[string]*groupTracker{},
		rivalActions: map[string]*groupTracker{},
	}
}

// TrackKo counts a knockout on the given turn.
//
// TODO: no event tracker invokes this yet; wire KO attribution once faint
// actions carry the KOing pokemon.
func (k *KeyActionsTracker) TrackKo(turn int) {
	k.kos.track(turn)
}

func (k *KeyActionsTracker) TrackFaint(turn int) {
	k.faints.track(turn)
}

func (k *KeyActionsTracker) TrackSwitch(turn int) {
	k.switches.track(turn)
}

// TrackPokemonAction files an action under the named key-action group for
// the acting side.
func (k *KeyActionsTracker) TrackPokemonAction(group, pokemon, action string, isRival bool) {
	trackers, order := k.myActions, &k.myOrder
	if isRival {
		trackers, order = k.rivalActions, &k.rivalOrder
	}
	tracker, ok := trackers[group]
	if !ok {
		tracker = newGroupTracker(group)
		trackers[group] = tracker
		*order = append(*order, group)
	}
	tracker.track(pokemon, action)
}

func (k *KeyActionsTracker) AnalysisResult() *KeyActionsAnalytics {
	collect := func(order []string, trackers map[string]*groupTracker) []*KeyActionAnalytics {
		return lo.Map(order, func(name string, _ int) *KeyActionAnalytics {
			return trackers[name].analysisResult()
		})
	}
	return &KeyActionsAnalytics{
		Kos:      k.kos.analysisResult(),
		Faints:   k.faints.analysisResult(),
		Switches: k.switches.analysisResult(),
		PokemonKeyActions: PokemonKeyActions{
			ByMe:    collect(k.myOrder, k.myActions),
			ByRival: collect(k.rivalOrder, k.rivalActions),
		},
	}
}
