package training

import (
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/vgclab/battlelab/config"
	"github.com/vgclab/battlelab/pkmn"
	"github.com/vgclab/battlelab/protocol"
)

// Analytics is the full training summary.
type Analytics struct {
	Matchups   MatchupsAnalytics         `json:"matchups"`
	Pokemon    []*BattlePokemonAnalytics `json:"pokemon"`
	KeyActions *KeyActionsAnalytics      `json:"keyActions"`
}

// MatchupsAnalytics carries the two matchup trees: one grouped by the full
// roster observed per battle, one by the opening pokemon.
type MatchupsAnalytics struct {
	All      []*MatchupAnalytics `json:"all"`
	Openings []*MatchupAnalytics `json:"openings"`
}

type trainingContext struct {
	matchups     map[uint64]*MatchupTracker
	matchupOrder []uint64
	openings     map[uint64]*MatchupTracker
	openingOrder []uint64
	pokemon      map[string]*PokemonTracker
	pokemonOrder []string
	keyActions   *KeyActionsTracker
}

type eventTracker func(battle, turn int, action *pkmn.Action, ctx *trainingContext)

// Service computes analytics over one training session's battles.
type Service struct {
	keyActions *config.KeyActions
	trackers   []eventTracker
}

// NewService builds a training analytics service. A nil configuration
// falls back to the built-in key-action defaults.
func NewService(keyActions *config.KeyActions) *Service {
	if keyActions == nil {
		keyActions = config.DefaultKeyActions()
	}
	s := &Service{keyActions: keyActions}
	s.trackers = []eventTracker{
		s.trackFaints,
		s.trackMoveUsage,
		s.trackSwitches,
		s.trackSpeedControl,
		s.trackWeatherControl,
		s.trackFieldControl,
		s.trackTera,
	}
	return s
}

// Analytics walks every battle of the training once, feeding matchup,
// per-pokemon and key-action trackers, and assembles their results.
func (s *Service) Analytics(training *pkmn.Training) *Analytics {
	ctx := &trainingContext{
		matchups:   map[uint64]*MatchupTracker{},
		openings:   map[uint64]*MatchupTracker{},
		pokemon:    map[string]*PokemonTracker{},
		keyActions: NewKeyActionsTracker(),
	}

	for battleIndex, battle := range training.Battles {
		result := battle.Result
		if result == "" {
			result = pkmn.ResultUnknown
		}
		own, rival := sidePokemon(battle, false)
		openingOwn, openingRival := sidePokemon(battle, true)

		trackMatchup(ctx.matchups, &ctx.matchupOrder, own, result, rival)
		trackMatchup(ctx.openings, &ctx.openingOrder, openingOwn, result, openingRival)

		for _, species := range own {
			tracker, ok := ctx.pokemon[species]
			if !ok {
				tracker = NewPokemonTracker(species)
				ctx.pokemon[species] = tracker
				ctx.pokemonOrder = append(ctx.pokemonOrder, species)
			}
			tracker.Track()
		}

		for turnIndex, turn := range battle.Turns {
			for _, action := range turn.Actions {
				for _, track := range s.trackers {
					track(battleIndex, turnIndex+1, action, ctx)
				}
			}
		}
	}

	return &Analytics{
		Matchups: MatchupsAnalytics{
			All:      collectMatchups(ctx.matchupOrder, ctx.matchups),
			Openings: collectMatchups(ctx.openingOrder, ctx.openings),
		},
		Pokemon: lo.Map(ctx.pokemonOrder, func(species string, _ int) *BattlePokemonAnalytics {
			return ctx.pokemon[species].AnalysisResult()
		}),
		KeyActions: ctx.keyActions.AnalysisResult(),
	}
}

func trackMatchup(trackers map[uint64]*MatchupTracker, order *[]uint64, pokemon []string, result pkmn.Result, pairing []string) {
	key := setKey(pokemon)
	tracker, ok := trackers[key]
	if !ok {
		tracker = NewMatchupTracker(pokemon)
		trackers[key] = tracker
		*order = append(*order, key)
	}
	tracker.Track(result, pairing)
}

func collectMatchups(order []uint64, trackers map[uint64]*MatchupTracker) []*MatchupAnalytics {
	return lo.Map(order, func(key uint64, _ int) *MatchupAnalytics {
		return trackers[key].AnalysisResult()
	})
}

// resolveActor splits an action identifier and falls back to the action's
// player slot when the identifier carries no tag.
func resolveActor(ident string, player pkmn.Side) (pkmn.Side, string) {
	side, name := pkmn.SplitTag(ident)
	if side == "" {
		side = player
	}
	return side, name
}

func (s *Service) trackFaints(_, turn int, action *pkmn.Action, ctx *trainingContext) {
	if !strings.Contains(action.Name, protocol.Fainted) {
		return
	}
	ctx.keyActions.TrackFaint(turn)

	side, pokemon := resolveActor(action.User, action.Player)
	if side != pkmn.SideP1 {
		return
	}
	tracker, ok := ctx.pokemon[pokemon]
	if !ok {
		log.Warn().Str("pokemon", pokemon).Msg("no tracker found when tracking faint")
		return
	}
	tracker.TrackFaint(protocol.Unknown)
}

func (s *Service) trackMoveUsage(battle, _ int, action *pkmn.Action, ctx *trainingContext) {
	if action.Type != pkmn.ActionMove {
		return
	}
	side, pokemon := resolveActor(action.User, action.Player)
	if side != pkmn.SideP1 {
		return
	}
	tracker, ok := ctx.pokemon[pokemon]
	if !ok {
		log.Warn().Str("pokemon", pokemon).Msg("no tracker found when tracking move usage")
		return
	}
	tracker.TrackMoveUsage(action.Name, battle)
}

func (s *Service) trackSwitches(_, turn int, action *pkmn.Action, ctx *trainingContext) {
	if action.Type != pkmn.ActionSwitch || action.Player != pkmn.SideP1 {
		return
	}
	ctx.keyActions.TrackSwitch(turn)
}

func (s *Service) trackSpeedControl(_, _ int, action *pkmn.Action, ctx *trainingContext) {
	if action.Type != pkmn.ActionMove {
		return
	}
	name := strings.ToLower(action.Name)
	for _, move := range s.keyActions.SpeedControlMoves {
		if !strings.Contains(name, strings.ToLower(move)) {
			continue
		}
		side, pokemon := resolveActor(action.User, action.Player)
		ctx.keyActions.TrackPokemonAction(KeyActionSpeedControl, pokemon, action.Name, side != pkmn.SideP1)
	}
}

func (s *Service) trackWeatherControl(_, _ int, action *pkmn.Action, ctx *trainingContext) {
	if !strings.Contains(action.Name, protocol.Weather) ||
		strings.Contains(action.Name, protocol.Ended) ||
		action.User == "" {
		return
	}
	side, pokemon := resolveActor(action.User, action.Player)
	_, weather, _ := strings.Cut(action.Name, protocol.Weather)
	weather = strings.TrimSpace(weather)
	if weather == "" {
		weather = protocol.Unknown
	}
	ctx.keyActions.TrackPokemonAction(KeyActionWeatherControl, pokemon, weather, side != pkmn.SideP1)
}

func (s *Service) trackFieldControl(_, _ int, action *pkmn.Action, ctx *trainingContext) {
	if action.Type != pkmn.ActionEffect ||
		!strings.Contains(action.Name, protocol.Started) ||
		action.User == "" {
		return
	}
	side, pokemon := resolveActor(action.User, action.Player)
	condition, _, _ := strings.Cut(action.Name, protocol.Started)
	if _, caused, found := strings.Cut(condition, protocol.Caused); found {
		condition = caused
	}
	condition = strings.TrimSpace(condition)
	if condition == "" {
		condition = protocol.Unknown
	}
	ctx.keyActions.TrackPokemonAction(KeyActionFieldControl, pokemon, condition, side != pkmn.SideP1)
}

func (s *Service) trackTera(_, _ int, action *pkmn.Action, ctx *trainingContext) {
	if action.Type != pkmn.ActionEffect ||
		!strings.Contains(action.Name, protocol.Tera) ||
		action.User == "" {
		return
	}
	side, pokemon := resolveActor(action.User, action.Player)
	_, teraType, _ := strings.Cut(action.Name, protocol.Tera)
	teraType = strings.TrimSpace(strings.Replace(teraType, "to", "", 1))
	if teraType == "" {
		teraType = protocol.Unknown
	}
	ctx.keyActions.TrackPokemonAction(KeyActionTera, pokemon, teraType, side != pkmn.SideP1)
}

// sidePokemon lists the distinct pokemon observed for each side. With
// openingOnly it restricts to the first turn's opening switches (a switch
// with an empty user had nothing on the field before it), which yields the
// pokemon present when the battle started.
func sidePokemon(battle *pkmn.Battle, openingOnly bool) (own, rival []string) {
	ownSeen := map[string]bool{}
	rivalSeen := map[string]bool{}
	for turnIndex, turn := range battle.Turns {
		if openingOnly && turnIndex > 0 {
			break
		}
		for _, action := range turn.Actions {
			if openingOnly && (action.Type != pkmn.ActionSwitch || action.User != "") {
				continue
			}
			idents := append(slices.Clone(action.Targets), action.User)
			for _, ident := range idents {
				if ident == "" {
					continue
				}
				side, pokemon := resolveActor(ident, action.Player)
				switch side {
				case pkmn.SideP1:
					if !ownSeen[pokemon] {
						ownSeen[pokemon] = true
						own = append(own, pokemon)
					}
				case pkmn.SideP2:
					if !rivalSeen[pokemon] {
						rivalSeen[pokemon] = true
						rival = append(rival, pokemon)
					}
				}
			}
		}
	}
	return own, rival
}
