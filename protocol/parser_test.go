package protocol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vgclab/battlelab/pkmn"
)

func defaultLines(lines ...string) []string {
	out := []string{
		"|start",
		"|",
		"|player|p1|usernamePlayerA|169|1051",
		"|player|p2|usernamePlayerB|pokekid|1040",
		"|turn|1",
	}
	out = append(out, lines...)
	return append(out, "|win|usernamePlayerA")
}

func parseDefault(t *testing.T, lines ...string) *pkmn.Battle {
	t.Helper()
	return NewParser().ParseLines(Metadata{}, defaultLines(lines...))
}

func firstAction(t *testing.T, battle *pkmn.Battle) *pkmn.Action {
	t.Helper()
	require.NotEmpty(t, battle.Turns)
	require.NotEmpty(t, battle.Turns[0].Actions)
	return battle.Turns[0].Actions[0]
}

func TestResolveWinner(t *testing.T) {
	battle := parseDefault(t)
	assert.Equal(t, pkmn.ResultWin, battle.Result)

	lines := []string{
		"|start",
		"|",
		"|player|p1|usernamePlayerA|169|1051",
		"|player|p2|usernamePlayerB|pokekid|1040",
		"|win|usernamePlayerB",
	}
	battle = NewParser().ParseLines(Metadata{}, lines)
	assert.Equal(t, pkmn.ResultLoose, battle.Result)
}

func TestResolveTie(t *testing.T) {
	lines := []string{
		"|start",
		"|",
		"|player|p1|usernamePlayerA|169|1051",
		"|player|p2|usernamePlayerB|pokekid|1040",
		"|tie",
	}
	battle := NewParser().ParseLines(Metadata{}, lines)
	assert.Equal(t, pkmn.ResultTie, battle.Result)
}

// When the uploading player sat in the p2 slot, every observed side is
// flipped so that p1 is always the uploader downstream.
func TestInvertedPerspective(t *testing.T) {
	lines := defaultLines("|move|p1a: PokemonA|earthquake|p2a: PokemonB")
	battle := NewParser().ParseLines(Metadata{PlayerTag: pkmn.SideP2}, lines)

	// usernamePlayerA occupied p1 in the transcript, so after inversion
	// their win is a loss for the uploader.
	assert.Equal(t, pkmn.ResultLoose, battle.Result)

	action := firstAction(t, battle)
	assert.Equal(t, pkmn.SideP2, action.Player)
	assert.Equal(t, []string{"p1:PokemonB"}, action.Targets)
}

func TestMoveWithTargets(t *testing.T) {
	battle := parseDefault(t, "|move|p2a: PokemonB|move A|p1a: PokemonA")
	action := firstAction(t, battle)
	assert.Equal(t, pkmn.ActionMove, action.Type)
	assert.Equal(t, pkmn.SideP2, action.Player)
	assert.Equal(t, "move A", action.Name)
	assert.Equal(t, "PokemonB", action.User)
	assert.Equal(t, []string{"p1:PokemonA"}, action.Targets)
}

func TestInferMoveTargetFromDamage(t *testing.T) {
	battle := parseDefault(t,
		"|move|p1a: PokemonA|earthquake|",
		"|-damage|p2a: PokemonB|86/249 ps",
	)
	action := firstAction(t, battle)
	assert.Equal(t, pkmn.ActionMove, action.Type)
	assert.Equal(t, pkmn.SideP1, action.Player)
	assert.Equal(t, "earthquake", action.Name)
	assert.Equal(t, "PokemonA", action.User)
	assert.Equal(t, []string{"p2:PokemonB"}, action.Targets)
}

// A spread move keeps collecting targets from subsequent damage lines.
func TestInferSpreadMoveTargets(t *testing.T) {
	battle := parseDefault(t,
		"|move|p1a: PokemonA|earthquake|",
		"|-damage|p2a: PokemonB|86/249 ps",
		"|-damage|p2b: PokemonC|10/180 ps",
	)
	action := firstAction(t, battle)
	assert.Equal(t, []string{"p2:PokemonB", "p2:PokemonC"}, action.Targets)
}

func TestExplicitTargetNotOverwritten(t *testing.T) {
	battle := parseDefault(t,
		"|move|p1a: PokemonA|tackle|p2a: PokemonB",
		"|-damage|p2a: PokemonB|86/249 ps",
	)
	action := firstAction(t, battle)
	assert.Equal(t, []string{"p2:PokemonB"}, action.Targets)
}

func TestMegaevolution(t *testing.T) {
	battle := parseDefault(t,
		"|detailschange|p1a: PokemonA|Mega-PokemonA, L50, M, shiny",
		"|move|p1a: PokemonA|earthquake|",
	)
	action := firstAction(t, battle)
	assert.Equal(t, pkmn.ActionEffect, action.Type)
	assert.Equal(t, pkmn.SideP1, action.Player)
	assert.Equal(t, "megaevolved to", action.Name)
	assert.Equal(t, "PokemonA", action.User)
	assert.Equal(t, []string{"Mega-PokemonA"}, action.Targets)

	// The nickname now resolves to the mega forme.
	move := battle.Turns[0].Actions[1]
	assert.Equal(t, "Mega-PokemonA", move.User)
}

func TestFormeChangeFromAbility(t *testing.T) {
	battle := parseDefault(t,
		"|-formechange|p1a: Minior|Minior-Meteor||[from] ability: Shields Down",
	)
	action := firstAction(t, battle)
	assert.Equal(t, pkmn.ActionAbility, action.Type)
	assert.Equal(t, "Shields Down", action.Name)
	assert.Equal(t, "p1:Minior", action.User)
	assert.Equal(t, []string{"Minior-Meteor"}, action.Targets)
}

func TestFaint(t *testing.T) {
	battle := parseDefault(t, "|faint|p2a: Pikachu")
	action := firstAction(t, battle)
	assert.Equal(t, pkmn.ActionEffect, action.Type)
	assert.Equal(t, Fainted, action.Name)
	assert.Equal(t, "p2:Pikachu", action.User)
	assert.Empty(t, action.Targets)
}

func TestStatus(t *testing.T) {
	battle := parseDefault(t, "|-status|p1a: Tauros|psn")
	action := firstAction(t, battle)
	assert.Equal(t, pkmn.ActionEffect, action.Type)
	assert.Equal(t, "psn affected", action.Name)
	assert.Equal(t, "", action.User)
	assert.Equal(t, []string{"p1:Tauros"}, action.Targets)
}

func TestStatusFromAbility(t *testing.T) {
	battle := parseDefault(t,
		"|-status|p1a: Tauros|burn|[from] ability: Flame body|[of] p2b: Volcarona",
	)
	action := firstAction(t, battle)
	assert.Equal(t, pkmn.ActionAbility, action.Type)
	assert.Equal(t, "Flame body inflicted burn", action.Name)
	assert.Equal(t, "p2:Volcarona", action.User)
	assert.Equal(t, []string{"p1:Tauros"}, action.Targets)
}

func TestBoost(t *testing.T) {
	battle := parseDefault(t, " |-boost|p1a: Quaquaval|spd|1")
	action := firstAction(t, battle)
	assert.Equal(t, pkmn.ActionEffect, action.Type)
	assert.Equal(t, "spd increased by 1", action.Name)
	assert.Equal(t, "p1:Quaquaval", action.User)
	assert.Empty(t, action.Targets)
}

func TestUnboostFromAbility(t *testing.T) {
	battle := parseDefault(t,
		" |-unboost|p1a: Quaquaval|atk|1|[from] ability: Intimidate|[of] p2b: Incineroar",
	)
	action := firstAction(t, battle)
	assert.Equal(t, pkmn.ActionAbility, action.Type)
	assert.Equal(t, "Intimidate caused atk decreased by 1 to", action.Name)
	assert.Equal(t, "p2:Incineroar", action.User)
	assert.Equal(t, []string{"p1:Quaquaval"}, action.Targets)
}

func TestWeatherFromAbility(t *testing.T) {
	battle := parseDefault(t,
		"|-weather|RainDance|[from] ability: Drizzle|[of] p1a: Pelipper",
	)
	action := firstAction(t, battle)
	assert.Equal(t, pkmn.ActionAbility, action.Type)
	assert.Equal(t, "Drizzle set weather RainDance", action.Name)
	assert.Equal(t, "p1:Pelipper", action.User)
	assert.Empty(t, action.Targets)
}

func TestWeatherUpkeepSuppressed(t *testing.T) {
	battle := parseDefault(t, "|-weather|SunnyDay|[upkeep]")
	require.NotEmpty(t, battle.Turns)
	assert.Empty(t, battle.Turns[0].Actions)
}

func TestWeatherEnd(t *testing.T) {
	battle := parseDefault(t, "|-weather|none")
	action := firstAction(t, battle)
	assert.Equal(t, "weather ended", action.Name)
}

func TestFieldStartFromAbility(t *testing.T) {
	battle := parseDefault(t,
		"|-fieldstart|move: Grassy Terrain|[from] ability: Grassy Surge|[of] p2b: Rillaboom",
	)
	action := firstAction(t, battle)
	assert.Equal(t, pkmn.ActionAbility, action.Type)
	assert.Equal(t, "Grassy Surge caused move: Grassy Terrain started", action.Name)
	assert.Equal(t, "p2:Rillaboom", action.User)
	assert.Empty(t, action.Targets)
}

func TestCritUsesLastMoveUser(t *testing.T) {
	battle := parseDefault(t,
		"|move|p2a: PokemonB|move A|p1a: PokemonA",
		"|-crit|p1a: PokemonA",
	)
	require.Len(t, battle.Turns[0].Actions, 2)
	crit := battle.Turns[0].Actions[1]
	assert.Equal(t, pkmn.ActionEffect, crit.Type)
	assert.Equal(t, "critical hit", crit.Name)
	assert.Equal(t, "PokemonB", crit.User)
	assert.Equal(t, []string{"p1:PokemonA"}, crit.Targets)
}

func TestSwitchRegistersNickname(t *testing.T) {
	battle := parseDefault(t,
		"|switch|p1a: Chompy|Garchomp, L50, M|191/191",
		"|move|p1a: Chompy|earthquake|p2a: PokemonB",
	)
	sw := firstAction(t, battle)
	assert.Equal(t, pkmn.ActionSwitch, sw.Type)
	assert.Equal(t, pkmn.SideP1, sw.Player)
	assert.Equal(t, "to", sw.Name)
	assert.Equal(t, "", sw.User) // opening switch, nothing occupied the slot
	assert.Equal(t, []string{"Garchomp"}, sw.Targets)

	move := battle.Turns[0].Actions[1]
	assert.Equal(t, "Garchomp", move.User)
}

func TestSwitchCarriesPreviousOccupant(t *testing.T) {
	battle := parseDefault(t,
		"|switch|p1a: Chompy|Garchomp, L50, M|191/191",
		"|switch|p1a: Sparky|Pikachu, L50|110/110",
	)
	second := battle.Turns[0].Actions[1]
	assert.Equal(t, "Garchomp", second.User)
	assert.Equal(t, []string{"Pikachu"}, second.Targets)
}

func TestTurnBoundaries(t *testing.T) {
	lines := []string{
		"|player|p1|usernamePlayerA|169|1051",
		"|player|p2|usernamePlayerB|pokekid|1040",
		"|turn|1",
		"|move|p1a: PokemonA|tackle|p2a: PokemonB",
		"|move|p2a: PokemonB|scratch|p1a: PokemonA",
		"|turn|2",
		"|move|p1a: PokemonA|tackle|p2a: PokemonB",
		"|win|usernamePlayerA",
	}
	battle := NewParser().ParseLines(Metadata{}, lines)
	require.Len(t, battle.Turns, 2)
	assert.Equal(t, 1, battle.Turns[0].Index)
	assert.Len(t, battle.Turns[0].Actions, 2)
	assert.Equal(t, 2, battle.Turns[1].Index)
	assert.Len(t, battle.Turns[1].Actions, 1)
	assert.Equal(t, 0, battle.Turns[1].Actions[0].Index)
}

// Actions emitted before the first turn marker belong to turn 1.
func TestPreTurnActionsMergeIntoFirstTurn(t *testing.T) {
	lines := []string{
		"|player|p1|usernamePlayerA|169|1051",
		"|player|p2|usernamePlayerB|pokekid|1040",
		"|switch|p1a: PokemonA|PokemonA, L50|100/100",
		"|turn|1",
		"|move|p1a: PokemonA|tackle|p2a: PokemonB",
		"|win|usernamePlayerA",
	}
	battle := NewParser().ParseLines(Metadata{}, lines)
	require.Len(t, battle.Turns, 1)
	assert.Equal(t, 1, battle.Turns[0].Index)
	assert.Len(t, battle.Turns[0].Actions, 2)
}

// A malformed line is logged and skipped; the rest of the transcript still
// parses.
func TestMalformedLinesSkipped(t *testing.T) {
	battle := parseDefault(t,
		"|turn|not-a-number",
		"|player|p1|",
		"|win|",
		"|someunknowncommand|p1a: PokemonA",
		"|move|p1a: PokemonA|tackle|p2a: PokemonB",
	)
	assert.Equal(t, pkmn.ResultWin, battle.Result)
	require.NotEmpty(t, battle.Turns)
	require.Len(t, battle.Turns[0].Actions, 1)
	assert.Equal(t, "tackle", battle.Turns[0].Actions[0].Name)
}

// A transcript cut off before its win line keeps the open turn. The result
// stays unset; bucketing undetermined outcomes is the analytics' job.
func TestTrailingActionsCloseFinalTurn(t *testing.T) {
	lines := []string{
		"|player|p1|usernamePlayerA|169|1051",
		"|player|p2|usernamePlayerB|pokekid|1040",
		"|turn|1",
		"|move|p1a: PokemonA|tackle|p2a: PokemonB",
	}
	battle := NewParser().ParseLines(Metadata{}, lines)
	assert.Equal(t, pkmn.Result(""), battle.Result)
	require.Len(t, battle.Turns, 1)
	assert.Len(t, battle.Turns[0].Actions, 1)
}

func TestParseSplitsCRLF(t *testing.T) {
	raw := strings.Join(defaultLines("|faint|p2a: Pikachu"), "\r\n")
	battle := NewParser().Parse(Metadata{Name: "finals", Format: "vgc2025"}, raw)
	assert.Equal(t, "finals", battle.Name)
	assert.Equal(t, "vgc2025", battle.Format)
	assert.Equal(t, pkmn.ResultWin, battle.Result)
	action := firstAction(t, battle)
	assert.Equal(t, Fainted, action.Name)
}

func TestCant(t *testing.T) {
	battle := parseDefault(t, "|cant|p1a: PokemonA|flinch|tackle")
	action := firstAction(t, battle)
	assert.Equal(t, pkmn.ActionEffect, action.Type)
	assert.Equal(t, "cant use tackle due to flinch", action.Name)
	assert.Equal(t, "p1:PokemonA", action.User)
}

func TestTerastallize(t *testing.T) {
	battle := parseDefault(t, "|-terastallize|p1a: PokemonA|Water")
	action := firstAction(t, battle)
	assert.Equal(t, pkmn.ActionEffect, action.Type)
	assert.Equal(t, "terastallize to Water", action.Name)
	assert.Equal(t, "p1:PokemonA", action.User)
}

func TestHealFromItem(t *testing.T) {
	battle := parseDefault(t,
		"|-heal|p1a: PokemonA|100/191|[from] item: Leftovers",
	)
	action := firstAction(t, battle)
	assert.Equal(t, pkmn.ActionEffect, action.Type)
	assert.Equal(t, "item: Leftovers caused heal", action.Name)
	assert.Equal(t, []string{"p1:PokemonA"}, action.Targets)
}

func TestActivateAbility(t *testing.T) {
	battle := parseDefault(t, "|-activate|p1a: PokemonA|ability: Protosynthesis")
	action := firstAction(t, battle)
	assert.Equal(t, pkmn.ActionAbility, action.Type)
	assert.Equal(t, "activated Protosynthesis", action.Name)
	assert.Equal(t, "p1:PokemonA", action.User)
}
