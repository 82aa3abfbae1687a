// Package pkmn holds the data model shared by the protocol parser and the
// analytics engines: pokemon sets, battles, turns, actions, and the tagged
// identifier format that connects them.
package pkmn

// Stat is one of the six effort-value stats.
type Stat string

const (
	HP  Stat = "hp"
	Atk Stat = "atk"
	Def Stat = "def"
	SpA Stat = "spa"
	SpD Stat = "spd"
	Spe Stat = "spe"
)

// Stats lists the six EV stats in canonical order. Aggregators iterate this
// list so every stat shows up in results even when no set specified it.
var Stats = []Stat{HP, Atk, Def, SpA, SpD, Spe}

// PokemonSet is a single pokemon's configuration as produced by an external
// roster parser. Every field is optional; a zero value means the roster did
// not specify it.
type PokemonSet struct {
	Species  string       `json:"species,omitempty"`
	Ability  string       `json:"ability,omitempty"`
	Item     string       `json:"item,omitempty"`
	Nature   string       `json:"nature,omitempty"`
	TeraType string       `json:"teraType,omitempty"`
	Moves    []string     `json:"moves,omitempty"`
	Evs      map[Stat]int `json:"evs,omitempty"`
}

// TournamentTeam ties a parsed roster to the player that brought it.
type TournamentTeam struct {
	Player string        `json:"player"`
	Team   []*PokemonSet `json:"team"`
}
