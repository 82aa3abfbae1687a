// Package protocol implements a parser for battle simulator protocol
// transcripts. Each line is a pipe-delimited event; a dispatch table maps
// event names to handlers that mutate a per-parse context. Parsing is
// best-effort: unknown commands are skipped and a handler failure never
// aborts the rest of the transcript.
package protocol

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/vgclab/battlelab/pkmn"
)

// Action name fragments that the analytics layer matches on. Keep these
// stable: training analytics classifies key actions by substring.
const (
	Unknown = "unknown"
	Fainted = "fainted"
	Weather = "weather"
	Started = "started"
	Ended   = "ended"
	Caused  = "caused"
	Tera    = "terastallize"
)

// Metadata describes the battle being parsed. PlayerTag is the slot the
// uploading player occupied in the transcript; when it is p2 every observed
// side is flipped so that p1 is always "us" downstream.
type Metadata struct {
	Name      string
	Notes     string
	Team      string
	Season    string
	Format    string
	PlayerTag pkmn.Side
}

// action wraps pkmn.Action with parse-time bookkeeping. The missingTargets
// flag marks a move that carried no explicit target; a later -damage line
// in the same turn appends the damaged pokemon to it.
type action struct {
	pkmn.Action
	missingTargets bool
}

// context is the mutable state carried across lines of a single parse. It
// is created by Parse and discarded when Parse returns; no state survives
// across battles.
type context struct {
	invertSides bool
	currTurn    int
	turns       []*pkmn.Turn
	actions     []*action
	players     map[string]pkmn.Side
	nicknames   map[pkmn.Side]map[string]string
	positions   map[pkmn.Side]map[string]string
	result      pkmn.Result
}

func newContext(invertSides bool) *context {
	return &context{
		invertSides: invertSides,
		currTurn:    1,
		players:     map[string]pkmn.Side{},
		nicknames: map[pkmn.Side]map[string]string{
			pkmn.SideP1: {},
			pkmn.SideP2: {},
		},
		positions: map[pkmn.Side]map[string]string{
			pkmn.SideP1: {},
			pkmn.SideP2: {},
		},
	}
}

// pushTurn closes the open turn and appends it to the result.
func (c *context) pushTurn() {
	turn := &pkmn.Turn{Index: c.currTurn, Actions: make([]*pkmn.Action, len(c.actions))}
	for i, a := range c.actions {
		turn.Actions[i] = &a.Action
	}
	c.turns = append(c.turns, turn)
	c.actions = nil
}

func (c *context) pushAction(a *action) {
	a.Index = len(c.actions)
	c.actions = append(c.actions, a)
}

// lastAction returns the most recently pushed action of the open turn.
func (c *context) lastAction() *action {
	if len(c.actions) == 0 {
		return nil
	}
	return c.actions[len(c.actions)-1]
}

// lastMove scans the open turn backwards for the most recent move action.
func (c *context) lastMove() *action {
	for i := len(c.actions) - 1; i >= 0; i-- {
		if c.actions[i].Type == pkmn.ActionMove {
			return c.actions[i]
		}
	}
	return nil
}

// lastUnresolvedMove scans backwards for the most recent move still waiting
// for target inference.
func (c *context) lastUnresolvedMove() *action {
	for i := len(c.actions) - 1; i >= 0; i-- {
		if c.actions[i].Type == pkmn.ActionMove && c.actions[i].missingTargets {
			return c.actions[i]
		}
	}
	return nil
}

// resolve turns a raw protocol identifier into its side, the resolved
// pokemon name (species when the nickname was registered, the nickname
// itself otherwise), its tagged form, and the position letter.
func (c *context) resolve(raw string) (side pkmn.Side, name, tagged, position string) {
	if raw == "" {
		return "", "", "", ""
	}
	side, position, nick := parseIdent(raw)
	if c.invertSides {
		side = side.Opposite()
	}
	name = nick
	if side != "" {
		if species, ok := c.nicknames[side][nick]; ok && species != "" {
			name = species
		}
	}
	return side, name, pkmn.Tagged(side, name), position
}

// register records the nickname-to-species mapping for switch, drag, forme
// change and related commands.
func (c *context) register(rawPokemon, details string) error {
	if rawPokemon == "" || details == "" {
		return errBadRegistration
	}
	side, name, _, _ := c.resolve(rawPokemon)
	if side == "" || name == "" {
		return errBadRegistration
	}
	species := parseSpecies(details)
	if species == "" {
		species = name
	}
	c.nicknames[side][name] = species
	return nil
}

type handler func(args []string, kw kwargs, ctx *context) error

// Parser interprets simulator protocol transcripts. The zero value is not
// usable; construct with NewParser.
type Parser struct {
	handlers map[string]handler
}

func NewParser() *Parser {
	p := &Parser{}
	p.handlers = map[string]handler{
		"turn":          handleTurn,
		"player":        handlePlayer,
		"win":           handleWin,
		"tie":           handleTie,
		"move":          handleMove,
		"-damage":       handleDamage,
		"switch":        handleSwitch,
		"drag":          handleSwitch,
		"detailschange": formeChangeHandler("megaevolved to", true),
		"replace":       formeChangeHandler("illusion ended", false),
		"-mega":         formeChangeHandler("megaevolved", true),
		"-formechange":  handleFormeChange,
		"cant":          handleCant,
		"faint":         handleFaint,
		"-fail":         handleFail,
		"-block":        handleBlock,
		"-miss":         handleMiss,
		"-status":       handleStatus,
		"-curestatus":   handleCureStatus,
		"-boost":        boostHandler("increased by"),
		"-unboost":      boostHandler("decreased by"),
		"-setboost":     boostHandler("changed to"),
		"-weather":      handleWeather,
		"-fieldstart":   fieldHandler(Started),
		"-fieldend":     fieldHandler(Ended),
		"-sidestart":    sideHandler(Started),
		"-sideend":      sideHandler(Ended),
		"-start":        volatileHandler(Started),
		"-end":          volatileHandler(Ended),
		"-crit":         handleCrit,
		"-ability":      handleAbility,
		"-zpower":       handleZPower,
		"-activate":     handleActivate,
		"-hitcount":     handleHitCount,
		"-heal":         handleHeal,
		"-terastallize": handleTerastallize,
		"-primal":       handlePrimal,
	}
	return p
}

// Parse splits a raw transcript into lines and parses it. Lines may be
// separated by either CRLF or LF.
func (p *Parser) Parse(meta Metadata, raw string) *pkmn.Battle {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	return p.ParseLines(meta, strings.Split(raw, "\n"))
}

// ParseLines parses an ordered list of protocol lines into a battle. It
// never fails: malformed lines are logged and skipped, and the battle holds
// whatever could be recovered.
func (p *Parser) ParseLines(meta Metadata, lines []string) *pkmn.Battle {
	ctx := newContext(meta.PlayerTag == pkmn.SideP2)
	for _, line := range lines {
		args, kw := splitLine(line)
		if len(args) == 0 {
			continue
		}
		h, ok := p.handlers[args[0]]
		if !ok {
			continue
		}
		if err := h(args, kw, ctx); err != nil {
			log.Warn().Err(err).Str("line", line).Msg("failed to parse line")
		}
	}
	if len(ctx.actions) > 0 {
		// The transcript ended without a closing turn/win/tie line. Keep
		// what we have as a final turn rather than dropping it.
		log.Warn().Int("actions", len(ctx.actions)).Msg("unassigned trailing actions; closing final turn")
		ctx.pushTurn()
	}
	return &pkmn.Battle{
		Name:   meta.Name,
		Notes:  meta.Notes,
		Team:   meta.Team,
		Season: meta.Season,
		Format: meta.Format,
		Turns:  ctx.turns,
		Result: ctx.result,
	}
}
