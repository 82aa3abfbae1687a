package protocol

import (
	"strings"

	"github.com/vgclab/battlelab/pkmn"
)

// kwargs are the bracketed trailing arguments of a protocol line, such as
// "[from] ability: Drizzle" or the bare "[upkeep]".
type kwargs map[string]string

// splitLine splits a raw pipe-delimited protocol line into positional
// arguments (command name first) and keyword arguments. Blank lines and
// lines without a command yield no arguments.
func splitLine(line string) ([]string, kwargs) {
	parts := strings.Split(line, "|")
	if len(parts) > 0 {
		// Everything before the first pipe is decorative (usually empty).
		parts = parts[1:]
	}
	var args []string
	var kw kwargs
	for _, part := range parts {
		if strings.HasPrefix(part, "[") {
			if end := strings.Index(part, "]"); end > 0 {
				if kw == nil {
					kw = kwargs{}
				}
				kw[part[1:end]] = strings.TrimSpace(part[end+1:])
				continue
			}
		}
		args = append(args, part)
	}
	return args, kw
}

func (kw kwargs) has(key string) bool {
	_, ok := kw[key]
	return ok
}

// arg returns the idx-th positional argument or "" when absent.
func arg(args []string, idx int) string {
	if idx >= len(args) {
		return ""
	}
	return args[idx]
}

// effect is a parsed effect reference such as "ability: Flame Body" or a
// bare condition name.
type effect struct {
	kind string
	name string
}

var effectKinds = map[string]bool{
	"ability": true,
	"item":    true,
	"move":    true,
}

// parseEffect splits an effect reference into its kind and name. A bare
// name has an empty kind.
func parseEffect(raw string) effect {
	before, after, found := strings.Cut(raw, ":")
	if found {
		kind := strings.ToLower(strings.TrimSpace(before))
		if effectKinds[kind] {
			return effect{kind: kind, name: strings.TrimSpace(after)}
		}
	}
	return effect{name: strings.TrimSpace(raw)}
}

// fromInfo captures the "[from]" annotation of a line and the action type
// it implies: ability when the annotation names an ability, effect
// otherwise. The display name keeps the raw reference for non-ability
// causes so e.g. "move: Tailwind" stays distinguishable from the bare move.
type fromInfo struct {
	present    bool
	effect     effect
	actionType pkmn.ActionType
	name       string
}

func parseFrom(kw kwargs) fromInfo {
	raw, ok := kw["from"]
	if !ok || raw == "" {
		return fromInfo{actionType: pkmn.ActionEffect}
	}
	eff := parseEffect(raw)
	fi := fromInfo{present: true, effect: eff, actionType: pkmn.ActionEffect, name: raw}
	if eff.kind == "ability" {
		fi.actionType = pkmn.ActionAbility
		fi.name = eff.name
	}
	return fi
}

// parseIdent splits a raw pokemon identifier like "p1a: Garchomp" into the
// side, the position letter, and the in-battle nickname.
func parseIdent(raw string) (side pkmn.Side, position string, name string) {
	before, after, found := strings.Cut(raw, ":")
	if !found {
		return "", "", strings.TrimSpace(raw)
	}
	slot := strings.TrimSpace(before)
	if strings.HasPrefix(slot, string(pkmn.SideP1)) {
		side = pkmn.SideP1
	} else if strings.HasPrefix(slot, string(pkmn.SideP2)) {
		side = pkmn.SideP2
	}
	if side != "" && len(slot) > 2 {
		position = slot[2:]
	}
	return side, position, strings.TrimSpace(after)
}

// parseSpecies extracts the species forme from a details string such as
// "Greninja-Ash, L50, M, shiny". A plain species name passes through.
func parseSpecies(details string) string {
	before, _, _ := strings.Cut(details, ",")
	return strings.TrimSpace(before)
}
