package protocol

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/vgclab/battlelab/pkmn"
)

var (
	errNoWinner        = errors.New("winner is undefined")
	errNoUsername      = errors.New("username is undefined")
	errNoPokemon       = errors.New("pokemon is undefined")
	errBadRegistration = errors.New("pokemon or details is undefined")
)

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}

func handleTurn(args []string, _ kwargs, ctx *context) error {
	n, err := strconv.Atoi(arg(args, 1))
	if err != nil {
		return fmt.Errorf("bad turn number: %w", err)
	}
	if n > 1 {
		ctx.pushTurn()
	}
	ctx.currTurn = n
	return nil
}

func handlePlayer(args []string, _ kwargs, ctx *context) error {
	slot := pkmn.Side(arg(args, 1))
	username := arg(args, 2)
	if username == "" {
		return errNoUsername
	}
	if ctx.invertSides {
		slot = slot.Opposite()
	}
	ctx.players[username] = slot
	return nil
}

func handleWin(args []string, _ kwargs, ctx *context) error {
	winner := arg(args, 1)
	if winner == "" {
		return errNoWinner
	}
	switch ctx.players[winner] {
	case pkmn.SideP1:
		ctx.result = pkmn.ResultWin
	case pkmn.SideP2:
		ctx.result = pkmn.ResultLoose
	}
	ctx.pushTurn()
	return nil
}

func handleTie(_ []string, _ kwargs, ctx *context) error {
	ctx.result = pkmn.ResultTie
	return nil
}

func handleMove(args []string, _ kwargs, ctx *context) error {
	side, user, _, _ := ctx.resolve(arg(args, 1))
	moveName := arg(args, 2)
	var targets []string
	rawTarget := arg(args, 3)
	if rawTarget != "" && rawTarget != "null" {
		_, _, tagged, _ := ctx.resolve(rawTarget)
		targets = []string{tagged}
	}
	ctx.pushAction(&action{
		Action: pkmn.Action{
			Type:    pkmn.ActionMove,
			Player:  side,
			Name:    orUnknown(moveName),
			User:    orUnknown(user),
			Targets: targets,
		},
		missingTargets: len(targets) == 0,
	})
	return nil
}

// handleDamage either records an indirect-damage event (when annotated with
// a cause) or feeds target inference for the latest unresolved move.
func handleDamage(args []string, kw kwargs, ctx *context) error {
	_, _, tagged, _ := ctx.resolve(arg(args, 1))
	if kw.has("from") && kw.has("of") {
		fi := parseFrom(kw)
		_, _, ofTagged, _ := ctx.resolve(kw["of"])
		ctx.pushAction(&action{Action: pkmn.Action{
			Type:    fi.actionType,
			Name:    orUnknown(fi.name) + " inflicted damage to",
			User:    ofTagged,
			Targets: []string{orUnknown(tagged)},
		}})
		return nil
	}
	if move := ctx.lastUnresolvedMove(); move != nil && tagged != "" {
		move.Targets = append(move.Targets, tagged)
	}
	return nil
}

// handleSwitch covers both switch and drag: register the nickname, then
// record the swap. The action's user is whatever previously occupied the
// position, so an opening switch has an empty user.
func handleSwitch(args []string, _ kwargs, ctx *context) error {
	if err := ctx.register(arg(args, 1), arg(args, 2)); err != nil {
		return err
	}
	side, name, _, position := ctx.resolve(arg(args, 1))
	var prev string
	if side != "" && position != "" {
		prev = ctx.positions[side][position]
	}
	ctx.pushAction(&action{Action: pkmn.Action{
		Type:    pkmn.ActionSwitch,
		Player:  side,
		Name:    "to",
		User:    prev,
		Targets: []string{orUnknown(name)},
	}})
	if side != "" && position != "" {
		ctx.positions[side][position] = name
	}
	return nil
}

// formeChangeHandler builds the handler for detailschange, replace and
// -mega: a cosmetic action describing the transition, then a nickname
// re-registration pointing at the new forme.
func formeChangeHandler(reason string, includePlayer bool) handler {
	return func(args []string, _ kwargs, ctx *context) error {
		rawPokemon := arg(args, 1)
		if rawPokemon == "" {
			return errNoPokemon
		}
		side, name, tagged, _ := ctx.resolve(rawPokemon)
		species := parseSpecies(arg(args, 2))
		a := &action{Action: pkmn.Action{
			Type:    pkmn.ActionEffect,
			Name:    reason,
			Targets: []string{orUnknown(species)},
			User:    orUnknown(tagged),
		}}
		if includePlayer {
			a.Player = side
			a.User = orUnknown(name)
		}
		ctx.pushAction(a)
		return ctx.register(rawPokemon, arg(args, 2))
	}
}

func handleFormeChange(args []string, kw kwargs, ctx *context) error {
	fi := parseFrom(kw)
	side, _, tagged, _ := ctx.resolve(arg(args, 1))
	species := parseSpecies(arg(args, 2))
	name := "changed its forme to"
	if fi.present {
		name = fi.name
	}
	ctx.pushAction(&action{Action: pkmn.Action{
		Type:    fi.actionType,
		Player:  side,
		Name:    name,
		Targets: []string{orUnknown(species)},
		User:    orUnknown(tagged),
	}})
	return ctx.register(arg(args, 1), arg(args, 2))
}

func handleCant(args []string, _ kwargs, ctx *context) error {
	_, _, tagged, _ := ctx.resolve(arg(args, 1))
	reason := parseEffect(arg(args, 2))
	move := arg(args, 3)
	typ := pkmn.ActionEffect
	if reason.kind == "ability" {
		typ = pkmn.ActionAbility
	}
	ctx.pushAction(&action{Action: pkmn.Action{
		Type: typ,
		Name: fmt.Sprintf("cant use %s due to %s", move, reason.name),
		User: orUnknown(tagged),
	}})
	return nil
}

func handleFaint(args []string, _ kwargs, ctx *context) error {
	_, _, tagged, _ := ctx.resolve(arg(args, 1))
	ctx.pushAction(&action{Action: pkmn.Action{
		Type: pkmn.ActionEffect,
		Name: Fainted,
		User: orUnknown(tagged),
	}})
	return nil
}

// handleFail attributes the failure to the most recently pushed action's
// user; the failing actor is implicit from context.
func handleFail(args []string, _ kwargs, ctx *context) error {
	_, _, tagged, _ := ctx.resolve(arg(args, 1))
	user := Unknown
	if last := ctx.lastAction(); last != nil {
		user = last.User
	}
	ctx.pushAction(&action{Action: pkmn.Action{
		Type:    pkmn.ActionEffect,
		Name:    fmt.Sprintf("failed to %s against", arg(args, 2)),
		Targets: []string{orUnknown(tagged)},
		User:    user,
	}})
	return nil
}

func handleBlock(args []string, kw kwargs, ctx *context) error {
	blocker := parseEffect(arg(args, 2))
	_, _, attacker, _ := ctx.resolve(arg(args, 4))
	blockerIdent := arg(args, 1)
	if of, ok := kw["of"]; ok && of != "" {
		blockerIdent = of
	}
	_, _, tagged, _ := ctx.resolve(blockerIdent)
	typ := pkmn.ActionEffect
	if blocker.kind == "ability" {
		typ = pkmn.ActionAbility
	}
	var targets []string
	if attacker != "" {
		targets = []string{attacker}
	}
	ctx.pushAction(&action{Action: pkmn.Action{
		Type:    typ,
		Name:    fmt.Sprintf("%s blocked %s from", blocker.name, arg(args, 3)),
		Targets: targets,
		User:    orUnknown(tagged),
	}})
	return nil
}

func handleMiss(args []string, _ kwargs, ctx *context) error {
	_, _, mover, _ := ctx.resolve(arg(args, 1))
	_, _, target, _ := ctx.resolve(arg(args, 2))
	move := Unknown
	if last := ctx.lastAction(); last != nil && last.Type == pkmn.ActionMove {
		move = last.Name
	}
	var targets []string
	if target != "" {
		targets = []string{target}
	}
	ctx.pushAction(&action{Action: pkmn.Action{
		Type:    pkmn.ActionEffect,
		Name:    fmt.Sprintf("missed %s against", move),
		Targets: targets,
		User:    orUnknown(mover),
	}})
	return nil
}

// handleStatus and handleCureStatus swap user and target depending on
// whether an external cause is present: the causer acts on the afflicted
// pokemon, while a self-originating status names only the afflicted one.
func handleStatus(args []string, kw kwargs, ctx *context) error {
	fi := parseFrom(kw)
	_, _, tagged, _ := ctx.resolve(arg(args, 1))
	status := arg(args, 2)
	a := &action{Action: pkmn.Action{
		Type:    fi.actionType,
		Name:    status + " affected",
		Targets: []string{orUnknown(tagged)},
	}}
	if fi.present {
		_, _, ofTagged, _ := ctx.resolve(kw["of"])
		a.Name = fmt.Sprintf("%s inflicted %s", fi.name, status)
		a.User = ofTagged
	}
	ctx.pushAction(a)
	return nil
}

func handleCureStatus(args []string, kw kwargs, ctx *context) error {
	fi := parseFrom(kw)
	_, _, tagged, _ := ctx.resolve(arg(args, 1))
	status := arg(args, 2)
	a := &action{Action: pkmn.Action{Type: fi.actionType}}
	if fi.present {
		_, _, ofTagged, _ := ctx.resolve(kw["of"])
		a.Name = fmt.Sprintf("%s cured %s", fi.name, status)
		a.Targets = []string{orUnknown(tagged)}
		a.User = ofTagged
	} else {
		a.Name = "cured from " + status
		a.User = orUnknown(tagged)
	}
	ctx.pushAction(a)
	return nil
}

// boostHandler builds the handler for -boost, -unboost and -setboost. An
// externally caused change attributes the causer as user and targets the
// affected pokemon; otherwise the affected pokemon is the user.
func boostHandler(label string) handler {
	return func(args []string, kw kwargs, ctx *context) error {
		fi := parseFrom(kw)
		_, _, tagged, _ := ctx.resolve(arg(args, 1))
		stat := arg(args, 2)
		amount := arg(args, 3)
		a := &action{Action: pkmn.Action{Type: fi.actionType}}
		if fi.present {
			_, _, ofTagged, _ := ctx.resolve(kw["of"])
			a.Name = fmt.Sprintf("%s caused %s %s %s to", fi.name, stat, label, amount)
			a.Targets = []string{orUnknown(tagged)}
			a.User = ofTagged
		} else {
			a.Name = fmt.Sprintf("%s %s %s", stat, label, amount)
			a.User = orUnknown(tagged)
		}
		ctx.pushAction(a)
		return nil
	}
}

func handleWeather(args []string, kw kwargs, ctx *context) error {
	if kw.has("upkeep") {
		// Upkeep lines re-announce the standing weather; not a new event.
		return nil
	}
	weather := arg(args, 1)
	if weather == "none" {
		ctx.pushAction(&action{Action: pkmn.Action{
			Type: pkmn.ActionEffect,
			Name: Weather + " " + Ended,
		}})
		return nil
	}
	fi := parseFrom(kw)
	_, _, ofTagged, _ := ctx.resolve(kw["of"])
	name := Weather + " " + weather
	if fi.present {
		name = fi.name + " set " + name
	}
	ctx.pushAction(&action{Action: pkmn.Action{
		Type: fi.actionType,
		Name: name,
		User: ofTagged,
	}})
	return nil
}

func fieldHandler(label string) handler {
	return func(args []string, kw kwargs, ctx *context) error {
		fi := parseFrom(kw)
		_, _, ofTagged, _ := ctx.resolve(kw["of"])
		name := arg(args, 1) + " " + label
		if fi.present {
			name = fi.name + " " + Caused + " " + name
		}
		ctx.pushAction(&action{Action: pkmn.Action{
			Type: fi.actionType,
			Name: name,
			User: ofTagged,
		}})
		return nil
	}
}

func sideHandler(label string) handler {
	return func(args []string, _ kwargs, ctx *context) error {
		ctx.pushAction(&action{Action: pkmn.Action{
			Type: pkmn.ActionEffect,
			Name: fmt.Sprintf("%s %s for %s", arg(args, 2), label, arg(args, 1)),
		}})
		return nil
	}
}

// volatileHandler builds the handler for -start and -end: a volatile effect
// on the affected pokemon, attributed to the external causer if any.
func volatileHandler(label string) handler {
	return func(args []string, kw kwargs, ctx *context) error {
		fi := parseFrom(kw)
		eff := parseEffect(arg(args, 2))
		_, _, tagged, _ := ctx.resolve(arg(args, 1))
		_, _, ofTagged, _ := ctx.resolve(kw["of"])
		typ := fi.actionType
		if eff.kind == "ability" {
			typ = pkmn.ActionAbility
		}
		name := fmt.Sprintf("%s %s on", eff.name, label)
		if fi.present {
			name = fi.name + " " + Caused + " " + name
		}
		ctx.pushAction(&action{Action: pkmn.Action{
			Type:    typ,
			Name:    name,
			Targets: []string{orUnknown(tagged)},
			User:    ofTagged,
		}})
		return nil
	}
}

func handleCrit(args []string, _ kwargs, ctx *context) error {
	_, _, tagged, _ := ctx.resolve(arg(args, 1))
	user := Unknown
	if move := ctx.lastMove(); move != nil {
		user = move.User
	}
	ctx.pushAction(&action{Action: pkmn.Action{
		Type:    pkmn.ActionEffect,
		Name:    "critical hit",
		Targets: []string{orUnknown(tagged)},
		User:    user,
	}})
	return nil
}

func handleAbility(args []string, kw kwargs, ctx *context) error {
	ability := parseEffect(arg(args, 2))
	_, _, tagged, _ := ctx.resolve(arg(args, 1))
	if kw.has("from") {
		fi := parseFrom(kw)
		ctx.pushAction(&action{Action: pkmn.Action{
			Type: pkmn.ActionEffect,
			Name: fmt.Sprintf("ability changed to %s due to %s", ability.name, orUnknown(fi.effect.name)),
			User: orUnknown(tagged),
		}})
		return nil
	}
	ctx.pushAction(&action{Action: pkmn.Action{
		Type: pkmn.ActionAbility,
		Name: ability.name,
		User: orUnknown(tagged),
	}})
	return nil
}

func handleZPower(args []string, _ kwargs, ctx *context) error {
	_, _, tagged, _ := ctx.resolve(arg(args, 1))
	ctx.pushAction(&action{Action: pkmn.Action{
		Type: pkmn.ActionEffect,
		Name: "used Z move",
		User: orUnknown(tagged),
	}})
	return nil
}

func handleActivate(args []string, _ kwargs, ctx *context) error {
	eff := parseEffect(arg(args, 2))
	_, _, tagged, _ := ctx.resolve(arg(args, 1))
	typ := pkmn.ActionEffect
	if eff.kind == "ability" {
		typ = pkmn.ActionAbility
	}
	ctx.pushAction(&action{Action: pkmn.Action{
		Type: typ,
		Name: "activated " + eff.name,
		User: orUnknown(tagged),
	}})
	return nil
}

func handleHitCount(args []string, _ kwargs, ctx *context) error {
	_, _, tagged, _ := ctx.resolve(arg(args, 1))
	ctx.pushAction(&action{Action: pkmn.Action{
		Type: pkmn.ActionEffect,
		Name: fmt.Sprintf("hit %s times", arg(args, 2)),
		User: orUnknown(tagged),
	}})
	return nil
}

func handleHeal(args []string, kw kwargs, ctx *context) error {
	fi := parseFrom(kw)
	_, _, tagged, _ := ctx.resolve(arg(args, 1))
	_, _, ofTagged, _ := ctx.resolve(kw["of"])
	a := &action{Action: pkmn.Action{Type: fi.actionType, Name: "heal", User: ofTagged}}
	if fi.present {
		a.Name = fi.name + " " + Caused + " heal"
		a.Targets = []string{orUnknown(tagged)}
	}
	ctx.pushAction(a)
	return nil
}

func handleTerastallize(args []string, _ kwargs, ctx *context) error {
	_, _, tagged, _ := ctx.resolve(arg(args, 1))
	ctx.pushAction(&action{Action: pkmn.Action{
		Type: pkmn.ActionEffect,
		Name: Tera + " to " + arg(args, 2),
		User: orUnknown(tagged),
	}})
	return nil
}

func handlePrimal(args []string, _ kwargs, ctx *context) error {
	_, _, tagged, _ := ctx.resolve(arg(args, 1))
	ctx.pushAction(&action{Action: pkmn.Action{
		Type: pkmn.ActionEffect,
		Name: "reverted to its primal forme",
		User: orUnknown(tagged),
	}})
	return nil
}
