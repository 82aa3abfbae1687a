package pkmn

// Side is a player slot. Slot p1 is always "us", the perspective the battle
// was parsed from; the parser flips observed sides when needed so this holds.
type Side string

const (
	SideP1 Side = "p1"
	SideP2 Side = "p2"
)

// Opposite returns the other player slot; it is the identity for anything
// that is not p1 or p2.
func (s Side) Opposite() Side {
	switch s {
	case SideP1:
		return SideP2
	case SideP2:
		return SideP1
	}
	return s
}

// ActionType classifies a parsed action.
type ActionType string

const (
	ActionMove    ActionType = "move"
	ActionSwitch  ActionType = "switch"
	ActionAbility ActionType = "ability"
	ActionEffect  ActionType = "effect"
)

// Result is a battle outcome from the parsing player's perspective. The
// zero value means the outcome could not be determined from the transcript.
type Result string

const (
	ResultWin     Result = "win"
	ResultLoose   Result = "loose"
	ResultTie     Result = "tie"
	ResultUnknown Result = "unknown"
)

// Action is a discrete event within a turn. User and Targets are either
// bare pokemon names or tagged "slot:name" identifiers; which of the two a
// given command emits is part of each handler's contract.
type Action struct {
	Index   int        `json:"index"`
	Type    ActionType `json:"type"`
	Player  Side       `json:"player,omitempty"`
	Name    string     `json:"name"`
	User    string     `json:"user"`
	Targets []string   `json:"targets"`
}

// Turn is an ordered list of actions under the turn number the transcript
// announced.
type Turn struct {
	Index   int       `json:"index"`
	Actions []*Action `json:"actions"`
}

// Battle is a fully parsed transcript plus its metadata.
type Battle struct {
	Name   string  `json:"name"`
	Notes  string  `json:"notes,omitempty"`
	Team   string  `json:"team,omitempty"`
	Season string  `json:"season,omitempty"`
	Format string  `json:"format,omitempty"`
	Turns  []*Turn `json:"turns"`
	Result Result  `json:"result,omitempty"`
}

// Training is a session of battles analyzed together.
type Training struct {
	Name    string    `json:"name"`
	Battles []*Battle `json:"battles"`
}
