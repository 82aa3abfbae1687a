package pkmn

import "strings"

// Tagged builds a side-qualified pokemon identifier, "p1:Garchomp". The tag
// disambiguates identical species fielded by both players.
func Tagged(side Side, name string) string {
	if side == "" {
		return name
	}
	return string(side) + ":" + name
}

// SplitTag is the inverse of Tagged. For a bare identifier it returns an
// empty side and the input unchanged.
func SplitTag(ident string) (Side, string) {
	before, after, found := strings.Cut(ident, ":")
	side := sideOf(before)
	if !found {
		return side, ident
	}
	return side, strings.TrimSpace(after)
}

func sideOf(s string) Side {
	if strings.HasPrefix(s, string(SideP1)) {
		return SideP1
	}
	if strings.HasPrefix(s, string(SideP2)) {
		return SideP2
	}
	return ""
}
