package pkmn

import (
	"testing"

	"github.com/matryer/is"
)

func TestTaggedRoundTrip(t *testing.T) {
	is := is.New(t)
	type tc struct {
		side Side
		name string
		want string
	}
	cases := []tc{
		{SideP1, "Garchomp", "p1:Garchomp"},
		{SideP2, "Mega-Pokemon", "p2:Mega-Pokemon"},
		{"", "Garchomp", "Garchomp"},
	}
	for _, c := range cases {
		tagged := Tagged(c.side, c.name)
		is.Equal(tagged, c.want)
		side, name := SplitTag(tagged)
		is.Equal(side, c.side)
		is.Equal(name, c.name)
	}
}

func TestSplitTagBare(t *testing.T) {
	is := is.New(t)
	side, name := SplitTag("Pikachu")
	is.Equal(side, Side(""))
	is.Equal(name, "Pikachu")
}

func TestOpposite(t *testing.T) {
	is := is.New(t)
	is.Equal(SideP1.Opposite(), SideP2)
	is.Equal(SideP2.Opposite(), SideP1)
}
