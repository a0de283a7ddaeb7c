package ballot

import "strconv"

// Rank is a voter's preference for one candidate. The zero value is Unranked.
type Rank struct {
	n int
}

// Unranked means no preference was given.
var Unranked = Rank{}

// RankOf returns the rank n. Values below 1 are Unranked.
func RankOf(n int) Rank {
	if n < 1 {
		return Unranked
	}
	return Rank{n: n}
}

// ParseRank reads a selector value. A value is only accepted when formatting
// the parsed integer gives back exactly the same string, so "02", " 1" or
// "1.0" are all Unranked, and so is "0".
func ParseRank(s string) Rank {
	n, err := strconv.Atoi(s)
	if err != nil || strconv.Itoa(n) != s {
		return Unranked
	}
	return RankOf(n)
}

// Value returns the rank and whether one was given.
func (r Rank) Value() (int, bool) {
	return r.n, r.n > 0
}

func (r Rank) Ranked() bool {
	return r.n > 0
}

// Next is the rank directly below r. Next of Unranked is Unranked.
func (r Rank) Next() Rank {
	if !r.Ranked() {
		return Unranked
	}
	return Rank{n: r.n + 1}
}

// String formats r as a selector value; Unranked is "0".
func (r Rank) String() string {
	return strconv.Itoa(r.n)
}
