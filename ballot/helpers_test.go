package ballot

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// stateOf builds selectors "A", "B", ... with the given raw selector values.
func stateOf(t *testing.T, values ...string) State {
	t.Helper()
	sels := make([]Selector, len(values))
	for i, v := range values {
		id := string(rune('A' + i))
		sels[i] = Selector{ID: id, Label: "Candidate " + id, Rank: ParseRank(v)}
	}
	s, err := NewState(sels...)
	require.NoError(t, err)
	return s
}

func ranksOf(s State) []string {
	out := make([]string, 0, s.Len())
	for _, sel := range s.Selectors() {
		out = append(out, sel.Rank.String())
	}
	return out
}

func conflictFree(s State) bool {
	seen := make(map[Rank]bool)
	for _, sel := range s.Selectors() {
		if !sel.Rank.Ranked() {
			continue
		}
		if seen[sel.Rank] {
			return false
		}
		seen[sel.Rank] = true
	}
	return true
}

// randomConflictFree returns n selector values where ranks 1..k are spread over
// random selectors and the rest are unranked.
func randomConflictFree(rng *rand.Rand, n, k int) []string {
	values := make([]string, n)
	for i := range values {
		values[i] = "0"
	}
	for rank, i := range rng.Perm(n)[:k] {
		values[i] = strconv.Itoa(rank + 1)
	}
	return values
}
