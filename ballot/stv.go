package ballot

import (
	"errors"
	"fmt"
	"sort"
)

var ErrInvalidSeats = errors.New("at least one seat is required")

// TieBreaker picks the candidate to eliminate among tied ones. tied is sorted
// and has at least two entries.
type TieBreaker func(tied []string) string

type countOptions struct {
	tieBreak TieBreaker
}

type CountOption func(*countOptions)

// WithTieBreaker replaces the default tie breaker, which eliminates the
// lexically first of the tied candidates.
func WithTieBreaker(tb TieBreaker) CountOption {
	return func(o *countOptions) {
		if tb != nil {
			o.tieBreak = tb
		}
	}
}

// Round is one step of a count.
type Round struct {
	Tally      map[string]float64
	Elected    string
	Eliminated string
}

// Result of a count. Exhausted is set when ballots ran out before every seat
// was filled.
type Result struct {
	Ballots   int
	Quota     int
	Elected   []string
	Rounds    []Round
	Exhausted bool
}

type weightedBallot struct {
	prefs []string
	value float64
}

func (b *weightedBallot) active() bool {
	return len(b.prefs) > 0 && b.value > 0
}

func (b *weightedBallot) eliminate(candidate string) {
	prefs := b.prefs[:0]
	for _, p := range b.prefs {
		if p != candidate {
			prefs = append(prefs, p)
		}
	}
	b.prefs = prefs
}

// Count runs a BC-STV count. Each ballot is an effective preference list, as
// returned by Summary.Effective; empty ballots are ignored.
func Count(ballots [][]string, seats int, opts ...CountOption) (Result, error) {
	if seats < 1 {
		return Result{}, fmt.Errorf("could not count %d seats: %w", seats, ErrInvalidSeats)
	}
	o := countOptions{tieBreak: func(tied []string) string { return tied[0] }}
	for _, opt := range opts {
		opt(&o)
	}

	var all []*weightedBallot
	for _, b := range ballots {
		if len(b) == 0 {
			continue
		}
		all = append(all, &weightedBallot{prefs: append([]string(nil), b...), value: 1})
	}

	res := Result{
		Ballots: len(all),
		Quota:   len(all)/(seats+1) + 1,
	}
	for len(res.Elected) < seats {
		piles := make(map[string][]*weightedBallot)
		for _, b := range all {
			if b.active() {
				piles[b.prefs[0]] = append(piles[b.prefs[0]], b)
			}
		}
		if len(piles) == 0 {
			res.Exhausted = true
			break
		}

		round := Round{Tally: make(map[string]float64, len(piles))}
		for c, pile := range piles {
			round.Tally[c] = pileValue(pile)
		}

		top := highest(round.Tally)
		votes := round.Tally[top]
		if votes >= float64(res.Quota) || len(piles) <= seats-len(res.Elected) {
			transfer := (votes - float64(res.Quota)) / votes
			if transfer < 0 {
				transfer = 0
			}
			for _, b := range piles[top] {
				b.value *= transfer
			}
			round.Elected = top
			res.Elected = append(res.Elected, top)
		} else {
			round.Eliminated = lowest(round.Tally, res.Rounds, o.tieBreak)
		}

		gone := round.Elected
		if gone == "" {
			gone = round.Eliminated
		}
		for _, b := range all {
			b.eliminate(gone)
		}
		res.Rounds = append(res.Rounds, round)
	}
	return res, nil
}

func pileValue(pile []*weightedBallot) float64 {
	var v float64
	for _, b := range pile {
		v += b.value
	}
	return v
}

func sortedCandidates(tally map[string]float64) []string {
	cands := make([]string, 0, len(tally))
	for c := range tally {
		cands = append(cands, c)
	}
	sort.Strings(cands)
	return cands
}

func highest(tally map[string]float64) string {
	var top string
	for i, c := range sortedCandidates(tally) {
		if i == 0 || tally[c] > tally[top] {
			top = c
		}
	}
	return top
}

func lowestOf(tally map[string]float64) []string {
	var mins []string
	for _, c := range sortedCandidates(tally) {
		switch {
		case len(mins) == 0 || tally[c] < tally[mins[0]]:
			mins = []string{c}
		case tally[c] == tally[mins[0]]:
			mins = append(mins, c)
		}
	}
	return mins
}

// lowest picks the candidate to eliminate. Ties are broken by the most recent
// earlier round in which the tied candidates differ; a candidate missing from
// a round had no votes in it.
func lowest(tally map[string]float64, history []Round, tb TieBreaker) string {
	mins := lowestOf(tally)
	for i := len(history) - 1; i >= 0 && len(mins) > 1; i-- {
		prev := make(map[string]float64, len(mins))
		for _, c := range mins {
			prev[c] = history[i].Tally[c]
		}
		mins = lowestOf(prev)
	}
	if len(mins) == 1 {
		return mins[0]
	}
	pick := tb(mins)
	for _, c := range mins {
		if c == pick {
			return pick
		}
	}
	return mins[0]
}
