package ballot

import "sort"

// Kind is the overall outcome of a ballot.
type Kind int

const (
	Declined Kind = iota
	Spoiled
	Ranked
)

func (k Kind) String() string {
	switch k {
	case Declined:
		return "declined"
	case Spoiled:
		return "spoiled"
	case Ranked:
		return "ranked"
	}
	return "unknown"
}

// Violation is the first rule a ballot breaks.
type Violation int

const (
	NoViolation Violation = iota
	DuplicateRank
	NotConsecutive
	NoFirstChoice
)

func (v Violation) String() string {
	switch v {
	case NoViolation:
		return "none"
	case DuplicateRank:
		return "duplicate rank"
	case NotConsecutive:
		return "not consecutive"
	case NoFirstChoice:
		return "no first choice"
	}
	return "unknown"
}

// Summary describes what will count from a ballot.
type Summary struct {
	Kind Kind
	// Reason is why a spoiled ballot is spoiled, or why a ranked ballot was
	// cut short. NoViolation for declined and complete ballots.
	Reason Violation
	// Choices are the counted selectors for ranks 1..len(Choices).
	Choices []Selector
	// Conflict is the lowest rank held by more than one selector.
	Conflict Rank
	// Gap is set when the ranks given are not a dense run from 1.
	Gap bool
}

// Truncated reports whether a ranked ballot had more preferences than count.
func (s Summary) Truncated() bool {
	return s.Kind == Ranked && s.Reason != NoViolation
}

// Effective returns the ids of the counted choices in preference order.
func (s Summary) Effective() []string {
	ids := make([]string, 0, len(s.Choices))
	for _, c := range s.Choices {
		ids = append(ids, c.ID)
	}
	return ids
}

// Summarize works out the effective ballot of s. A ballot is valid up to its
// first violation: a rank that two selectors share, or a missing rank.
func Summarize(s State) Summary {
	// rank 0 stands for "unranked" in keys below so that a dense ballot has
	// keys equal to their index.
	prefs := make(map[int]Selector, s.Len())
	conflict := 0
	for _, sel := range s.selectors {
		n, ok := sel.Rank.Value()
		if !ok {
			continue
		}
		if _, taken := prefs[n]; taken && (conflict == 0 || n < conflict) {
			conflict = n
		}
		prefs[n] = sel
	}

	keys := make([]int, 0, len(prefs)+1)
	keys = append(keys, 0)
	for n := range prefs {
		keys = append(keys, n)
	}
	sort.Ints(keys)
	gap := keys[len(keys)-1] != len(keys)-1

	valid := keys
	if conflict > 0 && conflict < len(valid) {
		valid = valid[:conflict]
	}
	for i := 1; i < len(valid); i++ {
		if valid[i] != i {
			valid = valid[:i]
			break
		}
	}

	sum := Summary{Conflict: RankOf(conflict), Gap: gap}
	switch {
	case len(keys) == 1:
		sum.Kind = Declined
	case keys[1] != 1:
		sum.Kind = Spoiled
		sum.Reason = NoFirstChoice
	default:
		// a shared rank 1 leaves no choices, but still lists as a ranked ballot
		sum.Kind = Ranked
		for n := 1; n < len(valid); n++ {
			sum.Choices = append(sum.Choices, prefs[n])
		}
		if conflict > 0 {
			sum.Reason = DuplicateRank
		} else if gap {
			sum.Reason = NotConsecutive
		}
	}
	return sum
}
