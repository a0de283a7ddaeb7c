package ballot

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownSelector   = errors.New("unknown selector")
	ErrDuplicateSelector = errors.New("duplicate selector")
)

// Selector is the rank control for one candidate.
type Selector struct {
	ID    string
	Label string
	Rank  Rank
}

// State is the ordered set of selectors of one ballot. Methods never modify
// the receiver; Set returns a new State.
type State struct {
	selectors []Selector
	index     map[string]int
}

// NewState builds a State. Selector order is kept: it decides which label wins
// when two selectors share a rank.
func NewState(selectors ...Selector) (State, error) {
	s := State{
		selectors: make([]Selector, len(selectors)),
		index:     make(map[string]int, len(selectors)),
	}
	for i, sel := range selectors {
		if sel.ID == "" {
			return State{}, fmt.Errorf("selector #%d has no id: %w", i, ErrUnknownSelector)
		}
		if _, ok := s.index[sel.ID]; ok {
			return State{}, fmt.Errorf("selector %q: %w", sel.ID, ErrDuplicateSelector)
		}
		s.index[sel.ID] = i
		s.selectors[i] = sel
	}
	return s, nil
}

func (s State) Len() int {
	return len(s.selectors)
}

// Selectors returns a copy of the selectors in order.
func (s State) Selectors() []Selector {
	return append([]Selector(nil), s.selectors...)
}

func (s State) Lookup(id string) (Selector, bool) {
	i, ok := s.index[id]
	if !ok {
		return Selector{}, false
	}
	return s.selectors[i], true
}

// Label returns the display name of selector id, or "" if there is none.
func (s State) Label(id string) string {
	sel, _ := s.Lookup(id)
	return sel.Label
}

// Set returns a copy of s with selector id set to r.
func (s State) Set(id string, r Rank) (State, error) {
	i, ok := s.index[id]
	if !ok {
		return s, fmt.Errorf("could not set %q: %w", id, ErrUnknownSelector)
	}
	if s.selectors[i].Rank == r {
		return s, nil
	}
	next := State{
		selectors: s.Selectors(),
		index:     s.index,
	}
	next.selectors[i].Rank = r
	return next, nil
}

// Changed lists the selectors whose rank differs between s and other, in the
// order of s. Selectors missing from other count as changed.
func (s State) Changed(other State) []string {
	var ids []string
	for _, sel := range s.selectors {
		o, ok := other.Lookup(sel.ID)
		if !ok || o.Rank != sel.Rank {
			ids = append(ids, sel.ID)
		}
	}
	return ids
}
