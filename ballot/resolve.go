package ballot

import (
	"errors"
	"fmt"
)

// ErrUnsettled is returned by Settle when the cascade did not reach a fixed
// point within its bound.
var ErrUnsettled = errors.New("rank conflicts did not settle")

// ResolveConflicts repairs collisions with the selector that just changed:
// every other selector holding the same rank moves one rank down. It returns
// the new state and the ids it moved, in selector order. Collisions between
// two other selectors are left alone until one of them changes.
func ResolveConflicts(s State, changedID string) (State, []string, error) {
	changed, ok := s.Lookup(changedID)
	if !ok {
		return s, nil, fmt.Errorf("could not resolve conflicts for %q: %w", changedID, ErrUnknownSelector)
	}
	if !changed.Rank.Ranked() {
		return s, nil, nil
	}

	var bumped []string
	next := s
	for _, sel := range s.selectors {
		if sel.ID == changedID || sel.Rank != changed.Rank {
			continue
		}
		var err error
		next, err = next.Set(sel.ID, sel.Rank.Next())
		if err != nil {
			return s, nil, err
		}
		bumped = append(bumped, sel.ID)
	}
	return next, bumped, nil
}

// Settle applies ResolveConflicts to changedID and then to every selector it
// moves, first in first out, until nothing moves any more. Each queued id is
// resolved with the rank it holds when its turn comes, not the rank it had
// when it was queued.
//
// observe, when not nil, is called after every processed change with the
// state at that point and the id that was processed.
//
// At most N*N changes are processed for N selectors; past that Settle gives
// up and returns the last state with ErrUnsettled. The bound is a guard: a
// cascade takes at most 1+N(N-1)/2 changes.
func Settle(s State, changedID string, observe func(State, string)) (State, error) {
	return settle(s, changedID, observe, s.Len()*s.Len())
}

func settle(s State, changedID string, observe func(State, string), limit int) (State, error) {
	if _, ok := s.Lookup(changedID); !ok {
		return s, fmt.Errorf("could not settle %q: %w", changedID, ErrUnknownSelector)
	}

	if limit < 1 {
		limit = 1
	}
	queue := []string{changedID}
	for steps := 0; len(queue) > 0; steps++ {
		if steps == limit {
			return s, fmt.Errorf("%d changes still queued after %d steps: %w", len(queue), steps, ErrUnsettled)
		}
		id := queue[0]
		queue = queue[1:]

		next, bumped, err := ResolveConflicts(s, id)
		if err != nil {
			return s, err
		}
		s = next
		queue = append(queue, bumped...)
		if observe != nil {
			observe(s, id)
		}
	}
	return s, nil
}
