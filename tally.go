package main

import (
	"fmt"
	"sort"

	"github.com/semog/rankbot/ballot"
	"k8s.io/klog"
)

// countPoll runs a BC-STV count over the effective ballots of every voter.
// A voter's ballot counts up to its first violation, exactly as the ballot
// message showed it to them.
func countPoll(p *poll, voters map[int]selectorValues, seats int) (ballot.Result, error) {
	userIDs := make([]int, 0, len(voters))
	for userID := range voters {
		userIDs = append(userIDs, userID)
	}
	sort.Ints(userIDs)

	ballots := make([][]string, 0, len(userIDs))
	for _, userID := range userIDs {
		s, err := p.state(voters[userID])
		if err != nil {
			return ballot.Result{}, fmt.Errorf("could not build ballot of user %d: %v", userID, err)
		}
		ballots = append(ballots, ballot.Summarize(s).Effective())
	}

	res, err := ballot.Count(ballots, seats)
	if err != nil {
		return res, err
	}
	klog.Infof("Counted poll #%d: %d of %d ballots valid, %d round(s), elected %v",
		p.ID, res.Ballots, len(ballots), len(res.Rounds), res.Elected)
	return res, nil
}
