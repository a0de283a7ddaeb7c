package main

import (
	"fmt"
	"strconv"

	"github.com/semog/rankbot/ballot"
)

type candidate struct {
	ID     int
	PollID int
	Text   string
}

type poll struct {
	ID         int
	UserID     int
	Contest    string
	Closed     int
	Candidates []candidate
}

// selectorValues are the raw rank values a voter picked, keyed by candidate ID.
// They are kept as given so that a malformed value reads back as unranked.
type selectorValues map[int]string

type ballotMsg struct {
	UserID    int
	ChatID    int64
	MessageID int
}

type renderKey struct {
	PollID int
	UserID int
}

func (p *poll) fmtQuery(query string) string {
	return fmt.Sprintf("%c:%d:%s", qryEditPayload, p.ID, query)
}

func (p *poll) fmtRankQuery(candidateID int, value string) string {
	return fmt.Sprintf("%c:%d:%d:%s", qryRankPayload, p.ID, candidateID, value)
}

func (p *poll) isClosed() bool {
	return p.Closed == closed
}

func (p *poll) findCandidate(candidateID int) (candidate, error) {
	for _, c := range p.Candidates {
		if c.ID == candidateID {
			return c, nil
		}
	}
	return candidate{}, fmt.Errorf("could not find candidate #%d in poll #%d", candidateID, p.ID)
}

// state builds the ballot state of one voter. Candidates keep the poll order.
func (p *poll) state(values selectorValues) (ballot.State, error) {
	sels := make([]ballot.Selector, 0, len(p.Candidates))
	for _, c := range p.Candidates {
		sels = append(sels, ballot.Selector{
			ID:    strconv.Itoa(c.ID),
			Label: c.Text,
			Rank:  ballot.ParseRank(values[c.ID]),
		})
	}
	return ballot.NewState(sels...)
}
