package main

import tg "github.com/semog/go-bot-api/v4"

// Store is an interface for the persistent storage
// should allow easier swapping of databases
type Store interface {
	Init(databaseFile string) error
	Close()
	GetUpdateOffset() int
	SaveUpdateOffset(offset int) error
	SaveUser(*tg.User) error
	GetState(userID int) (state int, pollID int, err error)
	SaveState(userID int, pollID int, state int) error
	GetPoll(pollID int) (*poll, error)
	GetUserPoll(pollID int, userID int) (*poll, error)
	GetPollsByUser(userID int) ([]*poll, error)
	SavePoll(*poll) (int, error)
	SaveCandidates([]candidate) error
	DeleteCandidates([]candidate) error
	GetSelectors(pollID int, userID int) (selectorValues, error)
	GetAllSelectors(pollID int) (map[int]selectorValues, error)
	SaveSelectors(pollID int, userID int, values selectorValues) error
	AddBallotMsg(pollID int, msg ballotMsg) error
	GetBallotMsgs(pollID int, userID int) ([]ballotMsg, error)
	GetAllBallotMsgs(pollID int) ([]ballotMsg, error)
}
