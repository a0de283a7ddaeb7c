package main

// Command list
const (
	qryDummy          = "dummy"
	qryCreateNewPoll  = "createNewPoll"
	qryCreatePoll     = "createPoll"
	qryPollDone       = "pollDone"
	qryRankPayload    = 'r'
	qryEditPayload    = 'e'
	startBallotPrefix = "ballot"
)

// Query command sub-operators
const (
	qryToggleClosed  = "c"
	qryAddCandidates = "o"
)

// Poll editing states. Do not change the order of these constants.
// Their values are persisted to the database, and changing them could
// break the application.
const (
	ohHi = iota
	waitingForContest
	waitingForCandidate
	pollDone
)

const (
	open = iota
	closed
)

const (
	maxCandidates       = 20
	maxPollsInlineQuery = 5
	maxButtonLabel      = 28
	defaultSeats        = 1
	lineSep             = "╼━━━━━━━━━━━━━━━━╾"
)
