package main

import (
	"database/sql"
	"fmt"

	tg "github.com/semog/go-bot-api/v4"
	"github.com/semog/go-sqldb"
	"k8s.io/klog"
)

type sqlStore struct {
	db *sqldb.SQLDb
}

func (st *sqlStore) Close() {
	err := st.db.Close()
	if err != nil {
		klog.Infof("could not close database properly: %v\n", err)
	}
}

type closable interface {
	Close() error
}

func close(c closable) {
	err := c.Close()
	if err != nil {
		klog.Infof("could not close stmt or rows properly: %v\n", err)
	}
}

func newSQLStore(databaseFile string) (*sqlStore, error) {
	st := &sqlStore{}
	if err := st.Init(databaseFile); err != nil {
		return nil, fmt.Errorf("could not open database %s: %v", databaseFile, err)
	}
	return st, nil
}

// finishTx commits tx when *err is nil and rolls it back otherwise.
func finishTx(tx *sql.Tx, err *error) {
	if *err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			klog.Infof("could not rollback database change: %v", rerr)
		}
		return
	}
	*err = tx.Commit()
}

func (st *sqlStore) GetUpdateOffset() (offset int) {
	row := st.db.QueryRow("SELECT Offset FROM bot_updates WHERE ID = 1")
	if err := row.Scan(&offset); err != nil {
		return 0
	}
	return offset
}

func (st *sqlStore) SaveUpdateOffset(offset int) (err error) {
	err = st.db.Exec("INSERT INTO bot_updates(ID, Offset) values(1, ?) ON CONFLICT(ID) DO UPDATE SET Offset = excluded.Offset", offset)
	if err != nil {
		return fmt.Errorf("could not save bot updates offset: %v", err)
	}
	return nil
}

func (st *sqlStore) SaveUser(u *tg.User) (err error) {
	if u == nil || u.ID == 0 {
		return fmt.Errorf("invalid user ID 0")
	}

	now := getTimeStamp()
	err = st.db.Exec(`INSERT INTO user(ID, FirstName, LastName, UserName, LastSaved, CreatedAt) values(?, ?, ?, ?, ?, ?)
		ON CONFLICT(ID) DO UPDATE SET FirstName = excluded.FirstName, LastName = excluded.LastName,
		UserName = excluded.UserName, LastSaved = excluded.LastSaved`,
		u.ID, u.FirstName, u.LastName, u.UserName, now, now)
	if err != nil {
		return fmt.Errorf("could not save user '%s': %v", u.UserName, err)
	}
	return nil
}

func (st *sqlStore) GetState(userID int) (state int, pollID int, err error) {
	row := st.db.QueryRow("SELECT state, PollID FROM dialog WHERE UserID = ?", userID)
	if err := row.Scan(&state, &pollID); err != nil {
		return state, pollID, fmt.Errorf("could not scan state from row: %v", err)
	}
	return state, pollID, nil
}

func (st *sqlStore) SaveState(userID int, pollID int, state int) error {
	if userID == 0 {
		return fmt.Errorf("could not save state: invalid user ID 0 for poll #%d", pollID)
	}

	err := st.db.Exec("INSERT OR REPLACE INTO dialog(UserID, PollID, state) values(?, ?, ?)", userID, pollID, state)
	if err != nil {
		return fmt.Errorf("could not save state: could not insert or replace state database entry: %v", err)
	}
	return nil
}

func (st *sqlStore) GetPoll(pollID int) (*poll, error) {
	return st.GetUserPoll(pollID, 0)
}

// GetUserPoll loads a poll. With a userID above 0 only that user's poll is found.
func (st *sqlStore) GetUserPoll(pollID int, userID int) (*poll, error) {
	p := &poll{ID: pollID}
	var row *sql.Row
	if userID > 0 {
		row = st.db.QueryRow("SELECT UserID, Contest, Closed FROM poll WHERE ID = ? AND UserID = ?", pollID, userID)
	} else {
		row = st.db.QueryRow("SELECT UserID, Contest, Closed FROM poll WHERE ID = ?", pollID)
	}
	if err := row.Scan(&p.UserID, &p.Contest, &p.Closed); err != nil {
		return p, fmt.Errorf("could not scan poll #%d: %v", p.ID, err)
	}

	var err error
	p.Candidates, err = st.GetCandidates(p.ID)
	if err != nil {
		return p, fmt.Errorf("could not query candidates: %v", err)
	}
	return p, nil
}

func (st *sqlStore) GetPollsByUser(userID int) ([]*poll, error) {
	polls := make([]*poll, 0)
	rows, err := st.db.Query("SELECT ID, UserID, Contest, Closed FROM poll WHERE UserID = ? ORDER BY ID DESC LIMIT ?", userID, maxPollsInlineQuery)
	if err != nil {
		return polls, fmt.Errorf("could not query polls for userID #%d: %v", userID, err)
	}
	defer close(rows)

	for rows.Next() {
		p := &poll{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.Contest, &p.Closed); err != nil {
			return polls, fmt.Errorf("could not scan poll for userID #%d: %v", userID, err)
		}
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		return polls, fmt.Errorf("could not read polls for userID #%d: %v", userID, err)
	}

	for _, p := range polls {
		p.Candidates, err = st.GetCandidates(p.ID)
		if err != nil {
			return polls, fmt.Errorf("could not query candidates: %v", err)
		}
	}
	return polls, nil
}

func (st *sqlStore) SavePoll(p *poll) (id int, err error) {
	if p.UserID == 0 {
		return id, fmt.Errorf("invalid user ID 0 for poll #%d", p.ID)
	}

	now := getTimeStamp()
	if p.ID != 0 {
		err = st.db.Exec("UPDATE poll SET Contest = ?, Closed = ?, LastSaved = ? WHERE ID = ? AND UserID = ?",
			p.Contest, p.Closed, now, p.ID, p.UserID)
		if err != nil {
			return p.ID, fmt.Errorf("could not update poll #%d: %v", p.ID, err)
		}
		return p.ID, nil
	}

	id64, err := st.db.GetGkey()
	if err != nil {
		return id, fmt.Errorf("could not get poll gkey id: %v", err)
	}
	id = int(id64)

	err = st.db.Exec("INSERT INTO poll(ID, UserID, Contest, Closed, LastSaved, CreatedAt) values(?, ?, ?, ?, ?, ?)",
		id, p.UserID, p.Contest, p.Closed, now, now)
	if err != nil {
		return id, fmt.Errorf("could not execute sql insert statement: %v", err)
	}
	return id, nil
}

func (st *sqlStore) GetCandidates(pollID int) ([]candidate, error) {
	candidates := make([]candidate, 0)
	rows, err := st.db.Query("SELECT PollID, ID, Text FROM candidate WHERE PollID = ? ORDER BY ID", pollID)
	if err != nil {
		return candidates, fmt.Errorf("could not query candidates: %v", err)
	}
	defer close(rows)
	var c candidate
	for rows.Next() {
		err = rows.Scan(&c.PollID, &c.ID, &c.Text)
		if err != nil {
			return candidates, fmt.Errorf("could not scan candidate: %v", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func (st *sqlStore) SaveCandidates(candidates []candidate) (err error) {
	// new candidates get their IDs before the transaction takes the write lock
	for i := range candidates {
		if candidates[i].ID == 0 {
			id64, err := st.db.GetGkey()
			if err != nil {
				return fmt.Errorf("could not get gkey for candidate: %v", err)
			}
			candidates[i].ID = int(id64)
		}
	}

	tx, err := st.db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin database transaction: %v", err)
	}
	defer finishTx(tx, &err)

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO candidate(ID, PollID, Text) values(?, ?, ?)")
	if err != nil {
		return fmt.Errorf("could not prepare insert sql statement for candidates: %v", err)
	}
	defer close(stmt)

	for _, c := range candidates {
		_, err = stmt.Exec(c.ID, c.PollID, c.Text)
		if err != nil {
			return fmt.Errorf("could not insert or update candidate into sql database: %v", err)
		}
	}
	return nil
}

func (st *sqlStore) DeleteCandidates(candidates []candidate) (err error) {
	tx, err := st.db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin database transaction: %v", err)
	}
	defer finishTx(tx, &err)

	stmtDeleteCandidate, err := tx.Prepare("DELETE FROM candidate WHERE ID = ?")
	if err != nil {
		return fmt.Errorf("could not prepare delete sql statement for candidates: %v", err)
	}
	defer close(stmtDeleteCandidate)

	stmtDeleteSelector, err := tx.Prepare("DELETE FROM selector WHERE CandidateID = ?")
	if err != nil {
		return fmt.Errorf("could not prepare delete sql statement for selectors: %v", err)
	}
	defer close(stmtDeleteSelector)

	for _, c := range candidates {
		if _, err = stmtDeleteSelector.Exec(c.ID); err != nil {
			return fmt.Errorf("could not delete selectors of candidate #%d: %v", c.ID, err)
		}
		if _, err = stmtDeleteCandidate.Exec(c.ID); err != nil {
			return fmt.Errorf("could not delete candidate #%d: %v", c.ID, err)
		}
	}
	return nil
}

func (st *sqlStore) GetSelectors(pollID int, userID int) (selectorValues, error) {
	values := make(selectorValues)
	rows, err := st.db.Query("SELECT CandidateID, Value FROM selector WHERE PollID = ? AND UserID = ?", pollID, userID)
	if err != nil {
		return values, fmt.Errorf("could not query selectors: %v", err)
	}
	defer close(rows)
	var candidateID int
	var value string
	for rows.Next() {
		if err = rows.Scan(&candidateID, &value); err != nil {
			return values, fmt.Errorf("could not scan selector: %v", err)
		}
		values[candidateID] = value
	}
	return values, rows.Err()
}

func (st *sqlStore) GetAllSelectors(pollID int) (map[int]selectorValues, error) {
	voters := make(map[int]selectorValues)
	rows, err := st.db.Query("SELECT UserID, CandidateID, Value FROM selector WHERE PollID = ?", pollID)
	if err != nil {
		return voters, fmt.Errorf("could not query selectors: %v", err)
	}
	defer close(rows)
	var userID, candidateID int
	var value string
	for rows.Next() {
		if err = rows.Scan(&userID, &candidateID, &value); err != nil {
			return voters, fmt.Errorf("could not scan selector: %v", err)
		}
		if voters[userID] == nil {
			voters[userID] = make(selectorValues)
		}
		voters[userID][candidateID] = value
	}
	return voters, rows.Err()
}

// SaveSelectors writes the given values and leaves the voter's other selectors alone.
func (st *sqlStore) SaveSelectors(pollID int, userID int, values selectorValues) (err error) {
	if userID == 0 {
		return fmt.Errorf("invalid user ID 0 for poll #%d", pollID)
	}

	tx, err := st.db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin database transaction: %v", err)
	}
	defer finishTx(tx, &err)

	stmt, err := tx.Prepare(`INSERT INTO selector(PollID, UserID, CandidateID, Value, LastSaved) values(?, ?, ?, ?, ?)
		ON CONFLICT(PollID, UserID, CandidateID) DO UPDATE SET Value = excluded.Value, LastSaved = excluded.LastSaved`)
	if err != nil {
		return fmt.Errorf("could not prepare sql statement: %v", err)
	}
	defer close(stmt)

	now := getTimeStamp()
	for candidateID, value := range values {
		if _, err = stmt.Exec(pollID, userID, candidateID, value, now); err != nil {
			return fmt.Errorf("could not save selector for candidate #%d: %v", candidateID, err)
		}
	}
	return nil
}

func (st *sqlStore) AddBallotMsg(pollID int, msg ballotMsg) error {
	// ChatID and MessageID are the primary key
	err := st.db.Exec("INSERT OR REPLACE INTO ballotmsg(ChatID, MessageID, PollID, UserID) values(?, ?, ?, ?)",
		msg.ChatID, msg.MessageID, pollID, msg.UserID)
	if err != nil {
		return fmt.Errorf("could not add ballot message to poll #%d: %v", pollID, err)
	}
	return nil
}

func (st *sqlStore) GetBallotMsgs(pollID int, userID int) ([]ballotMsg, error) {
	rows, err := st.db.Query("SELECT UserID, ChatID, MessageID FROM ballotmsg WHERE PollID = ? AND UserID = ?", pollID, userID)
	if err != nil {
		return nil, fmt.Errorf("could not query ballotmsg: %v", err)
	}
	return scanBallotMsgs(rows)
}

func (st *sqlStore) GetAllBallotMsgs(pollID int) ([]ballotMsg, error) {
	rows, err := st.db.Query("SELECT UserID, ChatID, MessageID FROM ballotmsg WHERE PollID = ? ORDER BY UserID", pollID)
	if err != nil {
		return nil, fmt.Errorf("could not query ballotmsg: %v", err)
	}
	return scanBallotMsgs(rows)
}

func scanBallotMsgs(rows *sql.Rows) ([]ballotMsg, error) {
	defer close(rows)
	msgs := make([]ballotMsg, 0)
	var msg ballotMsg
	for rows.Next() {
		if err := rows.Scan(&msg.UserID, &msg.ChatID, &msg.MessageID); err != nil {
			return msgs, fmt.Errorf("could not scan ballot message: %v", err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}
