package main

import (
	"github.com/semog/go-sqldb"
)

func (st *sqlStore) Init(databaseFile string) error {
	var err error
	st.db, err = sqldb.OpenAndPatchDb(databaseFile, dbPatchFuncs)
	return err
}

// The array of patch functions that will automatically upgrade the database.
var dbPatchFuncs = []sqldb.PatchFuncType{
	// Add new patch functions to this array to automatically upgrade the database.
	{PatchID: 1, PatchFunc: func(sdb *sqldb.SQLDb) error {
		if err := sdb.CreateTable(`poll(
			ID INTEGER PRIMARY KEY ASC,
			UserID INTEGER,
			LastSaved INTEGER,
			CreatedAt INTEGER,
			Closed INTEGER,
			Contest TEXT)`); err != nil {
			return err
		}
		if err := sdb.CreateIndex("poll_user_index ON poll(UserID)"); err != nil {
			return err
		}
		if err := sdb.CreateTable(`candidate(
			ID INTEGER PRIMARY KEY ASC,
			PollID INTEGER,
			Text TEXT)`); err != nil {
			return err
		}
		if err := sdb.CreateIndex("candidate_index ON candidate(PollID)"); err != nil {
			return err
		}
		if err := sdb.CreateTable(`dialog(
			UserID INTEGER PRIMARY KEY,
			PollID INTEGER,
			state INTEGER)`); err != nil {
			return err
		}
		return sdb.CreateTable(`user(
			ID INTEGER PRIMARY KEY,
			FirstName TEXT,
			LastName Text,
			LastSaved INTEGER,
			CreatedAt INTEGER,
			UserName TEXT)`)
	}},
	{PatchID: 2, PatchFunc: func(sdb *sqldb.SQLDb) error {
		// One row per voter and candidate. Value is the raw selector value.
		if err := sdb.CreateTable(`selector(
			PollID INTEGER,
			UserID INTEGER,
			CandidateID INTEGER,
			Value TEXT,
			LastSaved INTEGER,
			PRIMARY KEY(PollID, UserID, CandidateID))`); err != nil {
			return err
		}
		// Ballot messages that get re-rendered when a voter's selectors change.
		if err := sdb.CreateTable(`ballotmsg(
			ChatID INTEGER,
			MessageID INTEGER,
			PollID INTEGER,
			UserID INTEGER,
			PRIMARY KEY(ChatID, MessageID))`); err != nil {
			return err
		}
		return sdb.CreateIndex("ballotmsg_index ON ballotmsg(PollID, UserID)")
	}},
	{PatchID: 3, PatchFunc: func(sdb *sqldb.SQLDb) error {
		// Table for tracking the bot update offset
		return sdb.CreateTable(`bot_updates(
			ID INTEGER PRIMARY KEY ASC,
			Offset INTEGER)`)
	}},
}
