package main

import (
	"fmt"
	"strconv"
	"testing"

	tg "github.com/semog/go-bot-api/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textMessage(userID int, text string) tg.Update {
	return tg.Update{Message: &tg.Message{
		MessageID: 1,
		From:      &tg.User{ID: userID, UserName: "owner"},
		Chat:      &tg.Chat{ID: int64(userID)},
		Text:      text,
	}}
}

func TestDialog_CreatePoll(t *testing.T) {
	st := newTestStore(t)
	bot := &fakeBot{}
	const owner = 5

	require.NoError(t, handleCallbackQuery(bot, rankCallback(owner, qryCreatePoll), st))
	assert.Equal(t, locNewContest, bot.lastText(t))
	state, _, err := st.GetState(owner)
	require.NoError(t, err)
	assert.Equal(t, waitingForContest, state)

	require.NoError(t, handleDialog(bot, textMessage(owner, " Board "), st))
	assert.Equal(t, fmt.Sprintf(locGotContest, "Board"), bot.lastText(t))
	state, pollID, err := st.GetState(owner)
	require.NoError(t, err)
	assert.Equal(t, waitingForCandidate, state)

	for _, name := range []string{"Alice", "Bob", "Carl"} {
		require.NoError(t, handleDialog(bot, textMessage(owner, name), st))
	}
	assert.Contains(t, bot.lastText(t), "1. Alice\n2. Bob\n3. Carl\n")

	require.NoError(t, handleDialog(bot, textMessage(owner, "3. Carol"), st))
	require.NoError(t, handleDialog(bot, textMessage(owner, "2."), st))
	assert.Contains(t, bot.lastText(t), "1. Alice\n2. Carol\n</pre>")
	assert.Error(t, handleDialog(bot, textMessage(owner, "9."), st))

	p, err := st.GetUserPoll(pollID, owner)
	require.NoError(t, err)
	assert.Equal(t, "Board", p.Contest)
	require.Len(t, p.Candidates, 2)
	assert.Equal(t, "Carol", p.Candidates[1].Text)

	require.NoError(t, handleCallbackQuery(bot, rankCallback(owner, fmt.Sprintf("%s:%d", qryPollDone, pollID)), st))
	assert.Contains(t, bot.lastText(t), fmt.Sprintf(locCurrentlySelectedPoll, pollID))
	state, _, err = st.GetState(owner)
	require.NoError(t, err)
	assert.Equal(t, pollDone, state)
}

func TestDialog_TooManyCandidates(t *testing.T) {
	st := newTestStore(t)
	bot := &fakeBot{}
	names := make([]string, maxCandidates)
	for i := range names {
		names[i] = "c" + strconv.Itoa(i)
	}
	p := newTestPoll(t, st, 5, "board", names...)
	require.NoError(t, st.SaveState(5, p.ID, waitingForCandidate))

	require.NoError(t, handleDialog(bot, textMessage(5, "one more"), st))
	assert.Equal(t, fmt.Sprintf(locTooManyCandidates, maxCandidates), bot.lastText(t))
	got, err := st.GetPoll(p.ID)
	require.NoError(t, err)
	assert.Len(t, got.Candidates, maxCandidates)
}

func TestDialog_NoStateShowsMainMenu(t *testing.T) {
	st := newTestStore(t)
	bot := &fakeBot{}

	require.NoError(t, handleDialog(bot, textMessage(5, "hello"), st))
	assert.Equal(t, locMainMenu, bot.lastText(t))
}

func TestHandleBallotCommand(t *testing.T) {
	st := newTestStore(t)
	p := newTestPoll(t, st, 5, "board", "Alice", "Bob")
	require.NoError(t, st.SaveSelectors(p.ID, 7, selectorValues{p.Candidates[1].ID: "1"}))
	bot := &fakeBot{}

	require.NoError(t, handleBallotCommand(bot, 7, 7, st, " "+strconv.Itoa(p.ID)))
	msgs := bot.messages(t)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Text, "\n1. Bob")
	assert.Equal(t, tg.ModeHTML, msgs[0].ParseMode)
	assert.NotNil(t, msgs[0].ReplyMarkup)

	stored, err := st.GetBallotMsgs(p.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, []ballotMsg{{UserID: 7, ChatID: 7, MessageID: bot.nextID}}, stored)

	require.NoError(t, handleBallotCommand(bot, 7, 7, st, "x"))
	assert.Equal(t, locUsageBallot, bot.lastText(t))
	require.NoError(t, handleBallotCommand(bot, 7, 7, st, "999"))
	assert.Equal(t, fmt.Sprintf(locNoSuchPoll, "999"), bot.lastText(t))

	empty := newTestPoll(t, st, 5, "empty")
	require.NoError(t, handleBallotCommand(bot, 7, 7, st, strconv.Itoa(empty.ID)))
	assert.Equal(t, locNoCandidates, bot.lastText(t))
}

func TestHandleResultsCommand(t *testing.T) {
	st := newTestStore(t)
	p := newTestPoll(t, st, 5, "board", "Alice", "Bob")
	alice, bob := p.Candidates[0].ID, p.Candidates[1].ID
	require.NoError(t, st.SaveSelectors(p.ID, 7, selectorValues{alice: "1"}))
	require.NoError(t, st.SaveSelectors(p.ID, 8, selectorValues{alice: "1", bob: "2"}))
	require.NoError(t, st.SaveSelectors(p.ID, 9, selectorValues{bob: "1"}))
	bot := &fakeBot{}

	require.NoError(t, handleResultsCommand(bot, 5, 5, st, strconv.Itoa(p.ID)))
	text := bot.lastText(t)
	assert.Contains(t, text, fmt.Sprintf(locResultsHeader, "board", 3, 1, 2))
	assert.Contains(t, text, "elected: Alice")

	require.NoError(t, handleResultsCommand(bot, 5, 5, st, strconv.Itoa(p.ID)+" 2"))
	assert.Contains(t, bot.lastText(t), fmt.Sprintf(locResultsHeader, "board", 3, 2, 2))

	for _, args := range []string{"", "x", "1 2 3", strconv.Itoa(p.ID) + " 0"} {
		require.NoError(t, handleResultsCommand(bot, 5, 5, st, args))
		assert.Equal(t, locUsageResults, bot.lastText(t), args)
	}

	// only the owner counts
	require.NoError(t, handleResultsCommand(bot, 7, 7, st, strconv.Itoa(p.ID)))
	assert.Equal(t, fmt.Sprintf(locNoSuchPoll, strconv.Itoa(p.ID)), bot.lastText(t))
}
