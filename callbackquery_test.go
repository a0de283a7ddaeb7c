package main

import (
	"fmt"
	"testing"

	tg "github.com/semog/go-bot-api/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeCandidatePoll() *poll {
	return &poll{ID: 1, UserID: 1, Contest: "board", Candidates: []candidate{
		{ID: 11, PollID: 1, Text: "Alice"},
		{ID: 12, PollID: 1, Text: "Bob"},
		{ID: 13, PollID: 1, Text: "Carol"},
	}}
}

func TestParseRankPayload(t *testing.T) {
	tests := []struct {
		data    string
		pollID  int
		candID  int
		value   string
		wantErr bool
	}{
		{data: "r:1:11:2", pollID: 1, candID: 11, value: "2"},
		{data: "r:1:11:0", pollID: 1, candID: 11, value: "0"},
		{data: "r:1:11:a:b", pollID: 1, candID: 11, value: "a:b"},
		{data: "r:1:11:", pollID: 1, candID: 11, value: ""},
		{data: "r:1:11", wantErr: true},
		{data: "e:1:11:2", wantErr: true},
		{data: "r:x:11:2", wantErr: true},
		{data: "r:1:y:2", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			pollID, candID, value, err := parseRankPayload(tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.pollID, pollID)
			assert.Equal(t, tt.candID, candID)
			assert.Equal(t, tt.value, value)
		})
	}
}

func TestApplyRank(t *testing.T) {
	p := threeCandidatePoll()

	tests := []struct {
		name   string
		values selectorValues
		candID int
		value  string
		want   selectorValues
		moved  int
	}{
		{
			name:   "free rank",
			values: selectorValues{11: "1"},
			candID: 12, value: "2",
			want: selectorValues{12: "2"},
		},
		{
			name:   "cascade",
			values: selectorValues{11: "1", 12: "2"},
			candID: 13, value: "1",
			want:  selectorValues{13: "1", 11: "2", 12: "3"},
			moved: 2,
		},
		{
			name:   "bump stops at a gap",
			values: selectorValues{11: "1", 12: "3"},
			candID: 13, value: "1",
			want:  selectorValues{13: "1", 11: "2"},
			moved: 1,
		},
		{
			name:   "clear",
			values: selectorValues{11: "1", 12: "2"},
			candID: 11, value: "0",
			want: selectorValues{11: "0"},
		},
		{
			name:   "malformed value is kept as given",
			values: selectorValues{11: "1"},
			candID: 12, value: "abc",
			want: selectorValues{12: "abc"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed, moved, err := applyRank(p, tt.values, tt.candID, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, changed)
			assert.Equal(t, tt.moved, moved)
		})
	}

	_, _, err := applyRank(p, nil, 99, "1")
	assert.Error(t, err)
}

func TestHandleRankQuery(t *testing.T) {
	st := newTestStore(t)
	p := newTestPoll(t, st, 1, "board", "Alice", "Bob")
	alice, bob := p.Candidates[0].ID, p.Candidates[1].ID
	drainRenderQueue()
	bot := &fakeBot{}

	require.NoError(t, handleRankQuery(bot, rankCallback(7, p.fmtRankQuery(bob, "1")), st))
	values, err := st.GetSelectors(p.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, selectorValues{bob: "1"}, values)
	require.Len(t, bot.toasts, 1)
	assert.Equal(t, "Bob is now your choice #1.", bot.toasts[0].Text)

	require.NoError(t, handleRankQuery(bot, rankCallback(7, p.fmtRankQuery(alice, "1")), st))
	values, err = st.GetSelectors(p.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, selectorValues{alice: "1", bob: "2"}, values)
	assert.Equal(t, "Alice is now your choice #1, 1 other choice(s) moved down.", bot.toasts[1].Text)

	require.NoError(t, handleRankQuery(bot, rankCallback(7, p.fmtRankQuery(bob, "0")), st))
	assert.Equal(t, "Bob is no longer ranked.", bot.toasts[2].Text)

	// three presses, one pending render
	assert.Equal(t, []renderKey{{PollID: p.ID, UserID: 7}}, drainRenderQueue())

	msgs, err := st.GetBallotMsgs(p.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, []ballotMsg{{UserID: 7, ChatID: 7, MessageID: 50}}, msgs)
}

func TestHandleRankQuery_Rejected(t *testing.T) {
	st := newTestStore(t)
	p := newTestPoll(t, st, 1, "board", "Alice")
	drainRenderQueue()
	bot := &fakeBot{}

	err := handleRankQuery(bot, rankCallback(7, p.fmtRankQuery(12345, "1")), st)
	assert.Error(t, err)
	assert.Equal(t, locErrUpdatingPoll, bot.toasts[0].Text)

	p.Closed = closed
	_, err = st.SavePoll(p)
	require.NoError(t, err)
	err = handleRankQuery(bot, rankCallback(7, p.fmtRankQuery(p.Candidates[0].ID, "1")), st)
	assert.Error(t, err)
	assert.Equal(t, locPollIsClosed, bot.toasts[1].Text)

	values, err := st.GetSelectors(p.ID, 7)
	require.NoError(t, err)
	assert.Empty(t, values)
	assert.Empty(t, drainRenderQueue())
}

func TestRenderBallotMessages(t *testing.T) {
	st := newTestStore(t)
	p := newTestPoll(t, st, 1, "board", "Alice", "Bob")
	alice, bob := p.Candidates[0].ID, p.Candidates[1].ID
	require.NoError(t, st.SaveSelectors(p.ID, 7, selectorValues{alice: "2", bob: "1"}))
	require.NoError(t, st.AddBallotMsg(p.ID, ballotMsg{UserID: 7, ChatID: 70, MessageID: 1}))
	require.NoError(t, st.AddBallotMsg(p.ID, ballotMsg{UserID: 7, ChatID: 71, MessageID: 2}))
	bot := &fakeBot{}

	require.NoError(t, renderBallotMessages(bot, renderKey{PollID: p.ID, UserID: 7}, st))
	require.Len(t, bot.sent, 2)
	for i, c := range bot.sent {
		ed, ok := c.(tg.EditMessageTextConfig)
		require.True(t, ok)
		assert.Equal(t, int64(70+i), ed.ChatID)
		assert.Equal(t, i+1, ed.MessageID)
		assert.Contains(t, ed.Text, "\n1. Bob\n2. Alice")
		assert.NotNil(t, ed.ReplyMarkup)
	}

	assert.Error(t, renderBallotMessages(bot, renderKey{PollID: 999, UserID: 7}, st))
}

func TestHandlePollEditQuery_ToggleClosed(t *testing.T) {
	st := newTestStore(t)
	p := newTestPoll(t, st, 1, "board", "Alice")
	require.NoError(t, st.AddBallotMsg(p.ID, ballotMsg{UserID: 7, ChatID: 7, MessageID: 3}))
	drainRenderQueue()
	bot := &fakeBot{}

	update := rankCallback(1, p.fmtQuery(qryToggleClosed))
	require.NoError(t, handleCallbackQuery(bot, update, st))

	got, err := st.GetPoll(p.ID)
	require.NoError(t, err)
	assert.True(t, got.isClosed())
	assert.Contains(t, bot.lastText(t), fmt.Sprintf(locCurrentlySelectedPoll, p.ID))
	assert.Equal(t, []renderKey{{PollID: p.ID, UserID: 7}}, drainRenderQueue())

	require.NoError(t, handleCallbackQuery(bot, update, st))
	got, err = st.GetPoll(p.ID)
	require.NoError(t, err)
	assert.False(t, got.isClosed())
	drainRenderQueue()

	// only the owner edits
	assert.Error(t, handleCallbackQuery(bot, rankCallback(7, p.fmtQuery(qryToggleClosed)), st))
}

func TestHandleCallbackQuery_Unknown(t *testing.T) {
	st := newTestStore(t)
	bot := &fakeBot{}

	assert.NoError(t, handleCallbackQuery(bot, rankCallback(7, qryDummy), st))
	assert.Error(t, handleCallbackQuery(bot, rankCallback(7, "zzz"), st))
	assert.Len(t, bot.toasts, 2)
}

func TestEnqueueAllBallots(t *testing.T) {
	st := newTestStore(t)
	drainRenderQueue()
	require.NoError(t, st.AddBallotMsg(4, ballotMsg{UserID: 8, ChatID: 8, MessageID: 1}))
	require.NoError(t, st.AddBallotMsg(4, ballotMsg{UserID: 7, ChatID: 7, MessageID: 1}))
	require.NoError(t, st.AddBallotMsg(4, ballotMsg{UserID: 7, ChatID: -100, MessageID: 9}))

	require.NoError(t, enqueueAllBallots(st, 4))
	assert.Equal(t, []renderKey{{PollID: 4, UserID: 7}, {PollID: 4, UserID: 8}}, drainRenderQueue())
}
