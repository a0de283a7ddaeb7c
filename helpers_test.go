package main

import (
	"path/filepath"
	"testing"

	tg "github.com/semog/go-bot-api/v4"
	"github.com/stretchr/testify/require"
)

// fakeBot records what the handlers send.
type fakeBot struct {
	sent   []tg.Chattable
	toasts []tg.CallbackConfig
	inline []tg.InlineConfig
	nextID int
}

func (b *fakeBot) Send(c tg.Chattable) (tg.Message, error) {
	b.sent = append(b.sent, c)
	b.nextID++
	return tg.Message{MessageID: b.nextID}, nil
}

func (b *fakeBot) AnswerCallbackQuery(config tg.CallbackConfig) (tg.APIResponse, error) {
	b.toasts = append(b.toasts, config)
	return tg.APIResponse{Ok: true}, nil
}

func (b *fakeBot) AnswerInlineQuery(config tg.InlineConfig) (tg.APIResponse, error) {
	b.inline = append(b.inline, config)
	return tg.APIResponse{Ok: true}, nil
}

func (b *fakeBot) messages(t *testing.T) []tg.MessageConfig {
	t.Helper()
	var out []tg.MessageConfig
	for _, c := range b.sent {
		if m, ok := c.(tg.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (b *fakeBot) lastText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, b.sent)
	switch c := b.sent[len(b.sent)-1].(type) {
	case tg.MessageConfig:
		return c.Text
	case tg.EditMessageTextConfig:
		return c.Text
	}
	t.Fatalf("unexpected chattable %T", b.sent[len(b.sent)-1])
	return ""
}

func newTestStore(t *testing.T) *sqlStore {
	t.Helper()
	st, err := newSQLStore(filepath.Join(t.TempDir(), "rankbot_test.db"))
	require.NoError(t, err)
	t.Cleanup(st.Close)
	return st
}

// newTestPoll stores a poll of owner with the given candidates.
func newTestPoll(t *testing.T, st Store, owner int, contest string, names ...string) *poll {
	t.Helper()
	id, err := st.SavePoll(&poll{UserID: owner, Contest: contest})
	require.NoError(t, err)
	candidates := make([]candidate, len(names))
	for i, n := range names {
		candidates[i] = candidate{PollID: id, Text: n}
	}
	if len(candidates) > 0 {
		require.NoError(t, st.SaveCandidates(candidates))
	}
	p, err := st.GetPoll(id)
	require.NoError(t, err)
	return p
}

func drainRenderQueue() []renderKey {
	var keys []renderKey
	for ballotsToRender.pending() > 0 {
		keys = append(keys, ballotsToRender.dequeue())
	}
	return keys
}

func rankCallback(userID int, data string) tg.Update {
	return tg.Update{CallbackQuery: &tg.CallbackQuery{
		ID:      "query",
		From:    &tg.User{ID: userID, UserName: "voter"},
		Data:    data,
		Message: &tg.Message{MessageID: 50, Chat: &tg.Chat{ID: int64(userID)}},
	}}
}
