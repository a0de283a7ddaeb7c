package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tg "github.com/semog/go-bot-api/v4"
	"github.com/semog/rankbot/ballot"
	"k8s.io/klog"
)

func handleCallbackQuery(bot messenger, update tg.Update, st Store) error {
	data := update.CallbackQuery.Data
	if data == "" || data == qryDummy {
		return sendToastMessage(bot, update, "")
	}

	if data == qryCreatePoll {
		return sendNewContestMessage(bot, update, st)
	}

	if strings.HasPrefix(data, qryPollDone) {
		return handlePollDoneQuery(bot, update, st)
	}

	switch data[0] {
	case qryRankPayload:
		return handleRankQuery(bot, update, st)
	case qryEditPayload:
		return handlePollEditQuery(bot, update, st)
	}
	sendToastMessage(bot, update, "")
	return fmt.Errorf("unknown query %q", data)
}

// handleRankQuery applies a selector change: the pressed candidate takes the
// value from the button, conflicting candidates move down until nothing
// collides, and every selector that moved is saved.
func handleRankQuery(bot messenger, update tg.Update, st Store) error {
	pollID, candID, value, err := parseRankPayload(update.CallbackQuery.Data)
	if err != nil {
		sendToastMessage(bot, update, locErrUpdatingPoll)
		return fmt.Errorf("could not parse query payload: %v", err)
	}

	userID, err := getUpdateUserID(update)
	if err != nil {
		sendToastMessage(bot, update, locInvalidUser)
		return err
	}

	p, err := st.GetPoll(pollID)
	if err != nil {
		sendToastMessage(bot, update, locErrUpdatingPoll)
		return fmt.Errorf("could not get poll: %v", err)
	}
	if p.isClosed() {
		sendToastMessage(bot, update, locPollIsClosed)
		return fmt.Errorf("poll %d is closed", pollID)
	}
	c, err := p.findCandidate(candID)
	if err != nil {
		sendToastMessage(bot, update, locErrUpdatingPoll)
		return err
	}

	values, err := st.GetSelectors(pollID, userID)
	if err != nil {
		sendToastMessage(bot, update, locErrUpdatingPoll)
		return fmt.Errorf("could not get selectors: %v", err)
	}
	changed, moved, err := applyRank(p, values, candID, value)
	if err != nil {
		sendToastMessage(bot, update, locErrUpdatingPoll)
		return err
	}
	if err := st.SaveSelectors(pollID, userID, changed); err != nil {
		sendToastMessage(bot, update, locErrUpdatingPoll)
		return fmt.Errorf("could not save selectors: %v", err)
	}

	if msg := update.CallbackQuery.Message; msg != nil && msg.Chat != nil {
		err = st.AddBallotMsg(pollID, ballotMsg{UserID: userID, ChatID: msg.Chat.ID, MessageID: msg.MessageID})
		if err != nil {
			klog.Infof("could not add ballot message: %v", err)
		}
	}
	ballotsToRender.enqueue(renderKey{PollID: pollID, UserID: userID})

	rank := ballot.ParseRank(value)
	var popupText string
	switch {
	case !rank.Ranked():
		popupText = fmt.Sprintf(locUnranked, c.Text)
	case moved > 0:
		popupText = fmt.Sprintf(locRankedBumped, c.Text, rank, moved)
	default:
		popupText = fmt.Sprintf(locRanked, c.Text, rank)
	}
	return sendToastMessage(bot, update, popupText)
}

// applyRank sets candidate candID of a voter to value and settles the
// conflicts that causes. It returns the selector values to save and how many
// other candidates moved. The pressed candidate is saved with value as given.
func applyRank(p *poll, values selectorValues, candID int, value string) (selectorValues, int, error) {
	before, err := p.state(values)
	if err != nil {
		return nil, 0, fmt.Errorf("could not build ballot state: %v", err)
	}
	id := strconv.Itoa(candID)
	set, err := before.Set(id, ballot.ParseRank(value))
	if err != nil {
		return nil, 0, fmt.Errorf("could not set rank: %v", err)
	}
	after, err := ballot.Settle(set, id, nil)
	if errors.Is(err, ballot.ErrUnsettled) {
		// keep what was resolved so far
		klog.Infof("ballot of poll #%d did not settle: %v", p.ID, err)
	} else if err != nil {
		return nil, 0, fmt.Errorf("could not settle ranks: %v", err)
	}

	changed := selectorValues{candID: value}
	moved := 0
	for _, selID := range after.Changed(set) {
		sel, _ := after.Lookup(selID)
		changed[candidateID(selID)] = sel.Rank.String()
		moved++
	}
	return changed, moved, nil
}

func parseRankPayload(data string) (pollID int, candID int, value string, err error) {
	dataSplit := strings.SplitN(data, ":", 4)
	if len(dataSplit) != 4 || dataSplit[0] != string(qryRankPayload) {
		return pollID, candID, value, fmt.Errorf("could not parse response %q", data)
	}
	pollID, err = strconv.Atoi(dataSplit[1])
	if err != nil {
		return pollID, candID, value, fmt.Errorf("could not convert CallbackQuery data pollID to int: %v", err)
	}
	candID, err = strconv.Atoi(dataSplit[2])
	if err != nil {
		return pollID, candID, value, fmt.Errorf("could not convert CallbackQuery data candidateID to int: %v", err)
	}
	return pollID, candID, dataSplit[3], nil
}

// renderBallotMessages re-renders every ballot message of one voter.
func renderBallotMessages(bot messenger, key renderKey, st Store) error {
	p, err := st.GetPoll(key.PollID)
	if err != nil {
		return fmt.Errorf("could not find poll #%d: %v", key.PollID, err)
	}
	values, err := st.GetSelectors(key.PollID, key.UserID)
	if err != nil {
		return fmt.Errorf("could not get selectors: %v", err)
	}
	s, err := p.state(values)
	if err != nil {
		return fmt.Errorf("could not build ballot state: %v", err)
	}

	var ed tg.EditMessageTextConfig
	ed.Text = buildBallotText(p, ballot.Summarize(s))
	ed.ParseMode = tg.ModeHTML
	if !p.isClosed() {
		ed.ReplyMarkup = buildBallotMarkup(p, s)
	}

	msgs, err := st.GetBallotMsgs(key.PollID, key.UserID)
	if err != nil {
		return fmt.Errorf("could not get ballot messages: %v", err)
	}
	for _, msg := range msgs {
		ed.ChatID = msg.ChatID
		ed.MessageID = msg.MessageID
		if _, err := bot.Send(ed); err != nil {
			klog.Infof("could not update ballot message %d/%d: %v", msg.ChatID, msg.MessageID, err)
		}
	}
	return nil
}

// enqueueAllBallots schedules a re-render for every voter holding a ballot message.
func enqueueAllBallots(st Store, pollID int) error {
	msgs, err := st.GetAllBallotMsgs(pollID)
	if err != nil {
		return fmt.Errorf("could not get ballot messages: %v", err)
	}
	voters := make([]int, 0)
	for _, msg := range msgs {
		if intrg_contains(voters, msg.UserID) {
			continue
		}
		voters = append(voters, msg.UserID)
		ballotsToRender.enqueue(renderKey{PollID: pollID, UserID: msg.UserID})
	}
	return nil
}

func handlePollDoneQuery(bot messenger, update tg.Update, st Store) error {
	splits := strings.Split(update.CallbackQuery.Data, ":")
	if len(splits) < 2 {
		return fmt.Errorf("query did not contain the pollID")
	}
	pollID, err := strconv.Atoi(splits[1])
	if err != nil {
		return fmt.Errorf("could not convert string payload to int: %v", err)
	}

	userID, err := getUpdateUserID(update)
	if err != nil {
		return err
	}
	p, err := st.GetUserPoll(pollID, userID)
	if err != nil {
		sendToastMessage(bot, update, locErrUpdatingPoll)
		return fmt.Errorf("could not get poll: %v", err)
	}
	sendToastMessage(bot, update, "")
	_, err = sendEditMessage(bot, int64(userID), p)
	if err != nil {
		return fmt.Errorf("could not edit finished poll: %v", err)
	}
	err = st.SaveState(userID, p.ID, pollDone)
	if err != nil {
		return fmt.Errorf("could not change state to poll done: %v", err)
	}
	return enqueueAllBallots(st, p.ID)
}

func handlePollEditQuery(bot messenger, update tg.Update, st Store) error {
	splits := strings.Split(update.CallbackQuery.Data, ":")
	if len(splits) < 3 {
		klog.Infoln(splits)
		sendToastMessage(bot, update, locErrUpdatingPoll)
		return fmt.Errorf("query wrongly formatted")
	}
	pollID, err := strconv.Atoi(splits[1])
	if err != nil {
		sendToastMessage(bot, update, locErrUpdatingPoll)
		return fmt.Errorf("could not convert string payload to int: %v", err)
	}
	userID, err := getUpdateUserID(update)
	if err != nil {
		return err
	}
	p, err := st.GetUserPoll(pollID, userID)
	if err != nil {
		sendToastMessage(bot, update, locErrUpdatingPoll)
		return fmt.Errorf("could not get poll: %v", err)
	}

	switch splits[2] {
	case qryToggleClosed:
		if p.Closed == open {
			p.Closed = closed
		} else {
			p.Closed = open
		}
		if _, err = st.SavePoll(p); err != nil {
			sendToastMessage(bot, update, locErrUpdatingPoll)
			return fmt.Errorf("could not save toggled closed state: %v", err)
		}
		sendToastMessage(bot, update, "")
	case qryAddCandidates:
		if err = st.SaveState(userID, pollID, waitingForCandidate); err != nil {
			sendToastMessage(bot, update, locErrUpdatingPoll)
			return err
		}
		sendToastMessage(bot, update, "")
		if _, err = sendInterMessage(bot, int64(userID), p); err != nil {
			return fmt.Errorf("could not send inter message: %v", err)
		}
		return nil
	default:
		sendToastMessage(bot, update, locErrUpdatingPoll)
		return fmt.Errorf("query wrongly formatted")
	}

	if msg := update.CallbackQuery.Message; msg != nil && msg.Chat != nil {
		var ed tg.EditMessageTextConfig
		ed.Text = getSelectedPollHeader(p) + getFormattedPreviewPoll(p)
		ed.ParseMode = tg.ModeHTML
		ed.ReplyMarkup = buildEditMarkup(p)
		ed.ChatID = msg.Chat.ID
		ed.MessageID = msg.MessageID
		if _, err = bot.Send(ed); err != nil {
			klog.Infof("could not update message: %v\n", err)
		}
	}
	return enqueueAllBallots(st, p.ID)
}
